// Package pak assembles and installs beastpak's own game package. The
// engine loads packages that are plain zip containers with uncompressed
// entries, so assembly uses the zip Store method and happens entirely in
// memory before a single write touches the game tree.
package pak

import (
	"archive/zip"
	"bytes"
	"context"
	"path"
	"sort"
	"strings"

	"github.com/arthur-debert/beastpak/pkg/errors"
	"github.com/arthur-debert/beastpak/pkg/layout"
	"github.com/arthur-debert/beastpak/pkg/logging"
	"github.com/arthur-debert/beastpak/pkg/ops"
	"github.com/arthur-debert/beastpak/pkg/types"
)

// Assemble builds the package archive from a map of entry names
// (slash-separated, relative) to contents. Entries are stored
// uncompressed in sorted name order, so identical inputs produce
// identical bytes.
func Assemble(files map[string][]byte) ([]byte, error) {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	for _, name := range names {
		clean, err := entryName(name)
		if err != nil {
			return nil, err
		}

		entry, err := w.CreateHeader(&zip.FileHeader{
			Name:   clean,
			Method: zip.Store,
		})
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrInternal, "failed to add %s to package", clean)
		}
		if _, err := entry.Write(files[name]); err != nil {
			return nil, errors.Wrapf(err, errors.ErrInternal, "failed to write %s into package", clean)
		}
	}

	if err := w.Close(); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to finish package archive")
	}

	return buf.Bytes(), nil
}

// entryName normalizes and validates one archive entry name. Names stay
// inside the archive: no absolute paths, no parent traversal.
func entryName(name string) (string, error) {
	clean := path.Clean(strings.ReplaceAll(name, "\\", "/"))
	if name == "" || clean == "." || clean == ".." ||
		strings.HasPrefix(clean, "/") || strings.HasPrefix(clean, "../") {
		return "", errors.Newf(errors.ErrInvalidInput, "invalid package entry name %q", name)
	}
	return clean, nil
}

// Installer places an assembled package at the tool's own slot in the
// game tree.
type Installer struct {
	fs         types.FS
	layout     *layout.Layout
	executor   ops.Executor
	backupsDir string
}

// NewInstaller creates an Installer writing through the given executor.
func NewInstaller(fs types.FS, l *layout.Layout, executor ops.Executor, backupsDir string) *Installer {
	return &Installer{fs: fs, layout: l, executor: executor, backupsDir: backupsDir}
}

// InstallResult reports where the package landed and the backup taken
// when a previous package was replaced.
type InstallResult struct {
	// Path the package was written to
	Path string

	// Backup of the replaced package, nil when none existed
	Backup *types.BackupEntry
}

// Install writes the archive at the layout's own package path. Any
// previous package there is backed up before the replacement lands. The
// backup is applied separately from the write, so when the write itself
// fails the returned result still carries the backup entry and callers
// can roll the path back.
func (i *Installer) Install(ctx context.Context, archive []byte) (*InstallResult, error) {
	logger := logging.GetLogger("pak")

	dest := i.layout.OwnPackagePath()

	backupPlan := &ops.Plan{}
	backup, err := ops.PlanBackup(backupPlan, i.fs, dest, i.backupsDir)
	if err != nil {
		return nil, err
	}
	if !backupPlan.Empty() {
		if err := i.executor.Apply(ctx, backupPlan); err != nil {
			return nil, err
		}
	}

	writePlan := &ops.Plan{}
	writePlan.WriteFile(dest, archive)
	if err := i.executor.Apply(ctx, writePlan); err != nil {
		return &InstallResult{Path: dest, Backup: backup}, err
	}

	logger.Info().
		Str("path", dest).
		Int("bytes", len(archive)).
		Bool("replaced", backup != nil).
		Msg("package installed")

	return &InstallResult{Path: dest, Backup: backup}, nil
}
