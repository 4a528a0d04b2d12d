// Package saves copies the player's save tree aside before modded data
// goes live. Save locations differ per install (Steam cloud, GOG, local
// profiles), so the manager works from a configured candidate list and
// refuses to guess when more than one candidate actually exists.
package saves

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/arthur-debert/beastpak/pkg/errors"
	"github.com/arthur-debert/beastpak/pkg/logging"
	"github.com/arthur-debert/beastpak/pkg/types"
)

// backupPrefix starts every backup directory name.
const backupPrefix = "save_backup_"

// Manager copies save trees into timestamped backup directories.
type Manager struct {
	fs         types.FS
	backupsDir string
}

// NewManager creates a Manager writing under the given backups directory.
func NewManager(fs types.FS, backupsDir string) *Manager {
	return &Manager{fs: fs, backupsDir: backupsDir}
}

// Backup copies the one existing candidate save root into a fresh
// save_backup_<timestamp> directory. Zero existing candidates is a
// save_root_missing error; more than one is ambiguous_save_location and
// nothing is copied. The original tree is never touched.
func (m *Manager) Backup(candidates []string) (*types.BackupEntry, error) {
	logger := logging.GetLogger("saves")

	existing, err := m.existingRoots(candidates)
	if err != nil {
		return nil, err
	}

	if len(existing) == 0 {
		return nil, errors.New(errors.ErrSaveRootMissing, "no configured save location exists").
			WithDetail("candidates", candidates)
	}
	if len(existing) > 1 {
		return nil, errors.Newf(errors.ErrAmbiguousSaveLocation,
			"%d save locations exist, refusing to pick one", len(existing)).
			WithDetail("roots", existing)
	}

	root := existing[0]
	now := time.Now().UTC()
	dest, err := m.freshBackupDir(now)
	if err != nil {
		return nil, err
	}

	if err := m.copyTree(root, dest); err != nil {
		return nil, err
	}

	logger.Info().
		Str("root", root).
		Str("backup", dest).
		Msg("save tree backed up")

	return &types.BackupEntry{
		OriginalPath: root,
		BackupPath:   dest,
		Timestamp:    now,
	}, nil
}

// existingRoots filters the candidate list down to directories that are
// actually present. Stat failures other than absence are not skipped;
// a root we cannot see could hide an ambiguity.
func (m *Manager) existingRoots(candidates []string) ([]string, error) {
	logger := logging.GetLogger("saves")

	var existing []string
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}

		info, err := m.fs.Stat(candidate)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, errors.Wrapf(err, errors.ErrIOFailure,
				"failed to check save location %s", candidate)
		}
		if !info.IsDir() {
			logger.Warn().Str("path", candidate).Msg("save location candidate is not a directory, ignoring")
			continue
		}

		existing = append(existing, candidate)
	}

	return existing, nil
}

// freshBackupDir picks an unused timestamped directory name. Two backups
// within the same second get numeric suffixes.
func (m *Manager) freshBackupDir(at time.Time) (string, error) {
	base := filepath.Join(m.backupsDir, backupPrefix+at.Format("2006-01-02_15-04-05"))

	dest := base
	for n := 2; ; n++ {
		if _, err := m.fs.Stat(dest); err != nil {
			if os.IsNotExist(err) {
				return dest, nil
			}
			return "", errors.Wrapf(err, errors.ErrIOFailure, "failed to check %s", dest)
		}
		dest = fmt.Sprintf("%s_%d", base, n)
	}
}

// copyTree duplicates src into dest recursively, reading only from the
// source side.
func (m *Manager) copyTree(src, dest string) error {
	if err := m.fs.MkdirAll(dest, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrIOFailure, "failed to create %s", dest)
	}

	entries, err := m.fs.ReadDir(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrIOFailure, "failed to read %s", src)
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		destPath := filepath.Join(dest, entry.Name())

		if entry.IsDir() {
			if err := m.copyTree(srcPath, destPath); err != nil {
				return err
			}
			continue
		}

		content, err := m.fs.ReadFile(srcPath)
		if err != nil {
			return errors.Wrapf(err, errors.ErrIOFailure, "failed to read %s", srcPath)
		}
		if err := m.fs.WriteFile(destPath, content, 0644); err != nil {
			return errors.Wrapf(err, errors.ErrIOFailure, "failed to write %s", destPath)
		}
	}

	return nil
}
