// Package synthfs runs operation plans through a synthfs pipeline on the
// real filesystem. The direct executor in pkg/ops covers tests and the
// in-memory filesystem; this one is what commands use against an actual
// game tree.
package synthfs

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/arthur-debert/beastpak/pkg/errors"
	"github.com/arthur-debert/beastpak/pkg/logging"
	"github.com/arthur-debert/beastpak/pkg/ops"
	"github.com/arthur-debert/beastpak/pkg/paths"
	"github.com/arthur-debert/synthfs/pkg/synthfs"
	"github.com/arthur-debert/synthfs/pkg/synthfs/core"
	"github.com/arthur-debert/synthfs/pkg/synthfs/filesystem"
	"github.com/arthur-debert/synthfs/pkg/synthfs/operations"
	"github.com/rs/zerolog"
)

// Executor translates an ops.Plan into synthfs operations and executes
// them as one pipeline. Every target is validated against the
// beastpak-controlled directories first.
type Executor struct {
	logger     zerolog.Logger
	dryRun     bool
	filesystem synthfs.FileSystem
	paths      paths.Paths
}

// NewExecutor creates a synthfs-backed executor rooted at the real
// filesystem.
func NewExecutor(p paths.Paths, dryRun bool) *Executor {
	return &Executor{
		logger:     logging.GetLogger("synthfs"),
		dryRun:     dryRun,
		filesystem: filesystem.NewOSFileSystem("/"),
		paths:      p,
	}
}

// Apply implements ops.Executor.
func (e *Executor) Apply(ctx context.Context, plan *ops.Plan) error {
	if e.dryRun {
		e.logger.Info().Msg("dry run, operations that would be executed:")
		for _, op := range plan.Operations {
			e.logOperation(op)
		}
		return nil
	}

	// synthfs create operations refuse existing targets, so overwrites
	// clear the old file first. Backups were planned before this point.
	for _, op := range plan.Operations {
		if op.Kind != ops.KindWriteFile && op.Kind != ops.KindCopyFile {
			continue
		}
		if _, err := os.Lstat(op.Target); err == nil {
			e.logger.Debug().Str("target", op.Target).Msg("removing existing file before overwrite")
			if err := os.Remove(op.Target); err != nil {
				e.logger.Warn().Err(err).Str("target", op.Target).Msg("failed to remove existing file")
			}
		}
	}

	synthOps := make([]synthfs.Operation, 0, len(plan.Operations))
	for _, op := range plan.Operations {
		converted, err := e.convert(op)
		if err != nil {
			return err
		}
		if converted != nil {
			synthOps = append(synthOps, converted)
		}
	}

	if len(synthOps) == 0 {
		e.logger.Debug().Msg("nothing to execute")
		return nil
	}

	pipeline := synthfs.NewMemPipeline()
	for _, op := range synthOps {
		if err := pipeline.Add(op); err != nil {
			return errors.Wrap(err, errors.ErrIOFailure, "failed to add operation to pipeline")
		}
	}

	executor := synthfs.NewExecutor()
	e.logger.Info().Int("operationCount", len(synthOps)).Msg("executing operations")

	result := executor.Run(ctx, pipeline, e.filesystem)
	if result.GetError() != nil {
		e.logger.Error().Err(result.GetError()).Msg("pipeline execution failed")
		return errors.Wrap(result.GetError(), errors.ErrIOFailure, "failed to execute operations")
	}

	return nil
}

func (e *Executor) convert(op ops.Operation) (synthfs.Operation, error) {
	switch op.Kind {
	case ops.KindCreateDir:
		return e.convertCreateDir(op)
	case ops.KindWriteFile:
		return e.convertWriteFile(op)
	case ops.KindCopyFile:
		return e.convertCopyFile(op)
	case ops.KindDelete:
		return e.convertDelete(op)
	default:
		return nil, errors.Newf(errors.ErrInternal, "unsupported operation kind %q", op.Kind)
	}
}

func (e *Executor) convertCreateDir(op ops.Operation) (synthfs.Operation, error) {
	if err := e.validateSafePath(op.Target); err != nil {
		return nil, err
	}

	mode := op.Mode
	if mode == 0 {
		mode = 0755
	}

	relPath, err := filepath.Rel("/", op.Target)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "failed to convert path %s", op.Target)
	}

	opID := core.OperationID(fmt.Sprintf("create-dir-%s", op.Target))
	createOp := operations.NewCreateDirectoryOperation(opID, relPath)
	createOp.SetItem(&directoryItem{path: relPath, mode: mode})

	return synthfs.NewOperationsPackageAdapter(createOp), nil
}

func (e *Executor) convertWriteFile(op ops.Operation) (synthfs.Operation, error) {
	if err := e.validateSafePath(op.Target); err != nil {
		return nil, err
	}

	mode := op.Mode
	if mode == 0 {
		mode = 0644
	}

	relPath, err := filepath.Rel("/", op.Target)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "failed to convert path %s", op.Target)
	}

	opID := core.OperationID(fmt.Sprintf("write-file-%s", op.Target))
	createOp := operations.NewCreateFileOperation(opID, relPath)
	createOp.SetItem(&fileItem{path: relPath, content: op.Content, mode: mode})

	return synthfs.NewOperationsPackageAdapter(createOp), nil
}

func (e *Executor) convertCopyFile(op ops.Operation) (synthfs.Operation, error) {
	if err := e.validateSafePath(op.Target); err != nil {
		return nil, err
	}

	relSource, err := filepath.Rel("/", op.Source)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "failed to convert source path %s", op.Source)
	}
	relTarget, err := filepath.Rel("/", op.Target)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "failed to convert target path %s", op.Target)
	}

	opID := core.OperationID(fmt.Sprintf("copy-%s-to-%s", filepath.Base(op.Source), op.Target))
	copyOp := operations.NewCopyOperation(opID, relTarget)
	copyOp.SetPaths(relSource, relTarget)

	return synthfs.NewOperationsPackageAdapter(copyOp), nil
}

func (e *Executor) convertDelete(op ops.Operation) (synthfs.Operation, error) {
	if err := e.validateSafePath(op.Target); err != nil {
		return nil, err
	}

	// Deleting something already gone is a planned no-op
	if _, err := os.Lstat(op.Target); err != nil {
		if os.IsNotExist(err) {
			e.logger.Debug().Str("target", op.Target).Msg("delete target already absent")
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrIOFailure, "failed to check %s", op.Target)
	}

	relPath, err := filepath.Rel("/", op.Target)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "failed to convert path %s", op.Target)
	}

	opID := core.OperationID(fmt.Sprintf("delete-%s", op.Target))
	return synthfs.NewOperationsPackageAdapter(operations.NewDeleteOperation(opID, relPath)), nil
}

// validateSafePath ensures the target is inside a directory beastpak is
// allowed to change: the game tree or its own XDG directories.
func (e *Executor) validateSafePath(path string) error {
	normalized, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrapf(err, errors.ErrInvalidInput, "failed to normalize path %s", path)
	}

	safeDirs := []string{
		e.paths.DataDir(),
		e.paths.ConfigDir(),
		e.paths.StateDir(),
	}
	if gameDir := e.paths.GameDir(); gameDir != "" {
		safeDirs = append(safeDirs, gameDir)
	}

	for _, dir := range safeDirs {
		if isPathWithin(normalized, dir) {
			return nil
		}
	}

	return errors.Newf(errors.ErrInvalidInput,
		"operation target is outside beastpak-controlled directories: %s", path)
}

// isPathWithin checks if a path is inside a parent directory.
func isPathWithin(path, parent string) bool {
	path = filepath.Clean(path)
	parent = filepath.Clean(parent)

	rel, err := filepath.Rel(parent, path)
	if err != nil {
		return false
	}
	return !strings.HasPrefix(rel, "..") && !strings.HasPrefix(rel, "/")
}

func (e *Executor) logOperation(op ops.Operation) {
	logger := e.logger.With().Str("kind", string(op.Kind)).Logger()

	switch op.Kind {
	case ops.KindCreateDir:
		logger.Info().Str("target", op.Target).Msg("would create directory")
	case ops.KindWriteFile:
		logger.Info().Str("target", op.Target).Int("contentLen", len(op.Content)).Msg("would write file")
	case ops.KindCopyFile:
		logger.Info().Str("source", op.Source).Str("target", op.Target).Msg("would copy file")
	case ops.KindDelete:
		logger.Info().Str("target", op.Target).Msg("would delete")
	default:
		logger.Info().Msg("would execute operation")
	}
}

// fileItem implements the item interface for file operations
type fileItem struct {
	path    string
	content []byte
	mode    fs.FileMode
}

func (f *fileItem) Path() string       { return f.path }
func (f *fileItem) Type() string       { return "file" }
func (f *fileItem) Content() []byte    { return f.content }
func (f *fileItem) Mode() fs.FileMode  { return f.mode }
func (f *fileItem) IsDir() bool        { return false }
func (f *fileItem) ModTime() time.Time { return time.Now() }
func (f *fileItem) Size() int64        { return int64(len(f.content)) }

// directoryItem implements the item interface for directory operations
type directoryItem struct {
	path string
	mode fs.FileMode
}

func (d *directoryItem) Path() string       { return d.path }
func (d *directoryItem) Type() string       { return "directory" }
func (d *directoryItem) Mode() fs.FileMode  { return d.mode }
func (d *directoryItem) IsDir() bool        { return true }
func (d *directoryItem) ModTime() time.Time { return time.Now() }
func (d *directoryItem) Size() int64        { return 0 }
