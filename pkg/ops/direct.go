package ops

import (
	"context"
	"os"
	"path/filepath"

	"github.com/arthur-debert/beastpak/pkg/errors"
	"github.com/arthur-debert/beastpak/pkg/logging"
	"github.com/arthur-debert/beastpak/pkg/types"
)

// DirectExecutor applies plans straight through the FS abstraction.
// It is the default executor and the one every test runs on.
type DirectExecutor struct {
	fs types.FS
}

// NewDirect creates a DirectExecutor over the given filesystem.
func NewDirect(fs types.FS) *DirectExecutor {
	return &DirectExecutor{fs: fs}
}

// Apply runs the plan in order, stopping at the first failure.
func (e *DirectExecutor) Apply(ctx context.Context, plan *Plan) error {
	logger := logging.GetLogger("ops")

	for _, op := range plan.Operations {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, errors.ErrIOFailure, "plan cancelled")
		}

		if err := e.apply(op); err != nil {
			return err
		}

		logger.Trace().
			Str("kind", string(op.Kind)).
			Str("target", op.Target).
			Msg("operation applied")
	}

	return nil
}

func (e *DirectExecutor) apply(op Operation) error {
	switch op.Kind {
	case KindCreateDir:
		if err := e.fs.MkdirAll(op.Target, dirMode(op.Mode)); err != nil {
			return errors.Wrapf(err, errors.ErrIOFailure, "failed to create directory %s", op.Target)
		}
		return nil

	case KindWriteFile:
		if err := e.ensureParent(op.Target); err != nil {
			return err
		}
		if err := e.fs.WriteFile(op.Target, op.Content, fileMode(op.Mode)); err != nil {
			return errors.Wrapf(err, errors.ErrIOFailure, "failed to write %s", op.Target)
		}
		return nil

	case KindCopyFile:
		content, err := e.fs.ReadFile(op.Source)
		if err != nil {
			return errors.Wrapf(err, errors.ErrIOFailure, "failed to read %s", op.Source)
		}
		if err := e.ensureParent(op.Target); err != nil {
			return err
		}
		if err := e.fs.WriteFile(op.Target, content, fileMode(op.Mode)); err != nil {
			return errors.Wrapf(err, errors.ErrIOFailure, "failed to copy to %s", op.Target)
		}
		return nil

	case KindDelete:
		if _, err := e.fs.Stat(op.Target); err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return errors.Wrapf(err, errors.ErrIOFailure, "failed to check %s", op.Target)
		}
		if err := e.fs.RemoveAll(op.Target); err != nil {
			return errors.Wrapf(err, errors.ErrIOFailure, "failed to delete %s", op.Target)
		}
		return nil

	default:
		return errors.Newf(errors.ErrInternal, "unsupported operation kind %q", op.Kind)
	}
}

func (e *DirectExecutor) ensureParent(path string) error {
	dir := filepath.Dir(path)
	if err := e.fs.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrIOFailure, "failed to create directory %s", dir)
	}
	return nil
}

func dirMode(mode os.FileMode) os.FileMode {
	if mode == 0 {
		return 0755
	}
	return mode
}

func fileMode(mode os.FileMode) os.FileMode {
	if mode == 0 {
		return 0644
	}
	return mode
}
