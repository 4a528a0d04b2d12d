// Package builder runs the pipeline that turns tuning configuration and
// installed mods into the installed game package: resolve and merge
// overrides, deploy pending mod artifacts, render and assemble the
// package, install it, optionally back up the player saves. Each build
// produces exactly one BuildResult.
package builder

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/arthur-debert/beastpak/pkg/deploy"
	"github.com/arthur-debert/beastpak/pkg/errors"
	"github.com/arthur-debert/beastpak/pkg/layout"
	"github.com/arthur-debert/beastpak/pkg/logging"
	"github.com/arthur-debert/beastpak/pkg/merge"
	"github.com/arthur-debert/beastpak/pkg/mods"
	"github.com/arthur-debert/beastpak/pkg/ops"
	"github.com/arthur-debert/beastpak/pkg/pak"
	"github.com/arthur-debert/beastpak/pkg/saves"
	"github.com/arthur-debert/beastpak/pkg/scr"
	"github.com/arthur-debert/beastpak/pkg/tuning"
	"github.com/arthur-debert/beastpak/pkg/types"
)

// Options wire a Builder's collaborators and the configuration snapshot
// the build works from.
type Options struct {
	// FS backs the layout validation
	FS types.FS

	// Layout resolves game tree destinations
	Layout *layout.Layout

	// Executor applies rollback plans
	Executor ops.Executor

	// Mods discovers the installed mods
	Mods *mods.Manager

	// Deployer places pending mod artifacts
	Deployer *deploy.Deployer

	// Installer writes the assembled package
	Installer *pak.Installer

	// Saves backs up the player save tree; nil disables the step
	Saves *saves.Manager

	// Tuning is the configured tuning table, snapshotted at load time
	Tuning map[string]interface{}

	// SaveRoots are the candidate save locations for the backup step
	SaveRoots []string

	// BackupSaves enables the post-install save backup
	BackupSaves bool
}

// Builder drives builds through the Merging, Deploying and Packaging
// stages. At most one build runs at a time; a second Build call while one
// is in flight is refused.
type Builder struct {
	mu      sync.Mutex
	running bool

	opts Options
}

// New creates a Builder.
func New(opts Options) *Builder {
	return &Builder{opts: opts}
}

// Build runs one full build. Accepted builds always return a BuildResult;
// when the build fails the result records the terminal Failed state and
// the error carries the coded cause. Only a refused build (one already in
// flight) returns a nil result.
func (b *Builder) Build(ctx context.Context) (*types.BuildResult, error) {
	if err := b.acquire(); err != nil {
		return nil, err
	}
	defer b.release()

	logger := logging.GetLogger("builder")

	result := &types.BuildResult{
		ID:         buildID(),
		FinalState: types.BuildStateIdle,
		StartedAt:  time.Now().UTC(),
	}

	logger.Info().Str("build", result.ID).Msg("build started")

	if err := b.opts.Layout.Validate(b.opts.FS); err != nil {
		return b.fail(result, err)
	}

	// Merging resolves tuning into builtin fragments and folds the mod
	// fragments over them, later installs winning per parameter name.
	b.transition(result, types.BuildStateMerging)

	builtin, err := tuning.Resolve(b.opts.Tuning)
	if err != nil {
		return b.fail(result, err)
	}

	installed, err := b.opts.Mods.Discover()
	if err != nil {
		return b.fail(result, err)
	}

	var modFragments []types.ScriptFragment
	for _, mod := range installed {
		modFragments = append(modFragments, mod.ScriptFragments...)
	}
	merged := merge.Merge(builtin, modFragments)

	// Deploying places pending artifacts and enforces the merge helper
	// gate. Slot exhaustion arrives as skipped artifacts, not an error.
	b.transition(result, types.BuildStateDeploying)

	deployed, err := b.opts.Deployer.DeployPending(ctx, installed)
	if deployed != nil {
		for _, skipped := range deployed.Skipped {
			result.Warnings = append(result.Warnings, skipped.Message)
		}
		result.Backups = append(result.Backups, deployed.Backups...)
	}
	if err != nil {
		return b.fail(result, err)
	}

	// Packaging renders the merged scripts, assembles the archive in
	// memory and replaces the tool's own package.
	b.transition(result, types.BuildStatePackaging)

	files := make(map[string][]byte, len(merged))
	for _, target := range merge.Targets(merged) {
		files[target] = scr.Render(merged[target])
	}

	archive, err := pak.Assemble(files)
	if err != nil {
		return b.fail(result, err)
	}

	install, err := b.opts.Installer.Install(ctx, archive)
	if install != nil && install.Backup != nil {
		result.Backups = append(result.Backups, *install.Backup)
	}
	if err != nil {
		b.rollback(ctx, result.Backups, b.opts.Layout.OwnPackagePath())
		return b.fail(result, err)
	}
	result.InstalledPath = install.Path

	b.transition(result, types.BuildStateInstalled)
	result.Status = types.BuildSuccess

	// The save backup runs after the install and never fails the build
	if b.opts.BackupSaves && b.opts.Saves != nil {
		if entry, err := b.opts.Saves.Backup(b.opts.SaveRoots); err != nil {
			logger.Warn().Err(err).Msg("save backup failed")
			result.Warnings = append(result.Warnings, "save backup failed: "+err.Error())
		} else {
			result.Backups = append(result.Backups, *entry)
		}
	}

	result.FinishedAt = time.Now().UTC()
	logger.Info().
		Str("build", result.ID).
		Str("path", result.InstalledPath).
		Int("scripts", len(files)).
		Int("warnings", len(result.Warnings)).
		Msg("build installed")
	return result, nil
}

// acquire claims the single build slot.
func (b *Builder) acquire() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.running {
		return errors.New(errors.ErrBuildInProgress, "a build is already running")
	}
	b.running = true
	return nil
}

func (b *Builder) release() {
	b.mu.Lock()
	b.running = false
	b.mu.Unlock()
}

// transition advances the build state. Failed is reachable from every
// non-idle state through fail.
func (b *Builder) transition(result *types.BuildResult, next types.BuildState) {
	logger := logging.GetLogger("builder")
	logger.Debug().
		Str("build", result.ID).
		Str("from", string(result.FinalState)).
		Str("to", string(next)).
		Msg("build state change")
	result.FinalState = next
}

// fail ends the build in the Failed state, recording the cause in the
// result and passing the coded error through.
func (b *Builder) fail(result *types.BuildResult, cause error) (*types.BuildResult, error) {
	b.transition(result, types.BuildStateFailed)
	result.Status = types.BuildFailure
	result.Reason = cause.Error()
	result.FinishedAt = time.Now().UTC()

	logger := logging.GetLogger("builder")
	logger.Error().
		Str("build", result.ID).
		Err(cause).
		Msg("build failed")
	return result, cause
}

// rollback restores the newest backup taken for path during this build.
// Rollback failures are logged, never surfaced; the original failure is
// what the caller reports.
func (b *Builder) rollback(ctx context.Context, backups []types.BackupEntry, path string) {
	logger := logging.GetLogger("builder")

	for i := len(backups) - 1; i >= 0; i-- {
		if backups[i].OriginalPath != path {
			continue
		}

		plan := &ops.Plan{}
		plan.CopyFile(backups[i].BackupPath, path)
		if err := b.opts.Executor.Apply(ctx, plan); err != nil {
			logger.Error().Err(err).Str("path", path).Msg("rollback failed")
			return
		}

		logger.Info().
			Str("path", path).
			Str("backup", backups[i].BackupPath).
			Msg("restored previous package")
		return
	}

	logger.Debug().Str("path", path).Msg("nothing to roll back")
}

// buildID returns a time-ordered identifier for one build invocation.
func buildID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return id.String()
}
