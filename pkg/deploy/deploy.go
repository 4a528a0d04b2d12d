// Package deploy places mod artifacts into the game tree. Bundles and
// packages go into allocated slots, native plugins are copied loose, and
// script fragments are registered for the merger instead of being copied.
// Deployment is per-artifact: one failing or skipped artifact never rolls
// back another mod's files.
package deploy

import (
	"context"
	"path/filepath"

	"github.com/arthur-debert/beastpak/pkg/errors"
	"github.com/arthur-debert/beastpak/pkg/layout"
	"github.com/arthur-debert/beastpak/pkg/logging"
	"github.com/arthur-debert/beastpak/pkg/mergehelper"
	"github.com/arthur-debert/beastpak/pkg/ops"
	"github.com/arthur-debert/beastpak/pkg/slots"
	"github.com/arthur-debert/beastpak/pkg/state"
	"github.com/arthur-debert/beastpak/pkg/types"
)

// Deployer writes pending mod artifacts into the game installation.
type Deployer struct {
	fs           types.FS
	layout       *layout.Layout
	allocator    *slots.Allocator
	store        state.Store
	executor     ops.Executor
	helper       mergehelper.Runner
	backupsDir   string
	workspaceDir string
}

// Options configure a Deployer.
type Options struct {
	// FS is the filesystem everything is read from and written to
	FS types.FS

	// Layout resolves destinations under the game dir
	Layout *layout.Layout

	// Store persists slots, sentinels and deployed records
	Store state.Store

	// Executor applies the planned filesystem changes
	Executor ops.Executor

	// Helper runs the external script merger; nil means not configured
	Helper mergehelper.Runner

	// BackupsDir receives pre-overwrite copies
	BackupsDir string

	// WorkspaceDir is scratch space for merge helper jobs
	WorkspaceDir string
}

// New creates a Deployer.
func New(opts Options) *Deployer {
	return &Deployer{
		fs:           opts.FS,
		layout:       opts.Layout,
		allocator:    slots.New(opts.Store),
		store:        opts.Store,
		executor:     opts.Executor,
		helper:       opts.Helper,
		backupsDir:   opts.BackupsDir,
		workspaceDir: opts.WorkspaceDir,
	}
}

// SkippedArtifact reports an artifact deployment that could not happen
// without failing the build.
type SkippedArtifact struct {
	// ModID owning the artifact
	ModID string

	// RelPath of the artifact inside the mod
	RelPath string

	// Reason is the coded cause, e.g. slot exhaustion
	Reason errors.ErrorCode

	// Message is the human-facing explanation
	Message string
}

// Result is the outcome of one deployment pass.
type Result struct {
	// Deployed maps destination paths to owning mod ids
	Deployed map[string]string

	// Skipped artifacts, reported as build warnings
	Skipped []SkippedArtifact

	// Backups captured before overwrites, newest last
	Backups []types.BackupEntry

	// Fragments from third-party mods, registered for the merger
	Fragments []types.ScriptFragment
}

// DeployPending places every deployable artifact of the given mods that
// is not already deployed. Mods must arrive in installation order; their
// fragments keep that order for merge precedence. When fragments are
// present the merge helper must have run for the current fragment set,
// otherwise deployment refuses before touching the game tree.
func (d *Deployer) DeployPending(ctx context.Context, mods []types.InstalledMod) (*Result, error) {
	logger := logging.GetLogger("deploy")

	result := &Result{Deployed: map[string]string{}}

	for _, mod := range mods {
		result.Fragments = append(result.Fragments, mod.ScriptFragments...)
	}

	if err := d.ensureHelperRan(ctx, result.Fragments); err != nil {
		return nil, err
	}

	for _, mod := range mods {
		for _, artifact := range mod.Artifacts {
			if artifact.Kind == types.ArtifactScriptFragment || artifact.Kind == types.ArtifactUnknown {
				continue
			}

			if err := d.deployArtifact(ctx, mod, artifact, result); err != nil {
				return result, err
			}
		}
	}

	logger.Info().
		Int("deployed", len(result.Deployed)).
		Int("skipped", len(result.Skipped)).
		Int("backups", len(result.Backups)).
		Int("fragments", len(result.Fragments)).
		Msg("deployment pass complete")
	return result, nil
}

// deployArtifact places one artifact, allocating a slot when the kind
// needs one. Slot exhaustion skips the artifact instead of failing.
func (d *Deployer) deployArtifact(ctx context.Context, mod types.InstalledMod, artifact types.Artifact, result *Result) error {
	logger := logging.GetLogger("deploy")

	dest, err := d.destination(mod, artifact)
	if err != nil {
		if errors.IsErrorCode(err, errors.ErrSlotExhausted) {
			logger.Warn().
				Str("mod", mod.ID).
				Str("artifact", artifact.RelPath).
				Msg("no free slot, artifact skipped")
			result.Skipped = append(result.Skipped, SkippedArtifact{
				ModID:   mod.ID,
				RelPath: artifact.RelPath,
				Reason:  errors.ErrSlotExhausted,
				Message: err.Error(),
			})
			return nil
		}
		return err
	}

	recordName := filepath.Base(dest)
	deployed, err := d.store.DeployedArtifacts(mod.ID)
	if err != nil {
		return errors.Wrap(err, errors.ErrIOFailure, "failed to read deployed records").
			WithDetail("mod", mod.ID)
	}
	if prev, ok := deployed[recordName]; ok && prev == dest {
		if _, err := d.fs.Stat(dest); err == nil {
			logger.Debug().
				Str("mod", mod.ID).
				Str("dest", dest).
				Msg("artifact already deployed")
			return nil
		}
	}

	plan := &ops.Plan{}

	backup, err := ops.PlanBackup(plan, d.fs, dest, d.backupsDir)
	if err != nil {
		return err
	}

	plan.CopyFile(mod.ArtifactPath(artifact), dest)

	if err := d.executor.Apply(ctx, plan); err != nil {
		return err
	}

	if backup != nil {
		result.Backups = append(result.Backups, *backup)
	}
	result.Deployed[dest] = mod.ID

	if err := d.store.RecordDeployed(mod.ID, recordName, dest); err != nil {
		return errors.Wrap(err, errors.ErrIOFailure, "failed to record deployment").
			WithDetail("mod", mod.ID)
	}

	logger.Info().
		Str("mod", mod.ID).
		Str("artifact", artifact.RelPath).
		Str("dest", dest).
		Msg("artifact deployed")
	return nil
}

// destination resolves where an artifact goes, allocating a slot for the
// slotted kinds.
func (d *Deployer) destination(mod types.InstalledMod, artifact types.Artifact) (string, error) {
	switch artifact.Kind {
	case types.ArtifactVisualBundle:
		slot, err := d.allocator.Allocate(types.CategoryVisualBundle, mod.ID)
		if err != nil {
			return "", err
		}
		return d.layout.SlotPath(types.CategoryVisualBundle, slot.Index)

	case types.ArtifactDataPackage:
		slot, err := d.allocator.Allocate(types.CategoryDataPackage, mod.ID)
		if err != nil {
			return "", err
		}
		return d.layout.SlotPath(types.CategoryDataPackage, slot.Index)

	case types.ArtifactNativePlugin:
		// Plugins are tracked but never numbered
		if _, err := d.allocator.Allocate(types.CategoryNativePlugin, mod.ID); err != nil {
			return "", err
		}
		return d.layout.NativePluginPath(artifact.RelPath), nil

	default:
		return "", errors.Newf(errors.ErrInternal, "artifact kind %q is not deployable", artifact.Kind)
	}
}

// ensureHelperRan enforces the merge-helper gate: third-party fragments
// require a recorded helper run for exactly this fragment set. A
// configured helper is invoked on the spot; success records the sentinel.
func (d *Deployer) ensureHelperRan(ctx context.Context, fragments []types.ScriptFragment) error {
	if len(fragments) == 0 {
		return nil
	}

	logger := logging.GetLogger("deploy")

	checksum, err := mergehelper.Checksum(d.fs, fragments)
	if err != nil {
		return err
	}

	ran, err := d.store.HelperRan(checksum)
	if err != nil {
		return errors.Wrap(err, errors.ErrIOFailure, "failed to check helper sentinel")
	}
	if ran {
		logger.Debug().Str("checksum", checksum).Msg("merge helper already ran for this fragment set")
		return nil
	}

	if d.helper == nil {
		return errors.New(errors.ErrMergeHelperRequired,
			"installed mods contribute script fragments but no merge helper is configured").
			WithDetail("fragments", len(fragments)).
			WithDetail("checksum", checksum)
	}

	job := mergehelper.Job{
		Fragments: fragments,
		Workspace: d.workspaceDir,
	}

	ok, err := d.helper.Run(ctx, job)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New(errors.ErrMergeHelperFailed, "merge helper reported failure").
			WithDetail("checksum", checksum)
	}

	if err := d.store.RecordHelperRun(checksum); err != nil {
		return errors.Wrap(err, errors.ErrIOFailure, "failed to record helper run")
	}

	logger.Info().Str("checksum", checksum).Msg("merge helper completed for fragment set")
	return nil
}
