package builder_test

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/beastpak/pkg/builder"
	"github.com/arthur-debert/beastpak/pkg/deploy"
	"github.com/arthur-debert/beastpak/pkg/errors"
	"github.com/arthur-debert/beastpak/pkg/layout"
	"github.com/arthur-debert/beastpak/pkg/mergehelper"
	"github.com/arthur-debert/beastpak/pkg/mods"
	"github.com/arthur-debert/beastpak/pkg/ops"
	"github.com/arthur-debert/beastpak/pkg/pak"
	"github.com/arthur-debert/beastpak/pkg/saves"
	"github.com/arthur-debert/beastpak/pkg/state"
	"github.com/arthur-debert/beastpak/pkg/testutil"
	"github.com/arthur-debert/beastpak/pkg/types"
)

const (
	gameDir      = "/games/beast"
	modsDir      = "/data/beastpak/mods"
	backupsDir   = "/data/beastpak/backups"
	savesDir     = "/data/beastpak/player_backup_saves"
	workspaceDir = "/data/beastpak/merge_workspace"
	stateDir     = "/state/beastpak"
)

// env assembles the whole pipeline over one in-memory filesystem.
type env struct {
	fs     *testutil.MemoryFS
	store  state.Store
	layout *layout.Layout
	opts   builder.Options
}

func newEnv(t *testing.T) *env {
	t.Helper()

	fs := testutil.NewMemoryFS()
	require.NoError(t, fs.MkdirAll(filepath.Join(gameDir, "source"), 0755))
	require.NoError(t, fs.MkdirAll(filepath.Join(gameDir, "work"), 0755))

	e := &env{
		fs:     fs,
		store:  state.New(fs, stateDir),
		layout: layout.New(gameDir),
	}
	e.opts = builder.Options{
		FS:     fs,
		Layout: e.layout,
		Mods:   mods.NewManager(fs, modsDir, e.store),
		Saves:  saves.NewManager(fs, savesDir),
	}
	e.rewire(ops.NewDirect(fs), nil)
	return e
}

// rewire swaps the executor and merge helper through the whole pipeline.
func (e *env) rewire(executor ops.Executor, helper mergehelper.Runner) {
	e.opts.Executor = executor
	e.opts.Deployer = deploy.New(deploy.Options{
		FS:           e.fs,
		Layout:       e.layout,
		Store:        e.store,
		Executor:     executor,
		Helper:       helper,
		BackupsDir:   backupsDir,
		WorkspaceDir: workspaceDir,
	})
	e.opts.Installer = pak.NewInstaller(e.fs, e.layout, executor, backupsDir)
}

func (e *env) build(t *testing.T) (*types.BuildResult, error) {
	t.Helper()
	return builder.New(e.opts).Build(context.Background())
}

func (e *env) installMod(t *testing.T, id string, installedAt time.Time, files map[string]string) {
	t.Helper()

	dir := filepath.Join(modsDir, id)
	manifest := fmt.Sprintf("id = %q\ndisplay_name = %q\ninstalled_at = %s\n",
		id, id, installedAt.Format(time.RFC3339))
	require.NoError(t, e.fs.WriteFile(filepath.Join(dir, "modinfo.toml"), []byte(manifest), 0644))

	for rel, content := range files {
		require.NoError(t, e.fs.WriteFile(filepath.Join(dir, filepath.FromSlash(rel)), []byte(content), 0644))
	}
}

// packageScripts opens the installed package and returns its entries.
func (e *env) packageScripts(t *testing.T) map[string]string {
	t.Helper()

	data, err := e.fs.ReadFile(e.layout.OwnPackagePath())
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	files := map[string]string{}
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		files[f.Name] = string(content)
	}
	return files
}

func TestBuildDefaultConfigZeroMods(t *testing.T) {
	e := newEnv(t)

	result, err := e.build(t)
	require.NoError(t, err)

	assert.Equal(t, types.BuildSuccess, result.Status)
	assert.Equal(t, types.BuildStateInstalled, result.FinalState)
	assert.Equal(t, e.layout.OwnPackagePath(), result.InstalledPath)
	assert.NotEmpty(t, result.ID)
	assert.Empty(t, result.Warnings)
	assert.True(t, e.fs.Exists(result.InstalledPath))
	assert.False(t, result.FinishedAt.Before(result.StartedAt))
}

func TestBuildRendersTuningIntoPackage(t *testing.T) {
	e := newEnv(t)
	e.opts.Tuning = map[string]interface{}{"open_world_xp": 2.0}

	result, err := e.build(t)
	require.NoError(t, err)
	assert.Equal(t, types.BuildSuccess, result.Status)

	scripts := e.packageScripts(t)
	script, ok := scripts["scripts/player/player_variables.scr"]
	require.True(t, ok, "tuned script missing from package")
	assert.Contains(t, script, "OpenWorldXPModifier")
	assert.Contains(t, script, "\"2.0\"")
}

func TestBuildUnknownTuningKeyFails(t *testing.T) {
	e := newEnv(t)
	e.opts.Tuning = map[string]interface{}{"warp_speed": 9.0}

	result, err := e.build(t)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrUnknownParameter))

	require.NotNil(t, result)
	assert.Equal(t, types.BuildFailure, result.Status)
	assert.Equal(t, types.BuildStateFailed, result.FinalState)
	assert.Contains(t, result.Reason, "warp_speed")

	// Nothing was installed
	assert.False(t, e.fs.Exists(e.layout.OwnPackagePath()))
}

func TestBuildInvalidGameDirFails(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, e.fs.RemoveAll(filepath.Join(gameDir, "source")))

	result, err := e.build(t)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrGameDirInvalid))
	assert.Equal(t, types.BuildStateFailed, result.FinalState)
}

func TestBuildDeploysModArtifacts(t *testing.T) {
	e := newEnv(t)
	e.installMod(t, "texture-pack", time.Now(), map[string]string{
		"assets.rpack": "bundle bytes",
	})

	result, err := e.build(t)
	require.NoError(t, err)
	assert.Equal(t, types.BuildSuccess, result.Status)

	slot0, err := e.layout.SlotPath(types.CategoryVisualBundle, 0)
	require.NoError(t, err)
	content, err := e.fs.ReadFile(slot0)
	require.NoError(t, err)
	assert.Equal(t, "bundle bytes", string(content))
}

func TestBuildModFragmentWinsOverTuning(t *testing.T) {
	e := newEnv(t)
	e.rewire(ops.NewDirect(e.fs), &stubRunner{outcome: true})
	e.opts.Tuning = map[string]interface{}{"open_world_xp": 2.0}
	e.installMod(t, "xp-rebalance", time.Now(), map[string]string{
		"scripts/player/player_variables.scr": "Param(\"OpenWorldXPModifier\", \"5.0\");",
	})

	result, err := e.build(t)
	require.NoError(t, err)
	assert.Equal(t, types.BuildSuccess, result.Status)

	scripts := e.packageScripts(t)
	script := scripts["scripts/player/player_variables.scr"]
	assert.Contains(t, script, "\"5.0\"")
	assert.NotContains(t, script, "OpenWorldXPModifier\", \"2.0\"")
}

func TestBuildMergeHelperRequiredFails(t *testing.T) {
	e := newEnv(t)
	e.installMod(t, "scripted", time.Now(), map[string]string{
		"scripts/player/player_variables.scr": "Param(\"ImmunityBoost\", \"2.0\");",
	})

	result, err := e.build(t)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrMergeHelperRequired))
	assert.Equal(t, types.BuildStateFailed, result.FinalState)
	assert.False(t, e.fs.Exists(e.layout.OwnPackagePath()))
}

func TestBuildSlotExhaustionWarnsAndContinues(t *testing.T) {
	e := newEnv(t)
	capacity := types.CategoryVisualBundle.Capacity()
	for i := 0; i < capacity; i++ {
		require.NoError(t, e.store.SaveSlot(types.CategoryVisualBundle, i, fmt.Sprintf("older-%d", i)))
	}
	e.installMod(t, "latecomer", time.Now(), map[string]string{"late.rpack": "no room"})

	result, err := e.build(t)
	require.NoError(t, err)

	assert.Equal(t, types.BuildSuccess, result.Status)
	assert.Equal(t, types.BuildStateInstalled, result.FinalState)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "slots are taken")
}

// garblingExecutor corrupts one write target before failing, simulating
// a write interrupted partway.
type garblingExecutor struct {
	fs     *testutil.MemoryFS
	inner  ops.Executor
	target string
}

func (e *garblingExecutor) Apply(ctx context.Context, plan *ops.Plan) error {
	for _, op := range plan.Operations {
		if op.Kind == ops.KindWriteFile && op.Target == e.target {
			_ = e.fs.WriteFile(op.Target, []byte("corrupted"), 0644)
			return errors.New(errors.ErrIOFailure, "disk error mid-write")
		}
	}
	return e.inner.Apply(ctx, plan)
}

func TestBuildRollsBackFailedInstall(t *testing.T) {
	e := newEnv(t)
	dest := e.layout.OwnPackagePath()
	require.NoError(t, e.fs.WriteFile(dest, []byte("previous build"), 0644))

	e.rewire(&garblingExecutor{fs: e.fs, inner: ops.NewDirect(e.fs), target: dest}, nil)

	result, err := e.build(t)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrIOFailure))
	assert.Equal(t, types.BuildStateFailed, result.FinalState)

	// The rollback restored the pre-build package
	content, err := e.fs.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "previous build", string(content))

	// The backup taken before the write is part of the result
	require.NotEmpty(t, result.Backups)
	assert.Equal(t, dest, result.Backups[len(result.Backups)-1].OriginalPath)
}

func TestBuildSaveBackupAfterInstall(t *testing.T) {
	e := newEnv(t)
	saveRoot := "/home/user/saves/beast"
	require.NoError(t, e.fs.WriteFile(filepath.Join(saveRoot, "save_main_0.sav"), []byte("slot zero"), 0644))

	e.opts.BackupSaves = true
	e.opts.SaveRoots = []string{saveRoot}

	result, err := e.build(t)
	require.NoError(t, err)
	assert.Equal(t, types.BuildSuccess, result.Status)

	last := result.Backups[len(result.Backups)-1]
	assert.Equal(t, saveRoot, last.OriginalPath)
	assert.True(t, e.fs.Exists(filepath.Join(last.BackupPath, "save_main_0.sav")))
}

func TestBuildSaveBackupFailureNeverFailsBuild(t *testing.T) {
	e := newEnv(t)
	first := "/home/user/saves/beast"
	second := "/steam/userdata/301/remote"
	require.NoError(t, e.fs.WriteFile(filepath.Join(first, "a.sav"), []byte("a"), 0644))
	require.NoError(t, e.fs.WriteFile(filepath.Join(second, "b.sav"), []byte("b"), 0644))

	e.opts.BackupSaves = true
	e.opts.SaveRoots = []string{first, second}

	result, err := e.build(t)
	require.NoError(t, err)

	assert.Equal(t, types.BuildSuccess, result.Status)
	assert.Equal(t, types.BuildStateInstalled, result.FinalState)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "save backup failed")

	// Refusal means no copies landed
	assert.False(t, e.fs.Exists(savesDir))
}

func TestBuildFailureIsDeterministic(t *testing.T) {
	e := newEnv(t)
	e.opts.Tuning = map[string]interface{}{"warp_speed": 9.0}

	first, err1 := e.build(t)
	require.Error(t, err1)
	second, err2 := e.build(t)
	require.Error(t, err2)

	assert.Equal(t, first.Reason, second.Reason)
	assert.Equal(t, first.FinalState, second.FinalState)
	assert.Equal(t, errors.GetErrorCode(err1), errors.GetErrorCode(err2))
}

func TestBuildRerunBacksUpOwnPackage(t *testing.T) {
	e := newEnv(t)
	e.opts.Tuning = map[string]interface{}{"open_world_xp": 2.0}

	_, err := e.build(t)
	require.NoError(t, err)

	second, err := e.build(t)
	require.NoError(t, err)

	require.NotEmpty(t, second.Backups)
	assert.Equal(t, e.layout.OwnPackagePath(), second.Backups[len(second.Backups)-1].OriginalPath)
}

type stubRunner struct {
	outcome bool
}

func (r *stubRunner) Run(context.Context, mergehelper.Job) (bool, error) {
	return r.outcome, nil
}

// blockingRunner parks inside Run until released, letting tests hold a
// build mid-flight.
type blockingRunner struct {
	entered chan struct{}
	release chan struct{}
}

func (r *blockingRunner) Run(context.Context, mergehelper.Job) (bool, error) {
	close(r.entered)
	<-r.release
	return true, nil
}

func TestBuildRefusesSecondConcurrentBuild(t *testing.T) {
	e := newEnv(t)
	runner := &blockingRunner{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	e.rewire(ops.NewDirect(e.fs), runner)
	e.installMod(t, "scripted", time.Now(), map[string]string{
		"scripts/player/player_variables.scr": "Param(\"ImmunityBoost\", \"2.0\");",
	})

	b := builder.New(e.opts)

	done := make(chan error, 1)
	go func() {
		_, err := b.Build(context.Background())
		done <- err
	}()

	<-runner.entered

	_, err := b.Build(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrBuildInProgress))

	close(runner.release)
	require.NoError(t, <-done)
}
