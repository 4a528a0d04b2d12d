package build_test

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/beastpak/pkg/commands/build"
	"github.com/arthur-debert/beastpak/pkg/errors"
	"github.com/arthur-debert/beastpak/pkg/paths"
	"github.com/arthur-debert/beastpak/pkg/presets"
	"github.com/arthur-debert/beastpak/pkg/testutil"
	"github.com/arthur-debert/beastpak/pkg/types"
)

const (
	gameDir    = "/games/beast"
	configDir  = "/config/beastpak"
	dataDir    = "/data/beastpak"
	missingCfg = "/beastpak-test-absent.toml"
)

func newGameFS(t *testing.T) *testutil.MemoryFS {
	t.Helper()
	t.Setenv(paths.EnvConfigDir, configDir)
	t.Setenv(paths.EnvDataDir, dataDir)
	t.Setenv(paths.EnvModsDir, dataDir+"/mods")
	t.Setenv("XDG_STATE_HOME", "/state")

	fs := testutil.NewMemoryFS()
	require.NoError(t, fs.MkdirAll(gameDir+"/source", 0755))
	require.NoError(t, fs.MkdirAll(gameDir+"/work", 0755))
	return fs
}

func installedScript(t *testing.T, fs *testutil.MemoryFS, name string) string {
	t.Helper()
	data, err := fs.ReadFile(gameDir + "/source/data7.pak")
	require.NoError(t, err)

	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	for _, f := range archive.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		defer func() { _ = rc.Close() }()
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		return string(content)
	}
	t.Fatalf("script %s not found in installed package", name)
	return ""
}

func TestBuildPackageDefaults(t *testing.T) {
	fs := newGameFS(t)

	result, err := build.BuildPackage(context.Background(), build.BuildPackageOptions{
		ConfigPath: missingCfg,
		GameDir:    gameDir,
		FileSystem: fs,
	})
	require.NoError(t, err)
	assert.Equal(t, types.BuildSuccess, result.Status)
	assert.Equal(t, types.BuildStateInstalled, result.FinalState)
	assert.Equal(t, gameDir+"/source/data7.pak", result.InstalledPath)
	assert.Empty(t, result.Warnings)

	// No tuning set, no mods: the package installs but carries no scripts
	data, err := fs.ReadFile(gameDir + "/source/data7.pak")
	require.NoError(t, err)
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	assert.Empty(t, archive.File)
}

func TestBuildPackageTuningFromEnvironment(t *testing.T) {
	fs := newGameFS(t)
	t.Setenv("BEASTPAK_TUNING__OPEN_WORLD_XP", "2.0")

	result, err := build.BuildPackage(context.Background(), build.BuildPackageOptions{
		ConfigPath: missingCfg,
		GameDir:    gameDir,
		FileSystem: fs,
	})
	require.NoError(t, err)
	assert.Equal(t, types.BuildSuccess, result.Status)

	script := installedScript(t, fs, "scripts/player/player_variables.scr")
	assert.Contains(t, script, "OpenWorldXPModifier")
	assert.Contains(t, script, `"2.0"`)
}

func TestBuildPackagePresetWinsOverConfig(t *testing.T) {
	fs := newGameFS(t)
	t.Setenv("BEASTPAK_TUNING__OPEN_WORLD_XP", "2.0")

	store := presets.NewStore(fs, configDir+"/presets")
	_, err := store.Save("boosted", map[string]interface{}{"open_world_xp": 4.0})
	require.NoError(t, err)

	result, err := build.BuildPackage(context.Background(), build.BuildPackageOptions{
		ConfigPath: missingCfg,
		GameDir:    gameDir,
		Preset:     "boosted",
		FileSystem: fs,
	})
	require.NoError(t, err)
	assert.Equal(t, types.BuildSuccess, result.Status)

	script := installedScript(t, fs, "scripts/player/player_variables.scr")
	assert.Contains(t, script, `"4.0"`)
	assert.NotContains(t, script, `OpenWorldXPModifier", "2.0"`)
}

func TestBuildPackageDeploysModArtifact(t *testing.T) {
	fs := newGameFS(t)

	mod := testutil.SetupMod(t, fs, dataDir+"/mods", "uv-pack", "UV Pack", time.Now())
	mod.AddFile(t, "bundle.rpack", "binary")

	result, err := build.BuildPackage(context.Background(), build.BuildPackageOptions{
		ConfigPath: missingCfg,
		GameDir:    gameDir,
		FileSystem: fs,
	})
	require.NoError(t, err)
	assert.Equal(t, types.BuildSuccess, result.Status)
	assert.True(t, fs.Exists(gameDir+"/work/data_platform/pc/assets/assets_0_pc.rpack"))
}

func TestBuildPackageFragmentsNeedHelper(t *testing.T) {
	fs := newGameFS(t)

	mod := testutil.SetupMod(t, fs, dataDir+"/mods", "speed-demon", "Speed Demon", time.Now())
	mod.AddScriptFragment(t, "scripts/player/player_variables.scr", [][2]string{
		{"MoveSprintSpeed", "9.0"},
	})

	result, err := build.BuildPackage(context.Background(), build.BuildPackageOptions{
		ConfigPath: missingCfg,
		GameDir:    gameDir,
		FileSystem: fs,
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrMergeHelperRequired))
	require.NotNil(t, result)
	assert.Equal(t, types.BuildStateFailed, result.FinalState)

	// The refusal happens before anything lands in the game tree
	assert.False(t, fs.Exists(gameDir+"/source/data7.pak"))
}

func TestBuildPackageUnknownPreset(t *testing.T) {
	fs := newGameFS(t)

	_, err := build.BuildPackage(context.Background(), build.BuildPackageOptions{
		ConfigPath: missingCfg,
		GameDir:    gameDir,
		Preset:     "ghost",
		FileSystem: fs,
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPresetNotFound))
}

func TestBuildPackageNoGameDir(t *testing.T) {
	fs := newGameFS(t)
	t.Setenv(paths.EnvGameDir, "")

	_, err := build.BuildPackage(context.Background(), build.BuildPackageOptions{
		ConfigPath: missingCfg,
		FileSystem: fs,
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrGameDirInvalid))
	assert.Contains(t, err.Error(), "game directory not configured")
}

func TestBuildPackageBrokenGameDir(t *testing.T) {
	fs := newGameFS(t)
	require.NoError(t, fs.RemoveAll(gameDir+"/work"))

	result, err := build.BuildPackage(context.Background(), build.BuildPackageOptions{
		ConfigPath: missingCfg,
		GameDir:    gameDir,
		FileSystem: fs,
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrGameDirInvalid))
	require.NotNil(t, result)
	assert.Equal(t, types.BuildStateFailed, result.FinalState)
}
