package mods_test

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/arthur-debert/beastpak/pkg/errors"
	"github.com/arthur-debert/beastpak/pkg/mods"
	"github.com/arthur-debert/beastpak/pkg/state"
	"github.com/arthur-debert/beastpak/pkg/testutil"
	"github.com/arthur-debert/beastpak/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const modsDir = "/data/beastpak/mods"

func newManager(t *testing.T) (*mods.Manager, *testutil.MemoryFS, state.Store) {
	t.Helper()
	fs := testutil.NewMemoryFS()
	store := state.New(fs, "/state/beastpak")
	return mods.NewManager(fs, modsDir, store), fs, store
}

// installMod lays down a registered mod directory with a manifest and the
// given files.
func installMod(t *testing.T, fs *testutil.MemoryFS, id string, installedAt time.Time, files map[string]string) {
	t.Helper()

	dir := filepath.Join(modsDir, id)
	manifest := fmt.Sprintf("id = %q\ndisplay_name = %q\ninstalled_at = %s\n",
		id, id, installedAt.Format(time.RFC3339))
	require.NoError(t, fs.WriteFile(filepath.Join(dir, "modinfo.toml"), []byte(manifest), 0644))

	for rel, content := range files {
		require.NoError(t, fs.WriteFile(filepath.Join(dir, rel), []byte(content), 0644))
	}
}

func TestDiscoverEmptyModsDir(t *testing.T) {
	manager, _, _ := newManager(t)

	installed, err := manager.Discover()
	require.NoError(t, err)
	assert.Empty(t, installed)
}

func TestDiscoverClassifiesArtifacts(t *testing.T) {
	manager, fs, _ := newManager(t)

	installMod(t, fs, "texture-pack", time.Now(), map[string]string{
		"assets.rpack":   "binary",
		"extra/data.pak": "binary",
		"trainer.asi":    "binary",
		"README.txt":     "docs",
	})

	installed, err := manager.Discover()
	require.NoError(t, err)
	require.Len(t, installed, 1)

	mod := installed[0]
	assert.Equal(t, "texture-pack", mod.ID)
	require.Len(t, mod.Artifacts, 3)

	kinds := map[string]types.ArtifactKind{}
	for _, a := range mod.Artifacts {
		kinds[a.RelPath] = a.Kind
	}
	assert.Equal(t, types.ArtifactVisualBundle, kinds["assets.rpack"])
	assert.Equal(t, types.ArtifactDataPackage, kinds["extra/data.pak"])
	assert.Equal(t, types.ArtifactNativePlugin, kinds["trainer.asi"])
}

func TestDiscoverParsesScriptFragments(t *testing.T) {
	manager, fs, _ := newManager(t)

	script := "sub main()\n{\n\tParam(\"MoveSprintSpeed\", \"9.0\");\n}\n"
	installMod(t, fs, "speed-demon", time.Now(), map[string]string{
		"scripts/player/player_variables.scr": script,
	})

	installed, err := manager.Discover()
	require.NoError(t, err)
	require.Len(t, installed, 1)

	mod := installed[0]
	require.True(t, mod.HasScriptFragments())
	require.Len(t, mod.ScriptFragments, 1)

	fragment := mod.ScriptFragments[0]
	assert.Equal(t, "scripts/player/player_variables.scr", fragment.TargetFile)
	assert.Equal(t, "speed-demon", fragment.Origin)
	require.Len(t, fragment.Overrides, 1)
	assert.Equal(t, "MoveSprintSpeed", fragment.Overrides[0].Name)
	assert.Equal(t, "9.0", fragment.Overrides[0].Value)
}

func TestDiscoverOrdersByInstallTime(t *testing.T) {
	manager, fs, _ := newManager(t)

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	installMod(t, fs, "zz-first", base, nil)
	installMod(t, fs, "aa-second", base.Add(time.Hour), nil)

	installed, err := manager.Discover()
	require.NoError(t, err)
	require.Len(t, installed, 2)
	assert.Equal(t, "zz-first", installed[0].ID)
	assert.Equal(t, "aa-second", installed[1].ID)
}

func TestDiscoverSkipsBrokenDirectories(t *testing.T) {
	manager, fs, _ := newManager(t)

	installMod(t, fs, "good-mod", time.Now(), nil)

	// No manifest at all
	require.NoError(t, fs.MkdirAll(filepath.Join(modsDir, "not-a-mod"), 0755))
	// Unparseable manifest
	require.NoError(t, fs.WriteFile(filepath.Join(modsDir, "broken", "modinfo.toml"),
		[]byte("id = ["), 0644))

	installed, err := manager.Discover()
	require.NoError(t, err)
	require.Len(t, installed, 1)
	assert.Equal(t, "good-mod", installed[0].ID)
}

func TestDiscoverReportsHeldSlots(t *testing.T) {
	manager, fs, store := newManager(t)

	installMod(t, fs, "texture-pack", time.Now(), nil)
	require.NoError(t, store.SaveSlot(types.CategoryVisualBundle, 2, "texture-pack"))

	installed, err := manager.Discover()
	require.NoError(t, err)
	require.Len(t, installed, 1)
	require.Len(t, installed[0].DeployedSlots, 1)
	assert.Equal(t, types.CategoryVisualBundle, installed[0].DeployedSlots[0].Category)
	assert.Equal(t, 2, installed[0].DeployedSlots[0].Index)
}

func TestGetUnknownMod(t *testing.T) {
	manager, _, _ := newManager(t)

	_, err := manager.Get("never-installed")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrModNotFound))
}

func TestAddRegistersDirectory(t *testing.T) {
	manager, fs, _ := newManager(t)

	require.NoError(t, fs.WriteFile("/downloads/Better Lighting/assets.rpack", []byte("binary"), 0644))
	require.NoError(t, fs.WriteFile("/downloads/Better Lighting/docs/README.txt", []byte("docs"), 0644))

	mod, err := manager.Add("/downloads/Better Lighting", mods.AddOptions{Version: "1.2"})
	require.NoError(t, err)

	assert.Equal(t, "better-lighting", mod.ID)
	assert.Equal(t, "Better Lighting", mod.DisplayName)
	assert.Equal(t, "1.2", mod.Version)
	assert.False(t, mod.InstalledAt.IsZero())
	require.Len(t, mod.Artifacts, 1)
	assert.Equal(t, "assets.rpack", mod.Artifacts[0].RelPath)

	// The tree was copied under the mods dir
	assert.True(t, fs.Exists(filepath.Join(modsDir, "better-lighting", "assets.rpack")))
	assert.True(t, fs.Exists(filepath.Join(modsDir, "better-lighting", "docs/README.txt")))
	assert.True(t, fs.Exists(filepath.Join(modsDir, "better-lighting", "modinfo.toml")))
}

func TestAddRefusesDuplicate(t *testing.T) {
	manager, fs, _ := newManager(t)

	require.NoError(t, fs.WriteFile("/downloads/pack/assets.rpack", []byte("binary"), 0644))

	_, err := manager.Add("/downloads/pack", mods.AddOptions{})
	require.NoError(t, err)

	_, err = manager.Add("/downloads/pack", mods.AddOptions{})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrAlreadyExists))
}

func TestAddRejectsMissingSource(t *testing.T) {
	manager, _, _ := newManager(t)

	_, err := manager.Add("/downloads/nope", mods.AddOptions{})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
}

func TestRemoveCleansUpEverything(t *testing.T) {
	manager, fs, store := newManager(t)

	installMod(t, fs, "texture-pack", time.Now(), map[string]string{
		"assets.rpack": "binary",
	})

	// Simulate a prior deployment
	deployedPath := "/games/beast/ph_ft/work/data_platform/pc/assets/assets_0_pc.rpack"
	require.NoError(t, fs.WriteFile(deployedPath, []byte("binary"), 0644))
	require.NoError(t, store.SaveSlot(types.CategoryVisualBundle, 0, "texture-pack"))
	require.NoError(t, store.RecordDeployed("texture-pack", "assets_0_pc.rpack", deployedPath))

	result, err := manager.Remove("texture-pack")
	require.NoError(t, err)

	assert.Equal(t, "texture-pack", result.ID)
	assert.Equal(t, []string{deployedPath}, result.DeletedFiles)
	require.Len(t, result.FreedSlots, 1)
	assert.Equal(t, 0, result.FreedSlots[0].Index)

	// Game tree, slot records, deployed records and raw files all gone
	assert.False(t, fs.Exists(deployedPath))
	occupied, err := store.LoadSlots(types.CategoryVisualBundle)
	require.NoError(t, err)
	assert.Empty(t, occupied)
	deployed, err := store.DeployedArtifacts("texture-pack")
	require.NoError(t, err)
	assert.Empty(t, deployed)
	assert.False(t, fs.Exists(filepath.Join(modsDir, "texture-pack")))
}

func TestRemoveToleratesAlreadyDeletedFiles(t *testing.T) {
	manager, fs, store := newManager(t)

	installMod(t, fs, "trainer", time.Now(), map[string]string{"trainer.asi": "binary"})
	require.NoError(t, store.RecordDeployed("trainer", "trainer.asi", "/games/beast/ph_ft/work/bin/x64/trainer.asi"))

	// The deployed file was deleted by hand; removal still succeeds
	result, err := manager.Remove("trainer")
	require.NoError(t, err)
	assert.Empty(t, result.DeletedFiles)
}

func TestRemoveUnknownMod(t *testing.T) {
	manager, _, _ := newManager(t)

	_, err := manager.Remove("never-installed")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrModNotFound))
}

func TestNormalizeModID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"simple", "texture-pack", "texture-pack", false},
		{"mixed case", "BetterLighting", "betterlighting", false},
		{"spaces", "Better Lighting v2", "better-lighting-v2", false},
		{"punctuation dropped", "mod (final) [2026]", "mod-final-2026", false},
		{"empty", "", "", true},
		{"only symbols", "!!!", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := mods.NormalizeModID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateModID(t *testing.T) {
	assert.NoError(t, mods.ValidateModID("texture-pack_v1.2"))
	assert.Error(t, mods.ValidateModID(""))
	assert.Error(t, mods.ValidateModID("Upper"))
	assert.Error(t, mods.ValidateModID("has space"))
	assert.Error(t, mods.ValidateModID("../escape"))
}
