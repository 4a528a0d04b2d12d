package genconfig_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/beastpak/pkg/commands/genconfig"
	"github.com/arthur-debert/beastpak/pkg/paths"
	"github.com/arthur-debert/beastpak/pkg/testutil"
)

const missingCfg = "/beastpak-test-absent.toml"

func newGenFS(t *testing.T) *testutil.MemoryFS {
	t.Helper()
	t.Setenv(paths.EnvConfigDir, "/config/beastpak")
	t.Setenv(paths.EnvDataDir, "/data/beastpak")
	t.Setenv("XDG_STATE_HOME", "/state")
	return testutil.NewMemoryFS()
}

func TestGenConfigContent(t *testing.T) {
	fs := newGenFS(t)

	result, err := genconfig.GenConfig(genconfig.GenConfigOptions{
		ConfigPath: missingCfg,
		FileSystem: fs,
	})
	require.NoError(t, err)
	assert.False(t, result.Written)
	assert.Empty(t, result.Path)

	assert.Contains(t, result.Content, "game_dir")
	assert.Contains(t, result.Content, "[tuning]")
	assert.Contains(t, result.Content, "open_world_xp")

	// Every value line is commented out so the file changes nothing as is
	for _, line := range strings.Split(result.Content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		assert.True(t, strings.HasPrefix(trimmed, "["),
			"uncommented non-section line: %q", line)
	}
}

func TestGenConfigWrite(t *testing.T) {
	fs := newGenFS(t)

	result, err := genconfig.GenConfig(genconfig.GenConfigOptions{
		ConfigPath: missingCfg,
		Write:      true,
		FileSystem: fs,
	})
	require.NoError(t, err)
	assert.True(t, result.Written)
	assert.Equal(t, "/config/beastpak/config.toml", result.Path)

	data, err := fs.ReadFile(result.Path)
	require.NoError(t, err)
	assert.Equal(t, result.Content, string(data))
}

func TestGenConfigWriteKeepsExisting(t *testing.T) {
	fs := newGenFS(t)
	require.NoError(t, fs.MkdirAll("/config/beastpak", 0755))
	require.NoError(t, fs.WriteFile("/config/beastpak/config.toml", []byte("game_dir = \"/games/beast\"\n"), 0644))

	result, err := genconfig.GenConfig(genconfig.GenConfigOptions{
		ConfigPath: missingCfg,
		Write:      true,
		FileSystem: fs,
	})
	require.NoError(t, err)
	assert.False(t, result.Written)

	data, err := fs.ReadFile("/config/beastpak/config.toml")
	require.NoError(t, err)
	assert.Equal(t, "game_dir = \"/games/beast\"\n", string(data))
}
