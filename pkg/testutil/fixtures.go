package testutil

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// SetupGameDir creates the game's expected directory skeleton inside a
// MemoryFS and returns the game root.
func SetupGameDir(t *testing.T, mfs *MemoryFS, root string) string {
	t.Helper()

	require.NoError(t, mfs.MkdirAll(filepath.Join(root, "source"), 0755))
	require.NoError(t, mfs.MkdirAll(filepath.Join(root, "work", "data_platform", "pc", "assets"), 0755))
	require.NoError(t, mfs.MkdirAll(filepath.Join(root, "work", "bin", "x64"), 0755))

	return root
}

// TestMod is a mod directory under construction inside a MemoryFS
type TestMod struct {
	FS  *MemoryFS
	ID  string
	Dir string
}

// SetupMod creates a mod directory with a modinfo.toml manifest
func SetupMod(t *testing.T, mfs *MemoryFS, modsDir, id, name string, installedAt time.Time) *TestMod {
	t.Helper()

	dir := filepath.Join(modsDir, id)
	require.NoError(t, mfs.MkdirAll(dir, 0755))

	manifest := fmt.Sprintf("id = %q\ndisplay_name = %q\ninstalled_at = %s\n",
		id, name, installedAt.UTC().Format(time.RFC3339))
	require.NoError(t, mfs.WriteFile(filepath.Join(dir, "modinfo.toml"), []byte(manifest), 0644))

	return &TestMod{FS: mfs, ID: id, Dir: dir}
}

// AddFile adds a raw file to the mod directory
func (tm *TestMod) AddFile(t *testing.T, relPath, content string) string {
	t.Helper()

	path := filepath.Join(tm.Dir, filepath.FromSlash(relPath))
	require.NoError(t, tm.FS.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, tm.FS.WriteFile(path, []byte(content), 0644))
	return path
}

// AddScriptFragment adds a .scr override fragment with Param lines in the
// given order. Each pair is {name, value}.
func (tm *TestMod) AddScriptFragment(t *testing.T, relPath string, params [][2]string) string {
	t.Helper()

	body := "sub main()\n{\n"
	for _, p := range params {
		body += fmt.Sprintf("\tParam(%q, %q);\n", p[0], p[1])
	}
	body += "}\n"
	return tm.AddFile(t, relPath, body)
}
