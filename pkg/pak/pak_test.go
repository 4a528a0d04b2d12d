package pak_test

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/beastpak/pkg/errors"
	"github.com/arthur-debert/beastpak/pkg/layout"
	"github.com/arthur-debert/beastpak/pkg/ops"
	"github.com/arthur-debert/beastpak/pkg/pak"
	"github.com/arthur-debert/beastpak/pkg/testutil"
)

func readArchive(t *testing.T, data []byte) map[string]string {
	t.Helper()

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

func TestAssembleStoresEntriesUncompressed(t *testing.T) {
	data, err := pak.Assemble(map[string][]byte{
		"scripts/player/player_variables.scr": []byte("sub main() {}"),
		"scripts/inputs/inputs_gameplay.scr":  []byte("sub main() { }"),
	})
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)

	for _, f := range zr.File {
		assert.Equal(t, zip.Store, f.Method, "entry %s must be uncompressed", f.Name)
	}

	// Entries land in sorted name order
	assert.Equal(t, "scripts/inputs/inputs_gameplay.scr", zr.File[0].Name)
	assert.Equal(t, "scripts/player/player_variables.scr", zr.File[1].Name)

	files := readArchive(t, data)
	assert.Equal(t, "sub main() {}", files["scripts/player/player_variables.scr"])
}

func TestAssembleDeterministic(t *testing.T) {
	input := map[string][]byte{
		"scripts/a.scr": []byte("aaa"),
		"scripts/b.scr": []byte("bbb"),
		"scripts/c.scr": []byte("ccc"),
	}

	first, err := pak.Assemble(input)
	require.NoError(t, err)
	second, err := pak.Assemble(input)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAssembleEmpty(t *testing.T) {
	data, err := pak.Assemble(nil)
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	assert.Empty(t, zr.File)
}

func TestAssembleRejectsUnsafeNames(t *testing.T) {
	bad := []string{
		"",
		"/etc/passwd",
		"../outside.scr",
		"scripts/../../outside.scr",
	}

	for _, name := range bad {
		_, err := pak.Assemble(map[string][]byte{name: []byte("x")})
		require.Error(t, err, "name %q", name)
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	}
}

func TestAssembleNormalizesNames(t *testing.T) {
	data, err := pak.Assemble(map[string][]byte{
		"scripts//player/./player_variables.scr": []byte("x"),
	})
	require.NoError(t, err)

	files := readArchive(t, data)
	_, ok := files["scripts/player/player_variables.scr"]
	assert.True(t, ok)
}

func TestInstallWritesOwnPackage(t *testing.T) {
	fs := testutil.NewMemoryFS()
	gameDir := "/games/beast"
	require.NoError(t, fs.MkdirAll(filepath.Join(gameDir, "source"), 0755))

	installer := pak.NewInstaller(fs, layout.New(gameDir), ops.NewDirect(fs), "/data/beastpak/backups")

	archive, err := pak.Assemble(map[string][]byte{"scripts/a.scr": []byte("sub main() {}")})
	require.NoError(t, err)

	result, err := installer.Install(context.Background(), archive)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(gameDir, "source", "data7.pak"), result.Path)
	assert.Nil(t, result.Backup)

	written, err := fs.ReadFile(result.Path)
	require.NoError(t, err)
	assert.Equal(t, archive, written)

	files := readArchive(t, written)
	assert.Equal(t, "sub main() {}", files["scripts/a.scr"])
}

func TestInstallBacksUpPreviousPackage(t *testing.T) {
	fs := testutil.NewMemoryFS()
	gameDir := "/games/beast"
	backupsDir := "/data/beastpak/backups"
	dest := filepath.Join(gameDir, "source", "data7.pak")
	require.NoError(t, fs.WriteFile(dest, []byte("previous build"), 0644))

	installer := pak.NewInstaller(fs, layout.New(gameDir), ops.NewDirect(fs), backupsDir)

	result, err := installer.Install(context.Background(), []byte("fresh build"))
	require.NoError(t, err)

	require.NotNil(t, result.Backup)
	assert.Equal(t, dest, result.Backup.OriginalPath)
	assert.Equal(t, backupsDir, filepath.Dir(result.Backup.BackupPath))

	saved, err := fs.ReadFile(result.Backup.BackupPath)
	require.NoError(t, err)
	assert.Equal(t, "previous build", string(saved))

	current, err := fs.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "fresh build", string(current))
}

func TestInstallFailureSurfacesIOError(t *testing.T) {
	fs := testutil.NewMemoryFS()
	gameDir := "/games/beast"
	dest := filepath.Join(gameDir, "source", "data7.pak")
	require.NoError(t, fs.MkdirAll(filepath.Join(gameDir, "source"), 0755))
	fs.WithError(dest, assert.AnError)

	installer := pak.NewInstaller(fs, layout.New(gameDir), ops.NewDirect(fs), "/data/beastpak/backups")

	_, err := installer.Install(context.Background(), []byte("doomed"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrIOFailure))
}

// writeFailingExecutor applies copies normally but refuses file writes.
type writeFailingExecutor struct {
	inner ops.Executor
}

func (e *writeFailingExecutor) Apply(ctx context.Context, plan *ops.Plan) error {
	for _, op := range plan.Operations {
		if op.Kind == ops.KindWriteFile {
			return errors.New(errors.ErrIOFailure, "write refused")
		}
	}
	return e.inner.Apply(ctx, plan)
}

func TestInstallFailedWriteStillReturnsBackup(t *testing.T) {
	fs := testutil.NewMemoryFS()
	gameDir := "/games/beast"
	backupsDir := "/data/beastpak/backups"
	dest := filepath.Join(gameDir, "source", "data7.pak")
	require.NoError(t, fs.WriteFile(dest, []byte("previous build"), 0644))

	executor := &writeFailingExecutor{inner: ops.NewDirect(fs)}
	installer := pak.NewInstaller(fs, layout.New(gameDir), executor, backupsDir)

	result, err := installer.Install(context.Background(), []byte("doomed"))
	require.Error(t, err)
	require.NotNil(t, result)
	require.NotNil(t, result.Backup)
	assert.Equal(t, dest, result.Backup.OriginalPath)

	// The backup copy already landed before the write was attempted
	saved, err := fs.ReadFile(result.Backup.BackupPath)
	require.NoError(t, err)
	assert.Equal(t, "previous build", string(saved))

	// The previous package is untouched
	current, err := fs.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "previous build", string(current))
}
