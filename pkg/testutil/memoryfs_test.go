// pkg/testutil/memoryfs_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test MemoryFS implementation

package testutil

import (
	"errors"
	"io/fs"
	"os"
	"testing"
)

func TestMemoryFS_BasicOperations(t *testing.T) {
	mfs := NewMemoryFS()

	// Test WriteFile and ReadFile
	t.Run("WriteAndRead", func(t *testing.T) {
		content := []byte("test content")
		err := mfs.WriteFile("/test.txt", content, 0644)
		if err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}

		read, err := mfs.ReadFile("/test.txt")
		if err != nil {
			t.Fatalf("ReadFile failed: %v", err)
		}

		if string(read) != string(content) {
			t.Errorf("content mismatch: got %q, want %q", read, content)
		}
	})

	// Test MkdirAll
	t.Run("MkdirAll", func(t *testing.T) {
		err := mfs.MkdirAll("/path/to/dir", 0755)
		if err != nil {
			t.Fatalf("MkdirAll failed: %v", err)
		}

		info, err := mfs.Stat("/path/to/dir")
		if err != nil {
			t.Fatalf("Stat failed: %v", err)
		}

		if !info.IsDir() {
			t.Error("created path is not a directory")
		}
	})

	// Test Remove
	t.Run("Remove", func(t *testing.T) {
		if err := mfs.WriteFile("/removeme.txt", []byte("x"), 0644); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
		if err := mfs.Remove("/removeme.txt"); err != nil {
			t.Fatalf("Remove failed: %v", err)
		}
		if _, err := mfs.Stat("/removeme.txt"); !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("expected ErrNotExist after Remove, got %v", err)
		}
	})

	// Test RemoveAll
	t.Run("RemoveAll", func(t *testing.T) {
		if err := mfs.WriteFile("/tree/a/b.txt", []byte("x"), 0644); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
		if err := mfs.RemoveAll("/tree"); err != nil {
			t.Fatalf("RemoveAll failed: %v", err)
		}
		if _, err := mfs.Stat("/tree/a/b.txt"); err == nil {
			t.Error("expected file gone after RemoveAll")
		}
	})
}

func TestMemoryFS_ReadDirSorted(t *testing.T) {
	mfs := NewMemoryFS()

	for _, name := range []string{"/mods/zeta", "/mods/alpha", "/mods/mid"} {
		if err := mfs.MkdirAll(name, 0755); err != nil {
			t.Fatalf("MkdirAll failed: %v", err)
		}
	}

	entries, err := mfs.ReadDir("/mods")
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}

	want := []string{"alpha", "mid", "zeta"}
	if len(entries) != len(want) {
		t.Fatalf("ReadDir returned %d entries, want %d", len(entries), len(want))
	}
	for i, e := range entries {
		if e.Name() != want[i] {
			t.Errorf("entry %d = %q, want %q", i, e.Name(), want[i])
		}
	}
}

func TestMemoryFS_ErrorInjection(t *testing.T) {
	mfs := NewMemoryFS()

	// Inject error
	mfs.WithError("/error.txt", os.ErrPermission)

	// Try to read - should get injected error
	_, err := mfs.ReadFile("/error.txt")
	if err != os.ErrPermission {
		t.Errorf("expected permission error, got: %v", err)
	}

	// Try to write - should get injected error
	err = mfs.WriteFile("/error.txt", []byte("data"), 0644)
	if err != os.ErrPermission {
		t.Errorf("expected permission error, got: %v", err)
	}

	// Cleared error allows the write again
	mfs.ClearError("/error.txt")
	if err := mfs.WriteFile("/error.txt", []byte("data"), 0644); err != nil {
		t.Errorf("WriteFile after ClearError failed: %v", err)
	}
}

func TestMemoryFS_Stats(t *testing.T) {
	mfs := NewMemoryFS()

	// Initial stats
	reads, writes := mfs.Stats()
	if reads != 0 || writes != 0 {
		t.Errorf("initial stats wrong: reads=%d, writes=%d", reads, writes)
	}

	// Do some operations
	_ = mfs.WriteFile("/file1.txt", []byte("data"), 0644)
	_, _ = mfs.ReadFile("/file1.txt")
	_, _ = mfs.ReadFile("/file1.txt")

	reads, writes = mfs.Stats()
	if reads != 2 || writes != 1 {
		t.Errorf("stats after operations wrong: reads=%d, writes=%d", reads, writes)
	}
}

func TestMemoryFS_UmaskApplied(t *testing.T) {
	mfs := NewMemoryFS()

	if err := mfs.WriteFile("/script.scr", []byte("sub main"), 0666); err != nil {
		t.Fatal(err)
	}

	info, err := mfs.Stat("/script.scr")
	if err != nil {
		t.Fatal(err)
	}

	if info.Mode() != os.FileMode(0644) {
		t.Errorf("mode = %v, want 0644", info.Mode())
	}
}
