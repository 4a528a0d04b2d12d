package types

import (
	"io/fs"
)

// FS is the filesystem interface required for beastpak operations
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Other operations
	Remove(name string) error
	RemoveAll(path string) error

	// Optional operations - implementations should check for support
	// For testing, Lstat can fall back to Stat
	Lstat(name string) (fs.FileInfo, error)
}

// Pather provides paths for beastpak operations
type Pather interface {
	// ConfigDir returns the XDG config directory for beastpak
	ConfigDir() string

	// DataDir returns the XDG data directory for beastpak
	DataDir() string

	// StateDir returns the XDG state directory for beastpak
	StateDir() string

	// ModsDir returns the directory holding installed mods
	ModsDir() string

	// BackupsDir returns the directory holding file backups
	BackupsDir() string

	// SaveBackupsDir returns the directory holding player save backups
	SaveBackupsDir() string
}
