// Package paths provides centralized path handling for beastpak.
// It implements XDG Base Directory specification compliance and
// provides a consistent API for all path operations in the codebase.
package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/beastpak/pkg/errors"
)

// Environment variable names
const (
	// EnvGameDir is the primary environment variable for the game location
	EnvGameDir = "BEASTPAK_GAME_DIR"

	// EnvDataDir overrides the XDG data directory for beastpak
	EnvDataDir = "BEASTPAK_DATA_DIR"

	// EnvConfigDir overrides the XDG config directory for beastpak
	EnvConfigDir = "BEASTPAK_CONFIG_DIR"

	// EnvModsDir overrides the installed mods directory
	EnvModsDir = "BEASTPAK_MODS_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Default directories and files
// IMPORTANT: These constants define beastpak's internal layout and are NOT
// user-configurable. They must remain consistent across installations so that
// state written by one version is found by the next.
const (
	// AppDirName is the directory name for beastpak-specific files
	AppDirName = "beastpak"

	// ConfigFileName is the name of the main configuration file
	ConfigFileName = "config.toml"

	// ModsDirName is the subdirectory holding installed mods
	ModsDirName = "mods"

	// BackupsDirName is the subdirectory holding pre-overwrite file backups
	BackupsDirName = "backups"

	// SaveBackupsDirName is the subdirectory holding player save snapshots
	SaveBackupsDirName = "player_backup_saves"

	// PresetsDirName is the subdirectory holding tuning presets
	PresetsDirName = "presets"

	// LogFileName is the name of the log file
	LogFileName = "beastpak.log"
)

// Paths provides centralized path management for beastpak
type Paths interface {
	GameDir() string
	ConfigDir() string
	DataDir() string
	StateDir() string
	ModsDir() string
	BackupsDir() string
	SaveBackupsDir() string
	PresetsDir() string
	ConfigFilePath() string
	PresetPath(name string) string
	LogFilePath() string
	NormalizePath(path string) (string, error)
}

// paths provides centralized path management for beastpak
type paths struct {
	// gameDir is the root of the game installation, may be empty
	gameDir string

	// xdgData is the XDG data directory
	xdgData string

	// xdgConfig is the XDG config directory
	xdgConfig string

	// xdgState is the XDG state directory
	xdgState string

	// modsDir is the installed mods directory
	modsDir string
}

// New creates a new Paths instance with the given game directory.
// If gameDir is empty, BEASTPAK_GAME_DIR is consulted; an empty result is
// allowed and only fails later in commands that need the game tree.
func New(gameDir string) (Paths, error) {
	p := &paths{}

	if gameDir == "" {
		gameDir = os.Getenv(EnvGameDir)
	}
	if gameDir != "" {
		abs, err := filepath.Abs(expandHome(gameDir))
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for game dir")
		}
		p.gameDir = abs
	}

	p.setupXDGDirs()

	return p, nil
}

// setupXDGDirs initializes XDG directories, respecting environment overrides
func (p *paths) setupXDGDirs() {
	// Data directory
	if dataDir := os.Getenv(EnvDataDir); dataDir != "" {
		p.xdgData = expandHome(dataDir)
	} else {
		p.xdgData = filepath.Join(xdg.DataHome, AppDirName)
	}

	// Config directory
	if configDir := os.Getenv(EnvConfigDir); configDir != "" {
		p.xdgConfig = expandHome(configDir)
	} else {
		p.xdgConfig = filepath.Join(xdg.ConfigHome, AppDirName)
	}

	// State directory - XDG doesn't provide StateHome, so we check manually
	if stateDir := os.Getenv("XDG_STATE_HOME"); stateDir != "" {
		p.xdgState = filepath.Join(stateDir, AppDirName)
	} else {
		homeDir, _ := os.UserHomeDir()
		p.xdgState = filepath.Join(homeDir, ".local", "state", AppDirName)
	}

	// Mods directory
	if modsDir := os.Getenv(EnvModsDir); modsDir != "" {
		p.modsDir = expandHome(modsDir)
	} else {
		p.modsDir = filepath.Join(p.xdgData, ModsDirName)
	}
}

// expandHome expands ~ to the home directory
func expandHome(path string) string {
	if path == "" {
		return path
	}

	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			// Fallback to HOME env var
			homeDir = os.Getenv(EnvHome)
			if homeDir == "" {
				// Can't expand, return as-is
				return path
			}
		}

		if len(path) == 1 {
			return homeDir
		}

		// Handle both ~/ and ~
		if path[1] == '/' || path[1] == filepath.Separator {
			return filepath.Join(homeDir, path[2:])
		}

		// ~something (not the user's home)
		return path
	}

	return path
}

// ExpandHome is a utility function that expands ~ in paths
func ExpandHome(path string) string {
	return expandHome(path)
}

// GameDir returns the root of the game installation, empty when unset
func (p *paths) GameDir() string {
	return p.gameDir
}

// ConfigDir returns the XDG config directory for beastpak
func (p *paths) ConfigDir() string {
	return p.xdgConfig
}

// DataDir returns the XDG data directory for beastpak
func (p *paths) DataDir() string {
	return p.xdgData
}

// StateDir returns the XDG state directory for beastpak
func (p *paths) StateDir() string {
	return p.xdgState
}

// ModsDir returns the directory holding installed mods
func (p *paths) ModsDir() string {
	return p.modsDir
}

// BackupsDir returns the directory holding pre-overwrite file backups
func (p *paths) BackupsDir() string {
	return filepath.Join(p.xdgData, BackupsDirName)
}

// SaveBackupsDir returns the directory holding player save snapshots
func (p *paths) SaveBackupsDir() string {
	return filepath.Join(p.xdgData, SaveBackupsDirName)
}

// PresetsDir returns the directory holding tuning presets
func (p *paths) PresetsDir() string {
	return filepath.Join(p.xdgConfig, PresetsDirName)
}

// ConfigFilePath returns the path to the main configuration file
func (p *paths) ConfigFilePath() string {
	return filepath.Join(p.xdgConfig, ConfigFileName)
}

// PresetPath returns the path of a named tuning preset
func (p *paths) PresetPath(name string) string {
	return filepath.Join(p.PresetsDir(), name+".json")
}

// LogFilePath returns the path to the beastpak log file
// Respects XDG_STATE_HOME if set
func (p *paths) LogFilePath() string {
	return filepath.Join(p.xdgState, LogFileName)
}

// NormalizePath normalizes a path by expanding home, making it absolute,
// and cleaning it
func (p *paths) NormalizePath(path string) (string, error) {
	if path == "" {
		return "", errors.New(errors.ErrInvalidInput, "empty path")
	}

	// Expand home directory
	expanded := expandHome(path)

	// Make absolute
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path")
	}

	// Clean the path
	return filepath.Clean(abs), nil
}
