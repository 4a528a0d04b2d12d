// Package paths provides centralized path handling for beastpak.
//
// This package implements the XDG Base Directory specification and provides
// a consistent API for all path operations throughout the beastpak codebase.
// It handles:
//
//   - Game directory configuration
//   - XDG directory structure (data, config, state)
//   - Path normalization and expansion
//   - Mods, backups, presets, and save backup locations
//
// # Environment Variables
//
// The package respects the following environment variables:
//
//   - BEASTPAK_GAME_DIR: Location of the game installation
//   - BEASTPAK_DATA_DIR: Override XDG data directory (default: $XDG_DATA_HOME/beastpak)
//   - BEASTPAK_CONFIG_DIR: Override XDG config directory (default: $XDG_CONFIG_HOME/beastpak)
//   - BEASTPAK_MODS_DIR: Override the installed mods directory (default: <data>/mods)
//
// # XDG Base Directory Structure
//
//   - Data: $XDG_DATA_HOME/beastpak (mods, file backups, save backups)
//   - Config: $XDG_CONFIG_HOME/beastpak (config.toml, presets)
//   - State: $XDG_STATE_HOME/beastpak (slot records, sentinels, log)
//
// # Usage
//
//	import "github.com/arthur-debert/beastpak/pkg/paths"
//
//	p, err := paths.New("")  // game dir from BEASTPAK_GAME_DIR, may be empty
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	mods := p.ModsDir()          // $XDG_DATA_HOME/beastpak/mods
//	cfg := p.ConfigFilePath()    // $XDG_CONFIG_HOME/beastpak/config.toml
//	saves := p.SaveBackupsDir()  // $XDG_DATA_HOME/beastpak/player_backup_saves
package paths
