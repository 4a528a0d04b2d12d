// Package config handles configuration management for beastpak.
// It layers embedded defaults, the user's config file (TOML or YAML),
// BEASTPAK_* environment variables, and explicit overrides from
// command-line flags.
package config
