// Package types defines the core types and interfaces used throughout beastpak.
// This includes the filesystem abstraction, the override and merge data model,
// deploy slots, installed mods, and build results.
package types
