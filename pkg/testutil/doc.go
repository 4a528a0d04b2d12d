// Package testutil provides utilities for testing beastpak components.
//
// Key components:
//   - MemoryFS: In-memory filesystem implementation for fast, isolated tests
//   - Game and mod fixtures: declarative setup of a game tree and installed
//     mods inside a MemoryFS
//
// Usage guidelines:
//   - Core pipeline tests should run entirely on MemoryFS
//   - All test data should be defined inline, not in external files
//   - Each test should be completely isolated with no shared state
package testutil
