// Package filesystem provides filesystem implementations for beastpak.
//
// This package contains implementations of the types.FS interface,
// including the standard OS filesystem used outside of tests.
package filesystem
