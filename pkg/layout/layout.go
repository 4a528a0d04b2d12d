// Package layout maps slot categories and indices to concrete paths under
// the game installation. Nothing else in the codebase hard-codes these
// locations; the deployer and builder always go through a Layout.
package layout

import (
	"fmt"
	"path/filepath"

	"github.com/arthur-debert/beastpak/pkg/errors"
	"github.com/arthur-debert/beastpak/pkg/types"
)

const (
	// SourceDirName holds the numbered data packages
	SourceDirName = "source"

	// AssetsDirRel holds the numbered visual asset bundles
	AssetsDirRel = "work/data_platform/pc/assets"

	// PluginsDirRel holds native plugin binaries
	PluginsDirRel = "work/bin/x64"

	// OwnPackageIndex is the data slot reserved for the package beastpak
	// builds itself, one past the mod slot range
	OwnPackageIndex = 7
)

// Layout resolves engine-recognized file locations under one game dir.
type Layout struct {
	gameDir string
}

// New returns a Layout rooted at the given game installation directory.
func New(gameDir string) *Layout {
	return &Layout{gameDir: gameDir}
}

// GameDir returns the game installation root this layout resolves under.
func (l *Layout) GameDir() string {
	return l.gameDir
}

// SlotPath returns the destination for a slotted artifact. Only the two
// slotted categories resolve here; native plugins have no indices.
func (l *Layout) SlotPath(category types.SlotCategory, index int) (string, error) {
	if index < 0 {
		return "", errors.Newf(errors.ErrInvalidInput, "negative slot index %d", index)
	}

	capacity := category.Capacity()
	if capacity != types.UnboundedCapacity && index >= capacity {
		return "", errors.Newf(errors.ErrInvalidInput,
			"slot index %d out of range for %s (capacity %d)", index, category, capacity)
	}

	switch category {
	case types.CategoryVisualBundle:
		name := fmt.Sprintf("assets_%d_pc.rpack", index)
		return filepath.Join(l.gameDir, filepath.FromSlash(AssetsDirRel), name), nil
	case types.CategoryDataPackage:
		name := fmt.Sprintf("data%d.pak", index)
		return filepath.Join(l.gameDir, SourceDirName, name), nil
	default:
		return "", errors.Newf(errors.ErrInvalidInput, "category %s is not slotted", category)
	}
}

// NativePluginPath returns the destination for an unslotted native plugin.
func (l *Layout) NativePluginPath(filename string) string {
	return filepath.Join(l.gameDir, filepath.FromSlash(PluginsDirRel), filepath.Base(filename))
}

// OwnPackagePath returns where beastpak installs the package it builds.
func (l *Layout) OwnPackagePath() string {
	name := fmt.Sprintf("data%d.pak", OwnPackageIndex)
	return filepath.Join(l.gameDir, SourceDirName, name)
}

// Validate checks that the configured directory looks like a game
// installation: it exists and has the source/ and work/ roots.
func (l *Layout) Validate(fs types.FS) error {
	if l.gameDir == "" {
		return errors.New(errors.ErrGameDirInvalid, "game directory is not configured")
	}

	for _, sub := range []string{SourceDirName, "work"} {
		path := filepath.Join(l.gameDir, sub)
		info, err := fs.Stat(path)
		if err != nil {
			return errors.Wrapf(err, errors.ErrGameDirInvalid,
				"game directory is missing %s", sub)
		}
		if !info.IsDir() {
			return errors.Newf(errors.ErrGameDirInvalid,
				"%s is not a directory", path)
		}
	}

	return nil
}
