package types

import (
	"path/filepath"
	"time"
)

// ArtifactKind classifies a deployable mod file by what the game expects of it.
type ArtifactKind string

const (
	// ArtifactVisualBundle is an .rpack file, deployed into a visual bundle slot
	ArtifactVisualBundle ArtifactKind = "visual_bundle"

	// ArtifactDataPackage is a .pak file, deployed into a data package slot
	ArtifactDataPackage ArtifactKind = "data_package"

	// ArtifactNativePlugin is an .asi or .dll file, copied without slotting
	ArtifactNativePlugin ArtifactKind = "native_plugin"

	// ArtifactScriptFragment is a .scr file, merged rather than copied
	ArtifactScriptFragment ArtifactKind = "script_fragment"

	// ArtifactUnknown is anything beastpak does not deploy
	ArtifactUnknown ArtifactKind = "unknown"
)

// ClassifyArtifact maps a file name to its artifact kind by suffix.
func ClassifyArtifact(name string) ArtifactKind {
	switch filepath.Ext(name) {
	case ".rpack":
		return ArtifactVisualBundle
	case ".pak":
		return ArtifactDataPackage
	case ".asi", ".dll":
		return ArtifactNativePlugin
	case ".scr":
		return ArtifactScriptFragment
	default:
		return ArtifactUnknown
	}
}

// SlotCategory returns the deployment category for the kind. Script
// fragments and unknown files are not deployed as files and return false.
func (k ArtifactKind) SlotCategory() (SlotCategory, bool) {
	switch k {
	case ArtifactVisualBundle:
		return CategoryVisualBundle, true
	case ArtifactDataPackage:
		return CategoryDataPackage, true
	case ArtifactNativePlugin:
		return CategoryNativePlugin, true
	default:
		return "", false
	}
}

// Artifact is one deployable file inside an installed mod's raw tree.
type Artifact struct {
	// RelPath is the file path relative to the mod's raw files directory
	RelPath string

	// Kind decides how the deployer treats the file
	Kind ArtifactKind
}

// InstalledMod is a third-party modification registered with beastpak.
// It owns its raw extracted files exclusively; deployed slots are
// back-references into the allocator's state, not ownership.
type InstalledMod struct {
	// ID is the stable identifier, also the mod's directory name
	ID string

	// DisplayName is the human-facing name from the manifest
	DisplayName string

	// Version as declared by the mod author, may be empty
	Version string

	// RawFilesPath is the absolute path of the mod's extracted files
	RawFilesPath string

	// InstalledAt orders mods for merge precedence; later installs win
	InstalledAt time.Time

	// Artifacts discovered under RawFilesPath
	Artifacts []Artifact

	// DeployedSlots currently held by this mod
	DeployedSlots []DeploySlot

	// ScriptFragments parsed from the mod's .scr artifacts
	ScriptFragments []ScriptFragment
}

// ArtifactPath returns the absolute path of an artifact inside the mod tree.
func (m *InstalledMod) ArtifactPath(a Artifact) string {
	return filepath.Join(m.RawFilesPath, filepath.FromSlash(a.RelPath))
}

// HasScriptFragments reports whether the mod contributes any .scr overrides.
func (m *InstalledMod) HasScriptFragments() bool {
	return len(m.ScriptFragments) > 0
}
