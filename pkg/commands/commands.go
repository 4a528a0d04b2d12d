// Package commands provides the high-level command implementations for
// beastpak.
//
// This package is the orchestration layer between the CLI and the build
// pipeline. Each command lives in its own subdirectory:
//   - build/      - BuildPackage, the full configuration-to-package run
//   - status/     - Status report on game dir, slots and installed mods
//   - mods/       - List, Add and Remove for registered mods
//   - savebackup/ - BackupSaves snapshot of the player's save tree
//   - presets/    - List, Save, Show and Delete for tuning presets
//   - genconfig/  - GenConfig starter configuration
//   - internal/   - Shared runtime assembly (config, paths, executor)
//
// This file re-exports the command functions so callers can depend on a
// single package.
package commands

import (
	"context"

	"github.com/arthur-debert/beastpak/pkg/commands/build"
	"github.com/arthur-debert/beastpak/pkg/commands/genconfig"
	"github.com/arthur-debert/beastpak/pkg/commands/mods"
	"github.com/arthur-debert/beastpak/pkg/commands/presets"
	"github.com/arthur-debert/beastpak/pkg/commands/savebackup"
	"github.com/arthur-debert/beastpak/pkg/commands/status"
	"github.com/arthur-debert/beastpak/pkg/types"
)

// BuildPackage resolves tuning, merges mod overrides and installs the
// final package.
type BuildPackageOptions = build.BuildPackageOptions

func BuildPackage(ctx context.Context, opts BuildPackageOptions) (*types.BuildResult, error) {
	return build.BuildPackage(ctx, opts)
}

// Status reports game dir health, slot occupancy and installed mods.
type StatusOptions = status.StatusOptions
type StatusReport = status.Report

func Status(opts StatusOptions) (*StatusReport, error) {
	return status.Status(opts)
}

// ListMods discovers every registered mod.
type ListModsOptions = mods.ListOptions
type ListModsResult = mods.ListResult

func ListMods(opts ListModsOptions) (*ListModsResult, error) {
	return mods.List(opts)
}

// AddMod registers an extracted mod directory.
type AddModOptions = mods.AddOptions
type AddModResult = mods.AddResult

func AddMod(opts AddModOptions) (*AddModResult, error) {
	return mods.Add(opts)
}

// RemoveMod unregisters a mod and cleans up its deployed files.
type RemoveModOptions = mods.RemoveOptions
type RemoveModResult = mods.RemoveResult

func RemoveMod(opts RemoveModOptions) (*RemoveModResult, error) {
	return mods.Remove(opts)
}

// BackupSaves snapshots the configured save roots.
type BackupSavesOptions = savebackup.BackupSavesOptions
type BackupSavesResult = savebackup.BackupSavesResult

func BackupSaves(opts BackupSavesOptions) (*BackupSavesResult, error) {
	return savebackup.BackupSaves(opts)
}

// ListPresets reads the preset directory.
type ListPresetsOptions = presets.ListOptions
type ListPresetsResult = presets.ListResult

func ListPresets(opts ListPresetsOptions) (*ListPresetsResult, error) {
	return presets.List(opts)
}

// SavePreset freezes the current tuning table under a name.
type SavePresetOptions = presets.SaveOptions
type SavePresetResult = presets.SaveResult

func SavePreset(opts SavePresetOptions) (*SavePresetResult, error) {
	return presets.Save(opts)
}

// ShowPreset loads one preset, migrating legacy files on the fly.
type ShowPresetOptions = presets.ShowOptions
type ShowPresetResult = presets.ShowResult

func ShowPreset(opts ShowPresetOptions) (*ShowPresetResult, error) {
	return presets.Show(opts)
}

// DeletePreset removes a stored preset.
type DeletePresetOptions = presets.DeleteOptions
type DeletePresetResult = presets.DeleteResult

func DeletePreset(opts DeletePresetOptions) (*DeletePresetResult, error) {
	return presets.Delete(opts)
}

// GenConfig produces the starter config with every value commented out.
type GenConfigOptions = genconfig.GenConfigOptions
type GenConfigResult = genconfig.GenConfigResult

func GenConfig(opts GenConfigOptions) (*GenConfigResult, error) {
	return genconfig.GenConfig(opts)
}
