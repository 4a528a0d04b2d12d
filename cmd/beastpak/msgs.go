package beastpak

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort          = "Tuning and mod package builder for Dying Light: The Beast"
	MsgBuildShort         = "Build and install the tuning package"
	MsgStatusShort        = "Show game dir, package and slot occupancy"
	MsgModsShort          = "Manage installed mods"
	MsgModsListShort      = "List registered mods"
	MsgModsAddShort       = "Register an extracted mod directory"
	MsgModsRemoveShort    = "Remove a mod and free its slots"
	MsgBackupSavesShort   = "Snapshot the save directory"
	MsgPresetsShort       = "Manage tuning presets"
	MsgPresetsListShort   = "List stored presets"
	MsgPresetsSaveShort   = "Snapshot the current tuning as a preset"
	MsgPresetsShowShort   = "Show one preset's tuning table"
	MsgPresetsDeleteShort = "Delete a stored preset"
	MsgGenConfigShort     = "Print a starter config file"
	MsgTopicsShort        = "Display available documentation topics"
	MsgTopicsLong         = "Display a list of all available help topics that provide additional documentation beyond command help."
	MsgCompletionShort    = "Generate shell completion script"
	MsgVersionShort       = "Print version information"

	// Error messages
	MsgErrBuild       = "build failed: %w"
	MsgErrStatus      = "failed to read status: %w"
	MsgErrListMods    = "failed to list mods: %w"
	MsgErrAddMod      = "failed to add mod: %w"
	MsgErrRemoveMod   = "failed to remove mod: %w"
	MsgErrBackupSaves = "failed to back up saves: %w"
	MsgErrPresets     = "preset operation failed: %w"
	MsgErrGenConfig   = "failed to generate config: %w"

	// Flag descriptions
	MsgFlagVerbose        = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagFormat         = "Output format (auto, term, text, json)"
	MsgFlagConfig         = "Config file path (default searched under the XDG config dir)"
	MsgFlagGameDir        = "Game installation directory (overrides config)"
	MsgFlagPreset         = "Layer a stored tuning preset over the configured table"
	MsgFlagSkipSaveBackup = "Skip the save snapshot taken after a successful install"
	MsgFlagWrite          = "Write the config to its default location instead of printing it"
	MsgFlagModID          = "Mod id (defaults to the source directory name, normalized)"
	MsgFlagModName        = "Display name (defaults to the source directory name)"
	MsgFlagModVersion     = "Mod version recorded in the manifest"
	MsgFlagModOrigin      = "Where the mod came from, recorded in the manifest"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/build-long.txt
	msgBuildLongRaw string
	MsgBuildLong    = strings.TrimSpace(msgBuildLongRaw)

	//go:embed msgs/build-example.txt
	msgBuildExampleRaw string
	MsgBuildExample    = strings.TrimSpace(msgBuildExampleRaw)

	//go:embed msgs/status-long.txt
	msgStatusLongRaw string
	MsgStatusLong    = strings.TrimSpace(msgStatusLongRaw)

	//go:embed msgs/status-example.txt
	msgStatusExampleRaw string
	MsgStatusExample    = strings.TrimSpace(msgStatusExampleRaw)

	//go:embed msgs/mods-long.txt
	msgModsLongRaw string
	MsgModsLong    = strings.TrimSpace(msgModsLongRaw)

	//go:embed msgs/mods-add-long.txt
	msgModsAddLongRaw string
	MsgModsAddLong    = strings.TrimSpace(msgModsAddLongRaw)

	//go:embed msgs/mods-add-example.txt
	msgModsAddExampleRaw string
	MsgModsAddExample    = strings.TrimSpace(msgModsAddExampleRaw)

	//go:embed msgs/backup-saves-long.txt
	msgBackupSavesLongRaw string
	MsgBackupSavesLong    = strings.TrimSpace(msgBackupSavesLongRaw)

	//go:embed msgs/presets-long.txt
	msgPresetsLongRaw string
	MsgPresetsLong    = strings.TrimSpace(msgPresetsLongRaw)

	//go:embed msgs/presets-example.txt
	msgPresetsExampleRaw string
	MsgPresetsExample    = strings.TrimSpace(msgPresetsExampleRaw)

	//go:embed msgs/genconfig-long.txt
	msgGenConfigLongRaw string
	MsgGenConfigLong    = strings.TrimSpace(msgGenConfigLongRaw)

	//go:embed msgs/genconfig-example.txt
	msgGenConfigExampleRaw string
	MsgGenConfigExample    = strings.TrimSpace(msgGenConfigExampleRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
