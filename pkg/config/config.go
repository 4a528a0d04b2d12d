package config

// MergeHelper configures the external script merge tool required when
// installed mods contribute their own script fragments.
type MergeHelper struct {
	// Path to the helper executable; empty means not configured
	Path string `koanf:"path"`

	// WorkDir is the workspace handed to the helper; defaults to a
	// directory under the beastpak data dir when empty
	WorkDir string `koanf:"work_dir"`
}

// Save holds player save backup configuration.
type Save struct {
	// Roots are candidate save locations checked by the backup step
	Roots []string `koanf:"roots"`
}

// Config is the main configuration structure.
type Config struct {
	// GameDir is the root of the game installation, the directory
	// containing source/ and work/
	GameDir string `koanf:"game_dir"`

	// ModsDir overrides where installed mods live
	ModsDir string `koanf:"mods_dir"`

	MergeHelper MergeHelper `koanf:"merge_helper"`
	Save        Save        `koanf:"save"`

	// Tuning holds one entry per tunable the user has set, keyed by
	// registry key. Values are validated by the tuning resolver, not here.
	Tuning map[string]interface{} `koanf:"tuning"`
}
