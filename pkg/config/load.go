package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/beastpak/pkg/errors"
)

// EnvPrefix is the prefix shared by all configuration environment
// variables. Double underscore separates nesting levels so flat keys keep
// their underscores: BEASTPAK_GAME_DIR -> game_dir,
// BEASTPAK_MERGE_HELPER__PATH -> merge_helper.path.
const EnvPrefix = "BEASTPAK_"

// Load builds the effective configuration: embedded defaults, then the
// config file if it exists, then BEASTPAK_* environment variables, then
// explicit overrides (command-line flags win).
func Load(configPath string, overrides map[string]interface{}) (*Config, error) {
	k, err := LoadKoanf(configPath, overrides)
	if err != nil {
		return nil, err
	}
	return koanfToConfig(k), nil
}

// LoadKoanf returns the layered koanf instance backing Load. Callers that
// need raw key access (e.g. genconfig diffing) use this directly.
func LoadKoanf(configPath string, overrides map[string]interface{}) (*koanf.Koanf, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	// 2. Config file if it exists
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), parserFor(configPath)); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", configPath)
			}
		}
	}

	// 3. Environment variables
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
	}

	// 4. Explicit overrides
	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load overrides")
		}
	}

	return k, nil
}

// parserFor picks the file parser from the extension; TOML is the default.
func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	default:
		return toml.Parser()
	}
}

// koanfToConfig converts a koanf instance to a Config struct
func koanfToConfig(k *koanf.Koanf) *Config {
	cfg := &Config{}

	cfg.GameDir = k.String("game_dir")
	cfg.ModsDir = k.String("mods_dir")
	cfg.MergeHelper.Path = k.String("merge_helper.path")
	cfg.MergeHelper.WorkDir = k.String("merge_helper.work_dir")
	cfg.Save.Roots = stringList(k, "save.roots")
	cfg.Tuning = k.Cut("tuning").All()

	return cfg
}

// stringList reads a key that may hold a list or a comma-separated string;
// environment variables deliver lists as the latter.
func stringList(k *koanf.Koanf, key string) []string {
	if vals := k.Strings(key); len(vals) > 0 {
		return vals
	}

	raw := strings.TrimSpace(k.String(key))
	if raw == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
