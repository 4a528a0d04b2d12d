// Package presets implements the preset commands: snapshot the current
// tuning table under a name, list saved snapshots, show one and delete
// one.
package presets

import (
	"time"

	"github.com/arthur-debert/beastpak/pkg/commands/internal"
	"github.com/arthur-debert/beastpak/pkg/logging"
	preslib "github.com/arthur-debert/beastpak/pkg/presets"
	"github.com/arthur-debert/beastpak/pkg/types"
)

// PresetSummary is one saved preset as reported by list.
type PresetSummary struct {
	Name    string    `json:"name"`
	SavedAt time.Time `json:"saved_at"`
	Keys    int       `json:"keys"`
}

// ListOptions configure the presets list command.
type ListOptions struct {
	ConfigPath string
	GameDir    string
	FileSystem types.FS
}

// ListResult holds every stored preset sorted by name.
type ListResult struct {
	PresetsDir string          `json:"presets_dir"`
	Presets    []PresetSummary `json:"presets"`
}

// List reads the preset directory.
func List(opts ListOptions) (*ListResult, error) {
	logger := logging.GetLogger("commands.presets")

	rt, err := internal.NewRuntime(internal.RuntimeOptions{
		ConfigPath: opts.ConfigPath,
		GameDir:    opts.GameDir,
		FileSystem: opts.FileSystem,
	})
	if err != nil {
		return nil, err
	}

	store := preslib.NewStore(rt.FS, rt.Paths.PresetsDir())
	stored, err := store.List()
	if err != nil {
		return nil, err
	}

	result := &ListResult{PresetsDir: rt.Paths.PresetsDir()}
	for _, preset := range stored {
		result.Presets = append(result.Presets, PresetSummary{
			Name:    preset.Name,
			SavedAt: preset.SavedAt,
			Keys:    len(preset.Tuning),
		})
	}

	logger.Debug().Int("presets", len(result.Presets)).Msg("presets listed")
	return result, nil
}

// SaveOptions configure the presets save command.
type SaveOptions struct {
	ConfigPath string
	GameDir    string
	Name       string
	FileSystem types.FS
}

// SaveResult reports the snapshot that was written.
type SaveResult struct {
	Preset PresetSummary `json:"preset"`
	Path   string        `json:"path"`
}

// Save freezes the current tuning table, config file plus environment,
// under the given name. An existing preset of that name is replaced.
func Save(opts SaveOptions) (*SaveResult, error) {
	logger := logging.GetLogger("commands.presets")

	rt, err := internal.NewRuntime(internal.RuntimeOptions{
		ConfigPath: opts.ConfigPath,
		GameDir:    opts.GameDir,
		FileSystem: opts.FileSystem,
	})
	if err != nil {
		return nil, err
	}

	store := preslib.NewStore(rt.FS, rt.Paths.PresetsDir())
	preset, err := store.Save(opts.Name, rt.Config.Tuning)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("preset", preset.Name).
		Int("keys", len(preset.Tuning)).
		Msg("preset saved")
	return &SaveResult{
		Preset: PresetSummary{Name: preset.Name, SavedAt: preset.SavedAt, Keys: len(preset.Tuning)},
		Path:   rt.Paths.PresetPath(preset.Name),
	}, nil
}

// ShowOptions configure the presets show command.
type ShowOptions struct {
	ConfigPath string
	GameDir    string
	Name       string
	FileSystem types.FS
}

// ShowResult carries one full preset including its tuning table.
type ShowResult struct {
	Preset *preslib.Preset `json:"preset"`
}

// Show loads a single preset, migrating legacy files on the fly.
func Show(opts ShowOptions) (*ShowResult, error) {
	rt, err := internal.NewRuntime(internal.RuntimeOptions{
		ConfigPath: opts.ConfigPath,
		GameDir:    opts.GameDir,
		FileSystem: opts.FileSystem,
	})
	if err != nil {
		return nil, err
	}

	store := preslib.NewStore(rt.FS, rt.Paths.PresetsDir())
	preset, err := store.Load(opts.Name)
	if err != nil {
		return nil, err
	}

	return &ShowResult{Preset: preset}, nil
}

// DeleteOptions configure the presets delete command.
type DeleteOptions struct {
	ConfigPath string
	GameDir    string
	Name       string
	FileSystem types.FS
}

// DeleteResult names the removed preset.
type DeleteResult struct {
	Name string `json:"name"`
}

// Delete removes a stored preset.
func Delete(opts DeleteOptions) (*DeleteResult, error) {
	logger := logging.GetLogger("commands.presets")

	rt, err := internal.NewRuntime(internal.RuntimeOptions{
		ConfigPath: opts.ConfigPath,
		GameDir:    opts.GameDir,
		FileSystem: opts.FileSystem,
	})
	if err != nil {
		return nil, err
	}

	store := preslib.NewStore(rt.FS, rt.Paths.PresetsDir())
	if err := store.Delete(opts.Name); err != nil {
		return nil, err
	}

	logger.Info().Str("preset", opts.Name).Msg("preset deleted")
	return &DeleteResult{Name: opts.Name}, nil
}
