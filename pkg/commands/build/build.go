// Package build implements the build command: resolve tuning, merge mod
// overrides, deploy pending artifacts and install the final package.
package build

import (
	"context"

	"github.com/arthur-debert/beastpak/pkg/builder"
	"github.com/arthur-debert/beastpak/pkg/commands/internal"
	"github.com/arthur-debert/beastpak/pkg/deploy"
	"github.com/arthur-debert/beastpak/pkg/logging"
	"github.com/arthur-debert/beastpak/pkg/mergehelper"
	"github.com/arthur-debert/beastpak/pkg/mods"
	"github.com/arthur-debert/beastpak/pkg/ops"
	"github.com/arthur-debert/beastpak/pkg/pak"
	"github.com/arthur-debert/beastpak/pkg/presets"
	"github.com/arthur-debert/beastpak/pkg/saves"
	"github.com/arthur-debert/beastpak/pkg/types"
)

// BuildPackageOptions holds options for the build command.
type BuildPackageOptions struct {
	// ConfigPath overrides the default config file location
	ConfigPath string

	// GameDir overrides the configured game directory
	GameDir string

	// Preset layers a stored tuning preset over the configured table,
	// preset keys winning
	Preset string

	// SkipSaveBackup disables the post-install save snapshot
	SkipSaveBackup bool

	// FileSystem replaces the OS filesystem, used by tests
	FileSystem types.FS

	// Executor replaces the default operation executor
	Executor ops.Executor
}

// BuildPackage runs one full build. A failed build returns both the
// terminal result and the coded error that stopped it; only a refused
// build (one already in flight) has no result.
func BuildPackage(ctx context.Context, opts BuildPackageOptions) (*types.BuildResult, error) {
	logger := logging.GetLogger("commands.build")

	rt, err := internal.NewRuntime(internal.RuntimeOptions{
		ConfigPath: opts.ConfigPath,
		GameDir:    opts.GameDir,
		FileSystem: opts.FileSystem,
		Executor:   opts.Executor,
	})
	if err != nil {
		return nil, err
	}
	if err := rt.RequireGameDir(); err != nil {
		return nil, err
	}

	tuningTable, err := tuningTableFor(rt, opts.Preset)
	if err != nil {
		return nil, err
	}

	var helper mergehelper.Runner
	if rt.Config.MergeHelper.Path != "" {
		helper = mergehelper.NewExecRunner(rt.Config.MergeHelper.Path)
	}

	manager := mods.NewManager(rt.FS, rt.ModsDir(), rt.Store)
	deployer := deploy.New(deploy.Options{
		FS:           rt.FS,
		Layout:       rt.Layout,
		Store:        rt.Store,
		Executor:     rt.Executor,
		Helper:       helper,
		BackupsDir:   rt.Paths.BackupsDir(),
		WorkspaceDir: rt.MergeWorkspaceDir(),
	})
	installer := pak.NewInstaller(rt.FS, rt.Layout, rt.Executor, rt.Paths.BackupsDir())
	saver := saves.NewManager(rt.FS, rt.Paths.SaveBackupsDir())

	b := builder.New(builder.Options{
		FS:          rt.FS,
		Layout:      rt.Layout,
		Executor:    rt.Executor,
		Mods:        manager,
		Deployer:    deployer,
		Installer:   installer,
		Saves:       saver,
		Tuning:      tuningTable,
		SaveRoots:   rt.Config.Save.Roots,
		BackupSaves: !opts.SkipSaveBackup && len(rt.Config.Save.Roots) > 0,
	})

	logger.Info().
		Str("game_dir", rt.Config.GameDir).
		Str("preset", opts.Preset).
		Int("tuning_keys", len(tuningTable)).
		Msg("starting build")

	return b.Build(ctx)
}

// tuningTableFor snapshots the configured tuning table, layering the
// named preset over it when one is requested.
func tuningTableFor(rt *internal.Runtime, presetName string) (map[string]interface{}, error) {
	table := make(map[string]interface{}, len(rt.Config.Tuning))
	for key, value := range rt.Config.Tuning {
		table[key] = value
	}
	if presetName == "" {
		return table, nil
	}

	store := presets.NewStore(rt.FS, rt.Paths.PresetsDir())
	preset, err := store.Load(presetName)
	if err != nil {
		return nil, err
	}
	for key, value := range preset.Tuning {
		table[key] = value
	}
	return table, nil
}
