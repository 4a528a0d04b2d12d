package internal

import (
	"path/filepath"

	"github.com/arthur-debert/beastpak/pkg/config"
	"github.com/arthur-debert/beastpak/pkg/errors"
	"github.com/arthur-debert/beastpak/pkg/filesystem"
	"github.com/arthur-debert/beastpak/pkg/layout"
	"github.com/arthur-debert/beastpak/pkg/ops"
	"github.com/arthur-debert/beastpak/pkg/paths"
	"github.com/arthur-debert/beastpak/pkg/state"
	"github.com/arthur-debert/beastpak/pkg/synthfs"
	"github.com/arthur-debert/beastpak/pkg/types"
)

// RuntimeOptions select how a command binds to the machine. Zero values
// mean the real OS: filesystem.NewOS and the synthfs executor.
type RuntimeOptions struct {
	// ConfigPath overrides the default config file location
	ConfigPath string

	// GameDir overrides the configured game directory
	GameDir string

	// FileSystem replaces the OS filesystem, used by tests
	FileSystem types.FS

	// Executor replaces the default operation executor
	Executor ops.Executor
}

// Runtime bundles the loaded configuration and the long-lived components
// command implementations share.
type Runtime struct {
	Config   *config.Config
	Paths    paths.Paths
	FS       types.FS
	Executor ops.Executor
	Store    state.Store
	Layout   *layout.Layout
}

// NewRuntime loads the effective configuration and wires the component
// graph commands build on. The game dir resolves flag over env over
// config file; an empty result is allowed and only fails in commands
// that need the game tree.
func NewRuntime(opts RuntimeOptions) (*Runtime, error) {
	fs := opts.FileSystem
	osBacked := fs == nil
	if osBacked {
		fs = filesystem.NewOS()
	}

	base, err := paths.New(opts.GameDir)
	if err != nil {
		return nil, err
	}

	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = base.ConfigFilePath()
	}

	overrides := map[string]interface{}{}
	if opts.GameDir != "" {
		overrides["game_dir"] = opts.GameDir
	}

	cfg, err := config.Load(configPath, overrides)
	if err != nil {
		return nil, err
	}

	p, err := paths.New(cfg.GameDir)
	if err != nil {
		return nil, err
	}

	executor := opts.Executor
	if executor == nil {
		if osBacked {
			executor = synthfs.NewExecutor(p, false)
		} else {
			executor = ops.NewDirect(fs)
		}
	}

	return &Runtime{
		Config:   cfg,
		Paths:    p,
		FS:       fs,
		Executor: executor,
		Store:    state.New(fs, p.StateDir()),
		Layout:   layout.New(cfg.GameDir),
	}, nil
}

// ModsDir resolves the installed mods directory, honoring the config
// override.
func (r *Runtime) ModsDir() string {
	if r.Config.ModsDir != "" {
		return paths.ExpandHome(r.Config.ModsDir)
	}
	return r.Paths.ModsDir()
}

// MergeWorkspaceDir resolves the workspace handed to the merge helper.
func (r *Runtime) MergeWorkspaceDir() string {
	if r.Config.MergeHelper.WorkDir != "" {
		return paths.ExpandHome(r.Config.MergeHelper.WorkDir)
	}
	return filepath.Join(r.Paths.DataDir(), "merge_workspace")
}

// RequireGameDir rejects commands that need the game tree when no game
// directory is configured.
func (r *Runtime) RequireGameDir() error {
	if r.Config.GameDir == "" {
		return errors.Newf(errors.ErrGameDirInvalid,
			"game directory not configured: set game_dir in %s or %s",
			r.Paths.ConfigFilePath(), paths.EnvGameDir)
	}
	return nil
}
