// Package genconfig implements the genconfig command: emit a fully
// commented starter config, optionally writing it to the config dir.
package genconfig

import (
	"path/filepath"

	"github.com/arthur-debert/beastpak/pkg/commands/internal"
	"github.com/arthur-debert/beastpak/pkg/config"
	"github.com/arthur-debert/beastpak/pkg/errors"
	"github.com/arthur-debert/beastpak/pkg/logging"
	"github.com/arthur-debert/beastpak/pkg/types"
)

// GenConfigOptions configure the genconfig command.
type GenConfigOptions struct {
	ConfigPath string
	GameDir    string

	// Write stores the content at the config file path instead of only
	// returning it. An existing file is never overwritten.
	Write bool

	FileSystem types.FS
}

// GenConfigResult carries the generated content and, in write mode, where
// it landed.
type GenConfigResult struct {
	Content string `json:"content"`
	Path    string `json:"path,omitempty"`
	Written bool   `json:"written"`
}

// GenConfig produces the starter config with every value commented out.
func GenConfig(opts GenConfigOptions) (*GenConfigResult, error) {
	logger := logging.GetLogger("commands.genconfig")

	rt, err := internal.NewRuntime(internal.RuntimeOptions{
		ConfigPath: opts.ConfigPath,
		GameDir:    opts.GameDir,
		FileSystem: opts.FileSystem,
	})
	if err != nil {
		return nil, err
	}

	result := &GenConfigResult{Content: config.GenerateConfigContent()}
	if !opts.Write {
		logger.Debug().Msg("emitting config template")
		return result, nil
	}

	target := rt.Paths.ConfigFilePath()
	result.Path = target

	if _, err := rt.FS.Stat(target); err == nil {
		logger.Warn().Str("path", target).Msg("config file already exists, not overwriting")
		return result, nil
	}

	if err := rt.FS.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return result, errors.Wrapf(err, errors.ErrFileWrite, "failed to create %s", filepath.Dir(target))
	}
	if err := rt.FS.WriteFile(target, []byte(result.Content), 0644); err != nil {
		return result, errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", target)
	}

	result.Written = true
	logger.Info().Str("path", target).Msg("config file written")
	return result, nil
}
