// Package savebackup implements the backup-saves command: copy the game's
// save directory into a timestamped snapshot under the app data dir.
package savebackup

import (
	"github.com/arthur-debert/beastpak/pkg/commands/internal"
	"github.com/arthur-debert/beastpak/pkg/logging"
	"github.com/arthur-debert/beastpak/pkg/saves"
	"github.com/arthur-debert/beastpak/pkg/types"
)

// BackupSavesOptions configure the backup-saves command.
type BackupSavesOptions struct {
	ConfigPath string
	GameDir    string
	FileSystem types.FS
}

// BackupSavesResult reports the snapshot that was taken.
type BackupSavesResult struct {
	Backup *types.BackupEntry `json:"backup"`
}

// BackupSaves snapshots the configured save roots. Exactly one root must
// exist on disk, ambiguity or absence is refused rather than guessed at.
func BackupSaves(opts BackupSavesOptions) (*BackupSavesResult, error) {
	logger := logging.GetLogger("commands.savebackup")

	rt, err := internal.NewRuntime(internal.RuntimeOptions{
		ConfigPath: opts.ConfigPath,
		GameDir:    opts.GameDir,
		FileSystem: opts.FileSystem,
	})
	if err != nil {
		return nil, err
	}

	manager := saves.NewManager(rt.FS, rt.Paths.SaveBackupsDir())
	entry, err := manager.Backup(rt.Config.Save.Roots)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("from", entry.OriginalPath).
		Str("to", entry.BackupPath).
		Msg("saves backed up")
	return &BackupSavesResult{Backup: entry}, nil
}
