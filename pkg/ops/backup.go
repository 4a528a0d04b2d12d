package ops

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/arthur-debert/beastpak/pkg/errors"
	"github.com/arthur-debert/beastpak/pkg/types"
)

// PlanBackup appends a copy of target into backupsDir ahead of whatever
// the plan does to target next, so the original bytes are preserved
// before an overwrite becomes visible. Returns nil without planning
// anything when target does not exist yet.
func PlanBackup(plan *Plan, fsys types.FS, target, backupsDir string) (*types.BackupEntry, error) {
	if _, err := fsys.Stat(target); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrIOFailure, "failed to check %s", target)
	}

	now := time.Now().UTC()
	entry := types.BackupEntry{
		OriginalPath: target,
		BackupPath:   backupPath(backupsDir, target, now),
		Timestamp:    now,
	}

	plan.CopyFile(target, entry.BackupPath)
	return &entry, nil
}

// backupPath derives a unique backups-dir location for an original path.
func backupPath(backupsDir, original string, at time.Time) string {
	stamp := at.Format("20060102-150405.000000000")
	name := fmt.Sprintf("%s.%s.bak", filepath.Base(original), stamp)
	return filepath.Join(backupsDir, name)
}
