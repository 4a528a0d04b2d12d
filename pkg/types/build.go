package types

import "time"

// BuildState is a stage of the package build state machine.
type BuildState string

const (
	// BuildStateIdle means no build is in flight
	BuildStateIdle BuildState = "idle"

	// BuildStateMerging resolves tuning and mod fragments into merged scripts
	BuildStateMerging BuildState = "merging"

	// BuildStateDeploying places pending mod artifacts and takes backups
	BuildStateDeploying BuildState = "deploying"

	// BuildStatePackaging assembles and installs the final package
	BuildStatePackaging BuildState = "packaging"

	// BuildStateInstalled is the terminal success state
	BuildStateInstalled BuildState = "installed"

	// BuildStateFailed is the terminal failure state, reachable from any
	// non-idle state
	BuildStateFailed BuildState = "failed"
)

// Terminal reports whether the state ends a build cycle.
func (s BuildState) Terminal() bool {
	return s == BuildStateInstalled || s == BuildStateFailed
}

// BuildStatus is the outcome surfaced by a BuildResult.
type BuildStatus string

const (
	// BuildSuccess means the package was installed
	BuildSuccess BuildStatus = "success"

	// BuildFailure means the build stopped before install
	BuildFailure BuildStatus = "failure"
)

// BuildResult is the single outcome record emitted per build. Ephemeral;
// surfaced once as a status line, never as a blocking dialog.
type BuildResult struct {
	// ID uniquely identifies the build invocation
	ID string `json:"id"`

	// Status is success or failure
	Status BuildStatus `json:"status"`

	// Reason is the human-readable failure reason, empty on success
	Reason string `json:"reason,omitempty"`

	// Warnings lists partial failures that did not stop the build,
	// e.g. a skipped artifact after slot exhaustion
	Warnings []string `json:"warnings,omitempty"`

	// InstalledPath is where the package landed, empty on failure
	InstalledPath string `json:"installed_path,omitempty"`

	// Backups taken during this build, in capture order
	Backups []BackupEntry `json:"backups,omitempty"`

	// FinalState the machine ended in
	FinalState BuildState `json:"final_state"`

	// StartedAt and FinishedAt bound the build
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// BackupEntry records one pre-overwrite copy. Entries are append-only and
// never auto-deleted; they exist for manual rollback.
type BackupEntry struct {
	// OriginalPath is the file that was about to be overwritten
	OriginalPath string `json:"original_path"`

	// BackupPath is where the original bytes were copied
	BackupPath string `json:"backup_path"`

	// Timestamp is when the backup was captured
	Timestamp time.Time `json:"timestamp"`
}
