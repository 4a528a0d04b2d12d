package mergehelper

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/arthur-debert/beastpak/pkg/errors"
	"github.com/arthur-debert/beastpak/pkg/logging"
	"github.com/beevik/etree"
)

// JobFileName is the XML job description written into the workspace.
const JobFileName = "merge_job.xml"

// DefaultTimeout bounds one helper invocation.
const DefaultTimeout = 5 * time.Minute

// ExecRunner invokes the configured merge helper executable with an XML
// job file. The helper crosses the process boundary, so the runner works
// on the real filesystem regardless of the FS abstraction used elsewhere.
type ExecRunner struct {
	executable string
	timeout    time.Duration
}

// NewExecRunner creates a runner for the given helper executable path.
func NewExecRunner(executable string) *ExecRunner {
	return &ExecRunner{
		executable: executable,
		timeout:    DefaultTimeout,
	}
}

// WithTimeout overrides the invocation timeout.
func (r *ExecRunner) WithTimeout(d time.Duration) *ExecRunner {
	r.timeout = d
	return r
}

// Run writes the job file and executes the helper on it. Only the exit
// status is interpreted: zero means the merge completed, anything else
// means it did not.
func (r *ExecRunner) Run(ctx context.Context, job Job) (bool, error) {
	logger := logging.GetLogger("mergehelper")

	if r.executable == "" {
		return false, errors.New(errors.ErrMergeHelperRequired, "no merge helper executable configured")
	}

	if err := os.MkdirAll(job.Workspace, 0755); err != nil {
		return false, errors.Wrap(err, errors.ErrMergeHelperFailed, "failed to create merge workspace").
			WithDetail("workspace", job.Workspace)
	}

	jobPath := filepath.Join(job.Workspace, JobFileName)
	data, err := encodeJob(job)
	if err != nil {
		return false, err
	}
	if err := os.WriteFile(jobPath, data, 0644); err != nil {
		return false, errors.Wrap(err, errors.ErrMergeHelperFailed, "failed to write merge job file").
			WithDetail("path", jobPath)
	}

	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, r.executable, jobPath)
	cmd.Dir = job.Workspace

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Info().
		Str("executable", r.executable).
		Str("jobFile", jobPath).
		Int("fragments", len(job.Fragments)).
		Msg("running merge helper")

	err = cmd.Run()
	if err != nil {
		if _, exited := err.(*exec.ExitError); exited {
			// The helper ran and said no
			logger.Warn().
				Str("stdout", stdout.String()).
				Str("stderr", stderr.String()).
				Msg("merge helper reported failure")
			return false, nil
		}
		return false, errors.Wrapf(err, errors.ErrMergeHelperFailed,
			"failed to invoke merge helper %s", r.executable).
			WithDetail("stderr", stderr.String())
	}

	logger.Info().Msg("merge helper completed")
	return true, nil
}

// encodeJob renders the job as the XML document the helper consumes.
func encodeJob(job Job) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("mergeJob")
	root.CreateElement("workspace").SetText(job.Workspace)

	fragments := root.CreateElement("fragments")
	for _, fragment := range job.Fragments {
		el := fragments.CreateElement("fragment")
		el.CreateAttr("path", fragment.SourcePath)
		el.CreateAttr("origin", fragment.Origin)
		el.CreateAttr("target", fragment.TargetFile)
	}

	doc.Indent(2)
	data, err := doc.WriteToBytes()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrMergeHelperFailed, "failed to encode merge job")
	}
	return data, nil
}
