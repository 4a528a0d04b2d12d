// Package ops describes filesystem changes as data before they happen.
// Deployment and packaging build a Plan of operations and hand it to an
// Executor, so the same planning code runs against the in-memory
// filesystem in tests and against synthfs on a real game tree.
package ops

import (
	"context"
	"os"
)

// Kind identifies what an operation does to the filesystem.
type Kind string

const (
	// KindCreateDir creates a directory and any missing parents
	KindCreateDir Kind = "create_dir"

	// KindWriteFile writes Content to Target, replacing any existing file
	KindWriteFile Kind = "write_file"

	// KindCopyFile copies Source to Target, replacing any existing file
	KindCopyFile Kind = "copy_file"

	// KindDelete removes Target; missing targets are not an error
	KindDelete Kind = "delete"
)

// Operation is one planned filesystem change.
type Operation struct {
	// Kind of change
	Kind Kind

	// Target path the change applies to
	Target string

	// Source path for copies
	Source string

	// Content for writes
	Content []byte

	// Mode for created files and directories; zero means the kind default
	// (0755 for directories, 0644 for files)
	Mode os.FileMode
}

// Plan is an ordered list of operations, applied front to back.
type Plan struct {
	Operations []Operation
}

// CreateDir appends a directory creation.
func (p *Plan) CreateDir(path string) {
	p.Operations = append(p.Operations, Operation{Kind: KindCreateDir, Target: path})
}

// WriteFile appends a file write.
func (p *Plan) WriteFile(path string, content []byte) {
	p.Operations = append(p.Operations, Operation{Kind: KindWriteFile, Target: path, Content: content})
}

// CopyFile appends a file copy.
func (p *Plan) CopyFile(source, target string) {
	p.Operations = append(p.Operations, Operation{Kind: KindCopyFile, Target: target, Source: source})
}

// Delete appends a removal.
func (p *Plan) Delete(path string) {
	p.Operations = append(p.Operations, Operation{Kind: KindDelete, Target: path})
}

// Empty reports whether the plan has no operations.
func (p *Plan) Empty() bool {
	return len(p.Operations) == 0
}

// Executor applies a plan to a filesystem.
type Executor interface {
	Apply(ctx context.Context, plan *Plan) error
}
