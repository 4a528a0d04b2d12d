// Package mergehelper invokes the external script merger for
// third-party fragments beastpak does not merge itself. The helper is a
// capability: when it is not configured and mods contribute script
// fragments, deployment refuses rather than guessing.
package mergehelper

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sort"

	"github.com/arthur-debert/beastpak/pkg/errors"
	"github.com/arthur-debert/beastpak/pkg/types"
)

// Job describes one helper invocation.
type Job struct {
	// Fragments are the third-party script fragments to merge
	Fragments []types.ScriptFragment

	// Workspace is a directory the helper may use for intermediate output
	Workspace string
}

// Runner runs the external merge helper. The bool reports whether the
// helper completed successfully; an error means it could not be invoked
// at all.
type Runner interface {
	Run(ctx context.Context, job Job) (bool, error)
}

// Checksum fingerprints a fragment set: sha256 over the sorted origins,
// targets and file contents. The same mods with the same script files
// always produce the same checksum, so a recorded helper run stays valid
// until the fragment set changes.
func Checksum(fs types.FS, fragments []types.ScriptFragment) (string, error) {
	entries := make([]string, 0, len(fragments))
	for _, fragment := range fragments {
		content, err := fs.ReadFile(fragment.SourcePath)
		if err != nil {
			return "", errors.Wrap(err, errors.ErrFileAccess, "cannot read script fragment").
				WithDetail("path", fragment.SourcePath)
		}
		entries = append(entries, fragment.Origin+"\x00"+fragment.TargetFile+"\x00"+string(content))
	}
	sort.Strings(entries)

	h := sha256.New()
	for _, entry := range entries {
		h.Write([]byte(entry))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
