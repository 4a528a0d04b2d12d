package mods

import (
	"strings"
	"time"
	"unicode"

	"github.com/arthur-debert/beastpak/pkg/errors"
	toml "github.com/pelletier/go-toml/v2"
)

// ManifestFileName is the manifest every registered mod directory carries.
const ManifestFileName = "modinfo.toml"

// Manifest is the parsed modinfo.toml of an installed mod.
type Manifest struct {
	// ID is the stable identifier, matching the mod's directory name
	ID string `toml:"id"`

	// DisplayName is the human-facing name, defaults to the ID
	DisplayName string `toml:"display_name"`

	// Version as declared by the mod author
	Version string `toml:"version,omitempty"`

	// Origin records where the mod came from, e.g. a download URL
	Origin string `toml:"origin,omitempty"`

	// InstalledAt orders mods for merge precedence
	InstalledAt time.Time `toml:"installed_at"`
}

// parseManifest decodes and validates a modinfo.toml document.
func parseManifest(data []byte) (Manifest, error) {
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return Manifest{}, errors.Wrap(err, errors.ErrModManifest, "failed to parse mod manifest")
	}

	if m.ID == "" {
		return Manifest{}, errors.New(errors.ErrModManifest, "mod manifest has no id")
	}
	if err := ValidateModID(m.ID); err != nil {
		return Manifest{}, err
	}
	if m.DisplayName == "" {
		m.DisplayName = m.ID
	}

	return m, nil
}

// encodeManifest renders a manifest back to TOML.
func encodeManifest(m Manifest) ([]byte, error) {
	data, err := toml.Marshal(m)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrModManifest, "failed to encode mod manifest")
	}
	return data, nil
}

// ValidateModID checks that an id is usable as a directory name and a
// state-record key.
func ValidateModID(id string) error {
	if id == "" {
		return errors.New(errors.ErrModInvalid, "empty mod id")
	}
	if id == "." || id == ".." {
		return errors.Newf(errors.ErrModInvalid, "invalid mod id %q", id)
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_' || r == '.':
		default:
			return errors.Newf(errors.ErrModInvalid,
				"invalid mod id %q: only lowercase letters, digits, '-', '_' and '.' are allowed", id)
		}
	}
	return nil
}

// NormalizeModID derives a valid mod id from a free-form name, typically
// the extracted directory name.
func NormalizeModID(name string) (string, error) {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(unicode.ToLower(r))
		case r == '-' || r == '_' || r == '.':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune('-')
		}
	}

	id := strings.Trim(b.String(), "-.")
	if err := ValidateModID(id); err != nil {
		return "", errors.Newf(errors.ErrModInvalid, "cannot derive a mod id from %q", name)
	}
	return id, nil
}
