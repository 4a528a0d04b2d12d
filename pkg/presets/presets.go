// Package presets stores named tuning snapshots as JSON files under the
// config directory. A preset freezes the whole [tuning] table; applying
// one to a build layers its values over the configured ones.
package presets

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/arthur-debert/beastpak/pkg/errors"
	"github.com/arthur-debert/beastpak/pkg/logging"
	"github.com/arthur-debert/beastpak/pkg/types"
)

// SchemaVersion is the current preset file schema. Files without a
// _schema field, and files declaring 1, use the legacy flat key names
// and go through migration on load.
const SchemaVersion = 2

// fileExt is the preset file extension.
const fileExt = ".json"

var presetNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-_]*$`)

// Preset is one named tuning snapshot.
type Preset struct {
	// Schema the file was written with
	Schema int `json:"_schema"`

	// Name is the preset's identity, also its file name
	Name string `json:"name"`

	// SavedAt is when the snapshot was taken
	SavedAt time.Time `json:"saved_at"`

	// Tuning holds the frozen tuning table, keyed like the config file
	Tuning map[string]interface{} `json:"tuning"`
}

// Store reads and writes presets in one directory.
type Store struct {
	fs  types.FS
	dir string
}

// NewStore creates a Store over the given presets directory.
func NewStore(fs types.FS, dir string) *Store {
	return &Store{fs: fs, dir: dir}
}

// ValidateName checks a preset name: lowercase letters, digits, dashes
// and underscores, starting with a letter or digit.
func ValidateName(name string) error {
	if !presetNamePattern.MatchString(name) {
		return errors.Newf(errors.ErrPresetInvalid,
			"invalid preset name %q: use lowercase letters, digits, - and _", name)
	}
	return nil
}

// List returns every stored preset sorted by name. Files that fail to
// parse are skipped with a warning rather than breaking the listing.
func (s *Store) List() ([]Preset, error) {
	logger := logging.GetLogger("presets")

	entries, err := s.fs.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrIOFailure, "failed to read presets directory %s", s.dir)
	}

	var presets []Preset
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fileExt) {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), fileExt)
		preset, err := s.Load(name)
		if err != nil {
			logger.Warn().Err(err).Str("file", entry.Name()).Msg("skipping unreadable preset")
			continue
		}
		presets = append(presets, *preset)
	}

	sort.Slice(presets, func(i, j int) bool { return presets[i].Name < presets[j].Name })
	return presets, nil
}

// Save snapshots a tuning table under the given name, replacing any
// preset already stored under it.
func (s *Store) Save(name string, tuning map[string]interface{}) (*Preset, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	preset := &Preset{
		Schema:  SchemaVersion,
		Name:    name,
		SavedAt: time.Now().UTC(),
		Tuning:  tuning,
	}
	if preset.Tuning == nil {
		preset.Tuning = map[string]interface{}{}
	}

	data, err := json.MarshalIndent(preset, "", "  ")
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInternal, "failed to encode preset %s", name)
	}
	data = append(data, '\n')

	if err := s.fs.MkdirAll(s.dir, 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrIOFailure, "failed to create %s", s.dir)
	}
	if err := s.fs.WriteFile(s.path(name), data, 0644); err != nil {
		return nil, errors.Wrapf(err, errors.ErrIOFailure, "failed to write preset %s", name)
	}

	logger := logging.GetLogger("presets")
	logger.Info().
		Str("preset", name).
		Int("keys", len(preset.Tuning)).
		Msg("preset saved")
	return preset, nil
}

// Load reads one preset, migrating legacy files to the current schema.
func (s *Store) Load(name string) (*Preset, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	data, err := s.fs.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrPresetNotFound, "preset %q does not exist", name)
		}
		return nil, errors.Wrapf(err, errors.ErrIOFailure, "failed to read preset %s", name)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrapf(err, errors.ErrPresetInvalid, "preset %q is not valid JSON", name)
	}

	schema := schemaOf(raw)
	switch {
	case schema > SchemaVersion:
		return nil, errors.Newf(errors.ErrPresetInvalid,
			"preset %q uses schema %d, newer than this beastpak understands", name, schema)

	case schema == SchemaVersion:
		var preset Preset
		if err := json.Unmarshal(data, &preset); err != nil {
			return nil, errors.Wrapf(err, errors.ErrPresetInvalid, "preset %q has an invalid layout", name)
		}
		preset.Name = name
		if preset.Tuning == nil {
			preset.Tuning = map[string]interface{}{}
		}
		return &preset, nil

	default:
		// Schema 1 and schema-less files hold a flat legacy table
		return migrateLegacy(name, raw), nil
	}
}

// Delete removes a stored preset.
func (s *Store) Delete(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	if _, err := s.fs.Stat(s.path(name)); err != nil {
		if os.IsNotExist(err) {
			return errors.Newf(errors.ErrPresetNotFound, "preset %q does not exist", name)
		}
		return errors.Wrapf(err, errors.ErrIOFailure, "failed to check preset %s", name)
	}
	if err := s.fs.Remove(s.path(name)); err != nil {
		return errors.Wrapf(err, errors.ErrIOFailure, "failed to delete preset %s", name)
	}

	logger := logging.GetLogger("presets")
	logger.Info().Str("preset", name).Msg("preset deleted")
	return nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+fileExt)
}

// schemaOf reads the _schema field; absent means the original flat
// format, which predates explicit versioning.
func schemaOf(raw map[string]interface{}) int {
	v, ok := raw["_schema"]
	if !ok {
		return 1
	}
	f, ok := v.(float64)
	if !ok {
		return 1
	}
	return int(f)
}
