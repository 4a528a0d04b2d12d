// Package mods manages third-party modifications registered with
// beastpak. Each mod lives in its own directory under the mods dir with a
// modinfo.toml manifest; discovery scans those directories and classifies
// the deployable files inside them. Archive extraction is out of scope,
// mods are registered from already-extracted directories.
package mods

import (
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/arthur-debert/beastpak/pkg/errors"
	"github.com/arthur-debert/beastpak/pkg/logging"
	"github.com/arthur-debert/beastpak/pkg/scr"
	"github.com/arthur-debert/beastpak/pkg/slots"
	"github.com/arthur-debert/beastpak/pkg/state"
	"github.com/arthur-debert/beastpak/pkg/types"
)

// Manager discovers, registers and removes installed mods.
type Manager struct {
	fs      types.FS
	modsDir string
	store   state.Store
}

// NewManager creates a Manager over the given mods directory.
func NewManager(fs types.FS, modsDir string, store state.Store) *Manager {
	return &Manager{
		fs:      fs,
		modsDir: modsDir,
		store:   store,
	}
}

// Discover scans the mods directory and returns every registered mod in
// installation order, oldest first. Directories without a readable
// manifest are skipped with a warning, they never fail the scan.
func (m *Manager) Discover() ([]types.InstalledMod, error) {
	logger := logging.GetLogger("mods")

	entries, err := m.fs.ReadDir(m.modsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, errors.ErrFileAccess, "cannot read mods directory").
			WithDetail("path", m.modsDir)
	}

	held, err := m.heldSlots()
	if err != nil {
		return nil, err
	}

	var installed []types.InstalledMod
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		mod, err := m.load(filepath.Join(m.modsDir, entry.Name()))
		if err != nil {
			logger.Warn().
				Err(err).
				Str("dir", entry.Name()).
				Msg("skipping unreadable mod directory")
			continue
		}

		mod.DeployedSlots = held[mod.ID]
		installed = append(installed, mod)
	}

	// Installation order drives merge precedence
	sort.Slice(installed, func(i, j int) bool {
		if installed[i].InstalledAt.Equal(installed[j].InstalledAt) {
			return installed[i].ID < installed[j].ID
		}
		return installed[i].InstalledAt.Before(installed[j].InstalledAt)
	})

	logger.Debug().Int("count", len(installed)).Msg("discovered installed mods")
	return installed, nil
}

// Get returns a single installed mod by id.
func (m *Manager) Get(id string) (types.InstalledMod, error) {
	dir := filepath.Join(m.modsDir, id)

	if _, err := m.fs.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return types.InstalledMod{}, errors.Newf(errors.ErrModNotFound, "mod %q is not installed", id).
				WithDetail("mod", id)
		}
		return types.InstalledMod{}, errors.Wrap(err, errors.ErrFileAccess, "cannot access mod directory").
			WithDetail("path", dir)
	}

	mod, err := m.load(dir)
	if err != nil {
		return types.InstalledMod{}, err
	}

	held, err := m.heldSlots()
	if err != nil {
		return types.InstalledMod{}, err
	}
	mod.DeployedSlots = held[mod.ID]

	return mod, nil
}

// AddOptions customize mod registration. Zero values derive everything
// from the source directory name.
type AddOptions struct {
	// ID overrides the derived identifier
	ID string

	// DisplayName overrides the human-facing name
	DisplayName string

	// Version as declared by the mod author
	Version string

	// Origin records where the mod came from
	Origin string
}

// Add registers an already-extracted mod directory. The directory tree is
// copied under the mods dir and a manifest is written; registering an id
// that is already installed fails.
func (m *Manager) Add(sourceDir string, opts AddOptions) (types.InstalledMod, error) {
	logger := logging.GetLogger("mods")

	info, err := m.fs.Stat(sourceDir)
	if err != nil {
		if os.IsNotExist(err) {
			return types.InstalledMod{}, errors.Newf(errors.ErrNotFound, "mod source %q does not exist", sourceDir)
		}
		return types.InstalledMod{}, errors.Wrap(err, errors.ErrFileAccess, "cannot access mod source").
			WithDetail("path", sourceDir)
	}
	if !info.IsDir() {
		return types.InstalledMod{}, errors.Newf(errors.ErrInvalidInput, "mod source %q is not a directory", sourceDir)
	}

	id := opts.ID
	if id == "" {
		id, err = NormalizeModID(filepath.Base(sourceDir))
		if err != nil {
			return types.InstalledMod{}, err
		}
	} else if err := ValidateModID(id); err != nil {
		return types.InstalledMod{}, err
	}

	target := filepath.Join(m.modsDir, id)
	if _, err := m.fs.Stat(target); err == nil {
		return types.InstalledMod{}, errors.Newf(errors.ErrAlreadyExists, "mod %q is already installed", id).
			WithDetail("mod", id)
	} else if !os.IsNotExist(err) {
		return types.InstalledMod{}, errors.Wrap(err, errors.ErrFileAccess, "cannot check mod directory").
			WithDetail("path", target)
	}

	if err := m.copyTree(sourceDir, target); err != nil {
		return types.InstalledMod{}, err
	}

	manifest := Manifest{
		ID:          id,
		DisplayName: opts.DisplayName,
		Version:     opts.Version,
		Origin:      opts.Origin,
		InstalledAt: time.Now().UTC(),
	}
	if manifest.DisplayName == "" {
		manifest.DisplayName = filepath.Base(sourceDir)
	}

	data, err := encodeManifest(manifest)
	if err != nil {
		return types.InstalledMod{}, err
	}
	if err := m.fs.WriteFile(filepath.Join(target, ManifestFileName), data, 0644); err != nil {
		return types.InstalledMod{}, errors.Wrap(err, errors.ErrFileWrite, "failed to write mod manifest").
			WithDetail("mod", id)
	}

	logger.Info().Str("mod", id).Str("from", sourceDir).Msg("mod registered")
	return m.Get(id)
}

// RemovalResult reports what removing a mod cleaned up.
type RemovalResult struct {
	// ID of the removed mod
	ID string

	// FreedSlots the mod no longer holds
	FreedSlots []types.DeploySlot

	// DeletedFiles removed from the game tree
	DeletedFiles []string
}

// Remove unregisters a mod: deletes its deployed files from the game
// tree, frees its slots, drops its state records and removes its raw
// files.
func (m *Manager) Remove(id string) (RemovalResult, error) {
	logger := logging.GetLogger("mods")

	mod, err := m.Get(id)
	if err != nil {
		return RemovalResult{}, err
	}

	result := RemovalResult{ID: id}

	// Deployed files first, while the records still exist
	deployed, err := m.store.DeployedArtifacts(id)
	if err != nil {
		return result, errors.Wrap(err, errors.ErrIOFailure, "failed to read deployed records").
			WithDetail("mod", id)
	}
	for name, destPath := range deployed {
		if _, err := m.fs.Stat(destPath); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return result, errors.Wrap(err, errors.ErrIOFailure, "failed to check deployed file").
				WithDetail("path", destPath)
		}
		if err := m.fs.Remove(destPath); err != nil {
			return result, errors.Wrap(err, errors.ErrIOFailure, "failed to delete deployed file").
				WithDetail("path", destPath).
				WithDetail("artifact", name)
		}
		result.DeletedFiles = append(result.DeletedFiles, destPath)
	}
	sort.Strings(result.DeletedFiles)

	allocator := slots.New(m.store)
	result.FreedSlots = mod.DeployedSlots
	for _, category := range allCategories() {
		if err := allocator.Free(category, id); err != nil {
			return result, err
		}
	}

	if err := m.store.ClearDeployed(id); err != nil {
		return result, errors.Wrap(err, errors.ErrIOFailure, "failed to clear deployed records").
			WithDetail("mod", id)
	}

	if err := m.fs.RemoveAll(filepath.Join(m.modsDir, id)); err != nil {
		return result, errors.Wrap(err, errors.ErrIOFailure, "failed to remove mod files").
			WithDetail("mod", id)
	}

	logger.Info().
		Str("mod", id).
		Int("deletedFiles", len(result.DeletedFiles)).
		Int("freedSlots", len(result.FreedSlots)).
		Msg("mod removed")
	return result, nil
}

// load reads one mod directory: manifest, artifact scan, fragment parse.
func (m *Manager) load(dir string) (types.InstalledMod, error) {
	data, err := m.fs.ReadFile(filepath.Join(dir, ManifestFileName))
	if err != nil {
		return types.InstalledMod{}, errors.Wrap(err, errors.ErrModManifest, "cannot read mod manifest").
			WithDetail("path", dir)
	}

	manifest, err := parseManifest(data)
	if err != nil {
		return types.InstalledMod{}, err
	}

	// Slot and deployment records are keyed by id, so it has to match
	// the directory the mod lives in
	if manifest.ID != filepath.Base(dir) {
		return types.InstalledMod{}, errors.Newf(errors.ErrModManifest,
			"manifest id %q does not match directory %q", manifest.ID, filepath.Base(dir))
	}

	mod := types.InstalledMod{
		ID:           manifest.ID,
		DisplayName:  manifest.DisplayName,
		Version:      manifest.Version,
		RawFilesPath: dir,
		InstalledAt:  manifest.InstalledAt,
	}

	artifacts, err := m.scanArtifacts(dir)
	if err != nil {
		return types.InstalledMod{}, err
	}
	mod.Artifacts = artifacts

	for _, artifact := range artifacts {
		if artifact.Kind != types.ArtifactScriptFragment {
			continue
		}

		sourcePath := mod.ArtifactPath(artifact)
		content, err := m.fs.ReadFile(sourcePath)
		if err != nil {
			return types.InstalledMod{}, errors.Wrap(err, errors.ErrFileAccess, "cannot read script fragment").
				WithDetail("path", sourcePath)
		}

		// Fragments with nothing parseable still count: the merge helper
		// gate and checksum see the file even if the merger cannot
		mod.ScriptFragments = append(mod.ScriptFragments, types.ScriptFragment{
			TargetFile: artifact.RelPath,
			Overrides:  scr.Parse(content, mod.ID),
			Origin:     mod.ID,
			SourcePath: sourcePath,
		})
	}

	return mod, nil
}

// scanArtifacts walks a mod tree and classifies every deployable file.
// Unknown kinds (readmes, screenshots, the manifest itself) are ignored.
func (m *Manager) scanArtifacts(root string) ([]types.Artifact, error) {
	var artifacts []types.Artifact

	var walk func(dir, rel string) error
	walk = func(dir, rel string) error {
		entries, err := m.fs.ReadDir(dir)
		if err != nil {
			return errors.Wrap(err, errors.ErrFileAccess, "cannot read mod directory").
				WithDetail("path", dir)
		}

		for _, entry := range entries {
			name := entry.Name()
			entryRel := name
			if rel != "" {
				entryRel = path.Join(rel, name)
			}

			if entry.IsDir() {
				if err := walk(filepath.Join(dir, name), entryRel); err != nil {
					return err
				}
				continue
			}

			kind := types.ClassifyArtifact(name)
			if kind == types.ArtifactUnknown {
				continue
			}
			artifacts = append(artifacts, types.Artifact{RelPath: entryRel, Kind: kind})
		}
		return nil
	}

	if err := walk(root, ""); err != nil {
		return nil, err
	}

	sort.Slice(artifacts, func(i, j int) bool {
		return artifacts[i].RelPath < artifacts[j].RelPath
	})
	return artifacts, nil
}

// copyTree copies a directory tree file by file.
func (m *Manager) copyTree(src, dst string) error {
	if err := m.fs.MkdirAll(dst, 0755); err != nil {
		return errors.Wrap(err, errors.ErrDirCreate, "failed to create mod directory").
			WithDetail("path", dst)
	}

	entries, err := m.fs.ReadDir(src)
	if err != nil {
		return errors.Wrap(err, errors.ErrFileAccess, "cannot read mod source").
			WithDetail("path", src)
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		if entry.IsDir() {
			if err := m.copyTree(srcPath, dstPath); err != nil {
				return err
			}
			continue
		}

		content, err := m.fs.ReadFile(srcPath)
		if err != nil {
			return errors.Wrap(err, errors.ErrFileAccess, "cannot read mod file").
				WithDetail("path", srcPath)
		}
		if err := m.fs.WriteFile(dstPath, content, 0644); err != nil {
			return errors.Wrap(err, errors.ErrFileWrite, "failed to copy mod file").
				WithDetail("path", dstPath)
		}
	}

	return nil
}

// heldSlots maps mod ids to the slots they currently hold.
func (m *Manager) heldSlots() (map[string][]types.DeploySlot, error) {
	held := make(map[string][]types.DeploySlot)

	for _, category := range allCategories() {
		occupied, err := m.store.LoadSlots(category)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrIOFailure,
				"failed to load slot records for %s", category)
		}

		indices := make([]int, 0, len(occupied))
		for index := range occupied {
			indices = append(indices, index)
		}
		sort.Ints(indices)

		for _, index := range indices {
			modID := occupied[index]
			held[modID] = append(held[modID], types.DeploySlot{
				Category: category,
				Index:    index,
				Occupant: modID,
			})
		}
	}

	return held, nil
}

// allCategories lists every slot category, the unbounded one included.
func allCategories() []types.SlotCategory {
	return []types.SlotCategory{
		types.CategoryVisualBundle,
		types.CategoryDataPackage,
		types.CategoryNativePlugin,
	}
}
