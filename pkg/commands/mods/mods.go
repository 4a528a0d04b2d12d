// Package mods implements the mod management commands: list registered
// mods, add new ones from extracted directories and remove installed ones
// together with their deployed files.
package mods

import (
	"fmt"
	"time"

	"github.com/arthur-debert/beastpak/pkg/commands/internal"
	"github.com/arthur-debert/beastpak/pkg/logging"
	modlib "github.com/arthur-debert/beastpak/pkg/mods"
	"github.com/arthur-debert/beastpak/pkg/types"
)

// ModDetail is one registered mod as reported by list and add.
type ModDetail struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Version     string    `json:"version,omitempty"`
	InstalledAt time.Time `json:"installed_at"`
	Artifacts   int       `json:"artifacts"`
	Fragments   int       `json:"fragments"`
	Slots       []string  `json:"slots,omitempty"`
}

// ListOptions configure the mods list command.
type ListOptions struct {
	ConfigPath string
	GameDir    string
	FileSystem types.FS
}

// ListResult is the registry as discovered on disk, in installation order.
type ListResult struct {
	ModsDir string      `json:"mods_dir"`
	Mods    []ModDetail `json:"mods"`
}

// List discovers every registered mod. A game directory is not needed,
// the registry lives under the data dir.
func List(opts ListOptions) (*ListResult, error) {
	logger := logging.GetLogger("commands.mods")

	rt, err := internal.NewRuntime(internal.RuntimeOptions{
		ConfigPath: opts.ConfigPath,
		GameDir:    opts.GameDir,
		FileSystem: opts.FileSystem,
	})
	if err != nil {
		return nil, err
	}

	manager := modlib.NewManager(rt.FS, rt.ModsDir(), rt.Store)
	installed, err := manager.Discover()
	if err != nil {
		return nil, err
	}

	result := &ListResult{ModsDir: rt.ModsDir()}
	for _, mod := range installed {
		result.Mods = append(result.Mods, detailOf(mod))
	}

	logger.Debug().Int("mods", len(result.Mods)).Msg("mods listed")
	return result, nil
}

// AddOptions configure mod registration. ID, DisplayName and Version
// default from the source directory when empty.
type AddOptions struct {
	ConfigPath  string
	GameDir     string
	SourceDir   string
	ID          string
	DisplayName string
	Version     string
	Origin      string
	FileSystem  types.FS
}

// AddResult reports the newly registered mod and where its files landed.
type AddResult struct {
	Mod  ModDetail `json:"mod"`
	Path string    `json:"path"`
}

// Add copies an extracted mod directory into the registry and writes its
// manifest.
func Add(opts AddOptions) (*AddResult, error) {
	logger := logging.GetLogger("commands.mods")

	rt, err := internal.NewRuntime(internal.RuntimeOptions{
		ConfigPath: opts.ConfigPath,
		GameDir:    opts.GameDir,
		FileSystem: opts.FileSystem,
	})
	if err != nil {
		return nil, err
	}

	manager := modlib.NewManager(rt.FS, rt.ModsDir(), rt.Store)
	mod, err := manager.Add(opts.SourceDir, modlib.AddOptions{
		ID:          opts.ID,
		DisplayName: opts.DisplayName,
		Version:     opts.Version,
		Origin:      opts.Origin,
	})
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("mod", mod.ID).
		Int("artifacts", len(mod.Artifacts)).
		Msg("mod added")
	return &AddResult{Mod: detailOf(mod), Path: mod.RawFilesPath}, nil
}

// RemoveOptions configure mod removal.
type RemoveOptions struct {
	ConfigPath string
	GameDir    string
	ID         string
	FileSystem types.FS
}

// RemoveResult reports what removal cleaned up.
type RemoveResult struct {
	ID           string   `json:"id"`
	FreedSlots   []string `json:"freed_slots,omitempty"`
	DeletedFiles []string `json:"deleted_files,omitempty"`
}

// Remove unregisters a mod, deleting its deployed files and freeing the
// slots it held.
func Remove(opts RemoveOptions) (*RemoveResult, error) {
	logger := logging.GetLogger("commands.mods")

	rt, err := internal.NewRuntime(internal.RuntimeOptions{
		ConfigPath: opts.ConfigPath,
		GameDir:    opts.GameDir,
		FileSystem: opts.FileSystem,
	})
	if err != nil {
		return nil, err
	}

	manager := modlib.NewManager(rt.FS, rt.ModsDir(), rt.Store)
	removal, err := manager.Remove(opts.ID)
	if err != nil {
		return nil, err
	}

	result := &RemoveResult{ID: removal.ID, DeletedFiles: removal.DeletedFiles}
	for _, slot := range removal.FreedSlots {
		result.FreedSlots = append(result.FreedSlots, slotLabel(slot))
	}

	logger.Info().
		Str("mod", removal.ID).
		Int("deletedFiles", len(removal.DeletedFiles)).
		Msg("mod removed")
	return result, nil
}

func detailOf(mod types.InstalledMod) ModDetail {
	detail := ModDetail{
		ID:          mod.ID,
		DisplayName: mod.DisplayName,
		Version:     mod.Version,
		InstalledAt: mod.InstalledAt,
		Artifacts:   len(mod.Artifacts),
		Fragments:   len(mod.ScriptFragments),
	}
	for _, slot := range mod.DeployedSlots {
		detail.Slots = append(detail.Slots, slotLabel(slot))
	}
	return detail
}

func slotLabel(slot types.DeploySlot) string {
	return fmt.Sprintf("%s/%d", slot.Category, slot.Index)
}
