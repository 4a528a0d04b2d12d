// Package status implements the status command: game dir health, slot
// occupancy, installed mods and the state of the own package.
package status

import (
	"os"

	"github.com/arthur-debert/beastpak/pkg/commands/internal"
	"github.com/arthur-debert/beastpak/pkg/logging"
	"github.com/arthur-debert/beastpak/pkg/mods"
	"github.com/arthur-debert/beastpak/pkg/slots"
	"github.com/arthur-debert/beastpak/pkg/types"
)

// StatusOptions holds options for the status command.
type StatusOptions struct {
	// ConfigPath overrides the default config file location
	ConfigPath string

	// GameDir overrides the configured game directory
	GameDir string

	// FileSystem replaces the OS filesystem, used by tests
	FileSystem types.FS
}

// SlotView is one numbered deployment target in the occupancy table.
type SlotView struct {
	Category types.SlotCategory `json:"category"`
	Index    int                `json:"index"`
	Occupant string             `json:"occupant,omitempty"`
	Path     string             `json:"path,omitempty"`
}

// ModView summarizes one installed mod.
type ModView struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Version     string `json:"version,omitempty"`
	Artifacts   int    `json:"artifacts"`
	Fragments   int    `json:"fragments"`
	HeldSlots   int    `json:"held_slots"`
}

// Report is the status command's result.
type Report struct {
	GameDir          string     `json:"game_dir"`
	GameDirValid     bool       `json:"game_dir_valid"`
	GameDirProblem   string     `json:"game_dir_problem,omitempty"`
	PackagePath      string     `json:"package_path,omitempty"`
	PackageInstalled bool       `json:"package_installed"`
	HelperConfigured bool       `json:"merge_helper_configured"`
	Mods             []ModView  `json:"mods"`
	Slots            []SlotView `json:"slots"`
}

// Status reports the current deployment state without changing anything.
func Status(opts StatusOptions) (*Report, error) {
	logger := logging.GetLogger("commands.status")

	rt, err := internal.NewRuntime(internal.RuntimeOptions{
		ConfigPath: opts.ConfigPath,
		GameDir:    opts.GameDir,
		FileSystem: opts.FileSystem,
	})
	if err != nil {
		return nil, err
	}

	report := &Report{
		GameDir:          rt.Config.GameDir,
		HelperConfigured: rt.Config.MergeHelper.Path != "",
	}

	switch {
	case rt.Config.GameDir == "":
		report.GameDirProblem = "not configured"
	default:
		if err := rt.Layout.Validate(rt.FS); err != nil {
			report.GameDirProblem = err.Error()
		} else {
			report.GameDirValid = true
		}
		report.PackagePath = rt.Layout.OwnPackagePath()
		if _, err := rt.FS.Stat(report.PackagePath); err == nil {
			report.PackageInstalled = true
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	installed, err := mods.NewManager(rt.FS, rt.ModsDir(), rt.Store).Discover()
	if err != nil {
		return nil, err
	}
	for _, mod := range installed {
		report.Mods = append(report.Mods, ModView{
			ID:          mod.ID,
			DisplayName: mod.DisplayName,
			Version:     mod.Version,
			Artifacts:   len(mod.Artifacts),
			Fragments:   len(mod.ScriptFragments),
			HeldSlots:   len(mod.DeployedSlots),
		})
	}

	allocator := slots.New(rt.Store)
	for _, category := range types.SlotCategories() {
		occupancy, err := allocator.Occupancy(category)
		if err != nil {
			return nil, err
		}
		for _, slot := range occupancy {
			view := SlotView{
				Category: slot.Category,
				Index:    slot.Index,
				Occupant: slot.Occupant,
			}
			if rt.Config.GameDir != "" {
				if path, err := rt.Layout.SlotPath(slot.Category, slot.Index); err == nil {
					view.Path = path
				}
			}
			report.Slots = append(report.Slots, view)
		}
	}

	logger.Debug().
		Bool("game_dir_valid", report.GameDirValid).
		Int("mods", len(report.Mods)).
		Msg("status assembled")
	return report, nil
}
