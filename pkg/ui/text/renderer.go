// Package text provides plain text output without any styling
package text

import (
	"fmt"
	"io"
	"sort"

	"github.com/arthur-debert/beastpak/pkg/commands/genconfig"
	"github.com/arthur-debert/beastpak/pkg/commands/mods"
	"github.com/arthur-debert/beastpak/pkg/commands/presets"
	"github.com/arthur-debert/beastpak/pkg/commands/savebackup"
	"github.com/arthur-debert/beastpak/pkg/commands/status"
	"github.com/arthur-debert/beastpak/pkg/types"
)

// savedAtFormat is how preset timestamps are shown.
const savedAtFormat = "2006-01-02 15:04"

// Renderer provides plain text output without colors or styling
type Renderer struct {
	output io.Writer
}

// New creates a new text renderer
func New(output io.Writer) (*Renderer, error) {
	return &Renderer{output: output}, nil
}

// RenderResult renders any command result type as plain text
func (r *Renderer) RenderResult(result interface{}) error {
	switch v := result.(type) {
	case *types.BuildResult:
		return r.renderBuild(v)
	case *status.Report:
		return r.renderStatus(v)
	case *mods.ListResult:
		return r.renderModList(v)
	case *mods.AddResult:
		return r.printf("Added %s (%s) at %s\n", v.Mod.ID, countArtifacts(v.Mod), v.Path)
	case *mods.RemoveResult:
		return r.renderModRemoval(v)
	case *savebackup.BackupSavesResult:
		return r.printf("Saves backed up: %s -> %s\n", v.Backup.OriginalPath, v.Backup.BackupPath)
	case *presets.ListResult:
		return r.renderPresetList(v)
	case *presets.SaveResult:
		return r.printf("Preset %s saved to %s (%d key(s))\n", v.Preset.Name, v.Path, v.Preset.Keys)
	case *presets.ShowResult:
		return r.renderPreset(v)
	case *presets.DeleteResult:
		return r.printf("Preset %s deleted\n", v.Name)
	case *genconfig.GenConfigResult:
		return r.renderGenConfig(v)
	default:
		return r.printf("%+v\n", result)
	}
}

// RenderError renders an error as plain text
func (r *Renderer) RenderError(err error) error {
	return r.printf("Error: %v\n", err)
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	return r.printf("%s\n", msg)
}

func (r *Renderer) printf(format string, args ...interface{}) error {
	_, err := fmt.Fprintf(r.output, format, args...)
	return err
}

func (r *Renderer) renderBuild(result *types.BuildResult) error {
	if result.Status == types.BuildSuccess {
		if err := r.printf("Package installed at %s\n", result.InstalledPath); err != nil {
			return err
		}
		for _, warning := range result.Warnings {
			if err := r.printf("warning: %s\n", warning); err != nil {
				return err
			}
		}
		return nil
	}
	return r.printf("Build failed: %s\n", result.Reason)
}

func (r *Renderer) renderStatus(report *status.Report) error {
	switch {
	case report.GameDirProblem == "not configured":
		if err := r.printf("Game dir: not configured\n"); err != nil {
			return err
		}
	case !report.GameDirValid:
		if err := r.printf("Game dir: %s (broken: %s)\n", report.GameDir, report.GameDirProblem); err != nil {
			return err
		}
	default:
		if err := r.printf("Game dir: %s\n", report.GameDir); err != nil {
			return err
		}
	}

	if report.PackagePath != "" {
		installed := "not installed"
		if report.PackageInstalled {
			installed = "installed"
		}
		if err := r.printf("Package: %s (%s)\n", report.PackagePath, installed); err != nil {
			return err
		}
	}

	helper := "not configured"
	if report.HelperConfigured {
		helper = "configured"
	}
	if err := r.printf("Merge helper: %s\n", helper); err != nil {
		return err
	}

	if len(report.Mods) == 0 {
		if err := r.printf("Mods: none\n"); err != nil {
			return err
		}
	} else {
		if err := r.printf("Mods (%d):\n", len(report.Mods)); err != nil {
			return err
		}
		for _, mod := range report.Mods {
			line := fmt.Sprintf("  %s : %d artifact(s)", mod.ID, mod.Artifacts)
			if mod.Fragments > 0 {
				line += fmt.Sprintf(", %d script fragment(s)", mod.Fragments)
			}
			if mod.HeldSlots > 0 {
				line += fmt.Sprintf(", %d slot(s)", mod.HeldSlots)
			}
			if err := r.printf("%s\n", line); err != nil {
				return err
			}
		}
	}

	if len(report.Slots) > 0 {
		if err := r.printf("Slots:\n"); err != nil {
			return err
		}
		for _, slot := range report.Slots {
			occupant := slot.Occupant
			if occupant == "" {
				occupant = "free"
			}
			if err := r.printf("  %s %d : %s\n", slot.Category, slot.Index, occupant); err != nil {
				return err
			}
		}
	}

	return nil
}

func (r *Renderer) renderModList(list *mods.ListResult) error {
	if len(list.Mods) == 0 {
		return r.printf("No mods installed\n")
	}

	if err := r.printf("Mods in %s:\n", list.ModsDir); err != nil {
		return err
	}
	for _, mod := range list.Mods {
		line := fmt.Sprintf("  %s", mod.ID)
		if mod.DisplayName != "" && mod.DisplayName != mod.ID {
			line += fmt.Sprintf(" (%s)", mod.DisplayName)
		}
		if mod.Version != "" {
			line += " v" + mod.Version
		}
		line += fmt.Sprintf(" : %d artifact(s)", mod.Artifacts)
		if mod.Fragments > 0 {
			line += fmt.Sprintf(", %d script fragment(s)", mod.Fragments)
		}
		if len(mod.Slots) > 0 {
			line += fmt.Sprintf(", holds %v", mod.Slots)
		}
		if err := r.printf("%s\n", line); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) renderModRemoval(removal *mods.RemoveResult) error {
	if err := r.printf("Removed %s\n", removal.ID); err != nil {
		return err
	}
	for _, slot := range removal.FreedSlots {
		if err := r.printf("  freed %s\n", slot); err != nil {
			return err
		}
	}
	for _, file := range removal.DeletedFiles {
		if err := r.printf("  deleted %s\n", file); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) renderPresetList(list *presets.ListResult) error {
	if len(list.Presets) == 0 {
		return r.printf("No presets saved\n")
	}

	if err := r.printf("Presets in %s:\n", list.PresetsDir); err != nil {
		return err
	}
	for _, preset := range list.Presets {
		line := fmt.Sprintf("  %s (%d key(s)", preset.Name, preset.Keys)
		if !preset.SavedAt.IsZero() {
			line += ", saved " + preset.SavedAt.Format(savedAtFormat)
		}
		line += ")"
		if err := r.printf("%s\n", line); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) renderPreset(shown *presets.ShowResult) error {
	preset := shown.Preset
	header := fmt.Sprintf("Preset %s", preset.Name)
	if !preset.SavedAt.IsZero() {
		header += ", saved " + preset.SavedAt.Format(savedAtFormat)
	}
	if err := r.printf("%s\n", header); err != nil {
		return err
	}

	keys := make([]string, 0, len(preset.Tuning))
	for key := range preset.Tuning {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if err := r.printf("  %s = %v\n", key, preset.Tuning[key]); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) renderGenConfig(result *genconfig.GenConfigResult) error {
	if result.Written {
		return r.printf("Config written to %s\n", result.Path)
	}
	if result.Path != "" {
		return r.printf("Config already exists at %s, leaving it alone\n", result.Path)
	}
	return r.printf("%s", result.Content)
}

func countArtifacts(mod mods.ModDetail) string {
	s := fmt.Sprintf("%d artifact(s)", mod.Artifacts)
	if mod.Fragments > 0 {
		s += fmt.Sprintf(", %d script fragment(s)", mod.Fragments)
	}
	return s
}
