// Package terminal provides rich terminal output with colors and styling
package terminal

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/arthur-debert/beastpak/pkg/commands/genconfig"
	"github.com/arthur-debert/beastpak/pkg/commands/mods"
	"github.com/arthur-debert/beastpak/pkg/commands/presets"
	"github.com/arthur-debert/beastpak/pkg/commands/savebackup"
	"github.com/arthur-debert/beastpak/pkg/commands/status"
	"github.com/arthur-debert/beastpak/pkg/style"
	"github.com/arthur-debert/beastpak/pkg/types"
)

const savedAtFormat = "2006-01-02 15:04"

// Renderer provides rich terminal output composed from the style package
type Renderer struct {
	output io.Writer
}

// New creates a new terminal renderer
func New(w io.Writer) (*Renderer, error) {
	return &Renderer{output: w}, nil
}

// RenderResult renders any command result type with terminal styling
func (r *Renderer) RenderResult(result interface{}) error {
	switch v := result.(type) {
	case *types.BuildResult:
		return r.renderBuild(v)
	case *status.Report:
		return r.renderStatus(v)
	case *mods.ListResult:
		return r.renderModList(v)
	case *mods.AddResult:
		return r.println(fmt.Sprintf("%s %s registered at %s",
			style.SuccessIndicator, style.Bold(v.Mod.ID), style.PathStyle.Render(v.Path)))
	case *mods.RemoveResult:
		return r.renderModRemoval(v)
	case *savebackup.BackupSavesResult:
		return r.println(fmt.Sprintf("%s saves backed up to %s",
			style.SuccessIndicator, style.PathStyle.Render(v.Backup.BackupPath)))
	case *presets.ListResult:
		return r.renderPresetList(v)
	case *presets.SaveResult:
		return r.println(fmt.Sprintf("%s preset %s saved to %s",
			style.SuccessIndicator, style.Bold(v.Preset.Name), style.PathStyle.Render(v.Path)))
	case *presets.ShowResult:
		return r.renderPreset(v)
	case *presets.DeleteResult:
		return r.println(fmt.Sprintf("%s preset %s deleted", style.SuccessIndicator, style.Bold(v.Name)))
	case *genconfig.GenConfigResult:
		return r.renderGenConfig(v)
	default:
		_, err := fmt.Fprintf(r.output, "%+v\n", result)
		return err
	}
}

// RenderError renders an error with its code badge
func (r *Renderer) RenderError(err error) error {
	if err == nil {
		return nil
	}
	return r.println(style.RenderErrorLine(err))
}

// RenderMessage renders a message, resolving style markup tags
func (r *Renderer) RenderMessage(msg string) error {
	return r.println(style.Render(msg))
}

func (r *Renderer) println(line string) error {
	_, err := fmt.Fprintln(r.output, line)
	return err
}

func (r *Renderer) renderBuild(result *types.BuildResult) error {
	if err := r.println(style.RenderBuildLine(result)); err != nil {
		return err
	}
	for _, warning := range result.Warnings {
		if err := r.println(style.Indent(style.WarningIndicator+" "+warning, 1)); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) renderStatus(report *status.Report) error {
	var b strings.Builder

	switch {
	case report.GameDirProblem == "not configured":
		b.WriteString(style.StatusStyle(style.StatusWarning).Sprint(" game dir ") + " not configured\n")
	case !report.GameDirValid:
		b.WriteString(style.StatusStyle(style.StatusError).Sprint(" game dir ") + " " +
			report.GameDir + " " + style.ErrorStyle.Render(report.GameDirProblem) + "\n")
	default:
		b.WriteString(style.StatusStyle(style.StatusOK).Sprint(" game dir ") + " " +
			style.PathStyle.Render(report.GameDir) + "\n")
	}

	if report.PackagePath != "" {
		badge := style.StatusStyle(style.StatusFree).Sprint(" package ")
		state := style.MutedStyle.Render("not installed")
		if report.PackageInstalled {
			badge = style.StatusStyle(style.StatusOK).Sprint(" package ")
			state = "installed"
		}
		b.WriteString(badge + " " + style.PathStyle.Render(report.PackagePath) + " " + state + "\n")
	}

	helper := style.MutedStyle.Render("merge helper not configured")
	if report.HelperConfigured {
		helper = "merge helper configured"
	}
	b.WriteString(helper + "\n\n")

	if len(report.Mods) == 0 {
		b.WriteString(style.MutedStyle.Render("No mods installed") + "\n")
	} else {
		b.WriteString(style.SubtitleStyle.Render("Mods") + "\n")
		for _, mod := range report.Mods {
			b.WriteString(style.RenderModLine(mod.ID, mod.DisplayName, mod.Version, mod.Artifacts, mod.Fragments) + "\n")
		}
	}

	if len(report.Slots) > 0 {
		b.WriteString("\n" + style.SubtitleStyle.Render("Slots") + "\n")
		for _, slot := range report.Slots {
			b.WriteString(style.RenderSlotLine(slot.Category, slot.Index, slot.Occupant, slot.Path) + "\n")
		}
	}

	_, err := fmt.Fprint(r.output, b.String())
	return err
}

func (r *Renderer) renderModList(list *mods.ListResult) error {
	if len(list.Mods) == 0 {
		return r.println(style.MutedStyle.Render("No mods installed"))
	}

	var b strings.Builder
	b.WriteString(style.SubtitleStyle.Render("Mods") + " " + style.MutedStyle.Render(list.ModsDir) + "\n")
	for _, mod := range list.Mods {
		b.WriteString(style.RenderModLine(mod.ID, mod.DisplayName, mod.Version, mod.Artifacts, mod.Fragments) + "\n")
		if len(mod.Slots) > 0 {
			b.WriteString(style.Indent(style.MutedStyle.Render("holds "+strings.Join(mod.Slots, ", ")), 3) + "\n")
		}
	}
	_, err := fmt.Fprint(r.output, b.String())
	return err
}

func (r *Renderer) renderModRemoval(removal *mods.RemoveResult) error {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %s removed\n", style.SuccessIndicator, style.Bold(removal.ID)))
	for _, slot := range removal.FreedSlots {
		b.WriteString(style.Indent("freed "+slot, 1) + "\n")
	}
	for _, file := range removal.DeletedFiles {
		b.WriteString(style.Indent("deleted "+style.PathStyle.Render(file), 1) + "\n")
	}
	_, err := fmt.Fprint(r.output, b.String())
	return err
}

func (r *Renderer) renderPresetList(list *presets.ListResult) error {
	if len(list.Presets) == 0 {
		return r.println(style.MutedStyle.Render("No presets saved"))
	}

	var b strings.Builder
	b.WriteString(style.SubtitleStyle.Render("Presets") + " " + style.MutedStyle.Render(list.PresetsDir) + "\n")
	for _, preset := range list.Presets {
		line := fmt.Sprintf("    %s : %d key(s)", style.Bold(preset.Name), preset.Keys)
		if !preset.SavedAt.IsZero() {
			line += style.MutedStyle.Render(" saved " + preset.SavedAt.Format(savedAtFormat))
		}
		b.WriteString(line + "\n")
	}
	_, err := fmt.Fprint(r.output, b.String())
	return err
}

func (r *Renderer) renderPreset(shown *presets.ShowResult) error {
	preset := shown.Preset

	var b strings.Builder
	header := style.SubtitleStyle.Render(preset.Name)
	if !preset.SavedAt.IsZero() {
		header += style.MutedStyle.Render(" saved " + preset.SavedAt.Format(savedAtFormat))
	}
	b.WriteString(header + "\n")

	keys := make([]string, 0, len(preset.Tuning))
	for key := range preset.Tuning {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		b.WriteString(fmt.Sprintf("    %s = %v\n", style.CodeStyle.Render(key), preset.Tuning[key]))
	}

	_, err := fmt.Fprint(r.output, b.String())
	return err
}

func (r *Renderer) renderGenConfig(result *genconfig.GenConfigResult) error {
	if result.Written {
		return r.println(fmt.Sprintf("%s config written to %s",
			style.SuccessIndicator, style.PathStyle.Render(result.Path)))
	}
	if result.Path != "" {
		return r.println(fmt.Sprintf("%s config already exists at %s, leaving it alone",
			style.WarningIndicator, style.PathStyle.Render(result.Path)))
	}
	_, err := fmt.Fprint(r.output, result.Content)
	return err
}
