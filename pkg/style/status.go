package style

import (
	"fmt"

	"github.com/pterm/pterm"

	"github.com/arthur-debert/beastpak/pkg/errors"
	"github.com/arthur-debert/beastpak/pkg/types"
)

// Status classifies a report line for badge styling.
type Status string

const (
	StatusOK      Status = "ok"      // Installed, healthy, occupied
	StatusError   Status = "error"   // Build failed, game dir broken
	StatusPending Status = "pending" // Build stage still in flight
	StatusWarning Status = "warning" // Partial failure, skipped artifact
	StatusFree    Status = "free"    // Unoccupied slot, nothing installed
)

// StatusStyle returns the appropriate pterm style for a status
func StatusStyle(status Status) *pterm.Style {
	switch status {
	case StatusOK:
		return pterm.NewStyle(pterm.BgGreen, pterm.FgWhite)
	case StatusError:
		return pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	case StatusPending:
		return pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	case StatusWarning:
		return pterm.NewStyle(pterm.BgYellow, pterm.FgBlack, pterm.Bold)
	default:
		return pterm.NewStyle(pterm.FgGray)
	}
}

// BuildStateStatus maps a build state to its badge status.
func BuildStateStatus(state types.BuildState) Status {
	switch state {
	case types.BuildStateInstalled:
		return StatusOK
	case types.BuildStateFailed:
		return StatusError
	case types.BuildStateIdle:
		return StatusFree
	default:
		return StatusPending
	}
}

// RenderBuildLine renders the single outcome line of a build.
func RenderBuildLine(result *types.BuildResult) string {
	badge := StatusStyle(BuildStateStatus(result.FinalState)).Sprintf(" %s ", result.FinalState)

	if result.Status == types.BuildSuccess {
		line := fmt.Sprintf("%s package installed at %s", badge, PathStyle.Render(result.InstalledPath))
		if n := len(result.Warnings); n > 0 {
			line += " " + StatusStyle(StatusWarning).Sprintf(" %d warning(s) ", n)
		}
		return line
	}

	return fmt.Sprintf("%s build failed: %s", badge, result.Reason)
}

// RenderSlotLine renders one slot occupancy row. Free slots are muted,
// occupied ones carry the occupant and, when known, the target path.
func RenderSlotLine(category types.SlotCategory, index int, occupant, path string) string {
	label := fmt.Sprintf("%-16s", fmt.Sprintf("%s %d", category, index))

	if occupant == "" {
		return fmt.Sprintf("    %s : %s", MutedStyle.Render(label), MutedStyle.Render("free"))
	}

	line := fmt.Sprintf("    %s : %s", StatusStyle(StatusOK).Sprint(label), occupant)
	if path != "" {
		line += " : " + PathStyle.Render(path)
	}
	return line
}

// RenderModLine renders one installed mod row.
func RenderModLine(id, displayName, version string, artifacts, fragments int) string {
	name := Bold(id)
	if displayName != "" && displayName != id {
		name += " " + MutedStyle.Render("("+displayName+")")
	}
	if version != "" {
		name += " " + MutedStyle.Render("v"+version)
	}

	detail := fmt.Sprintf("%d artifact(s)", artifacts)
	if fragments > 0 {
		detail += fmt.Sprintf(", %d script fragment(s)", fragments)
	}
	return fmt.Sprintf("    %s : %s", name, detail)
}

// RenderErrorLine renders an error with its code when it carries one.
func RenderErrorLine(err error) string {
	if err == nil {
		return ""
	}

	if code := errors.GetErrorCode(err); code != errors.ErrUnknown {
		return fmt.Sprintf("%s Error [%s]: %s",
			pterm.Error.Prefix.Text,
			pterm.Error.MessageStyle.Sprint(code),
			err.Error())
	}

	return fmt.Sprintf("%s %s", pterm.Error.Prefix.Text, pterm.Error.MessageStyle.Sprint(err.Error()))
}
