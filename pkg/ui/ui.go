// Package ui provides a unified interface for rendering command results
// in different formats. It supports terminal (rich), text (plain) and
// JSON output.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/arthur-debert/beastpak/pkg/ui/json"
	"github.com/arthur-debert/beastpak/pkg/ui/terminal"
	"github.com/arthur-debert/beastpak/pkg/ui/text"
)

// Renderer is the common interface for all output renderers.
type Renderer interface {
	// RenderResult renders any command result type
	RenderResult(result interface{}) error

	// RenderError renders an error with appropriate formatting
	RenderError(err error) error

	// RenderMessage renders a simple message
	RenderMessage(msg string) error
}

// NewRenderer creates a renderer for the given format. FormatAuto probes
// the output's terminal capabilities when it is a real file.
func NewRenderer(format Format, output io.Writer) (Renderer, error) {
	switch format {
	case FormatAuto:
		if file, ok := output.(*os.File); ok {
			return NewRenderer(DetectFormat(file), output)
		}
		// Not a file, nothing to probe
		return NewRenderer(FormatTerminal, output)
	case FormatTerminal:
		return terminal.New(output)
	case FormatText:
		return text.New(output)
	case FormatJSON:
		return json.New(output)
	default:
		return nil, fmt.Errorf("unknown format: %v", format)
	}
}
