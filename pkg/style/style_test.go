package style

import (
	"strings"
	"testing"
)

func TestTextHelpers(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		style    func(string) string
		contains string
	}{
		{
			name:     "bold text",
			text:     "Hello World",
			style:    Bold,
			contains: "Hello World",
		},
		{
			name:     "italic text",
			text:     "Hello World",
			style:    Italic,
			contains: "Hello World",
		},
		{
			name:     "underline text",
			text:     "Hello World",
			style:    Underline,
			contains: "Hello World",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.style(tt.text)
			if !strings.Contains(result, tt.contains) {
				t.Errorf("Expected output to contain %q, got %q", tt.contains, result)
			}
		})
	}
}

func TestIndent(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		level    int
		expected string
	}{
		{
			name:     "no indent",
			text:     "Hello",
			level:    0,
			expected: "Hello",
		},
		{
			name:     "single indent",
			text:     "Hello",
			level:    1,
			expected: "  Hello",
		},
		{
			name:     "double indent",
			text:     "Hello",
			level:    2,
			expected: "    Hello",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Indent(tt.text, tt.level)
			if result != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestMarkupRender(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains []string
	}{
		{
			name:     "success tag",
			input:    "[success]package installed[/success]",
			contains: []string{"package installed"},
		},
		{
			name:     "artifact kind tags",
			input:    "[visual_bundle]assets_0_pc.rpack[/visual_bundle] and [data_package]data3.pak[/data_package]",
			contains: []string{"assets_0_pc.rpack", "data3.pak"},
		},
		{
			name:     "nested tags",
			input:    "[warning]skipped [path]plugin.asi[/path][/warning]",
			contains: []string{"skipped", "plugin.asi"},
		},
		{
			name:     "unknown tag passes through",
			input:    "[nope]text[/nope]",
			contains: []string{"[nope]text[/nope]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Render(tt.input)
			for _, expected := range tt.contains {
				if !strings.Contains(result, expected) {
					t.Errorf("Expected output to contain %q, got %q", expected, result)
				}
			}
		})
	}
}

func TestRenderTemplate(t *testing.T) {
	result := RenderTemplate("[success]{{name}} installed[/success]", map[string]string{"name": "data7.pak"})
	if !strings.Contains(result, "data7.pak installed") {
		t.Errorf("Expected substituted output, got %q", result)
	}
}
