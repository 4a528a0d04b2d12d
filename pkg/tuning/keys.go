package tuning

import (
	"sort"
	"strings"

	"github.com/arthur-debert/beastpak/pkg/errors"
)

// Friendly spellings accepted in configuration files, normalized before
// token lookup.
var keyAliases = map[string]string{
	" ":          "Space",
	"Spacebar":   "Space",
	"comma":      ",",
	"Comma":      ",",
	"COMMA":      ",",
	"Esc":        "Escape",
	"PgUp":       "PageUp",
	"PgDn":       "PageDown",
	"Del":        "Delete",
	"Ins":        "Insert",
	"Caps":       "CapsLock",
	"LShift":     "LeftShift",
	"RShift":     "RightShift",
	"LCtrl":      "LeftControl",
	"RCtrl":      "RightControl",
	"LAlt":       "LeftAlt",
	"RAlt":       "RightAlt",
	"UpArrow":    "Up",
	"DownArrow":  "Down",
	"LeftArrow":  "Left",
	"RightArrow": "Right",
}

var mouseTokens = map[string]string{
	"Mouse1":    "EMouse__BUTTON_1",
	"Mouse2":    "EMouse__BUTTON_2",
	"Mouse3":    "EMouse__BUTTON_3",
	"Mouse4":    "EMouse__BUTTON_4",
	"Mouse5":    "EMouse__BUTTON_5",
	"WheelUp":   "EMouse__WHEEL_UP",
	"WheelDown": "EMouse__WHEEL_DOWN",
}

// Engine tokens are not uniform; Up and Space carry a trailing
// underscore, PageUp/PageDown map to PRIOR/NEXT, the Alt keys to MENU.
var namedKeyTokens = map[string]string{
	"Up":    "EKey__UP_",
	"Down":  "EKey__DOWN",
	"Left":  "EKey__LEFT",
	"Right": "EKey__RIGHT",

	"Space":     "EKey__SPACE_",
	"CapsLock":  "EKey__CAPITAL",
	"Tab":       "EKey__TAB",
	"Enter":     "EKey__RETURN",
	"Escape":    "EKey__ESCAPE",
	"Backspace": "EKey__BACK",

	"Home":     "EKey__HOME",
	"End":      "EKey__END",
	"PageUp":   "EKey__PRIOR",
	"PageDown": "EKey__NEXT",
	"Insert":   "EKey__INSERT",
	"Delete":   "EKey__DELETE",
	",":        "EKey__COMMA",

	"LeftShift":    "EKey__LSHIFT",
	"RightShift":   "EKey__RSHIFT",
	"LeftControl":  "EKey__LCONTROL",
	"RightControl": "EKey__RCONTROL",
	"LeftAlt":      "EKey__LMENU",
	"RightAlt":     "EKey__RMENU",
}

// InputToken resolves a friendly key name to the engine's input token.
// Unknown names fail with the allowed set attached for the error report.
func InputToken(name string) (string, error) {
	k := name
	if k != " " {
		k = strings.TrimSpace(k)
	}
	if alias, ok := keyAliases[k]; ok {
		k = alias
	}

	if token, ok := mouseTokens[k]; ok {
		return token, nil
	}

	if len(k) == 1 {
		c := k[0]
		switch {
		case c >= 'a' && c <= 'z':
			return "EKey__" + strings.ToUpper(k), nil
		case c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			return "EKey__" + k, nil
		}
	}

	if token, ok := namedKeyTokens[k]; ok {
		return token, nil
	}

	return "", errors.Newf(errors.ErrInvalidValue, "unknown key name %q", name).
		WithDetail("allowed", AllowedKeyNames())
}

// AllowedKeyNames lists every accepted key name, sorted, with the letter
// and digit ranges summarized.
func AllowedKeyNames() []string {
	names := make([]string, 0, len(namedKeyTokens)+len(mouseTokens)+2)
	for name := range namedKeyTokens {
		names = append(names, name)
	}
	for name := range mouseTokens {
		names = append(names, name)
	}
	names = append(names, "A-Z", "0-9")
	sort.Strings(names)
	return names
}
