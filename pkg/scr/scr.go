// Package scr handles the minimal structure of the game's script files:
// extracting parameter override lines from mod fragments and rendering
// merged override sets back into canonical scripts. It deliberately does
// not interpret the script language beyond these statement shapes.
package scr

import "strings"

// splitScopedName splits a "scope/leaf" override name. Plain names have
// an empty scope.
func splitScopedName(name string) (scope, leaf string) {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[:i], name[i+1:]
	}
	return "", name
}
