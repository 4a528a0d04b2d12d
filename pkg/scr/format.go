package scr

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatNumber renders a float the way the game's scripts write numbers:
// up to six decimals, trailing zeros stripped, whole numbers keep a ".0".
func FormatNumber(v float64) string {
	return FormatNumberDecimals(v, 6)
}

// FormatNumberDecimals is FormatNumber with explicit precision. Zero
// decimals renders a plain integer.
func FormatNumberDecimals(v float64, decimals int) string {
	if decimals <= 0 {
		return strconv.FormatInt(int64(math.Round(v)), 10)
	}

	s := strconv.FormatFloat(v, 'f', decimals, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "" {
		s = "0"
	}
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// FormatVec3 renders an RGB triple as the scripts expect it.
func FormatVec3(r, g, b float64) string {
	return fmt.Sprintf("[%.3f, %.3f, %.3f]", r, g, b)
}
