package scr

import (
	"regexp"

	"github.com/arthur-debert/beastpak/pkg/types"
)

// Only the statement shapes below are meaningful to the merger; every
// other line in a fragment is ignored. Commented lines never match since
// the anchors require the statement at the start of the line.
var (
	paramQuotedRe = regexp.MustCompile(`(?m)^\s*Param\(\s*"([^"]+)"\s*,\s*"([^"]*)"\s*\)\s*;`)
	paramBareRe   = regexp.MustCompile(`(?m)^\s*Param\(\s*"([^"]+)"\s*,\s*([+-]?[0-9]*\.?[0-9]+)\s*\)\s*;`)
	paramFloatRe  = regexp.MustCompile(`(?m)^\s*ParamFloat\(\s*"([^"]+)"\s*,\s*([+-]?[0-9]*\.?[0-9]+)\s*\)`)
	vec3Re        = regexp.MustCompile(`(?m)^\s*VarVec3\(\s*"([^"]+)"\s*,\s*(\[[^\]]*\])`)
)

type lineMatch struct {
	pos      int
	override types.ParameterOverride
}

// Parse extracts parameter overrides from a script fragment. Overrides
// keep their source order; unrecognized lines are skipped.
func Parse(content []byte, origin string) []types.ParameterOverride {
	var matches []lineMatch

	collect := func(re *regexp.Regexp, kind types.OverrideKind) {
		for _, m := range re.FindAllSubmatchIndex(content, -1) {
			matches = append(matches, lineMatch{
				pos: m[0],
				override: types.ParameterOverride{
					Name:   string(content[m[2]:m[3]]),
					Value:  string(content[m[4]:m[5]]),
					Kind:   kind,
					Source: origin,
				},
			})
		}
	}

	collect(paramQuotedRe, types.OverrideParam)
	collect(paramBareRe, types.OverrideParam)
	collect(paramFloatRe, types.OverrideParamFloat)
	collect(vec3Re, types.OverrideVec3)

	// Restore source order across the statement shapes
	for i := 1; i < len(matches); i++ {
		for j := i; j > 0 && matches[j].pos < matches[j-1].pos; j-- {
			matches[j], matches[j-1] = matches[j-1], matches[j]
		}
	}

	overrides := make([]types.ParameterOverride, 0, len(matches))
	for _, m := range matches {
		overrides = append(overrides, m.override)
	}
	return overrides
}
