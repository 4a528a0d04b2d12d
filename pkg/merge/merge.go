// Package merge derives the effective override set per target script
// file. Precedence is positional: builtin tuning first, then mod
// fragments in installation order, latest writer winning per parameter
// name. Repeated names are a supported override chain, not a conflict.
package merge

import (
	"sort"

	"github.com/arthur-debert/beastpak/pkg/types"
)

// Merge folds fragments into one MergedScript per target file. Callers
// pass mod fragments ordered by installation time. Targets that end up
// with no overrides are omitted. The result depends only on the inputs.
func Merge(builtin, mods []types.ScriptFragment) map[string]types.MergedScript {
	merged := make(map[string]types.MergedScript)

	apply := func(f types.ScriptFragment) {
		if len(f.Overrides) == 0 {
			return
		}
		script, ok := merged[f.TargetFile]
		if !ok {
			script = types.MergedScript{
				TargetFile: f.TargetFile,
				Overrides:  make(map[string]types.ParameterOverride),
			}
			merged[f.TargetFile] = script
		}
		for _, o := range f.Overrides {
			script.Overrides[o.Name] = o
		}
	}

	for _, f := range builtin {
		apply(f)
	}
	for _, f := range mods {
		apply(f)
	}
	return merged
}

// Targets lists the merged target files in sorted order, for rendering
// and packaging passes that need a stable sequence.
func Targets(merged map[string]types.MergedScript) []string {
	targets := make([]string, 0, len(merged))
	for target := range merged {
		targets = append(targets, target)
	}
	sort.Strings(targets)
	return targets
}
