package scr

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/arthur-debert/beastpak/pkg/types"
)

// Render produces the canonical script body for a merged target file.
// Output is deterministic: single-line statements sorted by name, then
// Health blocks, then PerceptionProfile blocks, then preset sections.
// Preset headers open a section that runs until the next header, which
// is why they must come after every other statement shape.
func Render(script types.MergedScript) []byte {
	var plain, health, profiles, presets []types.ParameterOverride
	for _, name := range sortedNames(script.Overrides) {
		o := script.Overrides[name]
		switch o.Kind {
		case types.OverrideHealth:
			health = append(health, o)
		case types.OverrideProfile:
			profiles = append(profiles, o)
		case types.OverridePreset:
			presets = append(presets, o)
		default:
			plain = append(plain, o)
		}
	}

	var b bytes.Buffer
	b.WriteString("sub main()\n{\n")
	for _, o := range plain {
		b.WriteString("\t")
		b.WriteString(plainLine(o))
		b.WriteString("\n")
	}
	writeScopedBlocks(&b, "Health", health)
	writeScopedBlocks(&b, "PerceptionProfile", profiles)
	writePresetSections(&b, presets)
	b.WriteString("}\n")
	return b.Bytes()
}

func sortedNames(overrides map[string]types.ParameterOverride) []string {
	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func plainLine(o types.ParameterOverride) string {
	switch o.Kind {
	case types.OverrideParamFloat:
		return fmt.Sprintf("ParamFloat(%q, %s);", o.Name, o.Value)
	case types.OverrideVec3:
		return fmt.Sprintf("VarVec3(%q, %s);", o.Name, o.Value)
	case types.OverrideDifficulty:
		call, difficulty := splitScopedName(o.Name)
		return fmt.Sprintf("%s(%q, %s);", call, difficulty, o.Value)
	case types.OverrideAction:
		return fmt.Sprintf("AddAction(%s, %s, %s);", o.Name, inputDevice(o.Value), o.Value)
	default:
		return fmt.Sprintf("Param(%q, %q);", o.Name, o.Value)
	}
}

func inputDevice(token string) string {
	if strings.HasPrefix(token, "EMouse__") {
		return "EInputDevice_Mouse"
	}
	return "EInputDevice_Keyboard"
}

// writeScopedBlocks groups scope/leaf overrides into one braced block per
// scope. Input is already name-sorted, so each scope's members arrive
// adjacent and scopes appear in sorted order.
func writeScopedBlocks(b *bytes.Buffer, call string, overrides []types.ParameterOverride) {
	scopes, grouped := groupByScope(overrides)
	for _, scope := range scopes {
		fmt.Fprintf(b, "\t%s(%q)\n\t{\n", call, scope)
		for _, o := range grouped[scope] {
			_, leaf := splitScopedName(o.Name)
			fmt.Fprintf(b, "\t\t%s(%q);\n", leaf, o.Value)
		}
		b.WriteString("\t}\n")
	}
}

// writePresetSections emits a FlashlightPreset header per scope followed
// by its bare value calls.
func writePresetSections(b *bytes.Buffer, overrides []types.ParameterOverride) {
	scopes, grouped := groupByScope(overrides)
	for _, scope := range scopes {
		fmt.Fprintf(b, "\tFlashlightPreset(%q);\n", scope)
		for _, o := range grouped[scope] {
			_, leaf := splitScopedName(o.Name)
			fmt.Fprintf(b, "\t%s(%s);\n", leaf, o.Value)
		}
	}
}

func groupByScope(overrides []types.ParameterOverride) ([]string, map[string][]types.ParameterOverride) {
	var scopes []string
	grouped := make(map[string][]types.ParameterOverride)
	for _, o := range overrides {
		scope, _ := splitScopedName(o.Name)
		if _, ok := grouped[scope]; !ok {
			scopes = append(scopes, scope)
		}
		grouped[scope] = append(grouped[scope], o)
	}
	return scopes, grouped
}
