package types

// OriginBuiltin marks overrides and fragments produced from the user's own
// tuning configuration, as opposed to a third-party mod.
const OriginBuiltin = "builtin"

// OverrideKind selects the script statement an override renders to.
type OverrideKind string

const (
	// OverrideParam renders as Param("Name", "value");
	OverrideParam OverrideKind = "param"

	// OverrideParamFloat renders as ParamFloat("name", value);
	OverrideParamFloat OverrideKind = "param_float"

	// OverrideVec3 renders as VarVec3("name", [r, g, b]);
	OverrideVec3 OverrideKind = "vec3"

	// OverrideDifficulty renders as LegendBonus_Difficulty("Easy", value);
	// the difficulty is the leaf of the override name
	OverrideDifficulty OverrideKind = "difficulty"

	// OverridePreset renders inside a FlashlightPreset("...") block as a
	// bare numeric call, e.g. EnergyDrainPerSecond(0.75);
	OverridePreset OverrideKind = "preset"

	// OverrideProfile renders inside a PerceptionProfile("...") block as
	// a quoted call, e.g. HighAlertProfile("volatile_hive_resting");
	OverrideProfile OverrideKind = "profile"

	// OverrideHealth renders as a Health("Name") block wrapping a
	// Health("value") entry
	OverrideHealth OverrideKind = "health"

	// OverrideAction renders as AddAction(_ACTION_X, EInputDevice_D, token);
	OverrideAction OverrideKind = "action"
)

// ParameterOverride is one tunable value destined for a target script file.
type ParameterOverride struct {
	// Name is the engine parameter identifier. Block-scoped kinds use a
	// "scope/leaf" compound, e.g. "Player Flashlight UV LVL 1/MaxEnergy"
	Name string

	// Value is the final rendered value, number formatting already applied
	Value string

	// Kind selects the statement form used when rendering
	Kind OverrideKind

	// Source is OriginBuiltin or the contributing mod id
	Source string
}

// ScriptFragment is an ordered unit of overrides aimed at one target script
// file. Fragments are immutable once read; merging derives new data from them.
type ScriptFragment struct {
	// TargetFile is the script path inside the package tree,
	// e.g. "scripts/player/player_variables.scr"
	TargetFile string

	// Overrides in author order
	Overrides []ParameterOverride

	// Origin is OriginBuiltin or the contributing mod id
	Origin string

	// SourcePath is where the fragment was read from, empty for builtin tuning
	SourcePath string
}

// MergedScript is the derived, conflict-resolved override set for one target
// file. Recomputed on every build, never persisted as authoritative state.
type MergedScript struct {
	// TargetFile matches ScriptFragment.TargetFile
	TargetFile string

	// Overrides keyed by parameter name, one effective override per name
	Overrides map[string]ParameterOverride
}
