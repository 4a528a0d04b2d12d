package tuning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/beastpak/pkg/errors"
	"github.com/arthur-debert/beastpak/pkg/types"
)

func findOverride(t *testing.T, fragments []types.ScriptFragment, target, name string) types.ParameterOverride {
	t.Helper()
	for _, f := range fragments {
		if f.TargetFile != target {
			continue
		}
		for _, o := range f.Overrides {
			if o.Name == name {
				return o
			}
		}
	}
	t.Fatalf("override %s not found in %s", name, target)
	return types.ParameterOverride{}
}

func TestResolveOpenWorldXP(t *testing.T) {
	fragments, err := Resolve(map[string]interface{}{"open_world_xp": 2.0})
	require.NoError(t, err)
	require.Len(t, fragments, 1)

	f := fragments[0]
	assert.Equal(t, "scripts/player/player_variables.scr", f.TargetFile)
	assert.Equal(t, types.OriginBuiltin, f.Origin)
	require.Len(t, f.Overrides, 3)

	assert.Equal(t, "2.0", f.Overrides[0].Value)
	assert.Equal(t, "OpenWorldXPModifier", f.Overrides[0].Name)
	assert.Equal(t, "OpenWorldNightXPModifier", f.Overrides[1].Name)
	assert.Equal(t, "2.0", f.Overrides[1].Value)

	// Vehicle-kill XP derives from the same key at 5%
	assert.Equal(t, "VehicleKillXPMultiplier", f.Overrides[2].Name)
	assert.Equal(t, "0.1", f.Overrides[2].Value)
}

func TestResolveEmpty(t *testing.T) {
	fragments, err := Resolve(map[string]interface{}{})
	require.NoError(t, err)
	assert.Empty(t, fragments)
}

func TestResolveUnknownKey(t *testing.T) {
	fragments, err := Resolve(map[string]interface{}{"xp_boost": 2.0})
	require.Error(t, err)
	assert.Nil(t, fragments)
	assert.True(t, errors.IsErrorCode(err, errors.ErrUnknownParameter))
}

func TestResolveInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]interface{}
	}{
		{"not a number", map[string]interface{}{"open_world_xp": "abc"}},
		{"below minimum", map[string]interface{}{"open_world_xp": -1.0}},
		{"above maximum", map[string]interface{}{"hunger_respawn_percent": 1.5}},
		{"positive cost", map[string]interface{}{"hunger_resting_cost": 10.0}},
		{"unknown enum choice", map[string]interface{}{"volatile_perception": "pacify"}},
		{"enum wants a string", map[string]interface{}{"volatile_perception": 3}},
		{"unknown key name", map[string]interface{}{"vehicle_bind_horn": "SuperKey"}},
		{"short color", map[string]interface{}{"uv_light_color": []interface{}{0.5, 0.5}}},
		{"color component out of range", map[string]interface{}{"uv_light_color": []interface{}{2.0, 0.0, 0.0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.values)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidValue),
				"got code %s", errors.GetErrorCode(err))
		})
	}
}

func TestResolveLegendBonus(t *testing.T) {
	fragments, err := Resolve(map[string]interface{}{
		"legend_bonus_easy": 2.0,
		"legend_bonus_hard": 2.0,
	})
	require.NoError(t, err)
	require.Len(t, fragments, 1)
	assert.Equal(t, "scripts/progression/progressionactions.scr", fragments[0].TargetFile)

	easy := findOverride(t, fragments, "scripts/progression/progressionactions.scr", "LegendBonus_Difficulty/Easy")
	assert.Equal(t, "2.0", easy.Value)
	assert.Equal(t, types.OverrideDifficulty, easy.Kind)

	// Easy also writes Normal
	normal := findOverride(t, fragments, "scripts/progression/progressionactions.scr", "LegendBonus_Difficulty/Normal")
	assert.Equal(t, "2.0", normal.Value)

	// Hard multiplies the 1.05 base
	hard := findOverride(t, fragments, "scripts/progression/progressionactions.scr", "LegendBonus_Difficulty/Hard")
	assert.Equal(t, "2.1", hard.Value)
}

func TestResolveDeathPenaltyPercent(t *testing.T) {
	fragments, err := Resolve(map[string]interface{}{"death_penalty": 50})
	require.NoError(t, err)

	day := findOverride(t, fragments, "scripts/player/player_variables.scr", "DeathPenaltyXpLossMultiplierDay")
	assert.Equal(t, "0.5", day.Value)
	night := findOverride(t, fragments, "scripts/player/player_variables.scr", "DeathPenaltyXpLossMultiplierNight")
	assert.Equal(t, "0.5", night.Value)
}

func TestResolveVehicleHealth(t *testing.T) {
	fragments, err := Resolve(map[string]interface{}{"vehicle_pickup_health": 125})
	require.NoError(t, err)

	health := findOverride(t, fragments, "scripts/healthdefinitions.scr", "Vehicle_Pickup/Health")
	assert.Equal(t, types.OverrideHealth, health.Kind)
	assert.Equal(t, "1438", health.Value, "1150 scaled by 125% rounds half up")
}

func TestResolveFlashlightPreset(t *testing.T) {
	fragments, err := Resolve(map[string]interface{}{"flashlight_uv1_drain": 0.6})
	require.NoError(t, err)

	drain := findOverride(t, fragments, "scripts/inventory/inventory_special.scr",
		"Player Flashlight UV LVL 1/EnergyDrainPerSecond")
	assert.Equal(t, types.OverridePreset, drain.Kind)
	assert.Equal(t, "0.6", drain.Value)
}

func TestResolveColor(t *testing.T) {
	fragments, err := Resolve(map[string]interface{}{
		"uv_light_color": []interface{}{0.15, 0.5, 1.0},
	})
	require.NoError(t, err)

	color := findOverride(t, fragments, "scripts/varlist_game_overlay.scr", "v_flashlight_pp_uv_color")
	assert.Equal(t, types.OverrideVec3, color.Kind)
	assert.Equal(t, "[0.150, 0.500, 1.000]", color.Value)
}

func TestResolvePerceptionEnum(t *testing.T) {
	t.Run("vanilla emits nothing", func(t *testing.T) {
		fragments, err := Resolve(map[string]interface{}{"volatile_perception": "vanilla"})
		require.NoError(t, err)
		assert.Empty(t, fragments)
	})

	t.Run("all_to_resting pins every alert stage", func(t *testing.T) {
		fragments, err := Resolve(map[string]interface{}{"volatile_perception": "all_to_resting"})
		require.NoError(t, err)
		require.Len(t, fragments, 1)
		assert.Equal(t, "scripts/ai/ai_perception_profiles.scr", fragments[0].TargetFile)
		require.Len(t, fragments[0].Overrides, 9)
		for _, o := range fragments[0].Overrides {
			assert.Equal(t, types.OverrideProfile, o.Kind)
			assert.Equal(t, "volatile_hive_resting", o.Value)
		}
	})

	t.Run("high_to_default points profiles at themselves", func(t *testing.T) {
		fragments, err := Resolve(map[string]interface{}{"volatile_perception": "high_to_default"})
		require.NoError(t, err)

		o := findOverride(t, fragments, "scripts/ai/ai_perception_profiles.scr", "volatile_apex/HighAlertProfile")
		assert.Equal(t, "volatile_apex", o.Value)
	})
}

func TestResolveKeybind(t *testing.T) {
	fragments, err := Resolve(map[string]interface{}{"vehicle_bind_uv_lights": "Mouse3"})
	require.NoError(t, err)

	bind := findOverride(t, fragments, "scripts/inputs/inputs_keyboard.scr", "_ACTION_CAR_LIGHTS_UV")
	assert.Equal(t, types.OverrideAction, bind.Kind)
	assert.Equal(t, "EMouse__BUTTON_3", bind.Value)
}

func TestResolveFuelParamFloat(t *testing.T) {
	fragments, err := Resolve(map[string]interface{}{"buggy_defender_fuel_usage": 0.5})
	require.NoError(t, err)

	fuel := findOverride(t, fragments, "scripts/vehicles/buggy_defender_fuel_params.scr", "fuel_usage_base")
	assert.Equal(t, types.OverrideParamFloat, fuel.Kind)
	assert.Equal(t, "0.5", fuel.Value)
}

func TestResolveStringValuesFromEnv(t *testing.T) {
	// Env-sourced tuning values arrive as strings
	fragments, err := Resolve(map[string]interface{}{"open_world_xp": "2.5"})
	require.NoError(t, err)

	xp := findOverride(t, fragments, "scripts/player/player_variables.scr", "OpenWorldXPModifier")
	assert.Equal(t, "2.5", xp.Value)
}

func TestResolveFragmentOrder(t *testing.T) {
	values := map[string]interface{}{
		"vehicle_bind_throttle": "W",
		"open_world_xp":         1.5,
		"flashlight_uv2_drain":  0.7,
	}

	first, err := Resolve(values)
	require.NoError(t, err)
	require.Len(t, first, 3)

	// Registry declaration order, not map order
	assert.Equal(t, "scripts/player/player_variables.scr", first[0].TargetFile)
	assert.Equal(t, "scripts/inventory/inventory_special.scr", first[1].TargetFile)
	assert.Equal(t, "scripts/inputs/inputs_keyboard.scr", first[2].TargetFile)

	second, err := Resolve(values)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
