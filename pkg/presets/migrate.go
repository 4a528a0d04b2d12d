package presets

import (
	"strings"

	"github.com/arthur-debert/beastpak/pkg/logging"
)

// legacyKeys maps the flat schema-1 variable names onto current tuning
// keys. A legacy key can fan out to more than one current key (the old
// format tuned UV levels 1 and 2 with a single slider).
var legacyKeys = map[string][]string{
	"openworld_var":        {"open_world_xp"},
	"legend_easy_var":      {"legend_bonus_easy"},
	"legend_hard_var":      {"legend_bonus_hard"},
	"legend_nightmare_var": {"legend_bonus_nightmare"},
	"xp_loss_scale_var":    {"death_penalty"},
	"legend_penalty_var":   {"legend_death_penalty"},
	"ll_xp_loss_var":       {"ll_death_penalty"},

	"uv12_drain_var":         {"flashlight_uv1_drain", "flashlight_uv2_drain"},
	"uv12_energy_var":        {"flashlight_uv1_max_energy", "flashlight_uv2_max_energy"},
	"uv12_regen_var":         {"flashlight_uv1_regen_delay", "flashlight_uv2_regen_delay"},
	"fl_regen_delay_uv1_var": {"flashlight_uv1_regen_delay"},
	"fl_regen_delay_uv2_var": {"flashlight_uv2_regen_delay"},
	"uv3_drain_var":          {"flashlight_uv3_drain"},
	"uv3_energy_var":         {"flashlight_uv3_max_energy"},
	"uv3_regen_var":          {"flashlight_uv3_regen_delay"},
	"uv4_drain_var":          {"flashlight_uv4_drain"},
	"uv4_energy_var":         {"flashlight_uv4_max_energy"},
	"uv4_regen_var":          {"flashlight_uv4_regen_delay"},
	"uv5_drain_var":          {"flashlight_uv5_drain"},
	"uv5_energy_var":         {"flashlight_uv5_max_energy"},
	"uv5_regen_var":          {"flashlight_uv5_regen_delay"},

	"vo_mode_var":        {"volatile_perception"},
	"veh_pickup_pct":     {"vehicle_pickup_health"},
	"veh_pickup_ctb_pct": {"vehicle_pickup_ctb_health"},
}

// uvColorParts fold into the single uv_light_color triple when all three
// components are present.
var uvColorParts = [3]string{"uv_r", "uv_g", "uv_b"}

// migrateLegacy lifts a flat schema-1 table into the current layout.
// Fan-out keys apply first and per-level keys second, so a file carrying
// both keeps the specific value. Keys without a current equivalent are
// dropped; the old tool ignored unknown keys the same way.
func migrateLegacy(name string, raw map[string]interface{}) *Preset {
	logger := logging.GetLogger("presets")

	tuning := map[string]interface{}{}
	for pass := 0; pass < 2; pass++ {
		for key, value := range raw {
			if strings.HasPrefix(key, "_") {
				continue
			}

			targets, ok := legacyKeys[key]
			if !ok {
				continue
			}
			if broad := len(targets) > 1; broad == (pass == 1) {
				continue
			}
			for _, target := range targets {
				tuning[target] = value
			}
		}
	}

	if color, ok := legacyColor(raw); ok {
		tuning["uv_light_color"] = color
	}

	logger.Info().
		Str("preset", name).
		Int("migrated", len(tuning)).
		Int("legacy_keys", len(raw)).
		Msg("migrated legacy preset")

	return &Preset{
		Schema: SchemaVersion,
		Name:   name,
		Tuning: tuning,
	}
}

// legacyColor folds uv_r/uv_g/uv_b into an RGB triple.
func legacyColor(raw map[string]interface{}) ([]interface{}, bool) {
	color := make([]interface{}, 3)
	for i, part := range uvColorParts {
		v, ok := raw[part]
		if !ok {
			return nil, false
		}
		if _, isNum := v.(float64); !isNum {
			return nil, false
		}
		color[i] = v
	}
	return color, true
}
