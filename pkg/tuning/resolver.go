package tuning

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/arthur-debert/beastpak/pkg/errors"
	"github.com/arthur-debert/beastpak/pkg/scr"
	"github.com/arthur-debert/beastpak/pkg/types"
)

// Resolve converts the configured tuning table into builtin script
// fragments, one per target file, in registry declaration order. A key
// the registry does not know fails the whole resolution; so does a value
// that cannot be coerced or sits outside the declared bounds. Keys absent
// from the table emit nothing.
func Resolve(values map[string]interface{}) ([]types.ScriptFragment, error) {
	reg, err := Default()
	if err != nil {
		return nil, err
	}
	return ResolveWith(reg, values)
}

// ResolveWith resolves against an explicit registry.
func ResolveWith(reg *Registry, values map[string]interface{}) ([]types.ScriptFragment, error) {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, ok := reg.Lookup(k); !ok {
			return nil, errors.Newf(errors.ErrUnknownParameter, "unknown tuning key %q", k).
				WithDetail("key", k)
		}
	}

	var targets []string
	byTarget := make(map[string][]types.ParameterOverride)

	tunables := reg.Tunables()
	for i := range tunables {
		t := &tunables[i]
		raw, ok := values[t.Key]
		if !ok {
			continue
		}
		overrides, err := resolveTunable(t, raw)
		if err != nil {
			return nil, err
		}
		if len(overrides) == 0 {
			continue
		}
		if _, seen := byTarget[t.Target]; !seen {
			targets = append(targets, t.Target)
		}
		byTarget[t.Target] = append(byTarget[t.Target], overrides...)
	}

	fragments := make([]types.ScriptFragment, 0, len(targets))
	for _, target := range targets {
		fragments = append(fragments, types.ScriptFragment{
			TargetFile: target,
			Overrides:  byTarget[target],
			Origin:     types.OriginBuiltin,
		})
	}
	return fragments, nil
}

func resolveTunable(t *Tunable, raw interface{}) ([]types.ParameterOverride, error) {
	switch t.Type {
	case TypeFloat, TypePercent:
		v, err := coerceFloat(raw)
		if err != nil {
			return nil, invalidValue(t, raw, err)
		}
		if err := checkBounds(t, v); err != nil {
			return nil, err
		}
		if t.Type == TypePercent {
			return emitPercent(t, v), nil
		}
		return emitFloat(t, v), nil

	case TypeColor:
		rgb, err := coerceColor(raw)
		if err != nil {
			return nil, invalidValue(t, raw, err)
		}
		return emitColor(t, rgb), nil

	case TypeEnum:
		s, err := coerceString(raw)
		if err != nil {
			return nil, invalidValue(t, raw, err)
		}
		emissions, ok := t.Choices[s]
		if !ok {
			return nil, errors.Newf(errors.ErrInvalidValue,
				"tuning key %q: %q is not a valid choice", t.Key, s).
				WithDetail("allowed", choiceNames(t))
		}
		return emitEnum(t, emissions), nil

	case TypeKey:
		s, err := coerceString(raw)
		if err != nil {
			return nil, invalidValue(t, raw, err)
		}
		token, err := InputToken(s)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrInvalidValue,
				"tuning key %q", t.Key)
		}
		return emitKeyToken(t, token), nil
	}

	return nil, errors.Newf(errors.ErrInternal, "tuning key %q has unknown type %q", t.Key, t.Type)
}

func emitFloat(t *Tunable, v float64) []types.ParameterOverride {
	overrides := make([]types.ParameterOverride, 0, len(t.Params))
	for i := range t.Params {
		p := &t.Params[i]
		scale := p.Scale
		if scale == 0 {
			scale = 1.0
		}
		overrides = append(overrides, override(p, renderValue(p, v*scale)))
	}
	return overrides
}

func emitPercent(t *Tunable, pct float64) []types.ParameterOverride {
	factor := pct / 100.0
	overrides := make([]types.ParameterOverride, 0, len(t.Params))
	for i := range t.Params {
		p := &t.Params[i]
		x := factor
		if p.Base != 0 {
			x = p.Base * factor
		}
		overrides = append(overrides, override(p, renderValue(p, x)))
	}
	return overrides
}

func emitColor(t *Tunable, rgb [3]float64) []types.ParameterOverride {
	overrides := make([]types.ParameterOverride, 0, len(t.Params))
	for i := range t.Params {
		overrides = append(overrides, override(&t.Params[i], scr.FormatVec3(rgb[0], rgb[1], rgb[2])))
	}
	return overrides
}

func emitEnum(t *Tunable, emissions []EnumOverride) []types.ParameterOverride {
	overrides := make([]types.ParameterOverride, 0, len(emissions))
	for _, e := range emissions {
		overrides = append(overrides, types.ParameterOverride{
			Name:   e.Name,
			Value:  e.Value,
			Kind:   types.OverrideProfile,
			Source: types.OriginBuiltin,
		})
	}
	return overrides
}

func emitKeyToken(t *Tunable, token string) []types.ParameterOverride {
	overrides := make([]types.ParameterOverride, 0, len(t.Params))
	for i := range t.Params {
		overrides = append(overrides, override(&t.Params[i], token))
	}
	return overrides
}

func override(p *ParamSpec, value string) types.ParameterOverride {
	return types.ParameterOverride{
		Name:   p.Name,
		Value:  value,
		Kind:   overrideKind(p),
		Source: types.OriginBuiltin,
	}
}

func overrideKind(p *ParamSpec) types.OverrideKind {
	switch p.Kind {
	case "param_float":
		return types.OverrideParamFloat
	case "vec3":
		return types.OverrideVec3
	case "difficulty":
		return types.OverrideDifficulty
	case "preset":
		return types.OverridePreset
	case "profile":
		return types.OverrideProfile
	case "health":
		return types.OverrideHealth
	case "action":
		return types.OverrideAction
	default:
		return types.OverrideParam
	}
}

func renderValue(p *ParamSpec, x float64) string {
	switch {
	case p.Integer:
		if x < 1 {
			x = 1
		}
		return scr.FormatNumberDecimals(x, 0)
	case p.Decimals > 0:
		return scr.FormatNumberDecimals(x, p.Decimals)
	default:
		return scr.FormatNumber(x)
	}
}

func checkBounds(t *Tunable, v float64) error {
	if t.Min != nil && v < *t.Min {
		return errors.Newf(errors.ErrInvalidValue,
			"tuning key %q: %s is below the minimum %s",
			t.Key, scr.FormatNumber(v), scr.FormatNumber(*t.Min))
	}
	if t.Max != nil && v > *t.Max {
		return errors.Newf(errors.ErrInvalidValue,
			"tuning key %q: %s is above the maximum %s",
			t.Key, scr.FormatNumber(v), scr.FormatNumber(*t.Max))
	}
	return nil
}

func invalidValue(t *Tunable, raw interface{}, cause error) error {
	return errors.Wrapf(cause, errors.ErrInvalidValue,
		"tuning key %q: cannot use %v", t.Key, raw)
}

func choiceNames(t *Tunable) []string {
	names := make([]string, 0, len(t.Choices))
	for name := range t.Choices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// coerceFloat accepts the numeric shapes the config layers produce: TOML
// and YAML numbers, ints from confmap overrides, strings from env vars.
func coerceFloat(raw interface{}) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("%q is not a number", v)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("unsupported value type %T", raw)
	}
}

func coerceString(raw interface{}) (string, error) {
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("expected a string, got %T", raw)
	}
	return s, nil
}

func coerceColor(raw interface{}) ([3]float64, error) {
	var rgb [3]float64

	var parts []interface{}
	switch v := raw.(type) {
	case []interface{}:
		parts = v
	case []float64:
		parts = make([]interface{}, len(v))
		for i, f := range v {
			parts[i] = f
		}
	default:
		return rgb, fmt.Errorf("expected an RGB triple, got %T", raw)
	}

	if len(parts) != 3 {
		return rgb, fmt.Errorf("expected 3 color components, got %d", len(parts))
	}
	for i, part := range parts {
		f, err := coerceFloat(part)
		if err != nil {
			return rgb, err
		}
		if f < 0 || f > 1 {
			return rgb, fmt.Errorf("component %d out of range 0..1", i)
		}
		rgb[i] = f
	}
	return rgb, nil
}
