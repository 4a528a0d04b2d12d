package tuning

import (
	_ "embed"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/beastpak/pkg/errors"
)

//go:embed registry.yaml
var registryYAML []byte

// ValueType classifies how a tunable's raw configuration value is
// interpreted.
type ValueType string

const (
	// TypeFloat is an absolute numeric value written as given
	TypeFloat ValueType = "float"

	// TypePercent scales either a vanilla base or a 1.0 multiplier
	TypePercent ValueType = "percent"

	// TypeColor is a three-component RGB vector with components in 0..1
	TypeColor ValueType = "color"

	// TypeEnum picks one named emission set from the entry's choices
	TypeEnum ValueType = "enum"

	// TypeKey is a named input key resolved to an engine token
	TypeKey ValueType = "key"
)

// ParamSpec is one engine parameter written by a tunable.
type ParamSpec struct {
	// Name is the engine parameter, "scope/leaf" for block-scoped kinds
	Name string `yaml:"name"`

	// Kind selects the rendered statement shape, empty means Param
	Kind string `yaml:"kind,omitempty"`

	// Scale multiplies the user value before rendering, 0 means 1.0
	Scale float64 `yaml:"scale,omitempty"`

	// Base is the vanilla value a percent tunable scales, 0 means the
	// percentage becomes a plain multiplier
	Base float64 `yaml:"base,omitempty"`

	// Decimals caps the rendered precision when positive
	Decimals int `yaml:"decimals,omitempty"`

	// Integer renders a whole number, never below 1
	Integer bool `yaml:"integer,omitempty"`
}

// EnumOverride is one fixed parameter emission of an enum choice.
type EnumOverride struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

// Tunable declares one exposed configuration key.
type Tunable struct {
	Key     string      `yaml:"key"`
	Group   string      `yaml:"group"`
	Target  string      `yaml:"target"`
	Type    ValueType   `yaml:"type"`
	Min     *float64    `yaml:"min,omitempty"`
	Max     *float64    `yaml:"max,omitempty"`
	Default interface{} `yaml:"default,omitempty"`
	Doc     string      `yaml:"doc,omitempty"`
	Params  []ParamSpec `yaml:"params,omitempty"`

	// Choices maps enum values to their emissions; only for TypeEnum
	Choices map[string][]EnumOverride `yaml:"choices,omitempty"`
}

// HasDefault reports whether the entry documents a vanilla value. Keys
// without one are expert overrides left out of the generated config.
func (t *Tunable) HasDefault() bool {
	return t.Default != nil
}

// Registry is the parsed tunable set, keyed for lookup and kept in
// declaration order for deterministic emission.
type Registry struct {
	tunables []Tunable
	byKey    map[string]int
}

// Lookup returns the tunable for a configuration key.
func (r *Registry) Lookup(key string) (*Tunable, bool) {
	i, ok := r.byKey[key]
	if !ok {
		return nil, false
	}
	return &r.tunables[i], true
}

// Tunables returns all entries in declaration order.
func (r *Registry) Tunables() []Tunable {
	return r.tunables
}

// Len returns the number of registered tunables.
func (r *Registry) Len() int {
	return len(r.tunables)
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
	defaultErr      error
)

// Default returns the embedded registry, parsed once per process.
func Default() (*Registry, error) {
	defaultOnce.Do(func() {
		defaultRegistry, defaultErr = parseRegistry(registryYAML)
	})
	return defaultRegistry, defaultErr
}

func parseRegistry(data []byte) (*Registry, error) {
	var doc struct {
		Tunables []Tunable `yaml:"tunables"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "embedded tuning registry is malformed")
	}

	reg := &Registry{
		tunables: doc.Tunables,
		byKey:    make(map[string]int, len(doc.Tunables)),
	}
	for i := range reg.tunables {
		t := &reg.tunables[i]
		if t.Key == "" {
			return nil, errors.Newf(errors.ErrInternal, "tuning registry entry %d has no key", i)
		}
		if _, dup := reg.byKey[t.Key]; dup {
			return nil, errors.Newf(errors.ErrInternal, "tuning registry declares %q twice", t.Key)
		}
		if err := validateTunable(t); err != nil {
			return nil, err
		}
		reg.byKey[t.Key] = i
	}
	return reg, nil
}

func validateTunable(t *Tunable) error {
	switch t.Type {
	case TypeFloat, TypePercent, TypeColor, TypeKey:
		if len(t.Params) == 0 {
			return errors.Newf(errors.ErrInternal, "tuning key %q declares no parameters", t.Key)
		}
	case TypeEnum:
		if len(t.Choices) == 0 {
			return errors.Newf(errors.ErrInternal, "tuning key %q declares no choices", t.Key)
		}
	default:
		return errors.Newf(errors.ErrInternal, "tuning key %q has unknown type %q", t.Key, t.Type)
	}
	if t.Target == "" {
		return errors.Newf(errors.ErrInternal, "tuning key %q has no target file", t.Key)
	}
	return nil
}
