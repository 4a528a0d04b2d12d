// Package tuning converts user configuration values into script parameter
// overrides. The set of exposed tunables lives in an embedded registry
// (registry.yaml) that carries each key's value type, bounds, engine
// parameter names and target script file. Resolution is pure: the only
// input is the tuning table, the only output is builtin script fragments.
package tuning
