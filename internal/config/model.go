package config

import (
	"fmt"

	"github.com/vk/fitconf/internal/pset"
	"github.com/zclconf/go-cty/cty"
)

// Well-known setting keys that loaders synthesize from model declarations.
const (
	KeyModels  = "models"
	KeyExpData = "exp_data"
)

// Model is the unified, format-agnostic representation of a fit
// configuration file.
type Model struct {
	// Settings holds every scalar or list-valued key the user wrote.
	Settings map[string]cty.Value
	// Order lists the keys of Settings in first-seen source order.
	Order []string
	// ModelData maps a model file path to the experimental data files its
	// actions are compared against.
	ModelData map[string][]string
	// Variables are the free-parameter declarations in source order.
	Variables []*VariableDef
}

// NewModel returns an empty model ready to be populated by a loader.
func NewModel() *Model {
	return &Model{
		Settings:  make(map[string]cty.Value),
		ModelData: make(map[string][]string),
	}
}

// VariableDef is one free-parameter declaration. Kind is the tagged variant:
// it decides how Values is read.
type VariableDef struct {
	Kind   pset.Kind
	Name   string
	Values []float64
	// Source is a human-readable location used in error messages.
	Source string
}

// Has reports whether the user wrote the given setting key.
func (m *Model) Has(key string) bool {
	_, ok := m.Settings[key]
	return ok
}

// Set records a setting, failing if the key was already declared.
func (m *Model) Set(key string, val cty.Value) error {
	if m.Has(key) {
		return fmt.Errorf("setting %q is declared more than once", key)
	}
	m.Settings[key] = val
	m.Order = append(m.Order, key)
	return nil
}

// AddModel records a model file and the experimental data files it is fit
// against, keeping the synthesized models and exp_data lists in step.
func (m *Model) AddModel(path string, expFiles []string) error {
	if _, dup := m.ModelData[path]; dup {
		return fmt.Errorf("model %q is declared more than once", path)
	}
	m.ModelData[path] = append([]string(nil), expFiles...)
	m.appendStrings(KeyModels, path)
	m.appendStrings(KeyExpData, expFiles...)
	return nil
}

// AddVariable records a variable declaration in source order.
func (m *Model) AddVariable(def *VariableDef) {
	m.Variables = append(m.Variables, def)
}

// appendStrings extends a list-of-strings setting, creating it on first use
// and skipping values that are already present.
func (m *Model) appendStrings(key string, vals ...string) {
	var existing []cty.Value
	seen := make(map[string]struct{})
	cur, exists := m.Settings[key]
	if !exists {
		m.Order = append(m.Order, key)
	}
	switch {
	case !exists || cur.IsNull() || !cur.IsKnown():
	case cur.CanIterateElements():
		for it := cur.ElementIterator(); it.Next(); {
			_, v := it.Element()
			existing = append(existing, v)
			if v.Type() == cty.String && v.IsKnown() && !v.IsNull() {
				seen[v.AsString()] = struct{}{}
			}
		}
	default:
		existing = append(existing, cur)
	}
	for _, s := range vals {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		existing = append(existing, cty.StringVal(s))
	}
	if len(existing) == 0 {
		m.Settings[key] = cty.ListValEmpty(cty.String)
		return
	}
	m.Settings[key] = cty.TupleVal(existing)
}
