package pset

import (
	"fmt"
	"strings"
)

// ParameterSet is an ordered, immutable vector of uniquely named parameters:
// one candidate point of the search space.
type ParameterSet struct {
	params []FreeParameter
	index  map[string]int
}

// NewParameterSet builds a set in the given order. Names must be unique.
func NewParameterSet(params ...FreeParameter) (ParameterSet, error) {
	index := make(map[string]int, len(params))
	for i, p := range params {
		if _, dup := index[p.name]; dup {
			return ParameterSet{}, fmt.Errorf("duplicate parameter %q in set", p.name)
		}
		index[p.name] = i
	}
	owned := make([]FreeParameter, len(params))
	copy(owned, params)
	return ParameterSet{params: owned, index: index}, nil
}

// Len returns the number of parameters.
func (s ParameterSet) Len() int { return len(s.params) }

// Get looks a parameter up by name.
func (s ParameterSet) Get(name string) (FreeParameter, bool) {
	i, ok := s.index[name]
	if !ok {
		return FreeParameter{}, false
	}
	return s.params[i], true
}

// Names returns the parameter names in set order.
func (s ParameterSet) Names() []string {
	names := make([]string, len(s.params))
	for i, p := range s.params {
		names[i] = p.name
	}
	return names
}

// Parameters returns a copy of the parameters in set order.
func (s ParameterSet) Parameters() []FreeParameter {
	out := make([]FreeParameter, len(s.params))
	copy(out, s.params)
	return out
}

// Values returns name -> value for every parameter that has one.
func (s ParameterSet) Values() map[string]float64 {
	out := make(map[string]float64, len(s.params))
	for _, p := range s.params {
		if p.hasValue {
			out[p.name] = p.value
		}
	}
	return out
}

// With returns a copy of the set where the parameter named p.Name() is
// replaced by p.
func (s ParameterSet) With(p FreeParameter) (ParameterSet, error) {
	i, ok := s.index[p.name]
	if !ok {
		return ParameterSet{}, fmt.Errorf("parameter %q is not part of the set", p.name)
	}
	params := make([]FreeParameter, len(s.params))
	copy(params, s.params)
	params[i] = p
	return ParameterSet{params: params, index: s.index}, nil
}

// Equal reports whether both sets hold equal parameters in the same order.
func (s ParameterSet) Equal(other ParameterSet) bool {
	if len(s.params) != len(other.params) {
		return false
	}
	for i := range s.params {
		if !s.params[i].Equal(other.params[i]) {
			return false
		}
	}
	return true
}

// String implements fmt.Stringer.
func (s ParameterSet) String() string {
	parts := make([]string, len(s.params))
	for i, p := range s.params {
		parts[i] = p.String()
	}
	return strings.Join(parts, ", ")
}
