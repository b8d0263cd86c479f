package fitconfig

import (
	"fmt"
	"slices"

	"github.com/vk/fitconf/internal/config"
	"github.com/vk/fitconf/internal/pset"
)

// VariableSpec is a validated free-parameter declaration, ready to seed a
// pset.FreeParameter.
//
// P1 and P2 are read per kind: lower and upper bound for the uniform kinds,
// location and scale for the normal kinds, initial value and step for var and
// logvar. Static lists use Candidates instead.
type VariableSpec struct {
	Name       string
	Kind       pset.Kind
	P1         float64
	P2         float64
	Candidates []float64
}

// NewParameter builds the FreeParameter described by the spec.
func (s VariableSpec) NewParameter(opts ...pset.Option) (pset.FreeParameter, error) {
	if s.Kind == pset.KindStaticList {
		return pset.NewStaticList(s.Name, s.Candidates, opts...)
	}
	return pset.New(s.Name, s.Kind, s.P1, s.P2, opts...)
}

// loadVariables turns declarations into specs, keeping declaration order.
func loadVariables(defs []*config.VariableDef, s Settings) ([]string, []VariableSpec, error) {
	names := make([]string, 0, len(defs))
	specs := make([]VariableSpec, 0, len(defs))
	firstSeen := make(map[string]string, len(defs))

	for _, def := range defs {
		simplex := s.FitType == FitTypeSimplex
		if simplex != def.Kind.SimplexOnly() {
			return nil, nil, &VariableKeywordError{Name: def.Name, Kind: def.Kind, FitType: s.FitType, Source: def.Source}
		}
		if at, dup := firstSeen[def.Name]; dup {
			return nil, nil, &VariableSpecError{
				Name:   def.Name,
				Source: def.Source,
				Reason: fmt.Sprintf("declared more than once (first at %s)", at),
			}
		}
		firstSeen[def.Name] = def.Source

		spec, err := buildSpec(def, s)
		if err != nil {
			return nil, nil, err
		}
		if _, err := spec.NewParameter(); err != nil {
			return nil, nil, &VariableSpecError{Name: def.Name, Source: def.Source, Reason: "invalid declaration", Err: err}
		}

		names = append(names, def.Name)
		specs = append(specs, spec)
	}
	return names, specs, nil
}

func buildSpec(def *config.VariableDef, s Settings) (VariableSpec, error) {
	spec := VariableSpec{Name: def.Name, Kind: def.Kind}
	n := len(def.Values)
	countErr := func(want string) error {
		return &VariableSpecError{
			Name:   def.Name,
			Source: def.Source,
			Reason: fmt.Sprintf("%s takes %s, got %d", def.Kind, want, n),
		}
	}

	switch def.Kind {
	case pset.KindStaticList:
		if n == 0 {
			return VariableSpec{}, countErr("at least one candidate value")
		}
		spec.Candidates = slices.Clone(def.Values)
	case pset.KindVar, pset.KindLogVar:
		if n < 1 || n > 2 {
			return VariableSpec{}, countErr("an initial value and an optional step")
		}
		spec.P1 = def.Values[0]
		spec.P2 = simplexStep(def, s)
	default:
		if n != 2 {
			return VariableSpec{}, countErr("exactly two values")
		}
		spec.P1, spec.P2 = def.Values[0], def.Values[1]
	}
	return spec, nil
}

// simplexStep resolves the step for var/logvar: an explicit per-variable
// step, then simplex_log_step for logvar when the user set it, then
// simplex_step, which always has a default.
func simplexStep(def *config.VariableDef, s Settings) float64 {
	if len(def.Values) >= 2 {
		return def.Values[1]
	}
	if def.Kind == pset.KindLogVar && s.IsSet("simplex_log_step") {
		return s.SimplexLogStep
	}
	return s.SimplexStep
}
