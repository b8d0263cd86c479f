package pset

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Source supplies uniform draws in [0, 1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// PermSource is a Source that can also shuffle, as Latin-hypercube sampling
// needs.
type PermSource interface {
	Source
	Perm(n int) []int
}

// sampledAt returns a copy whose value is the kind's quantile at u.
func (p FreeParameter) sampledAt(u float64) FreeParameter {
	p.value = p.quantile(openUnit(u))
	p.hasValue = true
	return p
}

// quantile maps u in (0, 1) onto the parameter's distribution. The result is
// always a value the parameter may hold.
func (p FreeParameter) quantile(u float64) float64 {
	switch p.kind {
	case KindNormal:
		// Normal parameters are rate-like; negative draws are clipped.
		return math.Max(0, distuv.Normal{Mu: p.p1, Sigma: p.p2}.Quantile(u))
	case KindLogNormal:
		v := math.Pow(10, distuv.Normal{Mu: p.p1, Sigma: p.p2}.Quantile(u))
		return math.Min(math.Max(v, math.SmallestNonzeroFloat64), math.MaxFloat64)
	case KindUniform:
		return clampBelow(distuv.Uniform{Min: p.p1, Max: p.p2}.Quantile(u), p.p1, p.p2)
	case KindLogUniform:
		x := distuv.Uniform{Min: log10(p.p1), Max: log10(p.p2)}.Quantile(u)
		return clampBelow(math.Pow(10, x), p.p1, p.p2)
	case KindStaticList:
		i := int(u * float64(len(p.candidates)))
		if i >= len(p.candidates) {
			i = len(p.candidates) - 1
		}
		return p.candidates[i]
	default:
		return p.p1
	}
}

// RandomSets draws n parameter sets, each value sampled independently.
func RandomSets(params []FreeParameter, n int, src Source) ([]ParameterSet, error) {
	if n <= 0 {
		return nil, fmt.Errorf("random sampling needs a positive sample count, got %d", n)
	}
	sets := make([]ParameterSet, 0, n)
	for i := 0; i < n; i++ {
		drawn := make([]FreeParameter, len(params))
		for j, p := range params {
			drawn[j] = p.SampleValue(src)
		}
		set, err := NewParameterSet(drawn...)
		if err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}
	return sets, nil
}

// LatinHypercube draws n parameter sets so that, for every parameter, each of
// the n equal-probability strata of its distribution is used exactly once.
func LatinHypercube(params []FreeParameter, n int, src PermSource) ([]ParameterSet, error) {
	if n <= 0 {
		return nil, fmt.Errorf("latin hypercube needs a positive sample count, got %d", n)
	}
	columns := make([][]FreeParameter, len(params))
	for j, p := range params {
		strata := src.Perm(n)
		columns[j] = make([]FreeParameter, n)
		for i, s := range strata {
			u := (float64(s) + src.Float64()) / float64(n)
			columns[j][i] = p.sampledAt(u)
		}
	}

	sets := make([]ParameterSet, n)
	for i := range sets {
		row := make([]FreeParameter, len(params))
		for j := range params {
			row[j] = columns[j][i]
		}
		set, err := NewParameterSet(row...)
		if err != nil {
			return nil, err
		}
		sets[i] = set
	}
	return sets, nil
}
