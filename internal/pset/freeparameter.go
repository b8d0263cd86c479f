package pset

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// FreeParameter is one fit variable: its current value together with the
// distribution and bounds it was declared with.
type FreeParameter struct {
	name string
	kind Kind
	p1   float64
	p2   float64

	// candidates is sorted and deduplicated; static lists only. Never
	// mutated after construction, so copies may share it.
	candidates []float64

	value    float64
	hasValue bool

	lower   float64
	upper   float64
	bounded bool
}

// New creates a parameter of any kind except static lists. The meaning of p1
// and p2 depends on the kind: bounds for the uniform kinds, location and scale
// for the normal kinds, initial value and step for var and logvar.
func New(name string, kind Kind, p1, p2 float64, opts ...Option) (FreeParameter, error) {
	if _, err := ParseKind(string(kind)); err != nil {
		return FreeParameter{}, fmt.Errorf("parameter %q: %w", name, err)
	}
	if kind == KindStaticList {
		return FreeParameter{}, fmt.Errorf("parameter %q: %s needs a candidate list, use NewStaticList", name, kind)
	}
	if err := validateSpec(kind, p1, p2); err != nil {
		return FreeParameter{}, fmt.Errorf("parameter %q: %w", name, err)
	}

	lower, upper := kind.defaultBounds(p1, p2)
	p := FreeParameter{
		name:  name,
		kind:  kind,
		p1:    p1,
		p2:    p2,
		lower: lower,
		upper: upper,
	}
	return p.apply(opts)
}

// NewStaticList creates a static_list_var parameter whose values are drawn
// from a finite candidate set.
func NewStaticList(name string, candidates []float64, opts ...Option) (FreeParameter, error) {
	if len(candidates) == 0 {
		return FreeParameter{}, fmt.Errorf("parameter %q: %s needs at least one candidate", name, KindStaticList)
	}
	sorted := slices.Clone(candidates)
	for _, c := range sorted {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return FreeParameter{}, fmt.Errorf("parameter %q: candidate %g is not finite", name, c)
		}
	}
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	p := FreeParameter{
		name:       name,
		kind:       KindStaticList,
		candidates: sorted,
		lower:      sorted[0],
		upper:      sorted[len(sorted)-1],
	}
	return p.apply(opts)
}

func validateSpec(kind Kind, p1, p2 float64) error {
	if math.IsNaN(p1) || math.IsNaN(p2) {
		return fmt.Errorf("%s values must be numbers", kind)
	}
	switch kind {
	case KindUniform:
		if !(p1 < p2) {
			return fmt.Errorf("%s lower bound %g must be below upper bound %g", kind, p1, p2)
		}
	case KindLogUniform:
		if p1 <= 0 {
			return fmt.Errorf("%s lower bound %g must be positive", kind, p1)
		}
		if !(p1 < p2) {
			return fmt.Errorf("%s lower bound %g must be below upper bound %g", kind, p1, p2)
		}
	case KindNormal, KindLogNormal:
		if p2 < 0 {
			return fmt.Errorf("%s standard deviation %g must not be negative", kind, p2)
		}
	case KindLogVar:
		if p1 <= 0 {
			return fmt.Errorf("%s initial value %g must be positive", kind, p1)
		}
	}
	return nil
}

func (p FreeParameter) apply(opts []Option) (FreeParameter, error) {
	o := options{bounded: true}
	for _, opt := range opts {
		opt(&o)
	}
	p.bounded = p.kind.DefaultBounded() && o.bounded
	if o.hasValue {
		return p.withValue(o.value, false)
	}
	return p, nil
}

// Name returns the fit-variable name.
func (p FreeParameter) Name() string { return p.name }

// Kind returns the variable kind.
func (p FreeParameter) Kind() Kind { return p.kind }

// Value returns the current value. It is zero when HasValue is false.
func (p FreeParameter) Value() float64 { return p.value }

// HasValue reports whether the parameter was sampled or assigned.
func (p FreeParameter) HasValue() bool { return p.hasValue }

func (p FreeParameter) LowerBound() float64 { return p.lower }
func (p FreeParameter) UpperBound() float64 { return p.upper }
func (p FreeParameter) Bounded() bool       { return p.bounded }

// Spec returns the two declaration values the parameter was built from.
func (p FreeParameter) Spec() (float64, float64) { return p.p1, p.p2 }

// Candidates returns a copy of the static-list candidates.
func (p FreeParameter) Candidates() []float64 { return slices.Clone(p.candidates) }

// SampleValue returns a copy with a value drawn from the parameter's
// distribution. Simplex kinds return their initial value.
func (p FreeParameter) SampleValue(src Source) FreeParameter {
	return p.sampledAt(src.Float64())
}

// SetValue returns a copy holding v. A bounded parameter reflects an
// out-of-range v back into range in its natural space. The upper bound itself
// is accepted here, unlike in SetValueStrict.
func (p FreeParameter) SetValue(v float64) (FreeParameter, error) {
	if p.bounded && p.valid(v) && !p.inBounds(v) && v != p.upper {
		v = p.reflect(v)
	}
	return p.withValue(v, true)
}

// SetValueStrict is SetValue without reflection: a v outside [lower, upper)
// fails with an *OutOfBoundsError.
func (p FreeParameter) SetValueStrict(v float64) (FreeParameter, error) {
	return p.withValue(v, false)
}

// Add returns a copy whose value moved by delta in the natural space,
// reflecting off the bounds when needed.
func (p FreeParameter) Add(delta float64) (FreeParameter, error) {
	if !p.hasValue {
		return FreeParameter{}, fmt.Errorf("add to %q: %w", p.name, ErrNoValue)
	}
	x := p.toSpace(p.value) + delta
	if !p.bounded || p.kind == KindStaticList {
		return p.SetValue(p.fromSpace(x))
	}
	// Fold before leaving log space so large steps cannot overflow.
	x = fold(x, p.toSpace(p.lower), p.toSpace(p.upper))
	return p.withValue(clamp(p.fromSpace(x), p.lower, p.upper), true)
}

// Diff returns p - other measured in p's natural space.
func (p FreeParameter) Diff(other FreeParameter) (float64, error) {
	if !p.hasValue {
		return 0, fmt.Errorf("diff %q: %w", p.name, ErrNoValue)
	}
	if !other.hasValue {
		return 0, fmt.Errorf("diff against %q: %w", other.name, ErrNoValue)
	}
	return p.toSpace(p.value) - p.toSpace(other.value), nil
}

// Equal reports whether both parameters share name, kind, value and bounds.
func (p FreeParameter) Equal(other FreeParameter) bool {
	if p.name != other.name || p.kind != other.kind || p.hasValue != other.hasValue {
		return false
	}
	if p.hasValue && p.value != other.value {
		return false
	}
	return p.lower == other.lower &&
		p.upper == other.upper &&
		slices.Equal(p.candidates, other.candidates)
}

// String implements fmt.Stringer.
func (p FreeParameter) String() string {
	var b strings.Builder
	b.WriteString(p.name)
	b.WriteByte('=')
	if p.hasValue {
		fmt.Fprintf(&b, "%g", p.value)
	} else {
		b.WriteString("<unset>")
	}
	return b.String()
}

// withValue stores v after checking it. closedUpper admits v == upper.
func (p FreeParameter) withValue(v float64, closedUpper bool) (FreeParameter, error) {
	inRange := p.inBounds(v) || (closedUpper && v == p.upper)
	if !p.valid(v) || (p.bounded && !inRange) {
		return FreeParameter{}, &OutOfBoundsError{Name: p.name, Value: v, Lower: p.lower, Upper: p.upper}
	}
	p.value = v
	p.hasValue = true
	return p, nil
}

// valid rejects values no kind can hold, bounded or not.
func (p FreeParameter) valid(v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	return !p.kind.LogSpace() || v > 0
}

func (p FreeParameter) inBounds(v float64) bool {
	if p.kind == KindStaticList {
		_, found := slices.BinarySearch(p.candidates, v)
		return found
	}
	return p.lower <= v && v < p.upper
}

func (p FreeParameter) reflect(v float64) float64 {
	if p.kind == KindStaticList {
		return p.nearestCandidate(fold(v, p.lower, p.upper))
	}
	x := fold(p.toSpace(v), p.toSpace(p.lower), p.toSpace(p.upper))
	return clamp(p.fromSpace(x), p.lower, p.upper)
}

func (p FreeParameter) nearestCandidate(v float64) float64 {
	i, _ := slices.BinarySearch(p.candidates, v)
	switch {
	case i == 0:
		return p.candidates[0]
	case i == len(p.candidates):
		return p.candidates[i-1]
	}
	below, above := p.candidates[i-1], p.candidates[i]
	if v-below <= above-v {
		return below
	}
	return above
}
