package pset

import (
	"fmt"
	"math"
)

// Kind identifies how a free parameter is distributed or, for the Simplex
// kinds, how its starting point is described.
type Kind string

const (
	KindNormal     Kind = "normal_var"
	KindLogNormal  Kind = "lognormal_var"
	KindUniform    Kind = "uniform_var"
	KindLogUniform Kind = "loguniform_var"
	KindStaticList Kind = "static_list_var"
	KindVar        Kind = "var"
	KindLogVar     Kind = "logvar"
)

var allKinds = []Kind{
	KindNormal,
	KindLogNormal,
	KindUniform,
	KindLogUniform,
	KindStaticList,
	KindVar,
	KindLogVar,
}

// Kinds returns every supported kind in a stable order.
func Kinds() []Kind {
	out := make([]Kind, len(allKinds))
	copy(out, allKinds)
	return out
}

// ParseKind maps a configuration keyword to its Kind.
func ParseKind(keyword string) (Kind, error) {
	for _, k := range allKinds {
		if string(k) == keyword {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown variable keyword %q", keyword)
}

// String implements fmt.Stringer.
func (k Kind) String() string { return string(k) }

// LogSpace reports whether arithmetic for the kind happens in log10 space.
func (k Kind) LogSpace() bool {
	switch k {
	case KindLogNormal, KindLogUniform, KindLogVar:
		return true
	}
	return false
}

// DefaultBounded reports whether parameters of this kind enforce their bounds
// unless told otherwise.
func (k Kind) DefaultBounded() bool {
	switch k {
	case KindUniform, KindLogUniform, KindStaticList:
		return true
	}
	return false
}

// SimplexOnly reports whether the kind only makes sense for the Simplex
// algorithm, where it carries an initial value and step instead of a
// distribution.
func (k Kind) SimplexOnly() bool {
	return k == KindVar || k == KindLogVar
}

// defaultBounds returns the bounds implied by the kind for the given declaration
// values. Static lists are handled by the caller.
func (k Kind) defaultBounds(p1, p2 float64) (float64, float64) {
	switch k {
	case KindUniform, KindLogUniform:
		return p1, p2
	case KindLogNormal, KindLogVar:
		return 0, math.Inf(1)
	default:
		return math.Inf(-1), math.Inf(1)
	}
}
