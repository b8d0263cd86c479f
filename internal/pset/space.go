package pset

import "math"

// log10 is math.Log10 that returns exact integers for exact powers of ten.
// math.Log10(1000) is 2.9999999999999996, which would make a reflection off a
// decade boundary land a hair away from the expected value.
func log10(x float64) float64 {
	l := math.Log10(x)
	if r := math.Round(l); math.Pow(10, r) == x {
		return r
	}
	return l
}

// toSpace maps a linear value into the parameter's natural space.
func (p FreeParameter) toSpace(v float64) float64 {
	if p.kind.LogSpace() {
		return log10(v)
	}
	return v
}

// fromSpace maps a natural-space value back into linear space.
func (p FreeParameter) fromSpace(x float64) float64 {
	if p.kind.LogSpace() {
		return math.Pow(10, x)
	}
	return x
}

// fold mirrors x off lo and hi until it lands in [lo, hi]. The walk is a
// triangular wave with period 2*(hi-lo), so the total displacement is kept.
func fold(x, lo, hi float64) float64 {
	w := hi - lo
	switch {
	case w <= 0:
		return lo
	case math.IsInf(x, 1):
		return hi
	case math.IsInf(x, -1):
		return lo
	}
	period := 2 * w
	r := math.Mod(x-lo, period)
	if r < 0 {
		r += period
	}
	if r > w {
		r = period - r
	}
	return lo + r
}

// clamp forces v into [lower, upper], absorbing rounding from log space.
func clamp(v, lower, upper float64) float64 {
	return math.Min(math.Max(v, lower), upper)
}

// clampBelow forces v into the half-open range [lower, upper).
func clampBelow(v, lower, upper float64) float64 {
	if v >= upper {
		return math.Nextafter(upper, math.Inf(-1))
	}
	if v < lower {
		return lower
	}
	return v
}

// openUnit keeps a probability strictly inside (0, 1) so quantile functions
// never return an infinity.
func openUnit(u float64) float64 {
	if u <= 0 {
		return math.SmallestNonzeroFloat64
	}
	if u >= 1 {
		return math.Nextafter(1, 0)
	}
	return u
}
