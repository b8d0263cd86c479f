package pset

// Option customizes a FreeParameter at construction time.
type Option func(*options)

type options struct {
	value    float64
	hasValue bool
	bounded  bool
}

// WithValue sets the initial value. The value is checked against the bounds
// without reflection.
func WithValue(v float64) Option {
	return func(o *options) {
		o.value = v
		o.hasValue = true
	}
}

// WithBounded switches bounds enforcement off (false) for kinds that are
// bounded by default. It cannot make an unbounded kind bounded.
func WithBounded(b bool) Option {
	return func(o *options) {
		o.bounded = b
	}
}
