// Package pset holds the free-parameter value types shared by every fitting
// algorithm.
//
// A FreeParameter is an immutable value: sampling, assignment and arithmetic
// all return a new FreeParameter. Parameter vectors are copied to independent
// evaluation workers, so no operation may mutate its receiver.
//
// Arithmetic happens in the parameter's natural space. For log-space kinds
// (lognormal_var, loguniform_var, logvar) that space is base-10 logarithmic:
// adding 1 to a loguniform parameter multiplies its value by ten.
package pset
