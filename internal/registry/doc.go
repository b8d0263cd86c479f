// Package registry maps the objective-function names used in configuration
// files (e.g. "chi_sq") to the Go factories that build them.
//
// The registry is populated at startup and validated so that every
// registered name and the Name() of the objective it builds agree, which
// keeps configuration files and compiled code in sync.
package registry
