// Package config defines the format-agnostic representation of a fit
// configuration file, along with the Loader interface implemented by the
// concrete file formats.
//
// A config.Model is raw user input: nothing in it has been defaulted or
// cross-checked. The fitconfig package turns it into a validated
// Configuration. Concrete loaders, such as for HCL and YAML, live in separate
// packages.
package config
