// Package app wires a configuration loader, the objective registry and the
// fit configuration validator into a runnable application.
package app
