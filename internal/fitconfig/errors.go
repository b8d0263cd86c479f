package fitconfig

import (
	"fmt"
	"strings"

	"github.com/vk/fitconf/internal/pset"
)

// UnspecifiedConfigurationKeyError reports required keys missing from the
// configuration.
type UnspecifiedConfigurationKeyError struct {
	Keys []string
}

func (e *UnspecifiedConfigurationKeyError) Error() string {
	return "the following configuration keys must be specified: " + strings.Join(e.Keys, ", ")
}

// UnmatchedExperimentalDataError reports an experimental data file that no
// action of its model produces output for. Model is empty when the file is
// not attached to any model at all.
type UnmatchedExperimentalDataError struct {
	Model string
	File  string
}

func (e *UnmatchedExperimentalDataError) Error() string {
	if e.Model == "" {
		return fmt.Sprintf("experimental data '%s' is not attached to any model", e.File)
	}
	return fmt.Sprintf("action not specified for '%s' in model %s", e.File, e.Model)
}

// UnknownObjectiveFunctionError reports an objfunc value with no
// implementation.
type UnknownObjectiveFunctionError struct {
	Name string
	Err  error
}

func (e *UnknownObjectiveFunctionError) Error() string {
	return fmt.Sprintf("objective function %s not defined: %v", e.Name, e.Err)
}

func (e *UnknownObjectiveFunctionError) Unwrap() error { return e.Err }

// UnknownFitTypeError reports a fit_type no algorithm answers to.
type UnknownFitTypeError struct {
	FitType string
	Known   []string
}

func (e *UnknownFitTypeError) Error() string {
	return fmt.Sprintf("unknown fit_type %q (available: %s)", e.FitType, strings.Join(e.Known, ", "))
}

// VariableKeywordError reports a variable keyword that does not fit the
// selected algorithm: var and logvar are Simplex-only, and Simplex accepts
// nothing else.
type VariableKeywordError struct {
	Name    string
	Kind    pset.Kind
	FitType string
	Source  string
}

func (e *VariableKeywordError) Error() string {
	var msg string
	if e.Kind.SimplexOnly() {
		msg = fmt.Sprintf("variable %s uses keyword %s, which is only valid with the Simplex algorithm (fit_type = sim); "+
			"use normal_var, lognormal_var, uniform_var, loguniform_var or static_list_var with fit_type %s",
			e.Name, e.Kind, e.FitType)
	} else {
		msg = fmt.Sprintf("fit_type = sim needs a single initial value per variable, but %s is declared with %s; "+
			"use var or logvar instead (e.g. var %q { values = [42] })",
			e.Name, e.Kind, e.Name)
	}
	return withSource(msg, e.Source)
}

// VariableSpecError reports a malformed variable declaration.
type VariableSpecError struct {
	Name   string
	Source string
	Reason string
	Err    error
}

func (e *VariableSpecError) Error() string {
	msg := fmt.Sprintf("variable %s: %s", e.Name, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return withSource(msg, e.Source)
}

func (e *VariableSpecError) Unwrap() error { return e.Err }

// SettingError reports a setting whose value has the wrong shape.
type SettingError struct {
	Key string
	Err error
}

func (e *SettingError) Error() string {
	return fmt.Sprintf("invalid value for setting %s: %v", e.Key, e.Err)
}

func (e *SettingError) Unwrap() error { return e.Err }

func withSource(msg, source string) string {
	if source == "" {
		return msg
	}
	return msg + " (at " + source + ")"
}
