// Package fitconfig validates a raw fit configuration and builds the typed
// entities the optimization algorithms consume: the resolved Settings, the
// loaded models and experimental datasets, the objective function and the
// free-parameter specifications.
//
// Validation fails fast with typed errors (see errors.go) before any model is
// simulated.
package fitconfig
