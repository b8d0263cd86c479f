// Package bngl loads BioNetGen model files far enough to know which outputs
// their actions produce. Simulation itself happens elsewhere.
package bngl
