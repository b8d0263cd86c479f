// Package objective names the objective functions a fit can minimize.
// Computing fitness from simulation output is the evaluators' job; this
// package only knows what each objective needs from the experimental data.
package objective

import (
	"fmt"
	"strings"

	"github.com/vk/fitconf/internal/expdata"
)

// Objective is an objective function selected by the objfunc setting.
type Objective interface {
	// Name is the configuration name of the objective.
	Name() string
	// CheckData reports whether a dataset carries everything the objective
	// needs to score a simulation against it.
	CheckData(prefix string, d *expdata.Data) error
}

// StdDevSuffix marks a column holding the standard deviation of the column
// with the same name minus the suffix.
const StdDevSuffix = "_SD"

// ChiSquare weights squared residuals by the measured standard deviation, so
// every measured column needs a matching _SD column.
type ChiSquare struct{}

// NewChiSquare returns the chi-square objective.
func NewChiSquare() Objective {
	return ChiSquare{}
}

// Name implements Objective.
func (ChiSquare) Name() string { return "chi_sq" }

// CheckData implements Objective.
func (ChiSquare) CheckData(prefix string, d *expdata.Data) error {
	var missing []string
	for i, col := range d.Columns() {
		// The first column is the independent variable.
		if i == 0 || strings.HasSuffix(col, StdDevSuffix) {
			continue
		}
		if !d.Has(col + StdDevSuffix) {
			missing = append(missing, col+StdDevSuffix)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("chi_sq needs standard deviations for %s.exp; missing columns: %s", prefix, strings.Join(missing, ", "))
	}
	return nil
}
