// Package hcl_adapter reads fit configurations written in HCL.
//
// Top-level attributes become settings. `model "<path>"` blocks list the
// experimental data fitted to each model, and one block type per variable
// keyword declares the free parameters:
//
//	fit_type = "de"
//
//	model "models/egfr.bngl" {
//	  exp_data = ["data/p1.exp"]
//	}
//
//	uniform_var "k1" { values = [0, 10] }
package hcl_adapter
