package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// RootPlaceholder is replaced by the workspace root in every file WriteFiles
// writes, so configurations can point at sibling model and data files.
const RootPlaceholder = "@ROOT@"

// WriteFiles creates a temporary workspace holding files, keyed by path
// relative to the workspace root, and returns the root.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		content = strings.ReplaceAll(content, RootPlaceholder, root)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

// EGFRModel is a small BNGL model with a time course (suffix p1) and a
// parameter scan (suffix scan).
const EGFRModel = `# Ligand binding toy model
begin model
begin parameters
  k1 1.0
  k2 0.1
end parameters
end model

generate_network({overwrite=>1})
simulate({method=>"ode",t_end=>10,n_steps=>10,suffix=>"p1"})
parameter_scan({parameter=>"k1",par_min=>0,par_max=>1,n_scan_pts=>5,suffix=>"scan"})
`

// P1Data matches the p1 time course of EGFRModel and carries the standard
// deviations chi_sq needs.
const P1Data = `# time A A_SD
0 1.0 0.1
5 2.0 0.1
10 nan 0.1
`

// ScanData matches the scan action of EGFRModel.
const ScanData = `# k1 A A_SD
0 1.0 0.2
1 1.5 0.2
`

// FitFiles returns a complete HCL workspace around EGFRModel. config is the
// text of fit.hcl; paths in it may use RootPlaceholder.
func FitFiles(config string) map[string]string {
	return map[string]string{
		"models/egfr.bngl": EGFRModel,
		"data/p1.exp":      P1Data,
		"data/scan.exp":    ScanData,
		"fit.hcl":          config,
	}
}
