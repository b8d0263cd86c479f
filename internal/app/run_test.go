package app_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/fitconf/internal/fitconfig"
	"github.com/vk/fitconf/internal/testutil"
)

const fitHCL = `
fit_type        = "de"
population_size = 20
mutation_rate   = 0.7
burn_in         = 500

model "@ROOT@/models/egfr.bngl" {
  exp_data = ["@ROOT@/data/p1.exp", "@ROOT@/data/scan.exp"]
}

uniform_var "k1"    { values = [0, 10] }
loguniform_var "k2" { values = [0.01, 100] }
`

func TestRun_Summary(t *testing.T) {
	result := testutil.RunIntegrationTest(t, testutil.FitFiles(fitHCL), "fit.hcl", 0)
	require.NoError(t, result.Err)

	out := result.Output
	assert.Contains(t, out, "fit_type: de\n")
	assert.Contains(t, out, "objfunc: chi_sq\n")
	assert.Contains(t, out, "egfr (")
	assert.Contains(t, out, "): p1, scan\n")
	assert.Contains(t, out, "  uniform_var k1 [0, 10)\n")
	assert.Contains(t, out, "  loguniform_var k2 [0.01, 100)\n")
	assert.Contains(t, out, "key=burn_in")
	assert.NotContains(t, out, "initial sets:")

	fit := result.App.Configuration()
	require.NotNil(t, fit)
	assert.Equal(t, 20, fit.Settings.PopulationSize)
}

func TestRun_InitialSetsAreReproducible(t *testing.T) {
	first := testutil.RunIntegrationTest(t, testutil.FitFiles(fitHCL), "fit.hcl", 4)
	require.NoError(t, first.Err)
	second := testutil.RunIntegrationTest(t, testutil.FitFiles(fitHCL), "fit.hcl", 4)
	require.NoError(t, second.Err)

	sets := func(out string) string {
		i := strings.Index(out, "initial sets:\n")
		require.GreaterOrEqual(t, i, 0)
		var lines []string
		for _, l := range strings.Split(out[i:], "\n")[1:] {
			if strings.HasPrefix(l, "  ") {
				lines = append(lines, l)
			}
		}
		return strings.Join(lines, "\n")
	}
	got := sets(first.Output)
	assert.Equal(t, got, sets(second.Output))
	assert.Equal(t, 4, strings.Count(got, "k2="))
	assert.Contains(t, first.Output, "seed=42")
}

func TestRun_YAML(t *testing.T) {
	files := testutil.FitFiles("")
	delete(files, "fit.hcl")
	files["fit.yaml"] = `
fit_type: sim
model:
  - path: "@ROOT@/models/egfr.bngl"
    exp_data: ["@ROOT@/data/p1.exp"]
simplex_log_step: 0.3
variables:
  - {kind: logvar, name: k1, values: [1]}
  - {kind: var, name: k2, values: [5, 2]}
`
	result := testutil.RunIntegrationTest(t, files, "fit.yaml", 0)
	require.NoError(t, result.Err)

	fit := result.App.Configuration()
	require.Len(t, fit.Specs, 2)
	assert.Equal(t, 0.3, fit.Specs[0].P2)
	assert.Equal(t, 2.0, fit.Specs[1].P2)
	assert.Contains(t, result.Output, "fit_type: sim\n")
}

func TestRun_ValidationErrors(t *testing.T) {
	testCases := []struct {
		name   string
		config string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "missing models",
			config: `uniform_var "k1" { values = [0, 10] }`,
			check: func(t *testing.T, err error) {
				var target *fitconfig.UnspecifiedConfigurationKeyError
				require.ErrorAs(t, err, &target)
			},
		},
		{
			name: "unmatched data",
			config: `
model "@ROOT@/models/egfr.bngl" {
  exp_data = ["@ROOT@/data/missing.exp"]
}`,
			check: func(t *testing.T, err error) {
				var target *fitconfig.UnmatchedExperimentalDataError
				require.ErrorAs(t, err, &target)
				assert.Equal(t, "missing.exp", target.File)
			},
		},
		{
			name: "simplex keyword with de",
			config: `
model "@ROOT@/models/egfr.bngl" {}
var "k1" { values = [1] }`,
			check: func(t *testing.T, err error) {
				var target *fitconfig.VariableKeywordError
				require.ErrorAs(t, err, &target)
				assert.Contains(t, err.Error(), "fit.hcl:3")
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := testutil.RunIntegrationTest(t, testutil.FitFiles(tc.config), "fit.hcl", 0)
			tc.check(t, result.Err)
		})
	}
}
