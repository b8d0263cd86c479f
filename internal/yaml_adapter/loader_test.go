package yaml_adapter

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/fitconf/internal/pset"
	"github.com/zclconf/go-cty/cty"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FullConfiguration(t *testing.T) {
	path := writeFile(t, t.TempDir(), "fit.yaml", `
fit_type: de
model:
  - path: models/egfr.bngl
    exp_data: [data/p1.exp, data/scan.exp]
  - path: models/tlr.bngl
variables:
  - {kind: uniform_var, name: k2, values: [0, 10]}
  - kind: static_list_var
    name: k1
    values: [3, 1]
credible_intervals: [50, 90]
adaptive_n_stop: .inf
verbose: true
`)

	model, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, []string{"fit_type", "models", "exp_data", "credible_intervals", "adaptive_n_stop", "verbose"}, model.Order)
	assert.True(t, model.Settings["fit_type"].RawEquals(cty.StringVal("de")))
	assert.True(t, model.Settings["verbose"].RawEquals(cty.True))
	assert.True(t, model.Settings["credible_intervals"].Equals(cty.TupleVal([]cty.Value{
		cty.NumberIntVal(50),
		cty.NumberIntVal(90),
	})).True())
	stop, _ := model.Settings["adaptive_n_stop"].AsBigFloat().Float64()
	assert.True(t, math.IsInf(stop, 1))

	assert.Equal(t, []string{"data/p1.exp", "data/scan.exp"}, model.ModelData["models/egfr.bngl"])
	assert.Empty(t, model.ModelData["models/tlr.bngl"])

	require.Len(t, model.Variables, 2)
	assert.Equal(t, "k2", model.Variables[0].Name)
	assert.Equal(t, pset.KindStaticList, model.Variables[1].Kind)
	assert.Equal(t, []float64{3, 1}, model.Variables[1].Values)
	assert.Equal(t, path+":9", model.Variables[1].Source)
}

func TestLoad_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		message string
	}{
		{name: "not a mapping", content: "- a\n- b\n", message: "top level must be a mapping"},
		{name: "bad syntax", content: "fit_type: [de\n", message: "failed to parse YAML file"},
		{name: "unknown kind", content: "variables:\n  - {kind: gaussian, name: k, values: [0, 1]}\n", message: `unknown variable keyword "gaussian"`},
		{name: "nameless variable", content: "variables:\n  - {kind: uniform_var, values: [0, 1]}\n", message: "variable without a name"},
		{name: "model without path", content: "model:\n  - exp_data: [a.exp]\n", message: "model entry without a path"},
		{name: "duplicate key", content: "fit_type: de\nfit_type: pso\n", message: "fit_type"},
		{name: "nan setting", content: "mutation_rate: .nan\n", message: "NaN is not a valid setting value"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "fit.yml", tc.content)

			_, err := NewLoader().Load(context.Background(), path)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.message)
		})
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "fit.yaml", "")

	model, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)
	assert.Empty(t, model.Order)
}
