package fitconfig

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/fitconf/internal/bngl"
	"github.com/vk/fitconf/internal/config"
	"github.com/vk/fitconf/internal/ctxlog"
	"github.com/vk/fitconf/internal/expdata"
	"github.com/vk/fitconf/internal/pset"
	"github.com/zclconf/go-cty/cty"
)

type fakeModel struct {
	name     string
	path     string
	suffixes []bngl.Suffix
}

func (m fakeModel) Name() string            { return m.name }
func (m fakeModel) FilePath() string        { return m.path }
func (m fakeModel) Suffixes() []bngl.Suffix { return m.suffixes }

type fakeModels map[string]fakeModel

func (f fakeModels) LoadModel(_ context.Context, path string) (Model, error) {
	m, ok := f[path]
	if !ok {
		return nil, fmt.Errorf("no model at %s", path)
	}
	return m, nil
}

type fakeData map[string]*expdata.Data

func (f fakeData) LoadData(_ context.Context, path string) (*expdata.Data, error) {
	d, ok := f[path]
	if !ok {
		return nil, fmt.Errorf("no data at %s", path)
	}
	return d, nil
}

func mustData(t *testing.T, src string) *expdata.Data {
	t.Helper()
	d, err := expdata.Parse("test.exp", strings.NewReader(src))
	require.NoError(t, err)
	return d
}

func collaborators(t *testing.T) []Option {
	t.Helper()
	models := fakeModels{
		"models/egfr.bngl": {
			name: "egfr",
			path: "models/egfr.bngl",
			suffixes: []bngl.Suffix{
				{Action: "simulate", Prefix: "p1"},
				{Action: "parameter_scan", Prefix: "scan"},
			},
		},
		"models/tlr.bngl": {
			name:     "tlr",
			path:     "models/tlr.bngl",
			suffixes: []bngl.Suffix{{Action: "simulate", Prefix: "tc"}},
		},
	}
	data := fakeData{
		"data/p1.exp":   mustData(t, "# time A A_SD\n0 1 0.1\n"),
		"data/scan.exp": mustData(t, "# k1 A A_SD\n0 1 0.1\n"),
		"data/tc.exp":   mustData(t, "# time B B_SD\n0 1 0.1\n"),
		"data/nosd.exp": mustData(t, "# time B\n0 1\n"),
	}
	return []Option{
		WithModelLoader(models),
		WithDataLoader(data),
		WithGetenv(func(string) string { return "" }),
	}
}

func newRaw(t *testing.T) *config.Model {
	t.Helper()
	raw := config.NewModel()
	require.NoError(t, raw.Set("fit_type", cty.StringVal("de")))
	require.NoError(t, raw.AddModel("models/egfr.bngl", []string{"data/p1.exp", "data/scan.exp"}))
	raw.AddVariable(&config.VariableDef{Kind: pset.KindUniform, Name: "k1", Values: []float64{0, 10}})
	return raw
}

// build runs New with a logger writing to a buffer at the given level.
func build(t *testing.T, raw *config.Model, level slog.Level, opts ...Option) (*Configuration, string, error) {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: level}))
	ctx := ctxlog.WithLogger(context.Background(), logger)

	c, err := New(ctx, raw, append(collaborators(t), opts...)...)
	return c, buf.String(), err
}

func TestNew_Success(t *testing.T) {
	raw := newRaw(t)
	require.NoError(t, raw.AddModel("models/tlr.bngl", []string{"data/tc.exp"}))

	c, _, err := build(t, raw, slog.LevelInfo)
	require.NoError(t, err)

	assert.Equal(t, []string{"egfr", "tlr"}, c.ModelNames)
	assert.Equal(t, "models/tlr.bngl", c.Models["tlr"].FilePath())
	want := map[string][]string{"egfr": {"p1", "scan"}, "tlr": {"tc"}}
	if diff := cmp.Diff(want, c.Mapping); diff != "" {
		t.Errorf("mapping mismatch (-want +got):\n%s", diff)
	}
	assert.Len(t, c.ExpData, 3)
	assert.Contains(t, c.ExpData, "scan")
	assert.Equal(t, "chi_sq", c.Objective.Name())
	assert.Equal(t, []string{"k1"}, c.Variables)
}

func TestNew_SilentLogger(t *testing.T) {
	raw := config.NewModel()
	require.NoError(t, raw.AddModel("models/egfr.bngl", []string{"data/p1.exp"}))

	c, err := New(ctxlog.Discard(context.Background()), raw, collaborators(t)...)
	require.NoError(t, err)
	assert.Equal(t, "de", c.Settings.FitType)
}

func TestNew_MissingModels(t *testing.T) {
	raw := config.NewModel()
	require.NoError(t, raw.Set("fit_type", cty.StringVal("de")))

	_, _, err := build(t, raw, slog.LevelInfo)

	var target *UnspecifiedConfigurationKeyError
	require.ErrorAs(t, err, &target)
	assert.Equal(t, []string{"models"}, target.Keys)
}

func TestNew_NilModel(t *testing.T) {
	_, _, err := build(t, nil, slog.LevelInfo)

	var target *UnspecifiedConfigurationKeyError
	require.ErrorAs(t, err, &target)
}

func TestNew_FitTypeDefaultsToDE(t *testing.T) {
	raw := config.NewModel()
	require.NoError(t, raw.AddModel("models/egfr.bngl", []string{"data/p1.exp"}))

	c, logs, err := build(t, raw, slog.LevelInfo)
	require.NoError(t, err)

	assert.Equal(t, "de", c.Settings.FitType)
	assert.Contains(t, logs, "fit_type was not specified")
}

func TestNew_UnknownFitType(t *testing.T) {
	raw := config.NewModel()
	require.NoError(t, raw.Set("fit_type", cty.StringVal("annealing")))
	require.NoError(t, raw.AddModel("models/egfr.bngl", nil))

	_, _, err := build(t, raw, slog.LevelInfo)

	var target *UnknownFitTypeError
	require.ErrorAs(t, err, &target)
	assert.Equal(t, []string{"bmc", "de", "pso", "sim", "ss"}, target.Known)
}

func TestNew_WarnsAboutUnusedKeys(t *testing.T) {
	testCases := []struct {
		name      string
		refine    int64
		level     slog.Level
		warned    []string
		notWarned []string
	}{
		{
			name:      "simplex and mcmc keys ignored by de",
			refine:    0,
			level:     slog.LevelInfo,
			warned:    []string{"key=simplex_step", "key=burn_in"},
			notWarned: []string{"key=mutation_rate"},
		},
		{
			name:      "refinement keeps simplex keys relevant",
			refine:    1,
			level:     slog.LevelInfo,
			warned:    []string{"key=burn_in"},
			notWarned: []string{"key=simplex_step", "key=mutation_rate"},
		},
		{
			name:      "quiet logger skips the check",
			refine:    0,
			level:     slog.LevelError,
			notWarned: []string{"key=simplex_step", "key=burn_in"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			raw := newRaw(t)
			require.NoError(t, raw.Set("mutation_rate", cty.NumberFloatVal(0.7)))
			require.NoError(t, raw.Set("simplex_step", cty.NumberFloatVal(0.5)))
			require.NoError(t, raw.Set("burn_in", cty.NumberIntVal(100)))
			require.NoError(t, raw.Set("refine", cty.NumberIntVal(tc.refine)))

			_, logs, err := build(t, raw, tc.level)
			require.NoError(t, err)

			for _, w := range tc.warned {
				assert.Contains(t, logs, w)
			}
			for _, w := range tc.notWarned {
				assert.NotContains(t, logs, w)
			}
		})
	}
}

func TestNew_UnmatchedExperimentalData(t *testing.T) {
	raw := config.NewModel()
	require.NoError(t, raw.AddModel("models/egfr.bngl", []string{"data/p1.exp", "data/tc.exp"}))

	_, _, err := build(t, raw, slog.LevelInfo)

	var target *UnmatchedExperimentalDataError
	require.ErrorAs(t, err, &target)
	assert.Equal(t, "egfr", target.Model)
	assert.Equal(t, "tc.exp", target.File)
}

func TestNew_UnknownObjective(t *testing.T) {
	raw := newRaw(t)
	require.NoError(t, raw.Set("objfunc", cty.StringVal("sos")))

	_, _, err := build(t, raw, slog.LevelInfo)

	var target *UnknownObjectiveFunctionError
	require.ErrorAs(t, err, &target)
	assert.Equal(t, "sos", target.Name)
}

func TestNew_ExpDataWithoutModel(t *testing.T) {
	testCases := []struct {
		name  string
		setup func(t *testing.T, raw *config.Model)
	}{
		{
			name: "plain settings",
			setup: func(t *testing.T, raw *config.Model) {
				require.NoError(t, raw.Set(config.KeyModels, cty.TupleVal([]cty.Value{cty.StringVal("models/tlr.bngl")})))
				require.NoError(t, raw.Set(config.KeyExpData, cty.TupleVal([]cty.Value{cty.StringVal("data/tc.exp")})))
			},
		},
		{
			name: "extra file next to a model block",
			setup: func(t *testing.T, raw *config.Model) {
				require.NoError(t, raw.AddModel("models/tlr.bngl", []string{"data/tc.exp"}))
				raw.Settings[config.KeyExpData] = cty.TupleVal([]cty.Value{cty.StringVal("data/tc.exp"), cty.StringVal("data/p1.exp")})
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			raw := config.NewModel()
			tc.setup(t, raw)

			_, _, err := build(t, raw, slog.LevelInfo)

			var target *UnmatchedExperimentalDataError
			require.ErrorAs(t, err, &target)
			assert.Empty(t, target.Model)
			assert.Contains(t, err.Error(), "not attached to any model")
		})
	}
}

func TestNew_ObjectiveRejectsData(t *testing.T) {
	raw := config.NewModel()
	require.NoError(t, raw.AddModel("models/bare.bngl", []string{"data/nosd.exp"}))

	_, _, err := build(t, raw, slog.LevelInfo, WithModelLoader(fakeModels{
		"models/bare.bngl": {
			name:     "bare",
			path:     "models/bare.bngl",
			suffixes: []bngl.Suffix{{Action: "simulate", Prefix: "nosd"}},
		},
	}))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "B_SD")
}

func TestNew_ModelLoadFailure(t *testing.T) {
	raw := config.NewModel()
	require.NoError(t, raw.AddModel("models/missing.bngl", nil))

	_, _, err := build(t, raw, slog.LevelInfo)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load model models/missing.bngl")
}

func TestNew_SettingsMerge(t *testing.T) {
	raw := newRaw(t)
	require.NoError(t, raw.Set("population_size", cty.StringVal("40")))
	require.NoError(t, raw.Set("credible_intervals", cty.TupleVal([]cty.Value{cty.NumberIntVal(50), cty.NumberIntVal(90)})))
	require.NoError(t, raw.Set("custom_key", cty.StringVal("kept")))

	c, _, err := build(t, raw, slog.LevelInfo, WithGetenv(func(k string) string {
		if k == "BNGPATH" {
			return "/opt/bng"
		}
		return ""
	}))
	require.NoError(t, err)

	s := c.Settings
	assert.Equal(t, 40, s.PopulationSize)
	assert.Equal(t, []float64{50, 90}, s.CredibleIntervals)
	assert.Equal(t, "/opt/bng/BNG2.pl", s.BNGCommand)
	assert.Equal(t, 0.5, s.MutationRate)
	assert.True(t, s.Extra["custom_key"].RawEquals(cty.StringVal("kept")))
	assert.True(t, s.IsSet("population_size"))
	assert.False(t, s.IsSet("mutation_rate"))
}

func TestNew_SettingError(t *testing.T) {
	raw := newRaw(t)
	require.NoError(t, raw.Set("islands", cty.NumberFloatVal(1.5)))

	_, _, err := build(t, raw, slog.LevelInfo)

	var target *SettingError
	require.ErrorAs(t, err, &target)
	assert.Equal(t, "islands", target.Key)
}

func TestNew_InitialSets(t *testing.T) {
	raw := newRaw(t)
	raw.AddVariable(&config.VariableDef{Kind: pset.KindLogUniform, Name: "k2", Values: []float64{0.01, 100}})

	c, _, err := build(t, raw, slog.LevelInfo)
	require.NoError(t, err)

	sets, err := c.InitialSets(8, rand.New(rand.NewPCG(7, 11)))
	require.NoError(t, err)
	require.Len(t, sets, 8)
	for _, s := range sets {
		assert.Equal(t, []string{"k1", "k2"}, s.Names())
	}
}

func TestExpFilePrefix(t *testing.T) {
	assert.Equal(t, "p1", ExpFilePrefix("data/p1.exp"))
	assert.Equal(t, "p1", ExpFilePrefix("p1.exp"))
	assert.Equal(t, "expression", ExpFilePrefix("data/expression.exp"))
	assert.Equal(t, "raw", ExpFilePrefix("raw"))
}
