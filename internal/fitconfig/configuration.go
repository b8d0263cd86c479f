package fitconfig

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/vk/fitconf/internal/bngl"
	"github.com/vk/fitconf/internal/config"
	"github.com/vk/fitconf/internal/ctxlog"
	"github.com/vk/fitconf/internal/expdata"
	"github.com/vk/fitconf/internal/objective"
	"github.com/vk/fitconf/internal/pset"
	"github.com/vk/fitconf/internal/registry"
)

// Model is a loaded model as the configuration layer sees it.
type Model interface {
	Name() string
	FilePath() string
	Suffixes() []bngl.Suffix
}

// ModelLoader loads the model stored at path.
type ModelLoader interface {
	LoadModel(ctx context.Context, path string) (Model, error)
}

// ModelLoaderFunc adapts a function to the ModelLoader interface.
type ModelLoaderFunc func(ctx context.Context, path string) (Model, error)

// LoadModel implements ModelLoader.
func (f ModelLoaderFunc) LoadModel(ctx context.Context, path string) (Model, error) {
	return f(ctx, path)
}

// DataLoader loads the experimental dataset stored at path.
type DataLoader interface {
	LoadData(ctx context.Context, path string) (*expdata.Data, error)
}

// ObjectiveResolver builds an objective function from its configuration
// name.
type ObjectiveResolver interface {
	Lookup(name string) (objective.Objective, error)
}

// Option customizes how New reaches its collaborators.
type Option func(*builder)

type builder struct {
	models     ModelLoader
	data       DataLoader
	objectives ObjectiveResolver
	getenv     func(string) string
}

// WithModelLoader replaces the default BNGL model loader.
func WithModelLoader(l ModelLoader) Option {
	return func(b *builder) { b.models = l }
}

// WithDataLoader replaces the default .exp loader.
func WithDataLoader(l DataLoader) Option {
	return func(b *builder) { b.data = l }
}

// WithObjectives replaces the default objective registry.
func WithObjectives(r ObjectiveResolver) Option {
	return func(b *builder) { b.objectives = r }
}

// WithGetenv replaces os.Getenv when resolving environment-derived defaults.
func WithGetenv(getenv func(string) string) Option {
	return func(b *builder) { b.getenv = getenv }
}

// bnglModels adapts the BNGL loader to ModelLoader.
func bnglModels() ModelLoader {
	l := bngl.NewLoader()
	return ModelLoaderFunc(func(ctx context.Context, path string) (Model, error) {
		m, err := l.LoadModel(ctx, path)
		if err != nil {
			return nil, err
		}
		return m, nil
	})
}

// requiredKeys are the settings the user must always supply.
var requiredKeys = []string{config.KeyModels}

// Configuration is a validated fit configuration.
type Configuration struct {
	Settings Settings
	// Models maps model name to the loaded model.
	Models map[string]Model
	// ModelNames lists model names in declaration order.
	ModelNames []string
	// Mapping maps model name to the sorted experimental data prefixes its
	// actions are compared against.
	Mapping map[string][]string
	// ExpData maps an experimental data prefix to the loaded dataset.
	ExpData   map[string]*expdata.Data
	Objective objective.Objective
	// Variables lists variable names in declaration order; Specs is parallel
	// to it.
	Variables []string
	Specs     []VariableSpec
}

// New validates raw and builds a Configuration. It fails fast, before any
// model is simulated, on missing keys, unmatched experimental data, unknown
// objectives and malformed variable declarations.
func New(ctx context.Context, raw *config.Model, opts ...Option) (*Configuration, error) {
	logger := ctxlog.FromContext(ctx)
	b := builder{getenv: os.Getenv}
	for _, opt := range opts {
		opt(&b)
	}
	if b.models == nil {
		b.models = bnglModels()
	}
	if b.data == nil {
		b.data = expdata.NewLoader()
	}
	if b.objectives == nil {
		b.objectives = registry.Default()
	}
	if raw == nil {
		raw = config.NewModel()
	}

	var missing []string
	for _, k := range requiredKeys {
		if !raw.Has(k) {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return nil, &UnspecifiedConfigurationKeyError{Keys: missing}
	}

	if !raw.Has("fit_type") {
		logger.Warn("fit_type was not specified. Defaulting to de (Differential Evolution).")
	}

	settings, err := DefaultSettings(b.getenv).Merge(raw)
	if err != nil {
		return nil, err
	}
	if _, ok := algorithmKeys[settings.FitType]; !ok {
		return nil, &UnknownFitTypeError{FitType: settings.FitType, Known: FitTypes()}
	}
	warnUnusedKeys(ctx, raw, settings)

	c := &Configuration{
		Settings: settings,
		Models:   make(map[string]Model),
		Mapping:  make(map[string][]string),
		ExpData:  make(map[string]*expdata.Data),
	}
	if err := c.loadModels(ctx, b.models); err != nil {
		return nil, err
	}
	if err := c.checkActions(raw); err != nil {
		return nil, err
	}
	if err := c.loadExpData(ctx, b.data); err != nil {
		return nil, err
	}
	if err := c.loadObjective(b.objectives); err != nil {
		return nil, err
	}
	c.Variables, c.Specs, err = loadVariables(raw.Variables, settings)
	if err != nil {
		return nil, err
	}

	logger.Info("Configuration loaded.",
		"fit_type", settings.FitType,
		"models", len(c.Models),
		"datasets", len(c.ExpData),
		"objective", c.Objective.Name(),
		"variables", len(c.Variables),
	)
	return c, nil
}

func (c *Configuration) loadModels(ctx context.Context, loader ModelLoader) error {
	for _, path := range c.Settings.Models {
		m, err := loader.LoadModel(ctx, path)
		if err != nil {
			return fmt.Errorf("failed to load model %s: %w", path, err)
		}
		if prev, dup := c.Models[m.Name()]; dup {
			return fmt.Errorf("models %s and %s share the name %q", prev.FilePath(), path, m.Name())
		}
		c.Models[m.Name()] = m
		c.ModelNames = append(c.ModelNames, m.Name())
	}
	return nil
}

// checkActions builds Mapping, failing when a model lists an experimental
// data file that none of its actions produces output for.
func (c *Configuration) checkActions(raw *config.Model) error {
	for _, name := range c.ModelNames {
		m := c.Models[name]
		suffixes := make(map[string]struct{})
		for _, s := range m.Suffixes() {
			suffixes[s.Prefix] = struct{}{}
		}

		var prefixes []string
		for _, ef := range raw.ModelData[m.FilePath()] {
			prefix := ExpFilePrefix(ef)
			if _, ok := suffixes[prefix]; !ok {
				return &UnmatchedExperimentalDataError{Model: name, File: prefix + ".exp"}
			}
			prefixes = append(prefixes, prefix)
		}
		slices.Sort(prefixes)
		c.Mapping[name] = slices.Compact(prefixes)
	}
	return nil
}

// loadExpData loads every exp_data file. Each one must belong to a model's
// mapping, otherwise nothing would ever be compared against it.
func (c *Configuration) loadExpData(ctx context.Context, loader DataLoader) error {
	claimed := make(map[string]struct{})
	for _, prefixes := range c.Mapping {
		for _, p := range prefixes {
			claimed[p] = struct{}{}
		}
	}
	for _, ef := range c.Settings.ExpData {
		if _, ok := claimed[ExpFilePrefix(ef)]; !ok {
			return &UnmatchedExperimentalDataError{File: ExpFilePrefix(ef) + ".exp"}
		}
		d, err := loader.LoadData(ctx, ef)
		if err != nil {
			return fmt.Errorf("failed to load experimental data %s: %w", ef, err)
		}
		c.ExpData[ExpFilePrefix(ef)] = d
	}
	return nil
}

func (c *Configuration) loadObjective(resolver ObjectiveResolver) error {
	obj, err := resolver.Lookup(c.Settings.Objfunc)
	if err != nil {
		if errors.Is(err, registry.ErrNotRegistered) {
			return &UnknownObjectiveFunctionError{Name: c.Settings.Objfunc, Err: err}
		}
		return fmt.Errorf("failed to resolve objective function %s: %w", c.Settings.Objfunc, err)
	}

	prefixes := make([]string, 0, len(c.ExpData))
	for p := range c.ExpData {
		prefixes = append(prefixes, p)
	}
	slices.Sort(prefixes)
	for _, p := range prefixes {
		if err := obj.CheckData(p, c.ExpData[p]); err != nil {
			return err
		}
	}
	c.Objective = obj
	return nil
}

// Parameters builds one unsampled FreeParameter per variable, in declaration
// order.
func (c *Configuration) Parameters() ([]pset.FreeParameter, error) {
	params := make([]pset.FreeParameter, len(c.Specs))
	for i, spec := range c.Specs {
		p, err := spec.NewParameter()
		if err != nil {
			return nil, err
		}
		params[i] = p
	}
	return params, nil
}

// InitialSets draws n starting points using the configured initialization
// method: "lh" for Latin-hypercube sampling, anything else for independent
// random draws.
func (c *Configuration) InitialSets(n int, src pset.PermSource) ([]pset.ParameterSet, error) {
	params, err := c.Parameters()
	if err != nil {
		return nil, err
	}
	if c.Settings.Initialization == "lh" {
		return pset.LatinHypercube(params, n, src)
	}
	return pset.RandomSets(params, n, src)
}

// ExpFilePrefix is the key an experimental data file is known by: its base
// name with a trailing .exp removed.
func ExpFilePrefix(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ".exp")
}
