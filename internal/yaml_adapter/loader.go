// Package yaml_adapter reads fit configurations written in YAML.
//
// Top-level keys become settings, except for two list-valued keys:
//
//	model:
//	  - path: models/egfr.bngl
//	    exp_data: [data/p1.exp]
//	variables:
//	  - {kind: uniform_var, name: k1, values: [0, 10]}
package yaml_adapter

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/vk/fitconf/internal/config"
	"github.com/vk/fitconf/internal/ctxlog"
	"github.com/vk/fitconf/internal/fsutil"
	"github.com/vk/fitconf/internal/pset"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"
)

const (
	keyModel     = "model"
	keyVariables = "variables"
)

type modelEntry struct {
	Path    string   `yaml:"path"`
	ExpData []string `yaml:"exp_data"`
}

type variableEntry struct {
	Kind   string    `yaml:"kind"`
	Name   string    `yaml:"name"`
	Values []float64 `yaml:"values"`
}

// Loader is the YAML implementation of the config.Loader interface.
type Loader struct{}

var _ config.Loader = (*Loader)(nil)

// NewLoader creates a new YAML configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads every given file, and every .yaml or .yml file beneath every
// given directory, into one raw model. Keys keep their document order.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("YAML loader started.", "path_count", len(paths))

	files, err := fsutil.ExpandPaths(paths, ".yaml", ".yml")
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.New("no .yaml configuration files found")
	}

	model := config.NewModel()
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read YAML file %s: %w", file, err)
		}
		var doc yaml.Node
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse YAML file %s: %w", file, err)
		}
		if err := decodeDocument(file, &doc, model); err != nil {
			return nil, fmt.Errorf("failed to decode YAML file %s: %w", file, err)
		}
	}

	logger.Debug("YAML loading complete.", "settings", len(model.Order), "models", len(model.ModelData), "variables", len(model.Variables))
	return model, nil
}

func decodeDocument(file string, doc *yaml.Node, model *config.Model) error {
	// An empty file parses to a zero node.
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: top level must be a mapping", root.Line)
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		var err error
		switch key.Value {
		case keyModel:
			err = decodeModels(val, model)
		case keyVariables:
			err = decodeVariables(file, val, model)
		default:
			var v cty.Value
			if v, err = toCty(val); err == nil {
				err = model.Set(key.Value, v)
			}
		}
		if err != nil {
			return fmt.Errorf("line %d: %s: %w", key.Line, key.Value, err)
		}
	}
	return nil
}

func decodeModels(node *yaml.Node, model *config.Model) error {
	var entries []modelEntry
	if err := node.Decode(&entries); err != nil {
		return err
	}
	for _, e := range entries {
		if e.Path == "" {
			return errors.New("model entry without a path")
		}
		if err := model.AddModel(e.Path, e.ExpData); err != nil {
			return err
		}
	}
	return nil
}

func decodeVariables(file string, node *yaml.Node, model *config.Model) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: expected a list of variables", node.Line)
	}
	for _, item := range node.Content {
		var e variableEntry
		if err := item.Decode(&e); err != nil {
			return err
		}
		kind, err := pset.ParseKind(e.Kind)
		if err != nil {
			return fmt.Errorf("line %d: %w", item.Line, err)
		}
		if e.Name == "" {
			return fmt.Errorf("line %d: variable without a name", item.Line)
		}
		model.AddVariable(&config.VariableDef{
			Kind:   kind,
			Name:   e.Name,
			Values: e.Values,
			Source: fmt.Sprintf("%s:%d", file, item.Line),
		})
	}
	return nil
}
