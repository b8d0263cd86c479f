package hcl_adapter

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/fitconf/internal/config"
	"github.com/vk/fitconf/internal/ctxlog"
	"github.com/vk/fitconf/internal/fsutil"
	"github.com/vk/fitconf/internal/pset"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

var _ config.Loader = (*Loader)(nil)

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every given file, and every .hcl file beneath every given
// directory, into one raw model. Declarations keep their source order.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.ExpandPaths(paths, ".hcl")
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.New("no .hcl configuration files found")
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	model := config.NewModel()
	parser := hclparse.NewParser()

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}
		if err := l.decodeBody(ctx, hclFile.Body, model); err != nil {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, err)
		}
	}

	logger.Debug("HCL loading complete.", "settings", len(model.Order), "models", len(model.ModelData), "variables", len(model.Variables))
	return model, nil
}

// declaration is a top-level block or attribute, positioned in its file.
type declaration struct {
	offset int
	block  *hcl.Block
	attr   *hcl.Attribute
}

func (l *Loader) decodeBody(ctx context.Context, body hcl.Body, model *config.Model) error {
	schema := fileSchema()
	if syn, ok := body.(*hclsyntax.Body); ok {
		for name := range syn.Attributes {
			schema.Attributes = append(schema.Attributes, hcl.AttributeSchema{Name: name})
		}
	}
	content, diags := body.Content(schema)
	if diags.HasErrors() {
		return diags
	}

	decls := make([]declaration, 0, len(content.Blocks)+len(content.Attributes))
	for _, b := range content.Blocks {
		decls = append(decls, declaration{offset: b.DefRange.Start.Byte, block: b})
	}
	for _, a := range content.Attributes {
		decls = append(decls, declaration{offset: a.Range.Start.Byte, attr: a})
	}
	slices.SortFunc(decls, func(a, b declaration) int { return a.offset - b.offset })

	for _, d := range decls {
		var err error
		switch {
		case d.attr != nil:
			err = l.translateSetting(ctx, d.attr, model)
		case d.block.Type == blockModel:
			err = l.translateModel(d.block, model)
		default:
			err = l.translateVariable(d.block, model)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) translateSetting(ctx context.Context, attr *hcl.Attribute, model *config.Model) error {
	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return fmt.Errorf("invalid value for %s: %w", attr.Name, diags)
	}
	if err := model.Set(attr.Name, val); err != nil {
		return fmt.Errorf("%s: %w", attr.NameRange, err)
	}
	ctxlog.FromContext(ctx).Debug("Setting read.", "key", attr.Name, "hcl_range", attr.Range.String())
	return nil
}

func (l *Loader) translateModel(block *hcl.Block, model *config.Model) error {
	var mb modelBlock
	if diags := gohcl.DecodeBody(block.Body, nil, &mb); diags.HasErrors() {
		return diags
	}
	if err := model.AddModel(block.Labels[0], mb.ExpData); err != nil {
		return fmt.Errorf("%s: %w", block.DefRange, err)
	}
	return nil
}

func (l *Loader) translateVariable(block *hcl.Block, model *config.Model) error {
	kind, err := pset.ParseKind(block.Type)
	if err != nil {
		return fmt.Errorf("%s: %w", block.DefRange, err)
	}
	var vb variableBlock
	if diags := gohcl.DecodeBody(block.Body, nil, &vb); diags.HasErrors() {
		return diags
	}
	model.AddVariable(&config.VariableDef{
		Kind:   kind,
		Name:   block.Labels[0],
		Values: vb.Values,
		Source: block.DefRange.String(),
	})
	return nil
}
