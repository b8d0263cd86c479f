package hcl_adapter

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/vk/fitconf/internal/pset"
)

// blockModel declares one model file and the experimental data fitted to it.
const blockModel = "model"

// modelBlock is the body of a `model "<path>" { ... }` block.
type modelBlock struct {
	ExpData []string `hcl:"exp_data,optional"`
}

// variableBlock is the body of a variable block such as
// `uniform_var "k1" { values = [0, 10] }`.
type variableBlock struct {
	Values []float64 `hcl:"values"`
}

// fileSchema lists the block types a configuration file may contain. Setting
// attributes are open-ended and get added per body before decoding.
func fileSchema() *hcl.BodySchema {
	schema := &hcl.BodySchema{
		Blocks: []hcl.BlockHeaderSchema{
			{Type: blockModel, LabelNames: []string{"path"}},
		},
	}
	for _, k := range pset.Kinds() {
		schema.Blocks = append(schema.Blocks, hcl.BlockHeaderSchema{
			Type:       string(k),
			LabelNames: []string{"name"},
		})
	}
	return schema
}
