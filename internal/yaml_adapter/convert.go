package yaml_adapter

import (
	"fmt"
	"math"

	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"
)

// toCty converts a YAML node into the cty value HCL would produce for the
// same literal: sequences become tuples and mappings become objects.
func toCty(node *yaml.Node) (cty.Value, error) {
	switch node.Kind {
	case yaml.AliasNode:
		return toCty(node.Alias)
	case yaml.SequenceNode:
		if len(node.Content) == 0 {
			return cty.EmptyTupleVal, nil
		}
		vals := make([]cty.Value, len(node.Content))
		for i, child := range node.Content {
			v, err := toCty(child)
			if err != nil {
				return cty.NilVal, err
			}
			vals[i] = v
		}
		return cty.TupleVal(vals), nil
	case yaml.MappingNode:
		attrs := make(map[string]cty.Value, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			v, err := toCty(node.Content[i+1])
			if err != nil {
				return cty.NilVal, err
			}
			attrs[node.Content[i].Value] = v
		}
		return cty.ObjectVal(attrs), nil
	case yaml.ScalarNode:
		return scalarToCty(node)
	}
	return cty.NilVal, fmt.Errorf("line %d: unsupported YAML node", node.Line)
}

func scalarToCty(node *yaml.Node) (cty.Value, error) {
	var v any
	if err := node.Decode(&v); err != nil {
		return cty.NilVal, err
	}
	switch x := v.(type) {
	case nil:
		return cty.NullVal(cty.DynamicPseudoType), nil
	case bool:
		return cty.BoolVal(x), nil
	case int:
		return cty.NumberIntVal(int64(x)), nil
	case int64:
		return cty.NumberIntVal(x), nil
	case uint64:
		return cty.NumberUIntVal(x), nil
	case float64:
		if math.IsNaN(x) {
			return cty.NilVal, fmt.Errorf("line %d: NaN is not a valid setting value", node.Line)
		}
		return cty.NumberFloatVal(x), nil
	case string:
		return cty.StringVal(x), nil
	}
	return cty.NilVal, fmt.Errorf("line %d: unsupported scalar %q", node.Line, node.Value)
}
