package schema

import (
	"fmt"

	"github.com/goccy/go-yaml"

	"github.com/signadot/confdoc/ir"
)

// LoadYAML parses a schema written in YAML.  The descriptor keys are the
// same as for JSON; they must be quoted since % is reserved in YAML.
func LoadYAML(name string, d []byte) (*Schema, error) {
	var v any
	if err := yaml.UnmarshalWithOptions(d, &v, yaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSchema, err)
	}
	tree, err := fromYAML(v)
	if err != nil {
		return nil, err
	}
	return FromNode(name, tree)
}

func fromYAML(v any) (*ir.Node, error) {
	switch x := v.(type) {
	case nil:
		return ir.Null(), nil
	case bool:
		return ir.FromBool(x), nil
	case string:
		return ir.FromString(x), nil
	case int:
		return ir.FromInt(int64(x)), nil
	case int64:
		return ir.FromInt(x), nil
	case uint64:
		return ir.FromUint(x), nil
	case float64:
		return ir.FromFloat(x), nil
	case []any:
		elts := make([]*ir.Node, len(x))
		for i, e := range x {
			n, err := fromYAML(e)
			if err != nil {
				return nil, err
			}
			elts[i] = n
		}
		return ir.FromSlice(elts), nil
	case yaml.MapSlice:
		kvs := make([]ir.KeyVal, 0, len(x))
		for _, item := range x {
			n, err := fromYAML(item.Value)
			if err != nil {
				return nil, err
			}
			kvs = append(kvs, ir.KeyVal{Key: fmt.Sprint(item.Key), Val: n})
		}
		return ir.FromKeyVals(kvs), nil
	case map[string]any:
		m := make(map[string]*ir.Node, len(x))
		for k, e := range x {
			n, err := fromYAML(e)
			if err != nil {
				return nil, err
			}
			m[k] = n
		}
		return ir.FromMap(m), nil
	}
	return nil, fmt.Errorf("%w: unsupported YAML value %T", ErrSchema, v)
}
