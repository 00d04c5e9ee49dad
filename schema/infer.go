package schema

import (
	"github.com/signadot/confdoc/coerce"
	"github.com/signadot/confdoc/ir"
)

// Infer derives a permissive schema from a document: every field is settable
// and typed after its current value.  Nulls are inferred as strings; arrays
// take their element type from their elements, or string when empty.
func Infer(name string, tree *ir.Node) (*Schema, error) {
	if tree.Type != ir.ObjectType {
		return nil, schemaErrorf("cannot infer a schema from %s", tree.Type)
	}
	return FromNode(name, inferStruct(tree))
}

func inferStruct(obj *ir.Node) *ir.Node {
	kvs := make([]ir.KeyVal, 0, len(obj.Fields))
	for i, kn := range obj.Fields {
		if kn.String == EndMarker {
			continue
		}
		kvs = append(kvs, ir.KeyVal{
			Key: kn.String,
			Val: ir.FromKeyVals([]ir.KeyVal{
				{Key: keyType, Val: inferType(obj.Values[i])},
				{Key: keySettable, Val: ir.FromBool(true)},
			}),
		})
	}
	return ir.FromKeyVals(kvs)
}

func inferType(n *ir.Node) *ir.Node {
	switch n.Type {
	case ir.BoolType:
		return ir.FromString("bool")
	case ir.NumberType:
		return ir.FromString(numberType(n))
	case ir.ObjectType:
		return inferStruct(n)
	case ir.ArrayType:
		return ir.FromSlice([]*ir.Node{inferElem(n.Values)})
	}
	return ir.FromString("string")
}

func numberType(n *ir.Node) string {
	switch {
	case n.Int64 != nil:
		return "int64"
	case n.Float64 == nil:
		return "float"
	}
	// integral text beyond int64
	if _, err := coerce.ParseUInt64(n.Number); err == nil {
		return "uint64"
	}
	return "float"
}

func inferElem(elts []*ir.Node) *ir.Node {
	if len(elts) == 0 {
		return ir.FromString("string")
	}
	first := inferType(elts[0])
	if first.Type == ir.ObjectType {
		return first
	}
	for _, e := range elts[1:] {
		t := inferType(e)
		if t.Type != ir.StringType || t.String == first.String {
			continue
		}
		if isNumeric(t.String) && isNumeric(first.String) {
			return ir.FromString("float")
		}
	}
	return first
}

func isNumeric(t string) bool {
	switch t {
	case "int64", "uint64", "float":
		return true
	}
	return false
}
