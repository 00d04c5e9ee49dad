package doc

import (
	"github.com/signadot/confdoc/ir"
	"github.com/signadot/confdoc/ir/kpath"
	"github.com/signadot/confdoc/schema"
)

// target is where a key leads.
type target struct {
	node *ir.Node
	typ  *schema.Type

	// field declares node, or the array holding node when elem is set.
	field     *schema.Field
	fieldNode *ir.Node
	elem      bool
}

func where(n *ir.Node) string {
	if k := n.KPath(); k != "" {
		return k
	}
	return "the document"
}

// resolve walks kp through the tree and the schema together.
func (d *Document) resolve(kp *kpath.KPath) (*target, Result) {
	t := &target{
		node: d.tree,
		typ:  &schema.Type{Kind: schema.StructKind, Name: d.schema.Root.Name, Struct: d.schema.Root},
	}
	for seg := kp; seg != nil; seg = seg.Next {
		cur := t.node
		switch cur.Type {
		case ir.NullType:
			return nil, fail(DerefNull, "cannot get %s of %s, which is null", seg.SegmentString(), where(cur))
		case ir.ObjectType:
			if t.typ.Kind != schema.StructKind {
				return nil, fail(Unreachable, "object at %s declared %s", where(cur), t.typ)
			}
			if seg.Field == nil {
				return nil, fail(NoSuchField, "cannot index %s of type %s with %s", where(cur), t.typ, seg.SegmentString())
			}
			f := t.typ.Struct.Field(*seg.Field)
			if f == nil {
				return nil, fail(NoSuchField, "no field %s in %s of type %s", seg.SegmentString(), where(cur), t.typ)
			}
			v := ir.Get(cur, f.Name)
			if v == nil {
				return nil, fail(Unreachable, "declared field %s missing from %s", f.Name, where(cur))
			}
			t.node, t.typ = v, f.Type
			t.field, t.fieldNode, t.elem = f, v, false
		case ir.ArrayType:
			i, ok := ir.SegmentIndex(seg)
			if !ok || i < 0 {
				return nil, fail(BadIndex, "invalid index %s into array %s", seg.SegmentString(), where(cur))
			}
			if i >= len(cur.Values) {
				return nil, fail(IndexOutOfRange, "index %d out of range for array %s of length %d", i, where(cur), len(cur.Values))
			}
			if t.typ.Kind != schema.ArrayKind {
				return nil, fail(Unreachable, "array at %s declared %s", where(cur), t.typ)
			}
			t.node, t.typ = cur.Values[i], t.typ.Elem
			t.elem = true
		default:
			return nil, fail(DerefPrimitive, "cannot get %s of %s, which is a %s", seg.SegmentString(), where(cur), t.typ)
		}
	}
	return t, Result{}
}

func (t *target) settable() bool {
	return t.field != nil && t.field.Settable
}

func (t *target) notSettable() Result {
	if t.elem {
		return fail(NotSettable, "the array %s is not settable", where(t.fieldNode))
	}
	return fail(NotSettable, "the field %s is not settable", where(t.node))
}
