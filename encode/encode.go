package encode

import (
	"bytes"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/signadot/confdoc/ir"
	"github.com/signadot/confdoc/ir/kpath"
	"github.com/signadot/confdoc/schema"
	"github.com/signadot/confdoc/token"
)

const descWidth = 73

type EncState struct {
	depth, indent int

	mode      Mode
	tags      int
	scope     string
	schema    *schema.Struct
	defaults  schema.Defaults
	endMarker bool
	raw       bool
	wire      bool

	Color func(ir.Type, ColorAttr, string) string
}

// Encode writes node to w.  Nothing is written if encoding fails.
func Encode(node *ir.Node, w io.Writer, opts ...EncodeOption) error {
	es := &EncState{
		indent: 2,
	}
	for _, opt := range opts {
		opt(es)
	}
	buf := bytes.NewBuffer(nil)
	if es.wire {
		if err := encodeWire(node, buf, es); err != nil {
			return err
		}
		_, err := w.Write(buf.Bytes())
		return err
	}
	var typ *schema.Type
	if es.schema != nil {
		typ = &schema.Type{Kind: schema.StructKind, Name: es.schema.Name, Struct: es.schema}
	}
	top := true
	if es.scope != "" {
		n, t, err := scoped(node, typ, es.scope)
		if err != nil {
			return err
		}
		node, typ, top = n, t, false
	}
	if err := encode(node, typ, top, buf, es); err != nil {
		return err
	}
	if err := writeString(buf, "\n"); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// scoped resolves key against node, following the schema alongside.
func scoped(node *ir.Node, typ *schema.Type, key string) (*ir.Node, *schema.Type, error) {
	kp, err := kpath.Parse(key)
	if err != nil {
		return nil, nil, &ScopeError{Key: key, Err: err}
	}
	if kp.HasWildcard() {
		return nil, nil, &ScopeError{Key: key, Err: fmt.Errorf("%w: wildcard", ErrEncoding)}
	}
	for seg := kp; seg != nil; seg = seg.Next {
		if node.Type == ir.NullType {
			return nil, nil, &ScopeError{Key: key, Err: fmt.Errorf("%w: %s of a null value", ir.ErrNotFound, seg.SegmentString())}
		}
		next, err := node.Child(seg)
		if err != nil {
			return nil, nil, &ScopeError{Key: key, Err: err}
		}
		typ = childType(typ, next)
		node = next
	}
	return node, typ, nil
}

func childType(typ *schema.Type, child *ir.Node) *schema.Type {
	if typ == nil {
		return nil
	}
	switch typ.Kind {
	case schema.StructKind:
		if f := typ.Struct.Field(child.ParentField); f != nil {
			return f.Type
		}
	case schema.ArrayKind:
		return typ.Elem
	}
	return nil
}

func encode(node *ir.Node, typ *schema.Type, top bool, w io.Writer, es *EncState) error {
	switch node.Type {
	case ir.NullType:
		return writeValue(w, es, node.Type, "null")
	case ir.BoolType:
		return writeValue(w, es, node.Type, strconv.FormatBool(node.Bool))
	case ir.NumberType:
		return writeValue(w, es, node.Type, numberText(node))
	case ir.StringType:
		return writeValue(w, es, node.Type, es.stringText(node.String, typ))
	case ir.ArrayType:
		return encodeArray(node, typ, w, es)
	case ir.ObjectType:
		return encodeObject(node, typ, top, w, es)
	}
	return fmt.Errorf("%w: unknown node type %s", ErrEncoding, node.Type)
}

func numberText(node *ir.Node) string {
	switch {
	case node.Number != "":
		return node.Number
	case node.Int64 != nil:
		return strconv.FormatInt(*node.Int64, 10)
	case node.Float64 != nil:
		return strconv.FormatFloat(*node.Float64, 'g', -1, 64)
	}
	return "0"
}

func (es *EncState) stringText(s string, typ *schema.Type) string {
	if es.mode == PlainMode && typ != nil && typ.QuotedOnlyInJSON() {
		return s
	}
	if es.raw {
		return `"` + s + `"`
	}
	return token.Quote(s, false)
}

func encodeArray(node *ir.Node, typ *schema.Type, w io.Writer, es *EncState) error {
	if len(node.Values) == 0 {
		return writeSep(w, es, ir.ArrayType, "[ ]")
	}
	var elemType *schema.Type
	if typ != nil && typ.Kind == schema.ArrayKind {
		elemType = typ.Elem
	}
	if err := writeSep(w, es, ir.ArrayType, "["); err != nil {
		return err
	}
	es.depth++
	for i, v := range node.Values {
		if i > 0 {
			if err := es.writeFieldSep(w, ir.ArrayType); err != nil {
				return err
			}
		} else if err := writeString(w, "\n"); err != nil {
			return err
		}
		if err := es.writeIndent(w); err != nil {
			return err
		}
		if err := encode(v, elemType, false, w, es); err != nil {
			return err
		}
	}
	es.depth--
	if err := writeString(w, "\n"); err != nil {
		return err
	}
	if err := es.writeIndent(w); err != nil {
		return err
	}
	return writeSep(w, es, ir.ArrayType, "]")
}

func encodeObject(node *ir.Node, typ *schema.Type, top bool, w io.Writer, es *EncState) error {
	if len(node.Fields) == 0 {
		return writeSep(w, es, ir.ObjectType, "{ }")
	}
	var st *schema.Struct
	if typ != nil && typ.Kind == schema.StructKind {
		st = typ.Struct
	}
	order := make([]int, len(node.Fields))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(i, j int) int {
		return strings.Compare(node.Fields[i].String, node.Fields[j].String)
	})

	if err := writeSep(w, es, ir.ObjectType, "{"); err != nil {
		return err
	}
	if err := writeString(w, "\n"); err != nil {
		return err
	}
	es.depth++
	for i, j := range order {
		name := node.Fields[j].String
		val := node.Values[j]
		var f *schema.Field
		if st != nil {
			f = st.Field(name)
		}
		if i > 0 {
			if err := es.writeFieldSep(w, ir.ObjectType); err != nil {
				return err
			}
		}
		if top && f != nil && es.tags&TopLevelComment != 0 {
			if err := es.writeFieldComment(w, f); err != nil {
				return err
			}
		}
		if err := es.writeIndent(w); err != nil {
			return err
		}
		defaulted := top && es.tags&DefaultComment != 0 && es.defaults[name]
		if defaulted {
			if err := writeString(w, es.color(ir.ObjectType, CommentColor, "//")); err != nil {
				return err
			}
		}
		if err := es.writeKey(w, name); err != nil {
			return err
		}
		if defaulted {
			if err := writeString(w, es.color(val.Type, TagColor, "%default")); err != nil {
				return err
			}
			continue
		}
		var ft *schema.Type
		if f != nil {
			ft = f.Type
		}
		if err := encode(val, ft, false, w, es); err != nil {
			return err
		}
	}
	if top && es.endMarker {
		if err := es.writeFieldSep(w, ir.ObjectType); err != nil {
			return err
		}
		if err := writeString(w, "\n"); err != nil {
			return err
		}
		if err := es.writeIndent(w); err != nil {
			return err
		}
		if err := es.writeKey(w, schema.EndMarker); err != nil {
			return err
		}
		if err := writeValue(w, es, ir.NullType, "null"); err != nil {
			return err
		}
	}
	es.depth--
	if err := writeString(w, "\n"); err != nil {
		return err
	}
	if err := es.writeIndent(w); err != nil {
		return err
	}
	return writeSep(w, es, ir.ObjectType, "}")
}

func (es *EncState) writeKey(w io.Writer, name string) error {
	key := name
	if es.mode == JSONMode {
		key = token.Quote(name, false)
	}
	if err := writeString(w, es.color(ir.ObjectType, FieldColor, key)); err != nil {
		return err
	}
	if err := writeSep(w, es, ir.ObjectType, ":"); err != nil {
		return err
	}
	return writeString(w, " ")
}

func (es *EncState) writeFieldSep(w io.Writer, t ir.Type) error {
	if es.mode == JSONMode {
		if err := writeSep(w, es, t, ","); err != nil {
			return err
		}
	}
	return writeString(w, "\n")
}

// writeFieldComment writes the block describing f after a blank line.
func (es *EncState) writeFieldComment(w io.Writer, f *schema.Field) error {
	if err := writeString(w, "\n"); err != nil {
		return err
	}
	for _, ln := range FieldComment(f) {
		if err := es.writeIndent(w); err != nil {
			return err
		}
		ln = strings.TrimRight("// "+ln, " ")
		if err := writeString(w, es.color(ir.ObjectType, CommentColor, ln)+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// FieldComment returns the lines describing a field, without comment markers.
func FieldComment(f *schema.Field) []string {
	lines := []string{"field: " + f.Name}
	for _, ln := range wrap(f.Desc, descWidth) {
		lines = append(lines, "  "+ln)
	}
	lines = append(lines, "type: "+f.Type.String())
	if f.Settable {
		lines = append(lines, "settable: yes")
	} else {
		lines = append(lines, "settable: no")
	}
	if f.HasDefault() {
		lines = append(lines, "default: "+MustString(f.Default, EncodeWire(true)))
	} else {
		lines = append(lines, "default: <none>")
	}
	return lines
}

// wrap breaks s into lines of at most width bytes at spaces.  Words longer
// than width get a line of their own.
func wrap(s string, width int) []string {
	var res []string
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			continue
		}
		ln := words[0]
		for _, word := range words[1:] {
			if len(ln)+1+len(word) > width {
				res = append(res, ln)
				ln = word
				continue
			}
			ln += " " + word
		}
		res = append(res, ln)
	}
	return res
}

func (es *EncState) writeIndent(w io.Writer) error {
	return writeString(w, strings.Repeat(" ", es.indent*es.depth))
}

func (es *EncState) color(t ir.Type, a ColorAttr, s string) string {
	if es.Color == nil {
		return s
	}
	return es.Color(t, a, s)
}

func writeValue(w io.Writer, es *EncState, t ir.Type, s string) error {
	return writeString(w, es.color(t, ValueColor, s))
}

func writeSep(w io.Writer, es *EncState, t ir.Type, s string) error {
	return writeString(w, es.color(t, SepColor, s))
}

func writeString(w io.Writer, s string) error {
	_, err := w.Write([]byte(s))
	return err
}
