package encode

import (
	"fmt"
	"io"
	"strconv"

	"github.com/signadot/confdoc/ir"
	"github.com/signadot/confdoc/token"
)

// encodeWire writes node as compact JSON, keeping field order.
func encodeWire(node *ir.Node, w io.Writer, es *EncState) error {
	switch node.Type {
	case ir.NullType:
		return writeString(w, "null")
	case ir.BoolType:
		return writeString(w, strconv.FormatBool(node.Bool))
	case ir.NumberType:
		return writeString(w, numberText(node))
	case ir.StringType:
		if es.raw {
			return writeString(w, `"`+node.String+`"`)
		}
		return writeString(w, token.Quote(node.String, false))
	case ir.ArrayType:
		if err := writeString(w, "["); err != nil {
			return err
		}
		for i, v := range node.Values {
			if i > 0 {
				if err := writeString(w, ","); err != nil {
					return err
				}
			}
			if err := encodeWire(v, w, es); err != nil {
				return err
			}
		}
		return writeString(w, "]")
	case ir.ObjectType:
		if err := writeString(w, "{"); err != nil {
			return err
		}
		for i, f := range node.Fields {
			if i > 0 {
				if err := writeString(w, ","); err != nil {
					return err
				}
			}
			if err := writeString(w, token.Quote(f.String, false)+":"); err != nil {
				return err
			}
			if err := encodeWire(node.Values[i], w, es); err != nil {
				return err
			}
		}
		return writeString(w, "}")
	}
	return fmt.Errorf("%w: unknown node type %s", ErrEncoding, node.Type)
}
