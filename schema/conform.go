package schema

import (
	"fmt"
	"strconv"

	"github.com/signadot/confdoc/coerce"
	"github.com/signadot/confdoc/ir"
)

// Conform checks a document against the root struct.  Fields absent from
// tree are set to their defaults and reported in the returned Defaults; an
// absent field without a default is an error.  The end marker key is
// removed.
func (s *Schema) Conform(tree *ir.Node) (Defaults, error) {
	if tree.Type != ir.ObjectType {
		return nil, fmt.Errorf("%w: document must be an object, got %s", ErrType, tree.Type)
	}
	defaults := Defaults{}
	if err := s.Root.conform(tree, "", defaults); err != nil {
		return nil, err
	}
	return defaults, nil
}

// Conform checks n against t, filling absent struct fields which have
// defaults.
func (t *Type) Conform(n *ir.Node) error {
	return t.conform(n, "")
}

func typeErrorf(path, format string, args ...any) error {
	if path == "" {
		path = "value"
	}
	return fmt.Errorf("%w: %s: %s", ErrType, path, fmt.Sprintf(format, args...))
}

func joinPath(path, field string) string {
	if path == "" {
		return field
	}
	return path + "." + field
}

func (t *Type) conform(n *ir.Node, path string) error {
	switch t.Kind {
	case ArrayKind:
		switch n.Type {
		case ir.NullType:
			return nil
		case ir.ArrayType:
			for i, v := range n.Values {
				if err := t.Elem.conform(v, path+"["+strconv.Itoa(i)+"]"); err != nil {
					return err
				}
			}
			return nil
		}
		return typeErrorf(path, "value of an array field must be null or an array, got %s", n.Type)
	case StructKind:
		switch n.Type {
		case ir.NullType:
			return nil
		case ir.ObjectType:
			return t.Struct.conform(n, path, nil)
		}
		return typeErrorf(path, "value of a struct field must be null or an object, got %s", n.Type)
	case EnumKind:
		if n.Type != ir.StringType || !t.Enum.Has(n.String) {
			return typeErrorf(path, "not a valid item of enum %s", t.Name)
		}
		return nil
	case FormatKind:
		if n.Type != ir.StringType {
			return typeErrorf(path, "%s values must be strings, got %s", t.Name, n.Type)
		}
		if err := t.Format.Check(n.String); err != nil {
			return typeErrorf(path, "%v", err)
		}
		return nil
	case ScalarKind:
		if _, err := coerce.ToValue(n, t.Scalar); err != nil {
			if path == "" {
				path = "value"
			}
			return fmt.Errorf("%w: %s: %w", ErrType, path, err)
		}
		return nil
	}
	return typeErrorf(path, "unknown type %s", t)
}

func (s *Struct) conform(n *ir.Node, path string, defaults Defaults) error {
	n.Delete(EndMarker)
	for _, kn := range n.Fields {
		if s.Field(kn.String) == nil {
			return fmt.Errorf("%w %q in %s", ErrUndeclared, joinPath(path, kn.String), s.Name)
		}
	}
	for _, f := range s.Fields {
		v := ir.Get(n, f.Name)
		if v == nil {
			if f.Default == nil {
				return fmt.Errorf("%w %q: type %s does not define a default", ErrMissing, joinPath(path, f.Name), s.Name)
			}
			d := f.Default.Clone()
			if err := f.Type.conform(d, joinPath(path, f.Name)); err != nil {
				return err
			}
			n.Set(f.Name, d)
			if defaults != nil {
				defaults[f.Name] = true
			}
			continue
		}
		if err := f.Type.conform(v, joinPath(path, f.Name)); err != nil {
			return err
		}
	}
	return nil
}
