package schema

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/signadot/confdoc/ir"
	"github.com/signadot/confdoc/parse"
)

const (
	keyType     = "%type"
	keyDesc     = "%desc"
	keyDefault  = "%default"
	keySample   = "%sample"
	keySettable = "%settable"
	keyCheck    = "%check"

	// EndMarker is the key written last in saved documents and ignored on load.
	EndMarker = "%end%"
)

var (
	descriptorKeys = map[string]bool{
		keyType:     true,
		keyDesc:     true,
		keyDefault:  true,
		keySample:   true,
		keySettable: true,
		keyCheck:    true,
	}
	reservedFields = map[string]bool{
		"_revision_": true,
	}
	identRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// Load parses a JSON schema.  Comments and trailing commas are allowed.
func Load(name string, d []byte) (*Schema, error) {
	tree, err := parse.Parse(d, parse.ParseJWCC())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSchema, err)
	}
	return FromNode(name, tree)
}

// FromNode builds a schema from its descriptor tree.
func FromNode(name string, tree *ir.Node) (*Schema, error) {
	if tree.Type != ir.ObjectType {
		return nil, schemaErrorf("schema must be an object, got %s", tree.Type)
	}
	l := &loader{
		enums:   map[string]*Enum{},
		structs: map[string]*Struct{},
	}
	if err := l.registerStruct(name, tree, "", false); err != nil {
		return nil, err
	}
	if err := l.link(); err != nil {
		return nil, err
	}
	res := &Schema{
		Name:    name,
		Root:    l.structs[name],
		Enums:   l.enums,
		Structs: l.structs,
		Source:  tree.Clone(),
	}
	if err := res.checkValues(); err != nil {
		return nil, err
	}
	return res, nil
}

type loader struct {
	enums   map[string]*Enum
	structs map[string]*Struct
	refs    []*Type
}

func (l *loader) registerEnum(name string, body *ir.Node) error {
	if body.Type != ir.ArrayType || len(body.Values) == 0 {
		return schemaErrorf("enum %s must be a non-empty array", name)
	}
	if _, ok := l.enums[name]; ok {
		return schemaErrorf("enum %s has already been defined", name)
	}
	e := &Enum{Name: name}
	for _, v := range body.Values {
		if v.Type != ir.StringType {
			return schemaErrorf("enum %s must be an array of strings", name)
		}
		e.Values = append(e.Values, v.String)
	}
	l.enums[name] = e
	return nil
}

func (l *loader) registerStruct(name string, body *ir.Node, super string, abstract bool) error {
	if body.Type != ir.ObjectType {
		return schemaErrorf("struct body must be an object, which is not for %s", name)
	}
	if _, ok := l.structs[name]; ok {
		return schemaErrorf("struct %s has already been defined", name)
	}
	s := &Struct{Name: name, byName: map[string]*Field{}, super: super, abs: abstract}
	l.structs[name] = s
	for i, kn := range body.Fields {
		key, val := kn.String, body.Values[i]
		if key != strings.TrimSpace(key) {
			return schemaErrorf("key %q starts or ends with a whitespace", key)
		}
		switch {
		case strings.HasPrefix(key, "%enum "):
			parts := strings.Fields(key)
			if len(parts) != 2 {
				return schemaErrorf("enum definition must be of the form \"%%enum <name>\", got %q", key)
			}
			if err := checkIdent(parts[1]); err != nil {
				return err
			}
			if err := l.registerEnum(parts[1], val); err != nil {
				return err
			}
		case strings.HasPrefix(key, "%struct "):
			parts := strings.Fields(key)
			if len(parts) < 2 {
				return schemaErrorf("bad struct definition %q", key)
			}
			if err := checkIdent(parts[1]); err != nil {
				return err
			}
			var err error
			switch {
			case len(parts) == 2:
				err = l.registerStruct(parts[1], val, "", false)
			case len(parts) == 3 && parts[2] == "abstract":
				err = l.registerStruct(parts[1], val, "", true)
			case len(parts) == 4 && parts[2] == "extends":
				err = l.registerStruct(parts[1], val, parts[3], false)
			default:
				err = schemaErrorf("struct definition must be of the form \"%%struct <name> [abstract | extends <super>]\", got %q", key)
			}
			if err != nil {
				return err
			}
		default:
			if reservedFields[key] {
				return schemaErrorf("%s cannot be a field name because it is internally used", key)
			}
			if err := checkIdent(key); err != nil {
				return err
			}
			f, err := l.field(key, val, name)
			if err != nil {
				return err
			}
			s.add(f)
		}
	}
	return nil
}

func checkIdent(s string) error {
	if !identRE.MatchString(s) {
		return schemaErrorf("%q is not a valid identifier", s)
	}
	return nil
}

func (l *loader) field(name string, desc *ir.Node, scope string) (*Field, error) {
	if desc.Type != ir.ObjectType {
		return nil, schemaErrorf("field descriptor of %s must be an object", name)
	}
	for _, k := range desc.Fields {
		if !descriptorKeys[k.String] {
			return nil, schemaErrorf("field descriptor of %s has invalid key %q", name, k.String)
		}
	}
	f := &Field{Name: name, Desc: "..."}
	ty := ir.Get(desc, keyType)
	if ty == nil {
		return nil, schemaErrorf("field descriptor of %s must have a %s", name, keyType)
	}
	t, err := l.typ(ty, scope+"__"+name)
	if err != nil {
		return nil, err
	}
	f.Type = t
	if d := ir.Get(desc, keyDesc); d != nil {
		switch {
		case d.Type == ir.StringType && strings.TrimSpace(d.String) != "":
			f.Desc = d.String
		case d.Type == ir.StringType, d.Type == ir.NullType:
		default:
			return nil, schemaErrorf("invalid description of %s", name)
		}
	}
	if d := ir.Get(desc, keyDefault); d != nil {
		f.Default = d.Clone()
	}
	if d := ir.Get(desc, keySample); d != nil {
		f.Sample = d.Clone()
	}
	if d := ir.Get(desc, keySettable); d != nil {
		if d.Type != ir.BoolType {
			return nil, schemaErrorf("value of %s must be boolean for %s", keySettable, name)
		}
		f.Settable = d.Bool
	}
	if d := ir.Get(desc, keyCheck); d != nil {
		if d.Type != ir.StringType {
			return nil, schemaErrorf("value of %s must be a string for %s", keyCheck, name)
		}
		f.Check = d.String
	}
	return f, nil
}

// typ parses a %type value.  Inline structs are registered as scope.
func (l *loader) typ(ty *ir.Node, scope string) (*Type, error) {
	switch ty.Type {
	case ir.StringType:
		t := &Type{Name: ty.String}
		l.refs = append(l.refs, t)
		return t, nil
	case ir.ObjectType:
		if err := l.registerStruct(scope, ty, "", false); err != nil {
			return nil, err
		}
		t := &Type{Name: scope}
		l.refs = append(l.refs, t)
		return t, nil
	case ir.ArrayType:
		if len(ty.Values) != 1 {
			return nil, schemaErrorf("array type must have exactly one element for %s", scope)
		}
		elt := ty.Values[0]
		if elt.Type == ir.ArrayType {
			return nil, schemaErrorf("array element type must be a name or a struct for %s", scope)
		}
		et, err := l.typ(elt, scope+"_elem")
		if err != nil {
			return nil, err
		}
		return &Type{Kind: ArrayKind, Elem: et}, nil
	}
	return nil, schemaErrorf("invalid type %s for %s", ty.Type, scope)
}

// link merges super structs, drops abstract ones and resolves type names.
func (l *loader) link() error {
	done := map[string]bool{}
	for name := range l.structs {
		if err := l.inherit(name, done, map[string]bool{}); err != nil {
			return err
		}
	}
	for name, s := range l.structs {
		if s.abs {
			delete(l.structs, name)
		}
	}
	for name := range l.enums {
		if builtin(name) != nil {
			return schemaErrorf("enum %s has the name of a built-in type", name)
		}
		if _, ok := l.structs[name]; ok {
			return schemaErrorf("%s is declared as both an enum and a struct", name)
		}
	}
	for name := range l.structs {
		if builtin(name) != nil {
			return schemaErrorf("struct %s has the name of a built-in type", name)
		}
	}
	for _, t := range l.refs {
		if b := builtin(t.Name); b != nil {
			*t = *b
			continue
		}
		if e, ok := l.enums[t.Name]; ok {
			t.Kind = EnumKind
			t.Enum = e
			continue
		}
		if s, ok := l.structs[t.Name]; ok {
			t.Kind = StructKind
			t.Struct = s
			continue
		}
		return schemaErrorf("undefined type %s", t.Name)
	}
	return nil
}

func (l *loader) inherit(name string, done, visiting map[string]bool) error {
	if done[name] {
		return nil
	}
	if visiting[name] {
		return schemaErrorf("struct %s extends itself", name)
	}
	visiting[name] = true
	s := l.structs[name]
	if s.super != "" {
		sup, ok := l.structs[s.super]
		if !ok {
			return schemaErrorf("struct %s extends undefined %s", name, s.super)
		}
		if err := l.inherit(s.super, done, visiting); err != nil {
			return err
		}
		for _, f := range sup.Fields {
			if s.Field(f.Name) != nil {
				return schemaErrorf("struct %s has a field %s that is also declared in its super", name, f.Name)
			}
			s.add(f)
		}
	}
	done[name] = true
	return nil
}

// checkValues type checks every default and sample.
func (s *Schema) checkValues() error {
	for _, st := range s.Structs {
		for _, f := range st.Fields {
			if f.Default != nil {
				if err := f.Type.Conform(f.Default.Clone()); err != nil {
					return fmt.Errorf("%w: default of %s.%s: %w", ErrSchema, st.Name, f.Name, err)
				}
			}
			if f.Sample != nil {
				if err := f.Type.Conform(f.Sample.Clone()); err != nil {
					return fmt.Errorf("%w: sample of %s.%s: %w", ErrSchema, st.Name, f.Name, err)
				}
			}
		}
	}
	return nil
}
