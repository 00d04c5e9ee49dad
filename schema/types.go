package schema

import (
	"slices"

	"github.com/signadot/confdoc/coerce"
)

// TypeKind classifies a Type.
type TypeKind int

const (
	ScalarKind TypeKind = iota
	FormatKind
	EnumKind
	StructKind
	ArrayKind
)

// Type is a declared type.  Which of the remaining fields is meaningful
// depends on Kind.
type Type struct {
	Kind   TypeKind
	Name   string
	Scalar coerce.Kind
	Format Format
	Enum   *Enum
	Struct *Struct
	Elem   *Type
}

func (t *Type) String() string {
	switch t.Kind {
	case ArrayKind:
		return "[" + t.Elem.String() + "]"
	case EnumKind:
		return "enum " + t.Name
	case StructKind:
		return "struct " + t.Name
	}
	return t.Name
}

// QuotedOnlyInJSON reports whether values of t are written bare in plain
// output and quoted in JSON output.
func (t *Type) QuotedOnlyInJSON() bool {
	return t.Kind == FormatKind || t.Kind == EnumKind
}

type Enum struct {
	Name   string
	Values []string
}

func (e *Enum) Has(v string) bool {
	return slices.Contains(e.Values, v)
}

var scalarTypes = map[string]coerce.Kind{
	"string": coerce.KindString,
	"bool":   coerce.KindBool,
	"float":  coerce.KindFloat64,
	"int8":   coerce.KindInt8,
	"int16":  coerce.KindInt16,
	"int32":  coerce.KindInt32,
	"int64":  coerce.KindInt64,
	"uint8":  coerce.KindUInt8,
	"uint16": coerce.KindUInt16,
	"uint32": coerce.KindUInt32,
	"uint64": coerce.KindUInt64,
}

// builtin returns the built in type named name, or nil.
func builtin(name string) *Type {
	if k, ok := scalarTypes[name]; ok {
		return &Type{Kind: ScalarKind, Name: name, Scalar: k}
	}
	if _, ok := formats[Format(name)]; ok {
		return &Type{Kind: FormatKind, Name: name, Format: Format(name)}
	}
	return nil
}
