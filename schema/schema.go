package schema

import (
	"sort"

	"github.com/signadot/confdoc/ir"
)

// Schema is a loaded schema.  Root describes the document itself.
type Schema struct {
	Name    string
	Root    *Struct
	Enums   map[string]*Enum
	Structs map[string]*Struct

	// Source is the schema as it was given.
	Source *ir.Node
}

type Struct struct {
	Name   string
	Fields []*Field // sorted by name

	byName map[string]*Field
	super  string
	abs    bool
}

// Field returns the declared field called name, or nil.
func (s *Struct) Field(name string) *Field {
	return s.byName[name]
}

func (s *Struct) add(f *Field) {
	if s.byName == nil {
		s.byName = map[string]*Field{}
	}
	s.byName[f.Name] = f
	s.Fields = append(s.Fields, f)
	sort.Slice(s.Fields, func(i, j int) bool {
		return s.Fields[i].Name < s.Fields[j].Name
	})
}

type Field struct {
	Name     string
	Type     *Type
	Desc     string
	Default  *ir.Node
	Sample   *ir.Node
	Settable bool
	Check    string
}

// HasDefault reports whether the field declares a %default.
func (f *Field) HasDefault() bool {
	return f.Default != nil
}

// Defaults is the set of top level fields whose value was taken from the
// schema default rather than from the document.
type Defaults map[string]bool
