package guard

import (
	"context"
	"sort"

	"github.com/signadot/confdoc/ir"
	"github.com/signadot/confdoc/schema"
)

// Checks is the Guard made from the "%check" descriptors of a schema.
type Checks struct {
	rules map[*schema.Field]*Rule
}

// CompileChecks compiles every "%check" in s.
func CompileChecks(s *schema.Schema) (*Checks, error) {
	res := &Checks{rules: map[*schema.Field]*Rule{}}
	structs := []*schema.Struct{s.Root}
	names := make([]string, 0, len(s.Structs))
	for name := range s.Structs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		structs = append(structs, s.Structs[name])
	}
	for _, st := range structs {
		for _, f := range st.Fields {
			if f.Check == "" || res.rules[f] != nil {
				continue
			}
			r, err := Compile(st.Name+"."+f.Name, f.Check)
			if err != nil {
				return nil, err
			}
			res.rules[f] = r
		}
	}
	return res, nil
}

// Len returns the number of compiled rules.
func (ch *Checks) Len() int {
	return len(ch.rules)
}

// Rule returns the rule declared on f, or nil.
func (ch *Checks) Rule(f *schema.Field) *Rule {
	return ch.rules[f]
}

func (ch *Checks) Check(ctx context.Context, c *Change) error {
	r := ch.rules[c.Field]
	if r == nil {
		return nil
	}
	return r.Check(ctx, c)
}

// Verify runs the rules against the values already in tree, which conforms
// to root.  Rule keys are the paths of the checked values.
func (ch *Checks) Verify(root *schema.Struct, tree *ir.Node) error {
	return ch.verifyStruct(root, tree, tree)
}

func (ch *Checks) verify(t *schema.Type, n, doc *ir.Node) error {
	switch {
	case t.Kind == schema.StructKind && n.Type == ir.ObjectType:
		return ch.verifyStruct(t.Struct, n, doc)
	case t.Kind == schema.ArrayKind && n.Type == ir.ArrayType:
		for _, v := range n.Values {
			if err := ch.verify(t.Elem, v, doc); err != nil {
				return err
			}
		}
	}
	return nil
}

func (ch *Checks) verifyStruct(st *schema.Struct, n, doc *ir.Node) error {
	for _, f := range st.Fields {
		v := ir.Get(n, f.Name)
		if v == nil {
			continue
		}
		if r := ch.rules[f]; r != nil {
			ok, err := r.Eval(v.KPath(), v, doc)
			if err != nil {
				return err
			}
			if !ok {
				return Reject(r.Name, "%s: %s", v.KPath(), r.Source)
			}
		}
		if err := ch.verify(f.Type, v, doc); err != nil {
			return err
		}
	}
	return nil
}
