package schema

import (
	"github.com/signadot/confdoc/ir"
)

// Sample builds a document from the %sample and %default values of the
// root fields.  A field with a sample takes it; otherwise a field with a
// default takes the default and is reported in Defaults; a field with
// neither is null.
func (s *Schema) Sample() (*ir.Node, Defaults) {
	defaults := Defaults{}
	kvs := make([]ir.KeyVal, 0, len(s.Root.Fields))
	for _, f := range s.Root.Fields {
		var v *ir.Node
		switch {
		case f.Sample != nil:
			v = f.Sample.Clone()
		case f.Default != nil:
			v = f.Default.Clone()
			defaults[f.Name] = true
		default:
			v = ir.Null()
		}
		kvs = append(kvs, ir.KeyVal{Key: f.Name, Val: v})
	}
	return ir.FromKeyVals(kvs), defaults
}
