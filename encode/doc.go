// Package encode renders IR nodes as indented text.
//
// # Usage
//
//	// Plain output, fields sorted by name
//	err := encode.Encode(node, os.Stdout)
//
//	// JSON output annotated from a schema, as written on save
//	err := encode.Encode(node, w,
//	    encode.EncodeMode(encode.JSONMode),
//	    encode.EncodeSchema(s.Root),
//	    encode.EncodeDefaults(defaults),
//	    encode.EncodeTags(encode.AllTags),
//	    encode.EncodeEndMarker(true))
//
//	// One line JSON
//	s := encode.MustString(node, encode.EncodeWire(true))
//
// # Modes
//
// PlainMode writes unquoted keys and leaves format and enum typed values bare.
// JSONMode writes valid JSON, or JWCC when comment tags are selected.
//
// # Tags
//
// The tag mask selects annotations.  TopLevelComment writes a `//` block
// describing each top level field before it.  DefaultComment comments out top
// level fields which still hold their schema default, writing `%default` in
// place of the value.
//
// # Related Packages
//
//   - github.com/signadot/confdoc/ir - IR representation
//   - github.com/signadot/confdoc/schema - field descriptors
package encode
