// Package ir provides the in-memory tree for JSON documents.
//
// # Node Structure
//
// A Node represents a single JSON value:
//
//   - Atomic types: null, boolean, number, string
//   - Composite types: object (fields and values), array (ordered list)
//
// Each node maintains its parent link, its index within the parent and, for
// object members, the field name, allowing navigation from any node back to
// the root.
//
// The Type field indicates which of the value fields is meaningful:
//
//   - NullType: no value
//   - BoolType: Bool
//   - NumberType: Number holds the source text; Int64 or Float64 is set when
//     the text is representable
//   - StringType: String
//   - ArrayType: Values
//   - ObjectType: Fields (string nodes holding the names) and Values
//
// # Paths
//
// [Node.KPath] returns the path key of a node (see package kpath) and
// [Node.Pointer] its RFC 6901 JSON pointer, which journal patches use.
package ir
