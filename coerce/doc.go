// Package coerce converts JSON scalar nodes to schema declared types with
// exact range checking.
//
// Integer coercions parse the node's numeric text as an arbitrary precision
// integer (a string node holding a 0x prefixed literal is read in base 16)
// and accept it iff it fits the declared width:
//
//	int8    -128 .. 127
//	uint8      0 .. 255
//
// Unsigned 64 bit values are returned as [UInt64].
//
// Every coercion returns an error describing the mismatch; the Must
// variants panic with that error instead.
package coerce
