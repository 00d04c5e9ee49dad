// Package guard holds the vetoes consulted before a document mutation is
// committed.
//
// A Guard sees a Change and returns nil to allow it or an error to veto it.
// Rules are guards written as expr-lang boolean expressions over the
// environment
//
//	value  the field value after the change
//	old    the field value before the change
//	elem   the element written or removed (the new value for updates)
//	key    the path key of the change
//	op     "update", "insert" or "remove"
//	doc    the whole document before the change
//	get(k) the value at path key k in doc, or nil
//
// Schema fields may declare a rule in a "%check" descriptor;
// CompileChecks collects them.
package guard
