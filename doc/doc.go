// Package doc holds schema governed documents and the protocol for
// mutating them.
//
// A Document pairs a JSON tree with its schema and a revision counter.
// Reads return copies.  Mutations go through Apply, which checks a Request
// in a fixed order and reports a closed set of outcomes as a Code:
//
//  1. request format: the key must parse and must not hold wildcards
//  2. revision: the request must name the current revision
//  3. path resolution against the tree and the schema
//  4. shape and type of the new value
//  5. vetoes: application guards and "%check" rules, then command guards
//  6. commit: unless CheckOnly, apply, bump the revision, record the
//     change in the journal and save when asked
//
// The first failing step decides the outcome.  Apply never returns an
// error and never panics; internal failures are reported as Unreachable.
//
// # Usage
//
//	d, err := doc.New(tree, s, doc.WithStore(st, "app"))
//	res := d.Update(ctx, d.Revision(), "server.port", "8080", doc.Save())
//	if err := res.Err(); err != nil {
//	    ...
//	}
package doc
