// Package token provides the quoting rules shared by path keys and the
// pretty printer.
//
// [Quote] produces a JSON compatible double quoted string (or a single quoted
// one when that needs fewer escapes and the caller allows it).
// [QuotedToString] reverses either form.
//
// [KPathQuoteField] reports whether an object field name must be quoted to
// appear as a segment of a path key.
package token
