// Package kpath parses and prints path keys addressing a node in a document.
//
// Path keys encode the kind of container in the syntax:
//   - .field or a leading field - object field access
//   - [index] - array element
//   - .* / [*] - wildcards, parsed so that callers can reject them
//
// Fields that need it may be quoted with single or double quotes:
//
//	servers[0].'listen addr'
//
// A numeric field segment such as list.0 parses as a field; navigation in
// package ir treats it as an index when the container is an array.
package kpath
