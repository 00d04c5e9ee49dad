package ir

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/signadot/confdoc/ir/kpath"
	"github.com/signadot/confdoc/token"
)

// KPath returns the path key of this node's position in the tree.
//
// Examples:
//   - Root node → ""
//   - Object field "a" → "a"
//   - Array element at index 0 → "[0]"
//   - Mixed "a[0].b" → "a[0].b"
func (node *Node) KPath() string {
	if node.Parent == nil {
		return ""
	}
	switch node.Parent.Type {
	case ObjectType:
		f := node.ParentField
		if token.KPathQuoteField(f) {
			f = token.Quote(f, true)
		}
		prefix := node.Parent.KPath()
		if prefix == "" {
			return f
		}
		return prefix + "." + f
	case ArrayType:
		return node.Parent.KPath() + "[" + strconv.Itoa(node.ParentIndex) + "]"
	default:
		panic("parent but not in container")
	}
}

// Pointer returns the RFC 6901 JSON pointer of this node's position.
func (node *Node) Pointer() string {
	if node.Parent == nil {
		return ""
	}
	switch node.Parent.Type {
	case ObjectType:
		f := strings.ReplaceAll(node.ParentField, "~", "~0")
		f = strings.ReplaceAll(f, "/", "~1")
		return node.Parent.Pointer() + "/" + f
	case ArrayType:
		return node.Parent.Pointer() + "/" + strconv.Itoa(node.ParentIndex)
	default:
		panic("parent but not in container")
	}
}

// GetKPath navigates from node using a path key and returns a clone of the
// addressed node.
func (node *Node) GetKPath(kp string) (*Node, error) {
	p, err := kpath.Parse(kp)
	if err != nil {
		return nil, err
	}
	res, err := node.Lookup(p)
	if err != nil {
		return nil, err
	}
	return res.Clone(), nil
}

// Lookup returns the live node addressed by kp.  A field segment whose name
// is a decimal number addresses an array element when the container is an
// array, so "list.1" and "list[1]" are the same.
func (node *Node) Lookup(kp *kpath.KPath) (*Node, error) {
	res := node
	for ; kp != nil; kp = kp.Next {
		if kp.FieldAll || kp.IndexAll {
			return nil, fmt.Errorf("wildcard %s in lookup", kp.SegmentString())
		}
		next, err := res.Child(kp)
		if err != nil {
			return nil, err
		}
		res = next
	}
	return res, nil
}

// Child resolves a single path segment against node.
func (node *Node) Child(seg *kpath.KPath) (*Node, error) {
	switch node.Type {
	case ObjectType:
		if seg.Field == nil {
			return nil, fmt.Errorf("%w: %s on Object", ErrKind, seg.SegmentString())
		}
		v := Get(node, *seg.Field)
		if v == nil {
			return nil, fmt.Errorf("%w: field %q", ErrNotFound, *seg.Field)
		}
		return v, nil
	case ArrayType:
		i, ok := SegmentIndex(seg)
		if !ok {
			return nil, fmt.Errorf("%w: %s on Array", ErrKind, seg.SegmentString())
		}
		if i < 0 || i >= len(node.Values) {
			return nil, fmt.Errorf("%w: index %d (len %d)", ErrNotFound, i, len(node.Values))
		}
		return node.Values[i], nil
	}
	return nil, fmt.Errorf("%w: %s on %s", ErrKind, seg.SegmentString(), node.Type)
}

// SegmentIndex returns the array index a segment denotes, accepting numeric
// field segments.  Negative numbers are returned as is for the caller to
// reject.
func SegmentIndex(seg *kpath.KPath) (int, bool) {
	if seg.Index != nil {
		return *seg.Index, true
	}
	if seg.Field == nil {
		return 0, false
	}
	i, err := strconv.Atoi(*seg.Field)
	if err != nil {
		return 0, false
	}
	return i, true
}
