package kpath

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/signadot/confdoc/token"
)

var ErrSyntax = errors.New("path key syntax")

// KPath is one segment of a path key, linked to the rest of the key through
// Next.  Exactly one of Field, FieldAll, Index, IndexAll is set.
type KPath struct {
	Field    *string // Object field name
	FieldAll bool    // Object field wildcard .*
	Index    *int    // Array index
	IndexAll bool    // Array wildcard [*]
	Next     *KPath  // Next segment, nil for the last one
}

// Field returns a single field segment.
func Field(name string) *KPath {
	return &KPath{Field: &name}
}

// Index returns a single index segment.
func Index(i int) *KPath {
	return &KPath{Index: &i}
}

// String returns the path key representation of p.
//
//	KPath{Field: &"a", Next: &KPath{Index: &0}} → "a[0]"
func (p *KPath) String() string {
	if p == nil {
		return ""
	}
	buf := bytes.NewBuffer(nil)
	for x := p; x != nil; x = x.Next {
		switch {
		case x.FieldAll:
			if buf.Len() > 0 {
				buf.WriteByte('.')
			}
			buf.WriteString("*")
		case x.Field != nil:
			if buf.Len() > 0 {
				buf.WriteByte('.')
			}
			buf.WriteString(quoteField(*x.Field))
		case x.IndexAll:
			buf.WriteString("[*]")
		case x.Index != nil:
			fmt.Fprintf(buf, "[%d]", *x.Index)
		}
	}
	return buf.String()
}

// SegmentString returns the representation of the first segment of p only.
func (p *KPath) SegmentString() string {
	if p == nil {
		return ""
	}
	switch {
	case p.FieldAll:
		return "*"
	case p.Field != nil:
		return quoteField(*p.Field)
	case p.IndexAll:
		return "[*]"
	case p.Index != nil:
		return "[" + strconv.Itoa(*p.Index) + "]"
	}
	return ""
}

func quoteField(f string) string {
	if token.KPathQuoteField(f) {
		return token.Quote(f, true)
	}
	return f
}

// Len returns the number of segments.
func (p *KPath) Len() int {
	n := 0
	for x := p; x != nil; x = x.Next {
		n++
	}
	return n
}

// Last returns the last segment.
func (p *KPath) Last() *KPath {
	if p == nil {
		return nil
	}
	x := p
	for x.Next != nil {
		x = x.Next
	}
	return x
}

// HasWildcard reports whether any segment of p is a wildcard.
func (p *KPath) HasWildcard() bool {
	for x := p; x != nil; x = x.Next {
		if x.FieldAll || x.IndexAll {
			return true
		}
	}
	return false
}

// Append returns a copy of p followed by a copy of q.
func (p *KPath) Append(q *KPath) *KPath {
	var head, tail *KPath
	for _, src := range []*KPath{p, q} {
		for x := src; x != nil; x = x.Next {
			seg := x.copySegment()
			if head == nil {
				head = seg
			} else {
				tail.Next = seg
			}
			tail = seg
		}
	}
	return head
}

// Parent returns a copy of all segments except the last, or nil.
func (p *KPath) Parent() *KPath {
	if p == nil || p.Next == nil {
		return nil
	}
	head := p.copySegment()
	cur := head
	for x := p.Next; x.Next != nil; x = x.Next {
		cur.Next = x.copySegment()
		cur = cur.Next
	}
	return head
}

func (p *KPath) copySegment() *KPath {
	res := &KPath{FieldAll: p.FieldAll, IndexAll: p.IndexAll}
	if p.Field != nil {
		f := *p.Field
		res.Field = &f
	}
	if p.Index != nil {
		i := *p.Index
		res.Index = &i
	}
	return res
}

// Compare orders paths segment by segment; fields sort before indices.
func (p *KPath) Compare(other *KPath) int {
	pa, pb := p, other
	for pa != nil && pb != nil {
		if c := compareSegment(pa, pb); c != 0 {
			return c
		}
		pa, pb = pa.Next, pb.Next
	}
	switch {
	case pa == nil && pb == nil:
		return 0
	case pa == nil:
		return -1
	}
	return 1
}

func segmentRank(s *KPath) int {
	switch {
	case s.Field != nil:
		return 0
	case s.FieldAll:
		return 1
	case s.Index != nil:
		return 2
	}
	return 3
}

func compareSegment(a, b *KPath) int {
	ra, rb := segmentRank(a), segmentRank(b)
	if ra != rb {
		return ra - rb
	}
	switch ra {
	case 0:
		return strings.Compare(*a.Field, *b.Field)
	case 2:
		return *a.Index - *b.Index
	}
	return 0
}

// Parse parses a path key.  The empty key parses to nil, the root.
//
//	"a.b.c"       three field segments
//	"list[0]"     field then index
//	"list.0"      two field segments
//	"'a b'.c"     quoted field then field
func Parse(kpath string) (*KPath, error) {
	if kpath == "" {
		return nil, nil
	}
	root := &KPath{}
	if err := parseKFrag(kpath, root, true); err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrSyntax, kpath, err)
	}
	return root, nil
}

func parseKFrag(frag string, parent *KPath, first bool) error {
	switch frag[0] {
	case '.':
		if len(frag) > 1 && frag[1] == '*' {
			parent.FieldAll = true
			return parseRest(frag[2:], parent)
		}
		field, rest, err := parseKField(frag[1:])
		if err != nil {
			return err
		}
		parent.Field = &field
		return parseRest(rest, parent)
	case '[':
		i := strings.IndexByte(frag[1:], ']')
		if i == -1 {
			return fmt.Errorf("expected '[' <index> ']'")
		}
		index, all, err := parseKIndex(frag[1 : i+1])
		if err != nil {
			return err
		}
		parent.IndexAll = all
		if !all {
			parent.Index = &index
		}
		return parseRest(frag[i+2:], parent)
	case '*':
		if !first {
			return fmt.Errorf("expected '.' or '[' before '*'")
		}
		parent.FieldAll = true
		return parseRest(frag[1:], parent)
	default:
		if !first {
			return fmt.Errorf("expected '.' or '[', got %q", frag[0])
		}
		field, rest, err := parseKField(frag)
		if err != nil {
			return err
		}
		parent.Field = &field
		return parseRest(rest, parent)
	}
}

func parseRest(rest string, parent *KPath) error {
	if len(rest) == 0 {
		return nil
	}
	next := &KPath{}
	if err := parseKFrag(rest, next, false); err != nil {
		return err
	}
	parent.Next = next
	return nil
}

// parseKIndex parses "0", "42" or "*".
func parseKIndex(is string) (index int, all bool, err error) {
	if is == "*" {
		return 0, true, nil
	}
	u64, err := strconv.ParseUint(is, 10, 31)
	if err != nil {
		return 0, false, fmt.Errorf("invalid array index %q", is)
	}
	return int(u64), false, nil
}

// parseKField parses an object field name, stopping at '.' or '['.
func parseKField(frag string) (field, rest string, err error) {
	if len(frag) == 0 {
		return "", "", fmt.Errorf("expected field at end of key")
	}
	if frag[0] == '\'' || frag[0] == '"' {
		n, err := token.QuotedLen([]byte(frag))
		if err != nil {
			return "", "", fmt.Errorf("invalid quoted field: %w", err)
		}
		field, err := token.Unquote(frag[:n])
		if err != nil {
			return "", "", fmt.Errorf("invalid quoted field: %w", err)
		}
		return field, frag[n:], nil
	}
	i := strings.IndexAny(frag, ".[")
	switch i {
	case -1:
		return frag, "", nil
	case 0:
		return "", "", fmt.Errorf("empty field")
	}
	return frag[:i], frag[i:], nil
}

func (kp *KPath) MarshalText() ([]byte, error) {
	return []byte(kp.String()), nil
}

func (kp *KPath) UnmarshalText(d []byte) error {
	pp, err := Parse(string(d))
	if err != nil {
		return err
	}
	if pp == nil {
		*kp = KPath{}
		return nil
	}
	*kp = *pp
	return nil
}
