package ir

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
)

type Node struct {
	Type        Type
	Parent      *Node
	ParentIndex int
	ParentField string
	Fields      []*Node
	Values      []*Node

	String  string
	Bool    bool
	Number  string
	Float64 *float64
	Int64   *int64
}

// Clone returns a deep copy of y detached from y's parent.
func (y *Node) Clone() *Node {
	res := y.CloneTo(&Node{})
	res.Parent = nil
	return res
}

func (y *Node) CloneTo(dst *Node) *Node {
	dst.Parent = y.Parent
	dst.ParentIndex = y.ParentIndex
	dst.ParentField = y.ParentField
	dst.Type = y.Type
	dst.Values = nil
	dst.Fields = nil
	if y.Values != nil {
		dst.Values = make([]*Node, len(y.Values))
	}
	if y.Fields != nil {
		dst.Fields = make([]*Node, len(y.Fields))
	}
	for i, yv := range y.Values {
		dstI := yv.CloneTo(&Node{})
		dstI.Parent = dst
		dstI.ParentIndex = i
		dst.Values[i] = dstI
	}
	for i, yf := range y.Fields {
		dstI := yf.CloneTo(&Node{})
		dstI.Parent = dst
		dstI.ParentIndex = i
		dst.Fields[i] = dstI
	}
	dst.String = y.String
	dst.Number = y.Number
	dst.Float64 = nil
	dst.Int64 = nil
	if y.Float64 != nil {
		f := *y.Float64
		dst.Float64 = &f
	}
	if y.Int64 != nil {
		i := *y.Int64
		dst.Int64 = &i
	}
	dst.Bool = y.Bool
	return dst
}

func FromString(v string) *Node {
	return &Node{
		Type:   StringType,
		String: v,
	}
}

func FromInt(v int64) *Node {
	return &Node{
		Type:   NumberType,
		Number: strconv.FormatInt(v, 10),
		Int64:  &v,
	}
}

func FromUint(v uint64) *Node {
	return FromNumber(strconv.FormatUint(v, 10))
}

func FromFloat(f float64) *Node {
	return &Node{
		Type:    NumberType,
		Number:  strconv.FormatFloat(f, 'g', -1, 64),
		Float64: &f,
	}
}

// FromNumber creates a number node from its textual form, keeping the text
// and filling Int64 or Float64 when the text is representable.
func FromNumber(text string) *Node {
	res := &Node{Type: NumberType, Number: text}
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		res.Int64 = &i
		return res
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		res.Float64 = &f
	}
	return res
}

func FromBool(v bool) *Node {
	return &Node{
		Type: BoolType,
		Bool: v,
	}
}

func Null() *Node {
	return &Node{Type: NullType}
}

// IsNullOrEmpty reports whether y is missing, null or an empty container.
func IsNullOrEmpty(y *Node) bool {
	if y == nil || y.Type == NullType {
		return true
	}
	return len(y.Values) == 0
}

// FromMap creates an object node with the map's keys in sorted order.
func FromMap(yMap map[string]*Node) *Node {
	keys := slices.Sorted(maps.Keys(yMap))
	kvs := make([]KeyVal, len(keys))
	for i, key := range keys {
		kvs[i] = KeyVal{Key: key, Val: yMap[key]}
	}
	return FromKeyVals(kvs)
}

type KeyVal struct {
	Key string
	Val *Node
}

// FromKeyVals creates an object node keeping the order of kvs.
func FromKeyVals(kvs []KeyVal) *Node {
	res := &Node{
		Type:   ObjectType,
		Fields: make([]*Node, 0, len(kvs)),
		Values: make([]*Node, 0, len(kvs)),
	}
	for _, kv := range kvs {
		res.Set(kv.Key, kv.Val)
	}
	return res
}

func FromSlice(ySlice []*Node) *Node {
	res := &Node{
		Type:   ArrayType,
		Values: make([]*Node, len(ySlice)),
	}
	for i, y := range ySlice {
		res.Values[i] = y
		y.Parent = res
		y.ParentIndex = i
		y.ParentField = ""
	}
	return res
}

// Get returns the value of field in object y, or nil.
func Get(y *Node, field string) *Node {
	i := y.FieldIndex(field)
	if i == -1 {
		return nil
	}
	return y.Values[i]
}

// FieldIndex returns the position of field in object y, or -1.
func (y *Node) FieldIndex(field string) int {
	for i, f := range y.Fields {
		if f.String == field {
			return i
		}
	}
	return -1
}

// Set sets field of object y to v, replacing an existing value or appending
// a new field.
func (y *Node) Set(field string, v *Node) {
	if y.Type != ObjectType {
		panic(fmt.Sprintf("%v: Set on %s", errInternal, y.Type))
	}
	i := y.FieldIndex(field)
	if i != -1 {
		y.setValue(i, v)
		return
	}
	i = len(y.Fields)
	y.Fields = append(y.Fields, &Node{
		Type:        StringType,
		String:      field,
		Parent:      y,
		ParentIndex: i,
		ParentField: field,
	})
	y.Values = append(y.Values, nil)
	y.setValue(i, v)
}

func (y *Node) setValue(i int, v *Node) {
	v.Parent = y
	v.ParentIndex = i
	v.ParentField = ""
	if y.Type == ObjectType {
		v.ParentField = y.Fields[i].String
	}
	y.Values[i] = v
}

// Delete removes field from object y, reporting whether it was present.
func (y *Node) Delete(field string) bool {
	i := y.FieldIndex(field)
	if i == -1 {
		return false
	}
	y.Values[i].Parent = nil
	y.Fields = slices.Delete(y.Fields, i, i+1)
	y.Values = slices.Delete(y.Values, i, i+1)
	for j := i; j < len(y.Fields); j++ {
		y.Fields[j].ParentIndex = j
		y.setValue(j, y.Values[j])
	}
	return true
}

// Replace puts v in the place y occupies in its parent.  It panics if y has
// no parent.
func (y *Node) Replace(v *Node) {
	p := y.Parent
	if p == nil {
		panic(fmt.Sprintf("%v: Replace on root", errInternal))
	}
	p.setValue(y.ParentIndex, v)
	y.Parent = nil
}

// Insert inserts v into array y at index i, 0 <= i <= len(y.Values).  A
// null y becomes an empty array first.
func (y *Node) Insert(i int, v *Node) error {
	if y.Type == NullType {
		y.Type = ArrayType
	}
	if y.Type != ArrayType {
		return fmt.Errorf("%w: insert into %s", ErrKind, y.Type)
	}
	if i < 0 || i > len(y.Values) {
		return fmt.Errorf("%w: index %d (len %d)", ErrNotFound, i, len(y.Values))
	}
	y.Values = slices.Insert(y.Values, i, v)
	y.reindex(i)
	return nil
}

// Remove removes and returns the element of array y at index i.
func (y *Node) Remove(i int) (*Node, error) {
	if y.Type != ArrayType {
		return nil, fmt.Errorf("%w: remove from %s", ErrKind, y.Type)
	}
	if i < 0 || i >= len(y.Values) {
		return nil, fmt.Errorf("%w: index %d (len %d)", ErrNotFound, i, len(y.Values))
	}
	res := y.Values[i]
	y.Values = slices.Delete(y.Values, i, i+1)
	y.reindex(i)
	res.Parent = nil
	return res, nil
}

func (y *Node) reindex(from int) {
	for i := from; i < len(y.Values); i++ {
		y.setValue(i, y.Values[i])
	}
}
