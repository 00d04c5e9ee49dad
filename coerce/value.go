package coerce

import (
	"fmt"
	"strconv"

	"github.com/signadot/confdoc/ir"
)

// Value is the typed form of a scalar node.  Only the field selected by Kind
// is meaningful: Int for signed kinds, Uint for uint8 to uint32, UInt64 for
// uint64, Str for strings (nil when the string is absent).
type Value struct {
	Kind   Kind
	Bool   bool
	Float  float64
	Int    int64
	Uint   uint64
	UInt64 UInt64
	Str    *string
}

// ToValue coerces n to kind k.
func ToValue(n *ir.Node, k Kind) (Value, error) {
	res := Value{Kind: k}
	var err error
	switch k {
	case KindNull:
		if n.Type != ir.NullType {
			err = fail(k, n, fmt.Errorf("%w: actual kind %s", ErrWrongKind, n.Type))
		}
	case KindBool:
		res.Bool, err = Bool(n)
	case KindFloat64:
		res.Float, err = Float(n)
	case KindInt8, KindInt16, KindInt32, KindInt64:
		bi, e := integer(n, k)
		if e == nil {
			res.Int = bi.Int64()
		}
		err = e
	case KindUInt8, KindUInt16, KindUInt32:
		bi, e := integer(n, k)
		if e == nil {
			res.Uint = bi.Uint64()
		}
		err = e
	case KindUInt64:
		res.UInt64, err = UInt64Of(n)
	case KindString:
		s, ok, e := String(n)
		if ok {
			res.Str = &s
		}
		err = e
	default:
		err = fmt.Errorf("unknown kind %d", k)
	}
	if err != nil {
		return Value{}, err
	}
	return res, nil
}

// Node returns v as a JSON node.
func (v Value) Node() *ir.Node {
	switch v.Kind {
	case KindBool:
		return ir.FromBool(v.Bool)
	case KindFloat64:
		return ir.FromFloat(v.Float)
	case KindInt8, KindInt16, KindInt32, KindInt64:
		return ir.FromInt(v.Int)
	case KindUInt8, KindUInt16, KindUInt32:
		return ir.FromUint(v.Uint)
	case KindUInt64:
		return v.UInt64.Node()
	case KindString:
		if v.Str != nil {
			return ir.FromString(*v.Str)
		}
	}
	return ir.Null()
}

func (v Value) String() string {
	switch v.Kind {
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindFloat64:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case KindInt8, KindInt16, KindInt32, KindInt64:
		return strconv.FormatInt(v.Int, 10)
	case KindUInt8, KindUInt16, KindUInt32:
		return strconv.FormatUint(v.Uint, 10)
	case KindUInt64:
		return v.UInt64.String()
	case KindString:
		if v.Str != nil {
			return *v.Str
		}
	}
	return "null"
}
