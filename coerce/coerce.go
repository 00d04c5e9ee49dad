package coerce

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/signadot/confdoc/ir"
	"github.com/signadot/confdoc/token"
)

func fail(k Kind, n *ir.Node, reason error) error {
	return &Error{Kind: k, Node: nodeText(n), Reason: reason}
}

func nodeText(n *ir.Node) string {
	switch n.Type {
	case ir.NullType:
		return "null"
	case ir.BoolType:
		return strconv.FormatBool(n.Bool)
	case ir.NumberType:
		return numberText(n)
	case ir.StringType:
		return token.Quote(n.String, false)
	}
	return "<" + n.Type.String() + ">"
}

func numberText(n *ir.Node) string {
	switch {
	case n.Number != "":
		return n.Number
	case n.Int64 != nil:
		return strconv.FormatInt(*n.Int64, 10)
	case n.Float64 != nil:
		return strconv.FormatFloat(*n.Float64, 'g', -1, 64)
	}
	return ""
}

// BigInt returns the arbitrary precision integer held by number node n.
// The number text is read in base 16 when it carries a 0x prefix and in
// base 10 otherwise.  Strings are never integers, whatever their content.
func BigInt(n *ir.Node) (*big.Int, error) {
	switch n.Type {
	case ir.NullType:
		return nil, ErrNotNullable
	case ir.NumberType:
	default:
		return nil, fmt.Errorf("%w: actual kind %s", ErrWrongKind, n.Type)
	}
	text := numberText(n)
	base := 10
	sign, digits := "", text
	if t, ok := strings.CutPrefix(digits, "-"); ok {
		sign, digits = "-", t
	}
	if isHex(digits) {
		text = sign + digits[2:]
		base = 16
	}
	res, ok := new(big.Int).SetString(text, base)
	if !ok {
		return nil, ErrNotInteger
	}
	return res, nil
}

func isHex(s string) bool {
	return strings.HasPrefix(s, "0x") && len(s) > 2
}

// bitLen is the minimal two's complement bit length of b excluding the
// sign bit: 127 and -128 both need 7 bits.
func bitLen(b *big.Int) int {
	if b.Sign() >= 0 {
		return b.BitLen()
	}
	m := new(big.Int).Neg(b)
	return m.Sub(m, big.NewInt(1)).BitLen()
}

// fits reports whether b is representable in kind k.
func fits(b *big.Int, k Kind) bool {
	bits, signed := k.width()
	if signed {
		return bitLen(b) < bits
	}
	return b.Sign() >= 0 && b.BitLen() <= bits
}

func integer(n *ir.Node, k Kind) (*big.Int, error) {
	b, err := BigInt(n)
	if err != nil {
		return nil, fail(k, n, err)
	}
	if !fits(b, k) {
		return nil, fail(k, n, fmt.Errorf("%w of the declared type %s", ErrOutOfRange, k))
	}
	return b, nil
}

func Int8(n *ir.Node) (int8, error) {
	b, err := integer(n, KindInt8)
	if err != nil {
		return 0, err
	}
	return int8(b.Int64()), nil
}

func Int16(n *ir.Node) (int16, error) {
	b, err := integer(n, KindInt16)
	if err != nil {
		return 0, err
	}
	return int16(b.Int64()), nil
}

func Int32(n *ir.Node) (int32, error) {
	b, err := integer(n, KindInt32)
	if err != nil {
		return 0, err
	}
	return int32(b.Int64()), nil
}

func Int64(n *ir.Node) (int64, error) {
	b, err := integer(n, KindInt64)
	if err != nil {
		return 0, err
	}
	return b.Int64(), nil
}

func UInt8(n *ir.Node) (uint8, error) {
	b, err := integer(n, KindUInt8)
	if err != nil {
		return 0, err
	}
	return uint8(b.Uint64()), nil
}

func UInt16(n *ir.Node) (uint16, error) {
	b, err := integer(n, KindUInt16)
	if err != nil {
		return 0, err
	}
	return uint16(b.Uint64()), nil
}

func UInt32(n *ir.Node) (uint32, error) {
	b, err := integer(n, KindUInt32)
	if err != nil {
		return 0, err
	}
	return uint32(b.Uint64()), nil
}

// UInt64Of coerces n to the full unsigned 64 bit range.
func UInt64Of(n *ir.Node) (UInt64, error) {
	b, err := integer(n, KindUInt64)
	if err != nil {
		return UInt64{}, err
	}
	return UInt64{v: b.Uint64()}, nil
}

func Bool(n *ir.Node) (bool, error) {
	switch n.Type {
	case ir.NullType:
		return false, fail(KindBool, n, ErrNotNullable)
	case ir.BoolType:
		return n.Bool, nil
	}
	return false, fail(KindBool, n, fmt.Errorf("%w: actual kind %s", ErrWrongKind, n.Type))
}

func Float(n *ir.Node) (float64, error) {
	switch n.Type {
	case ir.NullType:
		return 0, fail(KindFloat64, n, ErrNotNullable)
	case ir.NumberType:
	default:
		return 0, fail(KindFloat64, n, fmt.Errorf("%w: actual kind %s", ErrWrongKind, n.Type))
	}
	switch {
	case n.Float64 != nil:
		return *n.Float64, nil
	case n.Int64 != nil:
		return float64(*n.Int64), nil
	}
	f, err := strconv.ParseFloat(n.Number, 64)
	if err != nil || math.IsInf(f, 0) {
		return 0, fail(KindFloat64, n, ErrOutOfRange)
	}
	return f, nil
}

// String returns the string held by n.  A null node is an absent string:
// ok is false and err is nil.
func String(n *ir.Node) (s string, ok bool, err error) {
	switch n.Type {
	case ir.NullType:
		return "", false, nil
	case ir.StringType:
		return n.String, true, nil
	}
	return "", false, fail(KindString, n, fmt.Errorf("%w: actual kind %s", ErrWrongKind, n.Type))
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func MustInt8(n *ir.Node) int8     { return must(Int8(n)) }
func MustInt16(n *ir.Node) int16   { return must(Int16(n)) }
func MustInt32(n *ir.Node) int32   { return must(Int32(n)) }
func MustInt64(n *ir.Node) int64   { return must(Int64(n)) }
func MustUInt8(n *ir.Node) uint8   { return must(UInt8(n)) }
func MustUInt16(n *ir.Node) uint16 { return must(UInt16(n)) }
func MustUInt32(n *ir.Node) uint32 { return must(UInt32(n)) }
func MustUInt64(n *ir.Node) UInt64 { return must(UInt64Of(n)) }
func MustBool(n *ir.Node) bool     { return must(Bool(n)) }
func MustFloat(n *ir.Node) float64 { return must(Float(n)) }

func MustString(n *ir.Node) (string, bool) {
	s, ok, err := String(n)
	if err != nil {
		panic(err)
	}
	return s, ok
}
