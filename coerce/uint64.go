package coerce

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math/big"
	"strconv"
	"strings"

	"github.com/signadot/confdoc/ir"
)

// UInt64 is an unsigned 64 bit value.  The zero value is 0; every UInt64 is
// in [0, 2^64-1].
type UInt64 struct {
	v uint64
}

var maxUInt64 = new(big.Int).SetUint64(1<<64 - 1)

// MaxUInt64 is 18446744073709551615.
var MaxUInt64 = UInt64{v: 1<<64 - 1}

// UInt64FromBig returns b as a UInt64, failing outside [0, 2^64-1].
func UInt64FromBig(b *big.Int) (UInt64, error) {
	if b.Sign() < 0 || b.Cmp(maxUInt64) > 0 {
		return UInt64{}, fmt.Errorf("%w: %s of the declared type uint64", ErrOutOfRange, b)
	}
	return UInt64{v: b.Uint64()}, nil
}

// UInt64FromBits reinterprets the 8 bytes of bits as an unsigned big endian
// magnitude, so -1 yields MaxUInt64.
func UInt64FromBits(bits int64) UInt64 {
	return UInt64{v: uint64(bits)}
}

func UInt64FromUint64(v uint64) UInt64 {
	return UInt64{v: v}
}

// ParseUInt64 parses a decimal or 0x prefixed hexadecimal literal.
func ParseUInt64(s string) (UInt64, error) {
	text, base := s, 10
	if isHex(s) {
		text, base = s[2:], 16
	}
	b, ok := new(big.Int).SetString(text, base)
	if !ok {
		return UInt64{}, fmt.Errorf("%w: %q", ErrNotInteger, s)
	}
	return UInt64FromBig(b)
}

func (u UInt64) Big() *big.Int {
	return new(big.Int).SetUint64(u.v)
}

// Bits returns the raw 64 bit pattern.
func (u UInt64) Bits() int64 {
	return int64(u.v)
}

func (u UInt64) Uint64() uint64 {
	return u.v
}

func (u UInt64) Cmp(o UInt64) int {
	switch {
	case u.v < o.v:
		return -1
	case u.v > o.v:
		return 1
	}
	return 0
}

func (u UInt64) Equal(o UInt64) bool {
	return u.v == o.v
}

// Hash is FNV-64a over the big endian bytes of the value.
func (u UInt64) Hash() uint64 {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], u.v)
	h := fnv.New64a()
	h.Write(buf[:])
	return h.Sum64()
}

func (u UInt64) String() string {
	return strconv.FormatUint(u.v, 10)
}

// Node returns u as a number node.
func (u UInt64) Node() *ir.Node {
	return ir.FromUint(u.v)
}

func (u UInt64) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

func (u *UInt64) UnmarshalText(d []byte) error {
	v, err := ParseUInt64(strings.TrimSpace(string(d)))
	if err != nil {
		return err
	}
	*u = v
	return nil
}
