package coerce

import "fmt"

// Kind is a schema declared scalar type.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindFloat64
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUInt8
	KindUInt16
	KindUInt32
	KindUInt64
	KindString
)

var kindNames = []string{
	KindNull:    "null",
	KindBool:    "bool",
	KindFloat64: "float",
	KindInt8:    "int8",
	KindInt16:   "int16",
	KindInt32:   "int32",
	KindInt64:   "int64",
	KindUInt8:   "uint8",
	KindUInt16:  "uint16",
	KindUInt32:  "uint32",
	KindUInt64:  "uint64",
	KindString:  "string",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "<unknown kind>"
	}
	return kindNames[k]
}

// ParseKind maps a schema type name to its Kind.
func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), nil
		}
	}
	return KindNull, fmt.Errorf("unknown kind %q", s)
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(d []byte) error {
	kk, err := ParseKind(string(d))
	if err != nil {
		return err
	}
	*k = kk
	return nil
}

// IsInteger reports whether k is one of the fixed width integer kinds.
func (k Kind) IsInteger() bool {
	return k >= KindInt8 && k <= KindUInt64
}

// width returns the bit width and signedness of an integer kind.
func (k Kind) width() (bits int, signed bool) {
	switch k {
	case KindInt8:
		return 8, true
	case KindInt16:
		return 16, true
	case KindInt32:
		return 32, true
	case KindInt64:
		return 64, true
	case KindUInt8:
		return 8, false
	case KindUInt16:
		return 16, false
	case KindUInt32:
		return 32, false
	case KindUInt64:
		return 64, false
	}
	return 0, false
}
