package doc

import (
	"fmt"
)

// Code is the outcome of a mutation request.
type Code int

const (
	OK Code = iota
	General
	BadIndex
	DerefNull
	DerefPrimitive
	EmptyArray
	FailedToSave
	IncompatibleVal
	IndexOutOfRange
	JSONParse
	NoSuchField
	NotAnArray
	NotSettable
	Unreachable
	WrongRevision
	InvalidRequestFormat
	RejectedByApp
	RejectedByCmd
)

var codeNames = []string{
	OK:                   "OK",
	General:              "GENERAL",
	BadIndex:             "BAD_INDEX",
	DerefNull:            "DEREF_NULL",
	DerefPrimitive:       "DEREF_PRIMITIVE",
	EmptyArray:           "EMPTY_ARRAY",
	FailedToSave:         "FAILED_TO_SAVE",
	IncompatibleVal:      "INCOMPATIBLE_VAL",
	IndexOutOfRange:      "INDEX_OUT_OF_RANGE",
	JSONParse:            "JSON_PARSE",
	NoSuchField:          "NO_SUCH_FIELD",
	NotAnArray:           "NOT_AN_ARRAY",
	NotSettable:          "NOT_SETTABLE",
	Unreachable:          "UNREACHABLE",
	WrongRevision:        "WRONG_REVISION",
	InvalidRequestFormat: "INVALID_REQUEST_FORMAT",
	RejectedByApp:        "REJECTED_BY_APP",
	RejectedByCmd:        "REJECTED_BY_CMD",
}

// Codes returns all codes in order.
func Codes() []Code {
	res := make([]Code, len(codeNames))
	for i := range res {
		res[i] = Code(i)
	}
	return res
}

func (c Code) String() string {
	if c < 0 || int(c) >= len(codeNames) {
		return fmt.Sprintf("Code(%d)", int(c))
	}
	return codeNames[c]
}

func ParseCode(s string) (Code, error) {
	for i, name := range codeNames {
		if name == s {
			return Code(i), nil
		}
	}
	return 0, fmt.Errorf("unknown code %q", s)
}

func (c Code) MarshalText() ([]byte, error) {
	if c < 0 || int(c) >= len(codeNames) {
		return nil, fmt.Errorf("invalid code %d", int(c))
	}
	return []byte(c.String()), nil
}

func (c *Code) UnmarshalText(d []byte) error {
	v, err := ParseCode(string(d))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Retriable reports whether repeating the failed step may succeed.  Only
// FailedToSave is, through Document.Save.
func (c Code) Retriable() bool {
	return c == FailedToSave
}
