package doc

import (
	"fmt"

	"github.com/signadot/confdoc/guard"
	"github.com/signadot/confdoc/ir"
)

type Op int

const (
	Update Op = iota
	Insert
	Remove
)

func (o Op) String() string {
	switch o {
	case Update:
		return "update"
	case Insert:
		return "insert"
	case Remove:
		return "remove"
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

func (o Op) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Op) UnmarshalText(d []byte) error {
	switch string(d) {
	case "update":
		*o = Update
	case "insert":
		*o = Insert
	case "remove":
		*o = Remove
	default:
		return fmt.Errorf("unknown op %q", d)
	}
	return nil
}

func (o Op) guardOp() guard.Op {
	switch o {
	case Insert:
		return guard.OpInsert
	case Remove:
		return guard.OpRemove
	}
	return guard.OpUpdate
}

// Request is a mutation request.  Index is used by Insert and Remove, where
// -1 denotes the end of the array.  Value is JSON text, unused by Remove.
type Request struct {
	Revision  int64
	Key       string
	Op        Op
	Index     int
	Value     string
	CheckOnly bool
	Save      bool
}

// Result is the outcome of a request.  On success Value is the value now at
// the key for Update and Insert (the value that would be there when
// CheckOnly), and the removed element for Remove.
type Result struct {
	Code    Code
	Value   *ir.Node
	Message string
}

// Err returns nil for OK and an *Error otherwise.
func (r Result) Err() error {
	if r.Code == OK {
		return nil
	}
	return &Error{Code: r.Code, Message: r.Message}
}

func (r Result) String() string {
	if r.Code == OK {
		return "OK"
	}
	return "[Error] " + r.Message
}

func fail(code Code, format string, args ...any) Result {
	return Result{Code: code, Message: fmt.Sprintf(format, args...)}
}

// RequestOption sets optional request fields for Update, InsertAt and
// RemoveAt.
type RequestOption func(*Request)

func CheckOnly() RequestOption {
	return func(r *Request) { r.CheckOnly = true }
}

func Save() RequestOption {
	return func(r *Request) { r.Save = true }
}
