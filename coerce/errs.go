package coerce

import (
	"errors"
	"fmt"
)

var (
	ErrNotNullable = errors.New("declared type is not nullable")
	ErrOutOfRange  = errors.New("out of range")
	ErrWrongKind   = errors.New("wrong kind")
	ErrNotInteger  = errors.New("not an integer")
)

// Error reports a failed coercion of Node (its JSON text) to Kind.
type Error struct {
	Kind   Kind
	Node   string
	Reason error
}

func (e *Error) Error() string {
	return fmt.Sprintf("cannot coerce %s to %s: %v", e.Node, e.Kind, e.Reason)
}

func (e *Error) Unwrap() error {
	return e.Reason
}
