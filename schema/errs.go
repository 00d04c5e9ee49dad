package schema

import (
	"errors"
	"fmt"
)

var (
	// ErrSchema reports a malformed schema.
	ErrSchema = errors.New("schema error")

	// ErrType reports a value which does not conform to its declared type.
	ErrType       = errors.New("type error")
	ErrUndeclared = fmt.Errorf("%w: undeclared field", ErrType)
	ErrMissing    = fmt.Errorf("%w: missing field", ErrType)
)

func schemaErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrSchema, fmt.Sprintf(format, args...))
}
