package encode

import (
	"errors"
	"fmt"
)

var ErrEncoding = errors.New("encoding error")

// ScopeError reports a scope key that does not address a value.  Its message
// carries the "[Error]" prefix shown to users in place of output.
type ScopeError struct {
	Key string
	Err error
}

func (e *ScopeError) Error() string {
	return fmt.Sprintf("[Error] invalid key %s: %v", e.Key, e.Err)
}

func (e *ScopeError) Unwrap() error {
	return e.Err
}
