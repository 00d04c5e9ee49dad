package parse

import (
	"errors"
	"fmt"
)

var (
	errInternal     = errors.New("internal parse error")
	ErrParse        = errors.New("parse error")
	ErrDuplicateKey = fmt.Errorf("%w: duplicate field", ErrParse)
	ErrTrailing     = fmt.Errorf("%w: trailing data", ErrParse)
	ErrEmpty        = fmt.Errorf("%w: empty input", ErrParse)
)
