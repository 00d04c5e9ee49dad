package ir

import (
	"errors"
)

var (
	errInternal = errors.New("internal error")

	ErrNotFound = errors.New("not found")
	ErrKind     = errors.New("wrong node kind")
)
