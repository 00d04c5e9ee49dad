// Package store persists serialized documents by name.
//
// Backends:
//
//   - File: one file per document under a root directory, written
//     atomically, optionally zstd compressed
//   - Bolt: a bucket in a bbolt database
//   - Redis: one key per document, announcing saves on a channel
//   - Postgres: one row per document
//   - Memory: a map, for tests and scratch sessions
//
// Retry wraps any of them with exponential backoff.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound = errors.New("document not found")
	ErrName     = errors.New("invalid document name")
)

type Store interface {
	Save(ctx context.Context, name string, data []byte) error
	Load(ctx context.Context, name string) ([]byte, error)
}

func checkName(name string) error {
	switch {
	case name == "", name == ".", name == "..":
		return fmt.Errorf("%w %q", ErrName, name)
	case strings.ContainsAny(name, "/\\\x00"):
		return fmt.Errorf("%w %q", ErrName, name)
	}
	return nil
}

func notFound(name string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, name)
}
