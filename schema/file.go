package schema

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadFile loads the schema at path, in YAML when the extension says so and
// JSON otherwise.  Schemas are registered under their base name without
// extension; a second load of the same name returns the registered schema.
func LoadFile(path string) (*Schema, error) {
	ext := filepath.Ext(path)
	name := strings.TrimSuffix(filepath.Base(path), ext)
	if s := Lookup(name); s != nil {
		return s, nil
	}
	d, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSchema, err)
	}
	var s *Schema
	switch ext {
	case ".yaml", ".yml":
		s, err = LoadYAML(name, d)
	default:
		s, err = Load(name, d)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := Register(s); err != nil {
		if prev := Lookup(name); prev != nil {
			return prev, nil
		}
		return nil, err
	}
	return s, nil
}
