package encode

import (
	"fmt"

	"github.com/signadot/confdoc/schema"
)

type Mode int

const (
	PlainMode Mode = iota
	JSONMode
)

func (m Mode) String() string {
	switch m {
	case PlainMode:
		return "plain"
	case JSONMode:
		return "json"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

func ParseMode(s string) (Mode, error) {
	switch s {
	case "plain", "PLAIN":
		return PlainMode, nil
	case "json", "JSON":
		return JSONMode, nil
	}
	return PlainMode, fmt.Errorf("unknown mode %q", s)
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(d []byte) error {
	v, err := ParseMode(string(d))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Tag bits.
const (
	AllTags         = -1
	DefaultComment  = 1 << 7
	TopLevelComment = 1 << 8
)

type EncodeOption func(*EncState)

func EncodeMode(m Mode) EncodeOption {
	return func(es *EncState) { es.mode = m }
}

// ModeFromOpts extracts the mode from encode options.
func ModeFromOpts(opts ...EncodeOption) Mode {
	es := &EncState{}
	for _, opt := range opts {
		opt(es)
	}
	return es.mode
}

func EncodeTags(mask int) EncodeOption {
	return func(es *EncState) { es.tags = mask }
}

// EncodeScope restricts output to the subtree at the kpath key.
func EncodeScope(key string) EncodeOption {
	return func(es *EncState) { es.scope = key }
}

func EncodeSchema(s *schema.Struct) EncodeOption {
	return func(es *EncState) { es.schema = s }
}

func EncodeDefaults(d schema.Defaults) EncodeOption {
	return func(es *EncState) { es.defaults = d }
}

func EncodeEndMarker(v bool) EncodeOption {
	return func(es *EncState) { es.endMarker = v }
}

// EncodeRaw writes strings between double quotes without escaping.
func EncodeRaw(v bool) EncodeOption {
	return func(es *EncState) { es.raw = v }
}

func EncodeColors(c *Colors) EncodeOption {
	return func(es *EncState) {
		if c == nil {
			es.Color = nil
			return
		}
		es.Color = c.Color
	}
}

// EncodeWire writes compact single line JSON, ignoring schema and tags.
func EncodeWire(v bool) EncodeOption {
	return func(es *EncState) { es.wire = v }
}
