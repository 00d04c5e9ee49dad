package parse

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"github.com/tailscale/hujson"

	"github.com/signadot/confdoc/ir"
)

// Parse parses a single JSON value.
func Parse(d []byte, opts ...ParseOption) (*ir.Node, error) {
	pOpts := &parseOpts{}
	for _, f := range opts {
		f(pOpts)
	}
	if pOpts.jwcc {
		std, err := Standardize(d)
		if err != nil {
			return nil, err
		}
		d = std
	}
	if len(bytes.TrimSpace(d)) == 0 {
		return nil, ErrEmpty
	}
	if !json.Valid(d) {
		// decode to obtain a message with an offset
		var v any
		if err := json.Unmarshal(d, &v); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParse, err)
		}
		return nil, fmt.Errorf("%w: invalid JSON", ErrParse)
	}
	dec := json.NewDecoder(bytes.NewReader(d))
	dec.UseNumber()
	p := &parser{dec: dec, opts: pOpts}
	res, err := p.value()
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, ErrTrailing
	}
	return res, nil
}

// ParseString is Parse on a string.
func ParseString(s string, opts ...ParseOption) (*ir.Node, error) {
	return Parse([]byte(s), opts...)
}

// Standardize strips comments and trailing commas from JWCC input.
func Standardize(d []byte) ([]byte, error) {
	std, err := hujson.Standardize(bytes.Clone(d))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return std, nil
}

type parser struct {
	dec  *json.Decoder
	opts *parseOpts
}

func (p *parser) token() (json.Token, error) {
	tok, err := p.dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: unexpected end of input", ErrParse)
		}
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return tok, nil
}

func (p *parser) value() (*ir.Node, error) {
	tok, err := p.token()
	if err != nil {
		return nil, err
	}
	return p.fromToken(tok)
}

func (p *parser) fromToken(tok json.Token) (*ir.Node, error) {
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			return p.object()
		case '[':
			return p.array()
		}
		return nil, fmt.Errorf("%w: unexpected %q", ErrParse, rune(v))
	case string:
		return ir.FromString(v), nil
	case bool:
		return ir.FromBool(v), nil
	case json.Number:
		return ir.FromNumber(string(v)), nil
	case float64:
		return ir.FromFloat(v), nil
	case nil:
		return ir.Null(), nil
	}
	return nil, fmt.Errorf("%w: token %T", errInternal, tok)
}

func (p *parser) object() (*ir.Node, error) {
	res := ir.FromKeyVals(nil)
	for {
		tok, err := p.token()
		if err != nil {
			return nil, err
		}
		if d, ok := tok.(json.Delim); ok && d == '}' {
			return res, nil
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: expected field name, got %v", ErrParse, tok)
		}
		if !p.opts.allowDups && res.FieldIndex(key) != -1 {
			return nil, fmt.Errorf("%w %q", ErrDuplicateKey, key)
		}
		val, err := p.value()
		if err != nil {
			return nil, err
		}
		res.Set(key, val)
	}
}

func (p *parser) array() (*ir.Node, error) {
	var elts []*ir.Node
	for {
		tok, err := p.token()
		if err != nil {
			return nil, err
		}
		if d, ok := tok.(json.Delim); ok && d == ']' {
			return ir.FromSlice(elts), nil
		}
		val, err := p.fromToken(tok)
		if err != nil {
			return nil, err
		}
		elts = append(elts, val)
	}
}
