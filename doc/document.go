package doc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"strconv"
	"sync"

	"github.com/signadot/confdoc/debug"
	"github.com/signadot/confdoc/encode"
	"github.com/signadot/confdoc/guard"
	"github.com/signadot/confdoc/ir"
	"github.com/signadot/confdoc/parse"
	"github.com/signadot/confdoc/schema"
	"github.com/signadot/confdoc/store"
)

const defaultName = "document"

var ErrNoStore = errors.New("document has no store")

// Document is a JSON tree conforming to a schema.  It is safe for
// concurrent use.
type Document struct {
	mu       sync.Mutex
	name     string
	tree     *ir.Node
	schema   *schema.Schema
	defaults schema.Defaults
	rev      int64

	base    []byte
	baseRev int64
	journal []Entry

	store  store.Store
	checks *guard.Checks
	app    guard.Chain
	cmd    guard.Chain
	logger *slog.Logger
}

// New makes a document of tree, which it takes ownership of.  Absent fields
// are filled from the schema defaults.  When s is nil a schema is inferred
// from tree.
func New(tree *ir.Node, s *schema.Schema, opts ...Option) (*Document, error) {
	if tree == nil {
		return nil, errors.New("nil document tree")
	}
	d := &Document{tree: tree}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	if d.name == "" {
		d.name = defaultName
	}
	if s == nil {
		var err error
		s, err = schema.Infer(d.name, tree)
		if err != nil {
			return nil, err
		}
	}
	defaults, err := s.Conform(tree)
	if err != nil {
		return nil, fmt.Errorf("document %s: %w", d.name, err)
	}
	checks, err := guard.CompileChecks(s)
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", s.Name, err)
	}
	d.schema = s
	d.defaults = defaults
	d.checks = checks
	d.base = []byte(encode.MustString(tree, encode.EncodeWire(true)))
	d.baseRev = d.rev
	if debug.Load() {
		debug.Logf("loaded %s at revision %d, defaults %v\n", d.name, d.rev, defaults)
	}
	return d, nil
}

// Open loads the document called name from st.  The stored text may carry
// comments as written by Save.
func Open(ctx context.Context, st store.Store, name string, s *schema.Schema, opts ...Option) (*Document, error) {
	data, err := st.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	tree, err := parse.Parse(data, parse.ParseJWCC())
	if err != nil {
		return nil, fmt.Errorf("document %s: %w", name, err)
	}
	return New(tree, s, append([]Option{WithStore(st, name)}, opts...)...)
}

func (d *Document) Name() string {
	return d.name
}

func (d *Document) Schema() *schema.Schema {
	return d.schema
}

func (d *Document) Revision() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rev
}

// Get returns a copy of the value at key; the empty key denotes the whole
// document.
func (d *Document) Get(key string) (*ir.Node, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if key == "" {
		return d.tree.Clone(), nil
	}
	return d.tree.GetKPath(key)
}

// Defaults returns the top level fields still holding their schema default.
func (d *Document) Defaults() schema.Defaults {
	d.mu.Lock()
	defer d.mu.Unlock()
	return maps.Clone(d.defaults)
}

// Verify runs the schema "%check" rules against the current values.
func (d *Document) Verify() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.checks.Verify(d.schema.Root, d.tree)
}

// GetSchema returns the schema text.
func (d *Document) GetSchema() string {
	if d.schema.Source == nil {
		return ""
	}
	return encode.MustString(d.schema.Source, encode.EncodeMode(encode.JSONMode))
}

// PrettyPrint writes the revision followed by a colon and the value at key,
// or the whole document when key is empty.  If key does not address a value
// the error message is written instead and returned.
func (d *Document) PrettyPrint(w io.Writer, mode encode.Mode, tags int, key string, opts ...encode.EncodeOption) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	buf := bytes.NewBuffer(nil)
	err := d.encode(buf, append([]encode.EncodeOption{
		encode.EncodeMode(mode),
		encode.EncodeTags(tags),
		encode.EncodeScope(key),
	}, opts...)...)
	if err != nil {
		var se *encode.ScopeError
		if errors.As(err, &se) {
			if _, werr := io.WriteString(w, se.Error()+"\n"); werr != nil {
				return werr
			}
		}
		return err
	}
	if _, err := io.WriteString(w, strconv.FormatInt(d.rev, 10)+":"); err != nil {
		return err
	}
	_, err = w.Write(buf.Bytes())
	return err
}

func (d *Document) encode(w io.Writer, opts ...encode.EncodeOption) error {
	return encode.Encode(d.tree, w, append([]encode.EncodeOption{
		encode.EncodeSchema(d.schema.Root),
		encode.EncodeDefaults(d.defaults),
		encode.EncodeEndMarker(true),
	}, opts...)...)
}

// Bytes returns the document as Save writes it.
func (d *Document) Bytes() ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.bytes()
}

func (d *Document) bytes() ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	err := d.encode(buf, encode.EncodeMode(encode.JSONMode), encode.EncodeTags(encode.AllTags))
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes the document to its store.  It is how a FailedToSave outcome
// is retried.
func (d *Document) Save(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.save(ctx)
}

func (d *Document) save(ctx context.Context) error {
	if d.store == nil {
		return ErrNoStore
	}
	data, err := d.bytes()
	if err != nil {
		return err
	}
	if err := d.store.Save(ctx, d.name, data); err != nil {
		return fmt.Errorf("saving %s at revision %d: %w", d.name, d.rev, err)
	}
	d.logger.Debug("saved document", "name", d.name, "revision", d.rev, "bytes", len(data))
	return nil
}
