package doc

import (
	"strconv"
	"time"

	"github.com/signadot/confdoc/encode"
	"github.com/signadot/confdoc/ir"
	"github.com/signadot/confdoc/parse"

	jsonpatch "github.com/evanphx/json-patch"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Entry records one committed mutation as an RFC 6902 patch.
type Entry struct {
	ID       string          `json:"id"`
	Revision int64           `json:"revision"`
	Op       Op              `json:"op"`
	Key      string          `json:"key"`
	Index    int             `json:"index,omitempty"`
	Patch    json.RawMessage `json:"patch"`
	Time     time.Time       `json:"time"`
}

type patchOp struct {
	Op    string          `json:"op"`
	Path  string          `json:"path"`
	Value json.RawMessage `json:"value,omitempty"`
}

func wire(n *ir.Node) json.RawMessage {
	return json.RawMessage(encode.MustString(n, encode.EncodeWire(true)))
}

// patch returns the JSON patch equivalent of p, which must not have been
// applied yet.
func (p *plan) patch() (json.RawMessage, error) {
	n := p.tgt.node
	var op patchOp
	switch p.req.Op {
	case Update:
		op = patchOp{Op: "replace", Path: n.Pointer(), Value: wire(p.val)}
	case Insert:
		if n.Type == ir.NullType {
			op = patchOp{Op: "replace", Path: n.Pointer(), Value: wire(ir.FromSlice([]*ir.Node{p.val.Clone()}))}
			break
		}
		op = patchOp{Op: "add", Path: n.Pointer() + "/" + strconv.Itoa(p.index), Value: wire(p.val)}
	case Remove:
		op = patchOp{Op: "remove", Path: n.Pointer() + "/" + strconv.Itoa(p.index)}
	}
	return json.Marshal([]patchOp{op})
}

func (d *Document) record(p *plan, patch json.RawMessage) {
	d.journal = append(d.journal, Entry{
		ID:       uuid.NewString(),
		Revision: d.rev,
		Op:       p.req.Op,
		Key:      p.req.Key,
		Index:    p.index,
		Patch:    patch,
		Time:     time.Now().UTC(),
	})
}

// Journal returns the entries recorded since the document was made.
func (d *Document) Journal() []Entry {
	d.mu.Lock()
	defer d.mu.Unlock()
	res := make([]Entry, len(d.journal))
	copy(res, d.journal)
	return res
}

// Base returns the document as it was made, in compact JSON, with its
// revision.  Replaying the journal over it yields the current document.
func (d *Document) Base() ([]byte, int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.base, d.baseRev
}

// Replay applies the patches of entries in order to the JSON document base.
func Replay(base []byte, entries []Entry) ([]byte, error) {
	doc := base
	for _, e := range entries {
		patch, err := jsonpatch.DecodePatch(e.Patch)
		if err != nil {
			return nil, err
		}
		doc, err = patch.Apply(doc)
		if err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// ReplayTree replays the journal of d over its base.
func (d *Document) ReplayTree() (*ir.Node, error) {
	base, _ := d.Base()
	out, err := Replay(base, d.Journal())
	if err != nil {
		return nil, err
	}
	return parse.Parse(out)
}
