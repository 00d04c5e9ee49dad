package doc

import (
	"context"
	"fmt"
	"runtime/debug"

	dbg "github.com/signadot/confdoc/debug"
	"github.com/signadot/confdoc/encode"
	"github.com/signadot/confdoc/guard"
	"github.com/signadot/confdoc/ir"
	"github.com/signadot/confdoc/ir/kpath"
	"github.com/signadot/confdoc/parse"
	"github.com/signadot/confdoc/schema"
)

// Update replaces the value at key with the JSON value text.
func (d *Document) Update(ctx context.Context, rev int64, key, value string, opts ...RequestOption) Result {
	return d.Apply(ctx, newRequest(Update, rev, key, 0, value, opts))
}

// InsertAt inserts the JSON value text into the array at key before index,
// or at its end when index is -1.
func (d *Document) InsertAt(ctx context.Context, rev int64, key string, index int, value string, opts ...RequestOption) Result {
	return d.Apply(ctx, newRequest(Insert, rev, key, index, value, opts))
}

// RemoveAt removes the element at index from the array at key, or its last
// element when index is -1.
func (d *Document) RemoveAt(ctx context.Context, rev int64, key string, index int, opts ...RequestOption) Result {
	return d.Apply(ctx, newRequest(Remove, rev, key, index, "", opts))
}

func newRequest(op Op, rev int64, key string, index int, value string, opts []RequestOption) Request {
	req := Request{Revision: rev, Key: key, Op: op, Index: index, Value: value}
	for _, opt := range opts {
		opt(&req)
	}
	return req
}

// plan is a request which passed every check but the vetoes.
type plan struct {
	req   Request
	kp    *kpath.KPath
	tgt   *target
	val   *ir.Node // new value or element
	old   *ir.Node // replaced value or removed element
	index int
}

// Apply runs req through the mutation pipeline.
func (d *Document) Apply(ctx context.Context, req Request) (res Result) {
	d.mu.Lock()
	defer d.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("mutation panicked", "key", req.Key, "op", req.Op, "panic", r, "stack", string(debug.Stack()))
			res = fail(Unreachable, "internal error: %v", r)
		}
	}()
	res = d.apply(ctx, req)
	if dbg.Apply() {
		dbg.Logf("apply %s %s %q rev %d check-only %v: %s %s\n", req.Op, req.Key, req.Value, req.Revision, req.CheckOnly, res.Code, res.Message)
	}
	d.logger.Debug("apply", "op", req.Op, "key", req.Key, "checkOnly", req.CheckOnly, "code", res.Code, "revision", d.rev)
	return res
}

func (d *Document) apply(ctx context.Context, req Request) Result {
	p, res := d.prepare(ctx, req)
	if res.Code != OK {
		return res
	}
	if req.CheckOnly {
		return p.result()
	}
	patch, err := p.patch()
	if err != nil {
		return fail(General, "recording change: %v", err)
	}
	if _, err := p.applyTo(d.tree); err != nil {
		return fail(Unreachable, "applying checked change: %v", err)
	}
	delete(d.defaults, *p.kp.Field)
	d.rev++
	d.record(p, patch)
	res = p.result()
	if req.Save {
		if err := d.save(ctx); err != nil {
			d.logger.Warn("save failed", "name", d.name, "revision", d.rev, "error", err)
			res.Code = FailedToSave
			res.Message = err.Error()
		}
	}
	return res
}

// prepare runs the checks of req up to and including the vetoes and
// whether a requested save is possible.
func (d *Document) prepare(ctx context.Context, req Request) (*plan, Result) {
	kp, err := kpath.Parse(req.Key)
	switch {
	case err != nil:
		return nil, fail(InvalidRequestFormat, "invalid key: %v", err)
	case kp == nil:
		return nil, fail(InvalidRequestFormat, "empty key")
	case kp.HasWildcard():
		return nil, fail(InvalidRequestFormat, "wildcard in key %q", req.Key)
	}
	switch req.Op {
	case Update, Insert, Remove:
	default:
		return nil, fail(InvalidRequestFormat, "unknown operation %s", req.Op)
	}
	if req.Revision != d.rev {
		return nil, fail(WrongRevision, "wrong revision %d, document is at revision %d", req.Revision, d.rev)
	}
	tgt, res := d.resolve(kp)
	if res.Code != OK {
		return nil, res
	}
	p := &plan{req: req, kp: kp, tgt: tgt}
	switch req.Op {
	case Update:
		res = p.checkUpdate()
	case Insert:
		res = p.checkInsert()
	case Remove:
		res = p.checkRemove()
	}
	if res.Code != OK {
		return nil, res
	}
	change, err := d.change(p)
	if err != nil {
		return nil, fail(Unreachable, "computing change: %v", err)
	}
	if err := d.appGuards().Check(ctx, change); err != nil {
		if dbg.Guard() {
			dbg.Logf("app guard vetoed %s %s: %v\n", req.Op, req.Key, err)
		}
		return nil, fail(RejectedByApp, "%v", err)
	}
	if err := d.cmd.Check(ctx, change); err != nil {
		if dbg.Guard() {
			dbg.Logf("cmd guard vetoed %s %s: %v\n", req.Op, req.Key, err)
		}
		return nil, fail(RejectedByCmd, "%v", err)
	}
	if req.Save && d.store == nil {
		return nil, fail(General, "cannot save: %v", ErrNoStore)
	}
	return p, Result{}
}

func (d *Document) appGuards() guard.Chain {
	return append(guard.Chain{d.checks}, d.app...)
}

func parseValue(text string) (*ir.Node, Result) {
	v, err := parse.ParseString(text)
	if err != nil {
		return nil, fail(JSONParse, "new value is not JSON: %v", err)
	}
	return v, Result{}
}

func conform(t *schema.Type, v *ir.Node, what string) Result {
	if err := t.Conform(v); err != nil {
		return fail(IncompatibleVal, "%s does not conform to %s: %v", what, t, err)
	}
	return Result{}
}

func (p *plan) checkUpdate() Result {
	v, res := parseValue(p.req.Value)
	if res.Code != OK {
		return res
	}
	if !p.tgt.settable() {
		return p.tgt.notSettable()
	}
	if res := conform(p.tgt.typ, v, "new value"); res.Code != OK {
		return res
	}
	p.val = v
	p.old = p.tgt.node
	return Result{}
}

func (p *plan) array() Result {
	if !p.tgt.settable() {
		return p.tgt.notSettable()
	}
	if p.tgt.typ.Kind != schema.ArrayKind || p.tgt.elem {
		return fail(NotAnArray, "%s is not an array", where(p.tgt.node))
	}
	switch p.tgt.node.Type {
	case ir.ArrayType, ir.NullType:
		return Result{}
	}
	return fail(Unreachable, "array %s holds %s", where(p.tgt.node), p.tgt.node.Type)
}

func (p *plan) checkInsert() Result {
	if res := p.array(); res.Code != OK {
		return res
	}
	n := len(p.tgt.node.Values)
	i := p.req.Index
	if i == -1 {
		i = n
	}
	if i < 0 {
		return fail(BadIndex, "invalid index %d", p.req.Index)
	}
	if i > n {
		return fail(IndexOutOfRange, "index %d out of range for inserting into %s of length %d", i, where(p.tgt.node), n)
	}
	v, res := parseValue(p.req.Value)
	if res.Code != OK {
		return res
	}
	if res := conform(p.tgt.typ.Elem, v, "new element"); res.Code != OK {
		return res
	}
	p.val = v
	p.index = i
	return Result{}
}

func (p *plan) checkRemove() Result {
	if res := p.array(); res.Code != OK {
		return res
	}
	if ir.IsNullOrEmpty(p.tgt.node) {
		return fail(EmptyArray, "the array %s is empty", where(p.tgt.node))
	}
	n := len(p.tgt.node.Values)
	i := p.req.Index
	if i == -1 {
		i = n - 1
	}
	if i < 0 {
		return fail(BadIndex, "invalid index %d", p.req.Index)
	}
	if i >= n {
		return fail(IndexOutOfRange, "index %d out of range for removing from %s of length %d", i, where(p.tgt.node), n)
	}
	p.old = p.tgt.node.Values[i]
	p.index = i
	return Result{}
}

// applyTo performs the change on root, which is the document tree or a
// copy of it, and returns the value written or removed.
func (p *plan) applyTo(root *ir.Node) (*ir.Node, error) {
	n, err := root.Lookup(p.kp)
	if err != nil {
		return nil, err
	}
	switch p.req.Op {
	case Update:
		v := p.val.Clone()
		n.Replace(v)
		return v, nil
	case Insert:
		v := p.val.Clone()
		if err := n.Insert(p.index, v); err != nil {
			return nil, err
		}
		return v, nil
	case Remove:
		return n.Remove(p.index)
	}
	return nil, fmt.Errorf("unknown operation %s", p.req.Op)
}

func (p *plan) result() Result {
	switch p.req.Op {
	case Remove:
		return Result{Code: OK, Value: p.old.Clone()}
	}
	return Result{Code: OK, Value: p.val.Clone()}
}

// change describes p to guards, computing the field value after the change
// on a copy of the tree.
func (d *Document) change(p *plan) (*guard.Change, error) {
	after := d.tree.Clone()
	if _, err := p.applyTo(after); err != nil {
		return nil, err
	}
	newField, err := after.GetKPath(p.tgt.fieldNode.KPath())
	if err != nil {
		return nil, err
	}
	c := &guard.Change{
		Op:    p.req.Op.guardOp(),
		Key:   p.req.Key,
		Index: p.index,
		Field: p.tgt.field,
		Old:   p.tgt.fieldNode,
		New:   newField,
		Doc:   d.tree,
	}
	switch p.req.Op {
	case Remove:
		c.Elem = p.old
	default:
		c.Elem = p.val
	}
	return c, nil
}

// Preview checks req as if CheckOnly were set and returns the outcome with
// a line diff of the plain rendering before and after the change.
func (d *Document) Preview(ctx context.Context, req Request, opts ...encode.EncodeOption) (res Result, diff string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			res, diff = fail(Unreachable, "internal error: %v", r), ""
		}
	}()
	req.CheckOnly = true
	p, res := d.prepare(ctx, req)
	if res.Code != OK {
		return res, ""
	}
	after := d.tree.Clone()
	if _, err := p.applyTo(after); err != nil {
		return fail(Unreachable, "applying checked change: %v", err), ""
	}
	opts = append([]encode.EncodeOption{encode.EncodeSchema(d.schema.Root)}, opts...)
	from, err := encodeString(d.tree, opts...)
	if err != nil {
		return fail(General, "%v", err), ""
	}
	to, err := encodeString(after, opts...)
	if err != nil {
		return fail(General, "%v", err), ""
	}
	return p.result(), lineDiff(from, to)
}
