package guard

import (
	"context"

	"github.com/signadot/confdoc/ir"
	"github.com/signadot/confdoc/schema"
)

type Op string

const (
	OpUpdate Op = "update"
	OpInsert Op = "insert"
	OpRemove Op = "remove"
)

// Change describes a mutation which passed type checking.  Nodes are
// read only.
type Change struct {
	Op    Op
	Key   string
	Index int

	// Field declares the changed value: the field itself, or the array
	// field holding the changed element.  Nil without a schema.
	Field *schema.Field

	Old  *ir.Node // field value before
	New  *ir.Node // field value after
	Elem *ir.Node // element inserted, removed or written
	Doc  *ir.Node
}

type Guard interface {
	Check(ctx context.Context, c *Change) error
}

// Func adapts a function to a Guard.
type Func func(ctx context.Context, c *Change) error

func (f Func) Check(ctx context.Context, c *Change) error {
	return f(ctx, c)
}

// Chain runs guards in order and returns the first veto.
type Chain []Guard

func (ch Chain) Check(ctx context.Context, c *Change) error {
	for _, g := range ch {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := g.Check(ctx, c); err != nil {
			return err
		}
	}
	return nil
}
