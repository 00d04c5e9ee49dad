package guard

import (
	"context"
	"fmt"
	"os"

	"github.com/signadot/confdoc/ir"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Env is the environment rules run in.  Changed is false for an update
// writing the value already there.
type Env struct {
	Value   any              `expr:"value"`
	Old     any              `expr:"old"`
	Elem    any              `expr:"elem"`
	Key     string           `expr:"key"`
	Changed bool             `expr:"changed"`
	Op      string           `expr:"op"`
	Doc     any              `expr:"doc"`
	Get     func(string) any `expr:"get"`
}

func newEnv(c *Change) Env {
	return Env{
		Value:   ToAny(c.New),
		Old:     ToAny(c.Old),
		Elem:    ToAny(c.Elem),
		Key:     c.Key,
		Changed: !ir.Equal(c.Old, c.New),
		Op:      string(c.Op),
		Doc:     ToAny(c.Doc),
		Get: func(key string) any {
			if c.Doc == nil {
				return nil
			}
			n, err := c.Doc.GetKPath(key)
			if err != nil {
				return nil
			}
			return ToAny(n)
		},
	}
}

func exprOpts() []expr.Option {
	return []expr.Option{
		expr.Env(Env{}),
		expr.AsBool(),
		expr.Function("getenv", func(params ...any) (any, error) {
			return os.Getenv(params[0].(string)), nil
		},
			new(func(string) string)),
	}
}

// Rule is a compiled boolean expression.  A change is vetoed when the rule
// evaluates to false.
type Rule struct {
	Name   string
	Source string

	prg *vm.Program
}

func Compile(name, src string) (*Rule, error) {
	prg, err := expr.Compile(src, exprOpts()...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRule, name, err)
	}
	return &Rule{Name: name, Source: src, prg: prg}, nil
}

func MustCompile(name, src string) *Rule {
	r, err := Compile(name, src)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Rule) Check(ctx context.Context, c *Change) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	res, err := expr.Run(r.prg, newEnv(c))
	if err != nil {
		return &Rejection{Guard: r.Name, Reason: fmt.Sprintf("%s: %v", r.Source, err)}
	}
	if ok, _ := res.(bool); !ok {
		return &Rejection{Guard: r.Name, Reason: r.Source}
	}
	return nil
}

// Eval runs the rule against a bare value, as a field check sees a
// document being loaded.
func (r *Rule) Eval(key string, value, doc *ir.Node) (bool, error) {
	res, err := expr.Run(r.prg, newEnv(&Change{Op: OpUpdate, Key: key, Old: value, New: value, Elem: value, Doc: doc}))
	if err != nil {
		return false, fmt.Errorf("%w: %s: %w", ErrRule, r.Name, err)
	}
	ok, _ := res.(bool)
	return ok, nil
}
