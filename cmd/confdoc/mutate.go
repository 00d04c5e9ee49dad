package main

import (
	"fmt"
	"io"

	"github.com/signadot/confdoc/doc"
	"github.com/signadot/confdoc/encode"

	"github.com/scott-cotton/cli"
)

func mutate(cfg *MutateConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Cmd.Parse(cc, args)
	if err != nil {
		return err
	}
	want := 3
	if cfg.op == doc.Remove {
		want = 2
	}
	if len(args) != want {
		return fmt.Errorf("%w: %s", cli.ErrUsage, mutateUsage[cfg.op].synopsis)
	}
	req := doc.Request{Key: args[0], Op: cfg.op}
	switch cfg.op {
	case doc.Insert:
		req.Index, req.Value = cfg.Index, args[1]
	case doc.Remove:
		req.Index = cfg.Index
	default:
		req.Value = args[1]
	}

	ctx, cancel := signalContext()
	defer cancel()
	d, b, err := cfg.openDoc(ctx, args[want-1])
	if err != nil {
		return err
	}
	defer b.Close()
	req.Revision = int64(cfg.Rev)
	if cfg.Rev < 0 {
		req.Revision = d.Revision()
	}
	if cfg.DryRun {
		res, diff := d.Preview(ctx, req)
		if _, err := io.WriteString(cc.Out, diff); err != nil {
			return err
		}
		return report(cc.Out, d.Revision(), res)
	}
	req.Save = true
	res := d.Apply(ctx, req)
	return report(cc.Out, d.Revision(), res)
}

// report prints a successful result as "<revision>:<value>" and turns a
// failed one into an error.
func report(w io.Writer, rev int64, res doc.Result) error {
	if res.Code != doc.OK {
		return res.Err()
	}
	_, err := fmt.Fprintf(w, "%d:%s\n", rev, encode.MustString(res.Value, encode.EncodeWire(true)))
	return err
}
