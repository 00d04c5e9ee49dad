package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
)

func check(cfg *CheckConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Check.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: check requires at least one document", cli.ErrUsage)
	}
	ctx, cancel := signalContext()
	defer cancel()
	for _, arg := range args {
		d, b, err := cfg.openDoc(ctx, arg)
		if err != nil {
			return fmt.Errorf("%s: %w", arg, err)
		}
		err = d.Verify()
		b.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", arg, err)
		}
		fmt.Fprintf(cc.Out, "%s: ok at revision %d\n", arg, d.Revision())
	}
	return nil
}
