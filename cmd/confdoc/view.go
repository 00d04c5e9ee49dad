package main

import (
	"fmt"

	"github.com/signadot/confdoc/encode"

	"github.com/scott-cotton/cli"
)

func view(cfg *ViewConfig, cc *cli.Context, args []string) error {
	args, err := cfg.View.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: view requires one document", cli.ErrUsage)
	}
	ctx, cancel := signalContext()
	defer cancel()
	d, b, err := cfg.openDoc(ctx, args[0])
	if err != nil {
		return err
	}
	defer b.Close()
	mode := encode.PlainMode
	if cfg.JSON {
		mode = encode.JSONMode
	}
	return d.PrettyPrint(cc.Out, mode, tagMask(cfg.Tags), cfg.Key, cfg.encOpts(cc.Out)...)
}
