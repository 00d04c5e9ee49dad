package main

import (
	"fmt"

	"github.com/signadot/confdoc/encode"

	"github.com/scott-cotton/cli"
)

func get(cfg *GetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Get.Parse(cc, args)
	if err != nil {
		cfg.Get.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: get requires a key and a document", cli.ErrUsage)
	}
	ctx, cancel := signalContext()
	defer cancel()
	d, b, err := cfg.openDoc(ctx, args[1])
	if err != nil {
		return err
	}
	defer b.Close()
	n, err := d.Get(args[0])
	if err != nil {
		return fmt.Errorf("error getting %s: %w", args[0], err)
	}
	opts := append([]encode.EncodeOption{encode.EncodeMode(encode.JSONMode)}, cfg.encOpts(cc.Out)...)
	return encode.Encode(n, cc.Out, opts...)
}
