package main

import (
	"fmt"

	"github.com/signadot/confdoc/encode"

	"github.com/scott-cotton/cli"
)

func sample(cfg *SampleConfig, cc *cli.Context, args []string) error {
	if _, err := cfg.Sample.Parse(cc, args); err != nil {
		return err
	}
	s, err := cfg.schema()
	if err != nil {
		return err
	}
	if s == nil {
		return fmt.Errorf("%w: sample requires a schema", cli.ErrUsage)
	}
	tree, defaults := s.Sample()
	opts := append([]encode.EncodeOption{
		encode.EncodeMode(encode.JSONMode),
		encode.EncodeTags(encode.AllTags),
		encode.EncodeSchema(s.Root),
		encode.EncodeDefaults(defaults),
		encode.EncodeEndMarker(true),
	}, cfg.encOpts(cc.Out)...)
	return encode.Encode(tree, cc.Out, opts...)
}
