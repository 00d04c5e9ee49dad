package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/signadot/confdoc/doc"
	"github.com/signadot/confdoc/encode"
	"github.com/signadot/confdoc/schema"

	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"
)

type MainConfig struct {
	ConfigFile string `cli:"name=config desc='configuration file (yaml)'"`
	Schema     string `cli:"name=schema desc='schema file, json or yaml; inferred from the document when absent'"`
	Color      bool   `cli:"name=color desc='encode with color'"`
	Verbose    bool   `cli:"name=v desc='log debug messages'"`

	Config *Config
	Logger *slog.Logger

	Main *cli.Command
}

func (cfg *MainConfig) encOpts(w io.Writer) []encode.EncodeOption {
	if cfg.Color {
		return []encode.EncodeOption{encode.EncodeColors(encode.NewColors())}
	}
	colorsSet := false
	for _, opt := range cfg.Main.Opts {
		if opt.Name != "color" {
			continue
		}
		colorsSet = opt.Value != nil
		break
	}
	if colorsSet {
		return nil
	}
	f, ok := w.(*os.File)
	if !ok {
		return nil
	}
	if isatty.IsTerminal(f.Fd()) {
		return []encode.EncodeOption{encode.EncodeColors(encode.NewColors())}
	}
	return nil
}

func (cfg *MainConfig) schema() (*schema.Schema, error) {
	path := cfg.Schema
	if path == "" {
		path = cfg.Config.Schema
	}
	if path == "" {
		return nil, nil
	}
	return schema.LoadFile(path)
}

// openDoc opens the document named by arg in the configured store.  The
// caller closes the returned backend.
func (cfg *MainConfig) openDoc(ctx context.Context, arg string) (*doc.Document, *backend, error) {
	s, err := cfg.schema()
	if err != nil {
		return nil, nil, err
	}
	guards, err := cfg.Config.guards()
	if err != nil {
		return nil, nil, err
	}
	b, err := openBackend(ctx, &cfg.Config.Store, arg, cfg.Logger)
	if err != nil {
		return nil, nil, err
	}
	d, err := doc.Open(ctx, b, b.name, s, doc.WithLogger(cfg.Logger), doc.WithCmdGuards(guards...))
	if err != nil {
		b.Close()
		return nil, nil, err
	}
	return d, b, nil
}

type ViewConfig struct {
	*MainConfig

	JSON bool   `cli:"name=json desc='render in json'"`
	Tags int    `cli:"name=tags desc='annotations: 1=defaults 2=descriptions -1=all'"`
	Key  string `cli:"name=key desc='render only the value at key'"`

	View *cli.Command
}

// tagMask maps the -tags flag to encoder tag bits.
func tagMask(n int) int {
	if n < 0 {
		return encode.AllTags
	}
	mask := 0
	if n&1 != 0 {
		mask |= encode.DefaultComment
	}
	if n&2 != 0 {
		mask |= encode.TopLevelComment
	}
	return mask
}

type GetConfig struct {
	*MainConfig

	Get *cli.Command
}

type MutateConfig struct {
	*MainConfig

	Rev    int  `cli:"name=rev desc='expected revision, -1 for the current one' default=-1"`
	DryRun bool `cli:"name=n desc='check only and show the change'"`
	Index  int  `cli:"name=idx desc='array index for insert and remove, -1 for the end' default=-1"`

	op  doc.Op
	Cmd *cli.Command
}

type CheckConfig struct {
	*MainConfig

	Check *cli.Command
}

type SampleConfig struct {
	*MainConfig

	Sample *cli.Command
}

type JournalConfig struct {
	*MainConfig

	Replay bool `cli:"name=replay desc='print the document the journal replays to'"`

	Journal *cli.Command
}

type SessionConfig struct {
	*MainConfig

	NoSave bool `cli:"name=nosave desc='do not save after each mutation'"`

	Session *cli.Command
}
