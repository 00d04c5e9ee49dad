package main

import (
	"github.com/signadot/confdoc/doc"

	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Main, "confdoc").
		WithSynopsis("confdoc [opts] command [opts]").
		WithDescription("confdoc views and edits schema governed JSON documents.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return confdocMain(cfg, cc, args)
		}).
		WithSubs(
			ViewCommand(cfg),
			GetCommand(cfg),
			MutateCommand(cfg, doc.Update),
			MutateCommand(cfg, doc.Insert),
			MutateCommand(cfg, doc.Remove),
			CheckCommand(cfg),
			SampleCommand(cfg),
			JournalCommand(cfg),
			SessionCommand(cfg))
}

func ViewCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ViewConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.View, "view").
		WithAliases("v").
		WithSynopsis("view [-json] [-tags n] [-key k] doc").
		WithDescription("view a document, prefixed by its revision").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return view(cfg, cc, args)
		})
}

func GetCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &GetConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Get, "get").
		WithAliases("g").
		WithSynopsis("get key doc").
		WithDescription("print the value at key in json").
		WithRun(func(cc *cli.Context, args []string) error {
			return get(cfg, cc, args)
		})
}

var mutateUsage = map[doc.Op]struct{ name, synopsis, desc string }{
	doc.Update: {"set", "set [-rev n] [-n] key value doc", "replace the value at key with a json value"},
	doc.Insert: {"insert", "insert [-rev n] [-n] [-idx i] key value doc", "insert a json value into the array at key"},
	doc.Remove: {"remove", "remove [-rev n] [-n] [-idx i] key doc", "remove an element from the array at key"},
}

func MutateCommand(mainCfg *MainConfig, op doc.Op) *cli.Command {
	cfg := &MutateConfig{MainConfig: mainCfg, Rev: -1, Index: -1, op: op}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	u := mutateUsage[op]
	return cli.NewCommandAt(&cfg.Cmd, u.name).
		WithSynopsis(u.synopsis).
		WithDescription(u.desc + "; the document is saved unless -n is given").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return mutate(cfg, cc, args)
		})
}

func CheckCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &CheckConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Check, "check").
		WithAliases("c").
		WithSynopsis("check doc [docs]").
		WithDescription("check documents against the schema and its rules").
		WithRun(func(cc *cli.Context, args []string) error {
			return check(cfg, cc, args)
		})
}

func SampleCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &SampleConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Sample, "sample").
		WithSynopsis("sample").
		WithDescription("print a sample document for the schema").
		WithRun(func(cc *cli.Context, args []string) error {
			return sample(cfg, cc, args)
		})
}

func JournalCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &JournalConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Journal, "log").
		WithSynopsis("log [-replay] doc").
		WithDescription("print the journal recorded by the last session on doc").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return journal(cfg, cc, args)
		})
}

func SessionCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &SessionConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Session, "session").
		WithAliases("s").
		WithSynopsis("session [-nosave] doc").
		WithDescription(sessionDescription).
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return session(cfg, cc, args)
		})
}

const sessionDescription = `session reads commands, one per line, and applies them to doc.

Commands

  get [key]                  print the value at key in json
  view [key]                 print the revision and the value at key
  set key value              replace the value at key
  insert key index value     insert into the array at key, index -1 appends
  remove key index           remove from the array at key, index -1 is the last
  check <set|insert|remove>  check a mutation and show the change
  save                       save the document
  rev                        print the revision
  log                        print the journal
  quit

Mutations apply at the current revision unless the line starts with @n,
which makes the revision n a requirement.  The journal is saved next to the
document as <doc>.journal when the session ends, for 'confdoc log'.

A gops agent runs for the duration of the session.`
