package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/signadot/confdoc/doc"
	"github.com/signadot/confdoc/encode"
	"github.com/signadot/confdoc/parse"
	"github.com/signadot/confdoc/store"

	json "github.com/goccy/go-json"
	"github.com/scott-cotton/cli"
)

// journalRecord is a session journal as saved next to its document.
type journalRecord struct {
	Base         json.RawMessage `json:"base"`
	BaseRevision int64           `json:"baseRevision"`
	Entries      []doc.Entry     `json:"entries"`
}

func journalName(name string) string {
	return name + ".journal"
}

func saveJournal(ctx context.Context, st store.Store, name string, d *doc.Document) error {
	base, rev := d.Base()
	data, err := json.Marshal(&journalRecord{Base: base, BaseRevision: rev, Entries: d.Journal()})
	if err != nil {
		return err
	}
	return st.Save(ctx, journalName(name), data)
}

func loadJournal(ctx context.Context, st store.Store, name string) (*journalRecord, error) {
	data, err := st.Load(ctx, journalName(name))
	if err != nil {
		return nil, err
	}
	rec := &journalRecord{}
	if err := json.Unmarshal(data, rec); err != nil {
		return nil, fmt.Errorf("journal of %s: %w", name, err)
	}
	return rec, nil
}

func writeEntries(w io.Writer, entries []doc.Entry) error {
	for _, e := range entries {
		_, err := fmt.Fprintf(w, "%d %s %s %s %s\n", e.Revision, e.Time.Format(time.RFC3339), e.Op, e.Key, e.Patch)
		if err != nil {
			return err
		}
	}
	return nil
}

func journal(cfg *JournalConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Journal.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: log requires one document", cli.ErrUsage)
	}
	ctx, cancel := signalContext()
	defer cancel()
	b, err := openBackend(ctx, &cfg.Config.Store, args[0], cfg.Logger)
	if err != nil {
		return err
	}
	defer b.Close()
	rec, err := loadJournal(ctx, b, b.name)
	if err != nil {
		return err
	}
	if !cfg.Replay {
		return writeEntries(cc.Out, rec.Entries)
	}
	out, err := doc.Replay(rec.Base, rec.Entries)
	if err != nil {
		return fmt.Errorf("replaying journal of %s: %w", args[0], err)
	}
	tree, err := parse.Parse(out)
	if err != nil {
		return err
	}
	opts := append([]encode.EncodeOption{encode.EncodeMode(encode.JSONMode)}, cfg.encOpts(cc.Out)...)
	return encode.Encode(tree, cc.Out, opts...)
}
