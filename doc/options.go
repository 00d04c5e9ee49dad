package doc

import (
	"log/slog"

	"github.com/signadot/confdoc/guard"
	"github.com/signadot/confdoc/store"
)

type Option func(*Document)

// WithLogger sets the logger, slog.Default() otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Document) { d.logger = logger }
}

// WithStore sets where the document is saved and under which name.
func WithStore(st store.Store, name string) Option {
	return func(d *Document) {
		d.store = st
		d.name = name
	}
}

// WithName names the document, for inferred schemas and logs.
func WithName(name string) Option {
	return func(d *Document) { d.name = name }
}

// WithAppGuards adds guards consulted after the schema "%check" rules.
// Their vetoes are reported as RejectedByApp.
func WithAppGuards(gs ...guard.Guard) Option {
	return func(d *Document) { d.app = append(d.app, gs...) }
}

// WithCmdGuards adds guards consulted after the application guards.  Their
// vetoes are reported as RejectedByCmd.
func WithCmdGuards(gs ...guard.Guard) Option {
	return func(d *Document) { d.cmd = append(d.cmd, gs...) }
}

// WithRevision sets the starting revision.
func WithRevision(rev int64) Option {
	return func(d *Document) { d.rev = rev }
}
