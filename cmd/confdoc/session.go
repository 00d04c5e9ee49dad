package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/signadot/confdoc/doc"
	"github.com/signadot/confdoc/encode"
	"github.com/signadot/confdoc/ir"

	"github.com/google/gops/agent"
	"github.com/scott-cotton/cli"
)

func session(cfg *SessionConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Session.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: session requires one document", cli.ErrUsage)
	}

	if err := agent.Listen(agent.Options{}); err != nil {
		cfg.Logger.Warn("gops agent failed", "error", err)
	} else {
		defer agent.Close()
	}

	ctx, cancel := signalContext()
	defer cancel()
	d, b, err := cfg.openDoc(ctx, args[0])
	if err != nil {
		return err
	}
	defer b.Close()
	if w, ok := b.raw.(watcher); ok {
		go watch(ctx, w, b.name, cfg.Logger)
	}

	s := &replSession{doc: d, w: cc.Out, save: !cfg.NoSave, opts: cfg.encOpts(cc.Out)}
	runErr := s.run(ctx, cc.In)
	if len(d.Journal()) == 0 {
		return runErr
	}
	if err := saveJournal(context.WithoutCancel(ctx), b, b.name, d); err != nil {
		return errors.Join(runErr, fmt.Errorf("saving journal: %w", err))
	}
	return runErr
}

type watcher interface {
	Watch(ctx context.Context) (<-chan string, error)
}

func watch(ctx context.Context, w watcher, name string, logger *slog.Logger) {
	ch, err := w.Watch(ctx)
	if err != nil {
		logger.Warn("cannot watch for saves", "error", err)
		return
	}
	for saved := range ch {
		if saved == name {
			logger.Info("document saved", "name", saved)
		}
	}
}

// replSession applies line commands to a document.
type replSession struct {
	doc  *doc.Document
	w    io.Writer
	save bool
	opts []encode.EncodeOption
}

func (s *replSession) run(ctx context.Context, r io.Reader) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		quit, err := s.exec(ctx, line)
		if err != nil {
			fmt.Fprintf(s.w, "[Error] %v\n", err)
		}
		if quit {
			return nil
		}
	}
	return sc.Err()
}

// cut splits off the first word of s.
func cut(s string) (string, string) {
	word, rest, _ := strings.Cut(strings.TrimSpace(s), " ")
	return word, strings.TrimSpace(rest)
}

func (s *replSession) exec(ctx context.Context, line string) (quit bool, err error) {
	rev := int64(-1)
	if strings.HasPrefix(line, "@") {
		word, rest := cut(line)
		rev, err = strconv.ParseInt(word[1:], 10, 64)
		if err != nil || rev < 0 {
			return false, fmt.Errorf("invalid revision %q", word)
		}
		line = rest
	}
	cmd, rest := cut(line)
	switch cmd {
	case "quit", "exit":
		return true, nil
	case "rev":
		_, err = fmt.Fprintf(s.w, "%d\n", s.doc.Revision())
	case "get":
		var n *ir.Node
		n, err = s.doc.Get(rest)
		if err != nil {
			return false, err
		}
		err = encode.Encode(n, s.w, encode.EncodeWire(true))
		if err == nil {
			_, err = io.WriteString(s.w, "\n")
		}
	case "view":
		err = s.doc.PrettyPrint(s.w, encode.PlainMode, 0, rest, s.opts...)
		var se *encode.ScopeError
		if errors.As(err, &se) {
			err = nil
		}
	case "save":
		if err = s.doc.Save(ctx); err == nil {
			_, err = fmt.Fprintf(s.w, "saved revision %d\n", s.doc.Revision())
		}
	case "log":
		err = writeEntries(s.w, s.doc.Journal())
	case "check":
		var req doc.Request
		req, err = s.request(rest, rev)
		if err != nil {
			return false, err
		}
		res, diff := s.doc.Preview(ctx, req)
		if _, err = io.WriteString(s.w, diff); err != nil {
			return false, err
		}
		err = s.report(res)
	case "set", "insert", "remove":
		var req doc.Request
		req, err = s.request(line, rev)
		if err != nil {
			return false, err
		}
		req.Save = s.save
		err = s.report(s.doc.Apply(ctx, req))
	default:
		return false, fmt.Errorf("unknown command %q", cmd)
	}
	return false, err
}

// request parses a mutation command.  A negative rev means the current
// revision.
func (s *replSession) request(line string, rev int64) (doc.Request, error) {
	cmd, rest := cut(line)
	var req doc.Request
	switch cmd {
	case "set":
		key, value := cut(rest)
		if key == "" || value == "" {
			return req, fmt.Errorf("usage: set key value")
		}
		req = doc.Request{Op: doc.Update, Key: key, Value: value}
	case "insert":
		key, rest := cut(rest)
		idx, value := cut(rest)
		i, err := strconv.Atoi(idx)
		if key == "" || err != nil || value == "" {
			return req, fmt.Errorf("usage: insert key index value")
		}
		req = doc.Request{Op: doc.Insert, Key: key, Index: i, Value: value}
	case "remove":
		key, idx := cut(rest)
		i, err := strconv.Atoi(idx)
		if key == "" || err != nil {
			return req, fmt.Errorf("usage: remove key index")
		}
		req = doc.Request{Op: doc.Remove, Key: key, Index: i}
	default:
		return req, fmt.Errorf("unknown mutation %q", cmd)
	}
	req.Revision = rev
	if rev < 0 {
		req.Revision = s.doc.Revision()
	}
	return req, nil
}

func (s *replSession) report(res doc.Result) error {
	if res.Code != doc.OK {
		_, err := fmt.Fprintf(s.w, "%s: %s\n", res.Code, res.Message)
		return err
	}
	_, err := fmt.Fprintf(s.w, "OK %d: %s\n", s.doc.Revision(), encode.MustString(res.Value, encode.EncodeWire(true)))
	return err
}
