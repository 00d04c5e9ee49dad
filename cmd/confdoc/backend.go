package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/signadot/confdoc/store"
)

// backend is the store a document lives in and its name there.
type backend struct {
	store.Store
	name string

	// raw is the store without the retry wrapper.
	raw   store.Store
	close func() error
}

func (b *backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// openBackend opens the store configured by sc for the document doc.  A
// file store without a root addresses documents by path, so the directory
// of doc becomes the root.
func openBackend(ctx context.Context, sc *StoreConfig, doc string, logger *slog.Logger) (*backend, error) {
	b := &backend{name: doc}
	switch sc.Kind {
	case storeFile:
		root := sc.Root
		if root == "" {
			root, b.name = filepath.Split(filepath.Clean(doc))
			if root == "" {
				root = "."
			}
		}
		opts := []store.FileOption{store.FileCompress(sc.Compress), store.FileLogger(logger)}
		if sc.Umask != 0 {
			opts = append(opts, store.FileUmask(sc.Umask))
		}
		st, err := store.OpenFile(root, opts...)
		if err != nil {
			return nil, err
		}
		b.raw = st
	case storeBolt:
		opts := []store.BoltOption{store.BoltLogger(logger)}
		if sc.Bucket != "" {
			opts = append(opts, store.BoltBucket(sc.Bucket))
		}
		st, err := store.OpenBolt(sc.Path, opts...)
		if err != nil {
			return nil, err
		}
		b.raw, b.close = st, st.Close
	case storeRedis:
		opts := []store.RedisOption{store.RedisLogger(logger)}
		if sc.Prefix != "" {
			opts = append(opts, store.RedisPrefix(sc.Prefix))
		}
		if sc.Channel != "" {
			opts = append(opts, store.RedisChannel(sc.Channel))
		}
		st, err := store.DialRedis(ctx, sc.Addr, opts...)
		if err != nil {
			return nil, err
		}
		b.raw, b.close = st, st.Close
	case storePostgres:
		opts := []store.PostgresOption{store.PostgresLogger(logger)}
		if sc.Table != "" {
			opts = append(opts, store.PostgresTable(sc.Table))
		}
		st, err := store.ConnectPostgres(ctx, sc.URL, opts...)
		if err != nil {
			return nil, err
		}
		b.raw = st
		b.close = func() error {
			st.Close()
			return nil
		}
	default:
		return nil, fmt.Errorf("unknown store kind %q", sc.Kind)
	}
	b.Store = b.raw
	if sc.Retry != nil {
		maxElapsed, err := sc.Retry.maxElapsed()
		if err != nil {
			b.Close()
			return nil, err
		}
		opts := []store.RetryOption{store.RetryLogger(logger)}
		if maxElapsed > 0 {
			opts = append(opts, store.RetryMaxElapsed(maxElapsed))
		}
		if sc.Retry.Max > 0 {
			opts = append(opts, store.RetryMax(sc.Retry.Max))
		}
		b.Store = store.NewRetry(b.raw, opts...)
	}
	return b, nil
}
