package store

import (
	"bytes"
	"context"
	"log/slog"
	"time"

	"go.etcd.io/bbolt"
)

const DefaultBucket = "confdoc"

// Bolt stores documents in one bucket of a bbolt database.
type Bolt struct {
	db     *bbolt.DB
	bucket []byte
	logger *slog.Logger
}

type BoltOption func(*Bolt)

func BoltBucket(name string) BoltOption {
	return func(b *Bolt) { b.bucket = []byte(name) }
}

func BoltLogger(logger *slog.Logger) BoltOption {
	return func(b *Bolt) { b.logger = logger }
}

// OpenBolt opens or creates the database at path.
func OpenBolt(path string, opts ...BoltOption) (*Bolt, error) {
	b := &Bolt{bucket: []byte(DefaultBucket)}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(b.bucket)
		return err
	})
	if err != nil {
		if cerr := db.Close(); cerr != nil {
			b.logger.Warn("closing bolt database", "path", path, "error", cerr)
		}
		return nil, err
	}
	b.db = db
	return b, nil
}

func (b *Bolt) Close() error {
	return b.db.Close()
}

func (b *Bolt) Save(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkName(name); err != nil {
		return err
	}
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(b.bucket).Put([]byte(name), data)
	})
}

func (b *Bolt) Load(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var res []byte
	err := b.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(b.bucket).Get([]byte(name))
		if v == nil {
			return notFound(name)
		}
		// v is only valid during the transaction
		res = bytes.Clone(v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Names lists the stored documents.
func (b *Bolt) Names(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var res []string
	err := b.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(b.bucket).ForEach(func(k, _ []byte) error {
			res = append(res, string(k))
			return nil
		})
	})
	return res, err
}
