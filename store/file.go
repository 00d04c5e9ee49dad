package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/signadot/confdoc/debug"

	"github.com/klauspost/compress/zstd"
)

const zstdSuffix = ".zst"

// File stores each document in its own file under a root directory.
type File struct {
	root     string
	umask    int
	compress bool
	logger   *slog.Logger
}

type FileOption func(*File)

// FileUmask is applied to the permissions of created files and directories.
func FileUmask(umask int) FileOption {
	return func(f *File) { f.umask = umask }
}

// FileCompress stores documents zstd compressed, with a ".zst" suffix.
func FileCompress(v bool) FileOption {
	return func(f *File) { f.compress = v }
}

func FileLogger(logger *slog.Logger) FileOption {
	return func(f *File) { f.logger = logger }
}

// OpenFile opens or creates a File store rooted at root.
func OpenFile(root string, opts ...FileOption) (*File, error) {
	f := &File{root: root, umask: 022}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}
	if err := os.MkdirAll(root, os.FileMode(0755)&^os.FileMode(f.umask)); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *File) Root() string {
	return f.root
}

// Path returns the file holding the document called name.
func (f *File) Path(name string) string {
	p := filepath.Join(f.root, name)
	if f.compress {
		p += zstdSuffix
	}
	return p
}

func (f *File) Save(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkName(name); err != nil {
		return err
	}
	if f.compress {
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return err
		}
		data = enc.EncodeAll(data, nil)
		enc.Close()
	}
	p := f.Path(name)
	if debug.Store() {
		debug.Logf("file store: writing %d bytes to %s\n", len(data), p)
	}

	// Write to temp file first, then rename atomically
	tmpFile := p + ".tmp"
	if err := os.WriteFile(tmpFile, data, os.FileMode(0644)&^os.FileMode(f.umask)); err != nil {
		return err
	}
	if err := os.Rename(tmpFile, p); err != nil {
		if rmErr := os.Remove(tmpFile); rmErr != nil {
			f.logger.Warn("removing temp file", "path", tmpFile, "error", rmErr)
		}
		return err
	}
	return nil
}

func (f *File) Load(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkName(name); err != nil {
		return nil, err
	}
	d, err := os.ReadFile(f.Path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, notFound(name)
		}
		return nil, err
	}
	if !f.compress {
		return d, nil
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	res, err := dec.DecodeAll(d, nil)
	if err != nil {
		return nil, fmt.Errorf("decompressing %s: %w", name, err)
	}
	return res, nil
}
