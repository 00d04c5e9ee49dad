package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/signadot/confdoc/doc"
	"github.com/signadot/confdoc/store"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadConfig(t *testing.T) {
	p := writeFile(t, "confdoc.yaml", `
schema: server.yaml
store:
  kind: bolt
  path: docs.db
  retry:
    maxElapsed: 30s
    max: 3
guards:
- name: high-port
  rule: 'key != "port" || value >= 1024'
`)
	cfg, err := LoadConfig(p)
	if err != nil {
		t.Fatal(err)
	}
	want := &Config{
		Schema: "server.yaml",
		Store: StoreConfig{
			Kind:  storeBolt,
			Path:  "docs.db",
			Retry: &RetryConfig{MaxElapsed: "30s", Max: 3},
		},
		Guards: []GuardConfig{{Name: "high-port", Rule: `key != "port" || value >= 1024`}},
		Log:    LogConfig{Level: "warn"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config (-want +got):\n%s", diff)
	}
	gs, err := cfg.guards()
	if err != nil || len(gs) != 1 {
		t.Errorf("guards %v %v", gs, err)
	}
}

func TestConfigErrors(t *testing.T) {
	tests := map[string]string{
		"kind":     "store: {kind: s3}",
		"bolt":     "store: {kind: bolt}",
		"redis":    "store: {kind: redis}",
		"postgres": "store: {kind: postgres}",
		"retry":    "store: {retry: {maxElapsed: soon}}",
		"level":    "log: {level: loud}",
		"guard":    "guards: [{rule: 'value >'}]",
		"yaml":     "store: [",
	}
	for name, text := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadConfig(writeFile(t, "c.yaml", text)); err == nil {
				t.Error("expected error")
			}
		})
	}
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "none.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestConfigLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Log.Level = "debug"
	level, err := cfg.level()
	if err != nil || level != slog.LevelDebug {
		t.Errorf("got %v %v", level, err)
	}
}

func TestOpenBackendFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.json")
	if err := os.WriteFile(path, []byte(`{"a": 1}`), 0644); err != nil {
		t.Fatal(err)
	}
	sc := &StoreConfig{Kind: storeFile, Retry: &RetryConfig{Max: 2}}
	b, err := openBackend(ctx, sc, path, slog.Default())
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()
	if b.name != "cfg.json" {
		t.Errorf("name %q", b.name)
	}
	if _, ok := b.Store.(*store.Retry); !ok {
		t.Errorf("store %T not wrapped", b.Store)
	}
	data, err := b.Load(ctx, b.name)
	if err != nil || string(data) != `{"a": 1}` {
		t.Errorf("got %q %v", data, err)
	}

	sc = &StoreConfig{Kind: storeFile, Root: dir}
	b, err = openBackend(ctx, sc, "cfg.json", slog.Default())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := b.Store.(*store.File); !ok {
		t.Errorf("store %T", b.Store)
	}
}

func TestOpenDoc(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.json")
	if err := os.WriteFile(path, []byte(`{"port": 8080}`), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := &MainConfig{
		Config: DefaultConfig(),
		Logger: slog.Default(),
	}
	cfg.Config.Guards = []GuardConfig{{Name: "high-port", Rule: `value >= 1024`}}
	d, b, err := cfg.openDoc(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()
	res := d.Update(ctx, 0, "port", "80")
	if res.Code.String() != "REJECTED_BY_CMD" {
		t.Errorf("got %+v", res)
	}
	res = d.Update(ctx, 0, "port", "8081", doc.Save())
	if res.Err() != nil {
		t.Fatal(res.Err())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte(`"port": 8081`)) {
		t.Errorf("saved:\n%s", data)
	}
}
