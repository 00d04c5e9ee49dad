package schema

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/signadot/confdoc/coerce"
	"github.com/signadot/confdoc/ir"
	"github.com/signadot/confdoc/parse"
)

const testSchema = `{
  // server settings
  "port": { "%type": "uint16", "%default": 8080, "%settable": true, "%desc": "port to listen on" },
  "name": { "%type": "string" },
  "level": { "%type": "level", "%default": "info", "%settable": true },
  "peers": { "%type": ["IP_Port"], "%default": null, "%settable": true },
  "tls": { "%type": "tls_endpoint", "%default": null },
  "limits": {
    "%type": {
      "rps": { "%type": "int32", "%default": 100 },
      "burst": { "%type": "int8" }
    },
    "%default": { "burst": 5 }
  },
  "routes": { "%type": [{ "path": { "%type": "string" }, "weight": { "%type": "uint8", "%default": 1 } }], "%default": [] },
  "%enum level": ["debug", "info", "error"],
  "%struct endpoint abstract": { "addr": { "%type": "IP" } },
  "%struct tls_endpoint extends endpoint": { "cert": { "%type": "string", "%default": null } },
}`

func load(t *testing.T) *Schema {
	t.Helper()
	s, err := Load("server", []byte(testSchema))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestLoad(t *testing.T) {
	s := load(t)
	var names []string
	for _, f := range s.Root.Fields {
		names = append(names, f.Name)
	}
	want := []string{"level", "limits", "name", "peers", "port", "routes", "tls"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("fields (-want +got):\n%s", diff)
	}
	port := s.Root.Field("port")
	if port.Type.Kind != ScalarKind || port.Type.Scalar != coerce.KindUInt16 || !port.Settable {
		t.Errorf("port = %+v", port)
	}
	if port.Desc != "port to listen on" {
		t.Errorf("desc %q", port.Desc)
	}
	if s.Root.Field("name").Desc != "..." || s.Root.Field("name").Settable {
		t.Errorf("name defaults wrong")
	}
	if lt := s.Root.Field("level").Type; lt.Kind != EnumKind || !lt.Enum.Has("debug") {
		t.Errorf("level type %s", lt)
	}
	peers := s.Root.Field("peers").Type
	if peers.Kind != ArrayKind || peers.Elem.Kind != FormatKind || peers.Elem.Format != FormatIPPort {
		t.Errorf("peers type %s", peers)
	}
	tls := s.Root.Field("tls").Type
	if tls.Kind != StructKind || tls.Struct.Field("addr") == nil || tls.Struct.Field("cert") == nil {
		t.Errorf("tls did not inherit from endpoint")
	}
	if _, ok := s.Structs["endpoint"]; ok {
		t.Errorf("abstract struct kept")
	}
	if lim := s.Root.Field("limits").Type; lim.Kind != StructKind || lim.Struct.Name != "server__limits" {
		t.Errorf("inline struct %s", lim)
	}
	if r := s.Root.Field("routes").Type; r.Elem.Struct == nil || r.Elem.Struct.Name != "server__routes_elem" {
		t.Errorf("inline array struct %s", r)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := map[string]string{
		"no type":           `{"a": {"%desc": "x"}}`,
		"bad key":           `{"a": {"%type": "int8", "%bogus": 1}}`,
		"undefined type":    `{"a": {"%type": "nope"}}`,
		"bad default":       `{"a": {"%type": "int8", "%default": 300}}`,
		"bad sample":        `{"a": {"%type": "IP", "%sample": "1.2.3"}}`,
		"bad ident":         `{"a-b": {"%type": "int8"}}`,
		"reserved":          `{"_revision_": {"%type": "int8"}}`,
		"settable not bool": `{"a": {"%type": "int8", "%settable": 1}}`,
		"empty enum":        `{"%enum e": []}`,
		"dup via super":     `{"%struct a": {"x": {"%type": "int8"}}, "%struct b extends a": {"x": {"%type": "int8"}}}`,
		"undefined super":   `{"%struct b extends a": {}}`,
		"builtin name":      `{"%enum string": ["a"]}`,
		"abstract use":      `{"%struct a abstract": {}, "f": {"%type": "a"}}`,
		"array two elems":   `{"a": {"%type": ["int8", "int8"]}}`,
		"not object":        `[1]`,
		"cycle":             `{"%struct a extends b": {}, "%struct b extends a": {}}`,
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load("x", []byte(in))
			if !errors.Is(err, ErrSchema) {
				t.Errorf("got %v, want ErrSchema", err)
			}
		})
	}
}

func TestConform(t *testing.T) {
	s := load(t)
	doc, err := parse.ParseString(`{"name": "a", "port": 80, "peers": ["10.0.0.1:53"], "%end%": null}`)
	if err != nil {
		t.Fatal(err)
	}
	defaults, err := s.Conform(doc)
	if err != nil {
		t.Fatal(err)
	}
	want := Defaults{"level": true, "limits": true, "routes": true, "tls": true}
	if diff := cmp.Diff(want, defaults); diff != "" {
		t.Errorf("defaults (-want +got):\n%s", diff)
	}
	if ir.Get(doc, EndMarker) != nil {
		t.Errorf("end marker kept")
	}
	rps := ir.Get(ir.Get(doc, "limits"), "rps")
	if rps == nil || *rps.Int64 != 100 {
		t.Errorf("nested default not filled")
	}
}

func TestConformErrors(t *testing.T) {
	s := load(t)
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"missing", `{"port": 1}`, ErrMissing},
		{"undeclared", `{"name": "a", "extra": 1}`, ErrUndeclared},
		{"range", `{"name": "a", "port": 70000}`, coerce.ErrOutOfRange},
		{"enum", `{"name": "a", "level": "trace"}`, ErrType},
		{"format", `{"name": "a", "peers": ["10.0.0.1"]}`, ErrType},
		{"array kind", `{"name": "a", "peers": "10.0.0.1:1"}`, ErrType},
		{"nested missing", `{"name": "a", "limits": {"rps": 1}}`, ErrMissing},
		{"struct kind", `{"name": "a", "tls": 1}`, ErrType},
		{"null int", `{"name": "a", "port": null}`, coerce.ErrNotNullable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := parse.ParseString(tt.doc)
			if err != nil {
				t.Fatal(err)
			}
			_, err = s.Conform(doc)
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
			if !errors.Is(err, ErrType) {
				t.Errorf("expected ErrType in chain, got %v", err)
			}
		})
	}
}

func TestConformNullable(t *testing.T) {
	s := load(t)
	doc, _ := parse.ParseString(`{"name": null, "peers": null, "tls": null, "limits": null}`)
	if _, err := s.Conform(doc); err != nil {
		t.Errorf("nullable values rejected: %v", err)
	}
}

func TestFormats(t *testing.T) {
	tests := []struct {
		f    Format
		ok   []string
		fail []string
	}{
		{FormatIP, []string{"10.0.0.1", "::1"}, []string{"10.0.0", "1.2.3.256", "a b"}},
		{FormatMAC, []string{"00:1a:2b:3c:4d:5e"}, []string{"00-1a-2b-3c-4d-5e", "00:1a:2b:3c:4d"}},
		{FormatCIDR, []string{"10.0.0.0/8"}, []string{"10.0.0.0/33", "10.0.0.0"}},
		{FormatIPRange, []string{"10.0.0.1", "10.0.0.1~10.0.0.9"}, []string{"10.0.0.9~10.0.0.1", "10.0.0.1~::2"}},
		{FormatIPPort, []string{"10.0.0.1:80"}, []string{"10.0.0.1", "10.0.0.1:70000"}},
		{FormatImage, []string{"nginx", "docker.io/library/nginx:1.25"}, []string{"Not An Image", ""}},
	}
	for _, tt := range tests {
		for _, s := range tt.ok {
			if err := tt.f.Check(s); err != nil {
				t.Errorf("%s %q: %v", tt.f, s, err)
			}
		}
		for _, s := range tt.fail {
			if err := tt.f.Check(s); err == nil {
				t.Errorf("%s %q: expected error", tt.f, s)
			}
		}
	}
}

func TestLoadYAML(t *testing.T) {
	in := `
"port":
  "%type": uint16
  "%default": 8080
  "%settable": true
"hosts":
  "%type": [string]
"%enum mode": [a, b]
"mode":
  "%type": mode
  "%default": a
`
	s, err := LoadYAML("y", []byte(in))
	if err != nil {
		t.Fatal(err)
	}
	if f := s.Root.Field("port"); f == nil || !f.Settable || *f.Default.Int64 != 8080 {
		t.Errorf("port = %+v", f)
	}
	if f := s.Root.Field("mode"); f == nil || f.Type.Kind != EnumKind {
		t.Errorf("mode = %+v", f)
	}
}

func TestInfer(t *testing.T) {
	doc, _ := parse.ParseString(`{"a": 1, "b": "x", "c": [1, 2.5], "d": {"e": true}, "big": 18446744073709551615, "n": null, "l": []}`)
	s, err := Infer("doc", doc)
	if err != nil {
		t.Fatal(err)
	}
	types := map[string]string{}
	for _, f := range s.Root.Fields {
		if !f.Settable {
			t.Errorf("%s not settable", f.Name)
		}
		types[f.Name] = f.Type.String()
	}
	want := map[string]string{
		"a":   "int64",
		"b":   "string",
		"c":   "[float]",
		"d":   "struct doc__d",
		"big": "uint64",
		"n":   "string",
		"l":   "[string]",
	}
	if diff := cmp.Diff(want, types); diff != "" {
		t.Errorf("types (-want +got):\n%s", diff)
	}
	if _, err := s.Conform(doc); err != nil {
		t.Errorf("document does not conform to its own inferred schema: %v", err)
	}
}

func TestSample(t *testing.T) {
	s, err := Load("s", []byte(`{
  "a": {"%type": "int8", "%sample": 3, "%default": 1},
  "b": {"%type": "int8", "%default": 1},
  "c": {"%type": "string"}
}`))
	if err != nil {
		t.Fatal(err)
	}
	doc, defaults := s.Sample()
	if *ir.Get(doc, "a").Int64 != 3 || *ir.Get(doc, "b").Int64 != 1 || ir.Get(doc, "c").Type != ir.NullType {
		t.Errorf("sample values wrong")
	}
	if diff := cmp.Diff(Defaults{"b": true}, defaults); diff != "" {
		t.Errorf("defaults (-want +got):\n%s", diff)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "loadfile_test.json")
	if err := os.WriteFile(p, []byte(`{"a": {"%type": "bool"}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := LoadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if s.Name != "loadfile_test" || Lookup("loadfile_test") != s {
		t.Errorf("schema not registered")
	}
	again, err := LoadFile(p)
	if err != nil || again != s {
		t.Errorf("second load returned a different schema")
	}
}
