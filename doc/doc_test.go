package doc

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/signadot/confdoc/encode"
	"github.com/signadot/confdoc/guard"
	"github.com/signadot/confdoc/ir"
	"github.com/signadot/confdoc/parse"
	"github.com/signadot/confdoc/schema"
	"github.com/signadot/confdoc/store"
)

const testSchema = `{
  "a": {"%type": "int8", "%default": 0, "%settable": true},
  "ro": {"%type": "string", "%default": "fixed"},
  "list": {"%type": ["int64"], "%default": [], "%settable": true},
  "fixed": {"%type": ["int64"], "%default": [1]},
  "peers": {"%type": ["IP"], "%default": null, "%settable": true},
  "srv": {"%type": "server", "%default": null, "%settable": true},
  "inner": {
    "%type": {
      "port": {"%type": "uint16", "%default": 80, "%settable": true, "%check": "value >= 80"},
      "name": {"%type": "string", "%default": "x"}
    },
    "%default": {},
    "%settable": true
  },
  "level": {"%type": "level", "%default": "info", "%settable": true},
  "%enum level": ["debug", "info"],
  "%struct server": {"host": {"%type": "string", "%settable": true}}
}`

func testDoc(t *testing.T, text string, opts ...Option) *Document {
	t.Helper()
	s, err := schema.Load("test", []byte(testSchema))
	if err != nil {
		t.Fatal(err)
	}
	tree, err := parse.ParseString(text)
	if err != nil {
		t.Fatal(err)
	}
	d, err := New(tree, s, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func wireOf(t *testing.T, d *Document) string {
	t.Helper()
	n, err := d.Get("")
	if err != nil {
		t.Fatal(err)
	}
	return encode.MustString(n, encode.EncodeWire(true))
}

func TestOutcomes(t *testing.T) {
	tests := []struct {
		name  string
		req   Request
		want  Code
		value string
	}{
		{"empty key", Request{Key: ""}, InvalidRequestFormat, ""},
		{"bad key", Request{Key: "a..b"}, InvalidRequestFormat, ""},
		{"wildcard", Request{Key: "list[*]", Value: "1"}, InvalidRequestFormat, ""},
		{"unknown op", Request{Key: "a", Op: Op(9)}, InvalidRequestFormat, ""},
		{"no field", Request{Key: "nope", Value: "1"}, NoSuchField, ""},
		{"no intermediate", Request{Key: "nope.x", Value: "1"}, NoSuchField, ""},
		{"deref null", Request{Key: "srv.host", Value: `"h"`}, DerefNull, ""},
		{"deref primitive", Request{Key: "a.b", Value: "1"}, DerefPrimitive, ""},
		{"bad index", Request{Key: "list.x", Value: "1"}, BadIndex, ""},
		{"index on struct", Request{Key: "inner[0]", Value: "1"}, NoSuchField, ""},
		{"index out of range", Request{Key: "list[5]", Value: "1"}, IndexOutOfRange, ""},
		{"json parse", Request{Key: "a", Value: "{"}, JSONParse, ""},
		{"json parse first", Request{Key: "ro", Value: "{"}, JSONParse, ""},
		{"not settable", Request{Key: "ro", Value: `"y"`}, NotSettable, ""},
		{"not settable element", Request{Key: "fixed[0]", Value: "2"}, NotSettable, ""},
		{"int8 range", Request{Key: "a", Value: "128"}, IncompatibleVal, ""},
		{"decimal string", Request{Key: "a", Value: `"1"`}, IncompatibleVal, ""},
		{"hex string", Request{Key: "a", Value: `"0x7f"`}, IncompatibleVal, ""},
		{"hex string checked field", Request{Key: "inner.port", Value: `"0x100"`}, IncompatibleVal, ""},
		{"enum", Request{Key: "level", Value: `"warn"`}, IncompatibleVal, ""},
		{"format", Request{Key: "peers", Value: `["1.2.3"]`}, IncompatibleVal, ""},
		{"update", Request{Key: "a", Value: "-128"}, OK, "-128"},
		{"update enum", Request{Key: "level", Value: `"debug"`}, OK, `"debug"`},
		{"update element", Request{Key: "list[1]", Value: "7"}, OK, "7"},
		{"update dotted element", Request{Key: "list.1", Value: "7"}, OK, "7"},
		{"update struct", Request{Key: "inner", Value: `{"port": 81}`}, OK, `{"port":81,"name":"x"}`},
		{"update null struct", Request{Key: "srv", Value: `{"host": "h"}`}, OK, `{"host":"h"}`},
		{"check rule", Request{Key: "inner.port", Value: "79"}, RejectedByApp, ""},
		{"check rule passes", Request{Key: "inner.port", Value: "8080"}, OK, "8080"},
		{"insert not array", Request{Key: "a", Op: Insert, Value: "1"}, NotAnArray, ""},
		{"insert not settable", Request{Key: "fixed", Op: Insert, Value: "1"}, NotSettable, ""},
		{"insert into element", Request{Key: "list[0]", Op: Insert, Value: "1"}, NotAnArray, ""},
		{"insert bad index", Request{Key: "list", Op: Insert, Index: -2, Value: "1"}, BadIndex, ""},
		{"insert past end", Request{Key: "list", Op: Insert, Index: 3, Value: "1"}, IndexOutOfRange, ""},
		{"insert at end", Request{Key: "list", Op: Insert, Index: 2, Value: "3"}, OK, "3"},
		{"insert append", Request{Key: "list", Op: Insert, Index: -1, Value: "3"}, OK, "3"},
		{"insert front", Request{Key: "list", Op: Insert, Value: "0"}, OK, "0"},
		{"insert json parse", Request{Key: "list", Op: Insert, Value: "["}, JSONParse, ""},
		{"insert wrong type", Request{Key: "list", Op: Insert, Index: -1, Value: `"x"`}, IncompatibleVal, ""},
		{"insert hex string", Request{Key: "list", Op: Insert, Index: -1, Value: `"0xff"`}, IncompatibleVal, ""},
		{"insert into null", Request{Key: "peers", Op: Insert, Value: `"10.0.0.1"`}, OK, `"10.0.0.1"`},
		{"insert into null past end", Request{Key: "peers", Op: Insert, Index: 1, Value: `"10.0.0.1"`}, IndexOutOfRange, ""},
		{"remove null", Request{Key: "peers", Op: Remove}, EmptyArray, ""},
		{"remove last", Request{Key: "list", Op: Remove, Index: -1}, OK, "2"},
		{"remove first", Request{Key: "list", Op: Remove}, OK, "1"},
		{"remove at length", Request{Key: "list", Op: Remove, Index: 2}, IndexOutOfRange, ""},
		{"remove bad index", Request{Key: "list", Op: Remove, Index: -3}, BadIndex, ""},
		{"remove not array", Request{Key: "a", Op: Remove}, NotAnArray, ""},
		{"remove not settable", Request{Key: "fixed", Op: Remove}, NotSettable, ""},
	}
	ctx := context.Background()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := testDoc(t, `{"a": 1, "list": [1, 2]}`)
			before := wireOf(t, d)

			check := tc.req
			check.CheckOnly = true
			res := d.Apply(ctx, check)
			if res.Code != tc.want {
				t.Fatalf("check only: got %s (%s), want %s", res.Code, res.Message, tc.want)
			}
			if d.Revision() != 0 || wireOf(t, d) != before {
				t.Fatalf("check only changed the document")
			}
			if tc.value != "" {
				if got := encode.MustString(res.Value, encode.EncodeWire(true)); got != tc.value {
					t.Errorf("check only value: got %s want %s", got, tc.value)
				}
			}

			res = d.Apply(ctx, tc.req)
			if res.Code != tc.want {
				t.Fatalf("got %s (%s), want %s", res.Code, res.Message, tc.want)
			}
			if tc.want != OK {
				if d.Revision() != 0 || wireOf(t, d) != before {
					t.Errorf("failed request changed the document")
				}
				if !errors.Is(res.Err(), NewError(tc.want, "")) {
					t.Errorf("Err() %v does not match %s", res.Err(), tc.want)
				}
				return
			}
			if d.Revision() != 1 {
				t.Errorf("revision %d", d.Revision())
			}
			if got := encode.MustString(res.Value, encode.EncodeWire(true)); got != tc.value {
				t.Errorf("value: got %s want %s", got, tc.value)
			}
			if tc.req.Op == Update {
				got, err := d.Get(tc.req.Key)
				if err != nil {
					t.Fatal(err)
				}
				if !ir.Equal(got, res.Value) {
					t.Errorf("read back %s", encode.MustString(got, encode.EncodeWire(true)))
				}
			}
		})
	}
}

func TestPrecedence(t *testing.T) {
	ctx := context.Background()
	d := testDoc(t, `{"a": 1, "list": [1, 2]}`)
	tests := []struct {
		req  Request
		want Code
	}{
		{Request{Revision: 3, Key: "a..", Value: "1"}, InvalidRequestFormat},
		{Request{Revision: 3, Key: "nope", Value: "1"}, WrongRevision},
		{Request{Revision: 3, Key: "a", Value: "1"}, WrongRevision},
		{Request{Key: "nope", Value: "{"}, NoSuchField},
		{Request{Key: "list", Op: Insert, Index: 9, Value: "{"}, IndexOutOfRange},
		{Request{Key: "ro", Op: Remove, Index: 9}, NotSettable},
	}
	for _, tc := range tests {
		if res := d.Apply(ctx, tc.req); res.Code != tc.want {
			t.Errorf("%+v: got %s (%s), want %s", tc.req, res.Code, res.Message, tc.want)
		}
	}
}

func TestScenario(t *testing.T) {
	ctx := context.Background()
	tree, err := parse.ParseString(`{"a":1,"list":[1,2]}`)
	if err != nil {
		t.Fatal(err)
	}
	d, err := New(tree, nil)
	if err != nil {
		t.Fatal(err)
	}
	if d.Revision() != 0 {
		t.Fatalf("revision %d", d.Revision())
	}

	res := d.Update(ctx, 0, "a", "2")
	if res.Code != OK || encode.MustString(res.Value) != "2" || d.Revision() != 1 {
		t.Fatalf("step 1: %+v rev %d", res, d.Revision())
	}

	res = d.Update(ctx, 0, "a", "3")
	if res.Code != WrongRevision || d.Revision() != 1 {
		t.Fatalf("step 2: %+v rev %d", res, d.Revision())
	}
	if got := wireOf(t, d); got != `{"a":2,"list":[1,2]}` {
		t.Fatalf("step 2: %s", got)
	}

	res = d.InsertAt(ctx, 1, "list", 2, "3")
	if res.Code != OK || d.Revision() != 2 {
		t.Fatalf("step 3: %+v rev %d", res, d.Revision())
	}
	if got := wireOf(t, d); got != `{"a":2,"list":[1,2,3]}` {
		t.Fatalf("step 3: %s", got)
	}

	res = d.RemoveAt(ctx, 2, "list", 0)
	if res.Code != OK || encode.MustString(res.Value) != "1" || d.Revision() != 3 {
		t.Fatalf("step 4: %+v rev %d", res, d.Revision())
	}
	if got := wireOf(t, d); got != `{"a":2,"list":[2,3]}` {
		t.Fatalf("step 4: %s", got)
	}
}

func TestGuards(t *testing.T) {
	ctx := context.Background()
	veto := func(name string) guard.Guard {
		return guard.Func(func(ctx context.Context, c *guard.Change) error {
			if c.Key == "a" {
				return guard.Reject(name, "a is frozen")
			}
			return nil
		})
	}
	d := testDoc(t, `{"a": 1, "list": [1, 2]}`,
		WithAppGuards(veto("app"), guard.MustCompile("short", "len(value) <= 2")),
		WithCmdGuards(veto("cmd")))
	res := d.Update(ctx, 0, "a", "2")
	if res.Code != RejectedByApp || !strings.Contains(res.Message, "a is frozen") {
		t.Errorf("got %+v", res)
	}
	res = d.InsertAt(ctx, 0, "list", -1, "3", CheckOnly())
	if res.Code != RejectedByApp {
		t.Errorf("rule: got %+v", res)
	}
	if res := d.RemoveAt(ctx, 0, "list", -1); res.Code != OK {
		t.Errorf("got %+v", res)
	}

	d = testDoc(t, `{"a": 1}`, WithCmdGuards(veto("cmd")))
	if res := d.Update(ctx, 0, "a", "2"); res.Code != RejectedByCmd {
		t.Errorf("got %+v", res)
	}
	if d.Revision() != 0 {
		t.Errorf("vetoed change committed")
	}
}

func TestGuardChange(t *testing.T) {
	ctx := context.Background()
	var got *guard.Change
	spy := guard.Func(func(ctx context.Context, c *guard.Change) error {
		got = c
		return nil
	})
	d := testDoc(t, `{"list": [1, 2]}`, WithAppGuards(spy))
	if res := d.InsertAt(ctx, 0, "list", 1, "5"); res.Code != OK {
		t.Fatalf("got %+v", res)
	}
	if got.Op != guard.OpInsert || got.Field.Name != "list" || got.Index != 1 {
		t.Errorf("change %+v", got)
	}
	wire := func(n *ir.Node) string { return encode.MustString(n, encode.EncodeWire(true)) }
	if wire(got.New) != "[1,5,2]" || wire(got.Elem) != "5" {
		t.Errorf("new %s elem %s", wire(got.New), wire(got.Elem))
	}
}

func TestPanicIsUnreachable(t *testing.T) {
	ctx := context.Background()
	boom := guard.Func(func(ctx context.Context, c *guard.Change) error {
		panic("boom")
	})
	d := testDoc(t, `{"a": 1}`, WithAppGuards(boom))
	res := d.Update(ctx, 0, "a", "2")
	if res.Code != Unreachable {
		t.Fatalf("got %+v", res)
	}
	if d.Revision() != 0 {
		t.Errorf("revision %d", d.Revision())
	}
	// the lock was released
	if res := d.Update(ctx, 0, "nope", "2"); res.Code != NoSuchField {
		t.Errorf("got %+v", res)
	}
}

type failingStore struct {
	store.Store
	fail bool
}

func (f *failingStore) Save(ctx context.Context, name string, data []byte) error {
	if f.fail {
		return errors.New("disk full")
	}
	return f.Store.Save(ctx, name, data)
}

func TestSave(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	d := testDoc(t, `{"list": [1]}`, WithStore(st, "cfg"))
	if !d.Defaults()["a"] {
		t.Fatal("a not defaulted")
	}
	if res := d.Update(ctx, 0, "a", "5", Save()); res.Code != OK {
		t.Fatalf("got %+v", res)
	}
	if d.Defaults()["a"] {
		t.Error("a still defaulted after update")
	}
	data, err := st.Load(ctx, "cfg")
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	for _, want := range []string{`"a": 5,`, `//"ro": %default,`, `"%end%": null`, `// field: list`} {
		if !strings.Contains(text, want) {
			t.Errorf("saved text lacks %q:\n%s", want, text)
		}
	}
	back, err := Open(ctx, st, "cfg", d.Schema())
	if err != nil {
		t.Fatal(err)
	}
	want, _ := d.Get("")
	got, _ := back.Get("")
	if diff := cmp.Diff(encode.MustString(want), encode.MustString(got)); diff != "" {
		t.Errorf("reopened (-want +got):\n%s", diff)
	}
	if !back.Defaults()["ro"] || back.Defaults()["a"] {
		t.Errorf("reopened defaults %v", back.Defaults())
	}
}

func TestFailedToSave(t *testing.T) {
	ctx := context.Background()
	st := &failingStore{Store: store.NewMemory(), fail: true}
	d := testDoc(t, `{"a": 1}`, WithStore(st, "cfg"))
	res := d.Update(ctx, 0, "a", "2", Save())
	if res.Code != FailedToSave || !res.Code.Retriable() {
		t.Fatalf("got %+v", res)
	}
	if encode.MustString(res.Value) != "2" {
		t.Errorf("value %v", res.Value)
	}
	if d.Revision() != 1 {
		t.Errorf("revision %d", d.Revision())
	}
	if got, _ := d.Get("a"); encode.MustString(got) != "2" {
		t.Errorf("mutation not retained")
	}
	st.fail = false
	if err := d.Save(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := st.Load(ctx, "cfg"); err != nil {
		t.Error(err)
	}
}

func TestSaveWithoutStore(t *testing.T) {
	d := testDoc(t, `{"a": 1}`)
	if res := d.Update(context.Background(), 0, "a", "2", CheckOnly(), Save()); res.Code != General {
		t.Fatalf("check only: got %+v", res)
	}
	if res, _ := d.Preview(context.Background(), Request{Key: "a", Value: "2", Save: true}); res.Code != General {
		t.Fatalf("preview: got %+v", res)
	}
	res := d.Update(context.Background(), 0, "a", "2", Save())
	if res.Code != General {
		t.Fatalf("got %+v", res)
	}
	if d.Revision() != 0 {
		t.Errorf("revision %d", d.Revision())
	}
	if err := d.Save(context.Background()); !errors.Is(err, ErrNoStore) {
		t.Errorf("got %v", err)
	}
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(context.Background(), store.NewMemory(), "nope", nil)
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("got %v", err)
	}
}

func TestJournalReplay(t *testing.T) {
	ctx := context.Background()
	d := testDoc(t, `{"a": 1, "list": [1, 2]}`)
	steps := []Request{
		{Key: "a", Value: "3"},
		{Key: "list", Op: Insert, Index: -1, Value: "9"},
		{Key: "list", Op: Remove, Index: 0},
		{Key: "peers", Op: Insert, Value: `"10.0.0.1"`},
		{Key: "inner.port", Value: "443"},
		{Key: "srv", Value: `{"host": "a/b~c"}`},
	}
	for i, req := range steps {
		req.Revision = int64(i)
		if res := d.Apply(ctx, req); res.Code != OK {
			t.Fatalf("step %d: %+v", i, res)
		}
	}
	entries := d.Journal()
	if len(entries) != len(steps) {
		t.Fatalf("%d entries", len(entries))
	}
	for i, e := range entries {
		if e.Revision != int64(i+1) || e.ID == "" {
			t.Errorf("entry %d: %+v", i, e)
		}
	}
	replayed, err := d.ReplayTree()
	if err != nil {
		t.Fatal(err)
	}
	cur, _ := d.Get("")
	if diff := cmp.Diff(encode.MustString(cur), encode.MustString(replayed)); diff != "" {
		t.Errorf("replay (-want +got):\n%s", diff)
	}
}

func TestPrettyPrint(t *testing.T) {
	tree, err := parse.ParseString(`{"b": [1], "a": "x"}`)
	if err != nil {
		t.Fatal(err)
	}
	d, err := New(tree, nil)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		mode encode.Mode
		key  string
		want string
	}{
		{encode.PlainMode, "", "0:{\n  a: \"x\"\n  b: [\n    1\n  ]\n\n  %end%: null\n}\n"},
		{encode.JSONMode, "", "0:{\n  \"a\": \"x\",\n  \"b\": [\n    1\n  ],\n\n  \"%end%\": null\n}\n"},
		{encode.JSONMode, "b[0]", "0:1\n"},
		{encode.PlainMode, "a", "0:\"x\"\n"},
	}
	for _, tc := range tests {
		buf := bytes.NewBuffer(nil)
		if err := d.PrettyPrint(buf, tc.mode, 0, tc.key); err != nil {
			t.Fatal(err)
		}
		if buf.String() != tc.want {
			t.Errorf("%s %q: got %q want %q", tc.mode, tc.key, buf.String(), tc.want)
		}
	}
	buf := bytes.NewBuffer(nil)
	err = d.PrettyPrint(buf, encode.PlainMode, 0, "nope")
	var se *encode.ScopeError
	if !errors.As(err, &se) {
		t.Fatalf("got %v", err)
	}
	if !strings.HasPrefix(buf.String(), "[Error] ") {
		t.Errorf("wrote %q", buf.String())
	}
}

func TestPreview(t *testing.T) {
	d := testDoc(t, `{"a": 1, "list": [1, 2]}`)
	res, diff := d.Preview(context.Background(), Request{Key: "a", Value: "5"})
	if res.Code != OK {
		t.Fatalf("got %+v", res)
	}
	if !strings.Contains(diff, "-  a: 1\n") || !strings.Contains(diff, "+  a: 5\n") {
		t.Errorf("diff:\n%s", diff)
	}
	if d.Revision() != 0 {
		t.Error("preview committed")
	}
	res, diff = d.Preview(context.Background(), Request{Key: "a", Value: "500"})
	if res.Code != IncompatibleVal || diff != "" {
		t.Errorf("got %+v %q", res, diff)
	}
}

func TestConcurrentUpdates(t *testing.T) {
	ctx := context.Background()
	d := testDoc(t, `{"a": 1}`)
	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int64
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				res := d.Update(ctx, d.Revision(), "a", "2")
				switch res.Code {
				case OK:
					mu.Lock()
					ok++
					mu.Unlock()
				case WrongRevision:
				default:
					t.Errorf("got %+v", res)
				}
			}
		}()
	}
	wg.Wait()
	if d.Revision() != ok {
		t.Errorf("revision %d after %d successful updates", d.Revision(), ok)
	}
}

func TestCodeText(t *testing.T) {
	for _, c := range Codes() {
		d, err := c.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var back Code
		if err := back.UnmarshalText(d); err != nil {
			t.Fatal(err)
		}
		if back != c {
			t.Errorf("%s round tripped to %s", c, back)
		}
	}
	if len(Codes()) != 18 {
		t.Errorf("%d codes", len(Codes()))
	}
	if _, err := Code(99).MarshalText(); err == nil {
		t.Error("expected error")
	}
	err := Result{Code: WrongRevision, Message: "x"}.Err()
	if !errors.Is(err, ErrWrongRevision) || errors.Is(err, ErrGeneral) {
		t.Errorf("errors.Is by code failed for %v", err)
	}
	if (Result{Code: OK}).Err() != nil {
		t.Error("OK has an error")
	}
}

func TestVerify(t *testing.T) {
	d := testDoc(t, `{"inner": {"port": 8080}}`)
	if err := d.Verify(); err != nil {
		t.Errorf("got %v", err)
	}
	d = testDoc(t, `{"inner": {"port": 22}}`)
	if err := d.Verify(); !errors.Is(err, guard.ErrRejected) {
		t.Errorf("got %v", err)
	}
}
