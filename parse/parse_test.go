package parse

import (
	"errors"
	"testing"

	"github.com/signadot/confdoc/ir"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want *ir.Node
	}{
		{"null", "null", ir.Null()},
		{"bool", " true ", ir.FromBool(true)},
		{"int", "42", ir.FromInt(42)},
		{"negative", "-7", ir.FromInt(-7)},
		{"float", "1.5", ir.FromFloat(1.5)},
		{"string", `"a\"b\n"`, ir.FromString("a\"b\n")},
		{"empty array", "[]", ir.FromSlice(nil)},
		{"empty object", "{}", ir.FromKeyVals(nil)},
		{
			"nested",
			`{"a":1,"list":[1,2],"o":{"s":"x","n":null}}`,
			ir.FromKeyVals([]ir.KeyVal{
				{Key: "a", Val: ir.FromInt(1)},
				{Key: "list", Val: ir.FromSlice([]*ir.Node{ir.FromInt(1), ir.FromInt(2)})},
				{Key: "o", Val: ir.FromKeyVals([]ir.KeyVal{
					{Key: "s", Val: ir.FromString("x")},
					{Key: "n", Val: ir.Null()},
				})},
			}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseString(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if !ir.Equal(got, tt.want) {
				t.Errorf("Parse(%q) mismatch", tt.in)
			}
		})
	}
}

func TestParseKeepsNumberText(t *testing.T) {
	for _, in := range []string{"18446744073709551615", "-9223372036854775809", "0.10"} {
		got, err := ParseString(in)
		if err != nil {
			t.Fatal(err)
		}
		if got.Type != ir.NumberType || got.Number != in {
			t.Errorf("Parse(%q) = %s %q", in, got.Type, got.Number)
		}
	}
}

func TestParseFieldOrderAndLinks(t *testing.T) {
	got, err := ParseString(`{"z":1,"a":[true]}`)
	if err != nil {
		t.Fatal(err)
	}
	if got.Fields[0].String != "z" || got.Fields[1].String != "a" {
		t.Errorf("field order not kept")
	}
	elt := got.Values[1].Values[0]
	if elt.KPath() != "a[0]" {
		t.Errorf("bad parent links: %q", elt.KPath())
	}
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{
		"",
		"   ",
		"{",
		"[1,]",
		`{"a" 1}`,
		`{"a":1,"a":2}`,
		"1 2",
		"nul",
		"// comment\n1",
	} {
		_, err := ParseString(in)
		if !errors.Is(err, ErrParse) {
			t.Errorf("Parse(%q) error = %v, want ErrParse", in, err)
		}
	}
}

func TestParseDuplicates(t *testing.T) {
	got, err := ParseString(`{"a":1,"a":2}`, AllowDuplicates())
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Fields) != 1 || *got.Values[0].Int64 != 2 {
		t.Errorf("expected last value to win")
	}
}

func TestParseJWCC(t *testing.T) {
	in := `{
  // port to listen on
  "port": 8080,
  "hosts": [
    "a",
    "b",
  ],
}`
	got, err := ParseString(in, ParseJWCC())
	if err != nil {
		t.Fatal(err)
	}
	if n := ir.Get(got, "hosts"); n == nil || len(n.Values) != 2 {
		t.Errorf("hosts not parsed")
	}
	if n := ir.Get(got, "port"); n == nil || *n.Int64 != 8080 {
		t.Errorf("port not parsed")
	}
}
