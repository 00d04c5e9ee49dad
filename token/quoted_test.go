package token

import "testing"

func TestQuoteRoundTrip(t *testing.T) {
	for _, s := range []string{
		`"`,
		`'`,
		"\t\n\r\b\f",
		"\x01ctl",
		"∞∞",
		`"""''`,
		`''"∞∞""''`,
		`back\slash`,
		`f[0]`,
		"",
	} {
		for _, auto := range []bool{false, true} {
			q := Quote(s, auto)
			uq, err := Unquote(q)
			if err != nil {
				t.Errorf("error unquoting %q (from %q): %v", q, s, err)
				continue
			}
			if uq != s {
				t.Errorf("unquote(quote(%q, %t)) = %q", s, auto, uq)
			}
		}
	}
}

func TestQuoteJSON(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`plain`, `"plain"`},
		{`say "hi"`, `"say \"hi\""`},
		{`a\b`, `"a\\b"`},
		{"line\nbreak", `"line\nbreak"`},
		{"\x01", `"\u0001"`},
		{`it's`, `"it's"`},
	}
	for _, tt := range tests {
		if got := Quote(tt.in, false); got != tt.want {
			t.Errorf("Quote(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestKPathQuoteField(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"a", false},
		{"snake_case", false},
		{"kebab-case", false},
		{"field name", true},
		{"a.b", true},
		{"a[0]", true},
		{"0", true},
		{"true", true},
		{"", true},
	}
	for _, tt := range tests {
		if got := KPathQuoteField(tt.in); got != tt.want {
			t.Errorf("KPathQuoteField(%q) = %t, want %t", tt.in, got, tt.want)
		}
	}
}

func TestQuotedLen(t *testing.T) {
	n, err := QuotedLen([]byte(`"ab\"c".rest`))
	if err != nil {
		t.Fatal(err)
	}
	if n != 7 {
		t.Errorf("got %d, want 7", n)
	}
	if _, err := QuotedLen([]byte(`"open`)); err == nil {
		t.Errorf("expected error for unterminated literal")
	}
}
