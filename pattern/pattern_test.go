package pattern

import "testing"

func TestMatchCaseSensitive(t *testing.T) {
	// spec §8 scenario 6: `*FOO` must not match "foo" case-insensitively.
	cases := []struct {
		pat, s string
		want   bool
	}{
		{"*foo", "./bar/foo", true},
		{"*FOO", "./bar/foo", false},
		{"foo", "foo", true},
		{"foo", "foobar", false},
		{"fo?", "foo", true},
		{"[fF]oo", "Foo", true},
		{"[!f]oo", "foo", false},
	}
	for _, tc := range cases {
		p := Compile(tc.pat, EntireString)
		if got := p.Match(tc.s); got != tc.want {
			t.Errorf("Compile(%q).Match(%q) = %v, want %v", tc.pat, tc.s, got, tc.want)
		}
	}
}

func TestCompileFallsBackToLiteralOnSyntaxError(t *testing.T) {
	p := Compile("[unterminated", EntireString)
	if !p.Match("[unterminated") {
		t.Errorf("malformed pattern should fall back to a literal match of itself")
	}
	if p.Match("anything else") {
		t.Errorf("literal fallback should not match unrelated input")
	}
}

func TestFindPrefixLenShortestVsLongest(t *testing.T) {
	// Used by ${p#w} (shortest) vs ${p##w} (longest) prefix removal: here we
	// exercise prefix-anchored matching of "a*b" against "axbxb" to show
	// Shortest vs default (longest) greediness.
	longest := Compile("a*b", 0)
	shortest := Compile("a*b", Shortest)

	if got := longest.FindPrefixLen("axbxb"); got != len("axbxb") {
		t.Errorf("longest FindPrefixLen = %d, want %d", got, len("axbxb"))
	}
	if got := shortest.FindPrefixLen("axbxb"); got != len("axb") {
		t.Errorf("shortest FindPrefixLen = %d, want %d", got, len("axb"))
	}
}

func TestQuoteMetaRoundTrip(t *testing.T) {
	raw := `foo*bar?[x]`
	quoted := QuoteMeta(raw)
	p := Compile(quoted, EntireString)
	if !p.Match(raw) {
		t.Errorf("QuoteMeta(%q) pattern should match the literal text", raw)
	}
	if p.Match("fooXbarY") {
		t.Errorf("QuoteMeta(%q) pattern should not glob-match", raw)
	}
}

func TestHasMeta(t *testing.T) {
	if HasMeta(`foo\*bar`) {
		t.Errorf(`HasMeta(foo\*bar) should be false: the star is escaped`)
	}
	if !HasMeta(`foo*bar`) {
		t.Errorf("HasMeta(foo*bar) should be true")
	}
}
