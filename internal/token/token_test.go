package token

import "testing"

func TestKindString(t *testing.T) {
	if got := LBracket.String(); got != "'['" {
		t.Fatalf("LBracket = %q", got)
	}
	if got := Kind(200).String(); got != "invalid" {
		t.Fatalf("out of range kind = %q", got)
	}
}

func TestUnquote(t *testing.T) {
	cases := map[string]string{
		`"Books"`: "Books",
		`'it\'s'`: "it's",
		`"a\\b"`:  `a\b`,
		`""`:      "",
	}
	for text, want := range cases {
		if got := (Token{Kind: StringLit, Text: text}).Unquote(); got != want {
			t.Fatalf("Unquote(%s) = %q, want %q", text, got, want)
		}
	}
}
