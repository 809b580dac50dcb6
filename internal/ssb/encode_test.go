package ssb

import (
	"strings"
	"testing"
)

func TestEncodePhrase_SubstitutesEverySpecialCharacter(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"lønn", "l%C3%B8nn"},
		{"LØNN", "L%C3%98NN"},
		{"værstasjon", "v%C3%A6rstasjon"},
		{"VÆRSTASJON", "V%C3%86RSTASJON"},
		{"påske", "p%C3%A5ske"},
		{"PÅSKE", "P%C3%85SKE"},
		{`say "hi"`, "say%20%22hi%22"},
		{"tax (income)", "tax%20%28income%29"},
		{"export parrot", "export%20parrot"},
		{"pharma*", "pharma*"},
	}
	for _, tc := range cases {
		if got := EncodePhrase(tc.in); got != tc.want {
			t.Fatalf("EncodePhrase(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestEncodePhrase_DeterministicAndIdempotent(t *testing.T) {
	phrase := `lønn (ansatte) "kvartal" åØæ`

	first := EncodePhrase(phrase)
	second := EncodePhrase(phrase)
	if first != second {
		t.Fatalf("encoding is not deterministic: %q vs %q", first, second)
	}
	if again := EncodePhrase(first); again != first {
		t.Fatalf("encoding is not idempotent: %q -> %q", first, again)
	}
	if strings.ContainsAny(first, ` ()"æÆøØåÅ`) {
		t.Fatalf("encoded phrase %q still contains unencoded special characters", first)
	}
}
