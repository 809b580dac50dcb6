package ssb

import "strings"

// phraseEncoder substitutes the characters the provider's search
// endpoint cannot take raw: URL punctuation plus the Norwegian extended
// letters. The replacement strings contain none of the replaced
// characters, so encoding is idempotent.
var phraseEncoder = strings.NewReplacer(
	"æ", "%C3%A6",
	"Æ", "%C3%86",
	"ø", "%C3%B8",
	"Ø", "%C3%98",
	"å", "%C3%A5",
	"Å", "%C3%85",
	`"`, "%22",
	"(", "%28",
	")", "%29",
	" ", "%20",
)

// EncodePhrase percent-encodes a search phrase the way the provider
// expects. Wildcard truncation markers (*) pass through untouched.
func EncodePhrase(phrase string) string {
	return phraseEncoder.Replace(phrase)
}
