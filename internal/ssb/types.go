package ssb

import "strings"

// Language selects the locale the provider answers in. Searches, table
// titles, variable texts and the time-axis labels all follow it.
type Language string

const (
	LanguageEN Language = "en"
	LanguageNO Language = "no"
)

// Valid reports whether the language is one the provider understands.
func (l Language) Valid() bool {
	return l == LanguageEN || l == LanguageNO
}

// TableSummary is one row of a search result, keyed by table id.
type TableSummary struct {
	ID    string
	Title string
}

// tableListEntry mirrors one element of the provider's table list. The
// title field carries both the id and the human title, colon-delimited.
type tableListEntry struct {
	Title string `json:"title"`
}

// splitTitle separates "05963: Profit and loss account..." into its id
// and title halves. Entries without a colon keep the whole string as
// the title and an empty id.
func splitTitle(raw string) TableSummary {
	id, title, found := strings.Cut(raw, ":")
	if !found {
		return TableSummary{Title: strings.TrimSpace(raw)}
	}
	return TableSummary{
		ID:    strings.TrimSpace(id),
		Title: strings.TrimSpace(title),
	}
}

// Variable is one selectable dimension of a table. ValueTexts[i] is the
// display label for the machine value Values[i]; the two slices stay
// index-aligned through every transformation.
type Variable struct {
	Code        string   `json:"code"`
	Text        string   `json:"text"`
	Values      []string `json:"values"`
	ValueTexts  []string `json:"valueTexts"`
	Elimination bool     `json:"elimination"`
	Time        bool     `json:"time"`
}

// Option is a (label, value) pair offered by a selection surface.
type Option struct {
	Label string
	Value string
}

// Options returns the variable's options in provider order.
func (v Variable) Options() []Option {
	opts := make([]Option, 0, len(v.Values))
	for i, val := range v.Values {
		label := val
		if i < len(v.ValueTexts) {
			label = v.ValueTexts[i]
		}
		opts = append(opts, Option{Label: label, Value: val})
	}
	return opts
}

// tableMetadata mirrors the metadata endpoint response.
type tableMetadata struct {
	Title     string     `json:"title"`
	Variables []Variable `json:"variables"`
}

// Table is a resolved table: identity, metadata URL and variable list,
// threaded explicitly through selection, query building and fetching.
type Table struct {
	ID          string
	Title       string
	MetadataURL string
	Variables   []Variable
}

// Selection holds the machine values chosen for one variable, in the
// order the user picked them.
type Selection struct {
	Code   string
	Values []string
}
