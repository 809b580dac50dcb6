package ssb

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Query is the document the data endpoint accepts. One entry per table
// variable, plus the response format.
type Query struct {
	Query    []QueryEntry   `json:"query"`
	Response ResponseFormat `json:"response"`
}

// QueryEntry selects values for a single variable.
type QueryEntry struct {
	Code      string         `json:"code"`
	Selection QuerySelection `json:"selection"`
}

// QuerySelection carries the selected machine values. The provider's
// grammar requires filter "item" for discrete enumerated selections.
type QuerySelection struct {
	Filter string   `json:"filter"`
	Values []string `json:"values"`
}

// ResponseFormat names the exchange format of the data response.
type ResponseFormat struct {
	Format string `json:"format"`
}

const (
	filterItem     = "item"
	formatJSONStat = "json-stat"
)

// BuildQuery assembles the query document for a resolved table. Every
// variable of the table appears as an entry, in table order; variables
// without a matching selection get an empty values list. Selected
// values keep the order they were chosen in.
func BuildQuery(table *Table, selections []Selection) Query {
	chosen := make(map[string][]string, len(selections))
	for _, sel := range selections {
		chosen[sel.Code] = sel.Values
	}

	entries := make([]QueryEntry, 0, len(table.Variables))
	for _, v := range table.Variables {
		values := chosen[v.Code]
		if values == nil {
			values = []string{}
		}
		entries = append(entries, QueryEntry{
			Code: v.Code,
			Selection: QuerySelection{
				Filter: filterItem,
				Values: values,
			},
		})
	}

	return Query{
		Query:    entries,
		Response: ResponseFormat{Format: formatJSONStat},
	}
}

// String returns the canonical JSON serialization of the query.
func (q Query) String() string {
	data, err := json.Marshal(q)
	if err != nil {
		return ""
	}
	return string(data)
}

// ParseQuery decodes a textual query document. Input must be strict
// JSON matching the provider grammar; unknown fields and trailing
// content are parse errors.
func ParseQuery(data []byte) (Query, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var q Query
	if err := dec.Decode(&q); err != nil {
		return Query{}, fmt.Errorf("parse query: %w", err)
	}
	if dec.More() {
		return Query{}, fmt.Errorf("parse query: trailing data after document")
	}
	return q, nil
}
