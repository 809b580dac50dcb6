// Package jsonstat decodes the json-stat exchange format returned by
// the Statbank data endpoint into a tabular frame.
package jsonstat

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/eivindmo/statbank/internal/frame"
)

// Dimension is one axis of a dataset. Codes[i] is the machine code at
// position i and Labels[i] its display label.
type Dimension struct {
	ID     string
	Label  string
	Codes  []string
	Labels []string
}

// Dataset is a decoded json-stat dataset: ordered dimensions, a flat
// row-major value array and the dataset's human-readable label.
type Dataset struct {
	Label      string
	Dimensions []Dimension
	Values     []float64
}

type document struct {
	Dataset *rawDataset `json:"dataset"`
}

type rawDataset struct {
	Dimension map[string]json.RawMessage `json:"dimension"`
	Label     string                     `json:"label"`
	Value     []*float64                 `json:"value"`
}

type rawDimension struct {
	Label    string `json:"label"`
	Category struct {
		Index json.RawMessage   `json:"index"`
		Label map[string]string `json:"label"`
	} `json:"category"`
}

// Parse decodes a json-stat response body.
func Parse(data []byte) (*Dataset, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode json-stat: %w", err)
	}
	if doc.Dataset == nil {
		return nil, fmt.Errorf("decode json-stat: no dataset field")
	}
	raw := doc.Dataset

	ids, size, err := dimensionOrder(raw.Dimension)
	if err != nil {
		return nil, err
	}
	if len(ids) != len(size) {
		return nil, fmt.Errorf("dimension id count %d does not match size count %d", len(ids), len(size))
	}

	dims := make([]Dimension, 0, len(ids))
	for i, id := range ids {
		dimData, ok := raw.Dimension[id]
		if !ok {
			return nil, fmt.Errorf("dimension %q listed in id but not present", id)
		}
		dim, err := parseDimension(id, dimData)
		if err != nil {
			return nil, err
		}
		if len(dim.Codes) != size[i] {
			return nil, fmt.Errorf("dimension %q has %d categories, size says %d", id, len(dim.Codes), size[i])
		}
		dims = append(dims, dim)
	}

	values := make([]float64, len(raw.Value))
	for i, v := range raw.Value {
		if v == nil {
			values[i] = math.NaN()
		} else {
			values[i] = *v
		}
	}

	return &Dataset{
		Label:      raw.Label,
		Dimensions: dims,
		Values:     values,
	}, nil
}

// Frame expands the dataset into a frame in row-major order: the last
// dimension varies fastest, matching the value array layout. Cells hold
// the category display labels. An empty valueColumn defaults to
// "value".
func (d *Dataset) Frame(valueColumn string) *frame.Frame {
	if valueColumn == "" {
		valueColumn = "value"
	}

	columns := make([]string, 0, len(d.Dimensions)+1)
	for _, dim := range d.Dimensions {
		name := dim.Label
		if name == "" {
			name = dim.ID
		}
		columns = append(columns, name)
	}
	columns = append(columns, valueColumn)

	total := 1
	for _, dim := range d.Dimensions {
		total *= len(dim.Codes)
	}
	if len(d.Dimensions) == 0 {
		total = 0
	}

	rows := make([][]string, 0, total)
	values := make([]float64, 0, total)
	for idx := 0; idx < total; idx++ {
		cells := make([]string, len(d.Dimensions))
		rem := idx
		for i := len(d.Dimensions) - 1; i >= 0; i-- {
			n := len(d.Dimensions[i].Codes)
			cells[i] = d.Dimensions[i].Labels[rem%n]
			rem /= n
		}
		rows = append(rows, cells)
		if idx < len(d.Values) {
			values = append(values, d.Values[idx])
		} else {
			values = append(values, math.NaN())
		}
	}

	return &frame.Frame{Columns: columns, Rows: rows, Values: values}
}

func dimensionOrder(dimension map[string]json.RawMessage) ([]string, []int, error) {
	idRaw, ok := dimension["id"]
	if !ok {
		return nil, nil, fmt.Errorf("dimension block has no id array")
	}
	var ids []string
	if err := json.Unmarshal(idRaw, &ids); err != nil {
		return nil, nil, fmt.Errorf("decode dimension id: %w", err)
	}

	sizeRaw, ok := dimension["size"]
	if !ok {
		return nil, nil, fmt.Errorf("dimension block has no size array")
	}
	var size []int
	if err := json.Unmarshal(sizeRaw, &size); err != nil {
		return nil, nil, fmt.Errorf("decode dimension size: %w", err)
	}
	return ids, size, nil
}

// parseDimension handles the category.index variants json-stat allows:
// a code→position map, a code array, or absent entirely for
// single-category dimensions.
func parseDimension(id string, data json.RawMessage) (Dimension, error) {
	var raw rawDimension
	if err := json.Unmarshal(data, &raw); err != nil {
		return Dimension{}, fmt.Errorf("decode dimension %q: %w", id, err)
	}

	var codes []string
	switch {
	case len(raw.Category.Index) == 0:
		// Single-category dimension: the label map is the only source.
		for code := range raw.Category.Label {
			codes = append(codes, code)
		}
		sort.Strings(codes)
	default:
		var asArray []string
		if err := json.Unmarshal(raw.Category.Index, &asArray); err == nil {
			codes = asArray
			break
		}
		var asMap map[string]int
		if err := json.Unmarshal(raw.Category.Index, &asMap); err != nil {
			return Dimension{}, fmt.Errorf("decode category index of %q: %w", id, err)
		}
		codes = make([]string, len(asMap))
		for code, pos := range asMap {
			if pos < 0 || pos >= len(codes) {
				return Dimension{}, fmt.Errorf("category index of %q has position %d out of range", id, pos)
			}
			codes[pos] = code
		}
	}

	labels := make([]string, len(codes))
	for i, code := range codes {
		if label, ok := raw.Category.Label[code]; ok {
			labels[i] = label
		} else {
			labels[i] = code
		}
	}

	return Dimension{
		ID:     id,
		Label:  raw.Label,
		Codes:  codes,
		Labels: labels,
	}, nil
}
