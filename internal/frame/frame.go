// Package frame provides the ordered-column tabular frame that data
// responses are decoded into.
package frame

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
)

// Frame is a rectangular dataset. Columns names every column in order,
// with the value column last. Rows hold the dimension label cells for
// each row (one cell per non-value column) and Values holds the
// numeric value column, aligned with Rows.
type Frame struct {
	Columns []string
	Rows    [][]string
	Values  []float64
}

// Len returns the number of rows.
func (f *Frame) Len() int { return len(f.Rows) }

// ValueColumn returns the name of the trailing value column.
func (f *Frame) ValueColumn() string {
	if len(f.Columns) == 0 {
		return ""
	}
	return f.Columns[len(f.Columns)-1]
}

// TimeColumn returns the index and name of the time-axis column: the
// second-to-last column of the frame, by provider convention.
func (f *Frame) TimeColumn() (int, string, error) {
	if len(f.Columns) < 2 {
		return 0, "", fmt.Errorf("frame has %d column(s), need at least 2", len(f.Columns))
	}
	idx := len(f.Columns) - 2
	return idx, f.Columns[idx], nil
}

// Cell returns the dimension cell at (row, col).
func (f *Frame) Cell(row, col int) (string, error) {
	if row < 0 || row >= len(f.Rows) {
		return "", fmt.Errorf("row %d out of range [0,%d)", row, len(f.Rows))
	}
	cells := f.Rows[row]
	if col < 0 || col >= len(cells) {
		return "", fmt.Errorf("column %d out of range [0,%d)", col, len(cells))
	}
	return cells[col], nil
}

// WriteCSV writes the frame with a header row. Missing values (NaN)
// are written as empty cells.
func (f *Frame) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(f.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, cells := range f.Rows {
		record := make([]string, 0, len(cells)+1)
		record = append(record, cells...)
		value := ""
		if i < len(f.Values) && !math.IsNaN(f.Values[i]) {
			value = strconv.FormatFloat(f.Values[i], 'f', -1, 64)
		}
		record = append(record, value)
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
