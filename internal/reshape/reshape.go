// Package reshape turns a fetched frame into the two-column ds/y series
// a forecaster consumes, normalizing the provider's raw time labels.
package reshape

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/sartorproj/goarima/timeseries"

	"github.com/eivindmo/statbank/internal/frame"
	"github.com/eivindmo/statbank/internal/ssb"
)

// Granularity marker characters embedded in raw time labels, e.g.
// "2020M03" (month), "2020U15" (week), "2020K2" (quarter). A label with
// no marker is a plain year.
const (
	markerMonth   = 'M'
	markerWeek    = 'U'
	markerQuarter = 'K'
)

// Frequency codes reported alongside the prepared series. The quarter
// code is lowercase while the others are not; this mirrors the
// provider-facing convention downstream consumers already depend on.
const (
	FreqMonth   = "M"
	FreqWeek    = "W"
	FreqQuarter = "q"
	FreqYear    = "y"
)

// MalformedTimeAxisError reports a time label that does not follow any
// known encoding.
type MalformedTimeAxisError struct {
	Raw string
	Err error
}

func (e *MalformedTimeAxisError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("malformed time label %q", e.Raw)
	}
	return fmt.Sprintf("malformed time label %q: %v", e.Raw, e.Err)
}

func (e *MalformedTimeAxisError) Unwrap() error { return e.Err }

// Prepared is the reshaped series: parallel ds (date) and y (value)
// columns plus the detected granularity.
type Prepared struct {
	DS []time.Time
	Y  []float64

	// Freq is the detected frequency code (M, W, q or y).
	Freq string
	// Periods is the number of observations per year: 12, 52 or 4.
	// Yearly data sets no periods value and leaves it 0.
	Periods int
	// TimeField is the locale-specific name of the time column the
	// granularity maps to (e.g. "month" or "måned").
	TimeField string
}

// timeFieldNames maps language and frequency to the provider's
// granularity column names.
var timeFieldNames = map[ssb.Language]map[string]string{
	ssb.LanguageEN: {FreqMonth: "month", FreqWeek: "week", FreqQuarter: "quarter", FreqYear: "year"},
	ssb.LanguageNO: {FreqMonth: "måned", FreqWeek: "uke", FreqQuarter: "kvartal", FreqYear: "år"},
}

// Prepare reshapes a frame into a ds/y series. The time axis is the
// frame's second-to-last column; valueColumn, when non-empty, must name
// the frame's value column. Granularity is classified from the first
// row's raw time label.
func Prepare(f *frame.Frame, valueColumn string, lang ssb.Language) (*Prepared, error) {
	if valueColumn != "" && f.ValueColumn() != valueColumn {
		return nil, fmt.Errorf("frame value column is %q, not %q", f.ValueColumn(), valueColumn)
	}
	timeCol, _, err := f.TimeColumn()
	if err != nil {
		return nil, fmt.Errorf("locate time axis: %w", err)
	}
	if f.Len() == 0 {
		return nil, fmt.Errorf("frame has no rows")
	}

	first, err := f.Cell(0, timeCol)
	if err != nil {
		return nil, err
	}
	freq, err := classify(first)
	if err != nil {
		return nil, err
	}

	fields, ok := timeFieldNames[lang]
	if !ok {
		return nil, fmt.Errorf("no time field names for language %q", lang)
	}

	p := &Prepared{
		DS:        make([]time.Time, 0, f.Len()),
		Y:         make([]float64, 0, f.Len()),
		Freq:      freq,
		TimeField: fields[freq],
	}
	switch freq {
	case FreqMonth:
		p.Periods = 12
	case FreqWeek:
		p.Periods = 52
	case FreqQuarter:
		p.Periods = 4
	}

	for i := 0; i < f.Len(); i++ {
		raw, err := f.Cell(i, timeCol)
		if err != nil {
			return nil, err
		}
		ds, err := parseLabel(raw, freq)
		if err != nil {
			return nil, err
		}
		p.DS = append(p.DS, ds)
		p.Y = append(p.Y, f.Values[i])
	}
	return p, nil
}

// Series converts the prepared columns into a forecasting series.
func (p *Prepared) Series() (*timeseries.Series, error) {
	return timeseries.NewWithTimestamps(p.DS, p.Y)
}

// WriteCSV writes the series with the fixed ds/y header, dates in
// ISO form.
func (p *Prepared) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"ds", "y"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, ds := range p.DS {
		record := []string{
			ds.Format("2006-01-02"),
			strconv.FormatFloat(p.Y[i], 'f', -1, 64),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// classify determines the frequency code from one raw time label. An
// all-digit label is a year; otherwise the first non-digit rune must be
// a known granularity marker.
func classify(raw string) (string, error) {
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			continue
		}
		switch r {
		case markerMonth:
			return FreqMonth, nil
		case markerWeek:
			return FreqWeek, nil
		case markerQuarter:
			return FreqQuarter, nil
		default:
			return "", &MalformedTimeAxisError{Raw: raw, Err: fmt.Errorf("unknown granularity marker %q", r)}
		}
	}
	if raw == "" {
		return "", &MalformedTimeAxisError{Raw: raw, Err: fmt.Errorf("empty label")}
	}
	return FreqYear, nil
}

func parseLabel(raw, freq string) (time.Time, error) {
	switch freq {
	case FreqMonth:
		year, month, err := splitMarker(raw, markerMonth)
		if err != nil {
			return time.Time{}, err
		}
		if month < 1 || month > 12 {
			return time.Time{}, &MalformedTimeAxisError{Raw: raw, Err: fmt.Errorf("month %d out of range", month)}
		}
		return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC), nil

	case FreqWeek:
		year, week, err := splitMarker(raw, markerWeek)
		if err != nil {
			return time.Time{}, err
		}
		if week < 1 || week > 53 {
			return time.Time{}, &MalformedTimeAxisError{Raw: raw, Err: fmt.Errorf("week %d out of range", week)}
		}
		return isoWeekStart(year, week), nil

	case FreqQuarter:
		year, quarter, err := splitMarker(raw, markerQuarter)
		if err != nil {
			return time.Time{}, err
		}
		if quarter < 1 || quarter > 4 {
			return time.Time{}, &MalformedTimeAxisError{Raw: raw, Err: fmt.Errorf("quarter %d out of range", quarter)}
		}
		return quarterEnd(year, quarter), nil

	default:
		year, err := strconv.Atoi(raw)
		if err != nil {
			return time.Time{}, &MalformedTimeAxisError{Raw: raw, Err: err}
		}
		return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC), nil
	}
}

// splitMarker splits "2020M03" around its marker into (2020, 3).
func splitMarker(raw string, marker rune) (year, part int, err error) {
	before, after, found := strings.Cut(raw, string(marker))
	if !found {
		return 0, 0, &MalformedTimeAxisError{Raw: raw, Err: fmt.Errorf("marker %q not found", marker)}
	}
	year, err = strconv.Atoi(before)
	if err != nil {
		return 0, 0, &MalformedTimeAxisError{Raw: raw, Err: err}
	}
	part, err = strconv.Atoi(after)
	if err != nil {
		return 0, 0, &MalformedTimeAxisError{Raw: raw, Err: err}
	}
	return year, part, nil
}

// quarterEnd maps a quarter to the last calendar day of its third
// month, the provider's convention for quarterly timestamps.
func quarterEnd(year, quarter int) time.Time {
	month := quarter * 3
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)
}

// isoWeekStart returns the Monday of the given ISO week. January 4 is
// always in ISO week 1.
func isoWeekStart(year, week int) time.Time {
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	wd := int(jan4.Weekday())
	if wd == 0 {
		wd = 7
	}
	week1Monday := jan4.AddDate(0, 0, 1-wd)
	return week1Monday.AddDate(0, 0, (week-1)*7)
}
