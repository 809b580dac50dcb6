package app

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/eivindmo/statbank/internal/replay"
	"github.com/eivindmo/statbank/internal/ssb"
)

func newTestApp(t *testing.T, handler http.Handler) (*App, *strings.Builder, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	var out strings.Builder
	a, err := New(Options{
		ConfigPath: filepath.Join(t.TempDir(), "missing.toml"),
		BaseURL:    srv.URL,
		Out:        &out,
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return a, &out, srv
}

func TestSearch_NoMatchIsNotAnError(t *testing.T) {
	a, out, _ := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	}))

	if err := a.Search(context.Background(), "energy"); err != nil {
		t.Fatalf("Search returned error for zero rows: %v", err)
	}
	if !strings.Contains(out.String(), "No match") {
		t.Fatalf("output = %q, want it to report No match", out.String())
	}
}

func TestSearch_PrintsTablesKeyedByID(t *testing.T) {
	a, out, _ := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"title": "10714: Employees, by region"}]`)
	}))

	if err := a.Search(context.Background(), "employees"); err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if !strings.Contains(out.String(), "10714\tEmployees, by region") {
		t.Fatalf("output = %q, want id-keyed row", out.String())
	}
}

func metadataAndData(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_, _ = io.WriteString(w, `{
				"title": "Employees, by month",
				"variables": [
					{"code": "Tid", "text": "month", "values": ["2020M01", "2020M02"], "valueTexts": ["2020M01", "2020M02"], "elimination": false, "time": true}
				]
			}`)
		case http.MethodPost:
			_, _ = io.WriteString(w, `{"dataset": {
				"dimension": {
					"id": ["Tid"],
					"size": [2],
					"Tid": {"label": "month", "category": {
						"index": {"2020M01": 0, "2020M02": 1},
						"label": {"2020M01": "2020M01", "2020M02": "2020M02"}
					}}
				},
				"label": "Employees, by month",
				"value": [10, 20]
			}}`)
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	})
}

func TestFetch_ReplayedSelectionsToCSV(t *testing.T) {
	a, out, _ := newTestApp(t, metadataAndData(t))

	selectionsPath := filepath.Join(t.TempDir(), "selections.toml")
	if err := replay.Save(selectionsPath, "10714", []ssb.Selection{
		{Code: "Tid", Values: []string{"2020M01", "2020M02"}},
	}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	err := a.Fetch(context.Background(), "10714", FetchOptions{SelectionsPath: selectionsPath})
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if lines[0] != "month,value" {
		t.Fatalf("header = %q, want month,value", lines[0])
	}
	if lines[1] != "2020M01,10" {
		t.Fatalf("row 1 = %q, want 2020M01,10", lines[1])
	}
}

func TestFetch_PrepareEmitsDsY(t *testing.T) {
	a, out, _ := newTestApp(t, metadataAndData(t))

	selectionsPath := filepath.Join(t.TempDir(), "selections.toml")
	if err := replay.Save(selectionsPath, "10714", []ssb.Selection{
		{Code: "Tid", Values: []string{"2020M01", "2020M02"}},
	}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	err := a.Fetch(context.Background(), "10714", FetchOptions{
		SelectionsPath: selectionsPath,
		Prepare:        true,
	})
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if lines[0] != "ds,y" {
		t.Fatalf("header = %q, want ds,y", lines[0])
	}
	if lines[1] != "2020-01-01,10" {
		t.Fatalf("row 1 = %q, want 2020-01-01,10", lines[1])
	}
}

func TestFetch_ReplayForWrongTableFails(t *testing.T) {
	a, _, _ := newTestApp(t, metadataAndData(t))

	selectionsPath := filepath.Join(t.TempDir(), "selections.toml")
	if err := replay.Save(selectionsPath, "99999", nil); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	err := a.Fetch(context.Background(), "10714", FetchOptions{SelectionsPath: selectionsPath})
	if err == nil || !strings.Contains(err.Error(), "saved for table 99999") {
		t.Fatalf("Fetch error = %v, want table mismatch", err)
	}
}

func TestFetch_QueryOutWritesCanonicalJSON(t *testing.T) {
	a, _, _ := newTestApp(t, metadataAndData(t))

	dir := t.TempDir()
	selectionsPath := filepath.Join(dir, "selections.toml")
	if err := replay.Save(selectionsPath, "10714", []ssb.Selection{
		{Code: "Tid", Values: []string{"2020M01"}},
	}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	queryPath := filepath.Join(dir, "query.json")
	err := a.Fetch(context.Background(), "10714", FetchOptions{
		SelectionsPath: selectionsPath,
		QueryOutPath:   queryPath,
	})
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}

	data, err := os.ReadFile(queryPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if _, err := ssb.ParseQuery(data); err != nil {
		t.Fatalf("written query does not parse: %v", err)
	}
}

func TestVariables_PrintsOptions(t *testing.T) {
	a, out, _ := newTestApp(t, metadataAndData(t))

	if err := a.Variables(context.Background(), "10714"); err != nil {
		t.Fatalf("Variables returned error: %v", err)
	}
	text := out.String()
	if !strings.Contains(text, "Tid: month (required)") {
		t.Fatalf("output = %q, want the Tid variable marked required", text)
	}
	if !strings.Contains(text, "2020M01") {
		t.Fatalf("output = %q, want option values listed", text)
	}
}

func TestNew_RejectsUnknownLanguageOverride(t *testing.T) {
	_, err := New(Options{
		ConfigPath: filepath.Join(t.TempDir(), "missing.toml"),
		Language:   "de",
	})
	if err == nil {
		t.Fatalf("New returned nil error for unsupported language")
	}
}
