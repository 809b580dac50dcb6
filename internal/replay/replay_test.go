package replay

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/eivindmo/statbank/internal/ssb"
)

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "selections.toml")
	selections := []ssb.Selection{
		{Code: "Region", Values: []string{"1", "0"}},
		{Code: "Tid", Values: nil},
	}

	if err := Save(path, "05963", selections); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	tableID, loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if tableID != "05963" {
		t.Fatalf("table id = %q, want 05963", tableID)
	}
	if len(loaded) != 2 {
		t.Fatalf("loaded %d selections, want 2", len(loaded))
	}
	if loaded[0].Code != "Region" || len(loaded[0].Values) != 2 || loaded[0].Values[0] != "1" {
		t.Fatalf("selection 0 = %+v, want Region with values [1 0]", loaded[0])
	}
	if loaded[1].Code != "Tid" || len(loaded[1].Values) != 0 {
		t.Fatalf("selection 1 = %+v, want Tid with no values", loaded[1])
	}
}

func TestLoad_MissingFileFails(t *testing.T) {
	if _, _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatalf("Load returned nil error for a missing file")
	}
}

func TestLoad_EntryWithoutCodeFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "selections.toml")
	if err := os.WriteFile(path, []byte(`
table = "05963"

[[variable]]
values = ["1"]
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, _, err := Load(path); err == nil {
		t.Fatalf("Load returned nil error for a variable without a code")
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "selections.toml")
	if err := os.WriteFile(path, []byte(`table = [`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, _, err := Load(path); err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
}
