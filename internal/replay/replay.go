// Package replay persists variable selections so a fetch can run
// without the interactive surface. Files are TOML, written after an
// interactive run and replayed on later ones.
package replay

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/eivindmo/statbank/internal/ssb"
)

// File is the on-disk selection document.
type File struct {
	Table     string     `toml:"table"`
	Variables []Variable `toml:"variable"`
}

// Variable holds the chosen machine values for one variable code.
type Variable struct {
	Code   string   `toml:"code"`
	Values []string `toml:"values"`
}

// Load reads a selection file and returns the table id it was saved
// for plus the selections, in file order.
func Load(path string) (string, []ssb.Selection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("read selections: %w", err)
	}

	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return "", nil, fmt.Errorf("parse selections: %w", err)
	}

	selections := make([]ssb.Selection, 0, len(f.Variables))
	for _, v := range f.Variables {
		code := strings.TrimSpace(v.Code)
		if code == "" {
			return "", nil, fmt.Errorf("parse selections: variable entry without a code")
		}
		selections = append(selections, ssb.Selection{Code: code, Values: v.Values})
	}
	return strings.TrimSpace(f.Table), selections, nil
}

// Save writes selections for a table, creating directories as needed.
func Save(path, tableID string, selections []ssb.Selection) error {
	f := File{Table: tableID}
	for _, sel := range selections {
		f.Variables = append(f.Variables, Variable{Code: sel.Code, Values: sel.Values})
	}

	data, err := toml.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshal selections: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create selections dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write selections: %w", err)
	}
	return nil
}
