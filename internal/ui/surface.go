package ui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/eivindmo/statbank/internal/ssb"
)

// Prompt runs the interactive selection surface in the terminal.
type Prompt struct{}

// Select renders the multi-select screen for a resolved table and
// blocks until the user confirms or aborts. Tables without variables
// need no interaction and yield an empty selection list.
func (Prompt) Select(ctx context.Context, table *ssb.Table) ([]ssb.Selection, error) {
	if len(table.Variables) == 0 {
		return nil, nil
	}

	program := tea.NewProgram(New(table), tea.WithContext(ctx))
	final, err := program.Run()
	if err != nil {
		return nil, fmt.Errorf("run selection surface: %w", err)
	}

	model, ok := final.(Model)
	if !ok {
		return nil, fmt.Errorf("unexpected final model %T", final)
	}
	if model.Aborted() || !model.Confirmed() {
		return nil, ssb.ErrAborted
	}
	return model.Selections(), nil
}
