// Package app wires configuration, the API client, the selection
// surface and output together for the statbank commands.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/eivindmo/statbank/internal/config"
	"github.com/eivindmo/statbank/internal/replay"
	"github.com/eivindmo/statbank/internal/ssb"
	"github.com/eivindmo/statbank/internal/ui"
)

// Surface is any front end that can capture per-variable selections
// for a resolved table: the interactive TUI, a replay file, or a test
// stub.
type Surface interface {
	Select(ctx context.Context, table *ssb.Table) ([]ssb.Selection, error)
}

// Options configure the app. Non-zero fields override the config file.
type Options struct {
	ConfigPath string
	Language   string
	BaseURL    string
	Timeout    time.Duration
	Out        io.Writer
}

// App holds the resolved configuration and the API client shared by
// all commands.
type App struct {
	cfg    config.Config
	client *ssb.Client
	out    io.Writer
}

// New loads configuration, applies overrides and builds the client.
func New(opts Options) (*App, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if opts.Language != "" {
		lang := ssb.Language(opts.Language)
		if !lang.Valid() {
			return nil, fmt.Errorf("unsupported language %q (want %q or %q)", opts.Language, ssb.LanguageEN, ssb.LanguageNO)
		}
		cfg.Language = lang
	}
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	if opts.Timeout > 0 {
		cfg.Timeout = opts.Timeout
	}

	client, err := ssb.NewClient(cfg.BaseURL, cfg.Language, cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("init client: %w", err)
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	return &App{cfg: cfg, client: client, out: out}, nil
}

// Client exposes the API client for command wiring.
func (a *App) Client() *ssb.Client { return a.client }

// ValueColumn returns the configured value column name.
func (a *App) ValueColumn() string { return a.cfg.ValueColumn }

// Search prints the tables matching a phrase, keyed by id. Zero
// matches print "No match" and succeed; callers distinguish that from
// lookup failures, which return an error.
func (a *App) Search(ctx context.Context, phrase string) error {
	tables, err := a.client.Search(ctx, phrase)
	if errors.Is(err, ssb.ErrNoResults) {
		fmt.Fprintln(a.out, "No match")
		return nil
	}
	if err != nil {
		return err
	}

	for _, t := range tables {
		fmt.Fprintf(a.out, "%s\t%s\n", t.ID, t.Title)
	}
	return nil
}

// Variables prints the selectable dimensions of a table with their
// option pairs.
func (a *App) Variables(ctx context.Context, tableID string) error {
	table, err := a.client.Resolve(ctx, tableID)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s: %s\n", table.ID, table.Title)
	for _, v := range table.Variables {
		required := ""
		if !v.Elimination {
			required = " (required)"
		}
		fmt.Fprintf(a.out, "\n%s: %s%s\n", v.Code, v.Text, required)
		for _, opt := range v.Options() {
			fmt.Fprintf(a.out, "  %s\t%s\n", opt.Value, opt.Label)
		}
	}
	return nil
}

// SurfaceFor returns the selection front end for a run: a replay file
// when a path is given, otherwise the interactive prompt.
func (a *App) SurfaceFor(selectionsPath string) Surface {
	if selectionsPath != "" {
		return replaySurface{path: selectionsPath}
	}
	return ui.Prompt{}
}

// replaySurface satisfies Surface from a saved selection file.
type replaySurface struct {
	path string
}

func (r replaySurface) Select(_ context.Context, table *ssb.Table) ([]ssb.Selection, error) {
	savedFor, selections, err := replay.Load(r.path)
	if err != nil {
		return nil, err
	}
	if savedFor != "" && savedFor != table.ID {
		return nil, fmt.Errorf("selections in %s were saved for table %s, not %s", r.path, savedFor, table.ID)
	}
	return selections, nil
}
