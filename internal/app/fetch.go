package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sartorproj/goarima/autoarima"

	"github.com/eivindmo/statbank/internal/replay"
	"github.com/eivindmo/statbank/internal/reshape"
	"github.com/eivindmo/statbank/internal/ssb"
)

// FetchOptions configure a fetch run.
type FetchOptions struct {
	// SelectionsPath replays selections from a file instead of the TUI.
	SelectionsPath string
	// SaveSelectionsPath persists the confirmed selections for replay.
	SaveSelectionsPath string
	// QueryOutPath writes the canonical query JSON before fetching.
	QueryOutPath string
	// Prepare emits the reshaped ds/y series instead of the raw frame.
	Prepare bool
	// ValueColumn overrides the configured value column name.
	ValueColumn string
	// OutputPath writes CSV to a file instead of stdout.
	OutputPath string
}

// Fetch resolves a table, captures selections, fetches the data slice
// and writes it as CSV.
func (a *App) Fetch(ctx context.Context, tableID string, opts FetchOptions) error {
	table, err := a.client.Resolve(ctx, tableID)
	if err != nil {
		return err
	}

	selections, err := a.SurfaceFor(opts.SelectionsPath).Select(ctx, table)
	if err != nil {
		return err
	}

	if opts.SaveSelectionsPath != "" {
		if err := replay.Save(opts.SaveSelectionsPath, table.ID, selections); err != nil {
			return err
		}
	}
	if opts.QueryOutPath != "" {
		query := ssb.BuildQuery(table, selections)
		if err := os.WriteFile(opts.QueryOutPath, []byte(query.String()), 0o644); err != nil {
			return fmt.Errorf("write query: %w", err)
		}
	}

	valueColumn := opts.ValueColumn
	if valueColumn == "" {
		valueColumn = a.cfg.ValueColumn
	}

	f, label, err := a.client.Fetch(ctx, table, selections, valueColumn)
	if err != nil {
		return err
	}

	out, closeOut, err := a.openOutput(opts.OutputPath)
	if err != nil {
		return err
	}
	defer closeOut()

	if opts.Prepare {
		prepared, err := reshape.Prepare(f, valueColumn, a.client.Language())
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "%s (%s, freq %s)\n", label, prepared.TimeField, prepared.Freq)
		return prepared.WriteCSV(out)
	}

	fmt.Fprintf(os.Stderr, "%s\n", label)
	return f.WriteCSV(out)
}

// ForecastOptions configure a forecast run.
type ForecastOptions struct {
	SelectionsPath string
	Horizon        int
}

// Forecast fetches and reshapes a table slice, fits an auto-selected
// ARIMA model and prints h-step forecasts. Seasonal search is enabled
// only when the detected granularity carries a periods-per-year value;
// yearly data has none and runs non-seasonal.
func (a *App) Forecast(ctx context.Context, tableID string, opts ForecastOptions) error {
	table, err := a.client.Resolve(ctx, tableID)
	if err != nil {
		return err
	}

	selections, err := a.SurfaceFor(opts.SelectionsPath).Select(ctx, table)
	if err != nil {
		return err
	}

	f, label, err := a.client.Fetch(ctx, table, selections, a.cfg.ValueColumn)
	if err != nil {
		return err
	}

	prepared, err := reshape.Prepare(f, a.cfg.ValueColumn, a.client.Language())
	if err != nil {
		return err
	}

	series, err := prepared.Series()
	if err != nil {
		return fmt.Errorf("build series: %w", err)
	}

	cfg := autoarima.DefaultConfig()
	if prepared.Periods > 0 {
		cfg.Seasonal = true
		cfg.SeasonalM = prepared.Periods
	}

	result, err := autoarima.AutoARIMA(series, cfg)
	if err != nil {
		return fmt.Errorf("fit model: %w", err)
	}

	horizon := opts.Horizon
	if horizon <= 0 {
		horizon = 12
	}
	forecasts, err := result.Predict(horizon)
	if err != nil {
		return fmt.Errorf("predict: %w", err)
	}

	fmt.Fprintf(a.out, "%s\n", label)
	if result.IsSeasonal {
		fmt.Fprintf(a.out, "model: SARIMA(%d,%d,%d)(%d,%d,%d)[%d], AIC %.2f\n",
			result.P, result.D, result.Q, result.SP, result.SD, result.SQ, result.M, result.AIC)
	} else {
		fmt.Fprintf(a.out, "model: ARIMA(%d,%d,%d), AIC %.2f\n",
			result.P, result.D, result.Q, result.AIC)
	}
	for i, v := range forecasts {
		fmt.Fprintf(a.out, "h+%d\t%.4f\n", i+1, v)
	}
	return nil
}

func (a *App) openOutput(path string) (io.Writer, func(), error) {
	if path == "" {
		return a.out, func() {}, nil
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output: %w", err)
	}
	return file, func() { _ = file.Close() }, nil
}
