// Package main provides the statbank CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/eivindmo/statbank/internal/app"
)

var (
	configPath  string
	language    string
	baseURL     string
	timeoutSecs int

	fetchSelections     string
	fetchSaveSelections string
	fetchQueryOut       string
	fetchPrepare        bool
	fetchValueCol       string
	fetchOutput         string

	forecastSelections string
	forecastHorizon    int
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rootCmd := &cobra.Command{
		Use:   "statbank",
		Short: "Search and fetch Statistics Norway tables",
		Long: `statbank searches Statbank Norway for published data tables, lets you
pick variable values interactively, fetches the selected slice and
reshapes it into a ds/y time series ready for forecasting.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default ~/.config/statbank/config.toml)")
	rootCmd.PersistentFlags().StringVar(&language, "lang", "", "provider language: en or no")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "API base URL override")
	rootCmd.PersistentFlags().IntVar(&timeoutSecs, "timeout", 0, "HTTP timeout in seconds")

	searchCmd := &cobra.Command{
		Use:   "search <phrase>",
		Short: "Search for tables matching a phrase",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			return a.Search(cmd.Context(), args[0])
		},
	}

	variablesCmd := &cobra.Command{
		Use:   "variables <table-id>",
		Short: "List the selectable variables of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			return a.Variables(cmd.Context(), args[0])
		},
	}

	fetchCmd := &cobra.Command{
		Use:   "fetch <table-id>",
		Short: "Select variable values and fetch the data slice as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			return a.Fetch(cmd.Context(), args[0], app.FetchOptions{
				SelectionsPath:     fetchSelections,
				SaveSelectionsPath: fetchSaveSelections,
				QueryOutPath:       fetchQueryOut,
				Prepare:            fetchPrepare,
				ValueColumn:        fetchValueCol,
				OutputPath:         fetchOutput,
			})
		},
	}
	fetchCmd.Flags().StringVar(&fetchSelections, "selections", "", "replay selections from a TOML file instead of the TUI")
	fetchCmd.Flags().StringVar(&fetchSaveSelections, "save-selections", "", "save the confirmed selections to a TOML file")
	fetchCmd.Flags().StringVar(&fetchQueryOut, "query-out", "", "write the query document JSON to a file")
	fetchCmd.Flags().BoolVar(&fetchPrepare, "prepare", false, "emit the reshaped ds/y series instead of the raw frame")
	fetchCmd.Flags().StringVar(&fetchValueCol, "value-col", "", "value column name (default from config)")
	fetchCmd.Flags().StringVarP(&fetchOutput, "output", "o", "", "output file path (default stdout)")

	forecastCmd := &cobra.Command{
		Use:   "forecast <table-id>",
		Short: "Fetch a table slice and forecast it with auto-ARIMA",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			return a.Forecast(cmd.Context(), args[0], app.ForecastOptions{
				SelectionsPath: forecastSelections,
				Horizon:        forecastHorizon,
			})
		},
	}
	forecastCmd.Flags().StringVar(&forecastSelections, "selections", "", "replay selections from a TOML file instead of the TUI")
	forecastCmd.Flags().IntVar(&forecastHorizon, "horizon", 12, "number of steps to forecast")

	rootCmd.AddCommand(searchCmd, variablesCmd, fetchCmd, forecastCmd)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "statbank: %v\n", err)
		return 1
	}
	return 0
}

func newApp() (*app.App, error) {
	return app.New(app.Options{
		ConfigPath: configPath,
		Language:   language,
		BaseURL:    baseURL,
		Timeout:    time.Duration(timeoutSecs) * time.Second,
	})
}
