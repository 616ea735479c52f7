package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/subcommands"
	"github.com/tpapenfuss/forecast"
	"github.com/tpapenfuss/forecast/renderer"
)

// simulateCmd holds the flags for the 'simulate' subcommand.
type simulateCmd struct {
	benchmark string
	outputDir string
	history   bool
}

func (*simulateCmd) Name() string     { return "simulate" }
func (*simulateCmd) Synopsis() string { return "run the investment simulation and print the report" }
func (*simulateCmd) Usage() string {
	return `ifc simulate [-benchmark <ticker>] [-o <dir>] [-history]

  Runs the configured simulation: recurring contributions, tax-loss
  harvesting and periodic rebalancing against daily close prices.
  Prints a markdown report, optionally next to a single-ticker benchmark
  run with the same cash schedule.

Usage Examples:
# Run and compare against a plain SPY strategy.
$ ifc simulate -config demo.json -benchmark SPY

`
}

func (c *simulateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.benchmark, "benchmark", "", "Ticker for a single-ticker benchmark run with the same cash schedule.")
	f.StringVar(&c.outputDir, "o", "", "Directory to write holdings/transactions/history exports into.")
	f.BoolVar(&c.history, "history", false, "Also print the full valuation history.")
}

func (c *simulateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitUsageError
	}
	tickers, err := LoadTickers(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving tickers: %v\n", err)
		return subcommands.ExitFailure
	}
	tickers, market, err := LoadMarket(cfg, tickers)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading prices: %v\n", err)
		return subcommands.ExitFailure
	}

	result, err := runSimulation(cfg, market, tickers)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running simulation: %v\n", err)
		return subcommands.ExitFailure
	}

	var benchmark *forecast.Result
	if c.benchmark != "" {
		benchmark, err = runBenchmark(cfg, c.benchmark)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: benchmark run failed: %v\n", err)
		}
	}

	printMarkdown(renderer.ReportMarkdown(cfg.PortfolioName, result, benchmark))
	if c.history {
		printMarkdown(renderer.HistoryMarkdown(cfg.PortfolioName, result.History))
	}

	if c.outputDir != "" {
		if err := writeExports(c.outputDir, cfg.PortfolioName, result); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing exports: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Fprintf(os.Stderr, "Exports written to %s\n", c.outputDir)
	}
	return subcommands.ExitSuccess
}

func runSimulation(cfg forecast.Config, market *forecast.MarketData, tickers []string) (*forecast.Result, error) {
	sim, err := forecast.NewSimulation(cfg, market, tickers)
	if err != nil {
		return nil, err
	}
	return sim.Run()
}

// runBenchmark runs a second simulation over a single ticker with the same
// cash schedule, equal allocation and no rebalancing effect.
func runBenchmark(cfg forecast.Config, ticker string) (*forecast.Result, error) {
	cfg.PortfolioName = ticker + " benchmark"
	cfg.PortfolioAllocation = "equal"
	cfg.Weights = nil
	cfg.TickersSource = ""
	cfg.PriceFile = ""

	tickers, market, err := forecast.DownloadStockData([]string{ticker}, cfg.Start(), cfg.End(), cfg.Currency)
	if err != nil {
		return nil, err
	}
	return runSimulation(cfg, market, tickers)
}

func writeExports(dir, name string, r *forecast.Result) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	exports := []struct {
		file  string
		write func(f *os.File) error
	}{
		{name + "_holdings.csv", func(f *os.File) error { return forecast.WriteHoldingsCSV(f, r.Holdings) }},
		{name + "_transactions.csv", func(f *os.File) error { return forecast.WriteTransactionsCSV(f, r.Transactions) }},
		{name + "_history.csv", func(f *os.File) error { return forecast.WriteHistoryCSV(f, r.History) }},
		{name + "_transactions.jsonl", func(f *os.File) error { return forecast.EncodeTransactions(f, r.Transactions) }},
		{name + "_history.json", func(f *os.File) error { return forecast.EncodeHistory(f, r.History) }},
	}
	for _, e := range exports {
		f, err := os.Create(filepath.Join(dir, e.file))
		if err != nil {
			return err
		}
		if err := e.write(f); err != nil {
			f.Close()
			return fmt.Errorf("could not write %s: %w", e.file, err)
		}
		f.Close()
	}
	return nil
}
