// Package cmd implements the CLI application to run investment simulations.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/tpapenfuss/forecast"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&simulateCmd{}, "simulation")
	c.Register(&datesCmd{}, "simulation")

	c.Register(&fetchCmd{}, "prices")

	c.Register(&topicCmd{}, "documentation")
	c.Register(&assistCmd{}, "documentation")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "simulation.json", "Path to the simulation configuration file (JSON)")

// LoadConfig loads and validates the application configuration file.
func LoadConfig() (forecast.Config, error) {
	cfg, err := forecast.LoadConfig(*configFile)
	if err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration %q: %w", *configFile, err)
	}
	return cfg, nil
}

// LoadTickers resolves the simulation's ticker universe: the tickers CSV if
// one is configured, otherwise the custom weight map.
func LoadTickers(cfg forecast.Config) ([]string, error) {
	if cfg.TickersSource != "" {
		f, err := os.Open(cfg.TickersSource)
		if err != nil {
			return nil, fmt.Errorf("could not open tickers source: %w", err)
		}
		defer f.Close()
		return forecast.TopTickersFromCSV(f, cfg.TopN)
	}
	tickers := cfg.Allocation().Tickers()
	if len(tickers) == 0 {
		return nil, errors.New("no tickers: set tickers_source or custom weights in the configuration")
	}
	return tickers, nil
}

// LoadMarket loads the price table: the configured price file if it exists,
// otherwise a fresh download over the simulation range.
func LoadMarket(cfg forecast.Config, tickers []string) ([]string, *forecast.MarketData, error) {
	if cfg.PriceFile != "" {
		f, err := os.Open(cfg.PriceFile)
		if err == nil {
			defer f.Close()
			market, err := forecast.DecodeMarketData(f)
			if err != nil {
				return nil, nil, fmt.Errorf("could not load price file %q: %w", cfg.PriceFile, err)
			}
			return tickers, market, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, nil, err
		}
	}
	return forecast.DownloadStockData(tickers, cfg.Start(), cfg.End(), cfg.Currency)
}

// printMarkdown renders markdown for the terminal. On render failure the raw
// markdown is printed as is.
func printMarkdown(content string) {
	out, err := glamour.Render(content, "auto")
	if err != nil {
		fmt.Print(content)
		return
	}
	fmt.Print(out)
}
