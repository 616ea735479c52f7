package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/tpapenfuss/forecast"
)

// fetchCmd holds the flags for the 'fetch' subcommand.
type fetchCmd struct {
	output string
}

func (*fetchCmd) Name() string     { return "fetch" }
func (*fetchCmd) Synopsis() string { return "download daily prices into a JSON price file" }
func (*fetchCmd) Usage() string {
	return `ifc fetch [-o <file>]

  Downloads daily close prices for the configured ticker universe over the
  simulation range and writes them to a JSON price file. Later simulations
  read that file and run offline.
`
}

func (c *fetchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Price file to write. Defaults to the configured price_file.")
}

func (c *fetchCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitUsageError
	}
	if c.output == "" {
		c.output = cfg.PriceFile
	}
	if c.output == "" {
		fmt.Fprintln(os.Stderr, "No output file: pass -o or set price_file in the configuration")
		return subcommands.ExitUsageError
	}

	tickers, err := LoadTickers(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving tickers: %v\n", err)
		return subcommands.ExitFailure
	}
	valid, market, err := forecast.DownloadStockData(tickers, cfg.Start(), cfg.End(), cfg.Currency)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error downloading prices: %v\n", err)
		return subcommands.ExitFailure
	}

	out, err := os.Create(c.output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating price file %q: %v\n", c.output, err)
		return subcommands.ExitFailure
	}
	defer out.Close()
	if err := forecast.EncodeMarketData(out, market); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing price file %q: %v\n", c.output, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Wrote prices for %d of %d tickers to %s\n", len(valid), len(tickers), c.output)
	return subcommands.ExitSuccess
}
