package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/tpapenfuss/forecast"
)

// datesCmd holds the flags for the 'dates' subcommand.
type datesCmd struct {
	start     string
	end       string
	frequency string
}

func (*datesCmd) Name() string     { return "dates" }
func (*datesCmd) Synopsis() string { return "print the contribution schedule" }
func (*datesCmd) Usage() string {
	return `ifc dates [-s <date>] [-d <date>] [-frequency <frequency>]

  Prints the contribution dates the simulation would use. Without flags the
  range and frequency come from the configuration file.
`
}

func (c *datesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.start, "s", "", "Start date of the schedule. Defaults to the configured start date.")
	f.StringVar(&c.end, "d", "", "End date of the schedule. Defaults to the configured end date.")
	f.StringVar(&c.frequency, "frequency", "", "Contribution frequency (monthly, bimonthly). Defaults to the configured one.")
}

func (c *datesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitUsageError
	}
	if c.start == "" {
		c.start = cfg.StartDate
	}
	if c.end == "" {
		c.end = cfg.EndDate
	}
	if c.frequency == "" {
		c.frequency = cfg.InvestmentFrequency
	}

	start, err := forecast.ParseDate(c.start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing start date: %v\n", err)
		return subcommands.ExitUsageError
	}
	end, err := forecast.ParseDate(c.end)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing end date: %v\n", err)
		return subcommands.ExitUsageError
	}
	frequency, err := forecast.ParseInvestmentFrequency(c.frequency)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing frequency: %v\n", err)
		return subcommands.ExitUsageError
	}

	dates, err := forecast.InvestmentDates(start, end, frequency)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating dates: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("%s contributions from %s to %s: %d cycles\n", frequency.Title(), start, end, len(dates))
	for _, d := range dates {
		fmt.Println(d)
	}
	return subcommands.ExitSuccess
}
