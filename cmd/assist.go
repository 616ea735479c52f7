package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/tpapenfuss/forecast/agent"
	"github.com/tpapenfuss/forecast/renderer"
	"google.golang.org/genai"
)

// assistCmd is the subcommand for the AI assistant.
type assistCmd struct{}

func (*assistCmd) Name() string { return "assist" }

func (*assistCmd) Synopsis() string {
	return "run the simulation and discuss the report with the AI assistant"
}

func (*assistCmd) Usage() string {
	return `assist [question...]:
  Runs the configured simulation and starts an interactive session with an
  analyst seeded with the report.
`
}

func (*assistCmd) SetFlags(_ *flag.FlagSet) {}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	initialPrompt := ""
	if f.NArg() > 0 {
		initialPrompt = strings.Join(f.Args(), " ")
	}

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

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	report := renderer.ReportMarkdown(cfg.PortfolioName, result, nil)
	a := agent.New(os.Stdout, os.Stdin, agent.NewAnalyst(report))

	if err := a.Run(ctx, client, initialPrompt); err != nil {
		fmt.Fprintln(os.Stderr, "Agent failed:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
