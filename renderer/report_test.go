package renderer

import (
	"strings"
	"testing"
	"time"

	"github.com/tpapenfuss/forecast"
)

func fixtureResult(t *testing.T) *forecast.Result {
	t.Helper()
	cfg := forecast.DefaultConfig()
	cfg.PortfolioName = "fixture"
	cfg.InitialInvestment = 1000
	cfg.RecurringInvestment = 100
	cfg.StartDate = "2024-01-01"
	cfg.EndDate = "2024-03-01"
	cfg.RebalanceFrequency = "yearly"

	market := forecast.NewMarketData(forecast.USD)
	for m := time.January; m <= time.March; m++ {
		market.AddPrice("AAPL", forecast.NewDate(2024, m, 1), 100)
	}
	sim, err := forecast.NewSimulation(cfg, market, []string{"AAPL"})
	if err != nil {
		t.Fatalf("NewSimulation() returned unexpected error: %v", err)
	}
	result, err := sim.Run()
	if err != nil {
		t.Fatalf("Run() returned unexpected error: %v", err)
	}
	return result
}

func TestReportMarkdown(t *testing.T) {
	result := fixtureResult(t)
	got := ReportMarkdown("fixture", result, nil)

	for _, want := range []string{
		"# Simulation Report for fixture",
		"## Performance",
		"## Realized Gains and Losses",
		"## Holdings",
		"Total Deposits",
		"AAPL",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("report is missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Benchmark Comparison") {
		t.Error("report should have no benchmark section without a benchmark run")
	}
}

func TestReportMarkdownWithBenchmark(t *testing.T) {
	result := fixtureResult(t)
	got := ReportMarkdown("fixture", result, result)
	if !strings.Contains(got, "## Benchmark Comparison") {
		t.Errorf("report is missing the benchmark section:\n%s", got)
	}
}

func TestHistoryMarkdown(t *testing.T) {
	result := fixtureResult(t)
	got := HistoryMarkdown("fixture", result.History)

	if !strings.Contains(got, "# History for fixture") {
		t.Errorf("history is missing its title:\n%s", got)
	}
	if !strings.Contains(got, "2024-02-01") {
		t.Errorf("history is missing the second cycle:\n%s", got)
	}
}

func TestTransactionsMarkdown(t *testing.T) {
	result := fixtureResult(t)
	got := TransactionsMarkdown(result.Transactions)

	if !strings.Contains(got, "# Transactions") {
		t.Errorf("transactions are missing their title:\n%s", got)
	}
	if !strings.Contains(got, "deposit") {
		t.Errorf("transactions are missing the deposits:\n%s", got)
	}
}
