package forecast

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func flatConfig(t *testing.T) Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.PortfolioName = "flat"
	cfg.InitialInvestment = 1000
	cfg.RecurringInvestment = 100
	cfg.StartDate = "2024-01-01"
	cfg.EndDate = "2024-06-01"
	cfg.RebalanceFrequency = string(Yearly)
	return cfg
}

func TestRunFlatMarket(t *testing.T) {
	cfg := flatConfig(t)
	market := NewMarketData(USD)
	for m := time.January; m <= time.June; m++ {
		market.AddPrice("X", NewDate(2024, m, 1), 50)
	}

	sim, err := NewSimulation(cfg, market, []string{"X"})
	if err != nil {
		t.Fatalf("NewSimulation() returned unexpected error: %v", err)
	}
	result, err := sim.Run()
	if err != nil {
		t.Fatalf("Run() returned unexpected error: %v", err)
	}

	// Six cycles: 1000 initial + 5 * 100 recurring, all invested at a flat
	// price, so the final value equals the deposits and the return is zero.
	m := result.Metrics
	if !m.TotalDeposits.Equal(M(1500, USD)) {
		t.Errorf("TotalDeposits = %s, want $1,500.00", m.TotalDeposits)
	}
	if !m.FinalValue.Equal(M(1500, USD)) {
		t.Errorf("FinalValue = %s, want $1,500.00", m.FinalValue)
	}
	if !m.TotalReturn.IsZero() {
		t.Errorf("TotalReturn = %s, want zero", m.TotalReturn)
	}
	if m.TotalReturnPct != 0 {
		t.Errorf("TotalReturnPct = %v, want 0", m.TotalReturnPct)
	}
	if !result.Portfolio.Cash.IsZero() {
		t.Errorf("Cash = %s, want fully invested", result.Portfolio.Cash)
	}
	if len(result.History) != 6 {
		t.Errorf("got %d history snapshots, want 6", len(result.History))
	}
	if !result.Portfolio.Holdings["X"].SharesRemaining.Equal(Q(30)) {
		t.Errorf("X shares = %s, want 30", result.Portfolio.Holdings["X"].SharesRemaining)
	}
}

func TestRunHarvestsCrashedPosition(t *testing.T) {
	cfg := flatConfig(t)
	cfg.EndDate = "2024-02-01"
	market := NewMarketData(USD)
	market.AddPrice("X", NewDate(2024, time.January, 1), 100)
	market.AddPrice("X", NewDate(2024, time.February, 1), 50)

	sim, err := NewSimulation(cfg, market, []string{"X"})
	if err != nil {
		t.Fatalf("NewSimulation() returned unexpected error: %v", err)
	}
	result, err := sim.Run()
	if err != nil {
		t.Fatalf("Run() returned unexpected error: %v", err)
	}

	// Cycle 1 buys 10 shares at 100. Cycle 2 finds them down 50%, harvests
	// the lot, and the wash-sale exclusion keeps the cash uninvested.
	m := result.Metrics
	if !m.ShortTermLosses.Equal(M(-500, USD)) {
		t.Errorf("ShortTermLosses = %s, want -$500.00", m.ShortTermLosses)
	}
	if !m.RealizedLosses.Equal(M(-500, USD)) {
		t.Errorf("RealizedLosses = %s, want -$500.00", m.RealizedLosses)
	}
	if !m.TaxSavings.Equal(M(150, USD)) {
		t.Errorf("TaxSavings = %s, want $150.00 at the default 30%% rate", m.TaxSavings)
	}
	if !result.Portfolio.Cash.Equal(M(600, USD)) {
		t.Errorf("Cash = %s, want the $500.00 proceeds plus the $100.00 contribution", result.Portfolio.Cash)
	}
}

func TestRunSnapsToClosestTradingDay(t *testing.T) {
	cfg := flatConfig(t)
	cfg.EndDate = "2024-02-01"
	market := NewMarketData(USD)
	// New year's day is not a trading day, the 2nd is.
	market.AddPrice("X", NewDate(2024, time.January, 2), 50)
	market.AddPrice("X", NewDate(2024, time.February, 1), 50)

	sim, err := NewSimulation(cfg, market, []string{"X"})
	if err != nil {
		t.Fatalf("NewSimulation() returned unexpected error: %v", err)
	}
	result, err := sim.Run()
	if err != nil {
		t.Fatalf("Run() returned unexpected error: %v", err)
	}
	if got := result.History[0].Date; got != NewDate(2024, time.January, 2) {
		t.Errorf("first cycle ran on %s, want 2024-01-02", got)
	}
}

func TestRunSkipsCycleWithoutTradingDay(t *testing.T) {
	cfg := flatConfig(t)
	cfg.EndDate = "2024-03-01"
	market := NewMarketData(USD)
	market.AddPrice("X", NewDate(2024, time.January, 1), 50)
	// No prices anywhere near February 1st.
	market.AddPrice("X", NewDate(2024, time.March, 1), 50)

	sim, err := NewSimulation(cfg, market, []string{"X"})
	if err != nil {
		t.Fatalf("NewSimulation() returned unexpected error: %v", err)
	}
	result, err := sim.Run()
	if err != nil {
		t.Fatalf("Run() returned unexpected error: %v", err)
	}
	if len(result.History) != 2 {
		t.Fatalf("got %d history snapshots, want 2 with the february cycle skipped", len(result.History))
	}
	// The skipped cycle injects nothing.
	if !result.Metrics.TotalDeposits.Equal(M(1100, USD)) {
		t.Errorf("TotalDeposits = %s, want $1,100.00", result.Metrics.TotalDeposits)
	}
}

func TestRunKeepsInitialDepositWhenFirstCycleIsSkipped(t *testing.T) {
	cfg := flatConfig(t)
	cfg.EndDate = "2024-03-01"
	market := NewMarketData(USD)
	// No trading day anywhere near the january start.
	market.AddPrice("X", NewDate(2024, time.February, 1), 50)
	market.AddPrice("X", NewDate(2024, time.March, 1), 50)

	sim, err := NewSimulation(cfg, market, []string{"X"})
	if err != nil {
		t.Fatalf("NewSimulation() returned unexpected error: %v", err)
	}
	result, err := sim.Run()
	if err != nil {
		t.Fatalf("Run() returned unexpected error: %v", err)
	}

	// The initial deposit lands before the first cycle, so skipping january
	// only loses that cycle's trades, never the $1,000.00 itself.
	if !result.Metrics.TotalDeposits.Equal(M(1200, USD)) {
		t.Errorf("TotalDeposits = %s, want $1,200.00", result.Metrics.TotalDeposits)
	}
	if len(result.History) != 2 {
		t.Fatalf("got %d history snapshots, want 2", len(result.History))
	}
	// 1100 invested in february and 100 in march, all at 50.
	if !result.Portfolio.Holdings["X"].SharesRemaining.Equal(Q(24)) {
		t.Errorf("X shares = %s, want 24", result.Portfolio.Holdings["X"].SharesRemaining)
	}
}

func TestRunRebalanceClockRunsOnScheduledDate(t *testing.T) {
	cfg := flatConfig(t)
	cfg.StartDate = "2024-01-02"
	cfg.EndDate = "2024-02-05"
	cfg.RebalanceFrequency = string(Monthly)
	market := NewMarketData(USD)
	market.AddPrice("X", NewDate(2024, time.January, 2), 100)
	market.AddPrice("X", NewDate(2024, time.January, 30), 100)

	sim, err := NewSimulation(cfg, market, []string{"X"})
	if err != nil {
		t.Fatalf("NewSimulation() returned unexpected error: %v", err)
	}
	result, err := sim.Run()
	if err != nil {
		t.Fatalf("Run() returned unexpected error: %v", err)
	}

	// The february cycle snaps back to january 30, but the clock sees the
	// scheduled february date and rebalances instead of investing.
	var rebalanced bool
	for _, tx := range result.Transactions {
		if tx.Type == TxBuy && tx.Date == NewDate(2024, time.January, 30) {
			rebalanced = strings.HasPrefix(tx.Description, "Rebalancing buy")
		}
	}
	if !rebalanced {
		t.Error("second cycle should have triggered the monthly rebalance")
	}
}

func TestNewSimulationRejectsUnknownTickers(t *testing.T) {
	cfg := flatConfig(t)
	market := NewMarketData(USD)
	_, err := NewSimulation(cfg, market, []string{"GHOST"})
	if !errors.Is(err, ErrNoValidTickers) {
		t.Errorf("NewSimulation() error = %v, want ErrNoValidTickers", err)
	}
}
