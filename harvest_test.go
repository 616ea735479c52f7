package forecast

import (
	"strings"
	"testing"
	"time"
)

func TestHarvestLossesSellsLotsAtTrigger(t *testing.T) {
	buyDay := NewDate(2024, time.January, 2)
	scanDay := NewDate(2024, time.February, 1)
	market := NewMarketData(USD)
	market.AddPrice("AAPL", scanDay, 85) // down 15% from the 100 cost

	p := NewPortfolio("test", USD)
	p.AddCash(M(1000, USD), buyDay, "seed")
	p.Buy("AAPL", M(1000, USD), M(100, USD), buyDay, "buy")

	harvested := p.HarvestLosses(market, scanDay, -10)
	if len(harvested) != 1 || harvested[0] != "AAPL" {
		t.Fatalf("HarvestLosses() = %v, want [AAPL]", harvested)
	}
	if !p.ShortTermLosses.Equal(M(-150, USD)) {
		t.Errorf("ShortTermLosses = %s, want -$150.00", p.ShortTermLosses)
	}
	if !p.Cash.Equal(M(850, USD)) {
		t.Errorf("Cash = %s, want the $850.00 proceeds", p.Cash)
	}
	h := p.Holdings["AAPL"]
	if !h.SharesRemaining.IsZero() {
		t.Errorf("SharesRemaining = %s, want zero", h.SharesRemaining)
	}
	tx := p.Transactions[len(p.Transactions)-1]
	if tx.Type != TxSell || !strings.Contains(tx.Description, "tax-loss harvesting") {
		t.Errorf("harvest transaction = %+v, want a tax-loss harvesting sell", tx)
	}
}

func TestHarvestLossesIgnoresShallowLosses(t *testing.T) {
	buyDay := NewDate(2024, time.January, 2)
	scanDay := NewDate(2024, time.February, 1)
	market := NewMarketData(USD)
	market.AddPrice("AAPL", scanDay, 95) // only down 5%

	p := NewPortfolio("test", USD)
	p.AddCash(M(1000, USD), buyDay, "seed")
	p.Buy("AAPL", M(1000, USD), M(100, USD), buyDay, "buy")

	if harvested := p.HarvestLosses(market, scanDay, -10); len(harvested) != 0 {
		t.Errorf("HarvestLosses() = %v, want nothing harvested at a 5%% loss", harvested)
	}
	if !p.Holdings["AAPL"].SharesRemaining.Equal(Q(10)) {
		t.Error("position must be untouched")
	}
}

func TestHarvestLossesScansLotsIndependently(t *testing.T) {
	day1 := NewDate(2024, time.January, 2)
	day2 := NewDate(2024, time.March, 1)
	scanDay := NewDate(2024, time.April, 1)
	market := NewMarketData(USD)
	market.AddPrice("AAPL", scanDay, 90)

	p := NewPortfolio("test", USD)
	p.AddCash(M(2000, USD), day1, "seed")
	p.Buy("AAPL", M(800, USD), M(80, USD), day1, "cheap lot")   // +12.5% at 90
	p.Buy("AAPL", M(1200, USD), M(120, USD), day2, "dear lot") // -25% at 90

	harvested := p.HarvestLosses(market, scanDay, -10)
	if len(harvested) != 1 {
		t.Fatalf("HarvestLosses() = %v, want the loss lot's ticker", harvested)
	}
	h := p.Holdings["AAPL"]
	// The 80 lot (10 shares) survives, the 120 lot is gone.
	if !h.SharesRemaining.Equal(Q(10)) {
		t.Errorf("SharesRemaining = %s, want 10", h.SharesRemaining)
	}
	if !p.ShortTermLosses.Equal(M(-300, USD)) {
		t.Errorf("ShortTermLosses = %s, want -$300.00", p.ShortTermLosses)
	}
}
