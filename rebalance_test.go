package forecast

import (
	"testing"
	"time"
)

func TestIsRebalancingNeeded(t *testing.T) {
	testCases := []struct {
		name      string
		frequency Frequency
		first     Date
		second    Date
		want      bool
	}{
		{"monthly same month", Monthly, NewDate(2024, time.January, 5), NewDate(2024, time.January, 25), false},
		{"monthly next month", Monthly, NewDate(2024, time.January, 5), NewDate(2024, time.February, 5), true},
		{"quarterly same quarter", Quarterly, NewDate(2024, time.January, 5), NewDate(2024, time.March, 5), false},
		{"quarterly next quarter", Quarterly, NewDate(2024, time.March, 5), NewDate(2024, time.April, 5), true},
		{"yearly same year", Yearly, NewDate(2024, time.January, 5), NewDate(2024, time.December, 5), false},
		{"yearly next year", Yearly, NewDate(2024, time.December, 5), NewDate(2025, time.January, 5), true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPortfolio("test", USD)
			p.RebalanceFrequency = tc.frequency
			if p.IsRebalancingNeeded(tc.first) {
				t.Fatal("the first call only arms the clock")
			}
			if got := p.IsRebalancingNeeded(tc.second); got != tc.want {
				t.Errorf("IsRebalancingNeeded(%s) = %v, want %v", tc.second, got, tc.want)
			}
		})
	}
}

func TestIsRebalancingNeededAdvancesTheClock(t *testing.T) {
	p := NewPortfolio("test", USD)
	p.RebalanceFrequency = Monthly
	p.IsRebalancingNeeded(NewDate(2024, time.January, 5))
	if !p.IsRebalancingNeeded(NewDate(2024, time.February, 5)) {
		t.Fatal("february should trigger")
	}
	if p.IsRebalancingNeeded(NewDate(2024, time.February, 25)) {
		t.Error("second february call must not trigger again")
	}
}

func TestPerformRebalanceTrimsAndTopsUp(t *testing.T) {
	buyDay := NewDate(2024, time.January, 2)
	day := NewDate(2024, time.April, 1)
	market := NewMarketData(USD)
	market.AddPrice("A", buyDay, 100)
	market.AddPrice("B", buyDay, 100)
	market.AddPrice("A", day, 100)
	market.AddPrice("B", day, 50)

	p := NewPortfolio("test", USD)
	p.Allocation = EqualAllocation()
	p.AddCash(M(2000, USD), buyDay, "seed")
	p.Buy("A", M(1000, USD), M(100, USD), buyDay, "buy A")
	p.Buy("B", M(1000, USD), M(100, USD), buyDay, "buy B")

	// B halved: A is worth 1000 of a 1500 total, target is 750 each.
	traded := p.PerformRebalance(market, day, nil)
	if len(traded) != 2 {
		t.Fatalf("PerformRebalance() traded %v, want both tickers", traded)
	}
	a, b := p.Holdings["A"], p.Holdings["B"]
	if !a.SharesRemaining.Equal(Q(7.5)) {
		t.Errorf("A shares = %s, want 7.5 after trimming $250.00", a.SharesRemaining)
	}
	if !b.SharesRemaining.Equal(Q(15)) {
		t.Errorf("B shares = %s, want 15 after the top-up", b.SharesRemaining)
	}
	if !p.Cash.IsZero() {
		t.Errorf("Cash = %s, want zero", p.Cash)
	}
}

func TestPerformRebalanceLiquidatesDroppedTickers(t *testing.T) {
	buyDay := NewDate(2024, time.January, 2)
	day := NewDate(2024, time.April, 1)
	market := NewMarketData(USD)
	market.AddPrice("A", buyDay, 100)
	market.AddPrice("B", buyDay, 100)
	market.AddPrice("A", day, 100)
	market.AddPrice("B", day, 100)

	p := NewPortfolio("test", USD)
	p.Allocation = CustomAllocation(map[string]float64{"A": 1})
	p.AddCash(M(2000, USD), buyDay, "seed")
	p.Buy("A", M(1000, USD), M(100, USD), buyDay, "buy A")
	p.Buy("B", M(1000, USD), M(100, USD), buyDay, "buy B")

	p.PerformRebalance(market, day, nil)
	if !p.Holdings["B"].SharesRemaining.IsZero() {
		t.Errorf("B shares = %s, want full liquidation", p.Holdings["B"].SharesRemaining)
	}
	// The B proceeds flow into A.
	if !p.Holdings["A"].SharesRemaining.Equal(Q(20)) {
		t.Errorf("A shares = %s, want 20", p.Holdings["A"].SharesRemaining)
	}
}

func TestPerformRebalanceLeavesBalancedPortfolioAlone(t *testing.T) {
	buyDay := NewDate(2024, time.January, 2)
	day := NewDate(2024, time.April, 1)
	market := NewMarketData(USD)
	market.AddPrice("A", buyDay, 100)
	market.AddPrice("B", buyDay, 100)
	market.AddPrice("A", day, 101)
	market.AddPrice("B", day, 100)

	p := NewPortfolio("test", USD)
	p.Allocation = EqualAllocation()
	p.AddCash(M(2000, USD), buyDay, "seed")
	p.Buy("A", M(1000, USD), M(100, USD), buyDay, "buy A")
	p.Buy("B", M(1000, USD), M(100, USD), buyDay, "buy B")

	// A 1% drift stays inside the 2% tolerance band.
	if traded := p.PerformRebalance(market, day, nil); len(traded) != 0 {
		t.Errorf("PerformRebalance() traded %v, want nothing inside the band", traded)
	}
}
