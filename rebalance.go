package forecast

import (
	"fmt"
	"log"
	"sort"
)

// IsRebalancingNeeded reports whether the calendar has rolled into a new
// rebalancing period since the last trigger. The first call only arms the
// clock. When it returns true the clock advances to the given date.
func (p *Portfolio) IsRebalancingNeeded(on Date) bool {
	if p.lastRebalanceDate.IsZero() {
		p.lastRebalanceDate = on
		return false
	}
	last := p.lastRebalanceDate
	due := false
	switch p.RebalanceFrequency {
	case Monthly:
		due = on.Year() != last.Year() || on.Month() != last.Month()
	case Quarterly:
		due = on.Year() != last.Year() || on.Quarter() != last.Quarter()
	case Yearly:
		due = on.Year() != last.Year()
	}
	if due {
		p.lastRebalanceDate = on
	}
	return due
}

// PerformRebalance trades the portfolio back toward its target weights at the
// prices of the given date. Overweight positions are sold first, inside a 2%
// tolerance band, then the freed cash tops up underweight positions. Buy
// orders below $10 are skipped. It returns the tickers traded, sorted.
func (p *Portfolio) PerformRebalance(market *MarketData, on Date, excluded map[string]bool) []string {
	targets := p.Allocation.Tickers()
	if p.Allocation.IsEqual() {
		targets = p.Tickers()
	}
	var eligible []string
	for _, t := range targets {
		if excluded[t] {
			continue
		}
		if _, ok := market.Price(t, on); !ok {
			log.Printf("warning: no price for %s on %s, skipped in rebalance", t, on)
			continue
		}
		eligible = append(eligible, t)
	}
	sort.Strings(eligible)
	weights := p.Allocation.Weights(eligible)

	total := p.TotalValue(market, on)
	traded := make(map[string]bool)

	// Sell side: liquidate dropped tickers, trim overweight ones.
	for _, ticker := range p.Tickers() {
		h := p.Holdings[ticker]
		if !h.SharesRemaining.IsPositive() {
			continue
		}
		price, ok := market.Price(ticker, on)
		if !ok {
			continue
		}
		weight, targeted := weights[ticker], weights[ticker] > 0
		if !targeted {
			p.Sell(ticker, h.SharesRemaining, price, on, "rebalancing (position dropped)")
			traded[ticker] = true
			continue
		}
		target := total.MulWeight(weight)
		if h.CurrentValue.GreaterThan(target.MulWeight(1.02)) {
			excess := h.CurrentValue.Sub(target)
			shares := excess.DivPrice(price).Round2()
			if shares.GreaterThan(Q(0.01)) {
				p.Sell(ticker, shares, price, on, "rebalancing")
				traded[ticker] = true
			}
		}
	}

	// Buy side: top up underweight positions from the cash freed above.
	minOrder := M(10, p.currency)
	if p.Cash.GreaterThan(minOrder) {
		total = p.TotalValue(market, on)
		for _, ticker := range eligible {
			weight := weights[ticker]
			if weight <= 0 {
				continue
			}
			price, _ := market.Price(ticker, on)
			current := M(0, p.currency)
			if h, ok := p.Holdings[ticker]; ok {
				current = h.CurrentValue
			}
			target := total.MulWeight(weight)
			if current.GreaterThanOrEqual(target.MulWeight(0.98)) {
				continue
			}
			amount := target.Sub(current)
			if amount.GreaterThan(p.Cash) {
				amount = p.Cash
			}
			if amount.LessThanOrEqual(minOrder) {
				continue
			}
			shares := amount.DivPrice(price).Round2()
			if shares.LessThan(Q(0.01)) {
				continue
			}
			desc := fmt.Sprintf("Rebalancing buy toward %.2f%% target", weight*100)
			if p.Buy(ticker, amount, price, on, desc).IsPositive() {
				traded[ticker] = true
			}
		}
	}

	out := make([]string, 0, len(traded))
	for t := range traded {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
