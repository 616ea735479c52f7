package forecast

import (
	"fmt"
	"log"
	"sort"
)

// Allocation describes how contributed cash is split across tickers. It is
// either an equal split over the portfolio's tickers or a fixed set of
// custom weights.
type Allocation struct {
	equal   bool
	weights map[string]float64
}

// EqualAllocation splits cash evenly across all tickers.
func EqualAllocation() Allocation { return Allocation{equal: true} }

// CustomAllocation splits cash by the given per-ticker weights. Weights need
// not sum to one; they are normalized when applied.
func CustomAllocation(weights map[string]float64) Allocation {
	w := make(map[string]float64, len(weights))
	for t, v := range weights {
		w[t] = v
	}
	return Allocation{weights: w}
}

// ParseAllocation builds an Allocation from configuration values: the name
// "equal", or "custom" with a non-empty weight map.
func ParseAllocation(name string, weights map[string]float64) (Allocation, error) {
	switch name {
	case "", "equal":
		return EqualAllocation(), nil
	case "custom":
		if len(weights) == 0 {
			return Allocation{}, fmt.Errorf("custom allocation requires weights")
		}
		for t, v := range weights {
			if v < 0 {
				return Allocation{}, fmt.Errorf("negative weight %v for %s", v, t)
			}
		}
		return CustomAllocation(weights), nil
	default:
		return Allocation{}, fmt.Errorf("unknown allocation %q (want equal or custom)", name)
	}
}

// IsEqual reports whether the allocation is an equal split.
func (a Allocation) IsEqual() bool { return a.equal }

// Tickers returns the tickers a custom allocation names, sorted. An equal
// allocation has none of its own.
func (a Allocation) Tickers() []string {
	out := make([]string, 0, len(a.weights))
	for t := range a.weights {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Weights returns the normalized target weight per ticker, rounded to four
// decimal places. For an equal allocation every ticker gets 1/n. For a custom
// allocation, tickers absent from the weight map get zero and the present
// ones are scaled to sum to one.
func (a Allocation) Weights(tickers []string) map[string]float64 {
	out := make(map[string]float64, len(tickers))
	if len(tickers) == 0 {
		return out
	}
	if a.equal {
		w := round4(1.0 / float64(len(tickers)))
		for _, t := range tickers {
			out[t] = w
		}
		return out
	}
	var total float64
	for _, t := range tickers {
		total += a.weights[t]
	}
	if total <= 0 {
		return out
	}
	for _, t := range tickers {
		out[t] = round4(a.weights[t] / total)
	}
	return out
}

func round4(v float64) float64 {
	return float64(int64(v*10000+0.5)) / 10000
}

// InvestCash spends the portfolio's cash balance across the allocation's
// target weights at the prices of the given date. Tickers in the excluded set
// are dropped and the weights renormalized over the rest; a ticker without a
// price that day is merely skipped, its share of the cash stays uninvested.
// Per-ticker amounts are floored to cents and share counts to two decimals;
// orders below 0.01 shares are skipped. It returns the tickers actually
// bought.
func (p *Portfolio) InvestCash(market *MarketData, on Date, excluded map[string]bool) []string {
	targets := p.Allocation.Tickers()
	if p.Allocation.IsEqual() {
		targets = p.Tickers()
	}
	var universe []string
	for _, t := range targets {
		if excluded[t] {
			continue
		}
		universe = append(universe, t)
	}
	sort.Strings(universe)

	weights := p.Allocation.Weights(universe)
	available := p.Cash
	var bought []string
	for _, ticker := range universe {
		price, ok := market.Price(ticker, on)
		if !ok {
			log.Printf("warning: no price for %s on %s, its share stays in cash", ticker, on)
			continue
		}
		amount := available.MulWeight(weights[ticker]).TruncateCents()
		if !amount.IsPositive() {
			continue
		}
		shares := amount.DivPrice(price).Truncate2()
		if shares.LessThan(Q(0.01)) {
			continue
		}
		desc := fmt.Sprintf("Scheduled investment of %s", amount)
		if p.Buy(ticker, amount, price, on, desc).IsPositive() {
			bought = append(bought, ticker)
		}
	}
	return bought
}
