package forecast

import (
	"sort"
)

// Portfolio is the aggregate root of a simulation: cash, per-ticker holdings
// with their lots, the append-only transaction log, realized gain/loss
// buckets and the daily valuation history.
type Portfolio struct {
	Name     string
	Cash     Money
	Holdings map[string]*Holding

	Transactions TransactionLog
	History      []HistorySnapshot

	Allocation         Allocation
	RebalanceFrequency Frequency
	RebalanceThreshold Percent

	lastRebalanceDate Date

	// Realized gain/loss buckets, split at a 365-day holding period.
	ShortTermGains  Money
	LongTermGains   Money
	ShortTermLosses Money
	LongTermLosses  Money

	TotalDeposits    Money
	TotalWithdrawals Money

	maxDrawdown Percent
	currency    string
}

// HistorySnapshot is one row of the portfolio's daily valuation history.
type HistorySnapshot struct {
	Date             Date
	Cash             Money
	InvestmentsValue Money
	TotalValue       Money
	DailyReturn      Percent // vs the previous snapshot's total value
	CashAllocation   Percent
	RealizedGainLoss Money // cumulative over all four buckets
	MaxDrawdown      Percent
}

// MarshalJSON implements the json.Marshaler interface for HistorySnapshot.
func (s HistorySnapshot) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("date", s.Date)
	w.Append("cash", s.Cash)
	w.Append("investments_value", s.InvestmentsValue)
	w.Append("total_value", s.TotalValue)
	w.Append("daily_return", float64(s.DailyReturn))
	w.Append("cash_allocation", float64(s.CashAllocation))
	w.Append("realized_gain_loss", s.RealizedGainLoss)
	w.Append("max_drawdown", float64(s.MaxDrawdown))
	return w.MarshalJSON()
}

// NewPortfolio returns an empty portfolio denominated in the given currency.
func NewPortfolio(name, currency string) *Portfolio {
	if currency == "" {
		currency = USD
	}
	return &Portfolio{
		Name:             name,
		Cash:             M(0, currency),
		Holdings:         make(map[string]*Holding),
		ShortTermGains:   M(0, currency),
		LongTermGains:    M(0, currency),
		ShortTermLosses:  M(0, currency),
		LongTermLosses:   M(0, currency),
		TotalDeposits:    M(0, currency),
		TotalWithdrawals: M(0, currency),
		currency:         currency,
	}
}

// Currency returns the portfolio's denomination currency.
func (p *Portfolio) Currency() string { return p.currency }

// AddCash records a cash movement on the given date. A positive amount is a
// deposit, a negative one a withdrawal. A withdrawal larger than the cash
// balance is clamped to the balance.
func (p *Portfolio) AddCash(amount Money, on Date, description string) Money {
	if amount.IsNegative() {
		withdrawal := amount.Neg()
		if withdrawal.GreaterThan(p.Cash) {
			withdrawal = p.Cash
		}
		if !withdrawal.IsPositive() {
			return M(0, p.currency)
		}
		p.Cash = p.Cash.Sub(withdrawal)
		p.TotalWithdrawals = p.TotalWithdrawals.Add(withdrawal)
		p.Transactions = append(p.Transactions, Transaction{
			Date:        on,
			Type:        TxWithdrawal,
			Amount:      withdrawal,
			Description: description,
		})
		return withdrawal.Neg()
	}
	p.Cash = p.Cash.Add(amount)
	p.TotalDeposits = p.TotalDeposits.Add(amount)
	p.Transactions = append(p.Transactions, Transaction{
		Date:        on,
		Type:        TxDeposit,
		Amount:      amount,
		Description: description,
	})
	return amount
}

// RecordDividend credits a cash dividend for a ticker and tracks the income
// on the holding.
func (p *Portfolio) RecordDividend(ticker string, amount Money, on Date) {
	h := p.ensureHolding(ticker)
	h.DividendIncome = h.DividendIncome.Add(amount)
	p.Cash = p.Cash.Add(amount)
	p.Transactions = append(p.Transactions, Transaction{
		Date:        on,
		Type:        TxDividend,
		Ticker:      ticker,
		Amount:      amount,
		Description: "dividend payment",
	})
}

// SetTickerMetadata attaches sector and asset-class labels to a ticker's
// holding, creating the holding if needed.
func (p *Portfolio) SetTickerMetadata(ticker, sector, assetClass string) {
	h := p.ensureHolding(ticker)
	if sector != "" {
		h.Sector = sector
	}
	if assetClass != "" {
		h.AssetClass = assetClass
	}
}

// TotalValue revalues every holding at the market's prices for the given
// date and returns cash plus investments. Holdings with no price on that
// date keep their last valuation. Weights are refreshed against the new
// total.
func (p *Portfolio) TotalValue(market *MarketData, on Date) Money {
	investments := M(0, p.currency)
	for _, h := range p.Holdings {
		if price, ok := market.Price(h.Ticker, on); ok {
			h.revalue(price, on)
			updatePositions(h, price, on)
		}
		investments = investments.Add(h.CurrentValue)
	}
	total := p.Cash.Add(investments)
	if total.IsPositive() {
		for _, h := range p.Holdings {
			h.Weight = Percent(h.CurrentValue.Float64() / total.Float64() * 100)
		}
	}
	return total
}

// realizedTotal sums the four realized buckets.
func (p *Portfolio) realizedTotal() Money {
	return p.ShortTermGains.Add(p.LongTermGains).Add(p.ShortTermLosses).Add(p.LongTermLosses)
}

// SnapshotHistory appends a valuation row for the given date. The daily
// return is measured against the previous snapshot's total; the max drawdown
// is the worst decline from the running peak seen so far.
func (p *Portfolio) SnapshotHistory(market *MarketData, on Date) {
	total := p.TotalValue(market, on)
	investments := total.Sub(p.Cash)

	var daily Percent
	if n := len(p.History); n > 0 {
		prev := p.History[n-1].TotalValue
		if prev.IsPositive() {
			daily = Percent((total.Float64()/prev.Float64() - 1) * 100)
		}
	}

	var cashAlloc Percent
	if total.IsPositive() {
		cashAlloc = Percent(p.Cash.Float64() / total.Float64() * 100)
	}

	peak := total.Float64()
	for _, s := range p.History {
		if v := s.TotalValue.Float64(); v > peak {
			peak = v
		}
	}
	if peak > 0 {
		if dd := Percent((total.Float64()/peak - 1) * 100); dd < p.maxDrawdown {
			p.maxDrawdown = dd
		}
	}

	p.History = append(p.History, HistorySnapshot{
		Date:             on,
		Cash:             p.Cash,
		InvestmentsValue: investments,
		TotalValue:       total,
		DailyReturn:      daily,
		CashAllocation:   cashAlloc,
		RealizedGainLoss: p.realizedTotal(),
		MaxDrawdown:      p.maxDrawdown,
	})
}

// MaxDrawdown returns the worst peak-to-trough decline recorded so far.
func (p *Portfolio) MaxDrawdown() Percent { return p.maxDrawdown }

// recordGainLoss routes a realized gain or loss into the short-term or
// long-term bucket. Holdings of 365 days or more count as long term.
func (p *Portfolio) recordGainLoss(gainLoss Money, daysHeld int) {
	longTerm := daysHeld >= 365
	switch {
	case gainLoss.IsPositive() && longTerm:
		p.LongTermGains = p.LongTermGains.Add(gainLoss)
	case gainLoss.IsPositive():
		p.ShortTermGains = p.ShortTermGains.Add(gainLoss)
	case longTerm:
		p.LongTermLosses = p.LongTermLosses.Add(gainLoss)
	default:
		p.ShortTermLosses = p.ShortTermLosses.Add(gainLoss)
	}
}

func (p *Portfolio) ensureHolding(ticker string) *Holding {
	h, ok := p.Holdings[ticker]
	if !ok {
		h = newHolding(ticker, p.currency)
		p.Holdings[ticker] = h
	}
	return h
}

// Tickers returns the portfolio's tickers, sorted.
func (p *Portfolio) Tickers() []string {
	out := make([]string, 0, len(p.Holdings))
	for t := range p.Holdings {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// AssetAllocation breaks the current investments value down by asset class.
// Holdings without a class are grouped under "unclassified".
func (p *Portfolio) AssetAllocation() map[string]Percent {
	return p.allocationBy(func(h *Holding) string { return h.AssetClass })
}

// SectorAllocation breaks the current investments value down by sector.
func (p *Portfolio) SectorAllocation() map[string]Percent {
	return p.allocationBy(func(h *Holding) string { return h.Sector })
}

func (p *Portfolio) allocationBy(key func(*Holding) string) map[string]Percent {
	values := make(map[string]float64)
	var total float64
	for _, h := range p.Holdings {
		k := key(h)
		if k == "" {
			k = "unclassified"
		}
		v := h.CurrentValue.Float64()
		values[k] += v
		total += v
	}
	out := make(map[string]Percent, len(values))
	if total <= 0 {
		return out
	}
	for k, v := range values {
		out[k] = Percent(v / total * 100)
	}
	return out
}
