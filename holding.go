package forecast

// Holding is the aggregate state of one ticker inside a portfolio.
//
// Invariant: SharesRemaining equals the sum of the active lots' remaining
// shares after every operation.
type Holding struct {
	Ticker          string
	SharesRemaining Quantity
	CostBasis       Money // weighted-average cost per share across active lots
	Lots            lots

	// Valuation fields, refreshed by each total-value pass.
	CurrentPrice          Money
	CurrentValue          Money
	Weight                Percent // share of total portfolio value
	UnrealizedGainLoss    Money
	UnrealizedGainLossPct Percent
	LastUpdate            Date

	DividendIncome Money

	// Optional classification metadata.
	Sector     string
	AssetClass string
}

func newHolding(ticker, currency string) *Holding {
	return &Holding{
		Ticker:          ticker,
		SharesRemaining: Q(0),
		CostBasis:       M(0, currency),
		CurrentPrice:    M(0, currency),
		CurrentValue:    M(0, currency),
		DividendIncome:  M(0, currency),
	}
}

// revalue refreshes the holding's valuation fields at the given price.
func (h *Holding) revalue(price Money, on Date) {
	h.CurrentPrice = price
	h.CurrentValue = price.Mul(h.SharesRemaining)
	h.LastUpdate = on
	totalCost := h.CostBasis.Mul(h.SharesRemaining)
	if totalCost.IsPositive() && h.SharesRemaining.IsPositive() {
		h.UnrealizedGainLoss = h.CurrentValue.Sub(totalCost)
		h.UnrealizedGainLossPct = Percent(h.UnrealizedGainLoss.Float64() / totalCost.Float64() * 100)
	} else {
		h.UnrealizedGainLoss = M(0, price.Currency())
		h.UnrealizedGainLossPct = 0
	}
}

// MarshalJSON implements the json.Marshaler interface for Holding.
func (h *Holding) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("ticker", h.Ticker)
	w.Append("shares_remaining", h.SharesRemaining)
	w.Append("cost_basis", h.CostBasis)
	w.Append("current_price", h.CurrentPrice)
	w.Append("current_value", h.CurrentValue)
	w.Append("weight", float64(h.Weight))
	w.Append("unrealized_gain_loss", h.UnrealizedGainLoss)
	w.Append("unrealized_gain_loss_pct", float64(h.UnrealizedGainLossPct))
	w.Append("dividend_income", h.DividendIncome)
	w.Optional("sector", h.Sector)
	w.Optional("asset_class", h.AssetClass)
	w.Append("lots", h.Lots)
	return w.MarshalJSON()
}
