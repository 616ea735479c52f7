package forecast

import "fmt"

// Buy purchases shares of a ticker at the given price, spending at most the
// requested amount. The order is clamped to the available cash. It returns
// the shares actually bought, which can be zero.
func (p *Portfolio) Buy(ticker string, amount, price Money, on Date, description string) Quantity {
	if !price.IsPositive() {
		return Q(0)
	}
	if amount.GreaterThan(p.Cash) {
		amount = p.Cash
	}
	shares := amount.DivPrice(price).Truncate2()
	if !shares.IsPositive() {
		return Q(0)
	}
	cost := price.Mul(shares).Round()
	p.Cash = p.Cash.Sub(cost)

	h := p.ensureHolding(ticker)
	h.Lots = append(h.Lots, &Lot{
		PurchaseDate:    on,
		SharesInitial:   shares,
		SharesRemaining: shares,
		UnitCost:        price,
		TotalCost:       cost,
	})
	p.refreshBasis(h)

	p.Transactions = append(p.Transactions, Transaction{
		Date:        on,
		Type:        TxBuy,
		Ticker:      ticker,
		Shares:      shares,
		Price:       price,
		Amount:      cost.Neg(),
		Description: description,
	})
	return shares
}

// Sell liquidates up to the requested number of shares of a ticker at the
// given price. Lots are consumed in sell-queue order, realizing losses before
// gains; each lot touched produces its own sell transaction. It returns the
// total proceeds credited to cash.
func (p *Portfolio) Sell(ticker string, shares Quantity, price Money, on Date, reason string) Money {
	proceeds := M(0, p.currency)
	h, ok := p.Holdings[ticker]
	if !ok || !shares.IsPositive() || !price.IsPositive() {
		return proceeds
	}

	remaining := shares
	for _, lot := range h.Lots.sellQueue(price) {
		if !remaining.IsPositive() {
			break
		}
		var sold Quantity
		if lot.SharesRemaining.LessThanOrEqual(remaining) {
			sold = lot.SharesRemaining
			lot.SharesRemaining = Q(0)
			lot.Sold = true
		} else {
			sold = remaining.Round2()
			lot.SharesRemaining = lot.SharesRemaining.Sub(sold).Round4()
		}
		// Cost basis comes off the unit cost, not the rounded lot total.
		cost := lot.UnitCost.Mul(sold)
		remaining = remaining.Sub(sold)

		lotProceeds := price.Mul(sold).Round()
		gainLoss := lotProceeds.Sub(cost).Round()
		daysHeld := on.DaysSince(lot.PurchaseDate)
		p.Cash = p.Cash.Add(lotProceeds)
		proceeds = proceeds.Add(lotProceeds)
		p.recordGainLoss(gainLoss, daysHeld)

		var gainLossPct Percent
		if cost.IsPositive() {
			gainLossPct = Percent(gainLoss.Float64() / cost.Float64() * 100)
		}
		desc := fmt.Sprintf("Sell of %s shares purchased on %s for %s", sold, lot.PurchaseDate, reason)
		if lot.SharesRemaining.IsPositive() {
			desc = fmt.Sprintf("Partial sell of %s shares purchased on %s for %s", sold, lot.PurchaseDate, reason)
		}
		p.Transactions = append(p.Transactions, Transaction{
			Date:        on,
			Type:        TxSell,
			Ticker:      ticker,
			Shares:      sold,
			Price:       price,
			Amount:      lotProceeds,
			GainLoss:    gainLoss,
			GainLossPct: gainLossPct,
			DaysHeld:    daysHeld,
			Description: desc,
		})
	}

	p.refreshBasis(h)
	return proceeds
}

// refreshBasis recomputes a holding's remaining shares and its
// weighted-average cost per share from the active lots.
func (p *Portfolio) refreshBasis(h *Holding) {
	h.SharesRemaining = h.Lots.sharesRemaining()
	if !h.SharesRemaining.IsPositive() {
		h.CostBasis = M(0, p.currency)
		return
	}
	total := M(0, p.currency)
	for _, lot := range h.Lots.active() {
		total = total.Add(lot.proratedCost())
	}
	h.CostBasis = total.Div(h.SharesRemaining)
}

// updatePositions refreshes the per-lot valuation fields of a holding at the
// given price.
func updatePositions(h *Holding, price Money, on Date) {
	for _, lot := range h.Lots {
		if !lot.Active() {
			continue
		}
		lot.DaysHeld = on.DaysSince(lot.PurchaseDate)
		lot.CurrentValue = price.Mul(lot.SharesRemaining).Round()
		if cost := lot.proratedCost(); cost.IsPositive() {
			pct := (lot.CurrentValue.Float64()/cost.Float64() - 1) * 100
			lot.ReturnPct = Percent(pct)
		} else {
			lot.ReturnPct = 0
		}
	}
}
