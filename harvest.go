package forecast

import "fmt"

// HarvestLosses scans every active lot at the prices of the given date and
// liquidates each lot whose return has fallen to the trigger or below. The
// trigger is a negative percentage, e.g. -10 harvests lots down 10% or more.
// Whole lots are sold; a lot is never trimmed. It returns the tickers that
// had at least one lot harvested, sorted.
func (p *Portfolio) HarvestLosses(market *MarketData, on Date, trigger Percent) []string {
	var harvested []string
	for _, ticker := range p.Tickers() {
		price, ok := market.Price(ticker, on)
		if !ok {
			continue
		}
		h := p.Holdings[ticker]
		hit := false
		for _, lot := range h.Lots {
			if !lot.Active() {
				continue
			}
			cost := lot.proratedCost()
			if !cost.IsPositive() {
				continue
			}
			value := price.Mul(lot.SharesRemaining)
			ret := Percent((value.Float64()/cost.Float64() - 1) * 100)
			if ret > trigger {
				continue
			}
			p.sellLot(h, lot, price, on, "tax-loss harvesting")
			hit = true
		}
		if hit {
			p.refreshBasis(h)
			harvested = append(harvested, ticker)
		}
	}
	return harvested
}

// sellLot liquidates one lot in full at the given price and records the sale.
// The caller refreshes the holding's basis afterwards.
func (p *Portfolio) sellLot(h *Holding, lot *Lot, price Money, on Date, reason string) {
	sold := lot.SharesRemaining
	cost := lot.proratedCost()
	lot.SharesRemaining = Q(0)
	lot.Sold = true

	proceeds := price.Mul(sold).Round()
	gainLoss := proceeds.Sub(cost).Round()
	daysHeld := on.DaysSince(lot.PurchaseDate)
	p.Cash = p.Cash.Add(proceeds)
	p.recordGainLoss(gainLoss, daysHeld)

	var gainLossPct Percent
	if cost.IsPositive() {
		gainLossPct = Percent(gainLoss.Float64() / cost.Float64() * 100)
	}
	p.Transactions = append(p.Transactions, Transaction{
		Date:        on,
		Type:        TxSell,
		Ticker:      h.Ticker,
		Shares:      sold,
		Price:       price,
		Amount:      proceeds,
		GainLoss:    gainLoss,
		GainLossPct: gainLossPct,
		DaysHeld:    daysHeld,
		Description: fmt.Sprintf("Sell of %s shares purchased on %s for %s", sold, lot.PurchaseDate, reason),
	})
}
