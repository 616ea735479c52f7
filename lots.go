package forecast

import "sort"

// Lot represents a single purchase batch of a security, tracked independently
// for cost basis and holding-period purposes. Lots are never merged and never
// deleted: once fully sold they stay in the holding with Sold set, so the full
// purchase history remains auditable.
type Lot struct {
	PurchaseDate    Date
	SharesInitial   Quantity // immutable after creation
	SharesRemaining Quantity // monotonically non-increasing, >= 0
	UnitCost        Money    // price paid per share
	TotalCost       Money    // SharesInitial * UnitCost, rounded to cents at creation
	Sold            bool     // true once SharesRemaining reached zero by explicit sale

	// Valuation fields, refreshed by each revaluation pass.
	DaysHeld     int
	CurrentValue Money
	ReturnPct    Percent
}

// Active reports whether the lot still carries sellable shares.
func (l *Lot) Active() bool {
	return !l.Sold && l.SharesRemaining.IsPositive()
}

// proratedCost is the lot's cost scaled down to the remaining fraction of the
// original purchase. Selling half the lot halves the cost the remaining shares
// are measured against.
func (l *Lot) proratedCost() Money {
	return l.TotalCost.Mul(l.SharesRemaining.Div(l.SharesInitial))
}

type lots []*Lot

// active returns the lots that still carry shares.
func (ls lots) active() lots {
	var out lots
	for _, l := range ls {
		if l.Active() {
			out = append(out, l)
		}
	}
	return out
}

// sellQueue orders the active lots for a sale at the given price: loss lots
// (unit cost above the sale price) come first, largest loss first, then gain
// lots oldest first. Losses are realized before gains on purpose.
func (ls lots) sellQueue(price Money) lots {
	var losses, gains lots
	for _, l := range ls.active() {
		if l.UnitCost.GreaterThan(price) {
			losses = append(losses, l)
		} else {
			gains = append(gains, l)
		}
	}
	sort.SliceStable(losses, func(i, j int) bool {
		return losses[i].UnitCost.GreaterThan(losses[j].UnitCost)
	})
	sort.SliceStable(gains, func(i, j int) bool {
		return gains[i].PurchaseDate.Before(gains[j].PurchaseDate)
	})
	return append(losses, gains...)
}

// sharesRemaining sums the remaining shares over the active lots.
func (ls lots) sharesRemaining() Quantity {
	total := Q(0)
	for _, l := range ls.active() {
		total = total.Add(l.SharesRemaining)
	}
	return total
}

// MarshalJSON implements the json.Marshaler interface for Lot.
func (l *Lot) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("date", l.PurchaseDate)
	w.Append("shares_initial", l.SharesInitial)
	w.Append("shares_remaining", l.SharesRemaining)
	w.Append("unit_cost", l.UnitCost)
	w.Append("total_cost", l.TotalCost)
	w.Append("sold", l.Sold)
	w.Append("days_held", l.DaysHeld)
	w.Append("current_value", l.CurrentValue)
	w.Append("return_pct", l.ReturnPct)
	return w.MarshalJSON()
}
