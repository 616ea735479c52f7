package forecast

// TxType is a typed string identifying the kind of a transaction.
type TxType string

const (
	TxBuy        TxType = "buy"
	TxSell       TxType = "sell"
	TxDeposit    TxType = "deposit"
	TxWithdrawal TxType = "withdrawal"
	TxDividend   TxType = "dividend"
)

// Transaction is an immutable record of a single cash or share event. The log
// is append-only: records are never mutated or removed once written.
//
// Amount is signed from the portfolio's cash point of view for trades: buys
// are negative, sells positive. Cash events carry their absolute amount with
// the direction encoded in the type.
type Transaction struct {
	Date        Date
	Type        TxType
	Ticker      string // empty for pure cash events
	Shares      Quantity
	Price       Money
	Amount      Money
	GainLoss    Money   // sells only
	GainLossPct Percent // sells only
	DaysHeld    int     // sells only
	Description string
}

// MarshalJSON implements the json.Marshaler interface for Transaction.
func (t Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("date", t.Date)
	w.Append("type", t.Type)
	w.Optional("ticker", t.Ticker)
	if !t.Shares.IsZero() {
		w.Append("shares", t.Shares)
	}
	if !t.Price.IsZero() {
		w.Append("price", t.Price)
	}
	w.Append("amount", t.Amount)
	if t.Type == TxSell {
		w.Append("gain_loss", t.GainLoss)
		w.Append("gain_loss_pct", float64(t.GainLossPct))
		w.Append("days_held", t.DaysHeld)
	}
	w.Optional("description", t.Description)
	return w.MarshalJSON()
}

// TransactionLog is an ordered, append-only list of transactions.
type TransactionLog []Transaction

// ByType returns the transactions of a given type, in log order.
func (log TransactionLog) ByType(kind TxType) TransactionLog {
	var out TransactionLog
	for _, t := range log {
		if t.Type == kind {
			out = append(out, t)
		}
	}
	return out
}

// Between returns the transactions with from <= date <= to. A zero bound is open.
func (log TransactionLog) Between(from, to Date) TransactionLog {
	var out TransactionLog
	for _, t := range log {
		if !from.IsZero() && t.Date.Before(from) {
			continue
		}
		if !to.IsZero() && t.Date.After(to) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// TotalDeposits sums the amounts of all deposit transactions.
func (log TransactionLog) TotalDeposits() Money {
	total := Money{}
	for _, t := range log.ByType(TxDeposit) {
		total = total.Add(t.Amount)
	}
	return total
}

// RealizedLosses sums the negative gain/loss of all sell transactions.
func (log TransactionLog) RealizedLosses() Money {
	total := Money{}
	for _, t := range log.ByType(TxSell) {
		if t.GainLoss.IsNegative() {
			total = total.Add(t.GainLoss)
		}
	}
	return total
}
