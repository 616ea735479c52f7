package forecast

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// This file contains the result export encoders. Transactions stream out as
// JSONL (one object per line), the history as a JSON array, and all three
// result tables as CSV.

// EncodeTransactions writes the transaction log as JSONL.
func EncodeTransactions(w io.Writer, log TransactionLog) error {
	enc := json.NewEncoder(w)
	for _, t := range log {
		if err := enc.Encode(t); err != nil {
			return fmt.Errorf("could not encode transaction: %w", err)
		}
	}
	return nil
}

// EncodeHistory writes the valuation history as a JSON array.
func EncodeHistory(w io.Writer, history []HistorySnapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(history)
}

func f2(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
func f4(v float64) string { return strconv.FormatFloat(v, 'f', 4, 64) }

// WriteHoldingsCSV writes one row per holding, sorted by ticker.
func WriteHoldingsCSV(w io.Writer, holdings []*Holding) error {
	cw := csv.NewWriter(w)
	cw.Write([]string{"ticker", "shares", "cost_basis", "current_price", "current_value", "weight_pct", "unrealized_gain_loss", "unrealized_gain_loss_pct", "dividend_income", "sector", "asset_class"})
	for _, h := range holdings {
		cw.Write([]string{
			h.Ticker,
			h.SharesRemaining.String(),
			f4(h.CostBasis.Float64()),
			f2(h.CurrentPrice.Float64()),
			f2(h.CurrentValue.Float64()),
			f2(float64(h.Weight)),
			f2(h.UnrealizedGainLoss.Float64()),
			f2(float64(h.UnrealizedGainLossPct)),
			f2(h.DividendIncome.Float64()),
			h.Sector,
			h.AssetClass,
		})
	}
	cw.Flush()
	return cw.Error()
}

// WriteTransactionsCSV writes one row per transaction, in log order.
func WriteTransactionsCSV(w io.Writer, log TransactionLog) error {
	cw := csv.NewWriter(w)
	cw.Write([]string{"date", "type", "ticker", "shares", "price", "amount", "gain_loss", "gain_loss_pct", "days_held", "description"})
	for _, t := range log {
		row := []string{
			t.Date.String(),
			string(t.Type),
			t.Ticker,
			t.Shares.String(),
			f2(t.Price.Float64()),
			f2(t.Amount.Float64()),
			"", "", "",
			t.Description,
		}
		if t.Type == TxSell {
			row[6] = f2(t.GainLoss.Float64())
			row[7] = f2(float64(t.GainLossPct))
			row[8] = strconv.Itoa(t.DaysHeld)
		}
		cw.Write(row)
	}
	cw.Flush()
	return cw.Error()
}

// WriteHistoryCSV writes one row per valuation snapshot, in date order.
func WriteHistoryCSV(w io.Writer, history []HistorySnapshot) error {
	cw := csv.NewWriter(w)
	cw.Write([]string{"date", "cash", "investments_value", "total_value", "daily_return_pct", "cash_allocation_pct", "realized_gain_loss", "max_drawdown_pct"})
	for _, s := range history {
		cw.Write([]string{
			s.Date.String(),
			f2(s.Cash.Float64()),
			f2(s.InvestmentsValue.Float64()),
			f2(s.TotalValue.Float64()),
			f4(float64(s.DailyReturn)),
			f2(float64(s.CashAllocation)),
			f2(s.RealizedGainLoss.Float64()),
			f2(float64(s.MaxDrawdown)),
		})
	}
	cw.Flush()
	return cw.Error()
}
