package renderer

import (
	"bytes"
	"fmt"

	md "github.com/nao1215/markdown"
	"github.com/tpapenfuss/forecast"
)

// HistoryMarkdown renders the valuation history as a markdown table.
func HistoryMarkdown(name string, history []forecast.HistorySnapshot) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("History for %s", name))

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Date", "Cash", "Investments", "Total", "Daily", "Realized"},
		Rows:   [][]string{},
	}
	for _, entry := range history {
		table.Rows = append(table.Rows, []string{
			entry.Date.String(),
			entry.Cash.String(),
			entry.InvestmentsValue.String(),
			entry.TotalValue.String(),
			entry.DailyReturn.SignedString(),
			entry.RealizedGainLoss.SignedString(),
		})
	}
	doc.Table(table)

	return doc.String()
}

// TransactionsMarkdown renders a transaction log as a markdown table.
func TransactionsMarkdown(log forecast.TransactionLog) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Transactions")

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignLeft,
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Date", "Type", "Ticker", "Shares", "Price", "Amount", "Gain/Loss"},
		Rows:   [][]string{},
	}
	for _, t := range log {
		gain := ""
		if t.Type == forecast.TxSell {
			gain = t.GainLoss.SignedString()
		}
		table.Rows = append(table.Rows, []string{
			t.Date.String(),
			string(t.Type),
			t.Ticker,
			t.Shares.String(),
			t.Price.String(),
			t.Amount.SignedString(),
			gain,
		})
	}
	doc.Table(table)

	return doc.String()
}
