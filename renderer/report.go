package renderer

import (
	"bytes"
	"fmt"

	md "github.com/nao1215/markdown"
	"github.com/tpapenfuss/forecast"
)

// ReportMarkdown renders a full simulation result as a markdown report: the
// summary metrics, the tax breakdown, the final holdings and, when a
// benchmark result is given, a side-by-side comparison.
func ReportMarkdown(name string, r *forecast.Result, benchmark *forecast.Result) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Simulation Report for %s", name))
	doc.PlainTextf("%s to %s (%d days, %d transactions)",
		r.Metrics.StartDate, r.Metrics.EndDate, r.Metrics.Days, r.Metrics.Transactions)
	doc.LF()

	doc.H2("Performance")
	doc.Table(metricsTable(r.Metrics))

	doc.H2("Realized Gains and Losses")
	doc.Table(taxTable(r.Metrics))

	doc.H2("Holdings")
	doc.Table(holdingsTable(r.Holdings))

	if benchmark != nil {
		doc.H2("Benchmark Comparison")
		doc.Table(comparisonTable(r.Metrics, benchmark.Metrics))
	}

	return doc.String()
}

func metricsTable(m forecast.Metrics) md.TableSet {
	return md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Metric", "Value"},
		Rows: [][]string{
			{"Total Deposits", m.TotalDeposits.String()},
			{"Total Withdrawals", m.TotalWithdrawals.String()},
			{"Final Value", m.FinalValue.String()},
			{"Total Return", m.TotalReturn.SignedString()},
			{"Total Return %", m.TotalReturnPct.SignedString()},
			{"Annualized Return %", m.AnnualizedPct.SignedString()},
			{"Volatility (ann.)", m.Volatility.String()},
			{"Sharpe Ratio", fmt.Sprintf("%.2f", m.SharpeRatio)},
			{"Max Drawdown", m.MaxDrawdown.String()},
		},
	}
}

func taxTable(m forecast.Metrics) md.TableSet {
	return md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Bucket", "Amount"},
		Rows: [][]string{
			{"Short-Term Gains", m.ShortTermGains.SignedString()},
			{"Long-Term Gains", m.LongTermGains.SignedString()},
			{"Short-Term Losses", m.ShortTermLosses.SignedString()},
			{"Long-Term Losses", m.LongTermLosses.SignedString()},
			{"Harvested Losses", m.RealizedLosses.SignedString()},
			{"Estimated Tax Savings", m.TaxSavings.String()},
		},
	}
}

func holdingsTable(holdings []*forecast.Holding) md.TableSet {
	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Ticker", "Shares", "Cost Basis", "Value", "Weight", "Unrealized"},
		Rows:   [][]string{},
	}
	for _, h := range holdings {
		if !h.SharesRemaining.IsPositive() {
			continue
		}
		table.Rows = append(table.Rows, []string{
			h.Ticker,
			h.SharesRemaining.String(),
			h.CostBasis.String(),
			h.CurrentValue.String(),
			h.Weight.String(),
			h.UnrealizedGainLoss.SignedString(),
		})
	}
	return table
}

func comparisonTable(a, b forecast.Metrics) md.TableSet {
	return md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight},
		Header:    []string{"Metric", "Portfolio", "Benchmark"},
		Rows: [][]string{
			{"Final Value", a.FinalValue.String(), b.FinalValue.String()},
			{"Total Return %", a.TotalReturnPct.SignedString(), b.TotalReturnPct.SignedString()},
			{"Annualized Return %", a.AnnualizedPct.SignedString(), b.AnnualizedPct.SignedString()},
			{"Volatility (ann.)", a.Volatility.String(), b.Volatility.String()},
			{"Max Drawdown", a.MaxDrawdown.String(), b.MaxDrawdown.String()},
			{"Estimated Tax Savings", a.TaxSavings.String(), b.TaxSavings.String()},
		},
	}
}
