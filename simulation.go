package forecast

import (
	"errors"
	"fmt"
	"log"
	"math"
)

// ErrNoValidTickers is returned when none of the requested tickers has any
// price data to simulate against.
var ErrNoValidTickers = errors.New("no tickers with price data")

// Simulation drives one backtest: a contribution schedule applied to a
// portfolio against a price table, with tax-loss harvesting and periodic
// rebalancing along the way.
type Simulation struct {
	Config  Config
	Market  *MarketData
	Tickers []string
}

// Result is the outcome of a simulation run.
type Result struct {
	Portfolio    *Portfolio
	Holdings     []*Holding // sorted by ticker
	Transactions TransactionLog
	History      []HistorySnapshot
	Metrics      Metrics
}

// Metrics summarizes a finished run.
type Metrics struct {
	StartDate Date
	EndDate   Date
	Days      int

	TotalDeposits    Money
	TotalWithdrawals Money
	FinalValue       Money
	TotalReturn      Money
	TotalReturnPct   Percent
	AnnualizedPct    Percent

	ShortTermGains  Money
	LongTermGains   Money
	ShortTermLosses Money
	LongTermLosses  Money

	RealizedLosses Money
	TaxSavings     Money // harvested losses valued at the configured tax rate

	Transactions int
	Volatility   Percent // annualized std deviation of daily returns
	SharpeRatio  float64
	MaxDrawdown  Percent
}

// NewSimulation builds a simulation over the tickers that actually have price
// data, dropping the rest with a warning. With no usable ticker it fails with
// ErrNoValidTickers.
func NewSimulation(cfg Config, market *MarketData, tickers []string) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var valid []string
	for _, t := range tickers {
		if market.Has(t) {
			valid = append(valid, t)
		} else {
			log.Printf("warning: no price data for %s, dropped from simulation", t)
		}
	}
	if len(valid) == 0 {
		return nil, ErrNoValidTickers
	}
	return &Simulation{Config: cfg, Market: market, Tickers: valid}, nil
}

// Run executes the simulation from start to end date and returns the result.
func (s *Simulation) Run() (*Result, error) {
	cfg := s.Config
	frequency, err := ParseInvestmentFrequency(cfg.InvestmentFrequency)
	if err != nil {
		return nil, err
	}
	rebalance, err := ParseRebalanceFrequency(cfg.RebalanceFrequency)
	if err != nil {
		return nil, err
	}
	dates, err := InvestmentDates(cfg.Start(), cfg.End(), frequency)
	if err != nil {
		return nil, err
	}

	p := NewPortfolio(cfg.PortfolioName, cfg.Currency)
	p.Allocation = cfg.Allocation()
	p.RebalanceFrequency = rebalance
	p.RebalanceThreshold = Percent(cfg.RebalanceThreshold)
	for _, t := range s.Tickers {
		p.ensureHolding(t)
	}

	trigger := Percent(cfg.SellTrigger)
	p.AddCash(M(cfg.InitialInvestment, cfg.Currency), cfg.Start(), "Initial investment")
	for i, scheduled := range dates {
		on, ok := s.Market.ClosestTradingDay(scheduled)
		if !ok {
			log.Printf("warning: no trading day within 5 days of %s, cycle skipped", scheduled)
			continue
		}

		// The initial deposit is already in, only later cycles contribute.
		if i > 0 {
			desc := fmt.Sprintf("%s investment", frequency.Title())
			p.AddCash(M(cfg.RecurringInvestment, cfg.Currency), scheduled, desc)
		}

		p.TotalValue(s.Market, on)
		// The rebalancing clock runs on the scheduled date, not the snapped
		// trading day, so a backward snap cannot hide a new period.
		if p.IsRebalancingNeeded(scheduled) {
			p.PerformRebalance(s.Market, on, nil)
		} else {
			harvested := p.HarvestLosses(s.Market, on, trigger)
			excluded := make(map[string]bool, len(harvested))
			for _, t := range harvested {
				excluded[t] = true
			}
			p.InvestCash(s.Market, on, excluded)
		}
		p.SnapshotHistory(s.Market, on)
	}

	if len(p.History) == 0 {
		return nil, fmt.Errorf("no investable dates between %s and %s", cfg.Start(), cfg.End())
	}

	holdings := make([]*Holding, 0, len(p.Holdings))
	for _, t := range p.Tickers() {
		holdings = append(holdings, p.Holdings[t])
	}
	return &Result{
		Portfolio:    p,
		Holdings:     holdings,
		Transactions: p.Transactions,
		History:      p.History,
		Metrics:      s.metrics(p),
	}, nil
}

// metrics derives the summary statistics from a finished portfolio.
func (s *Simulation) metrics(p *Portfolio) Metrics {
	first, last := p.History[0], p.History[len(p.History)-1]
	days := last.Date.DaysSince(first.Date)

	deposits := p.TotalDeposits.Sub(p.TotalWithdrawals)
	final := last.TotalValue
	totalReturn := final.Sub(deposits)

	var totalPct, annualized Percent
	if deposits.IsPositive() {
		totalPct = Percent(totalReturn.Float64() / deposits.Float64() * 100)
	}
	if days > 0 {
		growth := 1 + float64(totalPct)/100
		if growth > 0 {
			annualized = Percent((math.Pow(growth, 365.25/float64(days)) - 1) * 100)
		}
	}

	losses := p.Transactions.RealizedLosses()
	savings := losses.Abs().MulWeight(s.Config.TaxRate).Round()

	volatility, sharpe := riskStats(p.History)

	return Metrics{
		StartDate:        first.Date,
		EndDate:          last.Date,
		Days:             days,
		TotalDeposits:    p.TotalDeposits,
		TotalWithdrawals: p.TotalWithdrawals,
		FinalValue:       final,
		TotalReturn:      totalReturn,
		TotalReturnPct:   totalPct,
		AnnualizedPct:    annualized,
		ShortTermGains:   p.ShortTermGains,
		LongTermGains:    p.LongTermGains,
		ShortTermLosses:  p.ShortTermLosses,
		LongTermLosses:   p.LongTermLosses,
		RealizedLosses:   losses,
		TaxSavings:       savings,
		Transactions:     len(p.Transactions),
		Volatility:       volatility,
		SharpeRatio:      sharpe,
		MaxDrawdown:      p.MaxDrawdown(),
	}
}

// riskStats computes the annualized volatility of the per-snapshot returns
// and the Sharpe ratio at a zero risk-free rate. The first snapshot has no
// return and is skipped.
func riskStats(history []HistorySnapshot) (Percent, float64) {
	var returns []float64
	for _, h := range history[1:] {
		returns = append(returns, float64(h.DailyReturn)/100)
	}
	if len(returns) < 2 {
		return 0, 0
	}
	var mean float64
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))
	var variance float64
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns) - 1)
	sigma := math.Sqrt(variance)
	volatility := sigma * math.Sqrt(252)
	if sigma == 0 {
		return Percent(volatility * 100), 0
	}
	sharpe := mean * 252 / volatility
	return Percent(volatility * 100), sharpe
}
