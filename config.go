package forecast

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config holds every knob of a simulation run. Zero values are filled in by
// Validate, so a partially specified JSON file is enough to run.
type Config struct {
	PortfolioName string `json:"portfolio_name"`

	InitialInvestment   float64 `json:"initial_investment"`
	RecurringInvestment float64 `json:"recurring_investment"`
	InvestmentFrequency string  `json:"investment_frequency"` // monthly or bimonthly

	// PortfolioAllocation is "equal", or "custom" with Weights set.
	PortfolioAllocation string             `json:"portfolio_allocation"`
	Weights             map[string]float64 `json:"weights,omitempty"`

	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`

	// SellTrigger is the tax-loss harvesting threshold in percent, negative.
	SellTrigger float64 `json:"sell_trigger"`

	// TopN caps how many tickers are taken from the tickers CSV.
	TopN int `json:"top_n"`

	RebalanceFrequency string  `json:"rebalance_frequency"` // monthly, quarterly or yearly
	RebalanceThreshold float64 `json:"rebalance_threshold"`

	// TaxRate values harvested losses in the tax-savings metric.
	TaxRate float64 `json:"tax_rate"`

	Currency      string `json:"currency"`
	TickersSource string `json:"tickers_source"` // CSV of Symbol/Weight rows
	PriceFile     string `json:"price_file"`     // cached JSON price table
}

// DefaultConfig returns the simulator's built-in defaults.
func DefaultConfig() Config {
	return Config{
		PortfolioName:       "portfolio",
		InitialInvestment:   10000,
		RecurringInvestment: 1000,
		InvestmentFrequency: string(Monthly),
		PortfolioAllocation: "equal",
		SellTrigger:         -10,
		TopN:                10,
		RebalanceFrequency:  string(Quarterly),
		RebalanceThreshold:  5,
		TaxRate:             0.30,
		Currency:            USD,
	}
}

// LoadConfig reads a JSON configuration file on top of the defaults.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("could not read config: %w", err)
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("could not parse config %q: %w", path, err)
	}
	return c, nil
}

// Validate checks the configuration and fills in missing defaults. An
// unrecognized allocation or frequency is a fatal configuration error.
func (c *Config) Validate() error {
	if c.Currency == "" {
		c.Currency = USD
	}
	if c.TaxRate == 0 {
		c.TaxRate = 0.30
	}
	if c.TaxRate < 0 || c.TaxRate >= 1 {
		return fmt.Errorf("tax rate %v out of range (want 0 <= rate < 1)", c.TaxRate)
	}
	if c.InitialInvestment < 0 || c.RecurringInvestment < 0 {
		return fmt.Errorf("investment amounts must not be negative")
	}
	if c.SellTrigger > 0 {
		return fmt.Errorf("sell trigger %v must be negative (a loss threshold)", c.SellTrigger)
	}
	if c.RebalanceThreshold < 0 {
		return fmt.Errorf("rebalance threshold %v must not be negative", c.RebalanceThreshold)
	}
	if c.TopN <= 0 {
		c.TopN = 10
	}
	if _, err := ParseInvestmentFrequency(c.InvestmentFrequency); err != nil {
		return err
	}
	if _, err := ParseRebalanceFrequency(c.RebalanceFrequency); err != nil {
		return err
	}
	if _, err := ParseAllocation(c.PortfolioAllocation, c.Weights); err != nil {
		return err
	}
	start, err := ParseDate(c.StartDate)
	if err != nil {
		return fmt.Errorf("invalid start date: %w", err)
	}
	end, err := ParseDate(c.EndDate)
	if err != nil {
		return fmt.Errorf("invalid end date: %w", err)
	}
	if end.Before(start) {
		return fmt.Errorf("end date %s is before start date %s", end, start)
	}
	return nil
}

// Start returns the parsed start date. Validate must have succeeded.
func (c *Config) Start() Date { return MustParseDate(c.StartDate) }

// End returns the parsed end date. Validate must have succeeded.
func (c *Config) End() Date { return MustParseDate(c.EndDate) }

// Allocation returns the parsed allocation. Validate must have succeeded.
func (c *Config) Allocation() Allocation {
	a, err := ParseAllocation(c.PortfolioAllocation, c.Weights)
	if err != nil {
		panic(err)
	}
	return a
}
