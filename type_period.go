package forecast

import (
	"fmt"
	"strings"
)

// Frequency identifies how often a recurring event happens.
type Frequency string

const (
	Monthly   Frequency = "monthly"
	Bimonthly Frequency = "bimonthly"
	Quarterly Frequency = "quarterly"
	Yearly    Frequency = "yearly"
)

func (f Frequency) String() string { return string(f) }

// Title returns the frequency capitalized for use in transaction descriptions.
func (f Frequency) Title() string {
	s := string(f)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// ParseInvestmentFrequency parses a contribution cadence.
func ParseInvestmentFrequency(s string) (Frequency, error) {
	switch Frequency(strings.ToLower(strings.TrimSpace(s))) {
	case Monthly:
		return Monthly, nil
	case Bimonthly:
		return Bimonthly, nil
	default:
		return "", fmt.Errorf("unsupported investment frequency %q (want monthly or bimonthly)", s)
	}
}

// ParseRebalanceFrequency parses a rebalancing cadence.
func ParseRebalanceFrequency(s string) (Frequency, error) {
	switch Frequency(strings.ToLower(strings.TrimSpace(s))) {
	case Monthly:
		return Monthly, nil
	case Quarterly:
		return Quarterly, nil
	case Yearly:
		return Yearly, nil
	default:
		return "", fmt.Errorf("unsupported rebalance frequency %q (want monthly, quarterly or yearly)", s)
	}
}
