package forecast

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// history stores a chronological series of prices, one per trading day.
// Dates are unique and the series is always sorted.
type history struct {
	days   []Date
	values []float64
}

// Append adds a point to the history. An existing value at that date is
// overwritten.
func (h *history) Append(on Date, price float64) {
	if i := h.index(on); i >= 0 {
		h.values[i] = price
		return
	}
	h.days, h.values = append(h.days, on), append(h.values, price)
	sort.Sort(chronological{h})
}

// Get returns the price recorded on exactly that day.
func (h *history) Get(on Date) (float64, bool) {
	if i := h.index(on); i >= 0 {
		return h.values[i], true
	}
	return 0, false
}

func (h *history) Len() int { return len(h.days) }

func (h *history) index(on Date) int {
	for i, d := range h.days {
		if d == on {
			return i
		}
	}
	return -1
}

// chronological is a private implementation to keep a history sorted by date.
type chronological struct{ *history }

func (s chronological) Less(i, j int) bool { return s.days[i].Before(s.days[j]) }
func (s chronological) Swap(i, j int) {
	s.days[i], s.days[j] = s.days[j], s.days[i]
	s.values[i], s.values[j] = s.values[j], s.values[i]
}

// MarketData is the simulator's price table: a date-indexed daily close price
// per ticker. It may contain gaps; a missing (ticker, date) pair means the
// security did not trade or the data source had no value.
type MarketData struct {
	prices      map[string]*history
	tradingDays map[Date]bool
	currency    string
}

// NewMarketData returns an empty price table quoting in the given currency.
func NewMarketData(currency string) *MarketData {
	return &MarketData{
		prices:      make(map[string]*history),
		tradingDays: make(map[Date]bool),
		currency:    currency,
	}
}

// Currency returns the quote currency of the table.
func (m *MarketData) Currency() string { return m.currency }

// Has reports whether the table holds any prices for the ticker.
func (m *MarketData) Has(ticker string) bool {
	h, ok := m.prices[ticker]
	return ok && h.Len() > 0
}

// Tickers returns the tickers present in the table, sorted.
func (m *MarketData) Tickers() []string {
	out := make([]string, 0, len(m.prices))
	for t := range m.prices {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// AddPrice records a daily close for a ticker.
func (m *MarketData) AddPrice(ticker string, on Date, price float64) {
	h, ok := m.prices[ticker]
	if !ok {
		h = &history{}
		m.prices[ticker] = h
	}
	h.Append(on, price)
	m.tradingDays[on] = true
}

// Price returns the close price of a ticker on exactly that date.
func (m *MarketData) Price(ticker string, on Date) (Money, bool) {
	h, ok := m.prices[ticker]
	if !ok {
		return Money{}, false
	}
	v, ok := h.Get(on)
	if !ok {
		return Money{}, false
	}
	return M(v, m.currency), true
}

// ClosestTradingDay snaps a calendar date to the nearest date present in the
// table. The exact date wins; otherwise offsets of 1 to 5 days are probed,
// preferring the forward date over the backward one at each offset. If no
// trading day lies within 5 days, ok is false and the caller should skip the
// cycle.
func (m *MarketData) ClosestTradingDay(on Date) (Date, bool) {
	if m.tradingDays[on] {
		return on, true
	}
	for i := 1; i <= 5; i++ {
		if forward := on.Add(i); m.tradingDays[forward] {
			return forward, true
		}
		if backward := on.Add(-i); m.tradingDays[backward] {
			return backward, true
		}
	}
	return Date{}, false
}

// MarshalJSON encodes the table as {"currency": ..., "prices": {ticker: {date: close}}}
// with tickers and dates in order.
func (m *MarketData) MarshalJSON() ([]byte, error) {
	var prices jsonObjectWriter
	for _, ticker := range m.Tickers() {
		h := m.prices[ticker]
		var series jsonObjectWriter
		for i, day := range h.days {
			series.Append(day.String(), h.values[i])
		}
		prices.Append(ticker, &series)
	}
	var w jsonObjectWriter
	w.Append("currency", m.currency)
	w.Append("prices", &prices)
	return w.MarshalJSON()
}

// EncodeMarketData writes the price table as JSON.
func EncodeMarketData(w io.Writer, m *MarketData) error {
	enc := json.NewEncoder(w)
	return enc.Encode(m)
}

// DecodeMarketData reads a price table previously written by EncodeMarketData.
func DecodeMarketData(r io.Reader) (*MarketData, error) {
	var raw struct {
		Currency string                        `json:"currency"`
		Prices   map[string]map[string]float64 `json:"prices"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("could not decode market data: %w", err)
	}
	if raw.Currency == "" {
		raw.Currency = USD
	}
	m := NewMarketData(raw.Currency)
	for ticker, series := range raw.Prices {
		for day, price := range series {
			on, err := ParseDate(day)
			if err != nil {
				return nil, fmt.Errorf("market data for %s: %w", ticker, err)
			}
			m.AddPrice(ticker, on, price)
		}
	}
	return m, nil
}
