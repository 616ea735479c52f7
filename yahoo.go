package forecast

import (
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/PaesslerAG/jsonpath"
)

// This file contains functions to access the Yahoo Finance chart API.

// yahooDaily returns the daily close prices for a ticker between from and to
// (inclusive).
func yahooDaily(ticker string, from, to Date) (map[Date]float64, error) {
	// https://query1.finance.yahoo.com/v8/finance/chart/AAPL?period1=...&period2=...&interval=1d
	// {
	//   "chart": {
	//     "result": [{
	//       "timestamp": [1704207600, ...],
	//       "indicators": {"quote": [{"close": [185.64, ...]}]}
	//     }]
	//   }
	// }
	period1 := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC).Unix()
	period2 := time.Date(to.Year(), to.Month(), to.Day(), 23, 59, 59, 0, time.UTC).Unix()
	addr := fmt.Sprintf("https://query1.finance.yahoo.com/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d&events=div",
		url.PathEscape(ticker), period1, period2)

	// query that endpoint at most once a day
	body, err := wget(daily(), addr)
	if err != nil {
		return nil, err
	}
	var payload interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("invalid chart response for %s: %w", ticker, err)
	}

	rawStamps, err := jsonpath.Get("$.chart.result[0].timestamp", payload)
	if err != nil {
		return nil, fmt.Errorf("no timestamps for %s: %w", ticker, err)
	}
	rawCloses, err := jsonpath.Get("$.chart.result[0].indicators.quote[0].close", payload)
	if err != nil {
		return nil, fmt.Errorf("no close prices for %s: %w", ticker, err)
	}
	stamps, ok1 := rawStamps.([]interface{})
	closes, ok2 := rawCloses.([]interface{})
	if !ok1 || !ok2 || len(stamps) != len(closes) {
		return nil, fmt.Errorf("malformed chart response for %s", ticker)
	}

	prices := make(map[Date]float64, len(stamps))
	for i, rawStamp := range stamps {
		stamp, ok := rawStamp.(float64)
		if !ok {
			continue
		}
		// a null close means the exchange had no trade for that slot
		price, ok := closes[i].(float64)
		if !ok || price <= 0 {
			continue
		}
		t := time.Unix(int64(stamp), 0).UTC()
		prices[NewDate(t.Date())] = price
	}
	if len(prices) == 0 {
		return nil, fmt.Errorf("no usable prices for %s between %s and %s", ticker, from, to)
	}
	return prices, nil
}

// DownloadStockData fetches daily close prices for the given tickers and
// builds a price table. Tickers whose download fails are dropped with a
// warning; the returned slice holds the tickers that made it into the table.
func DownloadStockData(tickers []string, from, to Date, currency string) ([]string, *MarketData, error) {
	if currency == "" {
		currency = USD
	}
	market := NewMarketData(currency)
	var valid []string
	for _, ticker := range tickers {
		prices, err := yahooDaily(ticker, from, to)
		if err != nil {
			log.Printf("warning: could not download %s: %v", ticker, err)
			continue
		}
		for on, price := range prices {
			market.AddPrice(ticker, on, price)
		}
		valid = append(valid, ticker)
	}
	if len(valid) == 0 {
		return nil, nil, fmt.Errorf("could not download price data for any of %d tickers", len(tickers))
	}
	return valid, market, nil
}
