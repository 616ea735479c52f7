package forecast

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"sort"
	"strconv"
	"strings"
)

// This file contains the CSV ticker-universe ingestion.
//
// The expected input is an index-constituents file with at least a Symbol and
// a Weight column, e.g. the holdings export of an ETF. Raw weights need not
// sum to anything in particular.

type weightedTicker struct {
	symbol string
	weight float64
}

// readWeightedTickers parses the Symbol/Weight rows of a CSV stream. A
// duplicated symbol keeps its last weight.
func readWeightedTickers(r io.Reader) ([]weightedTicker, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("could not read csv header: %w", err)
	}
	symbolCol, weightCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "symbol", "ticker":
			symbolCol = i
		case "weight":
			weightCol = i
		}
	}
	if symbolCol < 0 || weightCol < 0 {
		return nil, fmt.Errorf("csv needs Symbol and Weight columns, got %v", header)
	}

	bySymbol := make(map[string]int)
	var rows []weightedTicker
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		symbol := strings.ToUpper(strings.TrimSpace(record[symbolCol]))
		if symbol == "" {
			continue
		}
		weight, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(record[weightCol]), "%"), 64)
		if err != nil {
			log.Printf("warning: csv line %d: unreadable weight %q for %s, skipped", line, record[weightCol], symbol)
			continue
		}
		if i, seen := bySymbol[symbol]; seen {
			rows[i].weight = weight
			continue
		}
		bySymbol[symbol] = len(rows)
		rows = append(rows, weightedTicker{symbol: symbol, weight: weight})
	}
	return rows, nil
}

// topN orders rows by weight descending and keeps the first n.
func topN(rows []weightedTicker, n int) []weightedTicker {
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].weight > rows[j].weight })
	if len(rows) < n {
		log.Printf("warning: only %d tickers available, wanted %d", len(rows), n)
		return rows
	}
	return rows[:n]
}

// TopTickersFromCSV returns the n heaviest symbols of a Symbol/Weight CSV
// stream, weight descending.
func TopTickersFromCSV(r io.Reader, n int) ([]string, error) {
	rows, err := readWeightedTickers(r)
	if err != nil {
		return nil, err
	}
	rows = topN(rows, n)
	out := make([]string, len(rows))
	for i, row := range rows {
		out[i] = row.symbol
	}
	return out, nil
}

// WeightsFromCSV returns the raw weights of the n heaviest symbols of a
// Symbol/Weight CSV stream. The caller normalizes them.
func WeightsFromCSV(r io.Reader, n int) (map[string]float64, error) {
	rows, err := readWeightedTickers(r)
	if err != nil {
		return nil, err
	}
	rows = topN(rows, n)
	out := make(map[string]float64, len(rows))
	for _, row := range rows {
		out[row.symbol] = row.weight
	}
	return out, nil
}
