package forecast

import (
	"strings"
	"testing"
)

const holdingsCSV = `Symbol,Name,Weight
AAPL,Apple Inc,7.1
MSFT,Microsoft Corp,6.5
NVDA,NVIDIA Corp,6.9
AMZN,Amazon.com Inc,3.4
GOOG,Alphabet Inc,2.1
`

func TestTopTickersFromCSV(t *testing.T) {
	got, err := TopTickersFromCSV(strings.NewReader(holdingsCSV), 3)
	if err != nil {
		t.Fatalf("TopTickersFromCSV() returned unexpected error: %v", err)
	}
	want := []string{"AAPL", "NVDA", "MSFT"}
	if len(got) != len(want) {
		t.Fatalf("TopTickersFromCSV() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ticker[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestTopTickersFromCSVShortFile(t *testing.T) {
	got, err := TopTickersFromCSV(strings.NewReader(holdingsCSV), 10)
	if err != nil {
		t.Fatalf("TopTickersFromCSV() returned unexpected error: %v", err)
	}
	if len(got) != 5 {
		t.Errorf("TopTickersFromCSV() returned %d tickers, want all 5 available", len(got))
	}
}

func TestWeightsFromCSVDuplicatesKeepLast(t *testing.T) {
	in := `Symbol,Weight
AAPL,7.1
MSFT,6.5
AAPL,8.0
`
	got, err := WeightsFromCSV(strings.NewReader(in), 10)
	if err != nil {
		t.Fatalf("WeightsFromCSV() returned unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("WeightsFromCSV() = %v, want 2 distinct symbols", got)
	}
	if got["AAPL"] != 8.0 {
		t.Errorf("AAPL weight = %v, want the last value 8.0", got["AAPL"])
	}
}

func TestReadWeightedTickersToleratesPercentSigns(t *testing.T) {
	in := `Ticker,Weight
AAPL,7.1%
`
	got, err := WeightsFromCSV(strings.NewReader(in), 1)
	if err != nil {
		t.Fatalf("WeightsFromCSV() returned unexpected error: %v", err)
	}
	if got["AAPL"] != 7.1 {
		t.Errorf("AAPL weight = %v, want 7.1", got["AAPL"])
	}
}

func TestTopTickersFromCSVRejectsMissingColumns(t *testing.T) {
	in := "Name,Price\nApple,180\n"
	if _, err := TopTickersFromCSV(strings.NewReader(in), 3); err == nil {
		t.Error("TopTickersFromCSV() should fail without Symbol and Weight columns")
	}
}
