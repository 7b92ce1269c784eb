package contracts

import (
	"encoding/json"
	"testing"
	"time"
)

func TestOptFloat_JSON(t *testing.T) {
	type payload struct {
		Pct OptFloat `json:"pct"`
	}

	// Unavailable renders as null, never 0
	data, err := json.Marshal(payload{Pct: Unavailable()})
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}
	if string(data) != `{"pct":null}` {
		t.Errorf("unavailable sentinel = %s, want {\"pct\":null}", data)
	}

	data, err = json.Marshal(payload{Pct: Float(0.5)})
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}
	if string(data) != `{"pct":0.5}` {
		t.Errorf("defined value = %s, want {\"pct\":0.5}", data)
	}

	var decoded payload
	if err := json.Unmarshal([]byte(`{"pct":null}`), &decoded); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if decoded.Pct.Valid {
		t.Error("null should decode to the unavailable sentinel")
	}

	if err := json.Unmarshal([]byte(`{"pct":0.25}`), &decoded); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if !decoded.Pct.Valid || decoded.Pct.Value != 0.25 {
		t.Errorf("decoded = %+v, want {0.25 true}", decoded.Pct)
	}
}

func TestHardDataRecord_SumForWindow(t *testing.T) {
	record := HardDataRecord{
		Symbol: "RELIANCE.NS",
		Sum19:  Float(190.0),
		Sum49:  Float(490.0),
		Sum99:  Unavailable(),
		Sum199: Unavailable(),
	}

	tests := []struct {
		name   string
		window int
		want   OptFloat
	}{
		{"20-day window uses 19-close sum", 20, Float(190.0)},
		{"50-day window uses 49-close sum", 50, Float(490.0)},
		{"100-day window unavailable", 100, Unavailable()},
		{"200-day window unavailable", 200, Unavailable()},
		{"unknown window", 30, Unavailable()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := record.SumForWindow(tt.window); got != tt.want {
				t.Errorf("SumForWindow(%d) = %+v, want %+v", tt.window, got, tt.want)
			}
		})
	}
}

func TestHardDataSet_Get(t *testing.T) {
	set := HardDataSet{
		Universe: "nifty50",
		Symbols:  []string{"TCS.NS"},
		Records: map[string]HardDataRecord{
			"TCS.NS": {Symbol: "TCS.NS", Sum19: Float(100)},
		},
	}

	if _, ok := set.Get("TCS.NS"); !ok {
		t.Error("Get() should find a built symbol")
	}
	if _, ok := set.Get("INFY.NS"); ok {
		t.Error("Get() should miss an unbuilt symbol")
	}
	if set.Count() != 1 {
		t.Errorf("Count() = %d, want 1", set.Count())
	}
}

func TestBreadthSnapshot_Complete(t *testing.T) {
	defined := MAResult{AboveCount: 3, AvailableCount: 5, Pct: Float(0.6)}
	empty := MAResult{Pct: Unavailable()}

	tests := []struct {
		name     string
		snapshot BreadthSnapshot
		want     bool
	}{
		{
			name: "all buckets defined",
			snapshot: BreadthSnapshot{
				MA20: defined, MA50: defined, MA100: defined, MA200: defined,
				NewHighPct: Float(0.2),
			},
			want: true,
		},
		{
			name: "one MA bucket unavailable",
			snapshot: BreadthSnapshot{
				MA20: defined, MA50: defined, MA100: defined, MA200: empty,
				NewHighPct: Float(0.2),
			},
			want: false,
		},
		{
			name: "new-high bucket unavailable",
			snapshot: BreadthSnapshot{
				MA20: defined, MA50: defined, MA100: defined, MA200: defined,
				NewHighPct: Unavailable(),
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.snapshot.Complete(); got != tt.want {
				t.Errorf("Complete() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBreadthSnapshot_HistoricalRow(t *testing.T) {
	asOf := time.Date(2025, 6, 13, 0, 0, 0, 0, time.UTC)
	snapshot := BreadthSnapshot{
		Universe:         "nifty50",
		AsOf:             asOf,
		MA20:             MAResult{AboveCount: 30, AvailableCount: 50, Pct: Float(0.6)},
		MA50:             MAResult{AboveCount: 25, AvailableCount: 50, Pct: Float(0.5)},
		MA100:            MAResult{AboveCount: 20, AvailableCount: 50, Pct: Float(0.4)},
		MA200:            MAResult{AboveCount: 10, AvailableCount: 50, Pct: Float(0.2)},
		NewHighCount:     5,
		NewHighAvailable: 50,
		NewHighPct:       Float(0.1),
	}

	row, ok := snapshot.HistoricalRow()
	if !ok {
		t.Fatal("complete snapshot should produce a row")
	}
	if !row.TradingDate.Equal(asOf) {
		t.Errorf("TradingDate = %v, want %v", row.TradingDate, asOf)
	}
	if row.Pct20 != 0.6 || row.Pct50 != 0.5 || row.Pct100 != 0.4 || row.Pct200 != 0.2 {
		t.Errorf("MA percentages mismatch: %+v", row)
	}
	if row.Pct52W != 0.1 {
		t.Errorf("Pct52W = %v, want 0.1", row.Pct52W)
	}

	// Incomplete snapshots never produce a row
	snapshot.MA100.Pct = Unavailable()
	if _, ok := snapshot.HistoricalRow(); ok {
		t.Error("incomplete snapshot must not produce a row")
	}
}
