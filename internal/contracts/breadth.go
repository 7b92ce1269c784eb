package contracts

import (
	"encoding/json"
	"time"
)

// MAWindows are the moving-average window lengths the engine reports on.
var MAWindows = []int{20, 50, 100, 200}

// OptFloat is a float64 that may be unavailable. The zero value is the
// unavailable sentinel; it marshals to JSON null, never to a fabricated 0.
type OptFloat struct {
	Value float64
	Valid bool
}

// Float wraps a computed value.
func Float(v float64) OptFloat {
	return OptFloat{Value: v, Valid: true}
}

// Unavailable returns the sentinel for a value that cannot be computed.
func Unavailable() OptFloat {
	return OptFloat{}
}

// MarshalJSON renders the sentinel as null.
func (o OptFloat) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// UnmarshalJSON accepts null or a number.
func (o *OptFloat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*o = OptFloat{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = OptFloat{Value: v, Valid: true}
	return nil
}

// Bar is one daily OHLC row from the history provider.
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// SoftQuote is the most recent live bar for a symbol. It lives for a single
// breadth request and is never persisted.
type SoftQuote struct {
	Symbol          string    `json:"symbol"`
	LastClose       float64   `json:"last_close"`
	LastHigh        float64   `json:"last_high"`
	LastTradingDate time.Time `json:"last_trading_date"`
}

// HardDataRecord is the per-symbol daily summary: rolling close sums over the
// N most recent fully-closed trading days plus the 52-week high. Immutable
// between daily rebuilds.
// ⭐ SSOT: 심볼별 하드 데이터 (일일 배치가 소유)
type HardDataRecord struct {
	Symbol  string    `json:"symbol"`
	Sum19   OptFloat  `json:"sum_19"`
	Sum49   OptFloat  `json:"sum_49"`
	Sum99   OptFloat  `json:"sum_99"`
	Sum199  OptFloat  `json:"sum_199"`
	High52W OptFloat  `json:"fifty_two_week_high"`
	AsOf    time.Time `json:"as_of"`
}

// SumForWindow returns the stored close sum backing the given moving-average
// window (the sum covers window-1 closed days; the live close supplies the
// last one). Unknown windows return the unavailable sentinel.
func (r *HardDataRecord) SumForWindow(window int) OptFloat {
	switch window {
	case 20:
		return r.Sum19
	case 50:
		return r.Sum49
	case 100:
		return r.Sum99
	case 200:
		return r.Sum199
	}
	return OptFloat{}
}

// HardDataSet is one universe's published hard data. Symbols preserves the
// universe order for deterministic recombination; Records holds only symbols
// that built successfully.
// ⭐ SSOT: S0 → S2 유니버스 하드 데이터 전달
type HardDataSet struct {
	Universe string                    `json:"universe"`
	BuiltAt  time.Time                 `json:"built_at"`
	Symbols  []string                  `json:"symbols"`
	Records  map[string]HardDataRecord `json:"records"`
}

// Get looks up the record for a symbol.
func (s *HardDataSet) Get(symbol string) (HardDataRecord, bool) {
	r, ok := s.Records[symbol]
	return r, ok
}

// Count returns the number of successfully built symbols.
func (s *HardDataSet) Count() int {
	return len(s.Symbols)
}

// MAResult is one moving-average breadth bucket. Available excludes symbols
// whose hard data lacked a sufficient-length sum.
type MAResult struct {
	AboveCount     int      `json:"above_count"`
	AvailableCount int      `json:"available_count"`
	Pct            OptFloat `json:"pct"`
}

// BreadthSnapshot is the engine's output for one universe at one moment.
// ⭐ SSOT: S2 → API/아카이브 브레드스 결과 전달
type BreadthSnapshot struct {
	Universe         string    `json:"universe"`
	AsOf             time.Time `json:"as_of"`
	MA20             MAResult  `json:"ma_20"`
	MA50             MAResult  `json:"ma_50"`
	MA100            MAResult  `json:"ma_100"`
	MA200            MAResult  `json:"ma_200"`
	NewHighCount     int       `json:"new_high_count"`
	NewHighAvailable int       `json:"new_high_available"`
	NewHighPct       OptFloat  `json:"new_high_pct"`
}

// Complete reports whether every bucket, including the new-high bucket,
// produced a defined percentage. Incomplete snapshots are returned to the
// caller but never archived.
func (s *BreadthSnapshot) Complete() bool {
	return s.MA20.Pct.Valid &&
		s.MA50.Pct.Valid &&
		s.MA100.Pct.Valid &&
		s.MA200.Pct.Valid &&
		s.NewHighPct.Valid
}

// HistoricalRow converts a complete snapshot into its archive row.
// The second return is false when the snapshot has any unavailable bucket.
func (s *BreadthSnapshot) HistoricalRow() (HistoricalRow, bool) {
	if !s.Complete() {
		return HistoricalRow{}, false
	}
	return HistoricalRow{
		TradingDate: s.AsOf,
		Pct20:       s.MA20.Pct.Value,
		Pct50:       s.MA50.Pct.Value,
		Pct100:      s.MA100.Pct.Value,
		Pct200:      s.MA200.Pct.Value,
		Pct52W:      s.NewHighPct.Value,
	}, true
}

// HistoricalRow is one archived breadth row, keyed by trading date within a
// universe. Percentages are fractions in [0, 1].
type HistoricalRow struct {
	TradingDate time.Time `json:"trading_date"`
	Pct20       float64   `json:"pct_20"`
	Pct50       float64   `json:"pct_50"`
	Pct100      float64   `json:"pct_100"`
	Pct200      float64   `json:"pct_200"`
	Pct52W      float64   `json:"pct_52w"`
}
