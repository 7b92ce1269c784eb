// Package s0_data owns the hard data layer: compact per-symbol summaries
// rebuilt once per day from deep history and recombined with live quotes at
// request time. Nothing here touches the network.
package s0_data

import (
	"fmt"

	"github.com/wonny/pulse/backend/internal/calendar"
	"github.com/wonny/pulse/backend/internal/contracts"
)

// minQualifyingDays is the floor below which a symbol is unusable. It is
// checked against the holiday-filtered bar count before the live bar is
// dropped, so exactly 20 qualifying days still yield a 19-close sum.
const minQualifyingDays = 20

// Builder turns one symbol's raw daily history into a HardDataRecord.
// ⭐ SSOT: 하드 데이터 계산은 여기서만
type Builder struct {
	calendar *calendar.Calendar
}

// NewBuilder creates a builder that filters history through cal.
func NewBuilder(cal *calendar.Calendar) *Builder {
	return &Builder{calendar: cal}
}

// Build computes the rolling close sums and the 52-week high for one symbol.
// Bars must be ascending by date. The final qualifying bar may belong to a
// session still in progress, so every sum uses fully-closed days only.
// Symbols that cannot be summarized come back as contracts.ErrEmptyHistory
// or contracts.ErrInsufficientHistory.
func (b *Builder) Build(symbol string, bars []contracts.Bar) (*contracts.HardDataRecord, error) {
	if len(bars) == 0 {
		return nil, fmt.Errorf("symbol %s: %w", symbol, contracts.ErrEmptyHistory)
	}

	// 1. 휴장일 바 제거
	qualifying := make([]contracts.Bar, 0, len(bars))
	for _, bar := range bars {
		if b.calendar.IsHoliday(bar.Date) {
			continue
		}
		qualifying = append(qualifying, bar)
	}

	if len(qualifying) < minQualifyingDays {
		return nil, fmt.Errorf("symbol %s: %d qualifying days: %w",
			symbol, len(qualifying), contracts.ErrInsufficientHistory)
	}

	// 2. 마지막 바는 진행 중일 수 있으니 제외
	closed := qualifying[:len(qualifying)-1]

	record := &contracts.HardDataRecord{
		Symbol:  symbol,
		Sum19:   sumLastCloses(closed, 19),
		Sum49:   sumLastCloses(closed, 49),
		Sum99:   sumLastCloses(closed, 99),
		Sum199:  sumLastCloses(closed, 199),
		High52W: yearHigh(closed),
		AsOf:    closed[len(closed)-1].Date,
	}

	return record, nil
}

// sumLastCloses sums the closes of the window most recent bars, or the
// unavailable sentinel when fewer exist.
func sumLastCloses(bars []contracts.Bar, window int) contracts.OptFloat {
	if len(bars) < window {
		return contracts.Unavailable()
	}

	sum := 0.0
	for _, bar := range bars[len(bars)-window:] {
		sum += bar.Close
	}
	return contracts.Float(sum)
}

// yearHigh returns the maximum High over the calendar year ending at the
// last closed bar. If no bar falls inside that window it falls back to the
// maximum over the whole series.
func yearHigh(bars []contracts.Bar) contracts.OptFloat {
	if len(bars) == 0 {
		return contracts.Unavailable()
	}

	start := bars[len(bars)-1].Date.AddDate(-1, 0, 0)

	high := contracts.Unavailable()
	for _, bar := range bars {
		if bar.Date.Before(start) {
			continue
		}
		if !high.Valid || bar.High > high.Value {
			high = contracts.Float(bar.High)
		}
	}
	if high.Valid {
		return high
	}

	for _, bar := range bars {
		if !high.Valid || bar.High > high.Value {
			high = contracts.Float(bar.High)
		}
	}
	return high
}
