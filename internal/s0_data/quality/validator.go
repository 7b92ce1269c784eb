// Package quality screens raw bar series for anomalies before they enter
// the hard data build. Findings are observational: bars are reported, never
// silently repaired or dropped.
package quality

import (
	"github.com/wonny/pulse/backend/internal/contracts"
)

// Checker inspects one symbol's bar series.
type Checker struct {
	config Config
}

// Config holds quality thresholds.
type Config struct {
	// MaxAnomalyRatio is the share of anomalous bars above which a series
	// is flagged as suspect. 0.02 flags a series with more than 2% bad bars.
	MaxAnomalyRatio float64
}

// NewChecker creates a Checker with the given thresholds.
func NewChecker(config Config) *Checker {
	return &Checker{config: config}
}

// Report tallies the anomalies found in one symbol's series.
type Report struct {
	Symbol            string `json:"symbol"`
	Bars              int    `json:"bars"`
	OutOfOrderDates   int    `json:"out_of_order_dates"`
	DuplicateDates    int    `json:"duplicate_dates"`
	NonPositiveCloses int    `json:"non_positive_closes"`
	HighBelowLow      int    `json:"high_below_low"`
}

// Anomalies returns the total anomaly count.
func (r Report) Anomalies() int {
	return r.OutOfOrderDates + r.DuplicateDates + r.NonPositiveCloses + r.HighBelowLow
}

// Clean reports whether the series had no anomalies at all.
func (r Report) Clean() bool {
	return r.Anomalies() == 0
}

// Check validates a bar series ordered ascending by date.
// ⭐ SSOT: S0 입력 품질 검증
func (c *Checker) Check(symbol string, bars []contracts.Bar) Report {
	report := Report{
		Symbol: symbol,
		Bars:   len(bars),
	}

	for i, bar := range bars {
		if i > 0 {
			switch {
			case bar.Date.Equal(bars[i-1].Date):
				report.DuplicateDates++
			case bar.Date.Before(bars[i-1].Date):
				report.OutOfOrderDates++
			}
		}
		if bar.Close <= 0 {
			report.NonPositiveCloses++
		}
		if bar.High < bar.Low {
			report.HighBelowLow++
		}
	}

	return report
}

// Suspect reports whether a series exceeds the configured anomaly ratio.
func (c *Checker) Suspect(report Report) bool {
	if report.Bars == 0 {
		return false
	}
	return float64(report.Anomalies())/float64(report.Bars) > c.config.MaxAnomalyRatio
}
