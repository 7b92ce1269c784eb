package quality

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/pulse/backend/internal/contracts"
)

func qbar(day int, close float64) contracts.Bar {
	return contracts.Bar{
		Date:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, day),
		Open:  close,
		High:  close + 1,
		Low:   close - 1,
		Close: close,
	}
}

func TestChecker_Check_Clean(t *testing.T) {
	checker := NewChecker(Config{MaxAnomalyRatio: 0.02})

	report := checker.Check("RELIANCE.NS", []contracts.Bar{
		qbar(0, 100), qbar(1, 101), qbar(2, 102),
	})

	assert.True(t, report.Clean())
	assert.Equal(t, 3, report.Bars)
	assert.Equal(t, 0, report.Anomalies())
	assert.False(t, checker.Suspect(report))
}

func TestChecker_Check_Anomalies(t *testing.T) {
	checker := NewChecker(Config{MaxAnomalyRatio: 0.02})

	dup := qbar(1, 105)
	outOfOrder := qbar(0, 99)
	badClose := qbar(3, 0)
	inverted := qbar(4, 100)
	inverted.High = 90
	inverted.Low = 110

	report := checker.Check("BROKEN.NS", []contracts.Bar{
		qbar(0, 100),
		qbar(1, 101),
		dup,
		outOfOrder,
		badClose,
		inverted,
	})

	assert.False(t, report.Clean())
	assert.Equal(t, 1, report.DuplicateDates)
	assert.Equal(t, 1, report.OutOfOrderDates)
	assert.Equal(t, 1, report.NonPositiveCloses)
	assert.Equal(t, 1, report.HighBelowLow)
	assert.Equal(t, 4, report.Anomalies())
	assert.True(t, checker.Suspect(report))
}

func TestChecker_Check_Empty(t *testing.T) {
	checker := NewChecker(Config{MaxAnomalyRatio: 0.02})

	report := checker.Check("EMPTY.NS", nil)

	assert.True(t, report.Clean())
	assert.False(t, checker.Suspect(report))
}

func TestChecker_SuspectRatio(t *testing.T) {
	checker := NewChecker(Config{MaxAnomalyRatio: 0.5})

	// One anomaly in four bars stays under a 50% threshold
	report := checker.Check("OK.NS", []contracts.Bar{
		qbar(0, 100), qbar(1, 101), qbar(2, 102), qbar(3, 0),
	})

	assert.False(t, report.Clean())
	assert.False(t, checker.Suspect(report))
}
