// Package calendar holds the process-wide holiday set used to decide which
// historical bars count as trading days. The set is loaded once at startup
// and never mutated afterwards.
package calendar

import (
	"encoding/csv"
	"io"
	"os"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Calendar is an immutable set of non-trading dates.
type Calendar struct {
	holidays map[string]struct{}
	skipped  int
}

// New builds a calendar from an explicit date list.
func New(dates []time.Time) *Calendar {
	c := &Calendar{holidays: make(map[string]struct{}, len(dates))}
	for _, d := range dates {
		c.holidays[d.Format(dateLayout)] = struct{}{}
	}
	return c
}

// Load reads a headerless CSV of YYYY-MM-DD dates, one per row. A missing
// file yields an empty calendar, not an error: every day then counts as a
// trading day. Unparseable rows are skipped and tallied.
func Load(path string) (*Calendar, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(nil), nil
		}
		return nil, err
	}
	defer f.Close()

	c := &Calendar{holidays: make(map[string]struct{})}

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) == 0 {
			continue
		}

		raw := strings.TrimSpace(record[0])
		if raw == "" {
			continue
		}
		d, err := time.Parse(dateLayout, raw)
		if err != nil {
			c.skipped++
			continue
		}
		c.holidays[d.Format(dateLayout)] = struct{}{}
	}

	return c, nil
}

// IsHoliday reports whether the date (time-of-day ignored) is in the set.
func (c *Calendar) IsHoliday(t time.Time) bool {
	_, ok := c.holidays[t.Format(dateLayout)]
	return ok
}

// IsTradingDay is the complement of IsHoliday. It applies to historical bars
// only; the live quote is always current regardless of the calendar.
func (c *Calendar) IsTradingDay(t time.Time) bool {
	return !c.IsHoliday(t)
}

// Size returns the number of loaded holiday dates.
func (c *Calendar) Size() int {
	return len(c.holidays)
}

// Skipped returns the number of rows dropped as unparseable during Load.
func (c *Calendar) Skipped() int {
	return c.skipped
}
