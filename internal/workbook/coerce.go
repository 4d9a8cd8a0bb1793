package workbook

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Spreadsheet date serials count days from 1899-12-30 (day zero of the
// 1900 date system, offset so the fictional 1900-02-29 cancels out).
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// Layouts tried in order when a date cell or query parameter arrives as
// a plain string.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"Jan 2, 2006",
	"2 Jan 2006",
}

// CoerceAmount turns a raw cell value into a finite float64. Thousands
// separators are stripped before parsing; anything that still fails to
// parse, or parses to NaN/Inf, becomes 0. It never fails.
func CoerceAmount(raw string) float64 {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if s == "" {
		return 0
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return n
}

// CoerceDate turns a raw cell value into a calendar date, or nil when it
// cannot. Numeric values are treated as spreadsheet serials (days since
// the 1899-12-30 epoch, fractional part preserved as time of day);
// everything else goes through the layout list. It never fails.
func CoerceDate(raw string) *time.Time {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		t := serialEpoch.Add(time.Duration(serial * 86400000 * float64(time.Millisecond)))
		return &t
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
