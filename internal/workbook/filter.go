package workbook

import (
	"time"

	"bbb-dashboard/internal/models"
)

// FilterByDate keeps records whose date falls inside the inclusive
// [start, end] window. A nil bound leaves that side open; records with
// no date always pass. Order is preserved.
func FilterByDate(records []models.Record, start, end *time.Time) []models.Record {
	if start == nil && end == nil {
		return records
	}

	out := make([]models.Record, 0, len(records))
	for _, r := range records {
		if InWindow(r.Date, start, end) {
			out = append(out, r)
		}
	}
	return out
}

// InWindow reports whether d is inside the inclusive window. A nil date
// is always inside.
func InWindow(d, start, end *time.Time) bool {
	if d == nil {
		return true
	}
	if start != nil && d.Before(*start) {
		return false
	}
	if end != nil && d.After(*end) {
		return false
	}
	return true
}
