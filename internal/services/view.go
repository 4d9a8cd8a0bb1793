package services

import (
	"strconv"
	"strings"

	"bbb-dashboard/internal/models"
)

// TableFilter narrows the table view by exact dimension match against
// the Unknown-coalesced values. Empty or "All" leaves a dimension
// unfiltered.
type TableFilter struct {
	Region   string
	Product  string
	Customer string
}

func (f TableFilter) matches(r models.TableRow) bool {
	return dimMatch(f.Region, r.Region) &&
		dimMatch(f.Product, r.Product) &&
		dimMatch(f.Customer, r.Customer)
}

func dimMatch(want, have string) bool {
	return want == "" || want == "All" || want == have
}

func coalesce(s *string) string {
	if s == nil {
		return unknownLabel
	}
	return *s
}

// TableView coalesces nil dimensions to "Unknown" and applies the
// dimension filter, preserving row order.
func TableView(rows []models.SummaryRow, filter TableFilter) []models.TableRow {
	view := make([]models.TableRow, 0, len(rows))
	for _, r := range rows {
		tr := models.TableRow{
			Customer:        coalesce(r.Customer),
			Region:          coalesce(r.Region),
			Product:         coalesce(r.Product),
			TotalBookings:   r.TotalBookings,
			TotalBillings:   r.TotalBillings,
			Backlog:         r.Backlog,
			BookToBillRatio: r.BookToBillRatio,
		}
		if filter.matches(tr) {
			view = append(view, tr)
		}
	}
	return view
}

// Summarize totals the visible rows and derives the overall
// book-to-bill ratio from those totals.
func Summarize(rows []models.TableRow) models.ViewSummary {
	var s models.ViewSummary
	for _, r := range rows {
		s.TotalBookings += r.TotalBookings
		s.TotalBillings += r.TotalBillings
		s.TotalBacklog += r.Backlog
	}
	s.BookToBillRatio = BookToBill(s.TotalBookings, s.TotalBillings)
	return s
}

// Column order of the export, matching TableRow field declaration order.
var exportHeader = []string{
	"customer", "region", "product",
	"totalBookings", "totalBillings", "backlog", "bookToBillRatio",
}

// ExportCSV renders the filtered table in the export contract: a plain
// header row, then every value wrapped in double quotes with nil ratios
// as empty strings. The contract quotes unconditionally, which
// encoding/csv cannot be told to do, hence the by-hand rendering. An
// empty table exports as an empty string.
func ExportCSV(rows []models.TableRow) string {
	if len(rows) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(strings.Join(exportHeader, ","))

	for _, r := range rows {
		fields := []string{
			r.Customer,
			r.Region,
			r.Product,
			formatAmount(r.TotalBookings),
			formatAmount(r.TotalBillings),
			formatAmount(r.Backlog),
			formatRatio(r.BookToBillRatio),
		}
		b.WriteString("\n")
		for i, f := range fields {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(`"`)
			b.WriteString(f)
			b.WriteString(`"`)
		}
	}
	return b.String()
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatRatio(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
