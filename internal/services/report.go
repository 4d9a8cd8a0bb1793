package services

import (
	"slices"
	"strings"
	"time"

	"bbb-dashboard/internal/models"
	"bbb-dashboard/internal/workbook"
)

// DateWindow bounds the bookings/billings date filter. Nil on either
// side means unbounded; backlog rows are never date-filtered.
type DateWindow struct {
	Start *time.Time
	End   *time.Time
}

const unknownLabel = "Unknown"

// nilKey stands in for a nil dimension inside composite map keys so a
// missing value and a literal value never collide.
const nilKey = "\x00"

// BuildReport derives the full dashboard envelope from a dataset and a
// date window. It is a pure function: same inputs, same output, no
// state carried between calls.
func BuildReport(ds *models.Dataset, window DateWindow) *models.Report {
	bookings := workbook.FilterByDate(ds.Bookings, window.Start, window.End)
	billings := workbook.FilterByDate(ds.Billings, window.Start, window.End)

	return &models.Report{
		BookingsMonthly:   monthlySeries(bookings),
		BillingsMonthly:   monthlySeries(billings),
		BacklogByRegion:   rollup(ds.Backlogs, func(r models.Record) *string { return r.Region }),
		BookingsByProduct: rollup(bookings, func(r models.Record) *string { return r.Product }),
		TableRows:         summaryTable(bookings, billings, ds.Backlogs),
	}
}

// summaryTable performs the outer join across the three sources. A row
// exists for every (customer, region, product) triple seen in any
// source, with zero defaults for the sources it is absent from. Rows
// come out in first-encounter order; dimensions keep their nil values.
func summaryTable(bookings, billings, backlogs []models.Record) []models.SummaryRow {
	index := make(map[string]*models.SummaryRow)
	order := make([]string, 0)

	row := func(r models.Record) *models.SummaryRow {
		k := compositeKey(r)
		if existing, ok := index[k]; ok {
			return existing
		}
		sr := &models.SummaryRow{
			Customer: r.Customer,
			Region:   r.Region,
			Product:  r.Product,
		}
		index[k] = sr
		order = append(order, k)
		return sr
	}

	for _, r := range bookings {
		row(r).TotalBookings += r.Amount
	}
	for _, r := range billings {
		row(r).TotalBillings += r.Amount
	}
	for _, r := range backlogs {
		row(r).Backlog += r.Amount
	}

	rows := make([]models.SummaryRow, 0, len(order))
	for _, k := range order {
		sr := *index[k]
		sr.BookToBillRatio = BookToBill(sr.TotalBookings, sr.TotalBillings)
		rows = append(rows, sr)
	}
	return rows
}

// BookToBill returns bookings/billings, or nil when the denominator is
// exactly zero. Never Inf, never a division error.
func BookToBill(bookings, billings float64) *float64 {
	if billings == 0 {
		return nil
	}
	ratio := bookings / billings
	return &ratio
}

func compositeKey(r models.Record) string {
	return keyPart(r.Customer) + "|" + keyPart(r.Region) + "|" + keyPart(r.Product)
}

func keyPart(s *string) string {
	if s == nil {
		return nilKey
	}
	return *s
}

// monthlySeries groups dated records into "YYYY-MM" buckets, summing
// amounts. Records without a date are dropped from the series. Buckets
// sort ascending by key; the format makes lexicographic order
// chronological.
func monthlySeries(records []models.Record) []models.MonthlyPoint {
	buckets := make(map[string]float64)
	for _, r := range records {
		if r.Date == nil {
			continue
		}
		buckets[r.Date.Format("2006-01")] += r.Amount
	}

	months := make([]string, 0, len(buckets))
	for m := range buckets {
		months = append(months, m)
	}
	slices.SortFunc(months, strings.Compare)

	series := make([]models.MonthlyPoint, 0, len(months))
	for _, m := range months {
		series = append(series, models.MonthlyPoint{Month: m, Value: buckets[m]})
	}
	return series
}

// rollup sums amounts by a single dimension, substituting "Unknown" for
// nil or empty values. This substitution is intentionally confined to
// the rollups; the joined table keeps nils (see summaryTable).
func rollup(records []models.Record, dim func(models.Record) *string) map[string]float64 {
	sums := make(map[string]float64)
	for _, r := range records {
		k := unknownLabel
		if v := dim(r); v != nil && *v != "" {
			k = *v
		}
		sums[k] += r.Amount
	}
	return sums
}
