package workbook

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"bbb-dashboard/internal/models"
)

// Sheet and column names of the input workbook contract.
const (
	SheetBookings = "Bookings"
	SheetBillings = "Billings"
	SheetBacklogs = "Backlogs"

	colCustomer      = "Customer"
	colRegion        = "Region"
	colProduct       = "Product"
	colBookingAmount = "Booking_Amount"
	colBookingDate   = "Booking_Date"
	colBilledAmount  = "Billed_Amount"
	colBillingDate   = "Billing_Date"
	colBacklogAmount = "Backlog_Amount"
)

type sheetSpec struct {
	name      string
	amountCol string
	dateCol   string // empty when the sheet carries no date
}

var sheetSpecs = []sheetSpec{
	{name: SheetBookings, amountCol: colBookingAmount, dateCol: colBookingDate},
	{name: SheetBillings, amountCol: colBilledAmount, dateCol: colBillingDate},
	{name: SheetBacklogs, amountCol: colBacklogAmount},
}

// Load opens the workbook at path and extracts the three sheets into
// normalized records. Cells are read raw so date cells come back as
// serial numbers instead of locale-formatted strings. Only the file
// open can fail; a missing sheet yields an empty slice and malformed
// cells are absorbed by the coercion rules.
func Load(ctx context.Context, path string, logger *slog.Logger) (*models.Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	raw := make(map[string][][]string, len(sheetSpecs))
	for _, spec := range sheetSpecs {
		rows, err := f.GetRows(spec.name, excelize.Options{RawCellValue: true})
		if err != nil {
			logger.Warn("sheet not readable, treating as empty",
				"sheet", spec.name,
				"error", err,
			)
			rows = nil
		}
		raw[spec.name] = rows
	}

	ds := &models.Dataset{}
	targets := map[string]*[]models.Record{
		SheetBookings: &ds.Bookings,
		SheetBillings: &ds.Billings,
		SheetBacklogs: &ds.Backlogs,
	}

	// The three sheets normalize independently, one goroutine each.
	var g errgroup.Group
	for _, spec := range sheetSpecs {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			*targets[spec.name] = extractSheet(raw[spec.name], spec)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return ds, nil
}

// extractSheet maps raw rows into records using the sheet's declared
// column names. The first row is the header; rows after it never fail,
// they just coerce to zero values.
func extractSheet(rows [][]string, spec sheetSpec) []models.Record {
	if len(rows) < 2 {
		return nil
	}

	cols := headerIndex(rows[0])
	records := make([]models.Record, 0, len(rows)-1)

	for _, row := range rows[1:] {
		rec := models.Record{
			Customer: strPtr(cell(row, cols[colCustomer])),
			Region:   strPtr(cell(row, cols[colRegion])),
			Product:  strPtr(cell(row, cols[colProduct])),
			Amount:   CoerceAmount(cell(row, cols[spec.amountCol])),
		}
		if spec.dateCol != "" {
			rec.Date = CoerceDate(cell(row, cols[spec.dateCol]))
		}
		records = append(records, rec)
	}
	return records
}

// headerIndex maps trimmed column names to their positions. Unknown
// columns are looked up as -1 by cell().
func headerIndex(header []string) map[string]int {
	idx := map[string]int{
		colCustomer:      -1,
		colRegion:        -1,
		colProduct:       -1,
		colBookingAmount: -1,
		colBookingDate:   -1,
		colBilledAmount:  -1,
		colBillingDate:   -1,
		colBacklogAmount: -1,
	}
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	return idx
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
