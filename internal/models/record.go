package models

import "time"

// Record is a normalized row from one of the workbook sheets. Dimension
// fields stay nil when the source cell is empty; Amount is always a
// finite number (failed coercion becomes 0) and Date is nil for backlog
// rows and for unparseable date cells.
type Record struct {
	Customer *string
	Region   *string
	Product  *string
	Amount   float64
	Date     *time.Time
}

// Dataset holds the normalized rows of the three workbook sheets.
type Dataset struct {
	Bookings []Record
	Billings []Record
	Backlogs []Record
}

// SummaryRow is one row of the joined bookings/billings/backlog table,
// keyed by (customer, region, product). Dimensions keep their nil values
// here; the "Unknown" substitution happens only in the rollup maps.
type SummaryRow struct {
	Customer        *string  `json:"customer"`
	Region          *string  `json:"region"`
	Product         *string  `json:"product"`
	TotalBookings   float64  `json:"totalBookings"`
	TotalBillings   float64  `json:"totalBillings"`
	Backlog         float64  `json:"backlog"`
	BookToBillRatio *float64 `json:"bookToBillRatio"`
}

// MonthlyPoint is one "YYYY-MM" bucket of a monthly series.
type MonthlyPoint struct {
	Month string  `json:"month"`
	Value float64 `json:"value"`
}

// Report is the response envelope consumed by the dashboard.
type Report struct {
	BookingsMonthly   []MonthlyPoint     `json:"bookingsMonthly"`
	BillingsMonthly   []MonthlyPoint     `json:"billingsMonthly"`
	BacklogByRegion   map[string]float64 `json:"backlogByRegion"`
	BookingsByProduct map[string]float64 `json:"bookingsByProduct"`
	TableRows         []SummaryRow       `json:"tableRows"`
}

// TableRow is the presentation view of a SummaryRow: nil dimensions are
// coalesced to "Unknown" so the grid and CSV export have stable values
// to filter and group on.
type TableRow struct {
	Customer        string   `json:"customer"`
	Region          string   `json:"region"`
	Product         string   `json:"product"`
	TotalBookings   float64  `json:"totalBookings"`
	TotalBillings   float64  `json:"totalBillings"`
	Backlog         float64  `json:"backlog"`
	BookToBillRatio *float64 `json:"bookToBillRatio"`
}

// ViewSummary carries the filter-aware headline totals.
type ViewSummary struct {
	TotalBookings   float64  `json:"total_bookings"`
	TotalBillings   float64  `json:"total_billings"`
	TotalBacklog    float64  `json:"total_backlog"`
	BookToBillRatio *float64 `json:"book_to_bill_ratio"`
}
