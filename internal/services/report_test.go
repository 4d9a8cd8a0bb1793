package services

import (
	"testing"
	"time"

	"bbb-dashboard/internal/models"
)

func strPtr(s string) *string { return &s }

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func record(customer, region, product string, amount float64, date *time.Time) models.Record {
	r := models.Record{Amount: amount, Date: date}
	if customer != "" {
		r.Customer = strPtr(customer)
	}
	if region != "" {
		r.Region = strPtr(region)
	}
	if product != "" {
		r.Product = strPtr(product)
	}
	return r
}

func TestBuildReport_EndToEnd(t *testing.T) {
	ds := &models.Dataset{
		Bookings: []models.Record{
			record("A", "East", "X", 1000, datePtr(2023, 3, 15)),
		},
		Backlogs: []models.Record{
			record("A", "East", "X", 200, nil),
		},
	}

	report := BuildReport(ds, DateWindow{})

	if len(report.TableRows) != 1 {
		t.Fatalf("expected 1 table row, got %d", len(report.TableRows))
	}
	row := report.TableRows[0]
	if *row.Customer != "A" || *row.Region != "East" || *row.Product != "X" {
		t.Errorf("unexpected dimensions: %v %v %v", row.Customer, row.Region, row.Product)
	}
	if row.TotalBookings != 1000 || row.TotalBillings != 0 || row.Backlog != 200 {
		t.Errorf("unexpected totals: %v %v %v", row.TotalBookings, row.TotalBillings, row.Backlog)
	}
	if row.BookToBillRatio != nil {
		t.Errorf("zero billings should yield nil ratio, got %v", *row.BookToBillRatio)
	}
}

func TestBuildReport_KeyUnionAndConservation(t *testing.T) {
	ds := &models.Dataset{
		Bookings: []models.Record{
			record("A", "East", "X", 100, datePtr(2024, 1, 5)),
			record("A", "East", "X", 50, datePtr(2024, 1, 28)),
			record("B", "West", "Y", 75, datePtr(2024, 2, 1)),
		},
		Billings: []models.Record{
			record("A", "East", "X", 120, datePtr(2024, 1, 10)),
			record("C", "North", "Z", 30, datePtr(2024, 3, 1)),
		},
		Backlogs: []models.Record{
			record("D", "South", "W", 500, nil),
		},
	}

	report := BuildReport(ds, DateWindow{})

	// Union of keys across all three sources, each exactly once.
	if len(report.TableRows) != 4 {
		t.Fatalf("expected 4 joined rows, got %d", len(report.TableRows))
	}

	var totalBookings, totalBillings, totalBacklog float64
	for _, r := range report.TableRows {
		totalBookings += r.TotalBookings
		totalBillings += r.TotalBillings
		totalBacklog += r.Backlog
	}
	if totalBookings != 225 {
		t.Errorf("bookings not conserved across join: got %v, want 225", totalBookings)
	}
	if totalBillings != 150 {
		t.Errorf("billings not conserved across join: got %v, want 150", totalBillings)
	}
	if totalBacklog != 500 {
		t.Errorf("backlog not conserved across join: got %v, want 500", totalBacklog)
	}
}

func TestBuildReport_RatioEdgeCases(t *testing.T) {
	ds := &models.Dataset{
		Bookings: []models.Record{
			record("A", "East", "X", 100, datePtr(2024, 1, 5)),
			record("B", "West", "Y", 100, datePtr(2024, 1, 5)),
		},
		Billings: []models.Record{
			record("B", "West", "Y", 50, datePtr(2024, 1, 6)),
		},
	}

	report := BuildReport(ds, DateWindow{})

	for _, r := range report.TableRows {
		switch *r.Customer {
		case "A":
			if r.BookToBillRatio != nil {
				t.Errorf("row A: nil ratio expected for zero billings, got %v", *r.BookToBillRatio)
			}
		case "B":
			if r.BookToBillRatio == nil || *r.BookToBillRatio != 2 {
				t.Errorf("row B: expected ratio 2, got %v", r.BookToBillRatio)
			}
		}
	}
}

func TestBuildReport_MonthlyGrouping(t *testing.T) {
	ds := &models.Dataset{
		Bookings: []models.Record{
			record("A", "East", "X", 100, datePtr(2024, 1, 5)),
			record("A", "East", "X", 50, datePtr(2024, 1, 28)),
			record("A", "East", "X", 25, datePtr(2023, 12, 31)),
			record("A", "East", "X", 999, nil), // no date: excluded from series
		},
	}

	report := BuildReport(ds, DateWindow{})

	if len(report.BookingsMonthly) != 2 {
		t.Fatalf("expected 2 monthly buckets, got %d", len(report.BookingsMonthly))
	}
	if report.BookingsMonthly[0].Month != "2023-12" || report.BookingsMonthly[1].Month != "2024-01" {
		t.Errorf("months should sort ascending, got %v", report.BookingsMonthly)
	}
	if report.BookingsMonthly[1].Value != 150 {
		t.Errorf("expected 2024-01 bucket of 150, got %v", report.BookingsMonthly[1].Value)
	}

	// The dateless booking still lands in the table.
	if report.TableRows[0].TotalBookings != 1174 {
		t.Errorf("dateless booking should count in the table, got %v", report.TableRows[0].TotalBookings)
	}
}

func TestBuildReport_DateWindowAppliesToBookingsAndBillingsOnly(t *testing.T) {
	ds := &models.Dataset{
		Bookings: []models.Record{
			record("A", "East", "X", 100, datePtr(2024, 1, 15)),
			record("A", "East", "X", 999, datePtr(2023, 6, 1)), // outside window
		},
		Billings: []models.Record{
			record("A", "East", "X", 80, datePtr(2023, 6, 1)), // outside window
		},
		Backlogs: []models.Record{
			record("A", "East", "X", 300, nil),
		},
	}

	report := BuildReport(ds, DateWindow{
		Start: datePtr(2024, 1, 1),
		End:   datePtr(2024, 1, 31),
	})

	row := report.TableRows[0]
	if row.TotalBookings != 100 {
		t.Errorf("window should exclude the 2023 booking, got %v", row.TotalBookings)
	}
	if row.TotalBillings != 0 {
		t.Errorf("window should exclude the 2023 billing, got %v", row.TotalBillings)
	}
	if row.Backlog != 300 {
		t.Errorf("backlog is never date-filtered, got %v", row.Backlog)
	}
}

func TestBuildReport_UnknownAsymmetry(t *testing.T) {
	ds := &models.Dataset{
		Bookings: []models.Record{
			record("A", "East", "", 40, datePtr(2024, 1, 5)), // nil product
		},
		Backlogs: []models.Record{
			record("A", "", "X", 60, nil), // nil region
		},
	}

	report := BuildReport(ds, DateWindow{})

	// Rollups substitute "Unknown" for missing dimensions.
	if got := report.BacklogByRegion["Unknown"]; got != 60 {
		t.Errorf("backlogByRegion[Unknown] = %v, want 60", got)
	}
	if got := report.BookingsByProduct["Unknown"]; got != 40 {
		t.Errorf("bookingsByProduct[Unknown] = %v, want 40", got)
	}

	// The joined table keeps the nils as-is.
	for _, r := range report.TableRows {
		if r.Region == nil && r.Product != nil {
			continue // backlog row, region stays nil
		}
		if r.Product == nil && r.Region != nil {
			continue // booking row, product stays nil
		}
		t.Errorf("joined table must not coalesce dimensions: %+v", r)
	}
}

func TestBuildReport_DistinctNilKeys(t *testing.T) {
	ds := &models.Dataset{
		Bookings: []models.Record{
			record("A", "East", "", 10, datePtr(2024, 1, 5)),
			record("A", "East", "X", 20, datePtr(2024, 1, 5)),
		},
	}

	report := BuildReport(ds, DateWindow{})

	if len(report.TableRows) != 2 {
		t.Errorf("nil and non-nil product must key separate rows, got %d", len(report.TableRows))
	}
}

func TestBuildReport_EmptyDataset(t *testing.T) {
	report := BuildReport(&models.Dataset{}, DateWindow{})

	if report.TableRows == nil || report.BookingsMonthly == nil || report.BacklogByRegion == nil {
		t.Error("empty dataset should yield empty, non-nil collections")
	}
	if len(report.TableRows) != 0 {
		t.Errorf("expected no rows, got %d", len(report.TableRows))
	}
}
