package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"bbb-dashboard/internal/models"
	"bbb-dashboard/internal/services"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func strPtr(s string) *string { return &s }

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func createTestAnalytics() *services.Analytics {
	a := services.NewAnalytics("unused.xlsx", testLogger())
	a.SetData(&models.Dataset{
		Bookings: []models.Record{
			{Customer: strPtr("Acme"), Region: strPtr("East"), Product: strPtr("Widget"), Amount: 1000, Date: datePtr(2024, 1, 15)},
			{Customer: strPtr("Globex"), Region: strPtr("West"), Product: strPtr("Gadget"), Amount: 400, Date: datePtr(2024, 2, 10)},
		},
		Billings: []models.Record{
			{Customer: strPtr("Acme"), Region: strPtr("East"), Product: strPtr("Widget"), Amount: 500, Date: datePtr(2024, 1, 20)},
		},
		Backlogs: []models.Record{
			{Customer: strPtr("Acme"), Region: nil, Product: strPtr("Widget"), Amount: 250},
		},
	})
	return a
}

func TestNewAPIHandlers(t *testing.T) {
	analytics := createTestAnalytics()
	handlers := NewAPIHandlers(analytics, testLogger())

	if handlers == nil {
		t.Fatal("NewAPIHandlers() returned nil")
	}
	if handlers.analytics != analytics {
		t.Error("NewAPIHandlers() should set analytics field")
	}
}

func TestAPIHandlers_HandleData(t *testing.T) {
	handlers := NewAPIHandlers(createTestAnalytics(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/data", nil)
	w := httptest.NewRecorder()

	handlers.HandleData(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected content-type 'application/json', got %q", ct)
	}

	// The body is the bare envelope, not the wrapped success shape.
	var report models.Report
	if err := json.NewDecoder(w.Body).Decode(&report); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}

	if len(report.TableRows) != 3 {
		t.Errorf("expected 3 table rows, got %d", len(report.TableRows))
	}
	if len(report.BookingsMonthly) != 2 {
		t.Errorf("expected 2 monthly booking buckets, got %d", len(report.BookingsMonthly))
	}
	if report.BacklogByRegion["Unknown"] != 250 {
		t.Errorf("expected Unknown backlog bucket of 250, got %v", report.BacklogByRegion["Unknown"])
	}
}

func TestAPIHandlers_HandleData_DateWindow(t *testing.T) {
	handlers := NewAPIHandlers(createTestAnalytics(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/data?startDate=2024-01-01&endDate=2024-01-31", nil)
	w := httptest.NewRecorder()

	handlers.HandleData(w, req)

	var report models.Report
	if err := json.NewDecoder(w.Body).Decode(&report); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}

	if len(report.BookingsMonthly) != 1 || report.BookingsMonthly[0].Month != "2024-01" {
		t.Errorf("window should leave only 2024-01, got %v", report.BookingsMonthly)
	}

	// The Globex row disappears entirely: it only existed in bookings.
	if len(report.TableRows) != 2 {
		t.Errorf("expected 2 table rows inside window, got %d", len(report.TableRows))
	}
}

func TestAPIHandlers_HandleData_InvalidDate(t *testing.T) {
	handlers := NewAPIHandlers(createTestAnalytics(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/data?startDate=banana", nil)
	w := httptest.NewRecorder()

	handlers.HandleData(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d for bad date, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestAPIHandlers_HandleData_MissingWorkbook(t *testing.T) {
	analytics := services.NewAnalytics(filepath.Join(t.TempDir(), "nope.xlsx"), testLogger())
	handlers := NewAPIHandlers(analytics, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/data", nil)
	w := httptest.NewRecorder()

	handlers.HandleData(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d for missing file, got %d", http.StatusInternalServerError, w.Code)
	}
}

func TestAPIHandlers_HandleExportCSV(t *testing.T) {
	handlers := NewAPIHandlers(createTestAnalytics(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/export.csv?customer=Acme", nil)
	w := httptest.NewRecorder()

	handlers.HandleExportCSV(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("expected text/csv content type, got %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "dashboard.csv") {
		t.Errorf("expected attachment disposition, got %q", cd)
	}

	lines := strings.Split(w.Body.String(), "\n")
	if lines[0] != "customer,region,product,totalBookings,totalBillings,backlog,bookToBillRatio" {
		t.Errorf("unexpected CSV header: %s", lines[0])
	}
	// Acme appears as two joined rows (region East and region Unknown).
	if len(lines) != 3 {
		t.Errorf("expected header + 2 Acme rows, got %d lines", len(lines))
	}
	for _, line := range lines[1:] {
		if !strings.HasPrefix(line, `"Acme"`) {
			t.Errorf("filtered export should contain only Acme rows, got %s", line)
		}
	}
}

func TestAPIHandlers_HandleSummary(t *testing.T) {
	handlers := NewAPIHandlers(createTestAnalytics(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/summary", nil)
	w := httptest.NewRecorder()

	handlers.HandleSummary(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var response struct {
		Data    models.ViewSummary `json:"data"`
		Success bool               `json:"success"`
	}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
	if !response.Success {
		t.Error("expected success envelope")
	}
	if response.Data.TotalBookings != 1400 || response.Data.TotalBillings != 500 {
		t.Errorf("unexpected summary: %+v", response.Data)
	}
	if response.Data.BookToBillRatio == nil || *response.Data.BookToBillRatio != 2.8 {
		t.Errorf("expected overall ratio 2.8, got %v", response.Data.BookToBillRatio)
	}
}

func TestAPIHandlers_HandleHealth(t *testing.T) {
	handlers := NewAPIHandlers(createTestAnalytics(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	handlers.HandleHealth(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var response map[string]any
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
	if response["success"] != true {
		t.Error("expected success response")
	}
}

func TestAPIHandlers_HandleStats(t *testing.T) {
	handlers := NewAPIHandlers(createTestAnalytics(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	w := httptest.NewRecorder()

	handlers.HandleStats(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	body := w.Body.String()
	if !strings.Contains(body, "bookings") {
		t.Errorf("stats should include record counts, got %s", body)
	}
}

// Full path: xlsx on disk through extraction and aggregation to the
// JSON envelope.
func TestAPIHandlers_HandleData_FromWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashboard.xlsx")

	f := excelize.NewFile()
	f.NewSheet("Bookings")
	f.SetSheetRow("Bookings", "A1", &[]any{"Customer", "Region", "Product", "Booking_Amount", "Booking_Date"})
	f.SetSheetRow("Bookings", "A2", &[]any{"Acme", "East", "Widget", "1,200", "2024-03-05"})
	f.NewSheet("Billings")
	f.SetSheetRow("Billings", "A1", &[]any{"Customer", "Region", "Product", "Billed_Amount", "Billing_Date"})
	f.SetSheetRow("Billings", "A2", &[]any{"Acme", "East", "Widget", "600", "2024-03-20"})
	f.NewSheet("Backlogs")
	f.SetSheetRow("Backlogs", "A1", &[]any{"Customer", "Region", "Product", "Backlog_Amount"})
	f.SetSheetRow("Backlogs", "A2", &[]any{"Acme", "East", "Widget", "300"})
	f.DeleteSheet("Sheet1")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save workbook: %v", err)
	}
	f.Close()

	t.Chdir(t.TempDir()) // keep the gob cache out of the repo tree

	handlers := NewAPIHandlers(services.NewAnalytics(path, testLogger()), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/data", nil)
	w := httptest.NewRecorder()

	handlers.HandleData(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var report models.Report
	if err := json.NewDecoder(w.Body).Decode(&report); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
	if len(report.TableRows) != 1 {
		t.Fatalf("expected 1 table row, got %d", len(report.TableRows))
	}
	row := report.TableRows[0]
	if row.TotalBookings != 1200 {
		t.Errorf("totalBookings = %v, want 1200", row.TotalBookings)
	}
	if row.Backlog != 300 {
		t.Errorf("backlog = %v, want 300", row.Backlog)
	}
	if row.BookToBillRatio == nil || *row.BookToBillRatio != 2 {
		t.Errorf("bookToBillRatio = %v, want 2", row.BookToBillRatio)
	}
	if len(report.BookingsMonthly) != 1 || report.BookingsMonthly[0].Month != "2024-03" {
		t.Errorf("unexpected bookingsMonthly: %+v", report.BookingsMonthly)
	}
}
