package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"bbb-dashboard/internal/errors"
	"bbb-dashboard/internal/observability"
	"bbb-dashboard/internal/services"
	"bbb-dashboard/internal/workbook"
)

const cacheControl = "no-store"

type APIHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewAPIHandlers(analytics *services.Analytics, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

// parseWindow reads the optional startDate/endDate query parameters.
// Absent means unbounded on that side; present but unparseable is a
// validation error rather than a silently empty result.
func parseWindow(r *http.Request) (services.DateWindow, *errors.AppError) {
	var window services.DateWindow

	if s := r.URL.Query().Get("startDate"); s != "" {
		t := workbook.CoerceDate(s)
		if t == nil {
			return window, errors.Validation(fmt.Sprintf("invalid startDate %q", s))
		}
		window.Start = t
	}

	if s := r.URL.Query().Get("endDate"); s != "" {
		t := workbook.CoerceDate(s)
		if t == nil {
			return window, errors.Validation(fmt.Sprintf("invalid endDate %q", s))
		}
		window.End = t
	}

	return window, nil
}

func parseTableFilter(r *http.Request) services.TableFilter {
	q := r.URL.Query()
	return services.TableFilter{
		Region:   q.Get("region"),
		Product:  q.Get("product"),
		Customer: q.Get("customer"),
	}
}

// HandleData serves the full dashboard envelope. The response body is
// the bare envelope, not the wrapped success shape, because its layout
// is an external contract consumed by the dashboard frontend.
func (h *APIHandlers) HandleData(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	window, appErr := parseWindow(r)
	if appErr != nil {
		errors.WriteError(w, h.logger, appErr, requestID)
		return
	}

	report, err := h.analytics.Report(r.Context(), window)
	if err != nil {
		errors.WriteError(w, h.logger, errors.InternalWrap(err, "failed to load workbook data"), requestID)
		return
	}

	w.Header().Set("Cache-Control", cacheControl)
	errors.WriteJSON(w, report)
}

// HandleExportCSV serves the currently filtered table as a CSV
// attachment, applying both the date window and the dimension filters.
func (h *APIHandlers) HandleExportCSV(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	window, appErr := parseWindow(r)
	if appErr != nil {
		errors.WriteError(w, h.logger, appErr, requestID)
		return
	}

	report, err := h.analytics.Report(r.Context(), window)
	if err != nil {
		errors.WriteError(w, h.logger, errors.InternalWrap(err, "failed to load workbook data"), requestID)
		return
	}

	rows := services.TableView(report.TableRows, parseTableFilter(r))

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="dashboard.csv"`)
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, services.ExportCSV(rows))
}

// HandleSummary serves the filter-aware headline totals.
func (h *APIHandlers) HandleSummary(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	window, appErr := parseWindow(r)
	if appErr != nil {
		errors.WriteError(w, h.logger, appErr, requestID)
		return
	}

	report, err := h.analytics.Report(r.Context(), window)
	if err != nil {
		errors.WriteError(w, h.logger, errors.InternalWrap(err, "failed to load workbook data"), requestID)
		return
	}

	rows := services.TableView(report.TableRows, parseTableFilter(r))
	errors.WriteSuccess(w, services.Summarize(rows))
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	healthData := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	}

	errors.WriteSuccess(w, healthData)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.analytics.Stats())
}
