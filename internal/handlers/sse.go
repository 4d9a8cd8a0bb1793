package handlers

import (
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"bbb-dashboard/internal/errors"
	"bbb-dashboard/internal/models"
	"bbb-dashboard/internal/observability"
	"bbb-dashboard/internal/services"
)

const maxTableRows = 50

var summaryTableTemplate = template.Must(template.New("summaryTable").Parse(`
<div id="table-content">
<table class="modern-table">
<thead><tr><th>Customer</th><th>Region</th><th>Product</th><th>Bookings</th><th>Billings</th><th>Backlog</th><th>Book-to-Bill</th></tr></thead>
<tbody>
{{range .Rows}}<tr>
<td>{{.Customer}}</td>
<td>{{.Region}}</td>
<td>{{.Product}}</td>
<td><strong>${{printf "%.2f" .TotalBookings}}</strong></td>
<td>${{printf "%.2f" .TotalBillings}}</td>
<td>${{printf "%.2f" .Backlog}}</td>
<td>{{.Ratio}}</td>
</tr>{{end}}
</tbody>
</table>
</div>`))

type summaryTableRow struct {
	models.TableRow
	Ratio string
}

type SSEHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewSSEHandlers(analytics *services.Analytics, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

func (h *SSEHandlers) renderSummaryTable(rows []models.TableRow) (string, error) {
	if len(rows) > maxTableRows {
		rows = rows[:maxTableRows]
	}

	display := make([]summaryTableRow, 0, len(rows))
	for _, r := range rows {
		d := summaryTableRow{TableRow: r, Ratio: "-"}
		if r.BookToBillRatio != nil {
			d.Ratio = fmt.Sprintf("%.2f", *r.BookToBillRatio)
		}
		display = append(display, d)
	}

	var buf strings.Builder
	err := summaryTableTemplate.Execute(&buf, struct{ Rows []summaryTableRow }{display})
	return buf.String(), err
}

// report resolves the date window and dimension filters from the query
// and runs the request-scoped pipeline. Errors are written to the plain
// response before the SSE stream starts.
func (h *SSEHandlers) report(w http.ResponseWriter, r *http.Request) (*models.Report, bool) {
	requestID := observability.GetRequestID(r.Context())

	window, appErr := parseWindow(r)
	if appErr != nil {
		errors.WriteError(w, h.logger, appErr, requestID)
		return nil, false
	}

	report, err := h.analytics.Report(r.Context(), window)
	if err != nil {
		errors.WriteError(w, h.logger, errors.InternalWrap(err, "failed to load workbook data"), requestID)
		return nil, false
	}
	return report, true
}

func (h *SSEHandlers) HandleSummaryTable(w http.ResponseWriter, r *http.Request) {
	report, ok := h.report(w, r)
	if !ok {
		return
	}

	sse := datastar.NewSSE(w, r)

	rows := services.TableView(report.TableRows, parseTableFilter(r))
	html, err := h.renderSummaryTable(rows)
	if err != nil {
		h.logger.Error("render summary table", "error", err)
		return
	}

	sse.PatchElements(html)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandleMonthlyTrend(w http.ResponseWriter, r *http.Request) {
	report, ok := h.report(w, r)
	if !ok {
		return
	}

	sse := datastar.NewSSE(w, r)

	jsonData, err := json.Marshal(map[string]any{
		"bookingsMonthly": report.BookingsMonthly,
		"billingsMonthly": report.BillingsMonthly,
	})
	if err != nil {
		h.logger.Error("marshal monthly trend", "error", err)
		return
	}
	sse.PatchSignals(jsonData)

	sse.PatchElements(`<div id="monthly-content">Monthly trend data loaded</div>`)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandleBacklogRegions(w http.ResponseWriter, r *http.Request) {
	report, ok := h.report(w, r)
	if !ok {
		return
	}

	sse := datastar.NewSSE(w, r)

	jsonData, err := json.Marshal(map[string]any{
		"backlogByRegion": report.BacklogByRegion,
	})
	if err != nil {
		h.logger.Error("marshal backlog regions", "error", err)
		return
	}
	sse.PatchSignals(jsonData)
	sse.PatchElements(`<div id="regions-content">Backlog by region loaded</div>`)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandleProductMix(w http.ResponseWriter, r *http.Request) {
	report, ok := h.report(w, r)
	if !ok {
		return
	}

	sse := datastar.NewSSE(w, r)

	jsonData, err := json.Marshal(map[string]any{
		"bookingsByProduct": report.BookingsByProduct,
	})
	if err != nil {
		h.logger.Error("marshal product mix", "error", err)
		return
	}
	sse.PatchSignals(jsonData)
	sse.PatchElements(`<div id="products-content">Bookings by product loaded</div>`)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandleRefreshAll(w http.ResponseWriter, r *http.Request) {
	report, ok := h.report(w, r)
	if !ok {
		return
	}

	sse := datastar.NewSSE(w, r)

	rows := services.TableView(report.TableRows, parseTableFilter(r))
	html, err := h.renderSummaryTable(rows)
	if err != nil {
		h.logger.Error("render summary table", "error", err)
		return
	}
	sse.PatchElements(html)

	allSignals, err := json.Marshal(map[string]any{
		"bookingsMonthly":   report.BookingsMonthly,
		"billingsMonthly":   report.BillingsMonthly,
		"backlogByRegion":   report.BacklogByRegion,
		"bookingsByProduct": report.BookingsByProduct,
		"summary":           services.Summarize(rows),
	})
	if err != nil {
		h.logger.Error("marshal refresh signals", "error", err)
		return
	}
	sse.PatchSignals(allSignals)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
