package web

import (
	"fmt"
	"net/http"

	"medequip-admin/internal/app"
	"medequip-admin/internal/core"
	"medequip-admin/internal/export"
	"medequip-admin/web/templates/layouts"
)

type reportsPageData struct {
	layouts.AppLayoutData
	Period    periodFilter
	Report    *app.ReportResult
	Shares    []core.Bar
	ExportURL string
	LoadError string
}

// reportsPage handles GET /reports. The three report calls succeed or fail
// together; on failure the page shows the error and no partial data.
func (h *Handler) reportsPage(w http.ResponseWriter, r *http.Request) {
	rng, pf := h.parsePeriod(r)
	d := reportsPageData{
		AppLayoutData: h.buildAppLayoutData(r, "Reports", "reports"),
		Period:        pf,
		ExportURL:     "/reports/export.xlsx?" + r.URL.RawQuery,
	}
	res, err := h.svc.Report(r.Context(), rng)
	if err != nil {
		if h.sessionEnded(w, r, err) {
			return
		}
		d.LoadError = userMessage(err, "Failed to fetch reports")
	} else {
		d.Report = res
		d.Shares = reportShares(res)
	}
	h.render(w, r, http.StatusOK, "reports.html", d)
}

// reportsExport handles GET /reports/export.xlsx for the same period filter.
func (h *Handler) reportsExport(w http.ResponseWriter, r *http.Request) {
	rng, _ := h.parsePeriod(r)
	res, err := h.svc.Report(r.Context(), rng)
	if err != nil {
		h.actionFailed(w, r, "/reports", err, "Failed to fetch reports")
		return
	}
	buf, err := export.ReportWorkbook(res)
	if err != nil {
		requestLog(r).Error().
			Err(err).
			Msg("report export failed")
		http.Error(w, "Export failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(res)))
	_, _ = buf.WriteTo(w)
}

// reportShares is the category split shown beside the revenue bars.
func reportShares(res *app.ReportResult) []core.Bar {
	return []core.Bar{
		{Name: "Machine Sales", Color: core.ColorRevenue, Percent: res.MachinesShare},
		{Name: "Services", Color: core.ColorProfit, Percent: res.ServicesShare},
	}
}
