package web

import (
	"net/http"

	"medequip-admin/internal/app"
	"medequip-admin/internal/core"
	"medequip-admin/web/templates/layouts"
)

// periodFilter is the preset/custom range picker shared by the dashboard
// and the reports page.
type periodFilter struct {
	Preset  string
	Start   string
	End     string
	Presets []presetOption
	Error   string
}

type presetOption struct {
	Value string
	Label string
}

var presetOptions = []presetOption{
	{core.PresetThisMonth, "This month"},
	{core.PresetLastMonth, "Last month"},
	{core.PresetThisYear, "This year"},
	{core.PresetCustom, "Custom range"},
}

// parsePeriod resolves the preset, start and end query parameters. An invalid
// custom range falls back to this month and reports why.
func (h *Handler) parsePeriod(r *http.Request) (core.DateRange, periodFilter) {
	q := r.URL.Query()
	pf := periodFilter{
		Preset:  q.Get("preset"),
		Start:   q.Get("start"),
		End:     q.Get("end"),
		Presets: presetOptions,
	}
	if pf.Preset == "" {
		pf.Preset = core.PresetThisMonth
	}
	rng, err := core.RangeFor(pf.Preset, h.now(), pf.Start, pf.End)
	if err != nil {
		pf.Error = err.Error()
		pf.Preset = core.PresetThisMonth
		rng, _ = core.RangeFor(core.PresetThisMonth, h.now(), "", "")
	}
	if pf.Preset != core.PresetCustom {
		pf.Start, pf.End = rng.Start, rng.End
	}
	return rng, pf
}

type dashboardPageData struct {
	layouts.AppLayoutData
	Period    periodFilter
	Dash      *app.DashboardResult
	LoadError string
}

// dashboardPage handles GET /. Stats are required; every other widget
// renders empty when its call fails.
func (h *Handler) dashboardPage(w http.ResponseWriter, r *http.Request) {
	rng, pf := h.parsePeriod(r)
	d := dashboardPageData{
		AppLayoutData: h.buildAppLayoutData(r, "Dashboard", "dashboard"),
		Period:        pf,
	}
	res, err := h.svc.Dashboard(r.Context(), rng)
	if err != nil {
		if h.sessionEnded(w, r, err) {
			return
		}
		d.LoadError = userMessage(err, "Failed to load dashboard")
	} else {
		d.Dash = res
	}
	h.render(w, r, http.StatusOK, "dashboard.html", d)
}
