package web

import (
	"net/http"

	"medequip-admin/internal/app"
	"medequip-admin/internal/core"
	"medequip-admin/web/templates/layouts"
)

type amcsPageData struct {
	layouts.AppLayoutData
	Query     listQuery
	AMCs      []core.AMC
	Overview  app.AMCOverviewResult
	Pager     Pager
	Form      formState
	Options   formOptions
	Return    string
	LoadError string
	Statuses  []core.AMCStatus
}

// amcsPage handles GET /amcs.
func (h *Handler) amcsPage(w http.ResponseWriter, r *http.Request) {
	var form formState
	q := r.URL.Query()
	switch {
	case q.Get("edit") != "":
		a, err := h.svc.GetAMC(r.Context(), q.Get("edit"))
		if err != nil {
			h.actionFailed(w, r, "/amcs", err, "Failed to load AMC")
			return
		}
		form = newForm(a.ID, amcValues(a))
	case q.Get("new") != "":
		start, end, renewal := core.AMCDefaults(h.now())
		form = newForm("", map[string]string{
			"startDate":   start.String(),
			"endDate":     end.String(),
			"renewalDate": renewal.String(),
			"status":      string(core.AMCActive),
		})
	}
	h.renderAMCs(w, r, http.StatusOK, form)
}

func (h *Handler) renderAMCs(w http.ResponseWriter, r *http.Request, status int, form formState) {
	lq := parseListQuery(r)
	d := amcsPageData{
		AppLayoutData: h.buildAppLayoutData(r, "AMC Contracts", "amcs"),
		Query:         lq,
		Form:          form,
		Return:        returnURL("/amcs", lq),
		Statuses:      []core.AMCStatus{core.AMCActive, core.AMCExpired, core.AMCRenewed, core.AMCCancelled},
	}
	opts := lq.options()
	opts.CustomerID = r.URL.Query().Get("customerId")
	res, err := h.svc.ListAMCs(r.Context(), opts)
	if err != nil {
		if h.sessionEnded(w, r, err) {
			return
		}
		d.LoadError = userMessage(err, "Failed to fetch AMCs")
		d.AMCs = []core.AMC{}
		d.Pager = buildPager("/amcs", lq, core.EmptyPagination())
	} else {
		d.AMCs = res.Items
		d.Pager = buildPager("/amcs", lq, res.Pagination)
	}
	if ov, err := h.svc.AMCOverview(r.Context()); err == nil {
		d.Overview = *ov
	}
	if form.Open {
		d.Options = h.loadFormOptions(r.Context(), false)
	}
	h.render(w, r, status, "amcs.html", d)
}

func (h *Handler) amcCreate(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	f := newFormReader(r)
	in := parseAMCForm(f)
	h.run(w, r, mutation{
		back:     "/amcs",
		parseErr: f.err(),
		do: func() error {
			_, err := h.svc.CreateAMC(r.Context(), in)
			return err
		},
		rerender: h.amcRerender(w, r, ""),
		success:  "AMC created",
		failure:  "Failed to create AMC",
	})
}

func (h *Handler) amcUpdate(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	id := idParam(r)
	f := newFormReader(r)
	in := parseAMCForm(f)
	h.run(w, r, mutation{
		back:     "/amcs",
		parseErr: f.err(),
		do: func() error {
			_, err := h.svc.UpdateAMC(r.Context(), id, in)
			return err
		},
		rerender: h.amcRerender(w, r, id),
		success:  "AMC updated",
		failure:  "Failed to update AMC",
	})
}

func (h *Handler) amcDelete(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	id := idParam(r)
	h.run(w, r, mutation{
		back:    "/amcs",
		do:      func() error { return h.svc.DeleteAMC(r.Context(), id) },
		success: "AMC deleted",
		failure: "Failed to delete AMC",
	})
}

// amcRemind handles POST /amcs/{id}/remind. The backend refuses when the
// customer has no e-mail address; that message is shown as the flash.
func (h *Handler) amcRemind(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	id := idParam(r)
	h.run(w, r, mutation{
		back:    "/amcs",
		do:      func() error { return h.svc.SendRenewalReminder(r.Context(), id) },
		success: "Renewal reminder sent",
		failure: "Failed to send reminder",
	})
}

func (h *Handler) amcRerender(w http.ResponseWriter, r *http.Request, id string) func(core.ValidationErrors) {
	return func(errs core.ValidationErrors) {
		form := newForm(id, formValues(r))
		form.Errors = errs
		h.renderAMCs(w, r, http.StatusUnprocessableEntity, form)
	}
}

func amcValues(a *core.AMC) map[string]string {
	return map[string]string{
		"contractNumber": a.ContractNumber,
		"customerId":     a.CustomerID,
		"machineId":      a.MachineID,
		"startDate":      a.StartDate.String(),
		"endDate":        a.EndDate.String(),
		"renewalDate":    a.RenewalDate.String(),
		"contractValue":  a.ContractValue.String(),
		"notes":          a.Notes,
		"status":         string(a.Status),
	}
}
