package web

import (
	"net/http"
	"strconv"

	"medequip-admin/internal/core"
	"medequip-admin/web/templates/layouts"
)

type inventoryPageData struct {
	layouts.AppLayoutData
	Query     listQuery
	Machines  []core.Machine
	Summary   core.InventorySummary
	Pager     Pager
	Form      formState
	Return    string
	LoadError string
	Statuses  []core.MachineStatus
}

// inventoryPage handles GET /inventory.
func (h *Handler) inventoryPage(w http.ResponseWriter, r *http.Request) {
	var form formState
	q := r.URL.Query()
	switch {
	case q.Get("edit") != "":
		m, err := h.svc.GetMachine(r.Context(), q.Get("edit"))
		if err != nil {
			h.actionFailed(w, r, "/inventory", err, "Failed to load machine")
			return
		}
		form = newForm(m.ID, machineValues(m))
	case q.Get("new") != "":
		form = newForm("", map[string]string{"status": string(core.MachineAvailable), "stockQuantity": "1"})
	}
	h.renderInventory(w, r, http.StatusOK, form)
}

func (h *Handler) renderInventory(w http.ResponseWriter, r *http.Request, status int, form formState) {
	lq := parseListQuery(r)
	d := inventoryPageData{
		AppLayoutData: h.buildAppLayoutData(r, "Inventory", "inventory"),
		Query:         lq,
		Form:          form,
		Return:        returnURL("/inventory", lq),
		Statuses:      []core.MachineStatus{core.MachineAvailable, core.MachineSold},
	}
	res, err := h.svc.ListMachines(r.Context(), lq.options())
	if err != nil {
		if h.sessionEnded(w, r, err) {
			return
		}
		d.LoadError = userMessage(err, "Failed to fetch machines")
		d.Machines = []core.Machine{}
	} else {
		d.Machines = res.Items
		d.Summary = res.Summary
		d.Pager = buildPager("/inventory", lq, res.Pagination)
	}
	h.render(w, r, status, "inventory.html", d)
}

func (h *Handler) machineCreate(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	f := newFormReader(r)
	in := parseMachineForm(f)
	h.run(w, r, mutation{
		back:     "/inventory",
		parseErr: f.err(),
		do: func() error {
			_, err := h.svc.CreateMachine(r.Context(), in)
			return err
		},
		rerender: h.machineRerender(w, r, ""),
		success:  "Machine added",
		failure:  "Failed to create machine",
	})
}

func (h *Handler) machineUpdate(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	id := idParam(r)
	f := newFormReader(r)
	in := parseMachineForm(f)
	h.run(w, r, mutation{
		back:     "/inventory",
		parseErr: f.err(),
		do: func() error {
			_, err := h.svc.UpdateMachine(r.Context(), id, in)
			return err
		},
		rerender: h.machineRerender(w, r, id),
		success:  "Machine updated",
		failure:  "Failed to update machine",
	})
}

func (h *Handler) machineDelete(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	id := idParam(r)
	h.run(w, r, mutation{
		back:    "/inventory",
		do:      func() error { return h.svc.DeleteMachine(r.Context(), id) },
		success: "Machine deleted",
		failure: "Failed to delete machine",
	})
}

// machineStock handles POST /inventory/{id}/stock.
func (h *Handler) machineStock(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	id := idParam(r)
	f := newFormReader(r)
	qty := f.whole("quantity")
	h.run(w, r, mutation{
		back:     "/inventory",
		parseErr: f.err(),
		do: func() error {
			_, err := h.svc.UpdateStock(r.Context(), id, qty)
			return err
		},
		success: "Stock updated",
		failure: "Failed to update stock",
	})
}

func (h *Handler) machineRerender(w http.ResponseWriter, r *http.Request, id string) func(core.ValidationErrors) {
	return func(errs core.ValidationErrors) {
		form := newForm(id, formValues(r))
		form.Errors = errs
		h.renderInventory(w, r, http.StatusUnprocessableEntity, form)
	}
}

func machineValues(m *core.Machine) map[string]string {
	return map[string]string{
		"name":          m.Name,
		"model":         m.Model,
		"serialNumber":  m.SerialNumber,
		"purchasePrice": m.PurchasePrice.String(),
		"sellingPrice":  m.SellingPrice.String(),
		"stockQuantity": strconv.Itoa(m.StockQuantity),
		"status":        string(m.Status),
	}
}
