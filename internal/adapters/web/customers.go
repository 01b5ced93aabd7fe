package web

import (
	"net/http"

	"medequip-admin/internal/core"
	"medequip-admin/web/templates/layouts"
)

type customersPageData struct {
	layouts.AppLayoutData
	Query     listQuery
	Customers []core.Customer
	Pager     Pager
	Form      formState
	Return    string
	LoadError string
}

// customersPage handles GET /customers. ?new=1 opens the create dialog and
// ?edit={id} the edit dialog.
func (h *Handler) customersPage(w http.ResponseWriter, r *http.Request) {
	var form formState
	q := r.URL.Query()
	switch {
	case q.Get("edit") != "":
		c, err := h.svc.GetCustomer(r.Context(), q.Get("edit"))
		if err != nil {
			h.actionFailed(w, r, "/customers", err, "Failed to load customer")
			return
		}
		form = newForm(c.ID, customerValues(c))
	case q.Get("new") != "":
		form = newForm("", nil)
	}
	h.renderCustomers(w, r, http.StatusOK, form)
}

func (h *Handler) renderCustomers(w http.ResponseWriter, r *http.Request, status int, form formState) {
	lq := parseListQuery(r)
	d := customersPageData{
		AppLayoutData: h.buildAppLayoutData(r, "Customers", "customers"),
		Query:         lq,
		Form:          form,
		Return:        returnURL("/customers", lq),
	}
	// Search is delegated to the backend for customers.
	res, err := h.svc.ListCustomers(r.Context(), lq.options())
	if err != nil {
		if h.sessionEnded(w, r, err) {
			return
		}
		d.LoadError = userMessage(err, "Failed to fetch customers")
		d.Customers = []core.Customer{}
	} else {
		d.Customers = res.Items
		d.Pager = buildPager("/customers", lq, res.Pagination)
	}
	h.render(w, r, status, "customers.html", d)
}

func (h *Handler) customerCreate(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	f := newFormReader(r)
	in := parseCustomerForm(f)
	h.run(w, r, mutation{
		back:     "/customers",
		parseErr: f.err(),
		do: func() error {
			_, err := h.svc.CreateCustomer(r.Context(), in)
			return err
		},
		rerender: h.customerRerender(w, r, ""),
		success:  "Customer created",
		failure:  "Failed to create customer",
	})
}

func (h *Handler) customerUpdate(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	id := idParam(r)
	f := newFormReader(r)
	in := parseCustomerForm(f)
	h.run(w, r, mutation{
		back:     "/customers",
		parseErr: f.err(),
		do: func() error {
			_, err := h.svc.UpdateCustomer(r.Context(), id, in)
			return err
		},
		rerender: h.customerRerender(w, r, id),
		success:  "Customer updated",
		failure:  "Failed to update customer",
	})
}

func (h *Handler) customerDelete(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	id := idParam(r)
	h.run(w, r, mutation{
		back:    "/customers",
		do:      func() error { return h.svc.DeleteCustomer(r.Context(), id) },
		success: "Customer deleted",
		failure: "Failed to delete customer",
	})
}

func (h *Handler) customerRerender(w http.ResponseWriter, r *http.Request, id string) func(core.ValidationErrors) {
	return func(errs core.ValidationErrors) {
		form := newForm(id, formValues(r))
		form.Errors = errs
		h.renderCustomers(w, r, http.StatusUnprocessableEntity, form)
	}
}

func customerValues(c *core.Customer) map[string]string {
	return map[string]string{
		"name":              c.Name,
		"email":             c.Email,
		"phone":             c.Phone,
		"address":           c.Address,
		"hospitalOrLabName": c.HospitalOrLabName,
	}
}
