package web

import (
	"context"
	"net/http"

	"golang.org/x/sync/errgroup"

	"medequip-admin/internal/core"
	"medequip-admin/web/templates/layouts"
)

// optionsLimit is the page size used to fill customer and machine dropdowns.
const optionsLimit = 100

// formOptions are the choices offered by dialogs that reference other records.
type formOptions struct {
	Customers []core.Customer
	Machines  []core.Machine
	Services  []core.Service
}

// loadFormOptions fetches dropdown choices. Failures leave a list empty;
// the dialog still opens.
func (h *Handler) loadFormOptions(ctx context.Context, withServices bool) formOptions {
	var opts formOptions
	var g errgroup.Group
	page := core.ListOptions{Page: 1, Limit: optionsLimit}
	g.Go(func() error {
		if res, err := h.svc.ListCustomers(ctx, page); err == nil {
			opts.Customers = res.Items
		}
		return nil
	})
	g.Go(func() error {
		if res, err := h.svc.ListMachines(ctx, page); err == nil {
			opts.Machines = res.Items
		}
		return nil
	})
	if withServices {
		g.Go(func() error {
			if res, err := h.svc.ListServices(ctx, page); err == nil {
				opts.Services = res.Items
			}
			return nil
		})
	}
	_ = g.Wait()
	return opts
}

type servicesPageData struct {
	layouts.AppLayoutData
	Query     listQuery
	Services  []core.Service
	Pager     Pager
	Form      formState
	Options   formOptions
	Return    string
	LoadError string
	Types     []core.ServiceType
	Statuses  []core.ServiceStatus
}

// servicesPage handles GET /services.
func (h *Handler) servicesPage(w http.ResponseWriter, r *http.Request) {
	var form formState
	q := r.URL.Query()
	switch {
	case q.Get("edit") != "":
		s, err := h.svc.GetService(r.Context(), q.Get("edit"))
		if err != nil {
			h.actionFailed(w, r, "/services", err, "Failed to load service")
			return
		}
		form = newForm(s.ID, serviceValues(s))
	case q.Get("new") != "":
		form = newForm("", map[string]string{
			"serviceType": string(core.ServiceMaintenance),
			"status":      string(core.ServicePending),
			"serviceDate": core.NewDate(h.now()).String(),
		})
	}
	h.renderServices(w, r, http.StatusOK, form)
}

func (h *Handler) renderServices(w http.ResponseWriter, r *http.Request, status int, form formState) {
	lq := parseListQuery(r)
	d := servicesPageData{
		AppLayoutData: h.buildAppLayoutData(r, "Services", "services"),
		Query:         lq,
		Form:          form,
		Return:        returnURL("/services", lq),
		Types:         []core.ServiceType{core.ServiceMaintenance, core.ServiceRepair, core.ServiceInstallation},
		Statuses:      []core.ServiceStatus{core.ServicePending, core.ServiceInProgress, core.ServiceCompleted},
	}
	res, err := h.svc.ListServices(r.Context(), lq.options())
	if err != nil {
		if h.sessionEnded(w, r, err) {
			return
		}
		d.LoadError = userMessage(err, "Failed to fetch services")
		d.Services = []core.Service{}
	} else {
		d.Services = res.Items
		d.Pager = buildPager("/services", lq, res.Pagination)
	}
	if form.Open {
		d.Options = h.loadFormOptions(r.Context(), false)
	}
	h.render(w, r, status, "services.html", d)
}

func (h *Handler) serviceCreate(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	f := newFormReader(r)
	in := parseServiceForm(f)
	h.run(w, r, mutation{
		back:     "/services",
		parseErr: f.err(),
		do: func() error {
			_, err := h.svc.CreateService(r.Context(), in)
			return err
		},
		rerender: h.serviceRerender(w, r, ""),
		success:  "Service scheduled",
		failure:  "Failed to create service",
	})
}

func (h *Handler) serviceUpdate(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	id := idParam(r)
	f := newFormReader(r)
	in := parseServiceForm(f)
	h.run(w, r, mutation{
		back:     "/services",
		parseErr: f.err(),
		do: func() error {
			_, err := h.svc.UpdateService(r.Context(), id, in)
			return err
		},
		rerender: h.serviceRerender(w, r, id),
		success:  "Service updated",
		failure:  "Failed to update service",
	})
}

func (h *Handler) serviceDelete(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	id := idParam(r)
	h.run(w, r, mutation{
		back:    "/services",
		do:      func() error { return h.svc.DeleteService(r.Context(), id) },
		success: "Service deleted",
		failure: "Failed to delete service",
	})
}

func (h *Handler) serviceRerender(w http.ResponseWriter, r *http.Request, id string) func(core.ValidationErrors) {
	return func(errs core.ValidationErrors) {
		form := newForm(id, formValues(r))
		form.Errors = errs
		h.renderServices(w, r, http.StatusUnprocessableEntity, form)
	}
}

func serviceValues(s *core.Service) map[string]string {
	return map[string]string{
		"customerId":  s.CustomerID,
		"machineId":   s.MachineID,
		"serviceType": string(s.ServiceType),
		"description": s.Description,
		"status":      string(s.Status),
		"serviceDate": s.ServiceDate.String(),
		"cost":        s.Cost.String(),
	}
}
