package web

import (
	"errors"
	"net/http"
	"strconv"

	"medequip-admin/internal/api"
	"medequip-admin/internal/core"
	"medequip-admin/web/templates/layouts"
)

type invoicesPageData struct {
	layouts.AppLayoutData
	Query    listQuery
	Tab      string
	Tabs     []string
	Invoices []core.Invoice
	// PaymentStatuses are the choices of the edit dialog.
	PaymentStatuses []core.PaymentStatus
	Stats           core.InvoiceStats
	Pager           Pager
	Form            formState
	Items           []invoiceItemRow
	Options         formOptions
	Payment         *paymentDialog
	Return          string
	LoadError       string
}

// invoiceItemRow is one line of the create dialog.
type invoiceItemRow struct {
	ItemType    string
	ReferenceID string
	Quantity    string
	Price       string
	Error       string
}

// paymentDialog is the "record payment" dialog for one invoice.
type paymentDialog struct {
	Invoice *core.Invoice
	Amount  string
	Error   string
}

// blankItemRows is how many empty line rows a new invoice dialog shows.
const blankItemRows = 3

// invoicesPage handles GET /invoices. The status tab filters the loaded
// page locally; ?pay={id} opens the payment dialog.
func (h *Handler) invoicesPage(w http.ResponseWriter, r *http.Request) {
	var form formState
	var pay *paymentDialog
	q := r.URL.Query()
	switch {
	case q.Get("edit") != "":
		inv, err := h.svc.GetInvoice(r.Context(), q.Get("edit"))
		if err != nil {
			h.actionFailed(w, r, "/invoices", err, "Failed to load invoice")
			return
		}
		form = newForm(inv.ID, invoiceValues(inv))
	case q.Get("pay") != "":
		inv, err := h.svc.GetInvoice(r.Context(), q.Get("pay"))
		if err != nil {
			h.actionFailed(w, r, "/invoices", err, "Failed to load invoice")
			return
		}
		pay = &paymentDialog{Invoice: inv}
	case q.Get("new") != "":
		form = newForm("", map[string]string{"invoiceDate": core.NewDate(h.now()).String()})
	}
	h.renderInvoices(w, r, http.StatusOK, form, pay)
}

func (h *Handler) renderInvoices(w http.ResponseWriter, r *http.Request, status int, form formState, pay *paymentDialog) {
	lq := parseListQuery(r)
	tab := lq.Status
	if tab == "" {
		tab = core.TabAll
	}
	d := invoicesPageData{
		AppLayoutData:   h.buildAppLayoutData(r, "Invoices", "invoices"),
		Query:           lq,
		Tab:             tab,
		Tabs:            []string{core.TabAll, core.TabPaid, core.TabPending, core.TabPartial},
		PaymentStatuses: []core.PaymentStatus{core.PaymentUnpaid, core.PaymentPartial, core.PaymentPaid},
		Form:            form,
		Payment:         pay,
		Return:          returnURL("/invoices", lq),
	}
	res, err := h.svc.ListInvoices(r.Context(), lq.options(), tab)
	if err != nil {
		if h.sessionEnded(w, r, err) {
			return
		}
		d.LoadError = userMessage(err, "Failed to fetch invoices")
		d.Invoices = []core.Invoice{}
	} else {
		d.Invoices = res.Visible
		d.Stats = res.Stats
		d.Pager = buildPager("/invoices", lq, res.Pagination)
	}
	if form.Open && !form.Editing() {
		d.Options = h.loadFormOptions(r.Context(), true)
		d.Items = itemRows(r, form.Errors)
	}
	h.render(w, r, status, "invoices.html", d)
}

func (h *Handler) invoiceCreate(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	f := newFormReader(r)
	in := parseInvoiceForm(f)
	h.run(w, r, mutation{
		back:     "/invoices",
		parseErr: f.err(),
		do: func() error {
			_, err := h.svc.CreateInvoice(r.Context(), in)
			if errors.Is(err, core.ErrNoInvoiceItems) {
				return core.ValidationErrors{"items": err.Error()}
			}
			return err
		},
		rerender: func(errs core.ValidationErrors) {
			form := newForm("", formValues(r))
			form.Errors = errs
			h.renderInvoices(w, r, http.StatusUnprocessableEntity, form, nil)
		},
		success: "Invoice created",
		failure: "Failed to create invoice",
	})
}

// invoiceUpdate handles POST /invoices/{id}: status, due date and paid amount.
func (h *Handler) invoiceUpdate(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	id := idParam(r)
	f := newFormReader(r)
	in := parseInvoiceUpdateForm(f)
	h.run(w, r, mutation{
		back:     "/invoices",
		parseErr: f.err(),
		do: func() error {
			_, err := h.svc.UpdateInvoice(r.Context(), id, in)
			return err
		},
		rerender: func(errs core.ValidationErrors) {
			form := newForm(id, formValues(r))
			form.Errors = errs
			h.renderInvoices(w, r, http.StatusUnprocessableEntity, form, nil)
		},
		success: "Invoice updated",
		failure: "Failed to update invoice",
	})
}

func (h *Handler) invoiceDelete(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	id := idParam(r)
	h.run(w, r, mutation{
		back:    "/invoices",
		do:      func() error { return h.svc.DeleteInvoice(r.Context(), id) },
		success: "Invoice deleted",
		failure: "Failed to delete invoice",
	})
}

// invoicePayment handles POST /invoices/{id}/payment. An invalid amount
// re-opens the dialog with an inline error and makes no update call.
func (h *Handler) invoicePayment(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	id := idParam(r)
	raw := r.PostFormValue("amount")
	target := listURL("/invoices", r)

	res, err := h.svc.ApplyPayment(r.Context(), id, raw)
	switch {
	case errors.Is(err, core.ErrInvalidPaymentAmount):
		inv, gerr := h.svc.GetInvoice(r.Context(), id)
		if gerr != nil {
			h.actionFailed(w, r, target, gerr, "Failed to load invoice")
			return
		}
		pay := &paymentDialog{Invoice: inv, Amount: raw, Error: "Enter a valid positive amount"}
		h.renderInvoices(w, r, http.StatusUnprocessableEntity, formState{}, pay)
	case err != nil:
		h.actionFailed(w, r, target, err, "Failed to update payment status")
	default:
		msg := "Payment recorded"
		if res.Update.Status == core.PaymentPaid {
			msg = "Invoice fully paid"
		}
		redirectFlash(w, r, target, "flash_success", msg)
	}
}

// invoiceMarkPaid handles POST /invoices/{id}/mark-paid.
func (h *Handler) invoiceMarkPaid(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	id := idParam(r)
	h.run(w, r, mutation{
		back: "/invoices",
		do: func() error {
			_, err := h.svc.MarkInvoicePaid(r.Context(), id)
			return err
		},
		success: "Invoice marked as paid",
		failure: "Failed to update payment status",
	})
}

// apiInvoiceStats handles GET /api/invoices/stats for the current page.
func (h *Handler) apiInvoiceStats(w http.ResponseWriter, r *http.Request) {
	lq := parseListQuery(r)
	res, err := h.svc.ListInvoices(r.Context(), lq.options(), lq.Status)
	if err != nil {
		status := http.StatusBadGateway
		code := "BACKEND_ERROR"
		if errors.Is(err, api.ErrUnauthorized) {
			h.clearSessionCookie(w)
			status, code = http.StatusUnauthorized, "UNAUTHORIZED"
		}
		writeError(w, r, userMessage(err, "Failed to fetch invoices"), code, status)
		return
	}
	type statsResponse struct {
		PaidCollected      string `json:"paidCollected"`
		PendingOutstanding string `json:"pendingOutstanding"`
		PartialCollected   string `json:"partialCollected"`
		PartialOutstanding string `json:"partialOutstanding"`
		TotalBilling       string `json:"totalBilling"`
		Collected          string `json:"collected"`
		Outstanding        string `json:"outstanding"`
		PaidCount          int    `json:"paidCount"`
		PendingCount       int    `json:"pendingCount"`
		PartialCount       int    `json:"partialCount"`
	}
	s := res.Stats
	writeJSON(w, statsResponse{
		PaidCollected:      s.PaidCollected.String(),
		PendingOutstanding: s.PendingOutstanding.String(),
		PartialCollected:   s.PartialCollected.String(),
		PartialOutstanding: s.PartialOutstanding.String(),
		TotalBilling:       s.TotalBilling.String(),
		Collected:          s.Collected().String(),
		Outstanding:        s.Outstanding().String(),
		PaidCount:          s.PaidCount,
		PendingCount:       s.PendingCount,
		PartialCount:       s.PartialCount,
	})
}

// itemRows rebuilds the line rows of a submitted create form, or blank rows
// for a fresh dialog.
func itemRows(r *http.Request, errs core.ValidationErrors) []invoiceItemRow {
	form := r.PostForm
	refs := form["item_ref"]
	var rows []invoiceItemRow
	n := 0
	for i := range refs {
		row := invoiceItemRow{
			ItemType:    at(form["item_type"], i),
			ReferenceID: refs[i],
			Quantity:    at(form["item_qty"], i),
			Price:       at(form["item_price"], i),
		}
		if row.ReferenceID != "" {
			key := "items[" + strconv.Itoa(n) + "]"
			for _, field := range []string{"itemType", "referenceId", "quantity", "price"} {
				if msg := errs.Field(key + "." + field); msg != "" {
					row.Error = field + " " + msg
					break
				}
			}
			n++
		}
		rows = append(rows, row)
	}
	for len(rows) < blankItemRows {
		rows = append(rows, invoiceItemRow{ItemType: string(core.ItemMachine), Quantity: "1"})
	}
	return rows
}

func invoiceValues(inv *core.Invoice) map[string]string {
	return map[string]string{
		"invoiceNumber": inv.InvoiceNumber,
		"paymentStatus": string(inv.PaymentStatus),
		"dueDate":       inv.DueDate.String(),
		"paidAmount":    inv.PaidAmount.String(),
		"totalAmount":   inv.TotalAmount.String(),
	}
}
