package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"medequip-admin/internal/core"
)

// formReader reads typed values from a submitted form, collecting a field
// error for anything that does not parse.
type formReader struct {
	r    *http.Request
	errs core.ValidationErrors
}

func newFormReader(r *http.Request) *formReader {
	return &formReader{r: r, errs: core.ValidationErrors{}}
}

func (f *formReader) str(name string) string {
	return strings.TrimSpace(f.r.PostFormValue(name))
}

// amount parses an amount; blank is zero.
func (f *formReader) amount(name string) decimal.Decimal {
	return f.decimalAt(name, f.str(name))
}

func (f *formReader) decimalAt(key, raw string) decimal.Decimal {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if raw == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		f.errs[key] = "must be a number"
		return decimal.Zero
	}
	return d
}

// optionalDecimal is nil when the field is blank.
func (f *formReader) optionalDecimal(name string) *decimal.Decimal {
	if f.str(name) == "" {
		return nil
	}
	d := f.amount(name)
	return &d
}

// whole parses a whole number; blank is zero.
func (f *formReader) whole(name string) int {
	return f.intAt(name, f.str(name))
}

func (f *formReader) intAt(key, raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	n, err := cast.ToIntE(raw)
	if err != nil {
		f.errs[key] = "must be a whole number"
		return 0
	}
	return n
}

// date parses YYYY-MM-DD; blank is the zero Date.
func (f *formReader) date(name string) core.Date {
	d, err := core.ParseDate(f.str(name))
	if err != nil {
		f.errs[name] = "must be a date (YYYY-MM-DD)"
	}
	return d
}

func (f *formReader) optionalDate(name string) *core.Date {
	if f.str(name) == "" {
		return nil
	}
	d := f.date(name)
	return &d
}

// err returns the parse errors, or nil.
func (f *formReader) err() error {
	if len(f.errs) == 0 {
		return nil
	}
	return f.errs
}

func parseCustomerForm(f *formReader) core.CustomerInput {
	return core.CustomerInput{
		Name:              f.str("name"),
		Email:             f.str("email"),
		Phone:             f.str("phone"),
		Address:           f.str("address"),
		HospitalOrLabName: f.str("hospitalOrLabName"),
	}
}

func parseMachineForm(f *formReader) core.MachineInput {
	return core.MachineInput{
		Name:          f.str("name"),
		Model:         f.str("model"),
		SerialNumber:  f.str("serialNumber"),
		PurchasePrice: f.optionalDecimal("purchasePrice"),
		SellingPrice:  f.optionalDecimal("sellingPrice"),
		StockQuantity: f.whole("stockQuantity"),
		Status:        core.MachineStatus(f.str("status")),
	}
}

func parseServiceForm(f *formReader) core.ServiceInput {
	return core.ServiceInput{
		CustomerID:  f.str("customerId"),
		MachineID:   f.str("machineId"),
		ServiceType: core.ServiceType(f.str("serviceType")),
		Description: f.str("description"),
		Status:      core.ServiceStatus(f.str("status")),
		ServiceDate: f.date("serviceDate"),
		Cost:        f.amount("cost"),
	}
}

// parseInvoiceForm reads the parallel item_* arrays into line items. Rows
// with no reference are dropped as blank.
func parseInvoiceForm(f *formReader) core.InvoiceInput {
	in := core.InvoiceInput{
		CustomerID:  f.str("customerId"),
		InvoiceDate: f.date("invoiceDate"),
		DueDate:     f.optionalDate("dueDate"),
	}
	form := f.r.PostForm
	types, refs := form["item_type"], form["item_ref"]
	qtys, prices := form["item_qty"], form["item_price"]
	for i := range refs {
		if strings.TrimSpace(refs[i]) == "" {
			continue
		}
		n := len(in.Items)
		key := "items[" + strconv.Itoa(n) + "]"
		in.Items = append(in.Items, core.InvoiceItemInput{
			ItemType:    core.ItemType(at(types, i)),
			ReferenceID: strings.TrimSpace(refs[i]),
			Quantity:    f.intAt(key+".quantity", at(qtys, i)),
			Price:       f.decimalAt(key+".price", at(prices, i)),
		})
	}
	return in
}

func parseInvoiceUpdateForm(f *formReader) core.InvoiceUpdate {
	return core.InvoiceUpdate{
		PaymentStatus: core.PaymentStatus(f.str("paymentStatus")),
		DueDate:       f.optionalDate("dueDate"),
		PaidAmount:    f.optionalDecimal("paidAmount"),
	}
}

func parseAMCForm(f *formReader) core.AMCInput {
	return core.AMCInput{
		CustomerID:    f.str("customerId"),
		MachineID:     f.str("machineId"),
		StartDate:     f.date("startDate"),
		EndDate:       f.date("endDate"),
		ContractValue: f.amount("contractValue"),
		RenewalDate:   f.optionalDate("renewalDate"),
		Notes:         f.str("notes"),
		Status:        core.AMCStatus(f.str("status")),
	}
}

func at(s []string, i int) string {
	if i < len(s) {
		return s[i]
	}
	return ""
}
