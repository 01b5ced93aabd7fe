package core

import "strings"

// Filter returns the items for which any of fields(item) contains query,
// ignoring case. A blank query returns items unchanged.
func Filter[T any](items []T, query string, fields func(T) []string) []T {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return items
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		for _, f := range fields(it) {
			if f != "" && strings.Contains(strings.ToLower(f), q) {
				out = append(out, it)
				break
			}
		}
	}
	return out
}

// Where returns the items matching keep.
func Where[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

func CustomerSearchFields(c Customer) []string {
	return []string{c.Name, c.HospitalOrLabName, c.Email, c.Phone}
}

func MachineSearchFields(m Machine) []string {
	return []string{m.Name, m.Model, m.SerialNumber}
}

func ServiceSearchFields(s Service) []string {
	return []string{s.CustomerName(), s.MachineName(), string(s.ServiceType)}
}

// InvoiceSearchFields matches the invoice number, customer name and the name
// of any line item.
func InvoiceSearchFields(inv Invoice) []string {
	fields := []string{inv.InvoiceNumber, inv.CustomerName()}
	for _, it := range inv.Items {
		if it.Details != nil {
			fields = append(fields, it.Details.Name)
		}
	}
	return fields
}

func AMCSearchFields(a AMC) []string {
	return []string{a.ContractNumber, a.CustomerName(), a.MachineName()}
}

// Invoice tabs. TabPending selects unpaid invoices.
const (
	TabAll     = "all"
	TabPaid    = "paid"
	TabPending = "pending"
	TabPartial = "partial"
)

// MatchesInvoiceTab reports whether inv belongs on the given tab. Unknown
// tabs behave like TabAll.
func MatchesInvoiceTab(inv Invoice, tab string) bool {
	switch tab {
	case TabPaid:
		return inv.PaymentStatus == PaymentPaid
	case TabPending:
		return inv.PaymentStatus == PaymentUnpaid
	case TabPartial:
		return inv.PaymentStatus == PaymentPartial
	default:
		return true
	}
}
