package core

import "github.com/shopspring/decimal"

// InvoiceStats buckets a list of invoices by payment status.
//
//   - paid:    the full total counts as collected, paidAmount is ignored
//   - unpaid:  the full total is pending outstanding
//   - partial: paidAmount is collected, max(0, total−paid) is outstanding
//
// TotalBilling sums every invoice whatever its status.
type InvoiceStats struct {
	PaidCollected      decimal.Decimal
	PendingOutstanding decimal.Decimal
	PartialCollected   decimal.Decimal
	PartialOutstanding decimal.Decimal
	TotalBilling       decimal.Decimal
	PaidCount          int
	PendingCount       int
	PartialCount       int
}

// ComputeInvoiceStats reduces invoices into InvoiceStats.
func ComputeInvoiceStats(invoices []Invoice) InvoiceStats {
	var s InvoiceStats
	for _, inv := range invoices {
		switch inv.PaymentStatus {
		case PaymentPaid:
			s.PaidCollected = s.PaidCollected.Add(inv.TotalAmount)
			s.PaidCount++
		case PaymentUnpaid:
			s.PendingOutstanding = s.PendingOutstanding.Add(inv.TotalAmount)
			s.PendingCount++
		case PaymentPartial:
			s.PartialCollected = s.PartialCollected.Add(inv.PaidAmount)
			s.PartialOutstanding = s.PartialOutstanding.Add(inv.Outstanding())
			s.PartialCount++
		}
		s.TotalBilling = s.TotalBilling.Add(inv.TotalAmount)
	}
	return s
}

// Collected is paid plus partial collections.
func (s InvoiceStats) Collected() decimal.Decimal {
	return s.PaidCollected.Add(s.PartialCollected)
}

// Outstanding is pending plus partial outstanding.
func (s InvoiceStats) Outstanding() decimal.Decimal {
	return s.PendingOutstanding.Add(s.PartialOutstanding)
}
