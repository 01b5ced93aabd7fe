package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// PaymentUpdate is the status transition produced by applying a payment.
type PaymentUpdate struct {
	Status     PaymentStatus
	PaidAmount decimal.Decimal
}

// ParsePaymentAmount parses user input into a strictly positive amount.
func ParsePaymentAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || !amount.IsPositive() {
		return decimal.Zero, ErrInvalidPaymentAmount
	}
	return amount, nil
}

// ApplyPayment adds amount to what has already been paid on inv. Reaching
// or exceeding the total marks the invoice paid with paidAmount clamped to
// the total; anything less leaves it partial.
func ApplyPayment(inv Invoice, amount decimal.Decimal) (PaymentUpdate, error) {
	if !amount.IsPositive() {
		return PaymentUpdate{}, ErrInvalidPaymentAmount
	}
	newPaid := inv.PaidAmount.Add(amount)
	if newPaid.GreaterThanOrEqual(inv.TotalAmount) {
		return PaymentUpdate{Status: PaymentPaid, PaidAmount: inv.TotalAmount}, nil
	}
	return PaymentUpdate{Status: PaymentPartial, PaidAmount: newPaid}, nil
}

// MarkPaid is the one-step "mark as paid" transition.
func MarkPaid(inv Invoice) PaymentUpdate {
	return PaymentUpdate{Status: PaymentPaid, PaidAmount: inv.TotalAmount}
}
