package core

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrInvalidPaymentAmount is returned when a payment is not a positive number.
	ErrInvalidPaymentAmount = errors.New("enter a valid positive amount")

	// ErrNoInvoiceItems is returned when an invoice would be created without lines.
	ErrNoInvoiceItems = errors.New("invoice must have at least one item")
)

// ValidationErrors maps form field names to a human readable problem.
// It is returned before any network call is made.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, v[f]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Field returns the message for field, or "".
func (v ValidationErrors) Field(name string) string {
	return v[name]
}

// AsValidationErrors extracts ValidationErrors from err.
func AsValidationErrors(err error) (ValidationErrors, bool) {
	var v ValidationErrors
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
