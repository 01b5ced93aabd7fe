package core

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// FormatINR renders an amount the way the dashboard cards show rupees:
// lakh/crore digit grouping, no forced fraction digits, at most two.
//
//	1234567.5 → ₹12,34,567.5
func FormatINR(d decimal.Decimal) string {
	intPart, frac, neg := splitAmount(d)
	s := "₹" + groupIndian(intPart) + frac
	if neg {
		return "-" + s
	}
	return s
}

// FormatUSD renders an amount with western thousands grouping, as on the
// invoices page.
func FormatUSD(d decimal.Decimal) string {
	_, frac, neg := splitAmount(d)
	s := "$" + humanize.Comma(d.Round(2).Abs().IntPart()) + frac
	if neg {
		return "-" + s
	}
	return s
}

// splitAmount rounds to two places and returns the absolute integer digits,
// a fraction suffix without trailing zeros (".5", ".25" or ""), and the sign.
func splitAmount(d decimal.Decimal) (string, string, bool) {
	r := d.Round(2)
	neg := r.IsNegative()
	s := r.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")
	frac = strings.TrimRight(frac, "0")
	if frac != "" {
		frac = "." + frac
	}
	return intPart, frac, neg
}

// groupIndian groups the last three digits, then every two: 12,34,567.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(parts, ",") + "," + tail
}
