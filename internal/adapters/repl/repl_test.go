package repl_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"medequip-admin/internal/adapters/repl"
	"medequip-admin/internal/api"
	"medequip-admin/internal/app"
	"medequip-admin/internal/core"
)

// stubService answers the calls the REPL makes. Methods it does not override
// panic through the nil embedded interface.
type stubService struct {
	app.ApplicationService

	customerCalls []core.ListOptions
	invoiceTabs   []string
	customersErr  error
	payments      []string
	ranges        []core.DateRange
}

func (s *stubService) ListCustomers(_ context.Context, opts core.ListOptions) (*app.ListResult[core.Customer], error) {
	s.customerCalls = append(s.customerCalls, opts)
	if s.customersErr != nil {
		return nil, s.customersErr
	}
	return &app.ListResult[core.Customer]{
		Items: []core.Customer{{ID: fmt.Sprintf("c%d", opts.Page), Name: fmt.Sprintf("Customer page %d", opts.Page)}},
		Pagination: core.Pagination{
			Page: opts.Page, Limit: opts.Limit, Total: 25, TotalPages: 3,
		},
	}, nil
}

func (s *stubService) ListInvoices(_ context.Context, opts core.ListOptions, tab string) (*app.InvoiceListResult, error) {
	s.invoiceTabs = append(s.invoiceTabs, tab)
	inv := core.Invoice{
		ID:            "inv1",
		InvoiceNumber: "INV-001",
		PaymentStatus: core.PaymentPartial,
		TotalAmount:   decimal.NewFromInt(1000),
		PaidAmount:    decimal.NewFromInt(400),
	}
	return &app.InvoiceListResult{
		ListResult: app.ListResult[core.Invoice]{
			Items:      []core.Invoice{inv},
			Pagination: core.Pagination{Page: 1, Limit: 10, Total: 1, TotalPages: 1},
		},
		Visible: []core.Invoice{inv},
		Stats:   core.ComputeInvoiceStats([]core.Invoice{inv}),
		Tab:     tab,
	}, nil
}

func (s *stubService) ApplyPayment(_ context.Context, id, raw string) (*app.PaymentResult, error) {
	s.payments = append(s.payments, id+" "+raw)
	amount, err := core.ParsePaymentAmount(raw)
	if err != nil {
		return nil, err
	}
	inv := core.Invoice{ID: id, InvoiceNumber: "INV-001", TotalAmount: decimal.NewFromInt(1000), PaidAmount: decimal.NewFromInt(400)}
	upd, err := core.ApplyPayment(inv, amount)
	if err != nil {
		return nil, err
	}
	return &app.PaymentResult{Invoice: &inv, Update: upd}, nil
}

func (s *stubService) Dashboard(_ context.Context, r core.DateRange) (*app.DashboardResult, error) {
	s.ranges = append(s.ranges, r)
	return &app.DashboardResult{
		Range:        r,
		Stats:        core.DashboardStats{TotalCustomers: 12, TotalRevenue: decimal.NewFromInt(5000)},
		ProfitMargin: "25.0",
	}, nil
}

func run(t *testing.T, svc app.ApplicationService, input string) string {
	t.Helper()
	var out bytes.Buffer
	s := repl.NewSession(svc, strings.NewReader(input), &out, "INR")
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return out.String()
}

func TestSession_Paging(t *testing.T) {
	svc := &stubService{}
	out := run(t, svc, "use customers\nnext\nnext\nnext\nprev\npage 1\nquit\n")

	var pages []int
	for _, c := range svc.customerCalls {
		pages = append(pages, c.Page)
	}
	want := []int{1, 2, 3, 2, 1}
	if fmt.Sprint(pages) != fmt.Sprint(want) {
		t.Errorf("fetched pages = %v, want %v", pages, want)
	}
	if !strings.Contains(out, "Already on the last page.") {
		t.Errorf("expected last-page notice, got:\n%s", out)
	}
	if !strings.Contains(out, "Page 3 of 3") {
		t.Errorf("expected pagination line, got:\n%s", out)
	}
	if !strings.Contains(out, "Goodbye!") {
		t.Errorf("expected goodbye, got:\n%s", out)
	}
}

func TestSession_SearchResetsPage(t *testing.T) {
	svc := &stubService{}
	run(t, svc, "use customers\npage 2\nsearch city hospital\n")

	last := svc.customerCalls[len(svc.customerCalls)-1]
	if last.Search != "city hospital" || last.Page != 1 {
		t.Errorf("last call = %+v, want search on page 1", last)
	}
}

func TestSession_RefreshRefetchesSameParams(t *testing.T) {
	svc := &stubService{}
	run(t, svc, "use customers\nrefresh\n")
	if len(svc.customerCalls) != 2 {
		t.Errorf("calls = %d, want 2", len(svc.customerCalls))
	}
}

func TestSession_InvoiceStatusSetsTab(t *testing.T) {
	svc := &stubService{}
	out := run(t, svc, "use invoices\nstatus partial\nstats\n")

	if got := svc.invoiceTabs; len(got) != 2 || got[1] != core.TabPartial {
		t.Errorf("tabs = %v, want [\"\" partial]", got)
	}
	if !strings.Contains(out, "INVOICES (PARTIAL)") {
		t.Errorf("expected tab title, got:\n%s", out)
	}
	if !strings.Contains(out, "₹600") {
		t.Errorf("expected outstanding ₹600, got:\n%s", out)
	}
}

func TestSession_Pay(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"partial", "pay inv1 100\n", "Paid ₹500, outstanding ₹500"},
		{"full", "pay inv1 600\n", "Invoice INV-001 fully paid (₹1,000)"},
		{"invalid", "pay inv1 -5\n", "Error: " + core.ErrInvalidPaymentAmount.Error()},
		{"usage", "pay inv1\n", "Usage: pay <invoice-id> <amount>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := run(t, &stubService{}, tt.input)
			if !strings.Contains(out, tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, out)
			}
		})
	}
}

func TestSession_UnauthorizedHint(t *testing.T) {
	svc := &stubService{customersErr: fmt.Errorf("list customers: %w", api.ErrUnauthorized)}
	out := run(t, svc, "use customers\n")
	if !strings.Contains(out, "medadmin login") {
		t.Errorf("expected login hint, got:\n%s", out)
	}
}

func TestSession_Errors(t *testing.T) {
	svc := &stubService{customersErr: errors.New("db down")}
	out := run(t, svc, "next\nuse printers\nuse customers\nbogus\n")

	for _, want := range []string{
		"Pick a list first",
		"Usage: use <customers|machines|services|invoices|amcs>",
		"Error: db down",
		"Unknown command: bogus",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSession_Dashboard(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      string
		wantCalls int
	}{
		{"custom range", "dashboard custom 2024-01-01 2024-01-31\n", "DASHBOARD  2024-01-01 to 2024-01-31", 1},
		{"same range refetches", "dashboard custom 2024-01-01 2024-01-31\ndashboard custom 2024-01-01 2024-01-31\n", "25.0% margin", 2},
		{"default preset", "dashboard\n", "Customers 12", 1},
		{"unknown preset", "dashboard fortnight\n", "Usage: dashboard", 0},
		{"reversed range", "dashboard custom 2024-02-01 2024-01-01\n", "Error: end date", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{}
			out := run(t, svc, tt.input)
			if !strings.Contains(out, tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, out)
			}
			if len(svc.ranges) != tt.wantCalls {
				t.Errorf("Dashboard calls = %d, want %d", len(svc.ranges), tt.wantCalls)
			}
		})
	}
}
