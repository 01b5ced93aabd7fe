package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"medequip-admin/internal/api"
	"medequip-admin/internal/app"
	"medequip-admin/internal/core"
)

// fakeBackend answers "METHOD /path" routes with canned JSON and records calls.
type fakeBackend struct {
	mu     sync.Mutex
	routes map[string]func(w http.ResponseWriter, r *http.Request)
	calls  []string
	bodies map[string]map[string]any
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		routes: map[string]func(http.ResponseWriter, *http.Request){},
		bodies: map[string]map[string]any{},
	}
}

func (f *fakeBackend) on(route string, status int, body any) {
	f.routes[route] = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	route := r.Method + " " + r.URL.Path
	f.mu.Lock()
	f.calls = append(f.calls, route)
	if r.Body != nil {
		var b map[string]any
		if json.NewDecoder(r.Body).Decode(&b) == nil {
			f.bodies[route] = b
		}
	}
	h, ok := f.routes[route]
	f.mu.Unlock()
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"no route"}`))
		return
	}
	h(w, r)
}

func (f *fakeBackend) called(route string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c == route {
			return true
		}
	}
	return false
}

func (f *fakeBackend) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func newService(t *testing.T, f *fakeBackend) app.ApplicationService {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return app.NewAppService(api.NewClient(srv.URL, 5*time.Second))
}

func data(v any) map[string]any { return map[string]any{"success": true, "data": v} }

func TestApplyPayment_ClampsToPaid(t *testing.T) {
	f := newFakeBackend()
	f.on("GET /invoices/i1", 200, data(map[string]any{
		"id": "i1", "paymentStatus": "partial", "totalAmount": 1000, "paidAmount": 400,
	}))
	f.on("PATCH /invoices/i1/payment-status", 200, data(map[string]any{
		"id": "i1", "paymentStatus": "paid", "totalAmount": 1000, "paidAmount": 1000,
	}))
	svc := newService(t, f)

	res, err := svc.ApplyPayment(context.Background(), "i1", "700")
	if err != nil {
		t.Fatalf("ApplyPayment: %v", err)
	}
	if res.Update.Status != core.PaymentPaid || !res.Update.PaidAmount.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("update = %+v", res.Update)
	}
	body := f.bodies["PATCH /invoices/i1/payment-status"]
	if body["paymentStatus"] != "paid" {
		t.Errorf("patch body = %v", body)
	}
}

func TestApplyPayment_InvalidAmountMakesNoCall(t *testing.T) {
	for _, raw := range []string{"", "abc", "0", "-5"} {
		f := newFakeBackend()
		svc := newService(t, f)
		_, err := svc.ApplyPayment(context.Background(), "i1", raw)
		if !errors.Is(err, core.ErrInvalidPaymentAmount) {
			t.Errorf("ApplyPayment(%q) err = %v, want ErrInvalidPaymentAmount", raw, err)
		}
		if n := f.callCount(); n != 0 {
			t.Errorf("ApplyPayment(%q) made %d backend calls", raw, n)
		}
	}
}

func TestCreateInvoice_NoItemsMakesNoCall(t *testing.T) {
	f := newFakeBackend()
	svc := newService(t, f)
	_, err := svc.CreateInvoice(context.Background(), core.InvoiceInput{
		CustomerID:  "c1",
		InvoiceDate: core.NewDate(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)),
	})
	if !errors.Is(err, core.ErrNoInvoiceItems) {
		t.Fatalf("err = %v, want ErrNoInvoiceItems", err)
	}
	if f.callCount() != 0 {
		t.Error("backend was called")
	}
}

func TestCreateCustomer_ValidationErrors(t *testing.T) {
	f := newFakeBackend()
	svc := newService(t, f)
	_, err := svc.CreateCustomer(context.Background(), core.CustomerInput{Email: "not-an-email"})
	verrs, ok := core.AsValidationErrors(err)
	if !ok {
		t.Fatalf("err = %v, want ValidationErrors", err)
	}
	if verrs.Field("name") == "" || verrs.Field("email") == "" {
		t.Errorf("errors = %v", verrs)
	}
	if f.callCount() != 0 {
		t.Error("backend was called")
	}
}

func TestListInvoices_StatsAndTabs(t *testing.T) {
	f := newFakeBackend()
	f.on("GET /invoices", 200, map[string]any{
		"success": true,
		"data": []map[string]any{
			{"id": "1", "invoiceNumber": "INV-1", "paymentStatus": "paid", "totalAmount": 100, "paidAmount": 0},
			{"id": "2", "invoiceNumber": "INV-2", "paymentStatus": "unpaid", "totalAmount": 50, "paidAmount": 0},
			{"id": "3", "invoiceNumber": "INV-3", "paymentStatus": "partial", "totalAmount": 80, "paidAmount": 30},
		},
		"pagination": map[string]any{"page": 1, "limit": 10, "total": 3, "totalPages": 1},
	})
	svc := newService(t, f)

	res, err := svc.ListInvoices(context.Background(), core.ListOptions{}, core.TabPending)
	if err != nil {
		t.Fatalf("ListInvoices: %v", err)
	}
	if len(res.Items) != 3 {
		t.Errorf("items = %d, want 3", len(res.Items))
	}
	if len(res.Visible) != 1 || res.Visible[0].ID != "2" {
		t.Errorf("visible = %+v, want only the unpaid invoice", res.Visible)
	}
	if !res.Stats.TotalBilling.Equal(decimal.NewFromInt(230)) {
		t.Errorf("total billing = %s", res.Stats.TotalBilling)
	}
	if !res.Stats.Collected().Equal(decimal.NewFromInt(130)) {
		t.Errorf("collected = %s", res.Stats.Collected())
	}
}

func TestReport_AnyFailureFailsBatch(t *testing.T) {
	f := newFakeBackend()
	f.on("GET /reports/summary", 200, data(map[string]any{"totalRevenue": 100}))
	f.on("GET /reports/upcoming-services", 200, data([]any{}))
	f.on("GET /reports/overdue-invoices", 500, map[string]any{"message": "boom"})
	svc := newService(t, f)

	_, err := svc.Report(context.Background(), core.DateRange{Start: "2024-01-01", End: "2024-01-31"})
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *api.APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "boom" {
		t.Errorf("err = %v", err)
	}
}

func TestReport_Shares(t *testing.T) {
	f := newFakeBackend()
	f.on("GET /reports/summary", 200, data(map[string]any{
		"totalRevenue":      1000,
		"profit":            250,
		"revenueByCategory": map[string]any{"machines": 750, "services": 250},
	}))
	f.on("GET /reports/upcoming-services", 200, data([]any{}))
	f.on("GET /reports/overdue-invoices", 200, data([]any{}))
	svc := newService(t, f)

	res, err := svc.Report(context.Background(), core.DateRange{})
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if res.MachinesShare != 75 || res.ServicesShare != 25 {
		t.Errorf("shares = %v/%v", res.MachinesShare, res.ServicesShare)
	}
	if res.ProfitMargin != "25.0" {
		t.Errorf("margin = %q", res.ProfitMargin)
	}
}

func TestDashboard_WidgetsAreBestEffort(t *testing.T) {
	f := newFakeBackend()
	f.on("GET /dashboard/stats", 200, data(map[string]any{
		"totalCustomers": 3,
		"totalRevenue":   500,
		"monthlyRevenue": []map[string]any{{"month": "2024-01", "revenue": 500}},
	}))
	// AMC, reminders and list routes are absent and answer 404.
	svc := newService(t, f)

	res, err := svc.Dashboard(context.Background(), core.DateRange{})
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if res.Stats.TotalCustomers != 3 {
		t.Errorf("stats = %+v", res.Stats)
	}
	if len(res.Revenue) != 1 || res.Revenue[0].Label != "Jan 24" {
		t.Errorf("revenue = %+v", res.Revenue)
	}
	if len(res.AMC.Expiring) != 0 || len(res.Reminders.OverdueInvoices) != 0 {
		t.Error("failed widgets should be empty")
	}
	if f.called("GET /dashboard/revenue") {
		t.Error("revenue endpoint should not be called when stats carry a series")
	}
}

func TestDashboard_StatsFailureFails(t *testing.T) {
	f := newFakeBackend()
	f.on("GET /dashboard/stats", 401, map[string]any{"message": "Invalid token"})
	svc := newService(t, f)

	store := api.NewMemoryTokenStore("t")
	ctx := api.WithTokenStore(context.Background(), store)
	_, err := svc.Dashboard(ctx, core.DateRange{})
	if !errors.Is(err, api.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	if store.Token() != "" {
		t.Error("token not cleared")
	}
}

func TestUpdateStock_RejectsNegative(t *testing.T) {
	f := newFakeBackend()
	svc := newService(t, f)
	if _, err := svc.UpdateStock(context.Background(), "m1", -1); err == nil {
		t.Fatal("expected error")
	}
	if f.callCount() != 0 {
		t.Error("backend was called")
	}
}

func TestListMachines_SearchAndSummary(t *testing.T) {
	f := newFakeBackend()
	f.on("GET /machines", 200, map[string]any{
		"success": true,
		"data": []map[string]any{
			{"id": "1", "name": "ECG Monitor", "status": "available", "sellingPrice": 100},
			{"id": "2", "name": "Ventilator", "status": "sold", "sellingPrice": 900},
		},
	})
	svc := newService(t, f)

	res, err := svc.ListMachines(context.Background(), core.ListOptions{Search: "ecg"})
	if err != nil {
		t.Fatalf("ListMachines: %v", err)
	}
	if len(res.Items) != 1 || res.Items[0].ID != "1" {
		t.Errorf("items = %+v", res.Items)
	}
	if res.Summary.Available != 1 || res.Summary.Sold != 1 || !res.Summary.CapitalValue.Equal(decimal.NewFromInt(100)) {
		t.Errorf("summary = %+v", res.Summary)
	}
}
