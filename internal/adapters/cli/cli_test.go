package cli_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"medequip-admin/internal/adapters/cli"
	"medequip-admin/internal/api"
	"medequip-admin/internal/app"
	"medequip-admin/internal/core"
)

type stubService struct {
	app.ApplicationService

	login      *app.LoginRequest
	invoiceOps []core.ListOptions
	invoiceTab string
	reportRng  core.DateRange
	reportErr  error
	reminded   string
	loggedOut  bool
}

func (s *stubService) Login(_ context.Context, req app.LoginRequest) (*core.AuthResult, error) {
	s.login = &req
	if req.Password != "secret" {
		return nil, &api.APIError{Status: 401, Message: "Invalid credentials"}
	}
	return &core.AuthResult{Token: "tok", User: core.User{Name: "Asha", Email: req.Email}}, nil
}

func (s *stubService) Logout(context.Context) { s.loggedOut = true }

func (s *stubService) ListInvoices(_ context.Context, opts core.ListOptions, tab string) (*app.InvoiceListResult, error) {
	s.invoiceOps = append(s.invoiceOps, opts)
	s.invoiceTab = tab
	return &app.InvoiceListResult{Tab: tab}, nil
}

func (s *stubService) ApplyPayment(_ context.Context, id, raw string) (*app.PaymentResult, error) {
	amount, err := core.ParsePaymentAmount(raw)
	if err != nil {
		return nil, err
	}
	inv := core.Invoice{ID: id, InvoiceNumber: "INV-9", TotalAmount: decimal.NewFromInt(500)}
	upd, err := core.ApplyPayment(inv, amount)
	if err != nil {
		return nil, err
	}
	return &app.PaymentResult{Invoice: &inv, Update: upd}, nil
}

func (s *stubService) SendRenewalReminder(_ context.Context, id string) error {
	s.reminded = id
	return nil
}

func (s *stubService) Report(_ context.Context, r core.DateRange) (*app.ReportResult, error) {
	s.reportRng = r
	if s.reportErr != nil {
		return nil, s.reportErr
	}
	return &app.ReportResult{
		Range: r,
		Summary: core.ReportSummary{
			TotalRevenue: decimal.NewFromInt(1000),
			Profit:       decimal.NewFromInt(400),
		},
		ProfitMargin: "40.0",
	}, nil
}

var fixedNow = func() time.Time { return time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC) }

func execute(t *testing.T, svc app.ApplicationService, stdin string, args ...string) (string, error) {
	t.Helper()
	root := cli.NewRootCommand(cli.Options{
		Service:  svc,
		Currency: "INR",
		In:       strings.NewReader(stdin),
		Now:      fixedNow,
	})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name    string
		stdin   string
		args    []string
		want    string
		wantErr bool
	}{
		{"password flag", "", []string{"login", "--email", "a@b.co", "--password", "secret"}, "Signed in as Asha <a@b.co>", false},
		{"password from stdin", "secret\n", []string{"login", "--email", "a@b.co"}, "Signed in as Asha", false},
		{"no password", "", []string{"login", "--email", "a@b.co"}, "", true},
		{"rejected", "", []string{"login", "--email", "a@b.co", "--password", "nope"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, &stubService{}, tt.stdin, tt.args...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, out)
			}
		})
	}
}

func TestLogin_EmailRequired(t *testing.T) {
	svc := &stubService{}
	if _, err := execute(t, svc, "", "login", "--password", "secret"); err == nil {
		t.Fatal("expected missing --email to fail")
	}
	if svc.login != nil {
		t.Error("Login must not be called without --email")
	}
}

func TestLogin_TokenNotSaved(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"token":"jwt-1","user":{"id":"u1","name":"Asha","email":"a@b.co"}}}`))
	}))
	defer srv.Close()

	blocker := filepath.Join(t.TempDir(), "plain-file")
	if err := os.WriteFile(blocker, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	client := api.NewClient(srv.URL, 5*time.Second).
		WithDefaultTokenStore(api.NewFileTokenStore(filepath.Join(blocker, "token")))

	out, err := execute(t, app.NewAppService(client), "", "login", "--email", "a@b.co", "--password", "secret")
	if err == nil {
		t.Fatal("expected login to fail when the token cannot be saved")
	}
	if strings.Contains(out, "Signed in") {
		t.Errorf("reported success:\n%s", out)
	}
}

func TestLogout(t *testing.T) {
	svc := &stubService{}
	out, err := execute(t, svc, "", "logout")
	if err != nil {
		t.Fatal(err)
	}
	if !svc.loggedOut || !strings.Contains(out, "Signed out.") {
		t.Errorf("loggedOut = %v, out = %q", svc.loggedOut, out)
	}
}

func TestInvoicesList_StatusIsTab(t *testing.T) {
	svc := &stubService{}
	if _, err := execute(t, svc, "", "invoices", "list", "--status", "Paid", "--page", "2", "--search", " city "); err != nil {
		t.Fatal(err)
	}
	if svc.invoiceTab != core.TabPaid {
		t.Errorf("tab = %q, want paid", svc.invoiceTab)
	}
	got := svc.invoiceOps[0]
	if got.Status != "" || got.Page != 2 || got.Search != "city" {
		t.Errorf("options = %+v", got)
	}
}

func TestListFlags_Validated(t *testing.T) {
	svc := &stubService{}
	for _, args := range [][]string{
		{"invoices", "list", "--page", "0"},
		{"invoices", "list", "--limit", "500"},
	} {
		if _, err := execute(t, svc, "", args...); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
	if len(svc.invoiceOps) != 0 {
		t.Errorf("backend called %d times for invalid flags", len(svc.invoiceOps))
	}
}

func TestInvoicesPay(t *testing.T) {
	out, err := execute(t, &stubService{}, "", "invoices", "pay", "inv9", "200")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Paid ₹200, outstanding ₹300") {
		t.Errorf("unexpected output:\n%s", out)
	}

	_, err = execute(t, &stubService{}, "", "invoices", "pay", "inv9", "abc")
	if !errors.Is(err, core.ErrInvalidPaymentAmount) {
		t.Errorf("err = %v, want ErrInvalidPaymentAmount", err)
	}
}

func TestAMCRemind(t *testing.T) {
	svc := &stubService{}
	out, err := execute(t, svc, "", "amcs", "remind", "amc-1")
	if err != nil {
		t.Fatal(err)
	}
	if svc.reminded != "amc-1" || !strings.Contains(out, "Renewal reminder sent.") {
		t.Errorf("reminded = %q, out = %q", svc.reminded, out)
	}
}

func TestReport_Period(t *testing.T) {
	svc := &stubService{}
	out, err := execute(t, svc, "", "report", "--preset", "last-month")
	if err != nil {
		t.Fatal(err)
	}
	want := core.DateRange{Start: "2023-12-01", End: "2023-12-31"}
	if svc.reportRng != want {
		t.Errorf("range = %+v, want %+v", svc.reportRng, want)
	}
	if !strings.Contains(out, "40.0% margin") {
		t.Errorf("unexpected output:\n%s", out)
	}

	if _, err := execute(t, svc, "", "report", "--preset", "custom", "--start", "2024-02-01", "--end", "2024-01-01"); err == nil {
		t.Error("expected reversed custom range to fail")
	}
}

func TestReport_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	out, err := execute(t, &stubService{}, "", "report", "--xlsx", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Saved "+path) {
		t.Errorf("unexpected output:\n%s", out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("PK")) {
		t.Error("workbook is not a zip archive")
	}
}

func TestReport_FailureWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	svc := &stubService{reportErr: errors.New("summary failed")}
	if _, err := execute(t, svc, "", "report", "--xlsx", path); err == nil {
		t.Fatal("expected error")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("file should not exist, stat err = %v", err)
	}
}

func TestServe(t *testing.T) {
	called := false
	root := cli.NewRootCommand(cli.Options{
		Service: &stubService{},
		Serve: func(context.Context) error {
			called = true
			return nil
		},
	})
	root.SetArgs([]string{"serve"})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	if !called {
		t.Error("Serve was not called")
	}
}

func TestExecute_ExitCode(t *testing.T) {
	svc := &stubService{reportErr: api.ErrUnauthorized}
	root := cli.NewRootCommand(cli.Options{Service: svc, Now: fixedNow})
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"report"})
	if code := cli.Execute(context.Background(), root); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}

	root = cli.NewRootCommand(cli.Options{Service: &stubService{}})
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"logout"})
	if code := cli.Execute(context.Background(), root); code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
}
