package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"medequip-admin/internal/core"
)

// ── Auth ──────────────────────────────────────────────────────────────────────

// Login exchanges credentials for a token and stores it.
func (c *Client) Login(ctx context.Context, email, password string) (*core.AuthResult, error) {
	body := map[string]string{"email": email, "password": password}
	return c.authenticate(ctx, "/auth/login", body)
}

// Register creates an account and stores the returned token.
func (c *Client) Register(ctx context.Context, name, email, password string) (*core.AuthResult, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	return c.authenticate(ctx, "/auth/register", body)
}

func (c *Client) authenticate(ctx context.Context, endpoint string, body any) (*core.AuthResult, error) {
	var out core.AuthResult
	if err := c.Do(ctx, http.MethodPost, endpoint, body, &out); err != nil {
		return nil, err
	}
	if out.Token != "" {
		if err := c.tokenStore(ctx).SetToken(out.Token); err != nil {
			return nil, err
		}
	}
	return &out, nil
}

// Logout forgets the stored token. The backend keeps no session to end.
func (c *Client) Logout(ctx context.Context) {
	c.tokenStore(ctx).Clear()
}

// ── Machines ──────────────────────────────────────────────────────────────────

// UpdateStock sets a machine's stock quantity.
func (c *Client) UpdateStock(ctx context.Context, id string, quantity int) (*core.Machine, error) {
	var out core.Machine
	body := map[string]int{"quantity": quantity}
	if err := c.Do(ctx, http.MethodPatch, "/machines/"+url.PathEscape(id)+"/stock", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ── Invoices ──────────────────────────────────────────────────────────────────

// UpdateInvoice edits status, due date or paid amount of an invoice.
func (c *Client) UpdateInvoice(ctx context.Context, id string, in core.InvoiceUpdate) (*core.Invoice, error) {
	var out core.Invoice
	if err := c.Do(ctx, http.MethodPut, "/invoices/"+url.PathEscape(id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdatePaymentStatus sets the payment status, and the paid amount when given.
func (c *Client) UpdatePaymentStatus(ctx context.Context, id string, status core.PaymentStatus, paidAmount *decimal.Decimal) (*core.Invoice, error) {
	var out core.Invoice
	body := core.PaymentStatusUpdate{PaymentStatus: status, PaidAmount: paidAmount}
	if err := c.Do(ctx, http.MethodPatch, "/invoices/"+url.PathEscape(id)+"/payment-status", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ── AMCs ──────────────────────────────────────────────────────────────────────

func (c *Client) AMCStats(ctx context.Context) (*core.AMCStats, error) {
	var out core.AMCStats
	if err := c.Do(ctx, http.MethodGet, "/amcs/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExpiringAMCs lists contracts ending within the next days days.
func (c *Client) ExpiringAMCs(ctx context.Context, days int) ([]core.AMC, error) {
	out := []core.AMC{}
	if err := c.Do(ctx, http.MethodGet, "/amcs/expiring?days="+strconv.Itoa(days), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SendRenewalReminder asks the backend to e-mail the customer. It fails when
// the customer has no e-mail address on file.
func (c *Client) SendRenewalReminder(ctx context.Context, id string) error {
	return c.Do(ctx, http.MethodPost, "/amcs/"+url.PathEscape(id)+"/renewal-reminder", nil, nil)
}

// ── Dashboard & reports ───────────────────────────────────────────────────────

func (c *Client) DashboardStats(ctx context.Context, r core.DateRange) (*core.DashboardStats, error) {
	var out core.DashboardStats
	if err := c.Do(ctx, http.MethodGet, "/dashboard/stats"+rangeQuery(r), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DashboardRevenue returns the monthly revenue series.
func (c *Client) DashboardRevenue(ctx context.Context) ([]core.RevenuePoint, error) {
	out := []core.RevenuePoint{}
	if err := c.Do(ctx, http.MethodGet, "/dashboard/revenue", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ReportSummary(ctx context.Context, r core.DateRange) (*core.ReportSummary, error) {
	var out core.ReportSummary
	if err := c.Do(ctx, http.MethodGet, "/reports/summary"+rangeQuery(r), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpcomingServices(ctx context.Context) ([]core.Service, error) {
	out := []core.Service{}
	if err := c.Do(ctx, http.MethodGet, "/reports/upcoming-services", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) OverdueInvoices(ctx context.Context) ([]core.Invoice, error) {
	out := []core.Invoice{}
	if err := c.Do(ctx, http.MethodGet, "/reports/overdue-invoices", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func rangeQuery(r core.DateRange) string {
	if r.IsZero() {
		return ""
	}
	v := url.Values{}
	if r.Start != "" {
		v.Set("startDate", r.Start)
	}
	if r.End != "" {
		v.Set("endDate", r.End)
	}
	return "?" + v.Encode()
}
