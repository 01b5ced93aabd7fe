package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"medequip-admin/internal/api"
	"medequip-admin/internal/core"
	"medequip-admin/internal/logger"
)

type appService struct {
	client *api.Client
	log    zerolog.Logger
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(client *api.Client) ApplicationService {
	return &appService{
		client: client,
		log:    logger.WithComponent("app"),
	}
}

// ── Auth ──────────────────────────────────────────────────────────────────────

func (s *appService) Login(ctx context.Context, req LoginRequest) (*core.AuthResult, error) {
	req.normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.client.Login(ctx, req.Email, req.Password)
}

func (s *appService) Register(ctx context.Context, req RegisterRequest) (*core.AuthResult, error) {
	req.normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.client.Register(ctx, req.Name, req.Email, req.Password)
}

func (s *appService) Logout(ctx context.Context) {
	s.client.Logout(ctx)
}

// ── Customers ─────────────────────────────────────────────────────────────────

func (s *appService) ListCustomers(ctx context.Context, opts core.ListOptions) (*ListResult[core.Customer], error) {
	items, p, err := s.client.Customers().List(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &ListResult[core.Customer]{Items: items, Pagination: p}, nil
}

func (s *appService) GetCustomer(ctx context.Context, id string) (*core.Customer, error) {
	return s.client.Customers().Get(ctx, id)
}

func (s *appService) CreateCustomer(ctx context.Context, in core.CustomerInput) (*core.Customer, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.client.Customers().Create(ctx, in)
}

func (s *appService) UpdateCustomer(ctx context.Context, id string, in core.CustomerInput) (*core.Customer, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.client.Customers().Update(ctx, id, in)
}

func (s *appService) DeleteCustomer(ctx context.Context, id string) error {
	return s.client.Customers().Delete(ctx, id)
}

// ── Machines ──────────────────────────────────────────────────────────────────

// ListMachines filters by status server-side and by search locally.
func (s *appService) ListMachines(ctx context.Context, opts core.ListOptions) (*MachineListResult, error) {
	search := opts.Search
	opts.Search = ""
	items, p, err := s.client.Machines().List(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &MachineListResult{
		ListResult: ListResult[core.Machine]{
			Items:      core.Filter(items, search, core.MachineSearchFields),
			Pagination: p,
		},
		Summary: core.SummarizeInventory(items),
	}, nil
}

func (s *appService) GetMachine(ctx context.Context, id string) (*core.Machine, error) {
	return s.client.Machines().Get(ctx, id)
}

func (s *appService) CreateMachine(ctx context.Context, in core.MachineInput) (*core.Machine, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.client.Machines().Create(ctx, in)
}

func (s *appService) UpdateMachine(ctx context.Context, id string, in core.MachineInput) (*core.Machine, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.client.Machines().Update(ctx, id, in)
}

func (s *appService) DeleteMachine(ctx context.Context, id string) error {
	return s.client.Machines().Delete(ctx, id)
}

func (s *appService) UpdateStock(ctx context.Context, id string, quantity int) (*core.Machine, error) {
	if quantity < 0 {
		return nil, core.ValidationErrors{"quantity": "must not be negative"}
	}
	return s.client.UpdateStock(ctx, id, quantity)
}

// ── Services ──────────────────────────────────────────────────────────────────

func (s *appService) ListServices(ctx context.Context, opts core.ListOptions) (*ListResult[core.Service], error) {
	search := opts.Search
	opts.Search = ""
	items, p, err := s.client.Services().List(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &ListResult[core.Service]{
		Items:      core.Filter(items, search, core.ServiceSearchFields),
		Pagination: p,
	}, nil
}

func (s *appService) GetService(ctx context.Context, id string) (*core.Service, error) {
	return s.client.Services().Get(ctx, id)
}

func (s *appService) CreateService(ctx context.Context, in core.ServiceInput) (*core.Service, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.client.Services().Create(ctx, in)
}

func (s *appService) UpdateService(ctx context.Context, id string, in core.ServiceInput) (*core.Service, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.client.Services().Update(ctx, id, in)
}

func (s *appService) DeleteService(ctx context.Context, id string) error {
	return s.client.Services().Delete(ctx, id)
}

// ── Invoices ──────────────────────────────────────────────────────────────────

func (s *appService) ListInvoices(ctx context.Context, opts core.ListOptions, tab string) (*InvoiceListResult, error) {
	search := opts.Search
	opts.Search = ""
	opts.Status = ""
	items, p, err := s.client.Invoices().List(ctx, opts)
	if err != nil {
		return nil, err
	}
	if tab == "" {
		tab = core.TabAll
	}
	visible := core.Filter(items, search, core.InvoiceSearchFields)
	visible = core.Where(visible, func(inv core.Invoice) bool { return core.MatchesInvoiceTab(inv, tab) })
	return &InvoiceListResult{
		ListResult: ListResult[core.Invoice]{Items: items, Pagination: p},
		Visible:    visible,
		Stats:      core.ComputeInvoiceStats(items),
		Tab:        tab,
	}, nil
}

func (s *appService) GetInvoice(ctx context.Context, id string) (*core.Invoice, error) {
	return s.client.Invoices().Get(ctx, id)
}

func (s *appService) CreateInvoice(ctx context.Context, in core.InvoiceInput) (*core.Invoice, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.client.Invoices().Create(ctx, in)
}

func (s *appService) UpdateInvoice(ctx context.Context, id string, in core.InvoiceUpdate) (*core.Invoice, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.client.UpdateInvoice(ctx, id, in)
}

func (s *appService) DeleteInvoice(ctx context.Context, id string) error {
	return s.client.Invoices().Delete(ctx, id)
}

func (s *appService) ApplyPayment(ctx context.Context, invoiceID, rawAmount string) (*PaymentResult, error) {
	amount, err := core.ParsePaymentAmount(rawAmount)
	if err != nil {
		return nil, err
	}
	inv, err := s.client.Invoices().Get(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("load invoice %s: %w", invoiceID, err)
	}
	upd, err := core.ApplyPayment(*inv, amount)
	if err != nil {
		return nil, err
	}
	return s.writePayment(ctx, invoiceID, upd)
}

func (s *appService) MarkInvoicePaid(ctx context.Context, invoiceID string) (*PaymentResult, error) {
	inv, err := s.client.Invoices().Get(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("load invoice %s: %w", invoiceID, err)
	}
	return s.writePayment(ctx, invoiceID, core.MarkPaid(*inv))
}

func (s *appService) writePayment(ctx context.Context, invoiceID string, upd core.PaymentUpdate) (*PaymentResult, error) {
	paid := upd.PaidAmount
	inv, err := s.client.UpdatePaymentStatus(ctx, invoiceID, upd.Status, &paid)
	if err != nil {
		return nil, err
	}
	s.log.Info().
		Str("invoice_id", invoiceID).
		Str("status", string(upd.Status)).
		Str("paid_amount", paid.String()).
		Msg("payment recorded")
	return &PaymentResult{Invoice: inv, Update: upd}, nil
}

func (s *appService) SetPaymentStatus(ctx context.Context, invoiceID string, status core.PaymentStatus, paidAmount *decimal.Decimal) (*core.Invoice, error) {
	switch status {
	case core.PaymentPaid, core.PaymentUnpaid, core.PaymentPartial:
	default:
		return nil, core.ValidationErrors{"paymentStatus": "must be one of: paid unpaid partial"}
	}
	if paidAmount != nil && paidAmount.IsNegative() {
		return nil, core.ValidationErrors{"paidAmount": "must not be negative"}
	}
	return s.client.UpdatePaymentStatus(ctx, invoiceID, status, paidAmount)
}

// ── AMCs ──────────────────────────────────────────────────────────────────────

// ListAMCs filters by status and customer server-side and by search locally.
func (s *appService) ListAMCs(ctx context.Context, opts core.ListOptions) (*ListResult[core.AMC], error) {
	search := opts.Search
	opts.Search = ""
	items, p, err := s.client.AMCs().List(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &ListResult[core.AMC]{
		Items:      core.Filter(items, search, core.AMCSearchFields),
		Pagination: p,
	}, nil
}

func (s *appService) GetAMC(ctx context.Context, id string) (*core.AMC, error) {
	return s.client.AMCs().Get(ctx, id)
}

func (s *appService) CreateAMC(ctx context.Context, in core.AMCInput) (*core.AMC, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.client.AMCs().Create(ctx, in)
}

func (s *appService) UpdateAMC(ctx context.Context, id string, in core.AMCInput) (*core.AMC, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.client.AMCs().Update(ctx, id, in)
}

func (s *appService) DeleteAMC(ctx context.Context, id string) error {
	return s.client.AMCs().Delete(ctx, id)
}

func (s *appService) AMCOverview(ctx context.Context) (*AMCOverviewResult, error) {
	var (
		stats    *core.AMCStats
		expiring []core.AMC
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats, err = s.client.AMCStats(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		expiring, err = s.client.ExpiringAMCs(gctx, core.ExpiringSoonDays)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &AMCOverviewResult{Stats: *stats, Expiring: expiring}, nil
}

func (s *appService) SendRenewalReminder(ctx context.Context, amcID string) error {
	if strings.TrimSpace(amcID) == "" {
		return core.ValidationErrors{"id": "is required"}
	}
	if err := s.client.SendRenewalReminder(ctx, amcID); err != nil {
		return err
	}
	s.log.Info().Str("amc_id", amcID).Msg("renewal reminder sent")
	return nil
}

// ── Dashboard & reports ───────────────────────────────────────────────────────

func (s *appService) Reminders(ctx context.Context) (*RemindersResult, error) {
	var res RemindersResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		res.UpcomingServices, err = s.client.UpcomingServices(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		res.OverdueInvoices, err = s.client.OverdueInvoices(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *appService) Dashboard(ctx context.Context, r core.DateRange) (*DashboardResult, error) {
	stats, err := s.client.DashboardStats(ctx, r)
	if err != nil {
		return nil, err
	}
	res := &DashboardResult{Range: r, Stats: *stats}

	// Side widgets load independently; a failing one stays empty.
	var g errgroup.Group
	g.Go(func() error {
		if len(stats.MonthlyRevenue) == 0 {
			points, err := s.client.DashboardRevenue(ctx)
			if err != nil {
				s.widgetFailed("revenue", err)
				return nil
			}
			res.Stats.MonthlyRevenue = points
		}
		return nil
	})
	g.Go(func() error {
		ov, err := s.AMCOverview(ctx)
		if err != nil {
			s.widgetFailed("amc_overview", err)
			return nil
		}
		res.AMC = *ov
		return nil
	})
	g.Go(func() error {
		rem, err := s.Reminders(ctx)
		if err != nil {
			s.widgetFailed("reminders", err)
			return nil
		}
		res.Reminders = *rem
		return nil
	})
	g.Go(func() error {
		items, _, err := s.client.Services().List(ctx, core.ListOptions{Page: 1, Limit: 10, Status: string(core.ServicePending)})
		if err != nil {
			s.widgetFailed("pending_services", err)
			return nil
		}
		res.PendingServices = items
		return nil
	})
	g.Go(func() error {
		res.Recent = s.recentActivity(ctx)
		return nil
	})
	_ = g.Wait()

	res.Revenue = core.RevenueSeries(res.Stats.MonthlyRevenue)
	res.Slices = core.RevenueSlices(res.Stats)
	res.InventoryBars = core.InventoryBars(res.Stats.TotalMachines, res.Stats.InventoryBreakdown)
	res.ProfitMargin = core.ProfitMargin(res.Stats.Profit, res.Stats.TotalRevenue)
	return res, nil
}

func (s *appService) recentActivity(ctx context.Context) RecentActivity {
	var ra RecentActivity
	if items, _, err := s.client.Invoices().List(ctx, core.ListOptions{Page: 1, Limit: 5}); err == nil {
		ra.Invoices = items
	} else {
		s.widgetFailed("recent_invoices", err)
	}
	if items, _, err := s.client.Services().List(ctx, core.ListOptions{Page: 1, Limit: 3, Status: string(core.ServiceCompleted)}); err == nil {
		ra.CompletedServices = items
	} else {
		s.widgetFailed("recent_services", err)
	}
	if items, _, err := s.client.Customers().List(ctx, core.ListOptions{Page: 1, Limit: 1}); err == nil {
		ra.NewestCustomers = items
	} else {
		s.widgetFailed("recent_customers", err)
	}
	return ra
}

func (s *appService) widgetFailed(widget string, err error) {
	s.log.Warn().Err(err).Str("widget", widget).Msg("dashboard widget unavailable")
}

func (s *appService) Report(ctx context.Context, r core.DateRange) (*ReportResult, error) {
	res := &ReportResult{Range: r}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		summary, err := s.client.ReportSummary(gctx, r)
		if err != nil {
			return err
		}
		res.Summary = *summary
		return nil
	})
	g.Go(func() error {
		var err error
		res.UpcomingServices, err = s.client.UpcomingServices(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		res.OverdueInvoices, err = s.client.OverdueInvoices(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load report: %w", err)
	}

	sum := res.Summary
	res.ProfitMargin = core.ProfitMargin(sum.Profit, sum.TotalRevenue)
	res.MachinesShare = core.Percent(sum.RevenueByCategory.Machines, sum.TotalRevenue)
	res.ServicesShare = core.Percent(sum.RevenueByCategory.Services, sum.TotalRevenue)
	return res, nil
}
