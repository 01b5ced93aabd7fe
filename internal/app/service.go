package app

import (
	"context"

	"github.com/shopspring/decimal"

	"medequip-admin/internal/core"
)

// ApplicationService is the single interface all UI adapters (REPL, CLI, Web) call.
// It decouples presentation from the backend API. Implementations must contain
// no fmt.Println, no ANSI codes, and no display logic of any kind.
//
// Every method authenticates with the TokenStore carried by ctx (see
// api.WithTokenStore). Errors matching api.ErrUnauthorized mean the session
// has ended and the token was cleared.
type ApplicationService interface {
	// Login exchanges credentials for a backend token and stores it.
	Login(ctx context.Context, req LoginRequest) (*core.AuthResult, error)

	// Register creates an account and stores the returned token.
	Register(ctx context.Context, req RegisterRequest) (*core.AuthResult, error)

	// Logout forgets the stored token.
	Logout(ctx context.Context)

	ListCustomers(ctx context.Context, opts core.ListOptions) (*ListResult[core.Customer], error)
	GetCustomer(ctx context.Context, id string) (*core.Customer, error)
	CreateCustomer(ctx context.Context, in core.CustomerInput) (*core.Customer, error)
	UpdateCustomer(ctx context.Context, id string, in core.CustomerInput) (*core.Customer, error)
	DeleteCustomer(ctx context.Context, id string) error

	// ListMachines returns a page of machines plus availability figures for that page.
	ListMachines(ctx context.Context, opts core.ListOptions) (*MachineListResult, error)
	GetMachine(ctx context.Context, id string) (*core.Machine, error)
	CreateMachine(ctx context.Context, in core.MachineInput) (*core.Machine, error)
	UpdateMachine(ctx context.Context, id string, in core.MachineInput) (*core.Machine, error)
	DeleteMachine(ctx context.Context, id string) error

	// UpdateStock sets a machine's stock quantity. quantity must not be negative.
	UpdateStock(ctx context.Context, id string, quantity int) (*core.Machine, error)

	ListServices(ctx context.Context, opts core.ListOptions) (*ListResult[core.Service], error)
	GetService(ctx context.Context, id string) (*core.Service, error)
	CreateService(ctx context.Context, in core.ServiceInput) (*core.Service, error)
	UpdateService(ctx context.Context, id string, in core.ServiceInput) (*core.Service, error)
	DeleteService(ctx context.Context, id string) error

	// ListInvoices returns a page of invoices with payment statistics over
	// the whole page and the subset matching opts.Search and tab.
	ListInvoices(ctx context.Context, opts core.ListOptions, tab string) (*InvoiceListResult, error)
	GetInvoice(ctx context.Context, id string) (*core.Invoice, error)

	// CreateInvoice requires at least one line item.
	CreateInvoice(ctx context.Context, in core.InvoiceInput) (*core.Invoice, error)
	UpdateInvoice(ctx context.Context, id string, in core.InvoiceUpdate) (*core.Invoice, error)
	DeleteInvoice(ctx context.Context, id string) error

	// ApplyPayment records a payment of rawAmount against an invoice. The
	// amount is validated before any network call; an amount that reaches the
	// total marks the invoice paid.
	ApplyPayment(ctx context.Context, invoiceID, rawAmount string) (*PaymentResult, error)

	// MarkInvoicePaid sets status paid with paidAmount equal to the total.
	MarkInvoicePaid(ctx context.Context, invoiceID string) (*PaymentResult, error)

	// SetPaymentStatus writes a status and optional paid amount verbatim.
	SetPaymentStatus(ctx context.Context, invoiceID string, status core.PaymentStatus, paidAmount *decimal.Decimal) (*core.Invoice, error)

	ListAMCs(ctx context.Context, opts core.ListOptions) (*ListResult[core.AMC], error)
	GetAMC(ctx context.Context, id string) (*core.AMC, error)
	CreateAMC(ctx context.Context, in core.AMCInput) (*core.AMC, error)
	UpdateAMC(ctx context.Context, id string, in core.AMCInput) (*core.AMC, error)
	DeleteAMC(ctx context.Context, id string) error

	// AMCOverview fetches contract statistics and contracts expiring within 30 days.
	AMCOverview(ctx context.Context) (*AMCOverviewResult, error)

	// SendRenewalReminder e-mails the customer of an AMC.
	SendRenewalReminder(ctx context.Context, amcID string) error

	// Reminders fetches upcoming services and overdue invoices.
	Reminders(ctx context.Context) (*RemindersResult, error)

	// Dashboard assembles the home page. Only the stats call is required;
	// the side widgets are left empty when their calls fail.
	Dashboard(ctx context.Context, r core.DateRange) (*DashboardResult, error)

	// Report fetches the report summary, upcoming services and overdue
	// invoices. Any failure fails the whole report.
	Report(ctx context.Context, r core.DateRange) (*ReportResult, error)
}
