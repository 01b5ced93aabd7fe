package app

import "medequip-admin/internal/core"

// ListResult is one page of a backend collection.
type ListResult[T any] struct {
	Items      []T
	Pagination core.Pagination
}

// MachineListResult is returned by ListMachines.
type MachineListResult struct {
	ListResult[core.Machine]
	Summary core.InventorySummary
}

// InvoiceListResult is returned by ListInvoices. Stats cover every invoice on
// the page; Visible is the search and tab filtered subset.
type InvoiceListResult struct {
	ListResult[core.Invoice]
	Visible []core.Invoice
	Stats   core.InvoiceStats
	Tab     string
}

// PaymentResult is returned by ApplyPayment and MarkInvoicePaid.
type PaymentResult struct {
	Invoice *core.Invoice
	Update  core.PaymentUpdate
}

// AMCOverviewResult is returned by AMCOverview.
type AMCOverviewResult struct {
	Stats    core.AMCStats
	Expiring []core.AMC
}

// RemindersResult is returned by Reminders.
type RemindersResult struct {
	UpcomingServices []core.Service
	OverdueInvoices  []core.Invoice
}

// RecentActivity is the dashboard's latest-events panel.
type RecentActivity struct {
	Invoices          []core.Invoice
	CompletedServices []core.Service
	NewestCustomers   []core.Customer
}

// DashboardResult is returned by Dashboard.
type DashboardResult struct {
	Range           core.DateRange
	Stats           core.DashboardStats
	Revenue         []core.SeriesPoint
	Slices          []core.Slice
	InventoryBars   []core.Bar
	ProfitMargin    string
	AMC             AMCOverviewResult
	Reminders       RemindersResult
	PendingServices []core.Service
	Recent          RecentActivity
}

// ReportResult is returned by Report.
type ReportResult struct {
	Range            core.DateRange
	Summary          core.ReportSummary
	UpcomingServices []core.Service
	OverdueInvoices  []core.Invoice
	ProfitMargin     string
	// MachinesShare and ServicesShare are revenue-by-category percentages.
	MachinesShare float64
	ServicesShare float64
}
