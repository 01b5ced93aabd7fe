package repl

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"medequip-admin/internal/app"
	"medequip-admin/internal/core"
)

const rule = 78

// Printer renders service results as fixed-width text tables. The CLI and
// the REPL share it.
type Printer struct {
	w        io.Writer
	currency string
}

func NewPrinter(w io.Writer, currency string) *Printer {
	return &Printer{w: w, currency: currency}
}

// Money formats d in the configured currency.
func (p *Printer) Money(d decimal.Decimal) string {
	if strings.EqualFold(p.currency, "USD") {
		return core.FormatUSD(d)
	}
	return core.FormatINR(d)
}

func (p *Printer) printf(format string, args ...any) {
	fmt.Fprintf(p.w, format, args...)
}

func (p *Printer) banner(title string) {
	p.printf("\n%s\n  %s\n%s\n", strings.Repeat("=", rule), title, strings.Repeat("=", rule))
}

func (p *Printer) divider() {
	p.printf("%s\n", strings.Repeat("-", rule))
}

func (p *Printer) footer() {
	p.printf("%s\n", strings.Repeat("=", rule))
}

func (p *Printer) empty(what string) {
	p.printf("  No %s found.\n", what)
	p.footer()
}

func (p *Printer) pagination(pg core.Pagination) {
	if pg.TotalPages == 0 {
		return
	}
	p.printf("  Page %d of %d (%s total)\n", pg.Page, pg.TotalPages, humanize.Comma(int64(pg.Total)))
}

func (p *Printer) Customers(items []core.Customer, pg core.Pagination) {
	p.banner("CUSTOMERS")
	if len(items) == 0 {
		p.empty("customers")
		return
	}
	p.printf("  %-24s %-22s %-20s %s\n", "NAME", "HOSPITAL / LAB", "PHONE", "EMAIL")
	p.divider()
	for _, c := range items {
		p.printf("  %-24s %-22s %-20s %s\n", clip(c.Name, 24), clip(c.HospitalOrLabName, 22), clip(c.Phone, 20), c.Email)
		p.printf("    id %s\n", c.ID)
	}
	p.footer()
	p.pagination(pg)
}

func (p *Printer) Machines(res *app.MachineListResult) {
	p.banner("INVENTORY")
	if len(res.Items) == 0 {
		p.empty("machines")
		return
	}
	p.printf("  %-24s %-14s %-10s %6s %14s\n", "NAME", "MODEL", "STATUS", "STOCK", "PRICE")
	p.divider()
	for _, m := range res.Items {
		p.printf("  %-24s %-14s %-10s %6d %14s\n",
			clip(m.Name, 24), clip(m.Model, 14), label(string(m.Status)), m.StockQuantity, p.Money(m.SellingPrice))
		p.printf("    id %s  serial %s\n", m.ID, m.SerialNumber)
	}
	p.divider()
	p.printf("  Available: %d   Sold: %d   Capital in stock: %s\n",
		res.Summary.Available, res.Summary.Sold, p.Money(res.Summary.CapitalValue))
	p.footer()
	p.pagination(res.Pagination)
}

func (p *Printer) Services(items []core.Service, pg core.Pagination) {
	p.banner("SERVICES")
	if len(items) == 0 {
		p.empty("services")
		return
	}
	p.printf("  %-11s %-20s %-18s %-12s %-12s %12s\n", "DATE", "CUSTOMER", "MACHINE", "TYPE", "STATUS", "COST")
	p.divider()
	for _, s := range items {
		p.printf("  %-11s %-20s %-18s %-12s %-12s %12s\n",
			s.ServiceDate.String(), clip(s.CustomerName(), 20), clip(s.MachineName(), 18),
			label(string(s.ServiceType)), label(string(s.Status)), p.Money(s.Cost))
		p.printf("    id %s\n", s.ID)
	}
	p.footer()
	p.pagination(pg)
}

func (p *Printer) Invoices(res *app.InvoiceListResult) {
	title := "INVOICES"
	if res.Tab != "" && res.Tab != core.TabAll {
		title += " (" + strings.ToUpper(res.Tab) + ")"
	}
	p.banner(title)
	if len(res.Visible) == 0 {
		p.empty("invoices")
		p.InvoiceStats(res.Stats)
		return
	}
	p.printf("  %-12s %-20s %-11s %-8s %12s %12s\n", "NUMBER", "CUSTOMER", "DUE", "STATUS", "TOTAL", "OUTSTANDING")
	p.divider()
	for _, inv := range res.Visible {
		p.printf("  %-12s %-20s %-11s %-8s %12s %12s\n",
			clip(inv.InvoiceNumber, 12), clip(inv.CustomerName(), 20), inv.DueDate.String(),
			label(string(inv.PaymentStatus)), p.Money(inv.TotalAmount), p.Money(inv.Outstanding()))
		p.printf("    id %s\n", inv.ID)
	}
	p.footer()
	p.pagination(res.Pagination)
	p.InvoiceStats(res.Stats)
}

func (p *Printer) InvoiceStats(s core.InvoiceStats) {
	p.printf("\n  %-24s %16s %8s\n", "PAYMENTS", "AMOUNT", "COUNT")
	p.divider()
	p.printf("  %-24s %16s %8d\n", "Collected (paid)", p.Money(s.PaidCollected), s.PaidCount)
	p.printf("  %-24s %16s %8d\n", "Outstanding (pending)", p.Money(s.PendingOutstanding), s.PendingCount)
	p.printf("  %-24s %16s %8d\n", "Partial collected", p.Money(s.PartialCollected), s.PartialCount)
	p.printf("  %-24s %16s\n", "Partial outstanding", p.Money(s.PartialOutstanding))
	p.printf("  %-24s %16s\n", "Total billing", p.Money(s.TotalBilling))
}

func (p *Printer) Payment(res *app.PaymentResult) {
	inv := res.Invoice
	if res.Update.Status == core.PaymentPaid {
		p.printf("Invoice %s fully paid (%s).\n", inv.InvoiceNumber, p.Money(res.Update.PaidAmount))
		return
	}
	outstanding := inv.TotalAmount.Sub(res.Update.PaidAmount)
	p.printf("Payment recorded on %s. Paid %s, outstanding %s.\n",
		inv.InvoiceNumber, p.Money(res.Update.PaidAmount), p.Money(outstanding))
}

func (p *Printer) AMCs(items []core.AMC, pg core.Pagination, now time.Time) {
	p.banner("AMC CONTRACTS")
	if len(items) == 0 {
		p.empty("contracts")
		return
	}
	p.printf("  %-14s %-20s %-18s %-11s %-14s %12s\n", "CONTRACT", "CUSTOMER", "MACHINE", "ENDS", "STATE", "VALUE")
	p.divider()
	for _, a := range items {
		p.printf("  %-14s %-20s %-18s %-11s %-14s %12s\n",
			clip(a.ContractNumber, 14), clip(a.CustomerName(), 20), clip(a.MachineName(), 18),
			a.EndDate.String(), label(string(core.Expiry(a.EndDate.Time, now))), p.Money(a.ContractValue))
		p.printf("    id %s\n", a.ID)
	}
	p.footer()
	p.pagination(pg)
}

func (p *Printer) AMCOverview(ov *app.AMCOverviewResult, now time.Time) {
	s := ov.Stats
	p.banner("AMC OVERVIEW")
	p.printf("  Total %d   Active %d   Expired %d   Value %s\n", s.Total, s.Active, s.Expired, p.Money(s.TotalValue))
	p.printf("  Expiring within 30 days: %d   60 days: %d   90 days: %d\n", s.Expiring30, s.Expiring60, s.Expiring90)
	p.divider()
	if len(ov.Expiring) == 0 {
		p.printf("  No contracts expiring in the next 30 days.\n")
		p.footer()
		return
	}
	for _, a := range ov.Expiring {
		days := core.DaysUntil(a.EndDate.Time, now)
		p.printf("  %-14s %-24s ends %s (%d days)\n", clip(a.ContractNumber, 14), clip(a.CustomerName(), 24), a.EndDate.String(), days)
		p.printf("    id %s\n", a.ID)
	}
	p.footer()
}

func (p *Printer) Dashboard(d *app.DashboardResult) {
	s := d.Stats
	p.banner(fmt.Sprintf("DASHBOARD  %s to %s", d.Range.Start, d.Range.End))
	p.printf("  Customers %d   Active services %d   Machines %d\n", s.TotalCustomers, s.ActiveServices, s.TotalMachines)
	p.printf("  Revenue %s   Costs %s   Profit %s (%s%% margin)\n",
		p.Money(s.TotalRevenue), p.Money(s.TotalCosts), p.Money(s.Profit), d.ProfitMargin)
	if len(d.Slices) > 0 {
		p.divider()
		for _, sl := range d.Slices {
			p.printf("  %-20s %16s %6.1f%%\n", sl.Name, p.Money(sl.Value), sl.Percent)
		}
	}
	if len(d.InventoryBars) > 0 {
		p.divider()
		for _, b := range d.InventoryBars {
			p.printf("  %-20s %6d %6.1f%%\n", b.Name, b.Value, b.Percent)
		}
	}
	if len(d.Revenue) > 0 {
		p.divider()
		p.printf("  %-10s %14s %14s %14s\n", "MONTH", "REVENUE", "COSTS", "PROFIT")
		for _, pt := range d.Revenue {
			p.printf("  %-10s %14s %14s %14s\n", pt.Label,
				p.Money(decimal.NewFromFloat(pt.Revenue)), p.Money(decimal.NewFromFloat(pt.Costs)), p.Money(decimal.NewFromFloat(pt.Profit)))
		}
	}
	p.divider()
	p.printf("  Upcoming services: %d   Overdue invoices: %d   Pending services: %d\n",
		len(d.Reminders.UpcomingServices), len(d.Reminders.OverdueInvoices), len(d.PendingServices))
	p.printf("  AMCs active: %d   expiring within 30 days: %d\n", d.AMC.Stats.Active, len(d.AMC.Expiring))
	p.footer()
}

func (p *Printer) Report(r *app.ReportResult) {
	s := r.Summary
	p.banner(fmt.Sprintf("REPORT  %s to %s", r.Range.Start, r.Range.End))
	p.printf("  Revenue %s   Costs %s   Profit %s (%s%% margin)\n",
		p.Money(s.TotalRevenue), p.Money(s.TotalCosts), p.Money(s.Profit), r.ProfitMargin)
	p.printf("  Invoices %d   Services %d   Machines sold %d\n", s.InvoicesCount, s.ServicesCount, s.MachinesSold)
	p.printf("  Machine sales %s (%.1f%%)   Services %s (%.1f%%)\n",
		p.Money(s.RevenueByCategory.Machines), r.MachinesShare, p.Money(s.RevenueByCategory.Services), r.ServicesShare)
	if len(s.TopCustomers) > 0 {
		p.divider()
		p.printf("  %-30s %10s %16s\n", "TOP CUSTOMER", "INVOICES", "SPENT")
		for _, c := range s.TopCustomers {
			p.printf("  %-30s %10d %16s\n", clip(c.CustomerName, 30), c.InvoicesCount, p.Money(c.TotalSpent))
		}
	}
	if a := s.AMCStats; a != nil {
		p.divider()
		p.printf("  AMCs %d (active %d, expired %d)   Value %s   Expiring in 30 days %d\n",
			a.TotalContracts, a.ActiveContracts, a.ExpiredContracts, p.Money(a.TotalAMCValue), a.Expiring30Days)
	}
	p.divider()
	p.printf("  Upcoming services: %d   Overdue invoices: %d\n", len(r.UpcomingServices), len(r.OverdueInvoices))
	for _, inv := range r.OverdueInvoices {
		p.printf("    %-12s %-24s due %s  outstanding %s\n",
			clip(inv.InvoiceNumber, 12), clip(inv.CustomerName(), 24), inv.DueDate.String(), p.Money(inv.Outstanding()))
	}
	p.footer()
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func label(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
