package core

import "github.com/shopspring/decimal"

// RevenuePoint is one month of the revenue/cost/profit series. Month is YYYY-MM.
type RevenuePoint struct {
	Month   string          `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
	Costs   decimal.Decimal `json:"costs"`
	Profit  decimal.Decimal `json:"profit"`
}

// InventoryBreakdown is the server-side count of machines by status.
type InventoryBreakdown struct {
	Available  int             `json:"available"`
	Sold       int             `json:"sold"`
	TotalValue decimal.Decimal `json:"totalValue"`
}

// DashboardStats is the aggregate returned by GET /dashboard/stats.
// All figures are computed by the backend for the requested date range.
type DashboardStats struct {
	TotalCustomers     int                `json:"totalCustomers"`
	ActiveServices     int                `json:"activeServices"`
	TotalMachines      int                `json:"totalMachines"`
	TotalRevenue       decimal.Decimal    `json:"totalRevenue"`
	TotalCosts         decimal.Decimal    `json:"totalCosts"`
	ServiceCosts       decimal.Decimal    `json:"serviceCosts"`
	MachineCosts       decimal.Decimal    `json:"machineCosts"`
	Profit             decimal.Decimal    `json:"profit"`
	MonthlyRevenue     []RevenuePoint     `json:"monthlyRevenue"`
	InventoryBreakdown InventoryBreakdown `json:"inventoryBreakdown"`
}

// AMCStats is the aggregate returned by GET /amcs/stats.
type AMCStats struct {
	Total      int             `json:"total"`
	Active     int             `json:"active"`
	Expired    int             `json:"expired"`
	TotalValue decimal.Decimal `json:"totalValue"`
	Expiring30 int             `json:"expiring30"`
	Expiring60 int             `json:"expiring60"`
	Expiring90 int             `json:"expiring90"`
}

// RevenueByCategory splits period revenue between machine sales and services.
type RevenueByCategory struct {
	Machines decimal.Decimal `json:"machines"`
	Services decimal.Decimal `json:"services"`
}

// TopCustomer is a ranking row of the summary report.
type TopCustomer struct {
	CustomerName  string          `json:"customerName"`
	InvoicesCount int             `json:"invoicesCount"`
	TotalSpent    decimal.Decimal `json:"totalSpent"`
}

// ReportAMCStats is the AMC block embedded in the summary report.
type ReportAMCStats struct {
	TotalContracts   int             `json:"totalContracts"`
	ActiveContracts  int             `json:"activeContracts"`
	ExpiredContracts int             `json:"expiredContracts"`
	TotalAMCValue    decimal.Decimal `json:"totalAMCValue"`
	Expiring30Days   int             `json:"expiring30Days"`
	ServicesUnderAMC int             `json:"servicesUnderAMC"`
}

// ReportSummary is the payload of GET /reports/summary.
type ReportSummary struct {
	TotalRevenue      decimal.Decimal   `json:"totalRevenue"`
	TotalCosts        decimal.Decimal   `json:"totalCosts"`
	Profit            decimal.Decimal   `json:"profit"`
	InvoicesCount     int               `json:"invoicesCount"`
	ServicesCount     int               `json:"servicesCount"`
	MachinesSold      int               `json:"machinesSold"`
	RevenueByCategory RevenueByCategory `json:"revenueByCategory"`
	TopCustomers      []TopCustomer     `json:"topCustomers"`
	AMCStats          *ReportAMCStats   `json:"amcStats,omitempty"`
}
