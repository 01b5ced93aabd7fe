package layouts

// AppLayoutData is passed to the "app" layout to configure the page shell.
type AppLayoutData struct {
	Title     string
	Username  string
	Email     string
	Role      string
	ActiveNav string // e.g. "dashboard", "customers", "inventory", "invoices"
	FlashMsg  string
	FlashKind string // "success", "error"
	Nav       []NavItem
}

// NavItem is one sidebar link.
type NavItem struct {
	Key   string
	Label string
	Href  string
}

// Sidebar lists the dashboard sections in display order.
var Sidebar = []NavItem{
	{Key: "dashboard", Label: "Dashboard", Href: "/"},
	{Key: "customers", Label: "Customers", Href: "/customers"},
	{Key: "inventory", Label: "Inventory", Href: "/inventory"},
	{Key: "services", Label: "Services", Href: "/services"},
	{Key: "amcs", Label: "AMC Contracts", Href: "/amcs"},
	{Key: "invoices", Label: "Invoices", Href: "/invoices"},
	{Key: "reports", Label: "Reports", Href: "/reports"},
}
