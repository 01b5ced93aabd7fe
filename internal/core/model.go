package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// MachineStatus is the inventory state of a machine.
type MachineStatus string

const (
	MachineAvailable MachineStatus = "available"
	MachineSold      MachineStatus = "sold"
)

// ServiceType classifies a service work order.
type ServiceType string

const (
	ServiceMaintenance  ServiceType = "maintenance"
	ServiceRepair       ServiceType = "repair"
	ServiceInstallation ServiceType = "installation"
)

// ServiceStatus progresses pending → in_progress → completed.
type ServiceStatus string

const (
	ServicePending    ServiceStatus = "pending"
	ServiceInProgress ServiceStatus = "in_progress"
	ServiceCompleted  ServiceStatus = "completed"
)

// PaymentStatus is an invoice's payment state.
type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "paid"
	PaymentUnpaid  PaymentStatus = "unpaid"
	PaymentPartial PaymentStatus = "partial"
)

// ItemType says what an invoice line refers to.
type ItemType string

const (
	ItemService ItemType = "service"
	ItemMachine ItemType = "machine"
)

// AMCStatus is the lifecycle state of an annual maintenance contract.
type AMCStatus string

const (
	AMCActive    AMCStatus = "active"
	AMCExpired   AMCStatus = "expired"
	AMCRenewed   AMCStatus = "renewed"
	AMCCancelled AMCStatus = "cancelled"
)

// Pagination is the metadata list endpoints return next to data.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// HasPrev reports whether a previous page exists.
func (p Pagination) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a following page exists.
func (p Pagination) HasNext() bool { return p.Page < p.TotalPages }

// EmptyPagination is the state a list view falls back to after a failed load.
func EmptyPagination() Pagination {
	return Pagination{Page: 1, Limit: DefaultLimit, Total: 0, TotalPages: 0}
}

// User is the account returned by the auth endpoints.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// AuthResult is the payload of a successful login or registration.
type AuthResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type Customer struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	HospitalOrLabName string    `json:"hospitalOrLabName"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone"`
	Address           string    `json:"address"`
	CreatedAt         time.Time `json:"createdAt"`
}

type Machine struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Model         string          `json:"model"`
	SerialNumber  string          `json:"serialNumber"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	SellingPrice  decimal.Decimal `json:"sellingPrice"`
	StockQuantity int             `json:"stockQuantity"`
	Status        MachineStatus   `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// Service is a maintenance, repair or installation work order.
// Customer and Machine are populated when the backend includes the relation.
type Service struct {
	ID          string          `json:"id"`
	CustomerID  string          `json:"customerId"`
	MachineID   string          `json:"machineId"`
	ServiceType ServiceType     `json:"serviceType"`
	Status      ServiceStatus   `json:"status"`
	ServiceDate Date            `json:"serviceDate"`
	Cost        decimal.Decimal `json:"cost"`
	Description string          `json:"description"`
	Customer    *Customer       `json:"customer,omitempty"`
	Machine     *Machine        `json:"machine,omitempty"`
}

// CustomerName returns the related customer's name, or "" when not expanded.
func (s Service) CustomerName() string {
	if s.Customer == nil {
		return ""
	}
	return s.Customer.Name
}

// MachineName returns the related machine's name, or "" when not expanded.
func (s Service) MachineName() string {
	if s.Machine == nil {
		return ""
	}
	return s.Machine.Name
}

// ItemDetails is the expanded service or machine an invoice line refers to.
type ItemDetails struct {
	Name        string `json:"name"`
	ServiceType string `json:"serviceType,omitempty"`
}

type InvoiceItem struct {
	ID          string          `json:"id,omitempty"`
	ItemType    ItemType        `json:"itemType"`
	ReferenceID string          `json:"referenceId"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Details     *ItemDetails    `json:"details,omitempty"`
}

// LineTotal is price × quantity.
func (i InvoiceItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Invoice struct {
	ID            string          `json:"id"`
	InvoiceNumber string          `json:"invoiceNumber"`
	CustomerID    string          `json:"customerId"`
	InvoiceDate   Date            `json:"invoiceDate"`
	DueDate       Date            `json:"dueDate"`
	PaymentStatus PaymentStatus   `json:"paymentStatus"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	PaidAmount    decimal.Decimal `json:"paidAmount"`
	Items         []InvoiceItem   `json:"items"`
	Customer      *Customer       `json:"customer,omitempty"`
}

// Outstanding is totalAmount − paidAmount, floored at zero.
func (inv Invoice) Outstanding() decimal.Decimal {
	rest := inv.TotalAmount.Sub(inv.PaidAmount)
	if rest.IsNegative() {
		return decimal.Zero
	}
	return rest
}

// CustomerName returns the related customer's name, or "" when not expanded.
func (inv Invoice) CustomerName() string {
	if inv.Customer == nil {
		return ""
	}
	return inv.Customer.Name
}

// AMC is an annual maintenance contract tying a customer to a machine.
type AMC struct {
	ID             string          `json:"id"`
	ContractNumber string          `json:"contractNumber"`
	CustomerID     string          `json:"customerId"`
	MachineID      string          `json:"machineId"`
	StartDate      Date            `json:"startDate"`
	EndDate        Date            `json:"endDate"`
	RenewalDate    Date            `json:"renewalDate"`
	ContractValue  decimal.Decimal `json:"contractValue"`
	Notes          string          `json:"notes"`
	Status         AMCStatus       `json:"status"`
	Customer       *Customer       `json:"customer,omitempty"`
	Machine        *Machine        `json:"machine,omitempty"`
}

// CustomerName returns the related customer's name, or "" when not expanded.
func (a AMC) CustomerName() string {
	if a.Customer == nil {
		return ""
	}
	return a.Customer.Name
}

// MachineName returns the related machine's name, or "" when not expanded.
func (a AMC) MachineName() string {
	if a.Machine == nil {
		return ""
	}
	return a.Machine.Name
}
