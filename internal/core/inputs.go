package core

import (
	"github.com/shopspring/decimal"
)

// DefaultLimit is the page size list views use unless told otherwise.
const DefaultLimit = 10

// ListOptions is the parameter tuple of every list endpoint. Only the filters
// a resource understands are sent; empty strings are omitted.
type ListOptions struct {
	Page       int
	Limit      int
	Search     string
	Status     string
	CustomerID string
	StartDate  string
	EndDate    string
}

// Normalize fills in the default page and limit.
func (o ListOptions) Normalize() ListOptions {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.Limit < 1 {
		o.Limit = DefaultLimit
	}
	return o
}

// CustomerInput is the body of POST/PUT /customers.
type CustomerInput struct {
	Name              string `json:"name" validate:"required"`
	Email             string `json:"email,omitempty" validate:"omitempty,email"`
	Phone             string `json:"phone,omitempty"`
	Address           string `json:"address,omitempty"`
	HospitalOrLabName string `json:"hospitalOrLabName,omitempty"`
}

func (in CustomerInput) Validate() error { return validate(in) }

// MachineInput is the body of POST/PUT /machines.
type MachineInput struct {
	Name          string           `json:"name" validate:"required"`
	Model         string           `json:"model,omitempty"`
	SerialNumber  string           `json:"serialNumber,omitempty"`
	PurchasePrice *decimal.Decimal `json:"purchasePrice" validate:"required,gte=0"`
	SellingPrice  *decimal.Decimal `json:"sellingPrice" validate:"required,gte=0"`
	StockQuantity int              `json:"stockQuantity" validate:"gte=0"`
	Status        MachineStatus    `json:"status,omitempty" validate:"omitempty,oneof=available sold"`
}

func (in MachineInput) Validate() error { return validate(in) }

// ServiceInput is the body of POST/PUT /services.
type ServiceInput struct {
	CustomerID  string          `json:"customerId" validate:"required"`
	MachineID   string          `json:"machineId,omitempty"`
	ServiceType ServiceType     `json:"serviceType" validate:"required,oneof=maintenance repair installation"`
	Description string          `json:"description,omitempty"`
	Status      ServiceStatus   `json:"status,omitempty" validate:"omitempty,oneof=pending in_progress completed"`
	ServiceDate Date            `json:"serviceDate" validate:"required"`
	Cost        decimal.Decimal `json:"cost" validate:"gte=0"`
}

func (in ServiceInput) Validate() error { return validate(in) }

// InvoiceItemInput is one line of an InvoiceInput.
type InvoiceItemInput struct {
	ItemType    ItemType        `json:"itemType" validate:"required,oneof=service machine"`
	ReferenceID string          `json:"referenceId" validate:"required"`
	Quantity    int             `json:"quantity" validate:"min=1"`
	Price       decimal.Decimal `json:"price" validate:"gte=0"`
}

// InvoiceInput is the body of POST /invoices.
type InvoiceInput struct {
	CustomerID  string             `json:"customerId" validate:"required"`
	InvoiceDate Date               `json:"invoiceDate" validate:"required"`
	DueDate     *Date              `json:"dueDate,omitempty"`
	Items       []InvoiceItemInput `json:"items" validate:"dive"`
}

// Validate rejects an invoice without lines before checking fields.
func (in InvoiceInput) Validate() error {
	if len(in.Items) == 0 {
		return ErrNoInvoiceItems
	}
	return validate(in)
}

// Total is the sum of price × quantity over all lines.
func (in InvoiceInput) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range in.Items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

// InvoiceUpdate is the body of PUT /invoices/:id.
type InvoiceUpdate struct {
	PaymentStatus PaymentStatus    `json:"paymentStatus,omitempty" validate:"omitempty,oneof=paid unpaid partial"`
	DueDate       *Date            `json:"dueDate,omitempty"`
	PaidAmount    *decimal.Decimal `json:"paidAmount,omitempty"`
}

func (in InvoiceUpdate) Validate() error { return validate(in) }

// AMCInput is the body of POST/PUT /amcs.
type AMCInput struct {
	CustomerID    string          `json:"customerId" validate:"required"`
	MachineID     string          `json:"machineId" validate:"required"`
	StartDate     Date            `json:"startDate" validate:"required"`
	EndDate       Date            `json:"endDate" validate:"required"`
	ContractValue decimal.Decimal `json:"contractValue" validate:"gte=0"`
	RenewalDate   *Date           `json:"renewalDate,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	Status        AMCStatus       `json:"status,omitempty" validate:"omitempty,oneof=active expired renewed cancelled"`
}

func (in AMCInput) Validate() error { return validate(in) }

// PaymentStatusUpdate is the body of PATCH /invoices/:id/payment-status.
type PaymentStatusUpdate struct {
	PaymentStatus PaymentStatus    `json:"paymentStatus"`
	PaidAmount    *decimal.Decimal `json:"paidAmount,omitempty"`
}
