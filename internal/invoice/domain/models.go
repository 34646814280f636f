package domain

import (
	"time"

	"github.com/glanzwerk/invoicing/internal/catalog"
	"github.com/shopspring/decimal"
)

var (
	// TaxRate is the flat VAT rate applied to the aggregate net subtotal.
	TaxRate = decimal.RequireFromString("0.19")

	RegularCustomerPercent = decimal.NewFromInt(10)
)

const DueDays = 14

// LineItem is one billable row. Quantity is always one.
type LineItem struct {
	Description string          `json:"description"`
	NetPrice    decimal.Decimal `json:"net_price"`
}

func (i LineItem) TaxAmount(rate decimal.Decimal) decimal.Decimal {
	return i.NetPrice.Mul(rate)
}

func (i LineItem) Gross(rate decimal.Decimal) decimal.Decimal {
	return i.NetPrice.Add(i.TaxAmount(rate))
}

type DiscountKind string

const (
	DiscountRegularCustomer DiscountKind = "regular_customer"
	DiscountCode            DiscountKind = "code"
	DiscountManual          DiscountKind = "manual"
)

// DiscountSource is one independent reason for a discount. Sources stack
// additively; their order only affects display.
type DiscountSource struct {
	Kind    DiscountKind    `json:"kind"`
	Label   string          `json:"label"`
	Percent decimal.Decimal `json:"percent"`
}

// Record is the fully resolved invoice. Amounts keep full precision and
// are rounded only when formatted for display.
type Record struct {
	CustomerName  string                    `json:"customer_name"`
	VehicleNumber string                    `json:"vehicle_number"`
	Service       catalog.ServiceDefinition `json:"service"`
	LineItems     []LineItem                `json:"line_items"`

	NetSubtotal   decimal.Decimal `json:"net_subtotal"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	GrossSubtotal decimal.Decimal `json:"gross_subtotal"`

	DiscountSources      []DiscountSource `json:"discount_sources"`
	TotalDiscountPercent decimal.Decimal  `json:"total_discount_percent"`
	DiscountAmount       decimal.Decimal  `json:"discount_amount"`
	TotalPrice           decimal.Decimal  `json:"total_price"`

	InvoiceNumber string    `json:"invoice_number"`
	IssueDate     time.Time `json:"issue_date"`
	DueDate       time.Time `json:"due_date"`
}

// HasDiscount reports whether any discount source applied.
func (r Record) HasDiscount() bool {
	return len(r.DiscountSources) > 0
}
