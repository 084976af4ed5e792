package invoices

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status enumerates invoice payment statuses, derived from linked payments.
type Status string

const (
	StatusUnpaid        Status = "Unpaid"
	StatusPartiallyPaid Status = "Partially Paid"
	StatusPaid          Status = "Paid"
)

// GSTType selects the tax regime split.
type GSTType string

const (
	GSTTypeCGSTSGST GSTType = "CGST_SGST"
	GSTTypeIGST     GSTType = "IGST"
)

// GSTDetails carries rates and computed amounts for an invoice.
type GSTDetails struct {
	Type        GSTType         `json:"type"`
	IsRCM       bool            `json:"is_rcm"`
	IsManualGST bool            `json:"is_manual_gst"`
	CGSTRate    decimal.Decimal `json:"cgst_rate"`
	SGSTRate    decimal.Decimal `json:"sgst_rate"`
	IGSTRate    decimal.Decimal `json:"igst_rate"`
	CGSTAmount  decimal.Decimal `json:"cgst_amount"`
	SGSTAmount  decimal.Decimal `json:"sgst_amount"`
	IGSTAmount  decimal.Decimal `json:"igst_amount"`
}

var hundred = decimal.NewFromInt(100)

// Compute recalculates the tax amounts for the given taxable value and
// returns the grand total. Reverse-charge invoices carry no tax lines and a
// grand total equal to the taxable value; manual-GST invoices keep their
// amounts verbatim. Everything else is recomputed from the rates on every
// save.
func (g *GSTDetails) Compute(totalAmount decimal.Decimal) decimal.Decimal {
	if g.IsRCM {
		g.CGSTAmount = decimal.Zero
		g.SGSTAmount = decimal.Zero
		g.IGSTAmount = decimal.Zero
		return totalAmount
	}
	if !g.IsManualGST {
		g.CGSTAmount = decimal.Zero
		g.SGSTAmount = decimal.Zero
		g.IGSTAmount = decimal.Zero
		switch g.Type {
		case GSTTypeIGST:
			g.IGSTAmount = totalAmount.Mul(g.IGSTRate).Div(hundred).Round(2)
		default:
			g.CGSTAmount = totalAmount.Mul(g.CGSTRate).Div(hundred).Round(2)
			g.SGSTAmount = totalAmount.Mul(g.SGSTRate).Div(hundred).Round(2)
		}
	}
	return totalAmount.Add(g.CGSTAmount).Add(g.SGSTAmount).Add(g.IGSTAmount)
}

// Invoice bills one customer for a set of lorry receipts.
type Invoice struct {
	ID            int64           `json:"id"`
	InvoiceNumber int64           `json:"invoice_number"`
	Date          time.Time       `json:"date"`
	CustomerID    int64           `json:"customer_id"`
	LorryReceipts []int64         `json:"lorry_receipts"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	GST           GSTDetails      `json:"gst"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
	Status        Status          `json:"status"`
	Remarks       string          `json:"remarks,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	// Derived from linked payments on read.
	PaidAmount decimal.Decimal `json:"paid_amount"`
	BalanceDue decimal.Decimal `json:"balance_due"`
}

// Input carries create/update payloads. InvoiceNumber zero requests the next
// allocated number.
type Input struct {
	InvoiceNumber int64      `json:"invoice_number"`
	Date          time.Time  `json:"date" validate:"required"`
	CustomerID    int64      `json:"customer_id" validate:"required,gt=0"`
	LorryReceipts []int64    `json:"lorry_receipts" validate:"required,min=1,dive,gt=0"`
	GST           GSTDetails `json:"gst"`
	Remarks       string     `json:"remarks" validate:"max=500"`
}

// CreateResult pairs the stored invoice with caller-visible warnings.
type CreateResult struct {
	Invoice *Invoice `json:"invoice"`
	// HasZeroFreight flags that at least one billed lorry receipt carries a
	// zero freight line. A warning, never an error.
	HasZeroFreight bool `json:"has_zero_freight"`
}

// LRFreight is the slice of a lorry receipt the invoice module needs.
type LRFreight struct {
	ID        int64
	LRNumber  int64
	Freight   decimal.Decimal
	Status    string
	InvoiceID *int64
}

// ListFilters narrows invoice listings.
type ListFilters struct {
	Page       int
	Limit      int
	Status     Status
	CustomerID int64
}

// DeriveStatus maps a paid amount against a grand total.
func DeriveStatus(grandTotal, paid decimal.Decimal) Status {
	switch {
	case paid.LessThanOrEqual(decimal.Zero):
		return StatusUnpaid
	case paid.GreaterThanOrEqual(grandTotal):
		return StatusPaid
	default:
		return StatusPartiallyPaid
	}
}
