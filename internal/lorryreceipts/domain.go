package lorryreceipts

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status enumerates lorry receipt statuses. Invoiced and Paid are driven by
// the invoice lifecycle, never set directly by callers.
type Status string

const (
	StatusCreated   Status = "Created"
	StatusInTransit Status = "In Transit"
	StatusDelivered Status = "Delivered"
	StatusInvoiced  Status = "Invoiced"
	StatusPaid      Status = "Paid"
	StatusUnbilled  Status = "Unbilled"
)

// manualStatuses are the transitions a dispatcher may apply by hand.
var manualStatuses = map[Status]bool{
	StatusCreated:   true,
	StatusInTransit: true,
	StatusDelivered: true,
	StatusUnbilled:  true,
}

// Package is one line of goods on a consignment.
type Package struct {
	Description   string          `json:"description"`
	Count         int             `json:"count"`
	ActualWeight  decimal.Decimal `json:"actual_weight"`
	ChargedWeight decimal.Decimal `json:"charged_weight"`
}

// Charges is the freight cost breakdown of a lorry receipt.
type Charges struct {
	Freight         decimal.Decimal `json:"freight"`
	AOC             decimal.Decimal `json:"aoc"`
	Hamali          decimal.Decimal `json:"hamali"`
	BookingCharge   decimal.Decimal `json:"booking_charge"`
	TransitCharge   decimal.Decimal `json:"transit_charge"`
	DetentionCharge decimal.Decimal `json:"detention_charge"`
}

// Total sums the charge lines.
func (c Charges) Total() decimal.Decimal {
	return c.Freight.Add(c.AOC).Add(c.Hamali).Add(c.BookingCharge).Add(c.TransitCharge).Add(c.DetentionCharge)
}

// LorryReceipt is one consignment note.
type LorryReceipt struct {
	ID          int64           `json:"id"`
	LRNumber    int64           `json:"lr_number"`
	Date        time.Time       `json:"date"`
	ConsignorID int64           `json:"consignor_id"`
	ConsigneeID int64           `json:"consignee_id"`
	From        string          `json:"from"`
	To          string          `json:"to"`
	Packages    []Package       `json:"packages"`
	Charges     Charges         `json:"charges"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Status      Status          `json:"status"`
	InvoiceID   *int64          `json:"invoice_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Input carries create/update payloads. LRNumber zero requests an allocated
// number; non-zero is a manual entry checked for uniqueness.
type Input struct {
	LRNumber    int64     `json:"lr_number"`
	Date        time.Time `json:"date" validate:"required"`
	ConsignorID int64     `json:"consignor_id" validate:"required,gt=0"`
	ConsigneeID int64     `json:"consignee_id" validate:"required,gt=0"`
	From        string    `json:"from" validate:"required,max=100"`
	To          string    `json:"to" validate:"required,max=100"`
	Packages    []Package `json:"packages" validate:"dive"`
	Charges     Charges   `json:"charges"`
}

// ListFilters narrows LR listings.
type ListFilters struct {
	Page       int
	Limit      int
	Status     Status
	CustomerID int64
	Unbilled   bool
}
