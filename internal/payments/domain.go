package payments

import (
	"time"

	"github.com/shopspring/decimal"
)

// Type distinguishes what a money movement means.
type Type string

const (
	TypeAdvance Type = "Advance"
	TypeReceipt Type = "Receipt"
	TypePayment Type = "Payment"
)

// Mode is the settlement channel.
type Mode string

const (
	ModeCash   Mode = "Cash"
	ModeCheque Mode = "Cheque"
	ModeNEFT   Mode = "NEFT"
	ModeRTGS   Mode = "RTGS"
	ModeUPI    Mode = "UPI"
)

// Payment records one money movement against a customer, optionally offsetting
// an invoice or a truck hiring note.
type Payment struct {
	ID          int64           `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Type        Type            `json:"type"`
	Mode        Mode            `json:"mode"`
	CustomerID  int64           `json:"customer_id"`
	InvoiceID   *int64          `json:"invoice_id,omitempty"`
	THNID       *int64          `json:"thn_id,omitempty"`
	ReferenceNo string          `json:"reference_no,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Input carries create payloads.
type Input struct {
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	Date        time.Time       `json:"date" validate:"required"`
	Type        Type            `json:"type" validate:"required,oneof=Advance Receipt Payment"`
	Mode        Mode            `json:"mode" validate:"required,oneof=Cash Cheque NEFT RTGS UPI"`
	CustomerID  int64           `json:"customer_id" validate:"required,gt=0"`
	InvoiceID   *int64          `json:"invoice_id"`
	THNID       *int64          `json:"thn_id"`
	ReferenceNo string          `json:"reference_no" validate:"max=100"`
	Notes       string          `json:"notes" validate:"max=500"`
}

// ListFilters narrows payment listings.
type ListFilters struct {
	Page       int
	Limit      int
	CustomerID int64
	InvoiceID  int64
	THNID      int64
}
