package truckhiring

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status enumerates settlement states of a truck hiring note.
type Status string

const (
	StatusUnpaid        Status = "Unpaid"
	StatusPartiallyPaid Status = "Partially Paid"
	StatusPaid          Status = "Paid"
)

// RateType selects how the freight rate is applied.
type RateType string

const (
	RatePerTrip RateType = "per-trip"
	RatePerTon  RateType = "per-ton"
	RatePerKM   RateType = "per-km"
)

// TruckHiringNote records hiring a truck from an owner or agency for a trip.
type TruckHiringNote struct {
	ID            int64           `json:"id"`
	THNNumber     int64           `json:"thn_number"`
	Date          time.Time       `json:"date"`
	TruckNumber   string          `json:"truck_number"`
	OwnerName     string          `json:"owner_name"`
	OwnerContact  string          `json:"owner_contact,omitempty"`
	From          string          `json:"from"`
	To            string          `json:"to"`
	FreightRate   decimal.Decimal `json:"freight_rate"`
	RateType      RateType        `json:"rate_type"`
	Quantity      decimal.Decimal `json:"quantity"`
	FreightAmount decimal.Decimal `json:"freight_amount"`
	AdvanceAmount decimal.Decimal `json:"advance_amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	BalanceAmount decimal.Decimal `json:"balance_amount"`
	Status        Status          `json:"status"`
	Remarks       string          `json:"remarks,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Input carries create/update payloads. THNNumber zero requests an allocated
// number; non-zero is a manual entry checked for uniqueness.
type Input struct {
	THNNumber     int64           `json:"thn_number"`
	Date          time.Time       `json:"date" validate:"required"`
	TruckNumber   string          `json:"truck_number" validate:"required,max=20"`
	OwnerName     string          `json:"owner_name" validate:"required,max=100"`
	OwnerContact  string          `json:"owner_contact" validate:"max=50"`
	From          string          `json:"from" validate:"required,max=100"`
	To            string          `json:"to" validate:"required,max=100"`
	FreightRate   decimal.Decimal `json:"freight_rate" validate:"required"`
	RateType      RateType        `json:"rate_type" validate:"required,oneof=per-trip per-ton per-km"`
	Quantity      decimal.Decimal `json:"quantity"`
	AdvanceAmount decimal.Decimal `json:"advance_amount"`
	Remarks       string          `json:"remarks" validate:"max=500"`
}

// FreightAmountValue computes the trip freight from rate and quantity. A
// per-trip note ignores quantity.
func (in Input) FreightAmountValue() decimal.Decimal {
	if in.RateType == RatePerTrip {
		return in.FreightRate
	}
	return in.FreightRate.Mul(in.Quantity)
}

// ListFilters narrows THN listings.
type ListFilters struct {
	Page   int
	Limit  int
	Status Status
}

// DeriveStatus maps settled money (advance plus payments) against the trip
// freight.
func DeriveStatus(freight, advance, paid decimal.Decimal) Status {
	settled := advance.Add(paid)
	switch {
	case settled.LessThanOrEqual(decimal.Zero):
		return StatusUnpaid
	case settled.GreaterThanOrEqual(freight):
		return StatusPaid
	default:
		return StatusPartiallyPaid
	}
}
