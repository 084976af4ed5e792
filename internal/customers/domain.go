package customers

import "time"

// GSTINSource records how a customer's GSTIN details were obtained.
type GSTINSource string

const (
	GSTINSourceAPI    GSTINSource = "api"
	GSTINSourceManual GSTINSource = "manual"
)

// Customer is a consignor, consignee or billed party.
type Customer struct {
	ID                int64       `json:"id"`
	Name              string      `json:"name"`
	TradeName         string      `json:"trade_name,omitempty"`
	Address           string      `json:"address,omitempty"`
	City              string      `json:"city,omitempty"`
	State             string      `json:"state,omitempty"`
	Pin               string      `json:"pin,omitempty"`
	ContactNumber     string      `json:"contact_number,omitempty"`
	Email             string      `json:"email,omitempty"`
	GSTIN             string      `json:"gstin,omitempty"`
	GSTINSource       GSTINSource `json:"gstin_source,omitempty"`
	GSTINLastVerified *time.Time  `json:"gstin_last_verified,omitempty"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

// CustomerInput carries create/update payloads.
type CustomerInput struct {
	Name          string      `json:"name" validate:"required,min=2,max=200"`
	TradeName     string      `json:"trade_name" validate:"max=200"`
	Address       string      `json:"address" validate:"max=500"`
	City          string      `json:"city" validate:"max=100"`
	State         string      `json:"state" validate:"max=100"`
	Pin           string      `json:"pin" validate:"omitempty,len=6,numeric"`
	ContactNumber string      `json:"contact_number" validate:"max=20"`
	Email         string      `json:"email" validate:"omitempty,email"`
	GSTIN         string      `json:"gstin" validate:"omitempty,len=15,alphanum"`
	GSTINSource   GSTINSource `json:"gstin_source" validate:"omitempty,oneof=api manual"`
}

// ListFilters represents customer list filters.
type ListFilters struct {
	Page   int
	Limit  int
	Search string
}
