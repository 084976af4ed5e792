package company

import "time"

// Info is the company profile. There is exactly one row; documents and
// ledgers print from it.
type Info struct {
	ID                   int64     `json:"id"`
	Name                 string    `json:"name"`
	Address              string    `json:"address,omitempty"`
	City                 string    `json:"city,omitempty"`
	State                string    `json:"state,omitempty"`
	PIN                  string    `json:"pin,omitempty"`
	Phone                string    `json:"phone,omitempty"`
	Email                string    `json:"email,omitempty"`
	GSTIN                string    `json:"gstin,omitempty"`
	PAN                  string    `json:"pan,omitempty"`
	CurrentBankAccountID *int64    `json:"current_bank_account_id,omitempty"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// InfoInput carries profile update payloads.
type InfoInput struct {
	Name    string `json:"name" validate:"required,max=200"`
	Address string `json:"address" validate:"max=500"`
	City    string `json:"city" validate:"max=100"`
	State   string `json:"state" validate:"max=100"`
	PIN     string `json:"pin" validate:"max=10"`
	Phone   string `json:"phone" validate:"max=20"`
	Email   string `json:"email" validate:"omitempty,email"`
	GSTIN   string `json:"gstin" validate:"omitempty,len=15,alphanum"`
	PAN     string `json:"pan" validate:"omitempty,len=10,alphanum"`
}

// BankAccount is one account the company can print on invoices.
type BankAccount struct {
	ID            int64     `json:"id"`
	BankName      string    `json:"bank_name"`
	AccountNumber string    `json:"account_number"`
	IFSC          string    `json:"ifsc"`
	Branch        string    `json:"branch,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// BankAccountInput carries bank account payloads.
type BankAccountInput struct {
	BankName      string `json:"bank_name" validate:"required,max=100"`
	AccountNumber string `json:"account_number" validate:"required,max=30"`
	IFSC          string `json:"ifsc" validate:"required,len=11,alphanum"`
	Branch        string `json:"branch" validate:"max=100"`
}
