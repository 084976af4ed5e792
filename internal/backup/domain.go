package backup

import (
	"time"

	"github.com/freightdesk/freightdesk/internal/company"
	"github.com/freightdesk/freightdesk/internal/customers"
	"github.com/freightdesk/freightdesk/internal/invoices"
	"github.com/freightdesk/freightdesk/internal/lorryreceipts"
	"github.com/freightdesk/freightdesk/internal/numbering"
	"github.com/freightdesk/freightdesk/internal/payments"
	"github.com/freightdesk/freightdesk/internal/truckhiring"
)

// FormatVersion guards restores against snapshots from incompatible builds.
const FormatVersion = 1

// Snapshot is one full JSON dump of the database.
type Snapshot struct {
	Version          int                           `json:"version"`
	CreatedAt        time.Time                     `json:"created_at"`
	Customers        []customers.Customer          `json:"customers"`
	LorryReceipts    []lorryreceipts.LorryReceipt  `json:"lorry_receipts"`
	Invoices         []invoices.Invoice            `json:"invoices"`
	Payments         []payments.Payment            `json:"payments"`
	TruckHiringNotes []truckhiring.TruckHiringNote `json:"truck_hiring_notes"`
	Company          *company.Info                 `json:"company,omitempty"`
	BankAccounts     []company.BankAccount         `json:"bank_accounts"`
	NumberingConfigs []numbering.Config            `json:"numbering_configs"`
}
