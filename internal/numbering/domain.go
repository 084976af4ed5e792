package numbering

import (
	"strconv"
	"time"
)

// DocType names a document number sequence.
type DocType string

const (
	DocTypeInvoice     DocType = "invoice"
	DocTypeConsignment DocType = "consignment"
	DocTypeTruckHiring DocType = "truckhiring"
)

// seed describes how a sequence is initialised when first allocated from.
type seed struct {
	Start  int64
	Prefix string
}

// seeds holds the type-specific defaults used for lazy config creation.
var seeds = map[DocType]seed{
	DocTypeInvoice:     {Start: 1001, Prefix: "INV-"},
	DocTypeConsignment: {Start: 5001, Prefix: "LR-"},
	DocTypeTruckHiring: {Start: 2001, Prefix: "THN-"},
}

// Known reports whether t is a recognised sequence type.
func Known(t DocType) bool {
	_, ok := seeds[t]
	return ok
}

// Config is the persisted state of one sequence. CurrentNumber is always the
// next number to hand out and is monotonically non-decreasing while the
// config exists.
type Config struct {
	DocType        DocType   `json:"doc_type"`
	StartingNumber int64     `json:"starting_number"`
	CurrentNumber  int64     `json:"current_number"`
	Prefix         string    `json:"prefix"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Format renders a number with the sequence prefix, e.g. INV-1042.
func (c Config) Format(n int64) string {
	return c.Prefix + strconv.FormatInt(n, 10)
}
