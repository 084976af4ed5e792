package report

import (
	"bytes"
	"embed"
	"html/template"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/freightdesk/freightdesk/internal/company"
	"github.com/freightdesk/freightdesk/internal/customers"
	"github.com/freightdesk/freightdesk/internal/invoices"
	"github.com/freightdesk/freightdesk/internal/ledger"
	"github.com/freightdesk/freightdesk/internal/lorryreceipts"
	"github.com/freightdesk/freightdesk/internal/shared"
)

//go:embed templates/*.html
var templateFS embed.FS

// inrPrinter groups digits the Indian way: 1,18,000.00.
var inrPrinter = message.NewPrinter(language.MustParse("en-IN"))

func formatINR(d decimal.Decimal) string {
	f, _ := d.Float64()
	return inrPrinter.Sprintf("%v", number.Decimal(f,
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

func formatDate(t time.Time) string {
	return t.Format("02-01-2006")
}

var templates = template.Must(template.New("report").Funcs(template.FuncMap{
	"inr":  formatINR,
	"date": formatDate,
}).ParseFS(templateFS, "templates/*.html"))

// ConsignmentNoteData feeds the consignment note template.
type ConsignmentNoteData struct {
	Company   company.Info
	Receipt   lorryreceipts.LorryReceipt
	Consignor customers.Customer
	Consignee customers.Customer
}

// InvoiceLine is one billed consignment on a tax invoice.
type InvoiceLine struct {
	LRNumber int64
	Date     time.Time
	From     string
	To       string
	Amount   decimal.Decimal
}

// TaxInvoiceData feeds the tax invoice template.
type TaxInvoiceData struct {
	Company  company.Info
	Bank     *company.BankAccount
	Customer customers.Customer
	Invoice  invoices.Invoice
	Lines    []InvoiceLine
}

// LedgerStatementData feeds the client ledger statement template.
type LedgerStatementData struct {
	Company  company.Info
	Customer customers.Customer
	Ledger   ledger.ClientLedgerData
	Period   shared.DateRange
}

func renderTemplate(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderConsignmentNote produces the printable consignment note HTML.
func RenderConsignmentNote(data ConsignmentNoteData) (string, error) {
	return renderTemplate("consignment_note.html", data)
}

// RenderTaxInvoice produces the printable tax invoice HTML.
func RenderTaxInvoice(data TaxInvoiceData) (string, error) {
	return renderTemplate("tax_invoice.html", data)
}

// RenderLedgerStatement produces the printable ledger statement HTML.
func RenderLedgerStatement(data LedgerStatementData) (string, error) {
	return renderTemplate("ledger_statement.html", data)
}
