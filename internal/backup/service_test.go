package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/freightdesk/freightdesk/internal/company"
	"github.com/freightdesk/freightdesk/internal/customers"
	"github.com/freightdesk/freightdesk/internal/invoices"
	"github.com/freightdesk/freightdesk/internal/lorryreceipts"
	"github.com/freightdesk/freightdesk/internal/numbering"
	"github.com/freightdesk/freightdesk/internal/payments"
	"github.com/freightdesk/freightdesk/internal/shared"
	"github.com/freightdesk/freightdesk/internal/truckhiring"
)

type fakeCustomers struct{}

func (fakeCustomers) ListAll(_ context.Context) ([]customers.Customer, error) {
	return []customers.Customer{{ID: 1, Name: "Acme"}}, nil
}

type fakeLRs struct{}

func (fakeLRs) ListAll(_ context.Context) ([]lorryreceipts.LorryReceipt, error) {
	return []lorryreceipts.LorryReceipt{{ID: 1, LRNumber: 5001}}, nil
}

type fakeInvoices struct{}

func (fakeInvoices) ListAll(_ context.Context) ([]invoices.Invoice, error) {
	return []invoices.Invoice{{ID: 1, InvoiceNumber: 1001, GrandTotal: decimal.NewFromInt(1180)}}, nil
}

type fakePayments struct{}

func (fakePayments) ListAll(_ context.Context) ([]payments.Payment, error) {
	return nil, nil
}

type fakeTHNs struct{}

func (fakeTHNs) ListAll(_ context.Context) ([]truckhiring.TruckHiringNote, error) {
	return nil, nil
}

type fakeCompany struct{}

func (fakeCompany) Get(_ context.Context) (*company.Info, error) {
	return nil, shared.ErrNotFound
}

func (fakeCompany) ListBankAccounts(_ context.Context) ([]company.BankAccount, error) {
	return nil, nil
}

type fakeNumbering struct {
	resynced *bool
}

func (f fakeNumbering) List(_ context.Context) ([]numbering.Config, error) {
	return []numbering.Config{{DocType: numbering.DocTypeInvoice, StartingNumber: 1001, CurrentNumber: 1002, Prefix: "INV-"}}, nil
}

func (f fakeNumbering) ResyncAll(_ context.Context) (map[numbering.DocType]int64, error) {
	*f.resynced = true
	return map[numbering.DocType]int64{numbering.DocTypeInvoice: 1002}, nil
}

type fakeRestorer struct {
	snap *Snapshot
}

func (f *fakeRestorer) Restore(_ context.Context, snap *Snapshot) error {
	f.snap = snap
	return nil
}

func newTestService(resynced *bool, restorer *fakeRestorer) *Service {
	return NewService(slog.Default(), fakeCustomers{}, fakeLRs{}, fakeInvoices{},
		fakePayments{}, fakeTHNs{}, fakeCompany{}, fakeNumbering{resynced: resynced}, restorer)
}

func TestExportSnapshot(t *testing.T) {
	var resynced bool
	svc := newTestService(&resynced, &fakeRestorer{})

	var buf bytes.Buffer
	require.NoError(t, svc.Export(context.Background(), &buf))

	var snap Snapshot
	require.NoError(t, json.Unmarshal(buf.Bytes(), &snap))
	require.Equal(t, FormatVersion, snap.Version)
	require.Len(t, snap.Customers, 1)
	require.Len(t, snap.Invoices, 1)
	require.Len(t, snap.NumberingConfigs, 1)
	require.Nil(t, snap.Company)
}

func TestRestoreResyncsSequences(t *testing.T) {
	var resynced bool
	restorer := &fakeRestorer{}
	svc := newTestService(&resynced, restorer)

	var buf bytes.Buffer
	require.NoError(t, svc.Export(context.Background(), &buf))
	require.NoError(t, svc.Restore(context.Background(), &buf))
	require.True(t, resynced)
	require.NotNil(t, restorer.snap)
	require.Len(t, restorer.snap.Customers, 1)
}

func TestRestoreRejectsWrongVersion(t *testing.T) {
	var resynced bool
	svc := newTestService(&resynced, &fakeRestorer{})

	err := svc.Restore(context.Background(), strings.NewReader(`{"version": 99}`))
	require.ErrorIs(t, err, shared.ErrValidation)
	require.False(t, resynced)
}
