package invoices

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/freightdesk/freightdesk/internal/numbering"
	"github.com/freightdesk/freightdesk/internal/shared"
)

type memoryInvoiceRepo struct {
	mu       sync.Mutex
	nextID   int64
	invoices map[int64]*Invoice
	lrs      map[int64]*LRFreight
	payments map[int64]int64
}

func newMemoryInvoiceRepo() *memoryInvoiceRepo {
	return &memoryInvoiceRepo{
		nextID:   1,
		invoices: map[int64]*Invoice{},
		lrs:      map[int64]*LRFreight{},
		payments: map[int64]int64{},
	}
}

func (m *memoryInvoiceRepo) addLR(id, number int64, freight string) {
	m.lrs[id] = &LRFreight{
		ID:       id,
		LRNumber: number,
		Freight:  decimal.RequireFromString(freight),
		Status:   "Created",
	}
}

func (m *memoryInvoiceRepo) FetchLRFreights(_ context.Context, ids []int64) ([]LRFreight, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []LRFreight
	for _, id := range ids {
		if lr, ok := m.lrs[id]; ok {
			out = append(out, *lr)
		}
	}
	return out, nil
}

func (m *memoryInvoiceRepo) CreateWithLRs(_ context.Context, inv Invoice) (*Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, other := range m.invoices {
		if other.InvoiceNumber == inv.InvoiceNumber {
			return nil, fmt.Errorf("%w: invoice number %d", shared.ErrDuplicateNumber, inv.InvoiceNumber)
		}
	}
	inv.ID = m.nextID
	m.nextID++
	for _, lrID := range inv.LorryReceipts {
		lr, ok := m.lrs[lrID]
		if !ok {
			return nil, shared.ErrNotFound
		}
		lr.Status = "Invoiced"
		invID := inv.ID
		lr.InvoiceID = &invID
	}
	stored := inv
	m.invoices[inv.ID] = &stored
	out := stored
	return &out, nil
}

func (m *memoryInvoiceRepo) Get(_ context.Context, id int64) (*Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.invoices[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	out := *inv
	return &out, nil
}

func (m *memoryInvoiceRepo) List(_ context.Context, _ ListFilters) ([]Invoice, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Invoice
	for _, inv := range m.invoices {
		out = append(out, *inv)
	}
	return out, len(out), nil
}

func (m *memoryInvoiceRepo) ListAll(ctx context.Context) ([]Invoice, error) {
	items, _, err := m.List(ctx, ListFilters{})
	return items, err
}

func (m *memoryInvoiceRepo) UpdateWithLRs(_ context.Context, inv Invoice, previousLRs []int64) (*Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.invoices[inv.ID]; !ok {
		return nil, shared.ErrNotFound
	}
	current := make(map[int64]bool, len(inv.LorryReceipts))
	for _, id := range inv.LorryReceipts {
		current[id] = true
	}
	for _, id := range previousLRs {
		if !current[id] {
			if lr, ok := m.lrs[id]; ok {
				lr.Status = "Created"
				lr.InvoiceID = nil
			}
		}
	}
	for _, id := range inv.LorryReceipts {
		lr, ok := m.lrs[id]
		if !ok {
			return nil, shared.ErrNotFound
		}
		lr.Status = "Invoiced"
		invID := inv.ID
		lr.InvoiceID = &invID
	}
	stored := inv
	m.invoices[inv.ID] = &stored
	out := stored
	return &out, nil
}

func (m *memoryInvoiceRepo) DeleteWithLRs(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.invoices[id]
	if !ok {
		return shared.ErrNotFound
	}
	for _, lrID := range inv.LorryReceipts {
		if lr, ok := m.lrs[lrID]; ok {
			lr.Status = "Created"
			lr.InvoiceID = nil
		}
	}
	delete(m.invoices, id)
	return nil
}

func (m *memoryInvoiceRepo) CountPayments(_ context.Context, id int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.payments[id], nil
}

type fakeAllocator struct {
	next int64
}

func (f *fakeAllocator) AllocateNext(_ context.Context, _ numbering.DocType) (int64, error) {
	f.next++
	return f.next, nil
}

func (f *fakeAllocator) AllocateManual(_ context.Context, _ numbering.DocType, candidate int64) (int64, error) {
	return candidate, nil
}

func testInput(lrIDs []int64, gst GSTDetails) Input {
	return Input{
		Date:          time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC),
		CustomerID:    7,
		LorryReceipts: lrIDs,
		GST:           gst,
	}
}

func TestCreateComputesCGSTSGST(t *testing.T) {
	repo := newMemoryInvoiceRepo()
	repo.addLR(1, 5001, "600")
	repo.addLR(2, 5002, "400")
	svc := NewService(repo, &fakeAllocator{next: 1000})

	result, err := svc.Create(context.Background(), testInput([]int64{1, 2}, GSTDetails{
		Type:     GSTTypeCGSTSGST,
		CGSTRate: decimal.NewFromInt(9),
		SGSTRate: decimal.NewFromInt(9),
	}))
	require.NoError(t, err)
	require.False(t, result.HasZeroFreight)

	inv := result.Invoice
	require.Equal(t, int64(1001), inv.InvoiceNumber)
	require.True(t, inv.TotalAmount.Equal(decimal.NewFromInt(1000)), "total %s", inv.TotalAmount)
	require.True(t, inv.GST.CGSTAmount.Equal(decimal.NewFromInt(90)), "cgst %s", inv.GST.CGSTAmount)
	require.True(t, inv.GST.SGSTAmount.Equal(decimal.NewFromInt(90)), "sgst %s", inv.GST.SGSTAmount)
	require.True(t, inv.GST.IGSTAmount.IsZero())
	require.True(t, inv.GrandTotal.Equal(decimal.NewFromInt(1180)), "grand %s", inv.GrandTotal)
	require.Equal(t, StatusUnpaid, inv.Status)

	require.Equal(t, "Invoiced", repo.lrs[1].Status)
	require.Equal(t, "Invoiced", repo.lrs[2].Status)
}

func TestCreateComputesIGST(t *testing.T) {
	repo := newMemoryInvoiceRepo()
	repo.addLR(1, 5001, "1000")
	svc := NewService(repo, &fakeAllocator{next: 1000})

	result, err := svc.Create(context.Background(), testInput([]int64{1}, GSTDetails{
		Type:     GSTTypeIGST,
		IGSTRate: decimal.NewFromInt(18),
	}))
	require.NoError(t, err)

	inv := result.Invoice
	require.True(t, inv.GST.IGSTAmount.Equal(decimal.NewFromInt(180)), "igst %s", inv.GST.IGSTAmount)
	require.True(t, inv.GST.CGSTAmount.IsZero())
	require.True(t, inv.GST.SGSTAmount.IsZero())
	require.True(t, inv.GrandTotal.Equal(decimal.NewFromInt(1180)), "grand %s", inv.GrandTotal)
}

func TestCreateRCMZeroesTaxes(t *testing.T) {
	repo := newMemoryInvoiceRepo()
	repo.addLR(1, 5001, "1000")
	svc := NewService(repo, &fakeAllocator{next: 1000})

	result, err := svc.Create(context.Background(), testInput([]int64{1}, GSTDetails{
		Type:     GSTTypeCGSTSGST,
		IsRCM:    true,
		CGSTRate: decimal.NewFromInt(9),
		SGSTRate: decimal.NewFromInt(9),
	}))
	require.NoError(t, err)

	inv := result.Invoice
	require.True(t, inv.GST.CGSTAmount.IsZero())
	require.True(t, inv.GST.SGSTAmount.IsZero())
	require.True(t, inv.GST.IGSTAmount.IsZero())
	require.True(t, inv.GrandTotal.Equal(decimal.NewFromInt(1000)), "grand %s", inv.GrandTotal)
}

func TestCreateManualGSTKeepsAmounts(t *testing.T) {
	repo := newMemoryInvoiceRepo()
	repo.addLR(1, 5001, "1000")
	svc := NewService(repo, &fakeAllocator{next: 1000})

	result, err := svc.Create(context.Background(), testInput([]int64{1}, GSTDetails{
		Type:        GSTTypeCGSTSGST,
		IsManualGST: true,
		CGSTAmount:  decimal.RequireFromString("77.50"),
		SGSTAmount:  decimal.RequireFromString("77.50"),
	}))
	require.NoError(t, err)

	inv := result.Invoice
	require.True(t, inv.GST.CGSTAmount.Equal(decimal.RequireFromString("77.50")))
	require.True(t, inv.GrandTotal.Equal(decimal.NewFromInt(1155)), "grand %s", inv.GrandTotal)
}

func TestCreateFlagsZeroFreight(t *testing.T) {
	repo := newMemoryInvoiceRepo()
	repo.addLR(1, 5001, "1000")
	repo.addLR(2, 5002, "0")
	svc := NewService(repo, &fakeAllocator{next: 1000})

	result, err := svc.Create(context.Background(), testInput([]int64{1, 2}, GSTDetails{Type: GSTTypeCGSTSGST}))
	require.NoError(t, err)
	require.True(t, result.HasZeroFreight)
}

func TestCreateRejectsInvoicedReceipt(t *testing.T) {
	repo := newMemoryInvoiceRepo()
	repo.addLR(1, 5001, "1000")
	svc := NewService(repo, &fakeAllocator{next: 1000})

	_, err := svc.Create(context.Background(), testInput([]int64{1}, GSTDetails{Type: GSTTypeCGSTSGST}))
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), testInput([]int64{1}, GSTDetails{Type: GSTTypeCGSTSGST}))
	require.ErrorIs(t, err, shared.ErrConflict)
}

func TestCreateRejectsMissingReceipt(t *testing.T) {
	repo := newMemoryInvoiceRepo()
	repo.addLR(1, 5001, "1000")
	svc := NewService(repo, &fakeAllocator{next: 1000})

	_, err := svc.Create(context.Background(), testInput([]int64{1, 99}, GSTDetails{Type: GSTTypeCGSTSGST}))
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestUpdateReconcilesReceiptMembership(t *testing.T) {
	repo := newMemoryInvoiceRepo()
	repo.addLR(1, 5001, "600")
	repo.addLR(2, 5002, "400")
	repo.addLR(3, 5003, "250")
	svc := NewService(repo, &fakeAllocator{next: 1000})

	created, err := svc.Create(context.Background(), testInput([]int64{1, 2}, GSTDetails{Type: GSTTypeCGSTSGST}))
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.Invoice.ID,
		testInput([]int64{1, 3}, GSTDetails{Type: GSTTypeCGSTSGST}))
	require.NoError(t, err)

	require.True(t, updated.Invoice.TotalAmount.Equal(decimal.NewFromInt(850)), "total %s", updated.Invoice.TotalAmount)
	require.Equal(t, "Created", repo.lrs[2].Status)
	require.Nil(t, repo.lrs[2].InvoiceID)
	require.Equal(t, "Invoiced", repo.lrs[3].Status)
	require.Equal(t, created.Invoice.InvoiceNumber, updated.Invoice.InvoiceNumber)
}

func TestUpdateRejectsReceiptOnOtherInvoice(t *testing.T) {
	repo := newMemoryInvoiceRepo()
	repo.addLR(1, 5001, "600")
	repo.addLR(2, 5002, "400")
	svc := NewService(repo, &fakeAllocator{next: 1000})

	first, err := svc.Create(context.Background(), testInput([]int64{1}, GSTDetails{Type: GSTTypeCGSTSGST}))
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), testInput([]int64{2}, GSTDetails{Type: GSTTypeCGSTSGST}))
	require.NoError(t, err)
	require.NotEqual(t, first.Invoice.ID, second.Invoice.ID)

	_, err = svc.Update(context.Background(), second.Invoice.ID,
		testInput([]int64{1, 2}, GSTDetails{Type: GSTTypeCGSTSGST}))
	require.ErrorIs(t, err, shared.ErrConflict)
}

func TestDeleteBlockedByPayments(t *testing.T) {
	repo := newMemoryInvoiceRepo()
	repo.addLR(1, 5001, "1000")
	svc := NewService(repo, &fakeAllocator{next: 1000})

	created, err := svc.Create(context.Background(), testInput([]int64{1}, GSTDetails{Type: GSTTypeCGSTSGST}))
	require.NoError(t, err)

	repo.payments[created.Invoice.ID] = 2
	err = svc.Delete(context.Background(), created.Invoice.ID)
	require.ErrorIs(t, err, shared.ErrConflict)

	repo.payments[created.Invoice.ID] = 0
	require.NoError(t, svc.Delete(context.Background(), created.Invoice.ID))
	require.Equal(t, "Created", repo.lrs[1].Status)

	_, err = svc.Get(context.Background(), created.Invoice.ID)
	require.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestDeriveStatus(t *testing.T) {
	grand := decimal.NewFromInt(1180)
	require.Equal(t, StatusUnpaid, DeriveStatus(grand, decimal.Zero))
	require.Equal(t, StatusPartiallyPaid, DeriveStatus(grand, decimal.NewFromInt(500)))
	require.Equal(t, StatusPaid, DeriveStatus(grand, grand))
	require.Equal(t, StatusPaid, DeriveStatus(grand, decimal.NewFromInt(2000)))
}
