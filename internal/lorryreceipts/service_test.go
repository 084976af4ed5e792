package lorryreceipts

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/freightdesk/freightdesk/internal/numbering"
	"github.com/freightdesk/freightdesk/internal/shared"
)

type memoryLRRepo struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]*LorryReceipt
}

func newMemoryLRRepo() *memoryLRRepo {
	return &memoryLRRepo{nextID: 1, items: map[int64]*LorryReceipt{}}
}

func (m *memoryLRRepo) Create(_ context.Context, lr LorryReceipt) (*LorryReceipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, other := range m.items {
		if other.LRNumber == lr.LRNumber {
			return nil, fmt.Errorf("%w: lr number %d", shared.ErrDuplicateNumber, lr.LRNumber)
		}
	}
	lr.ID = m.nextID
	m.nextID++
	stored := lr
	m.items[lr.ID] = &stored
	out := stored
	return &out, nil
}

func (m *memoryLRRepo) Get(_ context.Context, id int64) (*LorryReceipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	lr, ok := m.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	out := *lr
	return &out, nil
}

func (m *memoryLRRepo) GetByIDs(_ context.Context, ids []int64) ([]LorryReceipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []LorryReceipt
	for _, id := range ids {
		if lr, ok := m.items[id]; ok {
			out = append(out, *lr)
		}
	}
	return out, nil
}

func (m *memoryLRRepo) List(_ context.Context, filters ListFilters) ([]LorryReceipt, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []LorryReceipt
	for _, lr := range m.items {
		if filters.Status != "" && lr.Status != filters.Status {
			continue
		}
		if filters.Unbilled && lr.InvoiceID != nil {
			continue
		}
		out = append(out, *lr)
	}
	return out, len(out), nil
}

func (m *memoryLRRepo) ListAll(ctx context.Context) ([]LorryReceipt, error) {
	items, _, err := m.List(ctx, ListFilters{})
	return items, err
}

func (m *memoryLRRepo) Update(_ context.Context, id int64, lr LorryReceipt) (*LorryReceipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	lr.ID = id
	lr.Status = existing.Status
	stored := lr
	m.items[id] = &stored
	out := stored
	return &out, nil
}

func (m *memoryLRRepo) UpdateStatus(_ context.Context, id int64, status Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	lr, ok := m.items[id]
	if !ok {
		return shared.ErrNotFound
	}
	lr.Status = status
	return nil
}

func (m *memoryLRRepo) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

type stubAllocator struct {
	next    int64
	manuals map[int64]bool
}

func (f *stubAllocator) AllocateNext(_ context.Context, _ numbering.DocType) (int64, error) {
	f.next++
	return f.next, nil
}

func (f *stubAllocator) AllocateManual(_ context.Context, _ numbering.DocType, candidate int64) (int64, error) {
	if f.manuals[candidate] {
		return 0, fmt.Errorf("%w: number %d", shared.ErrDuplicateNumber, candidate)
	}
	return candidate, nil
}

func lrInput(number int64, freight string) Input {
	return Input{
		LRNumber:    number,
		Date:        time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC),
		ConsignorID: 3,
		ConsigneeID: 4,
		From:        "Nagpur",
		To:          "Pune",
		Packages:    []Package{{Description: "Cartons", Count: 12, ActualWeight: decimal.NewFromInt(480), ChargedWeight: decimal.NewFromInt(500)}},
		Charges: Charges{
			Freight: decimal.RequireFromString(freight),
			Hamali:  decimal.NewFromInt(50),
		},
	}
}

func TestCreateAllocatesNumberAndTotals(t *testing.T) {
	repo := newMemoryLRRepo()
	svc := NewService(repo, &stubAllocator{next: 5000})

	lr, err := svc.Create(context.Background(), lrInput(0, "1200"))
	require.NoError(t, err)
	require.Equal(t, int64(5001), lr.LRNumber)
	require.Equal(t, StatusCreated, lr.Status)
	require.True(t, lr.TotalAmount.Equal(decimal.NewFromInt(1250)), "total %s", lr.TotalAmount)
}

func TestCreateManualNumber(t *testing.T) {
	repo := newMemoryLRRepo()
	alloc := &stubAllocator{next: 5000, manuals: map[int64]bool{5100: true}}
	svc := NewService(repo, alloc)

	lr, err := svc.Create(context.Background(), lrInput(5200, "800"))
	require.NoError(t, err)
	require.Equal(t, int64(5200), lr.LRNumber)

	_, err = svc.Create(context.Background(), lrInput(5100, "800"))
	require.ErrorIs(t, err, shared.ErrDuplicateNumber)
}

func TestCreateValidatesInput(t *testing.T) {
	svc := NewService(newMemoryLRRepo(), &stubAllocator{})

	input := lrInput(0, "100")
	input.From = ""
	_, err := svc.Create(context.Background(), input)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestUpdateFrozenWhenInvoiced(t *testing.T) {
	repo := newMemoryLRRepo()
	svc := NewService(repo, &stubAllocator{next: 5000})

	lr, err := svc.Create(context.Background(), lrInput(0, "900"))
	require.NoError(t, err)
	repo.items[lr.ID].Status = StatusInvoiced

	_, err = svc.Update(context.Background(), lr.ID, lrInput(0, "950"))
	require.ErrorIs(t, err, shared.ErrConflict)

	err = svc.Delete(context.Background(), lr.ID)
	require.ErrorIs(t, err, shared.ErrConflict)
}

func TestUpdateRecomputesTotal(t *testing.T) {
	repo := newMemoryLRRepo()
	svc := NewService(repo, &stubAllocator{next: 5000})

	lr, err := svc.Create(context.Background(), lrInput(0, "900"))
	require.NoError(t, err)

	input := lrInput(0, "1000")
	input.Charges.DetentionCharge = decimal.NewFromInt(75)
	updated, err := svc.Update(context.Background(), lr.ID, input)
	require.NoError(t, err)
	require.Equal(t, lr.LRNumber, updated.LRNumber)
	require.True(t, updated.TotalAmount.Equal(decimal.NewFromInt(1125)), "total %s", updated.TotalAmount)
}

func TestUpdateStatusManualOnly(t *testing.T) {
	repo := newMemoryLRRepo()
	svc := NewService(repo, &stubAllocator{next: 5000})

	lr, err := svc.Create(context.Background(), lrInput(0, "900"))
	require.NoError(t, err)

	require.NoError(t, svc.UpdateStatus(context.Background(), lr.ID, StatusInTransit))
	require.Equal(t, StatusInTransit, repo.items[lr.ID].Status)

	err = svc.UpdateStatus(context.Background(), lr.ID, StatusInvoiced)
	require.ErrorIs(t, err, shared.ErrValidation)

	repo.items[lr.ID].Status = StatusPaid
	err = svc.UpdateStatus(context.Background(), lr.ID, StatusDelivered)
	require.ErrorIs(t, err, shared.ErrConflict)
}
