package truckhiring

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

type memoryTHNRepo struct {
	mu       sync.Mutex
	nextID   int64
	items    map[int64]*TruckHiringNote
	payments map[int64]int64
}

func newMemoryTHNRepo() *memoryTHNRepo {
	return &memoryTHNRepo{nextID: 1, items: map[int64]*TruckHiringNote{}, payments: map[int64]int64{}}
}

func (m *memoryTHNRepo) Create(_ context.Context, thn TruckHiringNote) (*TruckHiringNote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, other := range m.items {
		if other.THNNumber == thn.THNNumber {
			return nil, fmt.Errorf("%w: thn number %d", shared.ErrDuplicateNumber, thn.THNNumber)
		}
	}
	thn.ID = m.nextID
	m.nextID++
	thn.BalanceAmount = thn.FreightAmount.Sub(thn.AdvanceAmount).Sub(thn.PaidAmount)
	stored := thn
	m.items[thn.ID] = &stored
	out := stored
	return &out, nil
}

func (m *memoryTHNRepo) Get(_ context.Context, id int64) (*TruckHiringNote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	thn, ok := m.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	out := *thn
	return &out, nil
}

func (m *memoryTHNRepo) List(_ context.Context, _ ListFilters) ([]TruckHiringNote, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []TruckHiringNote
	for _, thn := range m.items {
		out = append(out, *thn)
	}
	return out, len(out), nil
}

func (m *memoryTHNRepo) ListAll(ctx context.Context) ([]TruckHiringNote, error) {
	items, _, err := m.List(ctx, ListFilters{})
	return items, err
}

func (m *memoryTHNRepo) Update(_ context.Context, id int64, thn TruckHiringNote) (*TruckHiringNote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return nil, shared.ErrNotFound
	}
	thn.ID = id
	thn.BalanceAmount = thn.FreightAmount.Sub(thn.AdvanceAmount).Sub(thn.PaidAmount)
	stored := thn
	m.items[id] = &stored
	out := stored
	return &out, nil
}

func (m *memoryTHNRepo) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *memoryTHNRepo) CountPayments(_ context.Context, id int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.payments[id], nil
}

type seqAllocator struct {
	next int64
}

func (f *seqAllocator) AllocateNext(_ context.Context, _ numbering.DocType) (int64, error) {
	f.next++
	return f.next, nil
}

func (f *seqAllocator) AllocateManual(_ context.Context, _ numbering.DocType, candidate int64) (int64, error) {
	return candidate, nil
}

func thnInput() Input {
	return Input{
		Date:        time.Date(2025, 5, 3, 0, 0, 0, 0, time.UTC),
		TruckNumber: "MH31AB1234",
		OwnerName:   "Sharma Transport",
		From:        "Nagpur",
		To:          "Indore",
		FreightRate: decimal.NewFromInt(15000),
		RateType:    RatePerTrip,
	}
}

func TestCreateComputesFreightAndStatus(t *testing.T) {
	repo := newMemoryTHNRepo()
	svc := NewService(repo, &seqAllocator{next: 2000})

	thn, err := svc.Create(context.Background(), thnInput())
	require.NoError(t, err)
	require.Equal(t, int64(2001), thn.THNNumber)
	require.True(t, thn.FreightAmount.Equal(decimal.NewFromInt(15000)))
	require.True(t, thn.BalanceAmount.Equal(decimal.NewFromInt(15000)))
	require.Equal(t, StatusUnpaid, thn.Status)
}

func TestCreatePerTonFreight(t *testing.T) {
	repo := newMemoryTHNRepo()
	svc := NewService(repo, &seqAllocator{next: 2000})

	input := thnInput()
	input.RateType = RatePerTon
	input.FreightRate = decimal.NewFromInt(1200)
	input.Quantity = decimal.RequireFromString("12.5")
	thn, err := svc.Create(context.Background(), input)
	require.NoError(t, err)
	require.True(t, thn.FreightAmount.Equal(decimal.NewFromInt(15000)), "freight %s", thn.FreightAmount)
}

func TestCreateQuantityRequiredForPerTon(t *testing.T) {
	svc := NewService(newMemoryTHNRepo(), &seqAllocator{})

	input := thnInput()
	input.RateType = RatePerTon
	_, err := svc.Create(context.Background(), input)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestCreateAdvanceDrivesStatus(t *testing.T) {
	repo := newMemoryTHNRepo()
	svc := NewService(repo, &seqAllocator{next: 2000})

	input := thnInput()
	input.AdvanceAmount = decimal.NewFromInt(5000)
	thn, err := svc.Create(context.Background(), input)
	require.NoError(t, err)
	require.Equal(t, StatusPartiallyPaid, thn.Status)
	require.True(t, thn.BalanceAmount.Equal(decimal.NewFromInt(10000)))

	input.AdvanceAmount = decimal.NewFromInt(15000)
	thn, err = svc.Create(context.Background(), input)
	require.NoError(t, err)
	require.Equal(t, StatusPaid, thn.Status)
}

func TestUpdateKeepsPaidAmount(t *testing.T) {
	repo := newMemoryTHNRepo()
	svc := NewService(repo, &seqAllocator{next: 2000})

	thn, err := svc.Create(context.Background(), thnInput())
	require.NoError(t, err)
	repo.items[thn.ID].PaidAmount = decimal.NewFromInt(6000)

	input := thnInput()
	input.FreightRate = decimal.NewFromInt(16000)
	updated, err := svc.Update(context.Background(), thn.ID, input)
	require.NoError(t, err)
	require.Equal(t, thn.THNNumber, updated.THNNumber)
	require.Equal(t, StatusPartiallyPaid, updated.Status)
	require.True(t, updated.BalanceAmount.Equal(decimal.NewFromInt(10000)), "balance %s", updated.BalanceAmount)
}

func TestDeleteBlockedByPayments(t *testing.T) {
	repo := newMemoryTHNRepo()
	svc := NewService(repo, &seqAllocator{next: 2000})

	thn, err := svc.Create(context.Background(), thnInput())
	require.NoError(t, err)

	repo.payments[thn.ID] = 1
	err = svc.Delete(context.Background(), thn.ID)
	require.ErrorIs(t, err, shared.ErrConflict)

	repo.payments[thn.ID] = 0
	require.NoError(t, svc.Delete(context.Background(), thn.ID))
}

func TestDeriveStatusBoundaries(t *testing.T) {
	freight := decimal.NewFromInt(10000)
	require.Equal(t, StatusUnpaid, DeriveStatus(freight, decimal.Zero, decimal.Zero))
	require.Equal(t, StatusPartiallyPaid, DeriveStatus(freight, decimal.NewFromInt(1), decimal.Zero))
	require.Equal(t, StatusPaid, DeriveStatus(freight, decimal.NewFromInt(4000), decimal.NewFromInt(6000)))
}
