package payments

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/freightdesk/freightdesk/internal/shared"
)

type memoryPaymentRepo struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]*Payment
}

func newMemoryPaymentRepo() *memoryPaymentRepo {
	return &memoryPaymentRepo{nextID: 1, items: map[int64]*Payment{}}
}

func (m *memoryPaymentRepo) Create(_ context.Context, p Payment) (*Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = m.nextID
	m.nextID++
	stored := p
	m.items[p.ID] = &stored
	out := stored
	return &out, nil
}

func (m *memoryPaymentRepo) Get(_ context.Context, id int64) (*Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	out := *p
	return &out, nil
}

func (m *memoryPaymentRepo) List(_ context.Context, filters ListFilters) ([]Payment, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Payment
	for _, p := range m.items {
		if filters.CustomerID > 0 && p.CustomerID != filters.CustomerID {
			continue
		}
		out = append(out, *p)
	}
	return out, len(out), nil
}

func (m *memoryPaymentRepo) ListAll(ctx context.Context) ([]Payment, error) {
	items, _, err := m.List(ctx, ListFilters{})
	return items, err
}

func (m *memoryPaymentRepo) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func paymentInput() Input {
	return Input{
		Amount:     decimal.NewFromInt(400),
		Date:       time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC),
		Type:       TypeReceipt,
		Mode:       ModeNEFT,
		CustomerID: 7,
	}
}

func TestCreatePayment(t *testing.T) {
	repo := newMemoryPaymentRepo()
	svc := NewService(repo)

	p, err := svc.Create(context.Background(), paymentInput())
	require.NoError(t, err)
	require.Equal(t, TypeReceipt, p.Type)
	require.True(t, p.Amount.Equal(decimal.NewFromInt(400)))
}

func TestCreateRejectsNonPositiveAmount(t *testing.T) {
	svc := NewService(newMemoryPaymentRepo())

	input := paymentInput()
	input.Amount = decimal.NewFromInt(-5)
	_, err := svc.Create(context.Background(), input)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestCreateRejectsUnknownMode(t *testing.T) {
	svc := NewService(newMemoryPaymentRepo())

	input := paymentInput()
	input.Mode = "Barter"
	_, err := svc.Create(context.Background(), input)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestCreateRejectsDoubleLink(t *testing.T) {
	svc := NewService(newMemoryPaymentRepo())

	invoiceID, thnID := int64(3), int64(9)
	input := paymentInput()
	input.InvoiceID = &invoiceID
	input.THNID = &thnID
	_, err := svc.Create(context.Background(), input)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestDeletePayment(t *testing.T) {
	repo := newMemoryPaymentRepo()
	svc := NewService(repo)

	p, err := svc.Create(context.Background(), paymentInput())
	require.NoError(t, err)
	require.NoError(t, svc.Delete(context.Background(), p.ID))

	err = svc.Delete(context.Background(), p.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)
}
