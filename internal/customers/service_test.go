package customers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/freightdesk/freightdesk/internal/shared"
)

type memoryCustomerRepo struct {
	customers map[int64]*Customer
	refs      map[int64]int64
	nextID    int64
}

func newMemoryCustomerRepo() *memoryCustomerRepo {
	return &memoryCustomerRepo{customers: make(map[int64]*Customer), refs: make(map[int64]int64)}
}

func (r *memoryCustomerRepo) Create(ctx context.Context, input CustomerInput) (*Customer, error) {
	r.nextID++
	c := &Customer{
		ID: r.nextID, Name: input.Name, TradeName: input.TradeName, Address: input.Address,
		City: input.City, State: input.State, Pin: input.Pin, ContactNumber: input.ContactNumber,
		Email: input.Email, GSTIN: input.GSTIN, GSTINSource: input.GSTINSource,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	r.customers[c.ID] = c
	return c, nil
}

func (r *memoryCustomerRepo) Get(ctx context.Context, id int64) (*Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return c, nil
}

func (r *memoryCustomerRepo) GetMany(ctx context.Context, ids []int64) (map[int64]Customer, error) {
	out := make(map[int64]Customer)
	for _, id := range ids {
		if c, ok := r.customers[id]; ok {
			out[id] = *c
		}
	}
	return out, nil
}

func (r *memoryCustomerRepo) List(ctx context.Context, filters ListFilters) ([]Customer, int, error) {
	var out []Customer
	for _, c := range r.customers {
		out = append(out, *c)
	}
	return out, len(out), nil
}

func (r *memoryCustomerRepo) ListAll(ctx context.Context) ([]Customer, error) {
	var out []Customer
	for _, c := range r.customers {
		out = append(out, *c)
	}
	return out, nil
}

func (r *memoryCustomerRepo) Update(ctx context.Context, id int64, input CustomerInput) (*Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	c.Name = input.Name
	c.GSTIN = input.GSTIN
	c.GSTINSource = input.GSTINSource
	return c, nil
}

func (r *memoryCustomerRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.customers[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.customers, id)
	return nil
}

func (r *memoryCustomerRepo) CountReferences(ctx context.Context, id int64) (int64, error) {
	return r.refs[id], nil
}

func (r *memoryCustomerRepo) MarkVerified(ctx context.Context, id int64, legalName string, verifiedAt time.Time) error {
	if c, ok := r.customers[id]; ok {
		c.GSTINLastVerified = &verifiedAt
	}
	return nil
}

func TestCreateNormalizesGSTIN(t *testing.T) {
	svc := NewService(newMemoryCustomerRepo())
	c, err := svc.Create(context.Background(), CustomerInput{
		Name:  "Sharma Transport Co",
		GSTIN: "27aapfu0939f1zv",
	})
	require.NoError(t, err)
	require.Equal(t, "27AAPFU0939F1ZV", c.GSTIN)
	require.Equal(t, GSTINSourceManual, c.GSTINSource)
}

func TestCreateRejectsBadGSTIN(t *testing.T) {
	svc := NewService(newMemoryCustomerRepo())
	_, err := svc.Create(context.Background(), CustomerInput{
		Name:  "Sharma Transport Co",
		GSTIN: "SHORT",
	})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestCreateRequiresName(t *testing.T) {
	svc := NewService(newMemoryCustomerRepo())
	_, err := svc.Create(context.Background(), CustomerInput{})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestDeleteBlockedWhileReferenced(t *testing.T) {
	repo := newMemoryCustomerRepo()
	svc := NewService(repo)
	c, err := svc.Create(context.Background(), CustomerInput{Name: "Verma Logistics"})
	require.NoError(t, err)

	repo.refs[c.ID] = 3
	err = svc.Delete(context.Background(), c.ID)
	require.ErrorIs(t, err, shared.ErrConflict)

	repo.refs[c.ID] = 0
	require.NoError(t, svc.Delete(context.Background(), c.ID))
}
