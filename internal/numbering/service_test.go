package numbering

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/freightdesk/freightdesk/internal/shared"
)

type memoryNumberingRepo struct {
	mu      sync.Mutex
	configs map[DocType]*Config
	used    map[DocType]map[int64]bool
}

func newMemoryNumberingRepo() *memoryNumberingRepo {
	return &memoryNumberingRepo{
		configs: make(map[DocType]*Config),
		used:    make(map[DocType]map[int64]bool),
	}
}

func (r *memoryNumberingRepo) AllocateNext(ctx context.Context, docType DocType, s seed) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cfg, ok := r.configs[docType]
	if !ok {
		cfg = &Config{DocType: docType, StartingNumber: s.Start, CurrentNumber: s.Start, Prefix: s.Prefix}
		r.configs[docType] = cfg
	}
	allocated := cfg.CurrentNumber
	cfg.CurrentNumber++
	return allocated, nil
}

func (r *memoryNumberingRepo) Get(ctx context.Context, docType DocType) (*Config, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cfg, ok := r.configs[docType]
	if !ok {
		return nil, shared.ErrConfigNotFound
	}
	copied := *cfg
	return &copied, nil
}

func (r *memoryNumberingRepo) List(ctx context.Context) ([]Config, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Config
	for _, cfg := range r.configs {
		out = append(out, *cfg)
	}
	return out, nil
}

func (r *memoryNumberingRepo) SetCurrent(ctx context.Context, docType DocType, current int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cfg, ok := r.configs[docType]
	if !ok {
		return shared.ErrConfigNotFound
	}
	cfg.CurrentNumber = current
	return nil
}

func (r *memoryNumberingRepo) NumberExists(ctx context.Context, docType DocType, n int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.used[docType][n], nil
}

func (r *memoryNumberingRepo) MaxUsed(ctx context.Context, docType DocType) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var max int64
	for n := range r.used[docType] {
		if n > max {
			max = n
		}
	}
	return max, nil
}

func (r *memoryNumberingRepo) markUsed(docType DocType, n int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.used[docType] == nil {
		r.used[docType] = make(map[int64]bool)
	}
	r.used[docType][n] = true
}

func TestAllocateNextSeedsLazily(t *testing.T) {
	repo := newMemoryNumberingRepo()
	svc := NewService(repo)

	first, err := svc.AllocateNext(context.Background(), DocTypeConsignment)
	require.NoError(t, err)
	require.Equal(t, int64(5001), first)

	second, err := svc.AllocateNext(context.Background(), DocTypeConsignment)
	require.NoError(t, err)
	require.Equal(t, int64(5002), second)

	cfg, err := svc.Get(context.Background(), DocTypeConsignment)
	require.NoError(t, err)
	require.Equal(t, int64(5003), cfg.CurrentNumber)
	require.Equal(t, "LR-", cfg.Prefix)
}

func TestAllocateNextUnknownType(t *testing.T) {
	svc := NewService(newMemoryNumberingRepo())
	_, err := svc.AllocateNext(context.Background(), DocType("purchase"))
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestAllocateNextConcurrentCallsAreDistinct(t *testing.T) {
	repo := newMemoryNumberingRepo()
	svc := NewService(repo)

	const n = 64
	results := make(chan int64, n)
	errs := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			num, err := svc.AllocateNext(context.Background(), DocTypeInvoice)
			if err != nil {
				errs <- err
				return
			}
			results <- num
		}()
	}
	wg.Wait()
	close(results)
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	seen := make(map[int64]bool, n)
	var min, max int64
	for num := range results {
		require.False(t, seen[num], "number %d allocated twice", num)
		seen[num] = true
		if min == 0 || num < min {
			min = num
		}
		if num > max {
			max = num
		}
	}
	require.Len(t, seen, n)
	require.Equal(t, int64(1001), min)
	require.Equal(t, min+int64(n)-1, max, "allocations must form a contiguous run")
}

func TestAllocateManualRejectsDuplicates(t *testing.T) {
	repo := newMemoryNumberingRepo()
	svc := NewService(repo)
	repo.markUsed(DocTypeInvoice, 1050)

	_, err := svc.AllocateManual(context.Background(), DocTypeInvoice, 1050)
	require.ErrorIs(t, err, shared.ErrDuplicateNumber)

	num, err := svc.AllocateManual(context.Background(), DocTypeInvoice, 1051)
	require.NoError(t, err)
	require.Equal(t, int64(1051), num)
}

func TestAllocateManualLeavesCounterUntouched(t *testing.T) {
	repo := newMemoryNumberingRepo()
	svc := NewService(repo)

	_, err := svc.AllocateNext(context.Background(), DocTypeInvoice)
	require.NoError(t, err)
	before, err := svc.Get(context.Background(), DocTypeInvoice)
	require.NoError(t, err)

	_, err = svc.AllocateManual(context.Background(), DocTypeInvoice, 9999)
	require.NoError(t, err)

	after, err := svc.Get(context.Background(), DocTypeInvoice)
	require.NoError(t, err)
	require.Equal(t, before.CurrentNumber, after.CurrentNumber)
}

func TestResyncRepairsDrift(t *testing.T) {
	repo := newMemoryNumberingRepo()
	svc := NewService(repo)

	_, err := svc.AllocateNext(context.Background(), DocTypeInvoice)
	require.NoError(t, err)
	repo.markUsed(DocTypeInvoice, 1001)
	repo.markUsed(DocTypeInvoice, 2500) // manual entry far ahead of the sequence

	next, err := svc.Resync(context.Background(), DocTypeInvoice)
	require.NoError(t, err)
	require.Equal(t, int64(2501), next)

	// Idempotent: running again without new documents yields the same value.
	again, err := svc.Resync(context.Background(), DocTypeInvoice)
	require.NoError(t, err)
	require.Equal(t, next, again)
}

func TestResyncNeverDropsBelowSeed(t *testing.T) {
	repo := newMemoryNumberingRepo()
	svc := NewService(repo)

	_, err := svc.AllocateNext(context.Background(), DocTypeTruckHiring)
	require.NoError(t, err)

	// No documents recorded at all: counter snaps back to the seed start.
	next, err := svc.Resync(context.Background(), DocTypeTruckHiring)
	require.NoError(t, err)
	require.Equal(t, int64(2001), next)
}

func TestUpdateCurrentUnknownConfig(t *testing.T) {
	svc := NewService(newMemoryNumberingRepo())
	err := svc.UpdateCurrent(context.Background(), DocTypeInvoice, 42)
	require.ErrorIs(t, err, shared.ErrConfigNotFound)
}
