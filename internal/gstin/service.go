package gstin

import (
	"context"
	"log/slog"
	"time"

	"github.com/freightdesk/freightdesk/internal/customers"
)

// Verifier is the lookup side of the refresh loop.
type Verifier interface {
	Lookup(ctx context.Context, gstin string) (*Details, error)
}

// CustomerStore is the slice of the customer repository the refresher needs.
type CustomerStore interface {
	ListAll(ctx context.Context) ([]customers.Customer, error)
	MarkVerified(ctx context.Context, id int64, legalName string, verifiedAt time.Time) error
}

// Service re-verifies customer GSTINs against the lookup API.
type Service struct {
	logger *slog.Logger
	client Verifier
	store  CustomerStore
	window time.Duration
	batch  int
}

// NewService builds Service instance. window is how long a verification stays
// fresh; batch caps how many lookups one refresh run performs.
func NewService(logger *slog.Logger, client Verifier, store CustomerStore, window time.Duration, batch int) *Service {
	if batch <= 0 {
		batch = 25
	}
	return &Service{logger: logger, client: client, store: store, window: window, batch: batch}
}

// SelectDue picks customers whose GSTIN verification is stale: an API-sourced
// GSTIN never verified, or last verified before the cutoff.
func SelectDue(all []customers.Customer, cutoff time.Time) []customers.Customer {
	var due []customers.Customer
	for _, c := range all {
		if c.GSTIN == "" || c.GSTINSource != customers.GSTINSourceAPI {
			continue
		}
		if c.GSTINLastVerified == nil || c.GSTINLastVerified.Before(cutoff) {
			due = append(due, c)
		}
	}
	return due
}

// RefreshDue looks up every stale GSTIN and stamps the verification metadata.
// Individual lookup failures are logged and skipped. Returns how many
// customers were refreshed.
func (s *Service) RefreshDue(ctx context.Context) (int, error) {
	all, err := s.store.ListAll(ctx)
	if err != nil {
		return 0, err
	}

	due := SelectDue(all, time.Now().Add(-s.window))
	if len(due) > s.batch {
		due = due[:s.batch]
	}

	refreshed := 0
	for _, c := range due {
		if ctx.Err() != nil {
			return refreshed, ctx.Err()
		}
		details, err := s.client.Lookup(ctx, c.GSTIN)
		if err != nil {
			s.logger.Warn("gstin lookup failed",
				slog.Int64("customer_id", c.ID), slog.String("gstin", c.GSTIN), slog.Any("error", err))
			continue
		}
		if err := s.store.MarkVerified(ctx, c.ID, details.LegalName, time.Now()); err != nil {
			s.logger.Warn("gstin stamp failed", slog.Int64("customer_id", c.ID), slog.Any("error", err))
			continue
		}
		refreshed++
	}
	return refreshed, nil
}
