package numbering

import (
	"context"
	"errors"
	"fmt"

	"github.com/freightdesk/freightdesk/internal/shared"
)

// Service hands out document numbers while tolerating manual entries.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// AllocateNext returns the next number in the sequence for docType. The
// config is created lazily with its type-specific seed; the increment is a
// single atomic storage operation, so callers never need to retry.
func (s *Service) AllocateNext(ctx context.Context, docType DocType) (int64, error) {
	sd, ok := seeds[docType]
	if !ok {
		return 0, fmt.Errorf("%w: unknown doc type %q", shared.ErrValidation, docType)
	}
	return s.repo.AllocateNext(ctx, docType, sd)
}

// AllocateManual validates a caller-supplied number against every document
// of the same kind. The sequence counter is deliberately left untouched;
// Resync repairs any drift once the sequence catches up to manual entries.
func (s *Service) AllocateManual(ctx context.Context, docType DocType, candidate int64) (int64, error) {
	if !Known(docType) {
		return 0, fmt.Errorf("%w: unknown doc type %q", shared.ErrValidation, docType)
	}
	if candidate <= 0 {
		return 0, fmt.Errorf("%w: number must be positive", shared.ErrValidation)
	}
	taken, err := s.repo.NumberExists(ctx, docType, candidate)
	if err != nil {
		return 0, err
	}
	if taken {
		return 0, fmt.Errorf("%w: %s %d", shared.ErrDuplicateNumber, docType, candidate)
	}
	return candidate, nil
}

// Resync recomputes current_number as 1 + the highest number actually in
// use, never dropping below the seeded starting number. Safe to run
// repeatedly; used after restores and by the nightly reconciliation job.
func (s *Service) Resync(ctx context.Context, docType DocType) (int64, error) {
	sd, ok := seeds[docType]
	if !ok {
		return 0, fmt.Errorf("%w: unknown doc type %q", shared.ErrValidation, docType)
	}
	max, err := s.repo.MaxUsed(ctx, docType)
	if err != nil {
		return 0, err
	}
	next := max + 1
	if next < sd.Start {
		next = sd.Start
	}
	if err := s.repo.SetCurrent(ctx, docType, next); err != nil {
		return 0, err
	}
	return next, nil
}

// ResyncAll repairs every known sequence.
func (s *Service) ResyncAll(ctx context.Context) (map[DocType]int64, error) {
	result := make(map[DocType]int64, len(seeds))
	for docType := range seeds {
		next, err := s.Resync(ctx, docType)
		if err != nil {
			if errors.Is(err, shared.ErrConfigNotFound) {
				// Never allocated from; nothing to repair.
				continue
			}
			return nil, err
		}
		result[docType] = next
	}
	return result, nil
}

// Get returns the config for docType.
func (s *Service) Get(ctx context.Context, docType DocType) (*Config, error) {
	if !Known(docType) {
		return nil, fmt.Errorf("%w: unknown doc type %q", shared.ErrValidation, docType)
	}
	return s.repo.Get(ctx, docType)
}

// List returns every existing config.
func (s *Service) List(ctx context.Context) ([]Config, error) {
	return s.repo.List(ctx)
}

// UpdateCurrent lets an administrator move the sequence pointer. It refuses
// to touch sequences that were never created.
func (s *Service) UpdateCurrent(ctx context.Context, docType DocType, current int64) error {
	if !Known(docType) {
		return fmt.Errorf("%w: unknown doc type %q", shared.ErrValidation, docType)
	}
	if current <= 0 {
		return fmt.Errorf("%w: current number must be positive", shared.ErrValidation)
	}
	return s.repo.SetCurrent(ctx, docType, current)
}
