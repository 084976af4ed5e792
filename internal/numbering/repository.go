package numbering

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/freightdesk/freightdesk/internal/shared"
)

// RepositoryPort defines persistence operations for number sequences.
type RepositoryPort interface {
	// AllocateNext atomically hands out the next number for docType,
	// lazily seeding the config when absent. The increment happens at the
	// storage layer so two concurrent callers can never observe the same
	// number.
	AllocateNext(ctx context.Context, docType DocType, s seed) (int64, error)
	Get(ctx context.Context, docType DocType) (*Config, error)
	List(ctx context.Context) ([]Config, error)
	// SetCurrent overwrites current_number; returns shared.ErrConfigNotFound
	// when the config has never been created.
	SetCurrent(ctx context.Context, docType DocType, current int64) error
	// NumberExists reports whether n is already used by a document of the
	// given kind.
	NumberExists(ctx context.Context, docType DocType, n int64) (bool, error)
	// MaxUsed returns the highest number in use for the kind, 0 when none.
	MaxUsed(ctx context.Context, docType DocType) (int64, error)
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// numberColumns maps a sequence type to the table/column carrying issued numbers.
var numberColumns = map[DocType]struct{ table, column string }{
	DocTypeInvoice:     {"invoices", "invoice_number"},
	DocTypeConsignment: {"lorry_receipts", "lr_number"},
	DocTypeTruckHiring: {"truck_hiring_notes", "thn_number"},
}

// AllocateNext issues the next number via a single upsert. current_number
// stays "next to hand out": a fresh config is inserted with current = start+1
// and the seeded start is returned; an existing config is bumped by one and
// the pre-increment value is returned.
func (r *Repository) AllocateNext(ctx context.Context, docType DocType, s seed) (int64, error) {
	var allocated int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO numbering_configs (doc_type, starting_number, current_number, prefix)
		VALUES ($1, $2, $2 + 1, $3)
		ON CONFLICT (doc_type)
		DO UPDATE SET current_number = numbering_configs.current_number + 1, updated_at = now()
		RETURNING current_number - 1
	`, docType, s.Start, s.Prefix).Scan(&allocated)
	if err != nil {
		return 0, fmt.Errorf("numbering: allocate %s: %w", docType, err)
	}
	return allocated, nil
}

// Get loads a single config.
func (r *Repository) Get(ctx context.Context, docType DocType) (*Config, error) {
	var cfg Config
	err := r.pool.QueryRow(ctx, `
		SELECT doc_type, starting_number, current_number, prefix, updated_at
		FROM numbering_configs WHERE doc_type = $1
	`, docType).Scan(&cfg.DocType, &cfg.StartingNumber, &cfg.CurrentNumber, &cfg.Prefix, &cfg.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, shared.ErrConfigNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// List returns all configs ordered by type.
func (r *Repository) List(ctx context.Context) ([]Config, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT doc_type, starting_number, current_number, prefix, updated_at
		FROM numbering_configs ORDER BY doc_type
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var configs []Config
	for rows.Next() {
		var cfg Config
		if err := rows.Scan(&cfg.DocType, &cfg.StartingNumber, &cfg.CurrentNumber, &cfg.Prefix, &cfg.UpdatedAt); err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}
	return configs, rows.Err()
}

// SetCurrent overwrites current_number for an existing config.
func (r *Repository) SetCurrent(ctx context.Context, docType DocType, current int64) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE numbering_configs SET current_number = $2, updated_at = now()
		WHERE doc_type = $1
	`, docType, current)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrConfigNotFound
	}
	return nil
}

// NumberExists checks the owning document table for a number already in use.
func (r *Repository) NumberExists(ctx context.Context, docType DocType, n int64) (bool, error) {
	target, ok := numberColumns[docType]
	if !ok {
		return false, fmt.Errorf("numbering: unknown doc type %q", docType)
	}
	var exists bool
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`, target.table, target.column)
	if err := r.pool.QueryRow(ctx, query, n).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// MaxUsed returns the highest issued number for the kind.
func (r *Repository) MaxUsed(ctx context.Context, docType DocType) (int64, error) {
	target, ok := numberColumns[docType]
	if !ok {
		return 0, fmt.Errorf("numbering: unknown doc type %q", docType)
	}
	var max int64
	query := fmt.Sprintf(`SELECT COALESCE(MAX(%s), 0) FROM %s`, target.column, target.table)
	if err := r.pool.QueryRow(ctx, query).Scan(&max); err != nil {
		return 0, err
	}
	return max, nil
}
