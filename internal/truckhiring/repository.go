package truckhiring

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/freightdesk/freightdesk/internal/platform/db"
	"github.com/freightdesk/freightdesk/internal/shared"
)

// RepositoryPort defines data access methods for truck hiring notes.
type RepositoryPort interface {
	Create(ctx context.Context, thn TruckHiringNote) (*TruckHiringNote, error)
	Get(ctx context.Context, id int64) (*TruckHiringNote, error)
	List(ctx context.Context, filters ListFilters) ([]TruckHiringNote, int, error)
	ListAll(ctx context.Context) ([]TruckHiringNote, error)
	Update(ctx context.Context, id int64, thn TruckHiringNote) (*TruckHiringNote, error)
	Delete(ctx context.Context, id int64) error
	CountPayments(ctx context.Context, id int64) (int64, error)
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const thnColumns = `id, thn_number, date, truck_number, owner_name, owner_contact,
	from_location, to_location, freight_rate, rate_type, quantity, freight_amount,
	advance_amount, paid_amount, status, remarks, created_at, updated_at`

func scanTHN(row pgx.Row) (*TruckHiringNote, error) {
	var thn TruckHiringNote
	err := row.Scan(&thn.ID, &thn.THNNumber, &thn.Date, &thn.TruckNumber, &thn.OwnerName,
		&thn.OwnerContact, &thn.From, &thn.To, &thn.FreightRate, (*string)(&thn.RateType),
		&thn.Quantity, &thn.FreightAmount, &thn.AdvanceAmount, &thn.PaidAmount,
		(*string)(&thn.Status), &thn.Remarks, &thn.CreatedAt, &thn.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	thn.BalanceAmount = thn.FreightAmount.Sub(thn.AdvanceAmount).Sub(thn.PaidAmount)
	return &thn, nil
}

// Create inserts a truck hiring note.
func (r *Repository) Create(ctx context.Context, thn TruckHiringNote) (*TruckHiringNote, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO truck_hiring_notes (thn_number, date, truck_number, owner_name, owner_contact,
			from_location, to_location, freight_rate, rate_type, quantity, freight_amount,
			advance_amount, status, remarks)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING `+thnColumns,
		thn.THNNumber, thn.Date, thn.TruckNumber, thn.OwnerName, thn.OwnerContact,
		thn.From, thn.To, thn.FreightRate, thn.RateType, thn.Quantity, thn.FreightAmount,
		thn.AdvanceAmount, thn.Status, thn.Remarks)
	created, err := scanTHN(row)
	if db.IsUniqueViolation(err, "truck_hiring_notes_thn_number_key") {
		return nil, fmt.Errorf("%w: thn number %d", shared.ErrDuplicateNumber, thn.THNNumber)
	}
	return created, err
}

// Get loads one truck hiring note.
func (r *Repository) Get(ctx context.Context, id int64) (*TruckHiringNote, error) {
	return scanTHN(r.pool.QueryRow(ctx, `SELECT `+thnColumns+` FROM truck_hiring_notes WHERE id = $1`, id))
}

// List returns a page of truck hiring notes.
func (r *Repository) List(ctx context.Context, filters ListFilters) ([]TruckHiringNote, int, error) {
	where := `WHERE 1=1`
	args := []any{}
	if filters.Status != "" {
		where += ` AND status = $1`
		args = append(args, filters.Status)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM truck_hiring_notes `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := shared.Offset(filters.Page, limit)
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`SELECT %s FROM truck_hiring_notes %s ORDER BY thn_number DESC LIMIT %d OFFSET %d`,
		thnColumns, where, limit, offset), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var out []TruckHiringNote
	for rows.Next() {
		thn, err := scanTHN(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *thn)
	}
	return out, total, rows.Err()
}

// ListAll returns every truck hiring note, used by ledgers and backups.
func (r *Repository) ListAll(ctx context.Context) ([]TruckHiringNote, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+thnColumns+` FROM truck_hiring_notes ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []TruckHiringNote
	for rows.Next() {
		thn, err := scanTHN(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *thn)
	}
	return out, rows.Err()
}

// Update rewrites the mutable fields of a truck hiring note.
func (r *Repository) Update(ctx context.Context, id int64, thn TruckHiringNote) (*TruckHiringNote, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE truck_hiring_notes SET thn_number = $2, date = $3, truck_number = $4, owner_name = $5,
			owner_contact = $6, from_location = $7, to_location = $8, freight_rate = $9,
			rate_type = $10, quantity = $11, freight_amount = $12, advance_amount = $13,
			status = $14, remarks = $15, updated_at = now()
		WHERE id = $1
		RETURNING `+thnColumns,
		id, thn.THNNumber, thn.Date, thn.TruckNumber, thn.OwnerName, thn.OwnerContact,
		thn.From, thn.To, thn.FreightRate, thn.RateType, thn.Quantity, thn.FreightAmount,
		thn.AdvanceAmount, thn.Status, thn.Remarks)
	updated, err := scanTHN(row)
	if db.IsUniqueViolation(err, "truck_hiring_notes_thn_number_key") {
		return nil, fmt.Errorf("%w: thn number %d", shared.ErrDuplicateNumber, thn.THNNumber)
	}
	return updated, err
}

// Delete removes a truck hiring note.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM truck_hiring_notes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountPayments counts payments attached to the note.
func (r *Repository) CountPayments(ctx context.Context, id int64) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM payments WHERE thn_id = $1`, id).Scan(&count)
	return count, err
}
