package lorryreceipts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/freightdesk/freightdesk/internal/platform/db"
	"github.com/freightdesk/freightdesk/internal/shared"
)

// RepositoryPort defines data access methods for lorry receipts.
type RepositoryPort interface {
	Create(ctx context.Context, lr LorryReceipt) (*LorryReceipt, error)
	Get(ctx context.Context, id int64) (*LorryReceipt, error)
	GetByIDs(ctx context.Context, ids []int64) ([]LorryReceipt, error)
	List(ctx context.Context, filters ListFilters) ([]LorryReceipt, int, error)
	ListAll(ctx context.Context) ([]LorryReceipt, error)
	Update(ctx context.Context, id int64, lr LorryReceipt) (*LorryReceipt, error)
	UpdateStatus(ctx context.Context, id int64, status Status) error
	Delete(ctx context.Context, id int64) error
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const lrColumns = `id, lr_number, date, consignor_id, consignee_id, from_location, to_location,
	packages, freight, aoc, hamali, booking_charge, transit_charge, detention_charge,
	total_amount, status, invoice_id, created_at, updated_at`

func scanLR(row pgx.Row) (*LorryReceipt, error) {
	var lr LorryReceipt
	var packagesJSON []byte
	err := row.Scan(&lr.ID, &lr.LRNumber, &lr.Date, &lr.ConsignorID, &lr.ConsigneeID,
		&lr.From, &lr.To, &packagesJSON,
		&lr.Charges.Freight, &lr.Charges.AOC, &lr.Charges.Hamali, &lr.Charges.BookingCharge,
		&lr.Charges.TransitCharge, &lr.Charges.DetentionCharge,
		&lr.TotalAmount, (*string)(&lr.Status), &lr.InvoiceID, &lr.CreatedAt, &lr.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(packagesJSON) > 0 {
		if err := json.Unmarshal(packagesJSON, &lr.Packages); err != nil {
			return nil, fmt.Errorf("lorryreceipts: decode packages: %w", err)
		}
	}
	return &lr, nil
}

// Create inserts a lorry receipt. A clashing lr_number maps to
// shared.ErrDuplicateNumber (second line of defence behind the allocator).
func (r *Repository) Create(ctx context.Context, lr LorryReceipt) (*LorryReceipt, error) {
	packagesJSON, err := json.Marshal(lr.Packages)
	if err != nil {
		return nil, err
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO lorry_receipts (lr_number, date, consignor_id, consignee_id, from_location, to_location,
			packages, freight, aoc, hamali, booking_charge, transit_charge, detention_charge,
			total_amount, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING `+lrColumns,
		lr.LRNumber, lr.Date, lr.ConsignorID, lr.ConsigneeID, lr.From, lr.To, packagesJSON,
		lr.Charges.Freight, lr.Charges.AOC, lr.Charges.Hamali, lr.Charges.BookingCharge,
		lr.Charges.TransitCharge, lr.Charges.DetentionCharge, lr.TotalAmount, lr.Status)
	created, err := scanLR(row)
	if db.IsUniqueViolation(err, "lorry_receipts_lr_number_key") {
		return nil, fmt.Errorf("%w: lr number %d", shared.ErrDuplicateNumber, lr.LRNumber)
	}
	return created, err
}

// Get loads one lorry receipt.
func (r *Repository) Get(ctx context.Context, id int64) (*LorryReceipt, error) {
	return scanLR(r.pool.QueryRow(ctx, `SELECT `+lrColumns+` FROM lorry_receipts WHERE id = $1`, id))
}

// GetByIDs loads a set of lorry receipts in ID order.
func (r *Repository) GetByIDs(ctx context.Context, ids []int64) ([]LorryReceipt, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+lrColumns+` FROM lorry_receipts WHERE id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []LorryReceipt
	for rows.Next() {
		lr, err := scanLR(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *lr)
	}
	return out, rows.Err()
}

// List returns a page of lorry receipts.
func (r *Repository) List(ctx context.Context, filters ListFilters) ([]LorryReceipt, int, error) {
	where := `WHERE 1=1`
	args := []any{}
	idx := 1
	if filters.Status != "" {
		where += fmt.Sprintf(` AND status = $%d`, idx)
		args = append(args, filters.Status)
		idx++
	}
	if filters.CustomerID > 0 {
		where += fmt.Sprintf(` AND (consignor_id = $%d OR consignee_id = $%d)`, idx, idx)
		args = append(args, filters.CustomerID)
		idx++
	}
	if filters.Unbilled {
		where += ` AND invoice_id IS NULL`
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM lorry_receipts `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := shared.Offset(filters.Page, limit)
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`SELECT %s FROM lorry_receipts %s ORDER BY lr_number DESC LIMIT %d OFFSET %d`,
		lrColumns, where, limit, offset), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var out []LorryReceipt
	for rows.Next() {
		lr, err := scanLR(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *lr)
	}
	return out, total, rows.Err()
}

// ListAll returns every lorry receipt, used by backups.
func (r *Repository) ListAll(ctx context.Context) ([]LorryReceipt, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+lrColumns+` FROM lorry_receipts ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []LorryReceipt
	for rows.Next() {
		lr, err := scanLR(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *lr)
	}
	return out, rows.Err()
}

// Update rewrites the mutable fields of a lorry receipt.
func (r *Repository) Update(ctx context.Context, id int64, lr LorryReceipt) (*LorryReceipt, error) {
	packagesJSON, err := json.Marshal(lr.Packages)
	if err != nil {
		return nil, err
	}
	row := r.pool.QueryRow(ctx, `
		UPDATE lorry_receipts SET lr_number = $2, date = $3, consignor_id = $4, consignee_id = $5,
			from_location = $6, to_location = $7, packages = $8, freight = $9, aoc = $10,
			hamali = $11, booking_charge = $12, transit_charge = $13, detention_charge = $14,
			total_amount = $15, updated_at = now()
		WHERE id = $1
		RETURNING `+lrColumns,
		id, lr.LRNumber, lr.Date, lr.ConsignorID, lr.ConsigneeID, lr.From, lr.To, packagesJSON,
		lr.Charges.Freight, lr.Charges.AOC, lr.Charges.Hamali, lr.Charges.BookingCharge,
		lr.Charges.TransitCharge, lr.Charges.DetentionCharge, lr.TotalAmount)
	updated, err := scanLR(row)
	if db.IsUniqueViolation(err, "lorry_receipts_lr_number_key") {
		return nil, fmt.Errorf("%w: lr number %d", shared.ErrDuplicateNumber, lr.LRNumber)
	}
	return updated, err
}

// UpdateStatus moves a lorry receipt to the given status.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status Status) error {
	tag, err := r.pool.Exec(ctx, `UPDATE lorry_receipts SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a lorry receipt.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM lorry_receipts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
