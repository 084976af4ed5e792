package customers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/freightdesk/freightdesk/internal/platform/db"
	"github.com/freightdesk/freightdesk/internal/shared"
)

// RepositoryPort defines data access methods for customers.
type RepositoryPort interface {
	Create(ctx context.Context, input CustomerInput) (*Customer, error)
	Get(ctx context.Context, id int64) (*Customer, error)
	GetMany(ctx context.Context, ids []int64) (map[int64]Customer, error)
	List(ctx context.Context, filters ListFilters) ([]Customer, int, error)
	ListAll(ctx context.Context) ([]Customer, error)
	Update(ctx context.Context, id int64, input CustomerInput) (*Customer, error)
	Delete(ctx context.Context, id int64) error
	CountReferences(ctx context.Context, id int64) (int64, error)
	MarkVerified(ctx context.Context, id int64, legalName string, verifiedAt time.Time) error
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const customerColumns = `id, name, trade_name, address, city, state, pin, contact_number, email,
	COALESCE(gstin, ''), COALESCE(gstin_source, ''), gstin_last_verified, created_at, updated_at`

func scanCustomer(row pgx.Row) (*Customer, error) {
	var c Customer
	err := row.Scan(&c.ID, &c.Name, &c.TradeName, &c.Address, &c.City, &c.State, &c.Pin,
		&c.ContactNumber, &c.Email, &c.GSTIN, (*string)(&c.GSTINSource), &c.GSTINLastVerified,
		&c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a customer. A duplicate GSTIN maps to shared.ErrConflict.
func (r *Repository) Create(ctx context.Context, input CustomerInput) (*Customer, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO customers (name, trade_name, address, city, state, pin, contact_number, email, gstin, gstin_source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), NULLIF($10, ''))
		RETURNING `+customerColumns,
		input.Name, input.TradeName, input.Address, input.City, input.State, input.Pin,
		input.ContactNumber, input.Email, input.GSTIN, string(input.GSTINSource))
	c, err := scanCustomer(row)
	if db.IsUniqueViolation(err, "customers_gstin_key") {
		return nil, fmt.Errorf("%w: gstin %s already registered", shared.ErrConflict, input.GSTIN)
	}
	return c, err
}

// Get loads one customer.
func (r *Repository) Get(ctx context.Context, id int64) (*Customer, error) {
	return scanCustomer(r.pool.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE id = $1`, id))
}

// GetMany loads a set of customers keyed by ID.
func (r *Repository) GetMany(ctx context.Context, ids []int64) (map[int64]Customer, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make(map[int64]Customer, len(ids))
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		result[c.ID] = *c
	}
	return result, rows.Err()
}

// List returns a page of customers plus the total count.
func (r *Repository) List(ctx context.Context, filters ListFilters) ([]Customer, int, error) {
	where := ""
	args := []any{}
	if s := strings.TrimSpace(filters.Search); s != "" {
		where = `WHERE name ILIKE $1 OR trade_name ILIKE $1 OR gstin ILIKE $1`
		args = append(args, "%"+s+"%")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM customers `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := shared.Offset(filters.Page, limit)
	query := fmt.Sprintf(`SELECT %s FROM customers %s ORDER BY name LIMIT %d OFFSET %d`,
		customerColumns, where, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var out []Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *c)
	}
	return out, total, rows.Err()
}

// ListAll returns every customer, used by the company ledger and backups.
func (r *Repository) ListAll(ctx context.Context) ([]Customer, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+customerColumns+` FROM customers ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// Update rewrites all mutable fields.
func (r *Repository) Update(ctx context.Context, id int64, input CustomerInput) (*Customer, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE customers SET name = $2, trade_name = $3, address = $4, city = $5, state = $6,
			pin = $7, contact_number = $8, email = $9, gstin = NULLIF($10, ''),
			gstin_source = NULLIF($11, ''), updated_at = now()
		WHERE id = $1
		RETURNING `+customerColumns,
		id, input.Name, input.TradeName, input.Address, input.City, input.State, input.Pin,
		input.ContactNumber, input.Email, input.GSTIN, string(input.GSTINSource))
	c, err := scanCustomer(row)
	if db.IsUniqueViolation(err, "customers_gstin_key") {
		return nil, fmt.Errorf("%w: gstin %s already registered", shared.ErrConflict, input.GSTIN)
	}
	return c, err
}

// Delete removes a customer record.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountReferences counts documents pointing at the customer.
func (r *Repository) CountReferences(ctx context.Context, id int64) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `
		SELECT (SELECT COUNT(*) FROM lorry_receipts WHERE consignor_id = $1 OR consignee_id = $1)
		     + (SELECT COUNT(*) FROM invoices WHERE customer_id = $1)
		     + (SELECT COUNT(*) FROM payments WHERE customer_id = $1)
	`, id).Scan(&count)
	return count, err
}

// MarkVerified stamps the GSTIN verification metadata after an API lookup.
func (r *Repository) MarkVerified(ctx context.Context, id int64, legalName string, verifiedAt time.Time) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE customers SET gstin_last_verified = $2, name = COALESCE(NULLIF($3, ''), name), updated_at = now()
		WHERE id = $1
	`, id, verifiedAt, legalName)
	return err
}
