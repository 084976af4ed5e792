package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/freightdesk/freightdesk/internal/platform/db"
	"github.com/freightdesk/freightdesk/internal/shared"
)

// RepositoryPort defines data access methods for payments.
type RepositoryPort interface {
	// Create inserts the payment and resettles the linked invoice or truck
	// hiring note inside one transaction.
	Create(ctx context.Context, p Payment) (*Payment, error)
	Get(ctx context.Context, id int64) (*Payment, error)
	List(ctx context.Context, filters ListFilters) ([]Payment, int, error)
	ListAll(ctx context.Context) ([]Payment, error)
	// Delete removes the payment and resettles whatever it offset.
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

const paymentColumns = `id, amount, date, type, mode, customer_id, invoice_id, thn_id,
	reference_no, notes, created_at, updated_at`

func scanPayment(row pgx.Row) (*Payment, error) {
	var p Payment
	err := row.Scan(&p.ID, &p.Amount, &p.Date, (*string)(&p.Type), (*string)(&p.Mode),
		&p.CustomerID, &p.InvoiceID, &p.THNID, &p.ReferenceNo, &p.Notes, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// settleInvoice rederives the invoice status from its payment total and keeps
// the lorry receipt statuses in step with it.
func settleInvoice(ctx context.Context, tx pgx.Tx, invoiceID int64) error {
	if _, err := tx.Exec(ctx, `
		UPDATE invoices i SET status = CASE
				WHEN totals.paid <= 0 THEN 'Unpaid'
				WHEN totals.paid >= i.grand_total THEN 'Paid'
				ELSE 'Partially Paid'
			END, updated_at = now()
		FROM (SELECT COALESCE(SUM(amount), 0) AS paid FROM payments WHERE invoice_id = $1) totals
		WHERE i.id = $1`, invoiceID); err != nil {
		return err
	}
	_, err := tx.Exec(ctx, `
		UPDATE lorry_receipts lr SET status = CASE WHEN i.status = 'Paid' THEN 'Paid' ELSE 'Invoiced' END,
			updated_at = now()
		FROM invoices i
		WHERE lr.invoice_id = i.id AND i.id = $1`, invoiceID)
	return err
}

// settleTHN rederives the truck hiring note's paid amount and status. The
// advance counts toward settlement alongside linked payments.
func settleTHN(ctx context.Context, tx pgx.Tx, thnID int64) error {
	_, err := tx.Exec(ctx, `
		UPDATE truck_hiring_notes t SET paid_amount = totals.paid, status = CASE
				WHEN totals.paid + t.advance_amount <= 0 THEN 'Unpaid'
				WHEN totals.paid + t.advance_amount >= t.freight_amount THEN 'Paid'
				ELSE 'Partially Paid'
			END, updated_at = now()
		FROM (SELECT COALESCE(SUM(amount), 0) AS paid FROM payments WHERE thn_id = $1) totals
		WHERE t.id = $1`, thnID)
	return err
}

// Create inserts the payment and resettles the linked records in one
// repeatable-read transaction.
func (r *Repository) Create(ctx context.Context, p Payment) (*Payment, error) {
	var created *Payment
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
			INSERT INTO payments (amount, date, type, mode, customer_id, invoice_id, thn_id, reference_no, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING `+paymentColumns,
			p.Amount, p.Date, p.Type, p.Mode, p.CustomerID, p.InvoiceID, p.THNID, p.ReferenceNo, p.Notes)
		var err error
		created, err = scanPayment(row)
		if err != nil {
			return err
		}
		if created.InvoiceID != nil {
			if err := settleInvoice(ctx, tx, *created.InvoiceID); err != nil {
				return err
			}
		}
		if created.THNID != nil {
			if err := settleTHN(ctx, tx, *created.THNID); err != nil {
				return err
			}
		}
		return nil
	})
	if db.IsForeignKeyViolation(err) {
		return nil, fmt.Errorf("%w: linked customer, invoice or truck hiring note missing", shared.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Get loads one payment.
func (r *Repository) Get(ctx context.Context, id int64) (*Payment, error) {
	return scanPayment(r.pool.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id))
}

// List returns a page of payments.
func (r *Repository) List(ctx context.Context, filters ListFilters) ([]Payment, int, error) {
	where := `WHERE 1=1`
	args := []any{}
	idx := 1
	if filters.CustomerID > 0 {
		where += fmt.Sprintf(` AND customer_id = $%d`, idx)
		args = append(args, filters.CustomerID)
		idx++
	}
	if filters.InvoiceID > 0 {
		where += fmt.Sprintf(` AND invoice_id = $%d`, idx)
		args = append(args, filters.InvoiceID)
		idx++
	}
	if filters.THNID > 0 {
		where += fmt.Sprintf(` AND thn_id = $%d`, idx)
		args = append(args, filters.THNID)
		idx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM payments `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := shared.Offset(filters.Page, limit)
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`SELECT %s FROM payments %s ORDER BY date DESC, id DESC LIMIT %d OFFSET %d`,
		paymentColumns, where, limit, offset), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var out []Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *p)
	}
	return out, total, rows.Err()
}

// ListAll returns every payment in insertion order, used by ledgers and
// backups.
func (r *Repository) ListAll(ctx context.Context) ([]Payment, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+paymentColumns+` FROM payments ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// Delete removes the payment and resettles whatever it offset.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var invoiceID, thnID *int64
		err := tx.QueryRow(ctx, `DELETE FROM payments WHERE id = $1 RETURNING invoice_id, thn_id`, id).
			Scan(&invoiceID, &thnID)
		if errors.Is(err, pgx.ErrNoRows) {
			return shared.ErrNotFound
		}
		if err != nil {
			return err
		}
		if invoiceID != nil {
			if err := settleInvoice(ctx, tx, *invoiceID); err != nil {
				return err
			}
		}
		if thnID != nil {
			if err := settleTHN(ctx, tx, *thnID); err != nil {
				return err
			}
		}
		return nil
	})
}
