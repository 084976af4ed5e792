package invoices

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/freightdesk/freightdesk/internal/platform/db"
	"github.com/freightdesk/freightdesk/internal/shared"
)

// RepositoryPort defines data access methods for invoices.
type RepositoryPort interface {
	// FetchLRFreights loads freight lines for the referenced lorry receipts.
	FetchLRFreights(ctx context.Context, ids []int64) ([]LRFreight, error)
	// CreateWithLRs inserts the invoice and forces the billed receipts to
	// Invoiced inside one transaction.
	CreateWithLRs(ctx context.Context, inv Invoice) (*Invoice, error)
	Get(ctx context.Context, id int64) (*Invoice, error)
	List(ctx context.Context, filters ListFilters) ([]Invoice, int, error)
	ListAll(ctx context.Context) ([]Invoice, error)
	// UpdateWithLRs rewrites the invoice and reconciles receipt membership:
	// added receipts become Invoiced, removed ones revert to Created.
	UpdateWithLRs(ctx context.Context, inv Invoice, previousLRs []int64) (*Invoice, error)
	// DeleteWithLRs removes the invoice and reverts its receipts to Created.
	// Blocked while payments reference the invoice.
	DeleteWithLRs(ctx context.Context, id int64) error
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

const invoiceColumns = `i.id, i.invoice_number, i.date, i.customer_id, i.total_amount,
	i.gst_type, i.is_rcm, i.is_manual_gst, i.cgst_rate, i.sgst_rate, i.igst_rate,
	i.cgst_amount, i.sgst_amount, i.igst_amount, i.grand_total, i.status, i.remarks,
	i.created_at, i.updated_at,
	COALESCE((SELECT SUM(p.amount) FROM payments p WHERE p.invoice_id = i.id), 0) AS paid_amount,
	COALESCE(ARRAY(SELECT lr.id FROM lorry_receipts lr WHERE lr.invoice_id = i.id ORDER BY lr.lr_number), '{}') AS lr_ids`

func scanInvoice(row pgx.Row) (*Invoice, error) {
	var inv Invoice
	err := row.Scan(&inv.ID, &inv.InvoiceNumber, &inv.Date, &inv.CustomerID, &inv.TotalAmount,
		(*string)(&inv.GST.Type), &inv.GST.IsRCM, &inv.GST.IsManualGST,
		&inv.GST.CGSTRate, &inv.GST.SGSTRate, &inv.GST.IGSTRate,
		&inv.GST.CGSTAmount, &inv.GST.SGSTAmount, &inv.GST.IGSTAmount,
		&inv.GrandTotal, (*string)(&inv.Status), &inv.Remarks,
		&inv.CreatedAt, &inv.UpdatedAt, &inv.PaidAmount, &inv.LorryReceipts)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	inv.BalanceDue = inv.GrandTotal.Sub(inv.PaidAmount)
	return &inv, nil
}

// FetchLRFreights loads freight lines for the given lorry receipt IDs.
func (r *Repository) FetchLRFreights(ctx context.Context, ids []int64) ([]LRFreight, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, lr_number, freight, status, invoice_id FROM lorry_receipts WHERE id = ANY($1) ORDER BY lr_number`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []LRFreight
	for rows.Next() {
		var lr LRFreight
		if err := rows.Scan(&lr.ID, &lr.LRNumber, &lr.Freight, &lr.Status, &lr.InvoiceID); err != nil {
			return nil, err
		}
		out = append(out, lr)
	}
	return out, rows.Err()
}

// CreateWithLRs inserts the invoice and stamps its receipts Invoiced in one
// repeatable-read transaction so a mid-cascade failure leaves nothing behind.
func (r *Repository) CreateWithLRs(ctx context.Context, inv Invoice) (*Invoice, error) {
	var id int64
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO invoices (invoice_number, date, customer_id, total_amount,
				gst_type, is_rcm, is_manual_gst, cgst_rate, sgst_rate, igst_rate,
				cgst_amount, sgst_amount, igst_amount, grand_total, status, remarks)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
			RETURNING id`,
			inv.InvoiceNumber, inv.Date, inv.CustomerID, inv.TotalAmount,
			inv.GST.Type, inv.GST.IsRCM, inv.GST.IsManualGST,
			inv.GST.CGSTRate, inv.GST.SGSTRate, inv.GST.IGSTRate,
			inv.GST.CGSTAmount, inv.GST.SGSTAmount, inv.GST.IGSTAmount,
			inv.GrandTotal, inv.Status, inv.Remarks).Scan(&id)
		if err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `
			UPDATE lorry_receipts SET status = 'Invoiced', invoice_id = $1, updated_at = now()
			WHERE id = ANY($2)`, id, inv.LorryReceipts)
		if err != nil {
			return err
		}
		if int(tag.RowsAffected()) != len(inv.LorryReceipts) {
			return fmt.Errorf("%w: one or more lorry receipts missing", shared.ErrNotFound)
		}
		return nil
	})
	if db.IsUniqueViolation(err, "invoices_invoice_number_key") {
		return nil, fmt.Errorf("%w: invoice number %d", shared.ErrDuplicateNumber, inv.InvoiceNumber)
	}
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

// Get loads one invoice with derived payment fields.
func (r *Repository) Get(ctx context.Context, id int64) (*Invoice, error) {
	return scanInvoice(r.pool.QueryRow(ctx,
		`SELECT `+invoiceColumns+` FROM invoices i WHERE i.id = $1`, id))
}

// List returns a page of invoices.
func (r *Repository) List(ctx context.Context, filters ListFilters) ([]Invoice, int, error) {
	where := `WHERE 1=1`
	args := []any{}
	idx := 1
	if filters.Status != "" {
		where += fmt.Sprintf(` AND i.status = $%d`, idx)
		args = append(args, filters.Status)
		idx++
	}
	if filters.CustomerID > 0 {
		where += fmt.Sprintf(` AND i.customer_id = $%d`, idx)
		args = append(args, filters.CustomerID)
		idx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM invoices i `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := shared.Offset(filters.Page, limit)
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`SELECT %s FROM invoices i %s ORDER BY i.invoice_number DESC LIMIT %d OFFSET %d`,
		invoiceColumns, where, limit, offset), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var out []Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *inv)
	}
	return out, total, rows.Err()
}

// ListAll returns every invoice, used by ledgers and backups.
func (r *Repository) ListAll(ctx context.Context) ([]Invoice, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+invoiceColumns+` FROM invoices i ORDER BY i.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *inv)
	}
	return out, rows.Err()
}

// UpdateWithLRs rewrites the invoice and reconciles receipt membership.
func (r *Repository) UpdateWithLRs(ctx context.Context, inv Invoice, previousLRs []int64) (*Invoice, error) {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE invoices SET invoice_number = $2, date = $3, customer_id = $4, total_amount = $5,
				gst_type = $6, is_rcm = $7, is_manual_gst = $8, cgst_rate = $9, sgst_rate = $10,
				igst_rate = $11, cgst_amount = $12, sgst_amount = $13, igst_amount = $14,
				grand_total = $15, remarks = $16, updated_at = now()
			WHERE id = $1`,
			inv.ID, inv.InvoiceNumber, inv.Date, inv.CustomerID, inv.TotalAmount,
			inv.GST.Type, inv.GST.IsRCM, inv.GST.IsManualGST,
			inv.GST.CGSTRate, inv.GST.SGSTRate, inv.GST.IGSTRate,
			inv.GST.CGSTAmount, inv.GST.SGSTAmount, inv.GST.IGSTAmount,
			inv.GrandTotal, inv.Remarks)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return shared.ErrNotFound
		}

		removed := difference(previousLRs, inv.LorryReceipts)
		added := difference(inv.LorryReceipts, previousLRs)
		if len(removed) > 0 {
			if _, err := tx.Exec(ctx, `
				UPDATE lorry_receipts SET status = 'Created', invoice_id = NULL, updated_at = now()
				WHERE id = ANY($1) AND invoice_id = $2`, removed, inv.ID); err != nil {
				return err
			}
		}
		if len(added) > 0 {
			tag, err := tx.Exec(ctx, `
				UPDATE lorry_receipts SET status = 'Invoiced', invoice_id = $1, updated_at = now()
				WHERE id = ANY($2)`, inv.ID, added)
			if err != nil {
				return err
			}
			if int(tag.RowsAffected()) != len(added) {
				return fmt.Errorf("%w: one or more lorry receipts missing", shared.ErrNotFound)
			}
		}
		return nil
	})
	if db.IsUniqueViolation(err, "invoices_invoice_number_key") {
		return nil, fmt.Errorf("%w: invoice number %d", shared.ErrDuplicateNumber, inv.InvoiceNumber)
	}
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, inv.ID)
}

// DeleteWithLRs removes the invoice and reverts its receipts to Created.
func (r *Repository) DeleteWithLRs(ctx context.Context, id int64) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			UPDATE lorry_receipts SET status = 'Created', invoice_id = NULL, updated_at = now()
			WHERE invoice_id = $1`, id); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// CountPayments counts payments attached to the invoice.
func (r *Repository) CountPayments(ctx context.Context, id int64) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM payments WHERE invoice_id = $1`, id).Scan(&count)
	return count, err
}

// difference returns the elements of a not present in b.
func difference(a, b []int64) []int64 {
	inB := make(map[int64]bool, len(b))
	for _, v := range b {
		inB[v] = true
	}
	var out []int64
	for _, v := range a {
		if !inB[v] {
			out = append(out, v)
		}
	}
	return out
}
