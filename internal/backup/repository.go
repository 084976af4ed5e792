package backup

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/freightdesk/freightdesk/internal/platform/db"
)

// Repository rewrites the whole database from a snapshot.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

var restoreTables = []string{
	"payments", "invoices", "lorry_receipts", "truck_hiring_notes",
	"bank_accounts", "company", "customers", "numbering_configs",
}

// Restore truncates every collection and reloads it from the snapshot in
// dependency order, inside one transaction. IDs are preserved and the serial
// sequences repointed past them.
func (r *Repository) Restore(ctx context.Context, snap *Snapshot) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		for _, table := range restoreTables {
			if _, err := tx.Exec(ctx, fmt.Sprintf(`TRUNCATE %s RESTART IDENTITY CASCADE`, table)); err != nil {
				return fmt.Errorf("backup: truncate %s: %w", table, err)
			}
		}

		for _, c := range snap.Customers {
			if _, err := tx.Exec(ctx, `
				INSERT INTO customers (id, name, trade_name, address, city, state, pin,
					contact_number, email, gstin, gstin_source, gstin_last_verified, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10, ''), NULLIF($11, ''), $12, $13, $14)`,
				c.ID, c.Name, c.TradeName, c.Address, c.City, c.State, c.Pin,
				c.ContactNumber, c.Email, c.GSTIN, string(c.GSTINSource), c.GSTINLastVerified,
				c.CreatedAt, c.UpdatedAt); err != nil {
				return fmt.Errorf("backup: restore customer %d: %w", c.ID, err)
			}
		}

		if snap.Company != nil {
			info := snap.Company
			if _, err := tx.Exec(ctx, `
				INSERT INTO company (id, name, address, city, state, pin, phone, email, gstin, pan)
				VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9)`,
				info.Name, info.Address, info.City, info.State, info.PIN,
				info.Phone, info.Email, info.GSTIN, info.PAN); err != nil {
				return fmt.Errorf("backup: restore company: %w", err)
			}
		}
		for _, acc := range snap.BankAccounts {
			if _, err := tx.Exec(ctx, `
				INSERT INTO bank_accounts (id, bank_name, account_number, ifsc, branch, created_at)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				acc.ID, acc.BankName, acc.AccountNumber, acc.IFSC, acc.Branch, acc.CreatedAt); err != nil {
				return fmt.Errorf("backup: restore bank account %d: %w", acc.ID, err)
			}
		}
		if snap.Company != nil && snap.Company.CurrentBankAccountID != nil {
			if _, err := tx.Exec(ctx, `UPDATE company SET current_bank_account_id = $1 WHERE id = 1`,
				snap.Company.CurrentBankAccountID); err != nil {
				return fmt.Errorf("backup: restore current bank account: %w", err)
			}
		}

		for _, thn := range snap.TruckHiringNotes {
			if _, err := tx.Exec(ctx, `
				INSERT INTO truck_hiring_notes (id, thn_number, date, truck_number, owner_name,
					owner_contact, from_location, to_location, freight_rate, rate_type, quantity,
					freight_amount, advance_amount, paid_amount, status, remarks, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
				thn.ID, thn.THNNumber, thn.Date, thn.TruckNumber, thn.OwnerName,
				thn.OwnerContact, thn.From, thn.To, thn.FreightRate, thn.RateType, thn.Quantity,
				thn.FreightAmount, thn.AdvanceAmount, thn.PaidAmount, thn.Status, thn.Remarks,
				thn.CreatedAt, thn.UpdatedAt); err != nil {
				return fmt.Errorf("backup: restore thn %d: %w", thn.THNNumber, err)
			}
		}

		// Lorry receipts land before invoices, so the invoice pointer is
		// attached in a second pass.
		for _, lr := range snap.LorryReceipts {
			packagesJSON, err := json.Marshal(lr.Packages)
			if err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, `
				INSERT INTO lorry_receipts (id, lr_number, date, consignor_id, consignee_id,
					from_location, to_location, packages, freight, aoc, hamali, booking_charge,
					transit_charge, detention_charge, total_amount, status, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
				lr.ID, lr.LRNumber, lr.Date, lr.ConsignorID, lr.ConsigneeID,
				lr.From, lr.To, packagesJSON,
				lr.Charges.Freight, lr.Charges.AOC, lr.Charges.Hamali, lr.Charges.BookingCharge,
				lr.Charges.TransitCharge, lr.Charges.DetentionCharge,
				lr.TotalAmount, lr.Status, lr.CreatedAt, lr.UpdatedAt); err != nil {
				return fmt.Errorf("backup: restore lr %d: %w", lr.LRNumber, err)
			}
		}

		for _, inv := range snap.Invoices {
			if _, err := tx.Exec(ctx, `
				INSERT INTO invoices (id, invoice_number, date, customer_id, total_amount,
					gst_type, is_rcm, is_manual_gst, cgst_rate, sgst_rate, igst_rate,
					cgst_amount, sgst_amount, igst_amount, grand_total, status, remarks, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
				inv.ID, inv.InvoiceNumber, inv.Date, inv.CustomerID, inv.TotalAmount,
				inv.GST.Type, inv.GST.IsRCM, inv.GST.IsManualGST,
				inv.GST.CGSTRate, inv.GST.SGSTRate, inv.GST.IGSTRate,
				inv.GST.CGSTAmount, inv.GST.SGSTAmount, inv.GST.IGSTAmount,
				inv.GrandTotal, inv.Status, inv.Remarks, inv.CreatedAt, inv.UpdatedAt); err != nil {
				return fmt.Errorf("backup: restore invoice %d: %w", inv.InvoiceNumber, err)
			}
		}
		for _, lr := range snap.LorryReceipts {
			if lr.InvoiceID == nil {
				continue
			}
			if _, err := tx.Exec(ctx, `UPDATE lorry_receipts SET invoice_id = $2 WHERE id = $1`,
				lr.ID, lr.InvoiceID); err != nil {
				return fmt.Errorf("backup: link lr %d: %w", lr.LRNumber, err)
			}
		}

		for _, p := range snap.Payments {
			if _, err := tx.Exec(ctx, `
				INSERT INTO payments (id, amount, date, type, mode, customer_id, invoice_id, thn_id,
					reference_no, notes, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
				p.ID, p.Amount, p.Date, p.Type, p.Mode, p.CustomerID, p.InvoiceID, p.THNID,
				p.ReferenceNo, p.Notes, p.CreatedAt, p.UpdatedAt); err != nil {
				return fmt.Errorf("backup: restore payment %d: %w", p.ID, err)
			}
		}

		for _, cfg := range snap.NumberingConfigs {
			if _, err := tx.Exec(ctx, `
				INSERT INTO numbering_configs (doc_type, starting_number, current_number, prefix, updated_at)
				VALUES ($1, $2, $3, $4, $5)`,
				cfg.DocType, cfg.StartingNumber, cfg.CurrentNumber, cfg.Prefix, cfg.UpdatedAt); err != nil {
				return fmt.Errorf("backup: restore numbering config %s: %w", cfg.DocType, err)
			}
		}

		for _, table := range []string{"customers", "lorry_receipts", "invoices", "payments", "truck_hiring_notes", "bank_accounts"} {
			if _, err := tx.Exec(ctx, fmt.Sprintf(
				`SELECT setval(pg_get_serial_sequence('%s', 'id'), GREATEST((SELECT COALESCE(MAX(id), 0) FROM %s), 1))`,
				table, table)); err != nil {
				return fmt.Errorf("backup: reset %s sequence: %w", table, err)
			}
		}
		return nil
	})
}
