package company

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/freightdesk/freightdesk/internal/platform/db"
	"github.com/freightdesk/freightdesk/internal/shared"
)

// RepositoryPort defines data access methods for the company profile.
type RepositoryPort interface {
	Get(ctx context.Context) (*Info, error)
	Upsert(ctx context.Context, info Info) (*Info, error)
	ListBankAccounts(ctx context.Context) ([]BankAccount, error)
	AddBankAccount(ctx context.Context, acc BankAccount) (*BankAccount, error)
	// DeleteBankAccount removes the account; if it was the current one the
	// pointer moves to another remaining account, or clears.
	DeleteBankAccount(ctx context.Context, id int64) error
	SetCurrentBankAccount(ctx context.Context, id int64) error
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const infoColumns = `id, name, address, city, state, pin, phone, email, gstin, pan,
	current_bank_account_id, updated_at`

func scanInfo(row pgx.Row) (*Info, error) {
	var info Info
	err := row.Scan(&info.ID, &info.Name, &info.Address, &info.City, &info.State, &info.PIN,
		&info.Phone, &info.Email, &info.GSTIN, &info.PAN, &info.CurrentBankAccountID, &info.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// Get loads the company profile.
func (r *Repository) Get(ctx context.Context) (*Info, error) {
	return scanInfo(r.pool.QueryRow(ctx, `SELECT `+infoColumns+` FROM company WHERE id = 1`))
}

// Upsert writes the single company row.
func (r *Repository) Upsert(ctx context.Context, info Info) (*Info, error) {
	return scanInfo(r.pool.QueryRow(ctx, `
		INSERT INTO company (id, name, address, city, state, pin, phone, email, gstin, pan)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET name = $1, address = $2, city = $3, state = $4, pin = $5,
			phone = $6, email = $7, gstin = $8, pan = $9, updated_at = now()
		RETURNING `+infoColumns,
		info.Name, info.Address, info.City, info.State, info.PIN,
		info.Phone, info.Email, info.GSTIN, info.PAN))
}

// ListBankAccounts returns all bank accounts.
func (r *Repository) ListBankAccounts(ctx context.Context) ([]BankAccount, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, bank_name, account_number, ifsc, branch, created_at FROM bank_accounts ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []BankAccount
	for rows.Next() {
		var acc BankAccount
		if err := rows.Scan(&acc.ID, &acc.BankName, &acc.AccountNumber, &acc.IFSC, &acc.Branch, &acc.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, acc)
	}
	return out, rows.Err()
}

// AddBankAccount inserts a bank account. The first account becomes current.
func (r *Repository) AddBankAccount(ctx context.Context, acc BankAccount) (*BankAccount, error) {
	var created BankAccount
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO bank_accounts (bank_name, account_number, ifsc, branch)
			VALUES ($1, $2, $3, $4)
			RETURNING id, bank_name, account_number, ifsc, branch, created_at`,
			acc.BankName, acc.AccountNumber, acc.IFSC, acc.Branch).
			Scan(&created.ID, &created.BankName, &created.AccountNumber, &created.IFSC, &created.Branch, &created.CreatedAt)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `
			UPDATE company SET current_bank_account_id = $1, updated_at = now()
			WHERE id = 1 AND current_bank_account_id IS NULL`, created.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteBankAccount removes the account and repoints the current marker to
// any remaining account, or clears it.
func (r *Repository) DeleteBankAccount(ctx context.Context, id int64) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM bank_accounts WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return shared.ErrNotFound
		}
		_, err = tx.Exec(ctx, `
			UPDATE company SET current_bank_account_id = (SELECT id FROM bank_accounts ORDER BY id LIMIT 1),
				updated_at = now()
			WHERE id = 1 AND current_bank_account_id = $1`, id)
		return err
	})
}

// SetCurrentBankAccount marks the account the documents print.
func (r *Repository) SetCurrentBankAccount(ctx context.Context, id int64) error {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM bank_accounts WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return shared.ErrNotFound
	}
	_, err := r.pool.Exec(ctx, `UPDATE company SET current_bank_account_id = $1, updated_at = now() WHERE id = 1`, id)
	return err
}
