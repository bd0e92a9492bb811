package wallet

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// GetOrCreate fetches the owner's wallet, lazily creating a
// zero-balance row if none exists.
func (r *Repository) GetOrCreate(ctx context.Context, ownerID uuid.UUID) (*Wallet, error) {
	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO wallets (owner_id, balance)
		VALUES ($1, 0)
		ON CONFLICT (owner_id) DO NOTHING
	`, ownerID); err != nil {
		return nil, err
	}

	var w Wallet
	err := r.db.GetContext(ctx, &w, `
		SELECT owner_id, balance, updated_at FROM wallets WHERE owner_id = $1
	`, ownerID)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *Repository) GetBalance(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	w, err := r.GetOrCreate(ctx, ownerID)
	if err != nil {
		return 0, err
	}
	return w.Balance, nil
}

// DebitBalance applies an atomic conditional decrement. The balance
// guard runs in the UPDATE itself, so a concurrent debit between an
// earlier read and this call can never overdraft the wallet.
func (r *Repository) DebitBalance(ctx context.Context, ownerID uuid.UUID, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	var balance int64
	err := r.db.GetContext(ctx, &balance, `
		UPDATE wallets
		SET balance = balance - $1, updated_at = now()
		WHERE owner_id = $2 AND balance >= $1
		RETURNING balance
	`, amount, ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrInsufficientFunds
	}
	if err != nil {
		return 0, err
	}
	return balance, nil
}

// CreditBalance adds funds back. Used for refunds and for restoring a
// balance when a ledger write fails after the debit succeeded.
func (r *Repository) CreditBalance(ctx context.Context, ownerID uuid.UUID, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	var balance int64
	err := r.db.GetContext(ctx, &balance, `
		UPDATE wallets
		SET balance = balance + $1, updated_at = now()
		WHERE owner_id = $2
		RETURNING balance
	`, amount, ownerID)
	if err != nil {
		return 0, err
	}
	return balance, nil
}

func (r *Repository) InsertTransaction(ctx context.Context, t *Transaction) (uuid.UUID, error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO wallet_transactions
			(id, owner_id, type, amount, balance_after, reference_type, reference_id, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, t.ID, t.OwnerID, string(t.Type), t.Amount, t.BalanceAfter, nullableString(t.ReferenceType), t.ReferenceID, t.Description)
	if err != nil {
		return uuid.Nil, err
	}
	return t.ID, nil
}

// ListTransactions returns the owner's ledger, newest first.
func (r *Repository) ListTransactions(ctx context.Context, ownerID uuid.UUID, limit int) ([]Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var rows []Transaction
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, owner_id, type, amount, balance_after,
		       COALESCE(reference_type, '') AS reference_type, reference_id,
		       description, created_at
		FROM wallet_transactions
		WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, ownerID, limit)
	return rows, err
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
