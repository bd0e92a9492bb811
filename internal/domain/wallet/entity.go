package wallet

import (
	"time"

	"github.com/google/uuid"
)

type TransactionType string

const (
	// TransactionTypeDeposit marks funds leaving the wallet to fund a
	// booking (held as a frozen deposit against a future refund).
	TransactionTypeDeposit TransactionType = "deposit"
	TransactionTypeRefund  TransactionType = "refund"
	TransactionTypeTopUp   TransactionType = "topup"
)

// Wallet is a stored monetary balance owned by one account.
// Created lazily on first use.
type Wallet struct {
	OwnerID   uuid.UUID `db:"owner_id" json:"owner_id"`
	Balance   int64     `db:"balance" json:"balance"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Transaction is an immutable ledger line. Append-only; BalanceAfter
// must equal the wallet's balance immediately after the transaction
// is applied.
type Transaction struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	OwnerID       uuid.UUID       `db:"owner_id" json:"owner_id"`
	Type          TransactionType `db:"type" json:"type"`
	Amount        int64           `db:"amount" json:"amount"` // negative for funds leaving
	BalanceAfter  int64           `db:"balance_after" json:"balance_after"`
	ReferenceType string          `db:"reference_type" json:"reference_type,omitempty"`
	ReferenceID   *uuid.UUID      `db:"reference_id" json:"reference_id,omitempty"`
	Description   string          `db:"description" json:"description,omitempty"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}
