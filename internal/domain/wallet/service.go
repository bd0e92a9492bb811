package wallet

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetOrCreate(ctx context.Context, ownerID uuid.UUID) (*Wallet, error) {
	return s.repo.GetOrCreate(ctx, ownerID)
}

func (s *Service) GetBalance(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	return s.repo.GetBalance(ctx, ownerID)
}

func (s *Service) ListTransactions(ctx context.Context, ownerID uuid.UUID, limit int) ([]Transaction, error) {
	return s.repo.ListTransactions(ctx, ownerID, limit)
}

// CheckAffordability is the saga's single abort-early checkpoint. Pure
// comparison, no mutation on the failure path.
func CheckAffordability(w *Wallet, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if w.Balance < amount {
		return &InsufficientFundsError{Balance: w.Balance, Required: amount}
	}
	return nil
}

// TopUp credits the wallet and records a ledger entry.
func (s *Service) TopUp(ctx context.Context, ownerID uuid.UUID, amount int64, description string) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	if _, err := s.repo.GetOrCreate(ctx, ownerID); err != nil {
		return 0, err
	}

	balance, err := s.repo.CreditBalance(ctx, ownerID, amount)
	if err != nil {
		return 0, err
	}
	if _, err := s.repo.InsertTransaction(ctx, &Transaction{
		OwnerID:      ownerID,
		Type:         TransactionTypeTopUp,
		Amount:       amount,
		BalanceAfter: balance,
		Description:  description,
	}); err != nil {
		return 0, err
	}

	log.Info().Str("owner_id", ownerID.String()).Int64("amount", amount).Msg("wallet topup applied")
	return balance, nil
}
