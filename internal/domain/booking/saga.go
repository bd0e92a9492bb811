package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/fonthenet/sihadz-api/internal/domain/wallet"
)

// sagaState tracks how far the write sequence has progressed. Each
// state has a defined compensation; there is no shared transaction
// across the steps.
type sagaState int

const (
	sagaStarted sagaState = iota
	sagaCreated
	sagaDebited
	sagaLogged
	sagaDepositTracked
)

// paymentSaga runs the booking's write sequence:
//
//	Created → Debited → Logged → DepositTracked
//
// Failures up to Logged roll the wallet and booking table back to
// their pre-saga state. Deposit tracking is deliberately non-fatal
// bookkeeping: a failure there leaves a paid, deposit-less booking,
// which is consistent (the booking carries no deposit reference).
type paymentSaga struct {
	bookings Store
	wallets  WalletStore

	state   sagaState
	booking *Booking
	ownerID uuid.UUID
	amount  int64

	balanceAfter int64
	debitTxID    uuid.UUID
}

func newPaymentSaga(bookings Store, wallets WalletStore, b *Booking, ownerID uuid.UUID, amount int64) *paymentSaga {
	return &paymentSaga{
		bookings: bookings,
		wallets:  wallets,
		state:    sagaStarted,
		booking:  b,
		ownerID:  ownerID,
		amount:   amount,
	}
}

func (sg *paymentSaga) run(ctx context.Context) error {
	if err := sg.createBooking(ctx); err != nil {
		// Nothing was mutated yet, no compensation needed.
		return err
	}
	if err := sg.debit(ctx); err != nil {
		sg.compensate(ctx)
		return err
	}
	if err := sg.recordLedger(ctx); err != nil {
		sg.compensate(ctx)
		return err
	}
	sg.trackDeposit(ctx)
	return nil
}

func (sg *paymentSaga) createBooking(ctx context.Context) error {
	if err := sg.bookings.Insert(ctx, sg.booking); err != nil {
		if errors.Is(err, ErrInvalidProvider) {
			return ErrInvalidProvider
		}
		return fmt.Errorf("%w: %v", ErrCreateFailed, err)
	}
	sg.state = sagaCreated
	return nil
}

func (sg *paymentSaga) debit(ctx context.Context) error {
	balance, err := sg.wallets.DebitBalance(ctx, sg.ownerID, sg.amount)
	if err != nil {
		if errors.Is(err, wallet.ErrInsufficientFunds) {
			// Lost a race against a concurrent debit after the
			// affordability gate. Same outcome as the gate.
			var current int64
			if w, werr := sg.wallets.GetOrCreate(ctx, sg.ownerID); werr == nil {
				current = w.Balance
			}
			return &wallet.InsufficientFundsError{Balance: current, Required: sg.amount}
		}
		return fmt.Errorf("failed to deduct wallet funds, appointment not created: %w", err)
	}
	sg.balanceAfter = balance
	sg.state = sagaDebited
	return nil
}

func (sg *paymentSaga) recordLedger(ctx context.Context) error {
	bookingID := sg.booking.ID
	txID, err := sg.wallets.InsertTransaction(ctx, &wallet.Transaction{
		OwnerID:       sg.ownerID,
		Type:          wallet.TransactionTypeDeposit,
		Amount:        -sg.amount,
		BalanceAfter:  sg.balanceAfter,
		ReferenceType: "booking",
		ReferenceID:   &bookingID,
		Description:   "wallet payment for appointment " + sg.booking.Date + " " + sg.booking.Time,
	})
	if err != nil {
		return fmt.Errorf("failed to record wallet transaction, appointment not created: %w", err)
	}
	sg.debitTxID = txID
	sg.state = sagaLogged
	return nil
}

// trackDeposit records the frozen hold and patches the booking with
// it. Both writes are best-effort; the payment already stands.
func (sg *paymentSaga) trackDeposit(ctx context.Context) {
	dep := &Deposit{
		OwnerID:            sg.ownerID,
		BookingID:          sg.booking.ID,
		Amount:             sg.amount,
		Status:             DepositStatusFrozen,
		DebitTransactionID: &sg.debitTxID,
	}
	if err := sg.bookings.InsertDeposit(ctx, dep); err != nil {
		log.Warn().Err(err).
			Str("booking_id", sg.booking.ID.String()).
			Msg("deposit tracking failed, continuing without deposit record")
		return
	}

	if err := sg.bookings.SetDeposit(ctx, sg.booking.ID, dep.ID, DepositStatusPaid); err != nil {
		log.Warn().Err(err).
			Str("booking_id", sg.booking.ID.String()).
			Msg("failed to link deposit to booking")
	} else {
		sg.booking.DepositID = &dep.ID
		sg.booking.DepositStatus = DepositStatusPaid
	}
	sg.state = sagaDepositTracked
}

// refundState tracks the cancellation's write sequence, mirroring the
// forward saga: each state has a defined compensation so a failed
// cancel leaves the booking active and the wallet at its pre-cancel
// balance, safe to retry.
type refundState int

const (
	refundStarted refundState = iota
	refundCredited
	refundLogged
	refundCancelled
)

type refundSaga struct {
	bookings Store
	wallets  WalletStore

	state   refundState
	booking *Booking
	ownerID uuid.UUID
	amount  int64

	balanceAfter int64
}

func newRefundSaga(bookings Store, wallets WalletStore, b *Booking, ownerID uuid.UUID) *refundSaga {
	return &refundSaga{
		bookings: bookings,
		wallets:  wallets,
		state:    refundStarted,
		booking:  b,
		ownerID:  ownerID,
		amount:   b.PaymentAmount,
	}
}

func (sg *refundSaga) run(ctx context.Context) error {
	if err := sg.credit(ctx); err != nil {
		// Nothing was mutated yet, no compensation needed.
		return err
	}
	if err := sg.recordLedger(ctx); err != nil {
		sg.compensate(ctx)
		return err
	}
	if err := sg.markCancelled(ctx); err != nil {
		sg.compensate(ctx)
		return err
	}
	sg.releaseDeposit(ctx)
	return nil
}

func (sg *refundSaga) credit(ctx context.Context) error {
	balance, err := sg.wallets.CreditBalance(ctx, sg.ownerID, sg.amount)
	if err != nil {
		return fmt.Errorf("failed to refund wallet funds, booking not cancelled: %w", err)
	}
	sg.balanceAfter = balance
	sg.state = refundCredited
	return nil
}

func (sg *refundSaga) recordLedger(ctx context.Context) error {
	bookingID := sg.booking.ID
	_, err := sg.wallets.InsertTransaction(ctx, &wallet.Transaction{
		OwnerID:       sg.ownerID,
		Type:          wallet.TransactionTypeRefund,
		Amount:        sg.amount,
		BalanceAfter:  sg.balanceAfter,
		ReferenceType: "booking",
		ReferenceID:   &bookingID,
		Description:   "refund for cancelled appointment " + sg.booking.Date + " " + sg.booking.Time,
	})
	if err != nil {
		return fmt.Errorf("failed to record refund transaction, booking not cancelled: %w", err)
	}
	sg.state = refundLogged
	return nil
}

func (sg *refundSaga) markCancelled(ctx context.Context) error {
	if err := sg.bookings.MarkCancelled(ctx, sg.booking.ID); err != nil {
		return fmt.Errorf("failed to cancel booking, refund reverted: %w", err)
	}
	sg.state = refundCancelled
	return nil
}

// releaseDeposit flips the hold to refunded. Best-effort; the booking
// carries no claim on the deposit once cancelled.
func (sg *refundSaga) releaseDeposit(ctx context.Context) {
	dep, err := sg.bookings.GetDepositByBooking(ctx, sg.booking.ID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Warn().Err(err).
				Str("booking_id", sg.booking.ID.String()).
				Msg("deposit lookup failed during cancellation")
		}
		return
	}
	if err := sg.bookings.UpdateDepositStatus(ctx, dep.ID, DepositStatusRefunded); err != nil {
		log.Warn().Err(err).
			Str("deposit_id", dep.ID.String()).
			Msg("failed to mark deposit refunded")
	}
}

// compensate takes the credited funds back. The ledger is append-only,
// so a logged refund is reversed with an offsetting entry rather than
// a delete.
func (sg *refundSaga) compensate(ctx context.Context) {
	if sg.state < refundCredited {
		return
	}
	balance, err := sg.wallets.DebitBalance(ctx, sg.ownerID, sg.amount)
	if err != nil {
		log.Error().Err(err).
			Str("owner_id", sg.ownerID.String()).
			Int64("amount", sg.amount).
			Msg("compensation failed: could not revert refund credit")
		return
	}
	log.Info().
		Str("booking_id", sg.booking.ID.String()).
		Int64("amount", sg.amount).
		Msg("compensated: refund credit reverted")

	if sg.state >= refundLogged {
		bookingID := sg.booking.ID
		if _, err := sg.wallets.InsertTransaction(ctx, &wallet.Transaction{
			OwnerID:       sg.ownerID,
			Type:          wallet.TransactionTypeDeposit,
			Amount:        -sg.amount,
			BalanceAfter:  balance,
			ReferenceType: "booking",
			ReferenceID:   &bookingID,
			Description:   "refund reversal for appointment " + sg.booking.Date + " " + sg.booking.Time,
		}); err != nil {
			log.Error().Err(err).
				Str("booking_id", sg.booking.ID.String()).
				Msg("compensation failed: could not record refund reversal")
		}
	}
}

// compensate undoes completed steps in reverse order, restoring the
// wallet balance and booking table to their pre-saga state.
func (sg *paymentSaga) compensate(ctx context.Context) {
	if sg.state >= sagaDebited {
		if _, err := sg.wallets.CreditBalance(ctx, sg.ownerID, sg.amount); err != nil {
			log.Error().Err(err).
				Str("owner_id", sg.ownerID.String()).
				Int64("amount", sg.amount).
				Msg("compensation failed: could not restore wallet balance")
		} else {
			log.Info().
				Str("booking_id", sg.booking.ID.String()).
				Int64("amount", sg.amount).
				Msg("compensated: wallet balance restored")
		}
	}
	if sg.state >= sagaCreated {
		if err := sg.bookings.Delete(ctx, sg.booking.ID); err != nil {
			log.Error().Err(err).
				Str("booking_id", sg.booking.ID.String()).
				Msg("compensation failed: could not delete booking")
		} else {
			log.Info().
				Str("booking_id", sg.booking.ID.String()).
				Msg("compensated: booking deleted")
		}
	}
}
