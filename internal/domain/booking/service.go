package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/fonthenet/sihadz-api/internal/domain/patient"
	"github.com/fonthenet/sihadz-api/internal/domain/provider"
	"github.com/fonthenet/sihadz-api/internal/domain/wallet"
)

// Store is the booking persistence surface the service and saga run
// against. Implemented by Repository; faked in tests.
type Store interface {
	Insert(ctx context.Context, b *Booking) error
	HasActiveSlot(ctx context.Context, date, timeOfDay string, providerID, payerID *uuid.UUID, guestEmail, guestPhone string) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetDeposit(ctx context.Context, bookingID, depositID uuid.UUID, status string) error
	MarkCancelled(ctx context.Context, id uuid.UUID) error
	InsertDeposit(ctx context.Context, d *Deposit) error
	GetDepositByBooking(ctx context.Context, bookingID uuid.UUID) (*Deposit, error)
	UpdateDepositStatus(ctx context.Context, depositID uuid.UUID, status string) error
}

// WalletStore is the wallet surface the saga debits and compensates
// against. Implemented by wallet.Repository.
type WalletStore interface {
	GetOrCreate(ctx context.Context, ownerID uuid.UUID) (*wallet.Wallet, error)
	DebitBalance(ctx context.Context, ownerID uuid.UUID, amount int64) (int64, error)
	CreditBalance(ctx context.Context, ownerID uuid.UUID, amount int64) (int64, error)
	InsertTransaction(ctx context.Context, t *wallet.Transaction) (uuid.UUID, error)
}

// ProviderResolver resolves a loose provider token to a provider
// record, or nil when the booking should proceed providerless.
type ProviderResolver interface {
	Resolve(ctx context.Context, token string) (*provider.Provider, error)
}

// PatientStore sources the stored profiles vitals are built from.
type PatientStore interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*patient.Profile, error)
	ListDependents(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]patient.Dependent, error)
}

// TicketRequest carries everything the ticket generator needs to
// re-derive its own vitals and persist the support artifact.
type TicketRequest struct {
	BookingID       uuid.UUID
	PayerID         uuid.UUID
	ProviderID      *uuid.UUID
	Date            string
	Time            string
	VisitType       string
	Amount          int64
	PatientName     string
	DependentIDs    []uuid.UUID
	DependentVitals map[string]VitalsOverride
	Vitals          *VitalsOverride
}

// TicketCreator generates the optional support ticket. Failures are
// swallowed by the caller; the booking already stands.
type TicketCreator interface {
	CreateForBooking(ctx context.Context, req TicketRequest) (string, error)
}

type Service struct {
	bookings  Store
	wallets   WalletStore
	providers ProviderResolver
	patients  PatientStore
	tickets   TicketCreator // optional

	now func() time.Time
}

func NewService(bookings Store, wallets WalletStore, providers ProviderResolver, patients PatientStore, tickets TicketCreator) *Service {
	return &Service{
		bookings:  bookings,
		wallets:   wallets,
		providers: providers,
		patients:  patients,
		tickets:   tickets,
		now:       time.Now,
	}
}

// CreateWithWallet executes the wallet-funded booking workflow:
// authorization, provider resolution and schedule checks, the
// affordability gate, the duplicate guard, vitals assembly, then the
// compensated write sequence, and finally the optional ticket.
func (s *Service) CreateWithWallet(ctx context.Context, callerID uuid.UUID, req *CreateWithWalletRequest) (*CreateWithWalletResponse, error) {
	// The paying identity must be the caller.
	if req.PatientID != "" && req.PatientID != callerID.String() {
		return nil, ErrForbidden
	}
	if req.Amount <= 0 {
		return nil, wallet.ErrInvalidAmount
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}
	minutes, err := provider.ClockMinutes(req.Time)
	if err != nil {
		return nil, ErrInvalidTime
	}

	// Provider resolution and schedule evaluation run before any
	// wallet access: blackout dates reject without touching funds.
	prov, err := s.providers.Resolve(ctx, req.ProviderID)
	if err != nil {
		return nil, err
	}
	if prov != nil {
		if err := prov.Schedule.CheckSlot(date, minutes); err != nil {
			return nil, err
		}
	}

	w, err := s.wallets.GetOrCreate(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if err := wallet.CheckAffordability(w, req.Amount); err != nil {
		return nil, err
	}

	var providerID *uuid.UUID
	if prov != nil {
		providerID = &prov.ID
	}

	payerID := callerID
	exists, err := s.bookings.HasActiveSlot(ctx, req.Date, req.Time, providerID, &payerID, req.Email, req.Phone)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateSlot
	}

	dependentIDs, vitals, err := s.assembleVitals(ctx, callerID, req)
	if err != nil {
		return nil, err
	}

	status := StatusPending
	if prov != nil && prov.AutoConfirm {
		status = StatusConfirmed
	}

	b := &Booking{
		PayerID:       &payerID,
		ProviderID:    providerID,
		Date:          req.Date,
		Time:          req.Time,
		Status:        status,
		VisitType:     req.VisitType,
		Notes:         req.Notes,
		PaymentMethod: PaymentMethodWallet,
		PaymentAmount: req.Amount,
		PaymentStatus: PaymentStatusPaid,
		DependentIDs:  toStringArray(dependentIDs),
		Vitals:        vitals,
	}
	if req.PatientName != "" && b.Vitals.PatientName == "" {
		b.Vitals.PatientName = req.PatientName
	}

	saga := newPaymentSaga(s.bookings, s.wallets, b, callerID, req.Amount)
	if err := saga.run(ctx); err != nil {
		return nil, err
	}

	var ticketNumber *string
	if req.CreateTicket && s.tickets != nil {
		num, err := s.tickets.CreateForBooking(ctx, TicketRequest{
			BookingID:       b.ID,
			PayerID:         callerID,
			ProviderID:      providerID,
			Date:            req.Date,
			Time:            req.Time,
			VisitType:       req.VisitType,
			Amount:          req.Amount,
			PatientName:     req.PatientName,
			DependentIDs:    dependentIDs,
			DependentVitals: req.DependentVitals,
			Vitals:          req.Vitals,
		})
		if err != nil {
			// Convenience artifact, never fails the booking.
			log.Error().Err(err).
				Str("booking_id", b.ID.String()).
				Msg("ticket generation failed")
		} else {
			ticketNumber = &num
		}
	}

	log.Info().
		Str("booking_id", b.ID.String()).
		Str("payer_id", callerID.String()).
		Int64("amount", req.Amount).
		Int64("balance_after", saga.balanceAfter).
		Str("status", b.Status).
		Msg("wallet booking created")

	return &CreateWithWalletResponse{
		Booking:      b,
		TicketNumber: ticketNumber,
		Balance:      saga.balanceAfter,
	}, nil
}

// assembleVitals builds the booking's flattened vitals. When
// dependents are requested, only the first one populates the primary
// booking columns; the remaining dependents are captured by ticket
// metadata, not here.
func (s *Service) assembleVitals(ctx context.Context, callerID uuid.UUID, req *CreateWithWalletRequest) ([]uuid.UUID, Vitals, error) {
	now := s.now()

	dependentIDs := make([]uuid.UUID, 0, len(req.DependentIDs))
	for _, raw := range req.DependentIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		dependentIDs = append(dependentIDs, id)
	}

	if len(dependentIDs) > 0 {
		deps, err := s.patients.ListDependents(ctx, callerID, dependentIDs)
		if err != nil {
			return nil, Vitals{}, err
		}
		if len(deps) > 0 {
			first := deps[0]
			ov := overrideFor(req.DependentVitals, first.ID)
			return dependentIDs, BuildVitals(first.FullName, first.DateOfBirth, first.HealthProfile, ov, now), nil
		}
	}

	prof, err := s.patients.GetProfile(ctx, callerID)
	if err != nil {
		if errors.Is(err, patient.ErrNotFound) {
			// No stored profile: client-supplied values only.
			return dependentIDs, BuildVitals(req.PatientName, nil, patient.HealthProfile{}, req.Vitals, now), nil
		}
		return nil, Vitals{}, err
	}
	name := prof.FullName
	if name == "" {
		name = req.PatientName
	}
	return dependentIDs, BuildVitals(name, prof.DateOfBirth, prof.HealthProfile, req.Vitals, now), nil
}

func overrideFor(m map[string]VitalsOverride, id uuid.UUID) *VitalsOverride {
	if m == nil {
		return nil
	}
	if ov, ok := m[id.String()]; ok {
		return &ov
	}
	return nil
}

func toStringArray(ids []uuid.UUID) []string {
	if len(ids) == 0 {
		return nil
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

// Get returns the caller's booking.
func (s *Service) Get(ctx context.Context, callerID, bookingID uuid.UUID) (*Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.PayerID == nil || *b.PayerID != callerID {
		return nil, ErrForbidden
	}
	return b, nil
}

// Cancel refunds a paid booking: wallet credit, refund ledger entry,
// booking marked cancelled, deposit released. The write sequence is a
// compensated saga so a mid-sequence failure leaves the booking active
// and the balance untouched; retrying never credits twice.
func (s *Service) Cancel(ctx context.Context, callerID, bookingID uuid.UUID) (*CancelResponse, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.PayerID == nil || *b.PayerID != callerID {
		return nil, ErrForbidden
	}
	if b.Status == StatusCancelled {
		return nil, ErrAlreadyCancelled
	}

	saga := newRefundSaga(s.bookings, s.wallets, b, callerID)
	if err := saga.run(ctx); err != nil {
		return nil, err
	}
	b.Status = StatusCancelled
	b.PaymentStatus = PaymentStatusRefunded

	log.Info().
		Str("booking_id", bookingID.String()).
		Int64("refunded", b.PaymentAmount).
		Msg("booking cancelled and refunded")

	return &CancelResponse{Booking: b, Balance: saga.balanceAfter}, nil
}
