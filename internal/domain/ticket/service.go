package ticket

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fonthenet/sihadz-api/internal/domain/booking"
	"github.com/fonthenet/sihadz-api/internal/domain/patient"
)

// Store is the ticket persistence surface. Implemented by Repository.
type Store interface {
	Insert(ctx context.Context, t *Ticket) error
	InsertTimelineEvent(ctx context.Context, e *TimelineEvent) error
}

// numberAttempts bounds the uniqueness retry loop for the 5-digit
// random suffix.
const numberAttempts = 5

type Service struct {
	repo     Store
	patients booking.PatientStore

	now func() time.Time
}

func NewService(repo Store, patients booking.PatientStore) *Service {
	return &Service{repo: repo, patients: patients, now: time.Now}
}

// CreateForBooking persists the support ticket plus one timeline
// event. It re-derives its own vitals capture, looping over every
// requested dependent (the booking row itself flattens only the
// first). Returns the generated ticket number.
func (s *Service) CreateForBooking(ctx context.Context, req booking.TicketRequest) (string, error) {
	meta := Metadata{
		Date:      req.Date,
		Time:      req.Time,
		VisitType: req.VisitType,
	}

	now := s.now()

	deps, err := s.patients.ListDependents(ctx, req.PayerID, req.DependentIDs)
	if err != nil {
		return "", err
	}
	for _, d := range deps {
		var ov *booking.VitalsOverride
		if req.DependentVitals != nil {
			if o, ok := req.DependentVitals[d.ID.String()]; ok {
				ov = &o
			}
		}
		meta.DependentVitals = append(meta.DependentVitals,
			booking.BuildVitals(d.FullName, d.DateOfBirth, d.HealthProfile, ov, now))
	}

	if len(meta.DependentVitals) > 0 {
		meta.Vitals = meta.DependentVitals[0]
	} else {
		prof, err := s.patients.GetProfile(ctx, req.PayerID)
		if err != nil {
			if !errors.Is(err, patient.ErrNotFound) {
				return "", err
			}
			meta.Vitals = booking.BuildVitals(req.PatientName, nil, patient.HealthProfile{}, req.Vitals, now)
		} else {
			name := prof.FullName
			if name == "" {
				name = req.PatientName
			}
			meta.Vitals = booking.BuildVitals(name, prof.DateOfBirth, prof.HealthProfile, req.Vitals, now)
		}
	}

	t := &Ticket{
		Type:          TypeAppointment,
		Status:        StatusOpen,
		PayerID:       req.PayerID,
		ProviderID:    req.ProviderID,
		BookingID:     req.BookingID,
		PaymentMethod: "wallet",
		PaymentAmount: req.Amount,
		Metadata:      meta,
	}

	var insertErr error
	for attempt := 0; attempt < numberAttempts; attempt++ {
		t.TicketNumber = Number(now)
		insertErr = s.repo.Insert(ctx, t)
		if insertErr == nil {
			break
		}
		if !errors.Is(insertErr, ErrDuplicateNumber) {
			return "", insertErr
		}
	}
	if insertErr != nil {
		return "", insertErr
	}

	if err := s.repo.InsertTimelineEvent(ctx, &TimelineEvent{
		TicketID:    t.ID,
		Action:      "created",
		Description: "Ticket created for wallet-paid appointment",
		Actor:       req.PayerID.String(),
	}); err != nil {
		// Timeline is audit garnish; the ticket itself stands.
		log.Warn().Err(err).Str("ticket_id", t.ID.String()).Msg("failed to record ticket timeline event")
	}

	log.Info().
		Str("ticket_number", t.TicketNumber).
		Str("booking_id", req.BookingID.String()).
		Msg("support ticket created")

	return t.TicketNumber, nil
}
