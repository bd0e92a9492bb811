package ticket_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/fonthenet/sihadz-api/internal/domain/booking"
	"github.com/fonthenet/sihadz-api/internal/domain/patient"
	"github.com/fonthenet/sihadz-api/internal/domain/ticket"
)

var numberPattern = regexp.MustCompile(`^TKT-\d{8}-\d{5}$`)

func TestNumberFormat(t *testing.T) {
	now := time.Date(2026, 9, 7, 14, 30, 0, 0, time.UTC)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		num := ticket.Number(now)
		if !numberPattern.MatchString(num) {
			t.Fatalf("number %q does not match TKT-YYYYMMDD-NNNNN", num)
		}
		if num[4:12] != "20260907" {
			t.Errorf("date part = %q", num[4:12])
		}
		seen[num] = true
	}
	// 50 draws from a 100000 space; all identical would mean a broken
	// generator, not bad luck.
	if len(seen) < 2 {
		t.Errorf("generator produced no variety: %v", seen)
	}
}

type fakeTicketStore struct {
	duplicates  int // first N inserts fail with ErrDuplicateNumber
	insertErr   error
	timelineErr error

	tickets []ticket.Ticket
	events  []ticket.TimelineEvent
}

func (f *fakeTicketStore) Insert(_ context.Context, tk *ticket.Ticket) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	if f.duplicates > 0 {
		f.duplicates--
		return ticket.ErrDuplicateNumber
	}
	if tk.ID == uuid.Nil {
		tk.ID = uuid.New()
	}
	f.tickets = append(f.tickets, *tk)
	return nil
}

func (f *fakeTicketStore) InsertTimelineEvent(_ context.Context, e *ticket.TimelineEvent) error {
	if f.timelineErr != nil {
		return f.timelineErr
	}
	f.events = append(f.events, *e)
	return nil
}

type fakePatients struct {
	profile    *patient.Profile
	dependents []patient.Dependent
}

func (f *fakePatients) GetProfile(_ context.Context, _ uuid.UUID) (*patient.Profile, error) {
	if f.profile == nil {
		return nil, patient.ErrNotFound
	}
	return f.profile, nil
}

func (f *fakePatients) ListDependents(_ context.Context, _ uuid.UUID, _ []uuid.UUID) ([]patient.Dependent, error) {
	return f.dependents, nil
}

func baseRequest() booking.TicketRequest {
	return booking.TicketRequest{
		BookingID:   uuid.New(),
		PayerID:     uuid.New(),
		Date:        "2026-09-07",
		Time:        "10:00",
		VisitType:   "clinic",
		Amount:      1000,
		PatientName: "Jane Doe",
	}
}

func TestCreateForBooking(t *testing.T) {
	store := &fakeTicketStore{}
	svc := ticket.NewService(store, &fakePatients{})

	req := baseRequest()
	num, err := svc.CreateForBooking(context.Background(), req)
	if err != nil {
		t.Fatalf("CreateForBooking: %v", err)
	}
	if !numberPattern.MatchString(num) {
		t.Errorf("number = %q", num)
	}

	if len(store.tickets) != 1 {
		t.Fatalf("expected 1 ticket, got %d", len(store.tickets))
	}
	tk := store.tickets[0]
	if tk.Type != ticket.TypeAppointment || tk.Status != ticket.StatusOpen {
		t.Errorf("type/status = %q/%q", tk.Type, tk.Status)
	}
	if tk.BookingID != req.BookingID || tk.PayerID != req.PayerID {
		t.Errorf("references not carried over")
	}
	if tk.PaymentMethod != "wallet" || tk.PaymentAmount != 1000 {
		t.Errorf("payment = %q/%d", tk.PaymentMethod, tk.PaymentAmount)
	}
	if tk.Metadata.Date != "2026-09-07" || tk.Metadata.Time != "10:00" {
		t.Errorf("metadata slot = %q %q", tk.Metadata.Date, tk.Metadata.Time)
	}
	if tk.Metadata.Vitals.PatientName != "Jane Doe" {
		t.Errorf("vitals name = %q", tk.Metadata.Vitals.PatientName)
	}

	if len(store.events) != 1 {
		t.Fatalf("expected 1 timeline event, got %d", len(store.events))
	}
	ev := store.events[0]
	if ev.Action != "created" || ev.Actor != req.PayerID.String() {
		t.Errorf("event = %+v", ev)
	}
}

func TestCreateForBookingRetriesDuplicateNumber(t *testing.T) {
	store := &fakeTicketStore{duplicates: 3}
	svc := ticket.NewService(store, &fakePatients{})

	num, err := svc.CreateForBooking(context.Background(), baseRequest())
	if err != nil {
		t.Fatalf("expected retry to succeed: %v", err)
	}
	if !numberPattern.MatchString(num) {
		t.Errorf("number = %q", num)
	}
	if len(store.tickets) != 1 {
		t.Errorf("expected 1 ticket after retries, got %d", len(store.tickets))
	}
}

func TestCreateForBookingExhaustsRetries(t *testing.T) {
	store := &fakeTicketStore{duplicates: 100}
	svc := ticket.NewService(store, &fakePatients{})

	_, err := svc.CreateForBooking(context.Background(), baseRequest())
	if !errors.Is(err, ticket.ErrDuplicateNumber) {
		t.Fatalf("expected ErrDuplicateNumber after exhausting retries, got %v", err)
	}
}

func TestCreateForBookingTimelineFailureIsNonFatal(t *testing.T) {
	store := &fakeTicketStore{timelineErr: errors.New("timeline down")}
	svc := ticket.NewService(store, &fakePatients{})

	num, err := svc.CreateForBooking(context.Background(), baseRequest())
	if err != nil {
		t.Fatalf("timeline failure must not fail the ticket: %v", err)
	}
	if num == "" {
		t.Errorf("number should still be returned")
	}
}

func TestCreateForBookingCapturesAllDependents(t *testing.T) {
	dobA := time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)
	dobB := time.Date(2019, 6, 1, 0, 0, 0, 0, time.UTC)
	depA := uuid.New()
	depB := uuid.New()

	patients := &fakePatients{
		dependents: []patient.Dependent{
			{ID: depA, FullName: "Alpha", DateOfBirth: &dobA, HealthProfile: patient.HealthProfile{BloodType: "A+"}},
			{ID: depB, FullName: "Beta", DateOfBirth: &dobB, HealthProfile: patient.HealthProfile{BloodType: "B+"}},
		},
	}
	store := &fakeTicketStore{}
	svc := ticket.NewService(store, patients)

	req := baseRequest()
	req.DependentIDs = []uuid.UUID{depA, depB}
	req.DependentVitals = map[string]booking.VitalsOverride{
		depB.String(): {Allergies: "pollen"},
	}

	if _, err := svc.CreateForBooking(context.Background(), req); err != nil {
		t.Fatalf("CreateForBooking: %v", err)
	}

	meta := store.tickets[0].Metadata
	if len(meta.DependentVitals) != 2 {
		t.Fatalf("expected vitals for both dependents, got %d", len(meta.DependentVitals))
	}
	if meta.DependentVitals[0].PatientName != "Alpha" || meta.DependentVitals[1].PatientName != "Beta" {
		t.Errorf("dependent order lost: %q, %q", meta.DependentVitals[0].PatientName, meta.DependentVitals[1].PatientName)
	}
	if meta.DependentVitals[1].Allergies != "pollen" {
		t.Errorf("per-dependent override not applied: %q", meta.DependentVitals[1].Allergies)
	}
	if meta.Vitals.PatientName != "Alpha" {
		t.Errorf("primary vitals = %q, want first dependent", meta.Vitals.PatientName)
	}
}
