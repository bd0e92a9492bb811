package ticket

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Insert(ctx context.Context, t *Ticket) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	t.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tickets
			(id, ticket_number, type, status, payer_id, provider_id, booking_id,
			 payment_method, payment_amount, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, t.ID, t.TicketNumber, t.Type, t.Status, t.PayerID, t.ProviderID, t.BookingID,
		t.PaymentMethod, t.PaymentAmount, t.Metadata, t.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" &&
			strings.Contains(strings.ToLower(pqErr.Constraint), "ticket_number") {
			return ErrDuplicateNumber
		}
		return err
	}
	return nil
}

func (r *Repository) InsertTimelineEvent(ctx context.Context, e *TimelineEvent) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	e.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO ticket_timeline_events (id, ticket_id, action, description, actor, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, e.ID, e.TicketID, e.Action, e.Description, e.Actor, e.CreatedAt)
	return err
}
