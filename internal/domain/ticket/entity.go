package ticket

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/fonthenet/sihadz-api/internal/domain/booking"
)

const (
	TypeAppointment = "appointment"
	StatusOpen      = "open"
)

// Metadata is the JSONB payload carrying the ticket's own vitals
// capture: a flattened primary snapshot plus one entry per requested
// dependent.
type Metadata struct {
	Date            string           `json:"date"`
	Time            string           `json:"time"`
	VisitType       string           `json:"visit_type,omitempty"`
	Vitals          booking.Vitals   `json:"vitals"`
	DependentVitals []booking.Vitals `json:"dependent_vitals,omitempty"`
}

func (m Metadata) Value() (driver.Value, error) {
	return json.Marshal(m)
}

func (m *Metadata) Scan(src interface{}) error {
	if src == nil {
		*m = Metadata{}
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return errors.New("ticket metadata: unsupported scan type")
	}
	return json.Unmarshal(b, m)
}

// Ticket is the support/fulfillment artifact optionally created
// alongside a booking. Never required for the booking to succeed.
type Ticket struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	TicketNumber  string     `db:"ticket_number" json:"ticket_number"`
	Type          string     `db:"type" json:"type"`
	Status        string     `db:"status" json:"status"`
	PayerID       uuid.UUID  `db:"payer_id" json:"payer_id"`
	ProviderID    *uuid.UUID `db:"provider_id" json:"provider_id,omitempty"`
	BookingID     uuid.UUID  `db:"booking_id" json:"booking_id"`
	PaymentMethod string     `db:"payment_method" json:"payment_method"`
	PaymentAmount int64      `db:"payment_amount" json:"payment_amount"`
	Metadata      Metadata   `db:"metadata" json:"metadata"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}

// TimelineEvent is an append-only entry in a ticket's history.
type TimelineEvent struct {
	ID          uuid.UUID `db:"id" json:"id"`
	TicketID    uuid.UUID `db:"ticket_id" json:"ticket_id"`
	Action      string    `db:"action" json:"action"`
	Description string    `db:"description" json:"description"`
	Actor       string    `db:"actor" json:"actor"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
