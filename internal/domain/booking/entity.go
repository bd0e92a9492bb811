package booking

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"

	PaymentMethodWallet   = "wallet"
	PaymentStatusPaid     = "paid"
	PaymentStatusRefunded = "refunded"

	DepositStatusFrozen   = "frozen"
	DepositStatusPaid     = "paid"
	DepositStatusRefunded = "refunded"
)

// Vitals is the flattened set of health attributes captured onto a
// booking for provider display. Not a stored profile; a merged value
// object built once per booking.
type Vitals struct {
	PatientName           string `db:"vitals_patient_name" json:"patient_name,omitempty"`
	Age                   *int   `db:"vitals_age" json:"age,omitempty"`
	BloodType             string `db:"vitals_blood_type" json:"blood_type,omitempty"`
	Allergies             string `db:"vitals_allergies" json:"allergies,omitempty"`
	ChronicConditions     string `db:"vitals_chronic_conditions" json:"chronic_conditions,omitempty"`
	Medications           string `db:"vitals_medications" json:"medications,omitempty"`
	Height                string `db:"vitals_height" json:"height,omitempty"`
	Weight                string `db:"vitals_weight" json:"weight,omitempty"`
	EmergencyContactName  string `db:"vitals_emergency_contact_name" json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone string `db:"vitals_emergency_contact_phone" json:"emergency_contact_phone,omitempty"`
}

// Booking is an appointment paid from the payer's wallet.
type Booking struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	PayerID    *uuid.UUID `db:"payer_id" json:"payer_id,omitempty"`
	ProviderID *uuid.UUID `db:"provider_id" json:"provider_id,omitempty"`
	Date       string     `db:"appointment_date" json:"date"` // YYYY-MM-DD
	Time       string     `db:"appointment_time" json:"time"` // HH:MM
	Status     string     `db:"status" json:"status"`
	VisitType  string     `db:"visit_type" json:"visit_type,omitempty"`
	Notes      string     `db:"notes" json:"notes,omitempty"`

	PaymentMethod string `db:"payment_method" json:"payment_method"`
	PaymentAmount int64  `db:"payment_amount" json:"payment_amount"`
	PaymentStatus string `db:"payment_status" json:"payment_status"`

	GuestName  *string `db:"guest_name" json:"guest_name,omitempty"`
	GuestEmail *string `db:"guest_email" json:"guest_email,omitempty"`
	GuestPhone *string `db:"guest_phone" json:"guest_phone,omitempty"`

	DependentIDs pq.StringArray `db:"dependent_ids" json:"dependent_ids,omitempty"`

	Vitals

	DepositID     *uuid.UUID `db:"deposit_id" json:"deposit_id,omitempty"`
	DepositStatus string     `db:"deposit_status" json:"deposit_status,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Deposit tracks funds held against a possible future refund, linked
// 1:1 with the booking that spawned it.
type Deposit struct {
	ID                 uuid.UUID  `db:"id" json:"id"`
	OwnerID            uuid.UUID  `db:"owner_id" json:"owner_id"`
	BookingID          uuid.UUID  `db:"booking_id" json:"booking_id"`
	Amount             int64      `db:"amount" json:"amount"`
	Status             string     `db:"status" json:"status"`
	DebitTransactionID *uuid.UUID `db:"debit_transaction_id" json:"debit_transaction_id,omitempty"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
}
