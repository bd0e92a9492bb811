package booking

import (
	"context"
	"database/sql"
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

const bookingColumns = `
	id, payer_id, provider_id, appointment_date, appointment_time, status,
	visit_type, notes, payment_method, payment_amount, payment_status,
	guest_name, guest_email, guest_phone, dependent_ids,
	vitals_patient_name, vitals_age, vitals_blood_type, vitals_allergies,
	vitals_chronic_conditions, vitals_medications, vitals_height, vitals_weight,
	vitals_emergency_contact_name, vitals_emergency_contact_phone,
	deposit_id, deposit_status, created_at, updated_at`

func (r *Repository) Insert(ctx context.Context, b *Booking) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now

	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO bookings (
			id, payer_id, provider_id, appointment_date, appointment_time, status,
			visit_type, notes, payment_method, payment_amount, payment_status,
			guest_name, guest_email, guest_phone, dependent_ids,
			vitals_patient_name, vitals_age, vitals_blood_type, vitals_allergies,
			vitals_chronic_conditions, vitals_medications, vitals_height, vitals_weight,
			vitals_emergency_contact_name, vitals_emergency_contact_phone,
			deposit_status, created_at, updated_at
		) VALUES (
			:id, :payer_id, :provider_id, :appointment_date, :appointment_time, :status,
			:visit_type, :notes, :payment_method, :payment_amount, :payment_status,
			:guest_name, :guest_email, :guest_phone, :dependent_ids,
			:vitals_patient_name, :vitals_age, :vitals_blood_type, :vitals_allergies,
			:vitals_chronic_conditions, :vitals_medications, :vitals_height, :vitals_weight,
			:vitals_emergency_contact_name, :vitals_emergency_contact_phone,
			:deposit_status, :created_at, :updated_at
		)
	`, b)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" &&
			strings.Contains(strings.ToLower(pqErr.Constraint), "provider") {
			return ErrInvalidProvider
		}
		return err
	}
	return nil
}

// HasActiveSlot reports whether a non-cancelled booking already exists
// for the same provider/date/time and patient-or-guest identity.
// Best-effort guard; the store's own constraints are the backstop for
// concurrent requests.
func (r *Repository) HasActiveSlot(ctx context.Context, date, timeOfDay string, providerID, payerID *uuid.UUID, guestEmail, guestPhone string) (bool, error) {
	query := `
		SELECT COUNT(1) FROM bookings
		WHERE appointment_date = $1
		  AND appointment_time = $2
		  AND status <> 'cancelled'
		  AND provider_id IS NOT DISTINCT FROM $3`
	args := []interface{}{date, timeOfDay, providerID}

	if payerID != nil {
		query += ` AND payer_id = $4`
		args = append(args, *payerID)
	} else {
		query += ` AND guest_email = $4 AND guest_phone = $5`
		args = append(args, guestEmail, guestPhone)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var b Booking
	err := r.db.GetContext(ctx, &b, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Delete removes the booking outright. Compensation path only: a
// booking whose payment failed never existed as far as the caller is
// concerned.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	return err
}

func (r *Repository) SetDeposit(ctx context.Context, bookingID, depositID uuid.UUID, status string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE bookings
		SET deposit_id = $1, deposit_status = $2, updated_at = now()
		WHERE id = $3
	`, depositID, status, bookingID)
	return err
}

func (r *Repository) MarkCancelled(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE bookings
		SET status = 'cancelled', payment_status = 'refunded', updated_at = now()
		WHERE id = $1
	`, id)
	return err
}

func (r *Repository) InsertDeposit(ctx context.Context, d *Deposit) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	d.CreatedAt = time.Now()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO deposits (id, owner_id, booking_id, amount, status, debit_transaction_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, d.ID, d.OwnerID, d.BookingID, d.Amount, d.Status, d.DebitTransactionID, d.CreatedAt)
	return err
}

func (r *Repository) GetDepositByBooking(ctx context.Context, bookingID uuid.UUID) (*Deposit, error) {
	var d Deposit
	err := r.db.GetContext(ctx, &d, `
		SELECT id, owner_id, booking_id, amount, status, debit_transaction_id, created_at
		FROM deposits
		WHERE booking_id = $1
	`, bookingID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *Repository) UpdateDepositStatus(ctx context.Context, depositID uuid.UUID, status string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE deposits SET status = $1 WHERE id = $2`, status, depositID)
	return err
}
