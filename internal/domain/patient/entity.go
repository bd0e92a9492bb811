package patient

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Medication is a structured entry in a patient's medication list.
type Medication struct {
	Name   string `json:"name"`
	Dosage string `json:"dosage,omitempty"`
}

// MedicationList is stored as a JSONB column.
type MedicationList []Medication

func (m MedicationList) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *MedicationList) Scan(src interface{}) error {
	if src == nil {
		*m = nil
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return errors.New("medications: unsupported scan type")
	}
	return json.Unmarshal(b, m)
}

// HealthProfile carries the health attributes captured onto bookings
// and tickets for provider display.
type HealthProfile struct {
	BloodType             string         `db:"blood_type" json:"blood_type,omitempty"`
	Allergies             pq.StringArray `db:"allergies" json:"allergies,omitempty"`
	ChronicConditions     pq.StringArray `db:"chronic_conditions" json:"chronic_conditions,omitempty"`
	Medications           MedicationList `db:"medications" json:"medications,omitempty"`
	HeightCM              *float64       `db:"height_cm" json:"height_cm,omitempty"`
	WeightKG              *float64       `db:"weight_kg" json:"weight_kg,omitempty"`
	EmergencyContactName  string         `db:"emergency_contact_name" json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone string         `db:"emergency_contact_phone" json:"emergency_contact_phone,omitempty"`
}

// Profile is the primary account holder's patient profile.
type Profile struct {
	UserID      uuid.UUID  `db:"user_id" json:"user_id"`
	FullName    string     `db:"full_name" json:"full_name"`
	Email       string     `db:"email" json:"email"`
	Phone       string     `db:"phone" json:"phone"`
	DateOfBirth *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	HealthProfile
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Dependent is a family member linked to a primary account,
// bookable as the patient.
type Dependent struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	UserID       uuid.UUID  `db:"user_id" json:"user_id"`
	FullName     string     `db:"full_name" json:"full_name"`
	Relationship string     `db:"relationship" json:"relationship"`
	DateOfBirth  *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	HealthProfile
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
