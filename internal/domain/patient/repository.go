package patient

import (
	"context"
	"database/sql"
	"errors"

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

func (r *Repository) GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	var p Profile
	err := r.db.GetContext(ctx, &p, `
		SELECT user_id, full_name, email, phone, date_of_birth,
		       blood_type, allergies, chronic_conditions, medications,
		       height_cm, weight_kg, emergency_contact_name, emergency_contact_phone,
		       updated_at
		FROM patient_profiles
		WHERE user_id = $1
	`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListDependents returns the owner's dependents matching ids,
// preserving the requested order.
func (r *Repository) ListDependents(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]Dependent, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	idStrs := make([]string, len(ids))
	for i, id := range ids {
		idStrs[i] = id.String()
	}

	var rows []Dependent
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, full_name, relationship, date_of_birth,
		       blood_type, allergies, chronic_conditions, medications,
		       height_cm, weight_kg, emergency_contact_name, emergency_contact_phone,
		       created_at
		FROM dependents
		WHERE user_id = $1 AND id = ANY($2)
	`, ownerID, pq.Array(idStrs))
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]Dependent, len(rows))
	for _, d := range rows {
		byID[d.ID] = d
	}

	ordered := make([]Dependent, 0, len(ids))
	for _, id := range ids {
		if d, ok := byID[id]; ok {
			ordered = append(ordered, d)
		}
	}
	return ordered, nil
}
