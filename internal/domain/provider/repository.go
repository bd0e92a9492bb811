package provider

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

const providerColumns = `id, user_id, display_name, specialty, auto_confirm, schedule, created_at`

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Provider, error) {
	var p Provider
	err := r.db.GetContext(ctx, &p, `
		SELECT `+providerColumns+`
		FROM providers
		WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByLegacyPractitionerID resolves a reference from the legacy
// practitioners table back to the primary providers table through the
// shared user identity.
func (r *Repository) GetByLegacyPractitionerID(ctx context.Context, id uuid.UUID) (*Provider, error) {
	var p Provider
	err := r.db.GetContext(ctx, &p, `
		SELECT p.id, p.user_id, p.display_name, p.specialty, p.auto_confirm, p.schedule, p.created_at
		FROM providers p
		JOIN practitioners legacy ON legacy.user_id = p.user_id
		WHERE legacy.id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) GetSchedule(ctx context.Context, id uuid.UUID) (*Schedule, error) {
	var s Schedule
	err := r.db.GetContext(ctx, &s, `SELECT schedule FROM providers WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
