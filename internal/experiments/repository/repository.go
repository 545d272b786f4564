package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ConsentPreference is a visitor's analytics consent record.
type ConsentPreference struct {
	VisitorID        string
	AnalyticsConsent bool
	UpdatedAt        time.Time
}

// ConsentStore reads and writes visitor consent preferences.
type ConsentStore interface {
	GetConsent(ctx context.Context, visitorID string) (bool, error)
	UpsertConsent(ctx context.Context, visitorID string, analyticsConsent bool) error
}

// Repository is the pgx-backed consent store.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new experiments repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetConsent returns the stored analytics consent for a visitor.
// An unknown visitor has no consent.
func (r *Repository) GetConsent(ctx context.Context, visitorID string) (bool, error) {
	var consent bool
	err := r.pool.QueryRow(ctx, `
		SELECT analytics_consent
		FROM consent_preferences
		WHERE visitor_id = $1
	`, visitorID).Scan(&consent)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return consent, nil
}

// UpsertConsent stores the visitor's consent preference, replacing any
// prior value.
func (r *Repository) UpsertConsent(ctx context.Context, visitorID string, analyticsConsent bool) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO consent_preferences (visitor_id, analytics_consent, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (visitor_id)
		DO UPDATE SET analytics_consent = EXCLUDED.analytics_consent, updated_at = now()
	`, visitorID, analyticsConsent)
	return err
}
