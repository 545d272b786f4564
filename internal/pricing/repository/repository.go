package repository

import (
	"context"
	"errors"

	"growthcore_backend/internal/pricing/domain"
	"growthcore_backend/platform/apperr"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when no negotiation state exists for a conversation.
var ErrNotFound = errors.New("negotiation state not found")

// Store persists per-conversation negotiation state.
type Store interface {
	Get(ctx context.Context, conversationID string) (domain.State, error)
	Create(ctx context.Context, state domain.State) (domain.State, error)
	// Update replaces the stored state when the caller's version is still
	// current, and returns a conflict error when it is stale.
	Update(ctx context.Context, state domain.State) (domain.State, error)
}

// Repository is the pgx-backed negotiation state store.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new pricing repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Get loads the negotiation state for a conversation.
func (r *Repository) Get(ctx context.Context, conversationID string) (domain.State, error) {
	var s domain.State
	err := r.pool.QueryRow(ctx, `
		SELECT conversation_id, service, tier, currency, base_price_cents,
			current_price_cents, discount_applied_cents, nudge_triggered, phase, version
		FROM pricing_states
		WHERE conversation_id = $1
	`, conversationID).Scan(
		&s.ConversationID, &s.Service, &s.Tier, &s.Currency, &s.BasePriceCents,
		&s.CurrentPriceCents, &s.DiscountAppliedCents, &s.NudgeTriggered, &s.Phase, &s.Version,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.State{}, ErrNotFound
	}
	if err != nil {
		return domain.State{}, err
	}
	return s, nil
}

// Create inserts a fresh negotiation state at version 1.
func (r *Repository) Create(ctx context.Context, state domain.State) (domain.State, error) {
	state.Version = 1
	_, err := r.pool.Exec(ctx, `
		INSERT INTO pricing_states (
			conversation_id, service, tier, currency, base_price_cents,
			current_price_cents, discount_applied_cents, nudge_triggered, phase, version
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		state.ConversationID, state.Service, state.Tier, state.Currency, state.BasePriceCents,
		state.CurrentPriceCents, state.DiscountAppliedCents, state.NudgeTriggered, string(state.Phase), state.Version,
	)
	if err != nil {
		return domain.State{}, err
	}
	return state, nil
}

// Update writes the state back with an optimistic version check. The
// WHERE clause matches the version the caller read; zero rows affected
// means another writer got there first.
func (r *Repository) Update(ctx context.Context, state domain.State) (domain.State, error) {
	readVersion := state.Version
	state.Version++

	tag, err := r.pool.Exec(ctx, `
		UPDATE pricing_states
		SET current_price_cents = $2,
			discount_applied_cents = $3,
			nudge_triggered = $4,
			phase = $5,
			version = $6,
			updated_at = now()
		WHERE conversation_id = $1 AND version = $7
	`,
		state.ConversationID, state.CurrentPriceCents, state.DiscountAppliedCents,
		state.NudgeTriggered, string(state.Phase), state.Version, readVersion,
	)
	if err != nil {
		return domain.State{}, err
	}
	if tag.RowsAffected() == 0 {
		return domain.State{}, apperr.Conflict("negotiation state changed concurrently").
			WithOp("pricing.repository.Update")
	}
	return state, nil
}
