// Package service coordinates negotiation state loading, transition, and
// persistence for the pricing module.
package service

import (
	"context"
	"errors"
	"time"

	"growthcore_backend/internal/events"
	"growthcore_backend/internal/pricing/domain"
	"growthcore_backend/internal/pricing/repository"
	"growthcore_backend/platform/apperr"
	"growthcore_backend/platform/logger"

	"github.com/redis/go-redis/v9"
)

// Service advances per-conversation negotiations. Writes are guarded twice:
// a per-conversation redis lock serializes well-behaved callers, and the
// repository's optimistic version check rejects the write if a racing
// update slipped through anyway.
type Service struct {
	catalog *domain.Catalog
	store   repository.Store
	locks   *redis.Client
	lockTTL time.Duration
	bus     events.Bus
	log     *logger.Logger
}

// New creates a new pricing service. The redis client may be nil, in which
// case only the optimistic version check guards concurrent writes.
func New(catalog *domain.Catalog, store repository.Store, locks *redis.Client, lockTTL time.Duration, bus events.Bus, log *logger.Logger) *Service {
	if lockTTL <= 0 {
		lockTTL = 10 * time.Second
	}
	return &Service{catalog: catalog, store: store, locks: locks, lockTTL: lockTTL, bus: bus, log: log}
}

// Open starts a negotiation for a conversation at the list price of the
// requested (service, tier). Unknown pairs are a hard error. Reopening an
// existing negotiation returns the stored state unchanged.
func (s *Service) Open(ctx context.Context, conversationID, serviceName, tier string) (domain.State, error) {
	if existing, err := s.store.Get(ctx, conversationID); err == nil {
		return existing, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return domain.State{}, err
	}

	entry, err := s.catalog.PriceFor(serviceName, tier)
	if err != nil {
		return domain.State{}, err
	}

	return s.store.Create(ctx, domain.NewState(conversationID, entry))
}

// Preview applies an action speculatively without persisting, e.g. to show
// the visitor what a counter-offer would look like.
func (s *Service) Preview(ctx context.Context, conversationID string, action domain.Action) (domain.State, error) {
	state, err := s.store.Get(ctx, conversationID)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.State{}, apperr.NotFound("no negotiation for conversation").WithOp("pricing.Preview")
	}
	if err != nil {
		return domain.State{}, err
	}
	return domain.Apply(state, action)
}

// Act applies an action to the conversation's negotiation and persists the
// result.
func (s *Service) Act(ctx context.Context, conversationID string, action domain.Action) (domain.State, error) {
	unlock, err := s.acquireLock(ctx, conversationID)
	if err != nil {
		return domain.State{}, err
	}
	defer unlock()

	state, err := s.store.Get(ctx, conversationID)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.State{}, apperr.NotFound("no negotiation for conversation").WithOp("pricing.Act")
	}
	if err != nil {
		return domain.State{}, err
	}

	next, err := domain.Apply(state, action)
	if err != nil {
		return domain.State{}, err
	}

	persisted, err := s.store.Update(ctx, next)
	if err != nil {
		return domain.State{}, err
	}

	s.log.NegotiationEvent(conversationID, string(action), string(persisted.Phase), persisted.DiscountAppliedCents)

	if persisted.Phase == domain.PhaseClosed && s.bus != nil {
		s.bus.Publish(ctx, events.NegotiationClosed{
			BaseEvent:        events.NewBaseEvent(),
			ConversationID:   conversationID,
			Service:          persisted.Service,
			Tier:             persisted.Tier,
			AgreedPriceCents: persisted.CurrentPriceCents,
			DiscountCents:    persisted.DiscountAppliedCents,
			Currency:         persisted.Currency,
		})
	}

	return persisted, nil
}

// acquireLock takes the per-conversation lock via SETNX. Lock contention
// maps to a conflict so the chat layer can retry the turn; a redis outage
// falls back to the optimistic version check alone.
func (s *Service) acquireLock(ctx context.Context, conversationID string) (func(), error) {
	if s.locks == nil {
		return func() {}, nil
	}

	key := "negotiation_lock:" + conversationID
	ok, err := s.locks.SetNX(ctx, key, "1", s.lockTTL).Result()
	if err != nil {
		s.log.Warn("negotiation lock unavailable, relying on version check", "error", err)
		return func() {}, nil
	}
	if !ok {
		return nil, apperr.Conflict("negotiation busy, retry").WithOp("pricing.acquireLock")
	}

	return func() {
		if err := s.locks.Del(context.WithoutCancel(ctx), key).Err(); err != nil {
			s.log.Warn("negotiation lock release failed", "error", err)
		}
	}, nil
}
