package service

import (
	"context"
	"testing"
	"time"

	"growthcore_backend/internal/pricing/domain"
	"growthcore_backend/internal/pricing/repository"
	"growthcore_backend/platform/apperr"
	"growthcore_backend/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// fakeStore is an in-memory Store with the same optimistic version
// semantics as the pgx repository.
type fakeStore struct {
	states map[string]domain.State
}

func newFakeStore() *fakeStore {
	return &fakeStore{states: make(map[string]domain.State)}
}

func (f *fakeStore) Get(_ context.Context, conversationID string) (domain.State, error) {
	s, ok := f.states[conversationID]
	if !ok {
		return domain.State{}, repository.ErrNotFound
	}
	return s, nil
}

func (f *fakeStore) Create(_ context.Context, state domain.State) (domain.State, error) {
	state.Version = 1
	f.states[state.ConversationID] = state
	return state, nil
}

func (f *fakeStore) Update(_ context.Context, state domain.State) (domain.State, error) {
	stored, ok := f.states[state.ConversationID]
	if !ok || stored.Version != state.Version {
		return domain.State{}, apperr.Conflict("negotiation state changed concurrently")
	}
	state.Version++
	f.states[state.ConversationID] = state
	return state, nil
}

func newTestService(t *testing.T, locks *redis.Client) (*Service, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	catalog := domain.NewCatalog(domain.DefaultCatalogEntries())
	svc := New(catalog, store, locks, time.Second, nil, logger.New("development"))
	return svc, store
}

func TestOpen_UnknownServiceTierFails(t *testing.T) {
	svc, _ := newTestService(t, nil)

	_, err := svc.Open(context.Background(), "conv-1", "growth-audit", "platinum")
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found for unknown tier, got %v", err)
	}
}

func TestOpen_IsIdempotentPerConversation(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	first, err := svc.Open(ctx, "conv-1", "growth-audit", "express")
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if _, err := svc.Act(ctx, "conv-1", domain.ActionNegotiate); err != nil {
		t.Fatalf("negotiate: %v", err)
	}

	again, err := svc.Open(ctx, "conv-1", "growth-audit", "express")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if again.DiscountAppliedCents == first.DiscountAppliedCents {
		t.Fatal("reopen should return the advanced stored state, not a fresh one")
	}
}

func TestAct_PersistsAndBumpsVersion(t *testing.T) {
	svc, store := newTestService(t, nil)
	ctx := context.Background()

	if _, err := svc.Open(ctx, "conv-1", "growth-audit", "express"); err != nil {
		t.Fatalf("open: %v", err)
	}

	state, err := svc.Act(ctx, "conv-1", domain.ActionNudge)
	if err != nil {
		t.Fatalf("nudge: %v", err)
	}
	if state.Version != 2 {
		t.Fatalf("expected version 2 after first write, got %d", state.Version)
	}
	if store.states["conv-1"].DiscountAppliedCents != state.DiscountAppliedCents {
		t.Fatal("persisted state does not match returned state")
	}
}

func TestAct_StaleVersionRejected(t *testing.T) {
	svc, store := newTestService(t, nil)
	ctx := context.Background()

	if _, err := svc.Open(ctx, "conv-1", "growth-audit", "express"); err != nil {
		t.Fatalf("open: %v", err)
	}

	// Simulate a concurrent writer advancing the stored version between
	// this call's read and write.
	stored := store.states["conv-1"]
	stored.Version++
	store.states["conv-1"] = stored

	// The service read version N but the store now holds N+1.
	raced := store.states["conv-1"]
	raced.Version--
	if _, err := store.Update(ctx, raced); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict on stale write, got %v", err)
	}
}

func TestPreview_DoesNotPersist(t *testing.T) {
	svc, store := newTestService(t, nil)
	ctx := context.Background()

	if _, err := svc.Open(ctx, "conv-1", "growth-audit", "express"); err != nil {
		t.Fatalf("open: %v", err)
	}

	preview, err := svc.Preview(ctx, "conv-1", domain.ActionNegotiate)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if preview.DiscountAppliedCents == 0 {
		t.Fatal("preview should show the discounted state")
	}
	if store.states["conv-1"].DiscountAppliedCents != 0 {
		t.Fatal("preview must not persist the transition")
	}
}

func TestAct_LockContentionMapsToConflict(t *testing.T) {
	mr := miniredis.RunT(t)
	locks := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = locks.Close() })

	svc, _ := newTestService(t, locks)
	ctx := context.Background()

	if _, err := svc.Open(ctx, "conv-1", "growth-audit", "express"); err != nil {
		t.Fatalf("open: %v", err)
	}

	// Hold the lock as if another request were mid-flight.
	if err := locks.SetNX(ctx, "negotiation_lock:conv-1", "1", time.Minute).Err(); err != nil {
		t.Fatalf("seed lock: %v", err)
	}

	_, err := svc.Act(ctx, "conv-1", domain.ActionNegotiate)
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict while locked, got %v", err)
	}

	mr.Del("negotiation_lock:conv-1")
	if _, err := svc.Act(ctx, "conv-1", domain.ActionNegotiate); err != nil {
		t.Fatalf("after lock release: %v", err)
	}

	// The lock must be released after a successful action.
	if mr.Exists("negotiation_lock:conv-1") {
		t.Fatal("lock not released after action")
	}
}
