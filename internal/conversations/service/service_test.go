package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"growthcore_backend/internal/conversations/analytics"
	"growthcore_backend/internal/conversations/repository"
	"growthcore_backend/platform/logger"
)

type fakeStore struct {
	conversations map[string]repository.Conversation
	messages      map[string][]repository.Message
	bookings      map[string]bool
	leads         map[string]bool
	snapshots     map[string]repository.AnalyticsSnapshot
	failSnapshot  map[string]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		conversations: map[string]repository.Conversation{},
		messages:      map[string][]repository.Message{},
		bookings:      map[string]bool{},
		leads:         map[string]bool{},
		snapshots:     map[string]repository.AnalyticsSnapshot{},
		failSnapshot:  map[string]bool{},
	}
}

func (f *fakeStore) GetConversation(_ context.Context, id string) (repository.Conversation, error) {
	conv, ok := f.conversations[id]
	if !ok {
		return repository.Conversation{}, repository.ErrNotFound
	}
	return conv, nil
}

func (f *fakeStore) ListMessages(_ context.Context, id string) ([]repository.Message, error) {
	return f.messages[id], nil
}

func (f *fakeStore) HasBooking(_ context.Context, id string) (bool, error) {
	return f.bookings[id], nil
}

func (f *fakeStore) HasLead(_ context.Context, id string) (bool, error) {
	return f.leads[id], nil
}

func (f *fakeStore) ListEndedSince(_ context.Context, _ time.Time) ([]string, error) {
	ids := make([]string, 0, len(f.conversations))
	for id, conv := range f.conversations {
		if conv.Status == "ended" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakeStore) UpsertSnapshot(_ context.Context, snap repository.AnalyticsSnapshot) error {
	if f.failSnapshot[snap.ConversationID] {
		return errors.New("upsert failed")
	}
	f.snapshots[snap.ConversationID] = snap
	return nil
}

func newService(store repository.Store) *Service {
	return New(store, analytics.NewClassifier(analytics.Config{}), nil, logger.New("development"))
}

func TestAnalyze_CorrelatesBookingAndLead(t *testing.T) {
	store := newFakeStore()
	store.conversations["c1"] = repository.Conversation{ID: "c1", VisitorID: "v1", Status: "ended"}
	store.messages["c1"] = []repository.Message{
		{Role: "user", Content: "hello"},
		{Role: "assistant", Content: "hi there"},
	}
	store.bookings["c1"] = true

	result, err := newService(store).Analyze(context.Background(), "c1")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if result.Outcome != analytics.OutcomeBookingMade {
		t.Fatalf("expected booking_made, got %s", result.Outcome)
	}
	if result.VisitorID != "v1" || result.MessageCount != 2 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestAnalyze_UnknownConversation(t *testing.T) {
	_, err := newService(newFakeStore()).Analyze(context.Background(), "missing")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSnapshotEndedSince_CountsErrorsAndCompletes(t *testing.T) {
	store := newFakeStore()
	store.conversations["good"] = repository.Conversation{ID: "good", Status: "ended"}
	store.conversations["bad"] = repository.Conversation{ID: "bad", Status: "ended"}
	store.conversations["active"] = repository.Conversation{ID: "active", Status: "active"}
	store.failSnapshot["bad"] = true

	result, err := newService(store).SnapshotEndedSince(context.Background(), time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if result.Updated != 1 || result.Errors != 1 {
		t.Fatalf("expected 1 updated / 1 error, got %+v", result)
	}
	if _, ok := store.snapshots["good"]; !ok {
		t.Fatal("expected snapshot for the good conversation")
	}
}
