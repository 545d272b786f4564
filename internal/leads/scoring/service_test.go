package scoring

import (
	"context"
	"errors"
	"testing"

	"growthcore_backend/internal/leads/repository"
	"growthcore_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeLeadsRepo struct {
	contacts     map[uuid.UUID]repository.Contact
	interactions map[uuid.UUID][]repository.Interaction
	bookings     map[uuid.UUID][]repository.Booking
	snapshots    map[uuid.UUID]repository.LeadScore
	failUpsert   map[uuid.UUID]bool
}

func newFakeLeadsRepo() *fakeLeadsRepo {
	return &fakeLeadsRepo{
		contacts:     map[uuid.UUID]repository.Contact{},
		interactions: map[uuid.UUID][]repository.Interaction{},
		bookings:     map[uuid.UUID][]repository.Booking{},
		snapshots:    map[uuid.UUID]repository.LeadScore{},
		failUpsert:   map[uuid.UUID]bool{},
	}
}

func (f *fakeLeadsRepo) GetContact(_ context.Context, id uuid.UUID) (repository.Contact, error) {
	c, ok := f.contacts[id]
	if !ok {
		return repository.Contact{}, repository.ErrNotFound
	}
	return c, nil
}

func (f *fakeLeadsRepo) ListInteractions(_ context.Context, id uuid.UUID) ([]repository.Interaction, error) {
	return f.interactions[id], nil
}

func (f *fakeLeadsRepo) ListBookings(_ context.Context, id uuid.UUID) ([]repository.Booking, error) {
	return f.bookings[id], nil
}

func (f *fakeLeadsRepo) ListContacts(_ context.Context) ([]repository.Contact, error) {
	contacts := make([]repository.Contact, 0, len(f.contacts))
	for _, c := range f.contacts {
		contacts = append(contacts, c)
	}
	return contacts, nil
}

func (f *fakeLeadsRepo) ListAllInteractions(_ context.Context) ([]repository.Interaction, error) {
	var all []repository.Interaction
	for _, items := range f.interactions {
		all = append(all, items...)
	}
	return all, nil
}

func (f *fakeLeadsRepo) ListAllBookings(_ context.Context) ([]repository.Booking, error) {
	var all []repository.Booking
	for _, items := range f.bookings {
		all = append(all, items...)
	}
	return all, nil
}

func (f *fakeLeadsRepo) UpsertLeadScore(_ context.Context, score repository.LeadScore) error {
	if f.failUpsert[score.ContactID] {
		return errors.New("upsert failed")
	}
	f.snapshots[score.ContactID] = score
	return nil
}

func TestScore_UpsertsSnapshot(t *testing.T) {
	repo := newFakeLeadsRepo()
	id := uuid.New()
	repo.contacts[id] = repository.Contact{ID: id, Email: strptr("a@b.com")}

	svc := New(repo, "US", nil, logger.New("development"))
	result, err := svc.Score(context.Background(), id)
	if err != nil {
		t.Fatalf("score: %v", err)
	}

	snapshot, ok := repo.snapshots[id]
	if !ok {
		t.Fatal("expected snapshot upsert")
	}
	if snapshot.Score != result.Score || snapshot.Qualification != result.Qualification {
		t.Fatalf("snapshot %+v does not match result %+v", snapshot, result)
	}
}

func TestScore_UnknownContactFails(t *testing.T) {
	svc := New(newFakeLeadsRepo(), "US", nil, logger.New("development"))
	if _, err := svc.Score(context.Background(), uuid.New()); err == nil {
		t.Fatal("expected error for unknown contact")
	}
}

func TestScoreAll_CountsErrorsAndCompletes(t *testing.T) {
	repo := newFakeLeadsRepo()
	good1, good2, bad := uuid.New(), uuid.New(), uuid.New()
	repo.contacts[good1] = repository.Contact{ID: good1}
	repo.contacts[good2] = repository.Contact{ID: good2}
	repo.contacts[bad] = repository.Contact{ID: bad}
	repo.failUpsert[bad] = true

	svc := New(repo, "US", nil, logger.New("development"))
	result, err := svc.ScoreAll(context.Background())
	if err != nil {
		t.Fatalf("score all: %v", err)
	}
	if result.Updated != 2 {
		t.Fatalf("expected 2 updated, got %d", result.Updated)
	}
	if result.Errors != 1 {
		t.Fatalf("expected 1 error, got %d", result.Errors)
	}
}
