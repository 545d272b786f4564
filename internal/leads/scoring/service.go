package scoring

import (
	"context"
	"time"

	"growthcore_backend/internal/events"
	"growthcore_backend/internal/leads/repository"
	"growthcore_backend/platform/logger"

	"github.com/google/uuid"
)

// Service computes and persists lead qualification snapshots.
type Service struct {
	repo        repository.LeadsRepository
	phoneRegion string
	bus         events.Bus
	log         *logger.Logger
}

// New creates a new scoring service.
func New(repo repository.LeadsRepository, phoneRegion string, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, phoneRegion: phoneRegion, bus: bus, log: log}
}

// BatchResult reports how a batch scoring run went.
type BatchResult struct {
	Updated int `json:"updated"`
	Errors  int `json:"errors"`
}

// Score recomputes one contact's snapshot and upserts it. Missing
// interactions or bookings are zero evidence, not errors; only a missing
// contact fails.
func (s *Service) Score(ctx context.Context, contactID uuid.UUID) (Result, error) {
	contact, err := s.repo.GetContact(ctx, contactID)
	if err != nil {
		return Result{}, err
	}

	interactions, err := s.repo.ListInteractions(ctx, contactID)
	if err != nil {
		interactions = nil
	}
	bookings, err := s.repo.ListBookings(ctx, contactID)
	if err != nil {
		bookings = nil
	}

	result := Compute(Evidence{
		Contact:      contact,
		Interactions: interactions,
		Bookings:     bookings,
	}, s.phoneRegion)

	if err := s.repo.UpsertLeadScore(ctx, repository.LeadScore{
		ContactID:     contactID,
		Score:         result.Score,
		Qualification: result.Qualification,
		Breakdown:     result.Breakdown,
		UpdatedAt:     time.Now().UTC(),
	}); err != nil {
		return Result{}, err
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.LeadScored{
			BaseEvent:     events.NewBaseEvent(),
			ContactID:     contactID,
			Score:         result.Score,
			Qualification: result.Qualification,
		})
	}

	return result, nil
}

// ScoreAll rescores every contact. Evidence is loaded in three bulk
// queries and joined in memory, so the batch touches the database a
// fixed number of times plus one upsert per contact. An upsert failure
// is counted and skipped so the batch always completes.
func (s *Service) ScoreAll(ctx context.Context) (BatchResult, error) {
	contacts, err := s.repo.ListContacts(ctx)
	if err != nil {
		return BatchResult{}, err
	}
	interactions, err := s.repo.ListAllInteractions(ctx)
	if err != nil {
		return BatchResult{}, err
	}
	bookings, err := s.repo.ListAllBookings(ctx)
	if err != nil {
		return BatchResult{}, err
	}

	interactionsByContact := make(map[uuid.UUID][]repository.Interaction, len(contacts))
	for _, item := range interactions {
		interactionsByContact[item.ContactID] = append(interactionsByContact[item.ContactID], item)
	}
	bookingsByContact := make(map[uuid.UUID][]repository.Booking, len(contacts))
	for _, item := range bookings {
		bookingsByContact[item.ContactID] = append(bookingsByContact[item.ContactID], item)
	}

	var result BatchResult
	for _, contact := range contacts {
		computed := Compute(Evidence{
			Contact:      contact,
			Interactions: interactionsByContact[contact.ID],
			Bookings:     bookingsByContact[contact.ID],
		}, s.phoneRegion)

		err := s.repo.UpsertLeadScore(ctx, repository.LeadScore{
			ContactID:     contact.ID,
			Score:         computed.Score,
			Qualification: computed.Qualification,
			Breakdown:     computed.Breakdown,
			UpdatedAt:     time.Now().UTC(),
		})
		if err != nil {
			s.log.Error("contact scoring failed", "contactId", contact.ID, "error", err)
			result.Errors++
			continue
		}
		result.Updated++
	}

	s.log.BatchResult("leads.score_all", result.Updated, result.Errors)
	return result, nil
}
