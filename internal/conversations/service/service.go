// Package service orchestrates conversation analytics: it loads the
// transcript and correlated records, runs the classifier and, for the
// background snapshot job, persists the result.
package service

import (
	"context"
	"fmt"
	"time"

	"growthcore_backend/internal/conversations/analytics"
	"growthcore_backend/internal/conversations/repository"
	"growthcore_backend/internal/events"
	"growthcore_backend/platform/logger"
)

// Service computes conversation analytics on demand.
type Service struct {
	repo       repository.Store
	classifier *analytics.Classifier
	bus        events.Bus
	log        *logger.Logger
}

// New creates the analytics service.
func New(repo repository.Store, classifier *analytics.Classifier, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, classifier: classifier, bus: bus, log: log}
}

// Analyze computes a fresh analytics view for one conversation. Nothing
// is persisted; callers that want a snapshot use SnapshotEndedSince.
func (s *Service) Analyze(ctx context.Context, conversationID string) (analytics.Result, error) {
	conv, err := s.repo.GetConversation(ctx, conversationID)
	if err != nil {
		return analytics.Result{}, err
	}

	messages, err := s.repo.ListMessages(ctx, conversationID)
	if err != nil {
		return analytics.Result{}, fmt.Errorf("list messages: %w", err)
	}

	hasBooking, err := s.repo.HasBooking(ctx, conversationID)
	if err != nil {
		return analytics.Result{}, fmt.Errorf("booking lookup: %w", err)
	}
	hasLead, err := s.repo.HasLead(ctx, conversationID)
	if err != nil {
		return analytics.Result{}, fmt.Errorf("lead lookup: %w", err)
	}

	input := analytics.Input{
		ConversationID: conv.ID,
		VisitorID:      conv.VisitorID,
		Active:         conv.Status == "active",
		StartedAt:      conv.StartedAt,
		Messages:       make([]analytics.Message, 0, len(messages)),
		HasBooking:     hasBooking,
		HasLead:        hasLead,
	}
	if conv.EndedAt != nil {
		input.EndedAt = *conv.EndedAt
	}
	for _, m := range messages {
		input.Messages = append(input.Messages, analytics.Message{
			Role:      analytics.Role(m.Role),
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		})
	}

	result := s.classifier.Classify(input)

	if s.bus != nil {
		s.bus.Publish(ctx, events.ConversationAnalyzed{
			BaseEvent:      events.NewBaseEvent(),
			ConversationID: result.ConversationID,
			Outcome:        string(result.Outcome),
		})
	}
	return result, nil
}

// BatchResult reports a snapshot run.
type BatchResult struct {
	Updated int
	Errors  int
}

// SnapshotEndedSince classifies every conversation that ended after the
// given time and upserts the result. Per-conversation failures are
// counted, not propagated, so the batch always completes.
func (s *Service) SnapshotEndedSince(ctx context.Context, since time.Time) (BatchResult, error) {
	ids, err := s.repo.ListEndedSince(ctx, since)
	if err != nil {
		return BatchResult{}, fmt.Errorf("list ended conversations: %w", err)
	}

	var result BatchResult
	for _, id := range ids {
		analyzed, err := s.Analyze(ctx, id)
		if err == nil {
			err = s.repo.UpsertSnapshot(ctx, toSnapshot(analyzed, time.Now().UTC()))
		}
		if err != nil {
			result.Errors++
			s.log.Error("conversation snapshot failed", "conversation_id", id, "error", err)
			continue
		}
		result.Updated++
	}

	s.log.BatchResult("conversation_snapshot", result.Updated, result.Errors)
	return result, nil
}

func toSnapshot(r analytics.Result, computedAt time.Time) repository.AnalyticsSnapshot {
	objections := make([]string, 0, len(r.Objections))
	for _, o := range r.Objections {
		objections = append(objections, string(o))
	}
	return repository.AnalyticsSnapshot{
		ConversationID:      r.ConversationID,
		VisitorID:           r.VisitorID,
		MessageCount:        r.MessageCount,
		UserMessageCount:    r.UserMessageCount,
		AssistantCount:      r.AssistantMessageCount,
		DurationSeconds:     r.DurationSeconds,
		ServiceIdentified:   r.ServiceIdentified,
		Outcome:             string(r.Outcome),
		Objections:          objections,
		ReachedPricing:      r.ReachedPricing,
		ReachedVelvetRope:   r.ReachedVelvetRope,
		DropoffAfterMessage: r.DropoffAfterMessage,
		QualificationScore:  r.QualificationScore,
		ComputedAt:          computedAt,
	}
}
