// Package repository provides data access for conversation analytics.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a conversation does not exist.
var ErrNotFound = errors.New("conversation not found")

// Conversation is the stored conversation record.
type Conversation struct {
	ID        string
	VisitorID string
	Status    string
	FlowType  string
	StartedAt time.Time
	EndedAt   *time.Time
}

// Message is one stored transcript turn.
type Message struct {
	ID             string
	ConversationID string
	Role           string
	Content        string
	CreatedAt      time.Time
}

// AnalyticsSnapshot is the persisted form of a classification result,
// written by the background snapshot job.
type AnalyticsSnapshot struct {
	ConversationID      string
	VisitorID           string
	MessageCount        int
	UserMessageCount    int
	AssistantCount      int
	DurationSeconds     int
	ServiceIdentified   *string
	Outcome             string
	Objections          []string
	ReachedPricing      bool
	ReachedVelvetRope   bool
	DropoffAfterMessage *int
	QualificationScore  int
	ComputedAt          time.Time
}

// Store is the persistence boundary the analytics service depends on.
type Store interface {
	GetConversation(ctx context.Context, id string) (Conversation, error)
	ListMessages(ctx context.Context, conversationID string) ([]Message, error)
	HasBooking(ctx context.Context, conversationID string) (bool, error)
	HasLead(ctx context.Context, conversationID string) (bool, error)
	ListEndedSince(ctx context.Context, since time.Time) ([]string, error)
	UpsertSnapshot(ctx context.Context, snap AnalyticsSnapshot) error
}

type repository struct {
	pool *pgxpool.Pool
}

// New creates a conversations repository backed by Postgres.
func New(pool *pgxpool.Pool) Store {
	return &repository{pool: pool}
}

func (r *repository) GetConversation(ctx context.Context, id string) (Conversation, error) {
	const query = `
		SELECT id, visitor_id, status, flow_type, started_at, ended_at
		FROM conversations
		WHERE id = $1`

	var conv Conversation
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&conv.ID, &conv.VisitorID, &conv.Status, &conv.FlowType, &conv.StartedAt, &conv.EndedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Conversation{}, ErrNotFound
	}
	if err != nil {
		return Conversation{}, err
	}
	return conv, nil
}

func (r *repository) ListMessages(ctx context.Context, conversationID string) ([]Message, error) {
	const query = `
		SELECT id, conversation_id, role, content, created_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (r *repository) HasBooking(ctx context.Context, conversationID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM bookings WHERE conversation_id = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, conversationID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *repository) HasLead(ctx context.Context, conversationID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM contacts WHERE conversation_id = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, conversationID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *repository) ListEndedSince(ctx context.Context, since time.Time) ([]string, error) {
	const query = `
		SELECT id FROM conversations
		WHERE status = 'ended' AND ended_at >= $1
		ORDER BY ended_at ASC`

	rows, err := r.pool.Query(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *repository) UpsertSnapshot(ctx context.Context, snap AnalyticsSnapshot) error {
	const query = `
		INSERT INTO conversation_analytics (
			conversation_id, visitor_id, message_count, user_message_count,
			assistant_message_count, duration_seconds, service_identified,
			outcome, objections, reached_pricing, reached_velvet_rope,
			dropoff_after_message, qualification_score, computed_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (conversation_id) DO UPDATE SET
			visitor_id = EXCLUDED.visitor_id,
			message_count = EXCLUDED.message_count,
			user_message_count = EXCLUDED.user_message_count,
			assistant_message_count = EXCLUDED.assistant_message_count,
			duration_seconds = EXCLUDED.duration_seconds,
			service_identified = EXCLUDED.service_identified,
			outcome = EXCLUDED.outcome,
			objections = EXCLUDED.objections,
			reached_pricing = EXCLUDED.reached_pricing,
			reached_velvet_rope = EXCLUDED.reached_velvet_rope,
			dropoff_after_message = EXCLUDED.dropoff_after_message,
			qualification_score = EXCLUDED.qualification_score,
			computed_at = EXCLUDED.computed_at`

	_, err := r.pool.Exec(ctx, query,
		snap.ConversationID, snap.VisitorID, snap.MessageCount, snap.UserMessageCount,
		snap.AssistantCount, snap.DurationSeconds, snap.ServiceIdentified,
		snap.Outcome, snap.Objections, snap.ReachedPricing, snap.ReachedVelvetRope,
		snap.DropoffAfterMessage, snap.QualificationScore, snap.ComputedAt,
	)
	return err
}
