// Package repository provides read-only data access for revenue
// attribution.
package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Payment is a completed payment row as the aggregator reads it.
type Payment struct {
	ID             string
	Service        string
	Tier           string
	AmountCents    int64
	Currency       string
	PayerEmail     string
	ConversationID *string
	PaidAt         time.Time
}

// Store is the read boundary the aggregator depends on. All lookups are
// bulk so a summary touches the database a fixed number of times
// regardless of payment volume.
type Store interface {
	ListCompletedPayments(ctx context.Context, from, to time.Time, currency string) ([]Payment, error)
	GetFlowTypes(ctx context.Context, conversationIDs []string) (map[string]string, error)
	FindBookedEmails(ctx context.Context, emails []string) (map[string]bool, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// New creates a revenue repository backed by Postgres.
func New(pool *pgxpool.Pool) Store {
	return &repository{pool: pool}
}

func (r *repository) ListCompletedPayments(ctx context.Context, from, to time.Time, currency string) ([]Payment, error) {
	const query = `
		SELECT id, service, tier, amount_cents, currency, payer_email, conversation_id, paid_at
		FROM payments
		WHERE status = 'completed'
		  AND currency = $1
		  AND paid_at >= $2
		  AND paid_at < $3
		ORDER BY paid_at ASC`

	rows, err := r.pool.Query(ctx, query, currency, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []Payment
	for rows.Next() {
		var p Payment
		if err := rows.Scan(&p.ID, &p.Service, &p.Tier, &p.AmountCents, &p.Currency, &p.PayerEmail, &p.ConversationID, &p.PaidAt); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (r *repository) GetFlowTypes(ctx context.Context, conversationIDs []string) (map[string]string, error) {
	flows := make(map[string]string, len(conversationIDs))
	if len(conversationIDs) == 0 {
		return flows, nil
	}

	const query = `SELECT id, flow_type FROM conversations WHERE id = ANY($1)`

	rows, err := r.pool.Query(ctx, query, conversationIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id, flow string
		if err := rows.Scan(&id, &flow); err != nil {
			return nil, err
		}
		flows[id] = flow
	}
	return flows, rows.Err()
}

func (r *repository) FindBookedEmails(ctx context.Context, emails []string) (map[string]bool, error) {
	booked := make(map[string]bool, len(emails))
	if len(emails) == 0 {
		return booked, nil
	}

	const query = `SELECT DISTINCT attendee_email FROM bookings WHERE attendee_email = ANY($1)`

	rows, err := r.pool.Query(ctx, query, emails)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, err
		}
		booked[email] = true
	}
	return booked, rows.Err()
}
