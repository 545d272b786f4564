package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a contact does not exist.
var ErrNotFound = errors.New("contact not found")

// Contact is a CRM contact record.
type Contact struct {
	ID        uuid.UUID
	Email     *string
	Company   *string
	Phone     *string
	Country   string
	Metadata  map[string]string
	CreatedAt time.Time
}

// Interaction is one logged touchpoint with a contact.
type Interaction struct {
	ID        uuid.UUID
	ContactID uuid.UUID
	Type      string // chat, form, email, call
	Summary   string
	CreatedAt time.Time
}

// Booking is a scheduled consultation linked to a contact.
type Booking struct {
	ID             uuid.UUID
	ContactID      uuid.UUID
	AttendeeEmail  string
	ConversationID *string
	Status         string // pending, confirmed, completed, cancelled
	StartsAt       time.Time
}

// LeadScore is the per-contact qualification snapshot. It replaces any
// prior snapshot on write; no history is kept here.
type LeadScore struct {
	ContactID     uuid.UUID
	Score         int
	Qualification string
	Breakdown     map[string]int
	UpdatedAt     time.Time
}

// Repository is the pgx-backed leads store.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new leads repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetContact loads a single contact.
func (r *Repository) GetContact(ctx context.Context, contactID uuid.UUID) (Contact, error) {
	var (
		c        Contact
		metadata []byte
	)
	err := r.pool.QueryRow(ctx, `
		SELECT id, email, company, phone, country, metadata, created_at
		FROM contacts
		WHERE id = $1
	`, contactID).Scan(&c.ID, &c.Email, &c.Company, &c.Phone, &c.Country, &metadata, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Contact{}, ErrNotFound
	}
	if err != nil {
		return Contact{}, err
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &c.Metadata); err != nil {
			c.Metadata = nil
		}
	}
	return c, nil
}

// ListInteractions returns all interactions for a contact, oldest first.
func (r *Repository) ListInteractions(ctx context.Context, contactID uuid.UUID) ([]Interaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, contact_id, type, summary, created_at
		FROM interactions
		WHERE contact_id = $1
		ORDER BY created_at ASC
	`, contactID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Interaction, 0)
	for rows.Next() {
		var item Interaction
		if err := rows.Scan(&item.ID, &item.ContactID, &item.Type, &item.Summary, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ListBookings returns all bookings for a contact.
func (r *Repository) ListBookings(ctx context.Context, contactID uuid.UUID) ([]Booking, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, contact_id, attendee_email, conversation_id, status, starts_at
		FROM bookings
		WHERE contact_id = $1
		ORDER BY starts_at ASC
	`, contactID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Booking, 0)
	for rows.Next() {
		var item Booking
		if err := rows.Scan(&item.ID, &item.ContactID, &item.AttendeeEmail, &item.ConversationID, &item.Status, &item.StartsAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ListContacts returns every contact in one query, for batch scoring.
func (r *Repository) ListContacts(ctx context.Context) ([]Contact, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, email, company, phone, country, metadata, created_at
		FROM contacts
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := make([]Contact, 0)
	for rows.Next() {
		var (
			c        Contact
			metadata []byte
		)
		if err := rows.Scan(&c.ID, &c.Email, &c.Company, &c.Phone, &c.Country, &metadata, &c.CreatedAt); err != nil {
			return nil, err
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &c.Metadata); err != nil {
				c.Metadata = nil
			}
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

// ListAllInteractions returns every interaction in one query. The batch
// scorer groups them by contact in memory instead of querying per contact.
func (r *Repository) ListAllInteractions(ctx context.Context) ([]Interaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, contact_id, type, summary, created_at
		FROM interactions
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Interaction, 0)
	for rows.Next() {
		var item Interaction
		if err := rows.Scan(&item.ID, &item.ContactID, &item.Type, &item.Summary, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ListAllBookings returns every contact-linked booking in one query.
func (r *Repository) ListAllBookings(ctx context.Context) ([]Booking, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, contact_id, attendee_email, conversation_id, status, starts_at
		FROM bookings
		WHERE contact_id IS NOT NULL
		ORDER BY starts_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Booking, 0)
	for rows.Next() {
		var item Booking
		if err := rows.Scan(&item.ID, &item.ContactID, &item.AttendeeEmail, &item.ConversationID, &item.Status, &item.StartsAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpsertLeadScore stores the qualification snapshot, replacing any prior
// value for the contact.
func (r *Repository) UpsertLeadScore(ctx context.Context, score LeadScore) error {
	breakdown, err := json.Marshal(score.Breakdown)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO lead_scores (contact_id, score, qualification, breakdown, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (contact_id)
		DO UPDATE SET score = EXCLUDED.score,
			qualification = EXCLUDED.qualification,
			breakdown = EXCLUDED.breakdown,
			updated_at = now()
	`, score.ContactID, score.Score, score.Qualification, breakdown)
	return err
}
