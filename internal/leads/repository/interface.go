package repository

import (
	"context"

	"github.com/google/uuid"
)

// LeadsRepository is the read/write surface the scoring service needs.
// Defined here so services can be tested against in-memory fakes.
type LeadsRepository interface {
	GetContact(ctx context.Context, contactID uuid.UUID) (Contact, error)
	ListInteractions(ctx context.Context, contactID uuid.UUID) ([]Interaction, error)
	ListBookings(ctx context.Context, contactID uuid.UUID) ([]Booking, error)
	ListContacts(ctx context.Context) ([]Contact, error)
	ListAllInteractions(ctx context.Context) ([]Interaction, error)
	ListAllBookings(ctx context.Context) ([]Booking, error)
	UpsertLeadScore(ctx context.Context, score LeadScore) error
}
