// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"growthcore_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var (
	NewBaseEvent   = events.NewBaseEvent
	NewInMemoryBus = events.NewInMemoryBus
)

// =============================================================================
// Pricing Domain Events
// =============================================================================

// NegotiationClosed is published when a visitor accepts a negotiated price.
type NegotiationClosed struct {
	BaseEvent
	ConversationID   string `json:"conversationId"`
	Service          string `json:"service"`
	Tier             string `json:"tier"`
	AgreedPriceCents int64  `json:"agreedPriceCents"`
	DiscountCents    int64  `json:"discountCents"`
	Currency         string `json:"currency"`
}

func (e NegotiationClosed) EventName() string { return "pricing.negotiation.closed" }

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadScored is published after a contact's qualification snapshot is
// recomputed.
type LeadScored struct {
	BaseEvent
	ContactID     uuid.UUID `json:"contactId"`
	Score         int       `json:"score"`
	Qualification string    `json:"qualification"`
}

func (e LeadScored) EventName() string { return "leads.lead.scored" }

// =============================================================================
// Conversations Domain Events
// =============================================================================

// ConversationAnalyzed is published when a conversation's outcome snapshot
// has been recomputed by the worker.
type ConversationAnalyzed struct {
	BaseEvent
	ConversationID string `json:"conversationId"`
	Outcome        string `json:"outcome"`
}

func (e ConversationAnalyzed) EventName() string { return "conversations.analyzed" }
