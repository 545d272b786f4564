// Package transport defines request/response DTOs for the pricing module.
package transport

import "growthcore_backend/internal/pricing/domain"

// OpenNegotiationRequest starts a negotiation for a conversation.
type OpenNegotiationRequest struct {
	Service string `json:"service" binding:"required" validate:"required,min=1,max=64"`
	Tier    string `json:"tier" binding:"required" validate:"required,min=1,max=32"`
}

// ActionRequest advances a negotiation by one move.
type ActionRequest struct {
	Action  string `json:"action" binding:"required" validate:"required,oneof=accept reject negotiate nudge"`
	Preview bool   `json:"preview"`
}

// StateResponse is the externally visible negotiation state.
type StateResponse struct {
	ConversationID       string `json:"conversationId"`
	Service              string `json:"service"`
	Tier                 string `json:"tier"`
	Currency             string `json:"currency"`
	BasePriceCents       int64  `json:"basePriceCents"`
	CurrentPriceCents    int64  `json:"currentPriceCents"`
	DiscountAppliedCents int64  `json:"discountAppliedCents"`
	NudgeTriggered       bool   `json:"nudgeTriggered"`
	Phase                string `json:"phase"`
}

// FromState maps the domain state to its response shape.
func FromState(s domain.State) StateResponse {
	return StateResponse{
		ConversationID:       s.ConversationID,
		Service:              s.Service,
		Tier:                 s.Tier,
		Currency:             s.Currency,
		BasePriceCents:       s.BasePriceCents,
		CurrentPriceCents:    s.CurrentPriceCents,
		DiscountAppliedCents: s.DiscountAppliedCents,
		NudgeTriggered:       s.NudgeTriggered,
		Phase:                string(s.Phase),
	}
}
