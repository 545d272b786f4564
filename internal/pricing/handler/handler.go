// Package handler exposes the pricing negotiation HTTP endpoints.
package handler

import (
	"net/http"

	"growthcore_backend/internal/pricing/domain"
	"growthcore_backend/internal/pricing/service"
	"growthcore_backend/internal/pricing/transport"
	"growthcore_backend/platform/httpkit"
	"growthcore_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for price negotiation.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new pricing handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Open starts (or returns) the negotiation for a conversation.
// POST /api/v1/conversations/:id/negotiation
func (h *Handler) Open(c *gin.Context) {
	conversationID := c.Param("id")

	var req transport.OpenNegotiationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, nil)
		return
	}

	state, err := h.svc.Open(c.Request.Context(), conversationID, req.Service, req.Tier)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.FromState(state))
}

// Act applies a negotiation action. With preview set, the transition is
// computed but not persisted.
// POST /api/v1/conversations/:id/negotiation/actions
func (h *Handler) Act(c *gin.Context) {
	conversationID := c.Param("id")

	var req transport.ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, nil)
		return
	}

	action := domain.Action(req.Action)
	var (
		state domain.State
		err   error
	)
	if req.Preview {
		state, err = h.svc.Preview(c.Request.Context(), conversationID, action)
	} else {
		state, err = h.svc.Act(c.Request.Context(), conversationID, action)
	}
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.FromState(state))
}
