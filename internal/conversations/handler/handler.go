// Package handler exposes the conversation analytics admin endpoint.
package handler

import (
	"errors"
	"net/http"

	"growthcore_backend/internal/conversations/repository"
	"growthcore_backend/internal/conversations/service"
	"growthcore_backend/internal/conversations/transport"
	"growthcore_backend/platform/httpkit"
	"growthcore_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for conversation analytics.
type Handler struct {
	svc *service.Service
	log *logger.Logger
}

// New creates a new conversations handler.
func New(svc *service.Service, log *logger.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// Analytics computes the analytics view for one conversation.
// GET /api/v1/admin/conversations/:id/analytics
func (h *Handler) Analytics(c *gin.Context) {
	conversationID := c.Param("id")
	if conversationID == "" {
		httpkit.Error(c, http.StatusBadRequest, "missing conversation ID", nil)
		return
	}

	result, err := h.svc.Analyze(c.Request.Context(), conversationID)
	if errors.Is(err, repository.ErrNotFound) {
		httpkit.Error(c, http.StatusNotFound, "conversation not found", nil)
		return
	}
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.FromResult(result))
}
