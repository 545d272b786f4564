// Package handler exposes the lead scoring admin endpoints.
package handler

import (
	"context"
	"errors"
	"net/http"

	"growthcore_backend/internal/leads/repository"
	"growthcore_backend/internal/leads/scoring"
	"growthcore_backend/internal/leads/transport"
	"growthcore_backend/platform/httpkit"
	"growthcore_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const msgInvalidID = "invalid contact ID"

// BatchEnqueuer hands the score-all job to the background worker. Nil when
// no queue is configured, in which case the batch runs inline.
type BatchEnqueuer interface {
	EnqueueScoreAll(ctx context.Context) error
}

// Handler handles HTTP requests for lead scoring.
type Handler struct {
	svc      *scoring.Service
	enqueuer BatchEnqueuer
	log      *logger.Logger
}

// New creates a new leads handler.
func New(svc *scoring.Service, enqueuer BatchEnqueuer, log *logger.Logger) *Handler {
	return &Handler{svc: svc, enqueuer: enqueuer, log: log}
}

// Score recomputes one contact's qualification snapshot.
// POST /api/v1/admin/contacts/:id/score
func (h *Handler) Score(c *gin.Context) {
	contactID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	result, err := h.svc.Score(c.Request.Context(), contactID)
	if errors.Is(err, repository.ErrNotFound) {
		httpkit.Error(c, http.StatusNotFound, "contact not found", nil)
		return
	}
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ScoreResponse{
		ContactID:     contactID.String(),
		Score:         result.Score,
		Qualification: result.Qualification,
		Breakdown:     result.Breakdown,
	})
}

// ScoreAll rescores every contact. With a queue configured the job is
// enqueued for the worker; otherwise it runs inline and reports counts.
// POST /api/v1/admin/contacts/score-all
func (h *Handler) ScoreAll(c *gin.Context) {
	if h.enqueuer != nil {
		if err := h.enqueuer.EnqueueScoreAll(c.Request.Context()); err != nil {
			h.log.Error("score-all enqueue failed, running inline", "error", err)
		} else {
			httpkit.JSON(c, http.StatusAccepted, transport.BatchScoreResponse{Enqueued: true})
			return
		}
	}

	result, err := h.svc.ScoreAll(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.BatchScoreResponse{Updated: result.Updated, Errors: result.Errors})
}
