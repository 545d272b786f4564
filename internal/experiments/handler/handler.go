// Package handler exposes the experiments HTTP endpoints.
package handler

import (
	"net/http"

	"growthcore_backend/internal/experiments/domain"
	"growthcore_backend/internal/experiments/repository"
	"growthcore_backend/internal/experiments/transport"
	"growthcore_backend/platform/httpkit"
	"growthcore_backend/platform/logger"
	"growthcore_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const msgInvalidRequest = "invalid request"

// Handler handles HTTP requests for experiment assignment and consent.
type Handler struct {
	bucketer *domain.Bucketer
	consent  repository.ConsentStore
	val      *validator.Validator
	log      *logger.Logger
}

// New creates a new experiments handler.
func New(bucketer *domain.Bucketer, consent repository.ConsentStore, val *validator.Validator, log *logger.Logger) *Handler {
	return &Handler{bucketer: bucketer, consent: consent, val: val, log: log}
}

// GetVariant assigns a visitor to an experiment variant.
// GET /api/v1/experiments/:id/variant?visitorId=...
func (h *Handler) GetVariant(c *gin.Context) {
	experimentID := c.Param("id")
	visitorID := c.Query("visitorId")
	if visitorID == "" {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	// A consent lookup failure degrades to the control variant; the
	// funnel must keep working when the store is down.
	hasConsent, err := h.consent.GetConsent(c.Request.Context(), visitorID)
	if err != nil {
		h.log.DatabaseError("experiments.get_consent", err)
		hasConsent = false
	}

	variantID := h.bucketer.Assign(experimentID, visitorID, hasConsent)
	httpkit.OK(c, transport.VariantResponse{
		ExperimentID: experimentID,
		VisitorID:    visitorID,
		VariantID:    variantID,
	})
}

// PutConsent stores a visitor's analytics consent preference.
// PUT /api/v1/experiments/consent
func (h *Handler) PutConsent(c *gin.Context) {
	var req transport.ConsentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	if err := h.consent.UpsertConsent(c.Request.Context(), req.VisitorID, req.AnalyticsConsent); err != nil {
		h.log.DatabaseError("experiments.upsert_consent", err)
		httpkit.Error(c, http.StatusInternalServerError, "unable to process request", nil)
		return
	}

	httpkit.OK(c, transport.ConsentResponse{
		VisitorID:        req.VisitorID,
		AnalyticsConsent: req.AnalyticsConsent,
	})
}
