// Package handler exposes the revenue summary admin endpoint.
package handler

import (
	"net/http"
	"time"

	"growthcore_backend/internal/revenue/attribution"
	"growthcore_backend/internal/revenue/transport"
	"growthcore_backend/platform/httpkit"
	"growthcore_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

const defaultCurrency = "USD"

// Handler handles HTTP requests for revenue summaries.
type Handler struct {
	agg *attribution.Aggregator
	log *logger.Logger
}

// New creates a new revenue handler.
func New(agg *attribution.Aggregator, log *logger.Logger) *Handler {
	return &Handler{agg: agg, log: log}
}

// Summary aggregates completed payments over a date range.
// GET /api/v1/admin/revenue/summary?from=2026-01-01&to=2026-02-01&currency=USD
func (h *Handler) Summary(c *gin.Context) {
	from, err := parseDate(c.Query("from"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid from date", nil)
		return
	}
	to, err := parseDate(c.Query("to"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid to date", nil)
		return
	}
	if !to.After(from) {
		httpkit.Error(c, http.StatusBadRequest, "to must be after from", nil)
		return
	}

	currency := c.Query("currency")
	if currency == "" {
		currency = defaultCurrency
	}

	summary, err := h.agg.Summarize(c.Request.Context(), from, to, currency)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.FromSummary(summary))
}

// parseDate accepts a calendar date or a full RFC 3339 timestamp.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}
