// Package leads provides the lead qualification bounded context module.
package leads

import (
	"growthcore_backend/internal/events"
	apphttp "growthcore_backend/internal/http"
	"growthcore_backend/internal/leads/handler"
	"growthcore_backend/internal/leads/repository"
	"growthcore_backend/internal/leads/scoring"
	"growthcore_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	scorer  *scoring.Service
}

// NewModule creates and initializes the leads module.
func NewModule(pool *pgxpool.Pool, phoneRegion string, enqueuer handler.BatchEnqueuer, bus events.Bus, log *logger.Logger) *Module {
	repo := repository.New(pool)
	scorer := scoring.New(repo, phoneRegion, bus, log)
	return &Module{
		handler: handler.New(scorer, enqueuer, log),
		scorer:  scorer,
	}
}

// Scorer exposes the scoring service for the background worker.
func (m *Module) Scorer() *scoring.Service { return m.scorer }

// Name returns the module identifier.
func (m *Module) Name() string { return "leads" }

// RegisterRoutes mounts the scoring routes on the admin surface.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Admin.Group("/contacts")
	group.POST("/:id/score", m.handler.Score)
	group.POST("/score-all", m.handler.ScoreAll)
}
