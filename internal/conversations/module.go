// Package conversations provides the conversation analytics bounded
// context module.
package conversations

import (
	"growthcore_backend/internal/conversations/analytics"
	"growthcore_backend/internal/conversations/handler"
	"growthcore_backend/internal/conversations/repository"
	"growthcore_backend/internal/conversations/service"
	"growthcore_backend/internal/events"
	apphttp "growthcore_backend/internal/http"
	"growthcore_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the conversations bounded context module implementing
// http.Module.
type Module struct {
	handler *handler.Handler
	svc     *service.Service
}

// NewModule creates and initializes the conversations module.
func NewModule(pool *pgxpool.Pool, cfg analytics.Config, bus events.Bus, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, analytics.NewClassifier(cfg), bus, log)
	return &Module{
		handler: handler.New(svc, log),
		svc:     svc,
	}
}

// Analytics exposes the analytics service for the background worker.
func (m *Module) Analytics() *service.Service { return m.svc }

// Name returns the module identifier.
func (m *Module) Name() string { return "conversations" }

// RegisterRoutes mounts the analytics route on the admin surface.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Admin.GET("/conversations/:id/analytics", m.handler.Analytics)
}
