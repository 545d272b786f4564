// Package revenue provides the revenue attribution bounded context
// module.
package revenue

import (
	apphttp "growthcore_backend/internal/http"
	"growthcore_backend/internal/revenue/attribution"
	"growthcore_backend/internal/revenue/handler"
	"growthcore_backend/internal/revenue/repository"
	"growthcore_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the revenue bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates and initializes the revenue module.
func NewModule(pool *pgxpool.Pool, log *logger.Logger) *Module {
	agg := attribution.NewAggregator(repository.New(pool), log)
	return &Module{handler: handler.New(agg, log)}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "revenue" }

// RegisterRoutes mounts the summary route on the admin surface.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Admin.GET("/revenue/summary", m.handler.Summary)
}
