package experiments

import (
	"growthcore_backend/internal/experiments/domain"
	"growthcore_backend/internal/experiments/handler"
	"growthcore_backend/internal/experiments/repository"
	apphttp "growthcore_backend/internal/http"
	"growthcore_backend/platform/logger"
	"growthcore_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the experiments bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates and initializes the experiments module.
func NewModule(pool *pgxpool.Pool, registry *domain.Registry, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	bucketer := domain.NewBucketer(registry)
	return &Module{
		handler: handler.New(bucketer, repo, val, log),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "experiments" }

// RegisterRoutes mounts the experiments routes. Assignment and consent are
// public funnel endpoints, so both sit behind the shared rate limiter.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/experiments")
	if ctx.PublicRateLimiter != nil {
		group.Use(ctx.PublicRateLimiter.RateLimit())
	}
	group.GET("/:id/variant", m.handler.GetVariant)
	group.PUT("/consent", m.handler.PutConsent)
}
