package pricing

import (
	"time"

	"growthcore_backend/internal/events"
	apphttp "growthcore_backend/internal/http"
	"growthcore_backend/internal/pricing/domain"
	"growthcore_backend/internal/pricing/handler"
	"growthcore_backend/internal/pricing/repository"
	"growthcore_backend/internal/pricing/service"
	"growthcore_backend/platform/logger"
	"growthcore_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Module is the pricing bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the pricing module.
func NewModule(pool *pgxpool.Pool, catalog *domain.Catalog, locks *redis.Client, lockTTL time.Duration, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(catalog, repo, locks, lockTTL, bus, log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Service exposes the negotiation service for other composition roots.
func (m *Module) Service() *service.Service { return m.service }

// Name returns the module identifier.
func (m *Module) Name() string { return "pricing" }

// RegisterRoutes mounts the negotiation routes. The chat backend calls
// these per turn, so they live on the public v1 group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/conversations/:id/negotiation")
	if ctx.PublicRateLimiter != nil {
		group.Use(ctx.PublicRateLimiter.RateLimit())
	}
	group.POST("", m.handler.Open)
	group.POST("/actions", m.handler.Act)
}
