package handlers

import (
	"fmt"

	"github.com/SscSPs/document_distribution_app/cmd/docs"
	portssvc "github.com/SscSPs/document_distribution_app/internal/core/ports/services"
	"github.com/SscSPs/document_distribution_app/internal/middleware"
	"github.com/SscSPs/document_distribution_app/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
	limitergin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RegisterRoutes sets up all application routes. A nil store keeps rate limit counters in memory.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	store limiter.Store,
) error {
	if store == nil {
		store = memory.NewStore()
	}

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	loginRate, err := limiter.NewRateFromFormatted(cfg.LoginRateLimit)
	if err != nil {
		return fmt.Errorf("parse login rate limit %q: %w", cfg.LoginRateLimit, err)
	}
	registerAuthRoutes(r, services, limitergin.NewMiddleware(limiter.New(store, loginRate)))

	apiRate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		return fmt.Errorf("parse rate limit %q: %w", cfg.RateLimit, err)
	}
	setupAPIV1Routes(r, cfg, services, limiter.New(store, apiRate))

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
	return nil
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	apiLimiter *limiter.Limiter,
) {
	v1 := r.Group("/api/v1", middleware.RateLimit(apiLimiter), middleware.AuthMiddleware(cfg.JWTSecret))

	registerUserRoutes(v1, services.User)
	registerReferenceRoutes(v1, services.ReferenceData)
	RegisterDistributionRoutes(v1, services.Distribution, services.Manifest)
	registerLocationRoutes(v1, services.Location)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
