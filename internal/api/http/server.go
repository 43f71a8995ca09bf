package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/support-forum-bot/internal/api/http/handlers"
	"github.com/spec-kit/support-forum-bot/internal/observability"
)

const requestTimeout = 5 * time.Second

// NewServer builds the fiber app serving health and metrics endpoints.
func NewServer(appName string, health *handlers.HealthHandler, logger *zap.Logger, metrics *observability.Metrics) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               appName,
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
	})
	RegisterMiddlewares(app, logger, metrics, requestTimeout)
	RegisterRoutes(app, RouteConfig{Health: health})
	return app
}
