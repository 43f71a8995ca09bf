package http

import (
	"context"
	"errors"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/support-forum-bot/internal/observability"
	apperrors "github.com/spec-kit/support-forum-bot/pkg/util/errorutil"
)

// RegisterMiddlewares attaches global middlewares such as error handling and logging.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	app.Use(errorHandlingMiddleware(logger, metrics))
	app.Use(observability.RequestLogger(logger))
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err == nil {
				return
			}

			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				c.Status(fiberErr.Code)
				_ = c.JSON(fiber.Map{"error": fiber.Map{"code": "HTTP_ERROR", "message": fiberErr.Message}})
				err = nil
				return
			}

			domainErr := apperrors.ToDomainError(err)
			metrics.RecordError("http "+c.Path(), domainErr.Code)
			status := httpStatus(domainErr.Code)
			response := fiber.Map{"error": fiber.Map{
				"code":    domainErr.Code,
				"message": domainErr.Message,
			}}
			if len(domainErr.Details) > 0 {
				response["error"].(fiber.Map)["details"] = domainErr.Details
			}
			if status >= fiber.StatusInternalServerError {
				logger.Error("request failed", zap.Error(domainErr))
			}
			c.Status(status)
			_ = c.JSON(response)
			err = nil
		}()
		return c.Next()
	}
}

func httpStatus(code string) int {
	switch code {
	case apperrors.CodeNotAGuildChannel, apperrors.CodeNotAThreadChannel:
		return fiber.StatusBadRequest
	case apperrors.CodeForbidden:
		return fiber.StatusForbidden
	case apperrors.CodeTagNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}
