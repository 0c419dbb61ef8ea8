package middleware

import (
	"github.com/ferdian3456/devblog/internal/observability"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// TraceLoggerMiddleware stores a logger carrying trace_id and span_id in Locals.
func TraceLoggerMiddleware(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("logger", observability.WithContext(c.UserContext(), logger))

		return c.Next()
	}
}

// GetLoggerFromContext returns the request logger, or fallback when the middleware did not run.
func GetLoggerFromContext(c *fiber.Ctx, fallback *zap.Logger) *zap.Logger {
	logger, ok := c.Locals("logger").(*zap.Logger)
	if ok && logger != nil {
		return logger
	}

	return fallback
}
