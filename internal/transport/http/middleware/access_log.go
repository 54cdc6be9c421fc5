package middleware

import (
	"net/http"
	"time"

	"dataset-assistant/internal/application/port/output"

	"github.com/go-chi/httplog"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

// AccessLog logs one line per request after the handler has run.
func AccessLog(log output.LoggerPort) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		route := ""
		if c.Route() != nil {
			route = c.Route().Path
		}
		log.Info("http_access",
			"method", c.Method(),
			"path", c.Path(),
			"route", route,
			"status", c.Response().StatusCode(),
			"latencyMs", time.Since(start).Milliseconds(),
			"clientIp", c.IP(),
			"requestId", RequestIDFrom(c.UserContext()),
			"reqBytes", len(c.Request().Body()),
			"respBytes", len(c.Response().Body()),
		)
		return err
	}
}

// LoggedHTTPHandler mounts a net/http handler, wrapped in httplog's request logger.
// Used for endpoints served by net/http libraries such as the Prometheus exporter.
func LoggedHTTPHandler(service string, h http.Handler) fiber.Handler {
	logger := httplog.NewLogger(service, httplog.Options{
		JSON:    true,
		Concise: true,
	})
	return adaptor.HTTPHandler(httplog.RequestLogger(logger)(h))
}
