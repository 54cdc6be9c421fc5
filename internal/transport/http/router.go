package http

import (
	nethttp "net/http"

	"dataset-assistant/internal/application/port/output"
	"dataset-assistant/internal/domain/entity"
	"dataset-assistant/internal/transport/http/handlers"
	"dataset-assistant/internal/transport/http/middleware"
	"dataset-assistant/internal/usecase/assistant"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

type RouterConfig struct {
	Registry  output.TaskRegistry
	Samples   *assistant.Samples
	Logger    output.LoggerPort
	Metrics   nethttp.Handler
	AccessLog bool
}

func NewApp(cfg Config) *fiber.App {
	return fiber.New(fiber.Config{
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		IdleTimeout:           cfg.IdleTimeout,
		ErrorHandler:          errorHandler(cfg.Logger),
		DisableStartupMessage: true,
	})
}

func SetupRoutes(app *fiber.App, cfg RouterConfig) {
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(middleware.RequestID())
	if cfg.AccessLog {
		app.Use(middleware.AccessLog(cfg.Logger))
	}

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	if cfg.Metrics != nil {
		if cfg.AccessLog {
			app.Get("/metrics", middleware.LoggedHTTPHandler("dataset-assistant", cfg.Metrics))
		} else {
			app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics))
		}
	}

	taskHandler := handlers.NewTaskHandler(cfg.Registry, cfg.Samples, cfg.Logger)

	api := app.Group("/api/v1")
	api.Get("/tasks", taskHandler.List)
	api.Get("/tasks/:name", taskHandler.Describe)
	api.Post("/tasks/:name", taskHandler.Run)
}

func errorHandler(log output.LoggerPort) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := entity.MessageUnexpected
		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
			message = e.Message
		}

		fields := []any{
			"method", c.Method(),
			"path", c.Path(),
			"status", code,
			"error", err.Error(),
			"requestId", middleware.RequestIDFrom(c.UserContext()),
		}
		if code < fiber.StatusInternalServerError {
			log.Warn("Request failed", fields...)
		} else {
			log.Error("Request error", fields...)
		}

		return c.Status(code).JSON(entity.Fail[any](message, err))
	}
}
