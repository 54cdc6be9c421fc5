package http

import (
	"context"
	"fmt"
	"time"

	"dataset-assistant/internal/application/port/output"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	Logger       output.LoggerPort
}

type Server struct {
	app    *fiber.App
	cfg    Config
	logger output.LoggerPort
}

func NewServer(cfg Config, routes RouterConfig) *Server {
	app := NewApp(cfg)
	SetupRoutes(app, routes)
	return &Server{app: app, cfg: cfg, logger: cfg.Logger}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "address", s.cfg.Address)
		errCh <- s.app.Listen(s.cfg.Address)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.app.ShutdownWithContext(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	<-errCh
	s.logger.Info("HTTP server stopped")
	return nil
}
