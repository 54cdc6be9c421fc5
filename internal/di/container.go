package di

import (
	"context"
	"fmt"

	"dataset-assistant/internal/application/port/input"
	"dataset-assistant/internal/application/port/output"
	"dataset-assistant/internal/application/service"
	"dataset-assistant/internal/config"
	"dataset-assistant/internal/infrastructure/llm/gemini"
	"dataset-assistant/internal/infrastructure/llm/ollama"
	"dataset-assistant/internal/infrastructure/llm/openrouter"
	"dataset-assistant/internal/infrastructure/logger"
	"dataset-assistant/internal/infrastructure/metrics"
	"dataset-assistant/internal/usecase/assistant"
)

type Container struct {
	Config    *config.Config
	Logger    output.LoggerPort
	Model     output.ModelPort
	Metrics   *metrics.PrometheusMetrics
	Registry  output.TaskRegistry
	Samples   *assistant.Samples
	Assistant input.Assistant
}

func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	log, err := logger.NewLoggerAdapter(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	model, err := NewModel(ctx, cfg.Model, log)
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to create model backend: %w", err)
	}

	m, err := metrics.NewPrometheusMetrics()
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}

	svc, err := assistant.New(model, log, m)
	if err != nil {
		log.Close()
		return nil, err
	}

	registry := service.NewTaskRegistry()
	if err := svc.Register(registry); err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to register tasks: %w", err)
	}

	log.Info("Container ready",
		"provider", cfg.Model.Provider,
		"model", cfg.Model.Name,
		"tasks", len(registry.List()),
		"sampleInputs", cfg.Tasks.SampleInputs,
	)

	return &Container{
		Config:    cfg,
		Logger:    log,
		Model:     model,
		Metrics:   m,
		Registry:  registry,
		Samples:   assistant.NewSamples(cfg.Tasks.SampleInputs, cfg.Tasks.DefaultDatasetDescription, log),
		Assistant: svc,
	}, nil
}

func (c *Container) Close() {
	if c.Logger != nil {
		c.Logger.Close()
	}
}

// NewModel builds the backend selected by cfg.Provider.
func NewModel(ctx context.Context, cfg config.ModelConfig, log output.LoggerPort) (output.ModelPort, error) {
	switch cfg.Provider {
	case "gemini":
		geminiCfg := gemini.DefaultConfig(cfg.APIKey, cfg.Name)
		geminiCfg.BaseURL = cfg.BaseURL
		geminiCfg.Temperature = cfg.Temperature
		geminiCfg.Timeout = cfg.Timeout
		geminiCfg.Logger = log
		adapter, err := gemini.NewGeminiAdapter(ctx, geminiCfg)
		if err != nil {
			return nil, err
		}
		return adapter, nil

	case "openrouter":
		orCfg := openrouter.DefaultConfig(cfg.APIKey, cfg.Name)
		if cfg.BaseURL != "" {
			orCfg.BaseURL = cfg.BaseURL
		}
		orCfg.Temperature = cfg.Temperature
		orCfg.Timeout = cfg.Timeout
		if cfg.LogRequests {
			orCfg.Logger = log
		}
		return openrouter.NewOpenRouterAdapter(orCfg), nil

	case "ollama":
		ollamaCfg := ollama.DefaultConfig(cfg.Name)
		if cfg.BaseURL != "" {
			ollamaCfg.ServerURL = cfg.BaseURL
		}
		ollamaCfg.Temperature = cfg.Temperature
		ollamaCfg.Timeout = cfg.Timeout
		adapter, err := ollama.NewOllamaAdapter(ollamaCfg)
		if err != nil {
			return nil, err
		}
		return adapter, nil
	}

	return nil, fmt.Errorf("unknown model provider %q", cfg.Provider)
}
