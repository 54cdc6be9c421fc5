package ollama

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"dataset-assistant/internal/application/port/output"
	"dataset-assistant/internal/infrastructure/prompts"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

var _ output.ModelPort = (*OllamaAdapter)(nil)

// OllamaAdapter talks to a local Ollama server through langchaingo. Ollama only offers a
// JSON mode, so the schema travels inside the prompt and is checked by the task afterwards.
type OllamaAdapter struct {
	model       llms.Model
	name        string
	temperature float64
}

type Config struct {
	ServerURL   string
	Model       string
	Temperature float32
	Timeout     time.Duration
}

func DefaultConfig(model string) Config {
	return Config{
		ServerURL: "http://localhost:11434",
		Model:     model,
	}
}

func NewOllamaAdapter(cfg Config) (*OllamaAdapter, error) {
	opts := []ollama.Option{
		ollama.WithModel(cfg.Model),
		ollama.WithFormat("json"),
	}
	if cfg.ServerURL != "" {
		opts = append(opts, ollama.WithServerURL(cfg.ServerURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, ollama.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}))
	}

	model, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Ollama model: %w", err)
	}

	return newWithModel(model, cfg), nil
}

func newWithModel(model llms.Model, cfg Config) *OllamaAdapter {
	return &OllamaAdapter{
		model:       model,
		name:        cfg.Model,
		temperature: float64(cfg.Temperature),
	}
}

func (a *OllamaAdapter) Generate(ctx context.Context, req output.GenerateRequest) (*output.GenerateResponse, error) {
	prompt := req.Prompt
	if req.OutputSchema != nil {
		var err error
		prompt, err = prompts.GenerateStructuredPrompt(req.Prompt, req.OutputSchema)
		if err != nil {
			return nil, fmt.Errorf("failed to build structured prompt: %w", err)
		}
	}

	text, err := llms.GenerateFromSinglePrompt(ctx, a.model, prompt,
		llms.WithTemperature(a.temperature),
		llms.WithJSONMode(),
	)
	if err != nil {
		return nil, fmt.Errorf("ollama generate failed: %w", err)
	}

	return &output.GenerateResponse{
		Text:  text,
		Model: a.name,
	}, nil
}
