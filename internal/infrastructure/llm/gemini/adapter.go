package gemini

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"dataset-assistant/internal/application/port/output"

	"google.golang.org/genai"
)

var _ output.ModelPort = (*GeminiAdapter)(nil)

type GeminiAdapter struct {
	client      *genai.Client
	model       string
	temperature float32
	logger      output.LoggerPort
}

type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float32
	Timeout     time.Duration
	Logger      output.LoggerPort
}

func DefaultConfig(apiKey, model string) Config {
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return Config{
		APIKey:      apiKey,
		Model:       model,
		Temperature: 0.2,
	}
}

func NewGeminiAdapter(ctx context.Context, cfg Config) (*GeminiAdapter, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	if cfg.Timeout > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiAdapter{
		client:      client,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		logger:      cfg.Logger,
	}, nil
}

// Generate uses Gemini's native structured output: JSON mime type plus responseJsonSchema.
func (a *GeminiAdapter) Generate(ctx context.Context, req output.GenerateRequest) (*output.GenerateResponse, error) {
	result, err := a.client.Models.GenerateContent(ctx,
		a.model,
		genai.Text(req.Prompt),
		a.generationConfig(req),
	)
	if err != nil {
		return nil, fmt.Errorf("Gemini generate failed: %w", err)
	}

	if len(result.Candidates) == 0 {
		if result.PromptFeedback != nil && result.PromptFeedback.BlockReason != "" {
			return nil, fmt.Errorf("prompt blocked: %s", result.PromptFeedback.BlockReason)
		}
		return nil, fmt.Errorf("no candidates returned")
	}

	if a.logger != nil && result.UsageMetadata != nil {
		a.logger.Debug("Gemini usage",
			"task", req.Task.String(),
			"promptTokens", result.UsageMetadata.PromptTokenCount,
			"candidateTokens", result.UsageMetadata.CandidatesTokenCount,
		)
	}

	return &output.GenerateResponse{
		Text:  result.Text(),
		Model: a.model,
	}, nil
}

func (a *GeminiAdapter) generationConfig(req output.GenerateRequest) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(a.temperature),
	}
	if req.OutputSchema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseJsonSchema = req.OutputSchema.Map()
	}
	return cfg
}
