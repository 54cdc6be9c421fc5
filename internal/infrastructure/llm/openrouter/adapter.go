package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"dataset-assistant/internal/application/port/output"

	"github.com/sashabaranov/go-openai"
)

var _ output.ModelPort = (*OpenRouterAdapter)(nil)

type OpenRouterAdapter struct {
	client      *openai.Client
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
	// Logger, when set, logs every HTTP request, response status and token usage.
	Logger output.LoggerPort
}

func DefaultConfig(apiKey, model string) Config {
	return Config{
		APIKey:  apiKey,
		Model:   model,
		BaseURL: "https://openrouter.ai/api/v1",
	}
}

type loggingTransport struct {
	base   http.RoundTripper
	logger output.LoggerPort
}

// RoundTrip logs method, URL and body size, never the body.
func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	bodyLen := 0
	if req.Body != nil && req.Body != http.NoBody {
		body, err := io.ReadAll(req.Body)
		_ = req.Body.Close()
		if err != nil {
			t.logger.Warn("HTTP Request body unreadable", "url", req.URL.String(), "error", err)
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}
		bodyLen = len(body)
		req.Body = io.NopCloser(bytes.NewReader(body))
	}

	t.logger.Debug("HTTP Request",
		"method", req.Method,
		"url", req.URL.String(),
		"bodyBytes", bodyLen,
	)

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		t.logger.Warn("HTTP Request failed", "url", req.URL.String(), "error", err)
		return resp, err
	}

	t.logger.Debug("HTTP Response",
		"status", resp.Status,
		"statusCode", resp.StatusCode,
	)

	return resp, nil
}

func NewOpenRouterAdapter(cfg Config) *OpenRouterAdapter {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}
	if cfg.Logger != nil {
		httpClient.Transport = &loggingTransport{
			base:   http.DefaultTransport,
			logger: cfg.Logger,
		}
	}
	config.HTTPClient = httpClient

	return &OpenRouterAdapter{
		client:      openai.NewClientWithConfig(config),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		logger:      cfg.Logger,
	}
}

// Generate asks for a json_schema constrained completion. The schema goes to the provider
// unchanged; OpenRouter forwards it to models that support structured output.
func (a *OpenRouterAdapter) Generate(ctx context.Context, req output.GenerateRequest) (*output.GenerateResponse, error) {
	chatReq := openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		Temperature: a.temperature,
	}
	if req.OutputSchema != nil {
		chatReq.ResponseFormat = responseFormat(string(req.Task), req.OutputSchema)
	}

	resp, err := a.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	if a.logger != nil {
		a.logger.Debug("OpenRouter usage",
			"task", req.Task.String(),
			"model", resp.Model,
			"promptTokens", resp.Usage.PromptTokens,
			"completionTokens", resp.Usage.CompletionTokens,
		)
	}

	choice := resp.Choices[0]
	if choice.FinishReason == openai.FinishReasonContentFilter {
		return nil, fmt.Errorf("completion blocked by content filter")
	}

	return &output.GenerateResponse{
		Text:  choice.Message.Content,
		Model: resp.Model,
	}, nil
}

func responseFormat(name string, schema output.SchemaDescriptor) *openai.ChatCompletionResponseFormat {
	if name == "" {
		name = "output"
	}
	return &openai.ChatCompletionResponseFormat{
		Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
		JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
			Name:   name,
			Schema: json.RawMessage(schema.String()),
			Strict: true,
		},
	}
}
