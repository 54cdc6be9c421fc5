package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"dataset-assistant/internal/application/port/output"
	"dataset-assistant/internal/application/service"
	"dataset-assistant/internal/domain/entity"
	"dataset-assistant/internal/infrastructure/logger"
	"dataset-assistant/internal/infrastructure/metrics"
	"dataset-assistant/internal/usecase/assistant"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubModel struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts []string
}

func (m *stubModel) Generate(ctx context.Context, req output.GenerateRequest) (*output.GenerateResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, req.Prompt)
	if m.err != nil {
		return nil, m.err
	}
	return &output.GenerateResponse{Text: m.reply}, nil
}

func newTestApp(t *testing.T, model output.ModelPort, sampleInputs bool) *fiber.App {
	t.Helper()
	log := logger.NewNop()

	svc, err := assistant.New(model, log, nil)
	require.NoError(t, err)
	registry := service.NewTaskRegistry()
	require.NoError(t, svc.Register(registry))

	m, err := metrics.NewPrometheusMetrics()
	require.NoError(t, err)

	app := NewApp(Config{Logger: log})
	SetupRoutes(app, RouterConfig{
		Registry: registry,
		Samples:  assistant.NewSamples(sampleInputs, "", log),
		Logger:   log,
		Metrics:  m.Handler(),
	})
	return app
}

func do(t *testing.T, app *fiber.App, method, path, contentType, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	if len(data) > 0 && data[0] == '{' {
		require.NoError(t, json.Unmarshal(data, &out))
	}
	return resp.StatusCode, out
}

func TestRun_JSONSuccess(t *testing.T) {
	model := &stubModel{reply: `{"result":"Delhi"}`}
	app := newTestApp(t, model, false)

	status, body := do(t, app, "POST", "/api/v1/tasks/natural_language_query", fiber.MIMEApplicationJSON,
		`{"query":"Which city is worst?","datasetDescription":"AQI"}`)

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, map[string]any{"result": "Delhi"}, body["data"])
	assert.NotContains(t, body, "error")
}

func TestRun_FormQueryUsesDefaultDescription(t *testing.T) {
	model := &stubModel{reply: `{"result":"42"}`}
	app := newTestApp(t, model, false)

	form := url.Values{"query": {"Average AQI?"}}
	status, body := do(t, app, "POST", "/api/v1/tasks/natural_language_query", fiber.MIMEApplicationForm, form.Encode())

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["success"])
	require.Len(t, model.prompts, 1)
	assert.Contains(t, model.prompts[0], "Dataset: Air Quality Index (AQI)")
}

func TestRun_FormArrayField(t *testing.T) {
	model := &stubModel{reply: `{"explanation":"# Two"}`}
	app := newTestApp(t, model, false)

	form := url.Values{"techniques": {"IQR", "KNN"}}
	status, _ := do(t, app, "POST", "/api/v1/tasks/explanation", fiber.MIMEApplicationForm, form.Encode())

	assert.Equal(t, fiber.StatusOK, status)
	require.Len(t, model.prompts, 1)
	assert.Contains(t, model.prompts[0], "- IQR\n- KNN\n")
}

func TestRun_ValidationFailure(t *testing.T) {
	model := &stubModel{reply: `{"explanation":"x"}`}
	app := newTestApp(t, model, false)

	status, body := do(t, app, "POST", "/api/v1/tasks/explanation", fiber.MIMEApplicationJSON, `{}`)

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, map[string]any{"success": false, "error": "Invalid input."}, body)
	assert.Empty(t, model.prompts)
}

func TestRun_MalformedJSON(t *testing.T) {
	app := newTestApp(t, &stubModel{}, false)

	status, body := do(t, app, "POST", "/api/v1/tasks/plan_suggestion", fiber.MIMEApplicationJSON, `{"datasetDescription":`)

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Invalid input.", body["error"])
}

func TestRun_BackendFailure(t *testing.T) {
	app := newTestApp(t, &stubModel{err: errors.New("connection refused")}, false)

	status, body := do(t, app, "POST", "/api/v1/tasks/plan_suggestion", fiber.MIMEApplicationJSON, `{"datasetDescription":"d"}`)

	assert.Equal(t, fiber.StatusBadGateway, status)
	assert.Equal(t, map[string]any{"success": false, "error": "An unexpected error occurred."}, body)
}

func TestRun_SampleInputsWhenEnabled(t *testing.T) {
	model := &stubModel{reply: `{"plan":[]}`}
	app := newTestApp(t, model, true)

	status, _ := do(t, app, "POST", "/api/v1/tasks/plan_suggestion", "", "")

	assert.Equal(t, fiber.StatusOK, status)
	require.Len(t, model.prompts, 1)
	assert.Contains(t, model.prompts[0], "Column 'YearsAtCompany'")
}

func TestRun_UnknownTask(t *testing.T) {
	app := newTestApp(t, &stubModel{}, false)

	status, body := do(t, app, "POST", "/api/v1/tasks/auto_clean", fiber.MIMEApplicationJSON, `{}`)

	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, false, body["success"])
}

func TestListAndDescribe(t *testing.T) {
	app := newTestApp(t, &stubModel{}, false)

	req := httptest.NewRequest("GET", "/api/v1/tasks", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	var list []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list, 4)
	assert.Equal(t, string(entity.TaskDocumentation), list[0]["name"])

	status, body := do(t, app, "GET", "/api/v1/tasks/documentation", "", "")
	assert.Equal(t, fiber.StatusOK, status)
	input, ok := body["inputSchema"].(map[string]any)
	require.True(t, ok)
	props := input["properties"].(map[string]any)
	format := props["outputFormat"].(map[string]any)
	assert.Equal(t, "Markdown", format["default"])
}

func TestHealthAndMetrics(t *testing.T) {
	app := newTestApp(t, &stubModel{reply: `{"result":"x"}`}, false)

	status, body := do(t, app, "GET", "/healthz", "", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ok", body["status"])

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestUnknownRoute(t *testing.T) {
	app := newTestApp(t, &stubModel{}, false)

	status, body := do(t, app, "GET", "/nope", "", "")

	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, false, body["success"])
}
