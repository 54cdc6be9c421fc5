package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"dataset-assistant/internal/application/port/input"
	"dataset-assistant/internal/application/port/output"
	"dataset-assistant/internal/domain/entity"
	"dataset-assistant/internal/infrastructure/schema"

	"github.com/go-viper/mapstructure/v2"
)

var _ input.TaskInvoker = (*Task[struct{}, struct{}])(nil)

const outcomeSuccess = "success"

// Task runs one definition end to end: validate, render, call the model, check the answer.
// It holds no per-call state and is safe for concurrent use.
type Task[In, Out any] struct {
	def     Definition[In, Out]
	model   output.ModelPort
	logger  output.LoggerPort
	metrics output.MetricsPort
}

func New[In, Out any](
	def Definition[In, Out],
	model output.ModelPort,
	logger output.LoggerPort,
	metrics output.MetricsPort,
) (*Task[In, Out], error) {
	if err := def.check(); err != nil {
		return nil, err
	}
	if model == nil {
		return nil, fmt.Errorf("task %s: model backend is required", def.Name)
	}
	if logger == nil {
		return nil, fmt.Errorf("task %s: logger is required", def.Name)
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}

	return &Task[In, Out]{
		def:     def,
		model:   model,
		logger:  logger,
		metrics: metrics,
	}, nil
}

func (t *Task[In, Out]) Info() input.TaskInfo {
	return input.TaskInfo{
		Name:         t.def.Name,
		Description:  t.def.Description,
		InputSchema:  t.def.InputSchema.Map(),
		OutputSchema: t.def.OutputSchema.Map(),
	}
}

// Execute returns the typed output or a *entity.TaskError.
func (t *Task[In, Out]) Execute(ctx context.Context, payload map[string]any) (Out, error) {
	var zero Out
	start := time.Now()
	log := t.logger.WithField("task", t.def.Name.String())

	vars, err := t.prepare(payload)
	if err != nil {
		return zero, t.fail(log, start, err)
	}

	prompt, err := t.def.Template.Render(vars)
	if err != nil {
		return zero, t.fail(log, start, entity.NewTaskError(entity.ErrKindRender, t.def.Name, "prompt rendering failed", err))
	}

	log.Debug("Invoking model", "promptLen", len(prompt))
	resp, err := t.model.Generate(ctx, output.GenerateRequest{
		Task:         t.def.Name,
		Prompt:       prompt,
		OutputSchema: t.def.OutputSchema,
	})
	if err != nil {
		return zero, t.fail(log, start, entity.NewTaskError(entity.ErrKindInvocation, t.def.Name, "model invocation failed", err))
	}
	if resp == nil {
		return zero, t.fail(log, start, entity.NewTaskError(entity.ErrKindInvocation, t.def.Name, "model returned no response", nil))
	}

	out, err := t.parse(resp.Text)
	if err != nil {
		return zero, t.fail(log, start, err)
	}

	duration := time.Since(start)
	t.metrics.ObserveTask(t.def.Name, outcomeSuccess, duration)
	log.Info("Task completed", "model", resp.Model, "durationMs", duration.Milliseconds())

	return out, nil
}

// Invoke is the task boundary: every outcome, including a panicking backend, becomes
// exactly one Success or Failure.
func (t *Task[In, Out]) Invoke(ctx context.Context, payload map[string]any) (result entity.Result[Out]) {
	defer func() {
		if r := recover(); r != nil {
			err := entity.NewTaskError(entity.ErrKindInvocation, t.def.Name, "task panicked", fmt.Errorf("%v", r))
			t.logger.Error("Task panicked", "task", t.def.Name.String(), "panic", r)
			result = entity.Fail[Out](err.PublicMessage(), err)
		}
	}()

	out, err := t.Execute(ctx, payload)
	if err != nil {
		var taskErr *entity.TaskError
		if errors.As(err, &taskErr) {
			return entity.Fail[Out](taskErr.PublicMessage(), taskErr)
		}
		return entity.Fail[Out](entity.MessageUnexpected, err)
	}
	return entity.Succeed(out)
}

func (t *Task[In, Out]) InvokePayload(ctx context.Context, payload map[string]any) entity.Result[any] {
	switch r := t.Invoke(ctx, payload).(type) {
	case entity.Success[Out]:
		return entity.Succeed[any](r.Data)
	case entity.Failure[Out]:
		return entity.Fail[any](r.Reason, r.Err)
	}
	return entity.Fail[any](entity.MessageUnexpected, nil)
}

// InvokeInput runs the task from an already typed input.
func (t *Task[In, Out]) InvokeInput(ctx context.Context, in In) entity.Result[Out] {
	payload, err := t.toPayload(in)
	if err != nil {
		taskErr := entity.NewTaskError(entity.ErrKindValidation, t.def.Name, "input is not encodable", err)
		return entity.Fail[Out](taskErr.PublicMessage(), taskErr)
	}
	return t.Invoke(ctx, payload)
}

func (t *Task[In, Out]) prepare(payload map[string]any) (map[string]any, error) {
	normalized := t.def.InputSchema.Normalize(payload)
	if err := t.def.InputSchema.Validate(normalized); err != nil {
		taskErr := entity.NewTaskError(entity.ErrKindValidation, t.def.Name, "input does not match schema", err)
		var violation *schema.ViolationError
		if errors.As(err, &violation) {
			taskErr.Details = violation.Violations
		}
		return nil, taskErr
	}

	var in In
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  &in,
	})
	if err != nil {
		return nil, entity.NewTaskError(entity.ErrKindValidation, t.def.Name, "input decoder", err)
	}
	if err := decoder.Decode(normalized); err != nil {
		return nil, entity.NewTaskError(entity.ErrKindValidation, t.def.Name, "input does not decode", err)
	}

	if t.def.Bind == nil {
		return normalized, nil
	}
	vars, err := t.def.Bind(in)
	if err != nil {
		return nil, entity.NewTaskError(entity.ErrKindValidation, t.def.Name, "input binding failed", err)
	}
	return vars, nil
}

func (t *Task[In, Out]) parse(text string) (Out, error) {
	var out Out
	mismatch := func(msg string, err error) *entity.TaskError {
		return entity.NewTaskError(entity.ErrKindOutputMismatch, t.def.Name, msg, err)
	}

	raw, err := extractJSON(text)
	if err != nil {
		return out, mismatch("model output is not JSON", err)
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return out, mismatch("model output is not JSON", err)
	}

	if err := t.def.OutputSchema.Validate(doc); err != nil {
		taskErr := mismatch("model output does not match schema", err)
		var violation *schema.ViolationError
		if errors.As(err, &violation) {
			taskErr.Details = violation.Violations
		}
		return out, taskErr
	}

	if err := json.Unmarshal(raw, &out); err != nil {
		return out, mismatch("model output does not decode", err)
	}
	return out, nil
}

func (t *Task[In, Out]) fail(log output.LoggerPort, start time.Time, err error) error {
	duration := time.Since(start)

	var taskErr *entity.TaskError
	if !errors.As(err, &taskErr) {
		taskErr = entity.NewTaskError(entity.ErrKindInvocation, t.def.Name, "task failed", err)
	}
	t.metrics.ObserveTask(t.def.Name, string(taskErr.Kind), duration)

	fields := map[string]any{
		"kind":       string(taskErr.Kind),
		"durationMs": duration.Milliseconds(),
	}
	if len(taskErr.Details) > 0 {
		fields["violations"] = taskErr.Details
	}
	log = log.WithFields(fields)

	switch taskErr.Kind {
	case entity.ErrKindValidation:
		log.Warn("Task input rejected", "error", taskErr.Error())
	case entity.ErrKindOutputMismatch:
		log.Warn("Model output rejected", "error", taskErr.Error())
	default:
		log.Error("Task failed", "error", taskErr.Error())
	}

	return taskErr
}

// toPayload encodes a typed input the way a JSON caller would send it. A nil slice is an
// empty list, not an omitted field.
func (t *Task[In, Out]) toPayload(in In) (map[string]any, error) {
	data, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}

	for _, name := range t.def.InputSchema.Properties() {
		if v, ok := payload[name]; ok && v == nil && t.def.InputSchema.PropertyType(name) == "array" {
			payload[name] = []any{}
		}
	}
	return payload, nil
}

type nopMetrics struct{}

func (nopMetrics) ObserveTask(entity.TaskName, string, time.Duration) {}
