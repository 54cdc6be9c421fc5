package input

import (
	"context"

	"dataset-assistant/internal/domain/entity"
)

type TaskInfo struct {
	Name         entity.TaskName `json:"name"`
	Description  string          `json:"description"`
	InputSchema  any             `json:"inputSchema"`
	OutputSchema any             `json:"outputSchema"`
}

// TaskInvoker runs one registered task from an untyped payload.
type TaskInvoker interface {
	Info() TaskInfo
	InvokePayload(ctx context.Context, payload map[string]any) entity.Result[any]
}
