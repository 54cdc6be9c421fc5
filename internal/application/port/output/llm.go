package output

import (
	"context"

	"dataset-assistant/internal/domain/entity"
)

// SchemaDescriptor is the JSON schema a model answer must satisfy.
type SchemaDescriptor interface {
	Map() map[string]any
	String() string
}

type ModelPort interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
}

type GenerateRequest struct {
	Task         entity.TaskName
	Prompt       string
	OutputSchema SchemaDescriptor
}

type GenerateResponse struct {
	Text  string
	Model string
}
