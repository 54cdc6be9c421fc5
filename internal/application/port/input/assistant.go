package input

import (
	"context"

	"dataset-assistant/internal/domain/entity"
)

type Assistant interface {
	PlanSuggestion(ctx context.Context, datasetDescription string) entity.Result[entity.CleaningPlan]
	ExplanationGeneration(ctx context.Context, techniques []string) entity.Result[entity.Explanation]
	NaturalLanguageQuery(ctx context.Context, query, datasetDescription string) entity.Result[entity.QueryResult]
	Documentation(ctx context.Context, in entity.DocumentationInput) entity.Result[entity.Documentation]
}
