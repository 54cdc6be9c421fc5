package assistant

import (
	"context"
	"fmt"

	"dataset-assistant/internal/application/port/input"
	"dataset-assistant/internal/application/port/output"
	"dataset-assistant/internal/domain/entity"
	"dataset-assistant/internal/usecase/task"
)

var _ input.Assistant = (*Service)(nil)

// Service is the typed caller-facing API over the four tasks.
type Service struct {
	plan        *task.Task[entity.PlanSuggestionInput, entity.CleaningPlan]
	explanation *task.Task[entity.ExplanationInput, entity.Explanation]
	query       *task.Task[entity.QueryInput, entity.QueryResult]
	docs        *task.Task[entity.DocumentationInput, entity.Documentation]
}

func New(model output.ModelPort, logger output.LoggerPort, metrics output.MetricsPort) (*Service, error) {
	plan, err := task.New(PlanSuggestion, model, logger, metrics)
	if err != nil {
		return nil, fmt.Errorf("failed to create plan suggestion task: %w", err)
	}
	explanation, err := task.New(Explanation, model, logger, metrics)
	if err != nil {
		return nil, fmt.Errorf("failed to create explanation task: %w", err)
	}
	query, err := task.New(NaturalLanguageQuery, model, logger, metrics)
	if err != nil {
		return nil, fmt.Errorf("failed to create query task: %w", err)
	}
	docs, err := task.New(Documentation, model, logger, metrics)
	if err != nil {
		return nil, fmt.Errorf("failed to create documentation task: %w", err)
	}

	return &Service{
		plan:        plan,
		explanation: explanation,
		query:       query,
		docs:        docs,
	}, nil
}

// Register adds every task to the registry.
func (s *Service) Register(registry output.TaskRegistry) error {
	for _, t := range s.Tasks() {
		if err := registry.Register(t); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) Tasks() []input.TaskInvoker {
	return []input.TaskInvoker{s.plan, s.explanation, s.query, s.docs}
}

func (s *Service) PlanSuggestion(ctx context.Context, datasetDescription string) entity.Result[entity.CleaningPlan] {
	return s.plan.InvokeInput(ctx, entity.PlanSuggestionInput{DatasetDescription: datasetDescription})
}

func (s *Service) ExplanationGeneration(ctx context.Context, techniques []string) entity.Result[entity.Explanation] {
	return s.explanation.InvokeInput(ctx, entity.ExplanationInput{Techniques: techniques})
}

func (s *Service) NaturalLanguageQuery(ctx context.Context, query, datasetDescription string) entity.Result[entity.QueryResult] {
	return s.query.InvokeInput(ctx, entity.QueryInput{Query: query, DatasetDescription: datasetDescription})
}

func (s *Service) Documentation(ctx context.Context, in entity.DocumentationInput) entity.Result[entity.Documentation] {
	return s.docs.InvokeInput(ctx, in)
}
