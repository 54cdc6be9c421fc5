package assistant

import (
	"strings"

	"dataset-assistant/internal/domain/entity"
	"dataset-assistant/internal/infrastructure/prompts"
	"dataset-assistant/internal/usecase/task"
)

var (
	PlanSuggestion = task.MustDefine[entity.PlanSuggestionInput, entity.CleaningPlan](
		entity.TaskPlanSuggestion,
		"Analyzes a dataset description and proposes one cleaning technique per column that needs it.",
		prompts.PlanSuggestionPrompt,
		nil,
	)

	Explanation = task.MustDefine[entity.ExplanationInput, entity.Explanation](
		entity.TaskExplanation,
		"Explains the applied cleaning techniques in Markdown.",
		prompts.ExplanationPrompt,
		nil,
	)

	NaturalLanguageQuery = task.MustDefine[entity.QueryInput, entity.QueryResult](
		entity.TaskNaturalLanguageQuery,
		"Answers a natural language query against a described dataset.",
		prompts.NaturalLanguageQueryPrompt,
		nil,
	)

	Documentation = task.MustDefine[entity.DocumentationInput, entity.Documentation](
		entity.TaskDocumentation,
		"Generates documentation for a dataset and the processing steps applied to it.",
		prompts.DocumentationPrompt,
		bindDocumentation,
	)
)

// bindDocumentation turns the newline separated steps into a list so the template can
// number them.
func bindDocumentation(in entity.DocumentationInput) (map[string]any, error) {
	steps := make([]any, 0)
	for _, line := range strings.Split(in.ProcessingSteps, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			steps = append(steps, line)
		}
	}

	format := in.OutputFormat
	if format == "" {
		format = entity.FormatMarkdown
	}

	return map[string]any{
		"datasetDescription": in.DatasetDescription,
		"processingSteps":    steps,
		"outputFormat":       string(format),
	}, nil
}
