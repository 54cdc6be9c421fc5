package assistant

import (
	"dataset-assistant/internal/application/port/output"
	"dataset-assistant/internal/domain/entity"
)

// Example inputs for trying the tasks without real data.
const (
	SampleDatasetDescription = `- Column 'Age': integer, has some missing values, distribution is slightly skewed.
- Column 'Income': float, has missing values and some very high values that could be outliers.
- Column 'IsEmployed': boolean.
- Column 'YearsAtCompany': integer, should be less than 'Age'.`

	AQIDatasetDescription = `Dataset: Air Quality Index (AQI)
Columns:
- date (YYYY-MM-DD): The date of the reading.
- city (string): The city where the reading was taken.
- aqi (integer): The Air Quality Index value.
- co_level (float): Carbon Monoxide level.
- no2_level (float): Nitrogen Dioxide level.`

	SampleProcessingSteps = `Imputed missing Age values with the median.
Removed Income outliers using the IQR rule.
Checked that YearsAtCompany is less than Age.`
)

var SampleTechniques = []string{
	"Missing Value Imputation (Mean/Median/KNN)",
	"Outlier Detection (IQR/Z-Score/Winsorization)",
	"Rule-Based Validation (Consistency/Skip Patterns)",
}

func samplePayload(name entity.TaskName) map[string]any {
	switch name {
	case entity.TaskPlanSuggestion:
		return map[string]any{"datasetDescription": SampleDatasetDescription}
	case entity.TaskExplanation:
		techniques := make([]any, len(SampleTechniques))
		for i, t := range SampleTechniques {
			techniques[i] = t
		}
		return map[string]any{"techniques": techniques}
	case entity.TaskNaturalLanguageQuery:
		return map[string]any{"datasetDescription": AQIDatasetDescription}
	case entity.TaskDocumentation:
		return map[string]any{
			"datasetDescription": SampleDatasetDescription,
			"processingSteps":    SampleProcessingSteps,
		}
	}
	return nil
}

// Samples fills omitted fields of a caller payload. Caller input always wins; nothing is
// substituted unless sample inputs are enabled, except the query dataset description which
// falls back to the configured default.
type Samples struct {
	enabled            bool
	defaultDescription string
	logger             output.LoggerPort
}

func NewSamples(enabled bool, defaultDatasetDescription string, logger output.LoggerPort) *Samples {
	if defaultDatasetDescription == "" {
		defaultDatasetDescription = AQIDatasetDescription
	}
	return &Samples{
		enabled:            enabled,
		defaultDescription: defaultDatasetDescription,
		logger:             logger,
	}
}

// Fill returns a copy of payload with substitutions applied. The input map is not modified.
func (s *Samples) Fill(name entity.TaskName, payload map[string]any) map[string]any {
	out := make(map[string]any, len(payload))
	for k, v := range payload {
		out[k] = v
	}

	if name == entity.TaskNaturalLanguageQuery && isMissing(out, "datasetDescription") {
		out["datasetDescription"] = s.defaultDescription
		s.logger.Warn("Using default dataset description", "task", name.String())
	}

	if !s.enabled {
		return out
	}
	for field, value := range samplePayload(name) {
		if isMissing(out, field) {
			out[field] = value
			s.logger.Warn("Substituting sample input", "task", name.String(), "field", field)
		}
	}
	return out
}

func isMissing(payload map[string]any, field string) bool {
	v, ok := payload[field]
	return !ok || v == nil
}
