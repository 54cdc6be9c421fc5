package entity

type TaskName string

const (
	TaskPlanSuggestion       TaskName = "plan_suggestion"
	TaskExplanation          TaskName = "explanation"
	TaskNaturalLanguageQuery TaskName = "natural_language_query"
	TaskDocumentation        TaskName = "documentation"
)

func (n TaskName) String() string {
	return string(n)
}

type PlanSuggestionInput struct {
	DatasetDescription string `json:"datasetDescription" jsonschema_description:"A description of the dataset, including column names, data types, and a sample of the data."`
}

type CleaningStep struct {
	Column    string `json:"column" jsonschema_description:"The column to be cleaned."`
	Technique string `json:"technique" jsonschema_description:"The proposed cleaning technique (e.g. 'Median Imputation' or 'IQR Outlier Removal')."`
	Reasoning string `json:"reasoning" jsonschema_description:"The justification for choosing this technique for this column."`
}

type CleaningPlan struct {
	Plan []CleaningStep `json:"plan" jsonschema_description:"An array of proposed cleaning steps."`
}

type ExplanationInput struct {
	Techniques []string `json:"techniques" jsonschema_description:"A list of data cleaning techniques to explain."`
}

type Explanation struct {
	Explanation string `json:"explanation" jsonschema_description:"The generated explanation in Markdown format."`
}

type QueryInput struct {
	Query              string `json:"query" jsonschema_description:"The natural language query to execute against the dataset."`
	DatasetDescription string `json:"datasetDescription" jsonschema_description:"A description of the dataset, including its columns and purpose."`
}

type QueryResult struct {
	Result string `json:"result" jsonschema_description:"The result of the query, formatted as a string."`
}

type DocumentFormat string

const (
	FormatMarkdown DocumentFormat = "Markdown"
	FormatPDF      DocumentFormat = "PDF"
)

type DocumentationInput struct {
	DatasetDescription string         `json:"datasetDescription" jsonschema_description:"The description of the dataset including its purpose and origin."`
	ProcessingSteps    string         `json:"processingSteps" jsonschema_description:"An ordered, newline separated list of processing steps applied to the dataset."`
	OutputFormat       DocumentFormat `json:"outputFormat,omitempty" jsonschema:"enum=Markdown,enum=PDF,default=Markdown" jsonschema_description:"The desired output format for the documentation."`
}

type Documentation struct {
	Documentation string `json:"documentation" jsonschema_description:"The generated documentation in the specified format."`
}
