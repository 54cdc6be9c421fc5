package prompts

import (
	_ "embed"
)

//go:embed plan_suggestion.txt
var PlanSuggestionPrompt string

//go:embed explanation.txt
var ExplanationPrompt string

//go:embed natural_language_query.txt
var NaturalLanguageQueryPrompt string

//go:embed documentation.txt
var DocumentationPrompt string

//go:embed output_instructions.txt
var OutputInstructionsPrompt string
