package prompts

import (
	"fmt"
)

var outputInstructions = MustParse("output_instructions", OutputInstructionsPrompt)

// GenerateStructuredPrompt appends JSON output instructions to a rendered prompt. Backends
// without native schema enforcement use it so the schema still reaches the model.
func GenerateStructuredPrompt(prompt string, outputSchema fmt.Stringer) (string, error) {
	if outputSchema == nil {
		return prompt, nil
	}

	instructions, err := outputInstructions.Render(map[string]any{
		"schema": outputSchema.String(),
	})
	if err != nil {
		return "", err
	}

	return prompt + instructions, nil
}
