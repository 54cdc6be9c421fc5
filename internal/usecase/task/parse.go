package task

import (
	"fmt"
	"strings"
)

// extractJSON returns the outermost JSON object in a model answer, ignoring code fences
// and prose around it.
func extractJSON(text string) ([]byte, error) {
	text = strings.TrimSpace(text)

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON object found in model output")
	}

	return []byte(text[start : end+1]), nil
}
