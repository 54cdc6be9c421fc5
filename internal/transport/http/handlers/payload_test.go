package handlers

import "testing"

func TestArrayFields(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"techniques": map[string]any{"type": "array"},
			"query":      map[string]any{"type": "string"},
		},
	}

	got := arrayFields(schema)

	if !got["techniques"] {
		t.Error("expected techniques to be an array field")
	}
	if got["query"] {
		t.Error("expected query not to be an array field")
	}
	if len(arrayFields(nil)) != 0 {
		t.Error("expected no array fields for a nil schema")
	}
}
