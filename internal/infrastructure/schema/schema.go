package schema

import (
	"encoding/json"
	"fmt"
	"maps"
	"sort"
	"strings"

	invopop "github.com/invopop/jsonschema"
	"github.com/kaptinlin/jsonschema"
)

// Schema is a compiled JSON schema describing one task payload.
type Schema struct {
	raw      map[string]any
	compiled *jsonschema.Schema
}

// ViolationError lists why a value does not conform to a schema.
type ViolationError struct {
	Violations []string
}

func (e *ViolationError) Error() string {
	return "schema validation failed: " + strings.Join(e.Violations, "; ")
}

func newReflector() *invopop.Reflector {
	return &invopop.Reflector{
		Anonymous:                 true,
		DoNotReference:            true,
		ExpandedStruct:            true,
		AllowAdditionalProperties: false,
	}
}

// Reflect builds a schema from a Go struct. Fields without omitempty are required.
func Reflect(v any) (*Schema, error) {
	data, err := json.Marshal(newReflector().Reflect(v))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal reflected schema: %w", err)
	}
	return FromJSON(data)
}

func FromJSON(data []byte) (*Schema, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}

	compiled, err := jsonschema.NewCompiler().Compile(data)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	return &Schema{raw: raw, compiled: compiled}, nil
}

// Validate checks value against the schema. Go values are normalized through JSON first so
// typed slices and structs validate the same way decoded JSON does.
func (s *Schema) Validate(value any) error {
	normalized, err := toJSONValue(value)
	if err != nil {
		return &ViolationError{Violations: []string{err.Error()}}
	}

	result := s.compiled.Validate(normalized)
	if result.Valid {
		return nil
	}

	violations := make([]string, 0, len(result.Errors))
	for keyword, evalErr := range result.Errors {
		violations = append(violations, fmt.Sprintf("%s: %s", keyword, evalErr.Error()))
	}
	sort.Strings(violations)
	if len(violations) == 0 {
		violations = append(violations, "value does not match schema")
	}

	return &ViolationError{Violations: violations}
}

// Normalize drops undeclared top-level fields and fills declared defaults.
// The input map is not modified.
func (s *Schema) Normalize(payload map[string]any) map[string]any {
	props := s.properties()
	out := make(map[string]any, len(props))

	for name, def := range props {
		if v, ok := payload[name]; ok && v != nil {
			out[name] = v
			continue
		}
		if propDef, ok := def.(map[string]any); ok {
			if dflt, ok := propDef["default"]; ok {
				out[name] = dflt
			}
		}
	}

	return out
}

// PropertyType returns the declared JSON type of a top-level property, or "".
func (s *Schema) PropertyType(name string) string {
	def, ok := s.properties()[name].(map[string]any)
	if !ok {
		return ""
	}
	t, _ := def["type"].(string)
	return t
}

// Properties returns the sorted names of the top-level properties.
func (s *Schema) Properties() []string {
	props := s.properties()
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Map returns a copy of the schema document suitable for model backends.
func (s *Schema) Map() map[string]any {
	out := maps.Clone(s.raw)
	delete(out, "$schema")
	delete(out, "$id")
	return out
}

func (s *Schema) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Map())
}

func (s *Schema) String() string {
	data, err := s.MarshalJSON()
	if err != nil {
		return ""
	}
	return string(data)
}

func (s *Schema) properties() map[string]any {
	props, _ := s.raw["properties"].(map[string]any)
	return props
}

func toJSONValue(value any) (any, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("value is not JSON encodable: %w", err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("value is not JSON encodable: %w", err)
	}
	return out, nil
}
