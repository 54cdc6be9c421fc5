package task

import (
	"fmt"
	"slices"

	"dataset-assistant/internal/domain/entity"
	"dataset-assistant/internal/infrastructure/prompts"
	"dataset-assistant/internal/infrastructure/schema"
)

// BindFunc turns a validated input into template variables.
type BindFunc[In any] func(in In) (map[string]any, error)

// Definition describes one prompt task. It is immutable once built.
type Definition[In, Out any] struct {
	Name         entity.TaskName
	Description  string
	InputSchema  *schema.Schema
	OutputSchema *schema.Schema
	Template     *prompts.Template
	Bind         BindFunc[In]
}

// Define reflects the input and output schemas from In and Out and parses the template.
// Without a binder, every top-level template variable must be a declared input field.
func Define[In, Out any](name entity.TaskName, description, template string, bind BindFunc[In]) (Definition[In, Out], error) {
	var def Definition[In, Out]

	inSchema, err := schema.Reflect(new(In))
	if err != nil {
		return def, fmt.Errorf("task %s: input schema: %w", name, err)
	}
	outSchema, err := schema.Reflect(new(Out))
	if err != nil {
		return def, fmt.Errorf("task %s: output schema: %w", name, err)
	}
	tmpl, err := prompts.Parse(string(name), template)
	if err != nil {
		return def, fmt.Errorf("task %s: %w", name, err)
	}

	def = Definition[In, Out]{
		Name:         name,
		Description:  description,
		InputSchema:  inSchema,
		OutputSchema: outSchema,
		Template:     tmpl,
		Bind:         bind,
	}
	if err := def.check(); err != nil {
		return Definition[In, Out]{}, err
	}
	return def, nil
}

func MustDefine[In, Out any](name entity.TaskName, description, template string, bind BindFunc[In]) Definition[In, Out] {
	def, err := Define[In, Out](name, description, template, bind)
	if err != nil {
		panic(err)
	}
	return def
}

func (d Definition[In, Out]) check() error {
	if d.Name == "" {
		return fmt.Errorf("task definition has no name")
	}
	if d.InputSchema == nil || d.OutputSchema == nil {
		return fmt.Errorf("task %s: input and output schemas are required", d.Name)
	}
	if d.Template == nil {
		return fmt.Errorf("task %s: template is required", d.Name)
	}
	if d.Bind != nil {
		return nil
	}

	declared := d.InputSchema.Properties()
	for _, v := range d.Template.Variables() {
		if !slices.Contains(declared, v) {
			return fmt.Errorf("task %s: template variable %q is not an input field", d.Name, v)
		}
	}
	return nil
}
