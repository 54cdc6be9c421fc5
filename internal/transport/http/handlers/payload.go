package handlers

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// readPayload decodes a JSON or form body into an untyped payload. Form fields declared as
// arrays in the input schema keep every submitted value.
func readPayload(c *fiber.Ctx, inputSchema any) (map[string]any, error) {
	if c.Is("json") || len(c.Body()) == 0 {
		payload := map[string]any{}
		if len(c.Body()) == 0 {
			return payload, nil
		}
		if err := json.Unmarshal(c.Body(), &payload); err != nil {
			return nil, fmt.Errorf("body is not a JSON object: %w", err)
		}
		return payload, nil
	}

	values, err := formValues(c)
	if err != nil {
		return nil, err
	}

	arrays := arrayFields(inputSchema)
	payload := make(map[string]any, len(values))
	for key, vals := range values {
		if arrays[key] {
			items := make([]any, len(vals))
			for i, v := range vals {
				items[i] = v
			}
			payload[key] = items
			continue
		}
		payload[key] = vals[0]
	}
	return payload, nil
}

func formValues(c *fiber.Ctx) (map[string][]string, error) {
	if strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm) {
		form, err := c.MultipartForm()
		if err != nil {
			return nil, fmt.Errorf("failed to parse multipart form: %w", err)
		}
		return form.Value, nil
	}

	values := make(map[string][]string)
	c.Request().PostArgs().VisitAll(func(key, value []byte) {
		k := string(key)
		values[k] = append(values[k], string(value))
	})
	return values, nil
}

func arrayFields(inputSchema any) map[string]bool {
	out := make(map[string]bool)
	doc, ok := inputSchema.(map[string]any)
	if !ok {
		return out
	}
	props, _ := doc["properties"].(map[string]any)
	for name, def := range props {
		if prop, ok := def.(map[string]any); ok && prop["type"] == "array" {
			out[name] = true
		}
	}
	return out
}
