package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_Scalars(t *testing.T) {
	tmpl := MustParse("t", "Dataset: {{{datasetDescription}}}\nQuery: {{ query }}")

	out, err := tmpl.Render(map[string]any{
		"datasetDescription": "AQI <daily>",
		"query":              "max aqi & city",
	})
	require.NoError(t, err)
	assert.Equal(t, "Dataset: AQI <daily>\nQuery: max aqi & city", out)
}

func TestRender_NonStringScalars(t *testing.T) {
	tmpl := MustParse("t", "{{a}}|{{b}}|{{c}}|{{d}}")

	out, err := tmpl.Render(map[string]any{"a": 3, "b": 1.5, "c": true, "d": uint8(7)})
	require.NoError(t, err)
	assert.Equal(t, "3|1.5|true|7", out)
}

func TestRender_EachWithIndex(t *testing.T) {
	tmpl := MustParse("t", "Steps:\n{{#each steps}}\n  {{@index}}. {{this}}\n{{/each}}\nDone.")

	out, err := tmpl.Render(map[string]any{"steps": []string{"drop nulls", "dedupe"}})
	require.NoError(t, err)
	assert.Equal(t, "Steps:\n  0. drop nulls\n  1. dedupe\nDone.", out)
}

func TestRender_EachEmptyList(t *testing.T) {
	tmpl := MustParse("t", "A\n{{#each items}}\n- {{this}}\n{{/each}}\nB")

	out, err := tmpl.Render(map[string]any{"items": []any{}})
	require.NoError(t, err)
	assert.Equal(t, "A\nB", out)
}

func TestRender_InlineEach(t *testing.T) {
	tmpl := MustParse("t", "[{{#each xs}}{{@index}}={{this}};{{/each}}]")

	out, err := tmpl.Render(map[string]any{"xs": []any{"a", "b", "c"}})
	require.NoError(t, err)
	assert.Equal(t, "[0=a;1=b;2=c;]", out)
}

func TestRender_NestedEachAndFields(t *testing.T) {
	tmpl := MustParse("t", "{{#each plan}}{{column}}({{prefix}}):{{#each tags}}{{@index}}{{this}}{{/each}} {{this.technique}}\n{{/each}}")

	out, err := tmpl.Render(map[string]any{
		"prefix": "p",
		"plan": []any{
			map[string]any{"column": "Age", "technique": "Median", "tags": []string{"x", "y"}},
			map[string]any{"column": "Income", "technique": "IQR", "tags": []string{}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Age(p):0x1y Median\nIncome(p): IQR\n", out)
}

func TestRender_Comments(t *testing.T) {
	tmpl := MustParse("t", "a\n{{! note for authors }}\nb")

	out, err := tmpl.Render(nil)
	require.NoError(t, err)
	assert.Equal(t, "a\nb", out)
}

func TestRender_Errors(t *testing.T) {
	tests := []struct {
		name     string
		template string
		vars     map[string]any
		contains string
	}{
		{"missing variable", "Hello {{name}}", map[string]any{}, "missing variable"},
		{"nil value", "Hello {{name}}", map[string]any{"name": nil}, "not a scalar"},
		{"list as scalar", "{{items}}", map[string]any{"items": []string{"a"}}, "not a scalar"},
		{"each over scalar", "{{#each items}}x{{/each}}", map[string]any{"items": "a"}, "not a list"},
		{"each over missing", "{{#each items}}x{{/each}}", map[string]any{}, "missing variable"},
		{"this outside each", "{{this}}", map[string]any{}, "outside #each"},
		{"index outside each", "{{@index}}", map[string]any{}, "outside #each"},
		{"missing field in element", "{{#each xs}}{{this.nope}}{{/each}}", map[string]any{"xs": []any{map[string]any{}}}, "missing variable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := Parse("t", tt.template)
			require.NoError(t, err)

			_, err = tmpl.Render(tt.vars)
			require.Error(t, err)

			var renderErr *RenderError
			require.ErrorAs(t, err, &renderErr)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		template string
		contains string
	}{
		{"unclosed tag", "Hello {{name", "unclosed tag"},
		{"unclosed block", "{{#each xs}}x", "unclosed {{#each}}"},
		{"stray close", "x{{/each}}", "unexpected {{/each}}"},
		{"unknown helper", "{{#if x}}y{{/if}}", "unknown block helper"},
		{"empty tag", "{{ }}", "empty tag"},
		{"invalid name", "{{foo bar}}", "invalid variable"},
		{"each without list", "{{#each}}x{{/each}}", "#each needs a list"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("t", tt.template)
			require.Error(t, err)

			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestParse_ReportsLine(t *testing.T) {
	_, err := Parse("t", "line one\nline two {{#bogus}}")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestRender_Deterministic(t *testing.T) {
	tmpl := MustParse("t", ExplanationPrompt)
	vars := map[string]any{"techniques": []string{"IQR", "KNN"}}

	first, err := tmpl.Render(vars)
	require.NoError(t, err)
	second, err := tmpl.Render(vars)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestVariables(t *testing.T) {
	tmpl := MustParse("t", "{{a}} {{#each list}}{{this}} {{inner}}{{/each}} {{{b.c}}}")

	assert.Equal(t, []string{"a", "b", "list"}, tmpl.Variables())
}

func TestEmbeddedPrompts(t *testing.T) {
	tests := []struct {
		name string
		text string
		vars map[string]any
		want []string
	}{
		{
			name: "plan suggestion",
			text: PlanSuggestionPrompt,
			vars: map[string]any{"datasetDescription": "Column 'Age': integer"},
			want: []string{"Dataset Description:\nColumn 'Age': integer\n"},
		},
		{
			name: "explanation",
			text: ExplanationPrompt,
			vars: map[string]any{"techniques": []string{"IQR", "Z-Score"}},
			want: []string{"Techniques to explain:\n- IQR\n- Z-Score\n\n"},
		},
		{
			name: "query",
			text: NaturalLanguageQueryPrompt,
			vars: map[string]any{"datasetDescription": "AQI", "query": "worst city"},
			want: []string{"Dataset Description: AQI", "Query: worst city"},
		},
		{
			name: "documentation",
			text: DocumentationPrompt,
			vars: map[string]any{
				"datasetDescription": "AQI",
				"processingSteps":    []string{"load", "clean"},
				"outputFormat":       "Markdown",
			},
			want: []string{"Processing Steps:\n  0. load\n  1. clean\n", "in Markdown format"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := MustParse(tt.name, tt.text).Render(tt.vars)
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
			assert.NotContains(t, out, "{{")
		})
	}
}

type stringer string

func (s stringer) String() string { return string(s) }

func TestGenerateStructuredPrompt(t *testing.T) {
	out, err := GenerateStructuredPrompt("Base prompt.", stringer(`{"type":"object"}`))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "Base prompt.\n\nYou MUST respond with a valid JSON object"))
	assert.Contains(t, out, `{"type":"object"}`)
}
