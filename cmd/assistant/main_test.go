package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dataset-assistant/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadPayload_Sources(t *testing.T) {
	payload, err := readPayload(`{"query":"q"}`, "", nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"query": "q"}, payload)

	path := filepath.Join(t.TempDir(), "payload.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"techniques":["IQR"]}`), 0o600))
	payload, err = readPayload("", path, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{"IQR"}, payload["techniques"])

	payload, err = readPayload("", "", strings.NewReader(`{"datasetDescription":"d"}`))
	require.NoError(t, err)
	assert.Equal(t, "d", payload["datasetDescription"])
}

func TestReadPayload_EmptyAndInvalid(t *testing.T) {
	payload, err := readPayload("", "", strings.NewReader("  \n"))
	require.NoError(t, err)
	assert.Empty(t, payload)

	_, err = readPayload("[1,2]", "", nil)
	assert.Error(t, err)

	_, err = readPayload("", filepath.Join(t.TempDir(), "missing.json"), nil)
	assert.Error(t, err)
}

func TestFormatResult_Envelope(t *testing.T) {
	out, err := formatResult(entity.Fail[any](entity.MessageInvalidInput, nil), true)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"error":"Invalid input."}`, out)

	out, err = formatResult(entity.Succeed[any](entity.QueryResult{Result: "7"}), false)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"data":{"result":"7"}}`, out)
}

func TestMarkdownOf_Plan(t *testing.T) {
	md, ok := markdownOf(entity.CleaningPlan{Plan: []entity.CleaningStep{
		{Column: "Age", Technique: "Median Imputation", Reasoning: "skewed"},
	}})

	require.True(t, ok)
	assert.Contains(t, md, "| Age | Median Imputation | skewed |")

	_, ok = markdownOf(map[string]any{})
	assert.False(t, ok)
}

func TestInputFields(t *testing.T) {
	fields := inputFields(map[string]any{
		"properties": map[string]any{
			"outputFormat":       map[string]any{},
			"datasetDescription": map[string]any{},
		},
		"required": []any{"datasetDescription"},
	})

	assert.Equal(t, []string{"datasetDescription", "outputFormat?"}, fields)
}

func TestLoadEnv_ResolvesConfigPath(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(wd)
		configPath = ""
	})
	t.Setenv("ASSISTANT_CONFIG", "")
	t.Setenv("APP_ENV", "staging")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.staging.yaml"), []byte("logger:\n  level: warn\n"), 0o600))

	configPath = ""
	require.NoError(t, loadEnv(rootCmd, nil))

	assert.Equal(t, "config.staging.yaml", configPath)
}

func TestLoadEnv_KeepsExplicitFlag(t *testing.T) {
	t.Cleanup(func() { configPath = "" })

	configPath = "explicit.yaml"
	require.NoError(t, loadEnv(rootCmd, nil))

	assert.Equal(t, "explicit.yaml", configPath)
}
