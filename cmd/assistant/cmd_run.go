package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"dataset-assistant/internal/di"
	"dataset-assistant/internal/domain/entity"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

var (
	runInput     string
	runInputFile string
	runRender    bool
)

var errTaskFailed = errors.New("task failed")

var runCmd = &cobra.Command{
	Use:   "run [task]",
	Short: "Run one task and print the result envelope",
	Long: `Runs a task with a JSON payload taken from --input, --input-file or stdin.

Examples:
  assistant run explanation --input '{"techniques":["IQR","KNN"]}'
  assistant run natural_language_query --input '{"query":"Which city has the highest AQI?"}'
  cat steps.json | assistant run documentation --render`,
	Args: cobra.ExactArgs(1),
	RunE: runTask,
}

func init() {
	runCmd.Flags().StringVarP(&runInput, "input", "i", "", "JSON payload")
	runCmd.Flags().StringVarP(&runInputFile, "input-file", "f", "", "File with the JSON payload")
	runCmd.Flags().BoolVar(&runRender, "render", false, "Render the result as Markdown in the terminal")
}

func runTask(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	// Keep stdout for the result.
	cfg.Logger.OutputPaths = []string{"stderr"}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	container, err := di.NewContainer(ctx, cfg)
	if err != nil {
		return err
	}
	defer container.Close()

	name := entity.TaskName(args[0])
	task, ok := container.Registry.Get(name)
	if !ok {
		return fmt.Errorf("unknown task %q", name)
	}

	payload, err := readPayload(runInput, runInputFile, cmd.InOrStdin())
	if err != nil {
		return err
	}

	result := task.InvokePayload(ctx, container.Samples.Fill(name, payload))

	out, err := formatResult(result, runRender)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)

	if !result.Succeeded() {
		return errTaskFailed
	}
	return nil
}

// readPayload takes the payload from the flag, then the file, then stdin. An empty source
// yields an empty payload.
func readPayload(input, inputFile string, stdin io.Reader) (map[string]any, error) {
	var data []byte
	switch {
	case input != "":
		data = []byte(input)
	case inputFile != "":
		b, err := os.ReadFile(inputFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read input file: %w", err)
		}
		data = b
	case stdin != nil && !isTerminal(stdin):
		b, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		data = b
	}

	payload := map[string]any{}
	if strings.TrimSpace(string(data)) == "" {
		return payload, nil
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("payload is not a JSON object: %w", err)
	}
	return payload, nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

func formatResult(result entity.Result[any], render bool) (string, error) {
	if render {
		if success, ok := result.(entity.Success[any]); ok {
			if md, ok := markdownOf(success.Data); ok {
				return renderMarkdown(md)
			}
		}
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}
	return string(data), nil
}

func markdownOf(data any) (string, bool) {
	switch v := data.(type) {
	case entity.Explanation:
		return v.Explanation, true
	case entity.Documentation:
		return v.Documentation, true
	case entity.QueryResult:
		return v.Result, true
	case entity.CleaningPlan:
		var sb strings.Builder
		sb.WriteString("| Column | Technique | Reasoning |\n|---|---|---|\n")
		for _, step := range v.Plan {
			fmt.Fprintf(&sb, "| %s | %s | %s |\n", step.Column, step.Technique, step.Reasoning)
		}
		return sb.String(), true
	}
	return "", false
}

func renderMarkdown(md string) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := renderer.Render(md)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}
