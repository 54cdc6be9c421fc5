package main

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"dataset-assistant/internal/application/port/output"
	"dataset-assistant/internal/application/service"
	"dataset-assistant/internal/infrastructure/logger"
	"dataset-assistant/internal/usecase/assistant"

	"github.com/spf13/cobra"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List the registered tasks and their input fields",
	Args:  cobra.NoArgs,
	RunE:  listTasks,
}

// listTasks needs no model backend, so it registers the definitions against a nop model.
func listTasks(cmd *cobra.Command, args []string) error {
	svc, err := assistant.New(nopModel{}, logger.NewNop(), nil)
	if err != nil {
		return err
	}
	registry := service.NewTaskRegistry()
	if err := svc.Register(registry); err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tINPUT\tDESCRIPTION")
	for _, info := range registry.List() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", info.Name, strings.Join(inputFields(info.InputSchema), ","), info.Description)
	}
	return w.Flush()
}

func inputFields(inputSchema any) []string {
	doc, _ := inputSchema.(map[string]any)
	props, _ := doc["properties"].(map[string]any)
	required := map[string]bool{}
	if list, ok := doc["required"].([]any); ok {
		for _, r := range list {
			if name, ok := r.(string); ok {
				required[name] = true
			}
		}
	}

	fields := make([]string, 0, len(props))
	for name := range props {
		if !required[name] {
			name += "?"
		}
		fields = append(fields, name)
	}
	sort.Strings(fields)
	return fields
}

type nopModel struct{}

func (nopModel) Generate(context.Context, output.GenerateRequest) (*output.GenerateResponse, error) {
	return nil, fmt.Errorf("no model backend configured")
}
