package main

import (
	"fmt"
	"os"
	"time"

	"dataset-assistant/internal/config"
	"dataset-assistant/internal/infrastructure/env"

	"github.com/spf13/cobra"
)

var (
	configPath string
	timeout    time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "assistant",
	Short: "Dataset cleaning assistant backed by a generative model",
	Long: `Runs the dataset assistant prompt tasks: cleaning plan suggestion,
technique explanation, natural language queries and documentation.

Configuration is read from a YAML file and ASSISTANT_* environment
variables; .env and .env.<APP_ENV> are loaded first.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadEnv,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"Config file (default: $ASSISTANT_CONFIG, config.<APP_ENV>.yaml or config.yaml)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Timeout for a single task run")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(tasksCmd)
	rootCmd.AddCommand(runCmd)
}

// loadEnv reads the .env files before any command touches configuration.
func loadEnv(cmd *cobra.Command, args []string) error {
	envService := env.NewEnvService()
	if configPath == "" {
		configPath = config.ResolvePath(envService)
	}
	return nil
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
