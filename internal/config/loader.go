package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"dataset-assistant/internal/application/port/output"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const envPrefix = "ASSISTANT"

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Logger LoggerConfig `mapstructure:"logger"`
	Model  ModelConfig  `mapstructure:"model"`
	Tasks  TasksConfig  `mapstructure:"tasks"`
}

type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port" validate:"min=1,max=65535"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	AccessLog    bool          `mapstructure:"access_log"`
}

func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type LoggerConfig struct {
	Level            string   `mapstructure:"level" validate:"oneof=debug info warn error"`
	Encoding         string   `mapstructure:"encoding" validate:"oneof=json console"`
	OutputPaths      []string `mapstructure:"output_paths" validate:"min=1"`
	ErrorOutputPaths []string `mapstructure:"error_output_paths" validate:"min=1"`
}

type ModelConfig struct {
	Provider    string        `mapstructure:"provider" validate:"oneof=gemini openrouter ollama"`
	Name        string        `mapstructure:"name" validate:"required"`
	APIKey      string        `mapstructure:"api_key" validate:"required_unless=Provider ollama"`
	BaseURL     string        `mapstructure:"base_url" validate:"omitempty,url"`
	Temperature float32       `mapstructure:"temperature" validate:"gte=0,lte=2"`
	Timeout     time.Duration `mapstructure:"timeout"`
	LogRequests bool          `mapstructure:"log_requests"`
}

type TasksConfig struct {
	SampleInputs              bool   `mapstructure:"sample_inputs"`
	DefaultDatasetDescription string `mapstructure:"default_dataset_description"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 2*time.Minute)
	v.SetDefault("server.idle_timeout", 2*time.Minute)
	v.SetDefault("server.access_log", true)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.encoding", "json")
	v.SetDefault("logger.output_paths", []string{"stdout"})
	v.SetDefault("logger.error_output_paths", []string{"stderr"})

	v.SetDefault("model.provider", "gemini")
	v.SetDefault("model.name", "gemini-2.0-flash")
	v.SetDefault("model.api_key", "")
	v.SetDefault("model.base_url", "")
	v.SetDefault("model.temperature", 0.2)
	v.SetDefault("model.timeout", 0)
	v.SetDefault("model.log_requests", false)

	v.SetDefault("tasks.sample_inputs", false)
	v.SetDefault("tasks.default_dataset_description", "")
}

const defaultConfigFile = "config.yaml"

// ResolvePath picks the config file: ASSISTANT_CONFIG when set, then config.<APP_ENV>.yaml
// when it exists, then config.yaml.
func ResolvePath(env output.ConfigPort) string {
	if path := env.Get("ASSISTANT_CONFIG"); path != "" {
		return path
	}
	if appEnv := env.AppEnv(); appEnv != "" {
		candidate := fmt.Sprintf("config.%s.yaml", appEnv)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return defaultConfigFile
}

// Load reads the optional YAML file at path, then environment variables prefixed with
// ASSISTANT_ (ASSISTANT_MODEL_API_KEY overrides model.api_key).
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
