package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"shopassist/internal/logger"
)

// Env holds process configuration read from the environment.
// Provider credentials are read once at startup; absence of a key is the
// permanent signal that routes the matching features to their fallback path.
type Env struct {
	GeminiAPIKey string `envconfig:"GEMINI_API_KEY"`
	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY"`

	RedisURL    string `envconfig:"REDIS_URL"`
	ListenAddr  string `envconfig:"LISTEN_ADDR" default:":8080"`
	ConfigPath  string `envconfig:"CONFIG_PATH" default:"config.yaml"`
	CatalogPath string `envconfig:"CATALOG_PATH"`

	Log logger.Config `envconfig:""`
}

// LoadEnv reads configuration from environment variables.
func LoadEnv() (*Env, error) {
	var env Env
	if err := envconfig.Process("", &env); err != nil {
		return nil, fmt.Errorf("error processing environment configuration: %w", err)
	}
	return &env, nil
}
