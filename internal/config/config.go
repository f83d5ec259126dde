package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the quiz backend.
type Config struct {
	Port         string `env:"PORT" envDefault:"8080"`
	DatabasePath string `env:"DB_PATH" envDefault:"quiz_questions.db"`
	HistoryDir   string `env:"HISTORY_DIR" envDefault:"user_history"`

	Generator Generator
}

// Generator selects and configures the LLM backend used for question
// generation.
type Generator struct {
	// Provider is one of "anthropic", "openai", or "mock".
	Provider string `env:"LLM_PROVIDER" envDefault:"anthropic"`

	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	AnthropicModel  string `env:"ANTHROPIC_MODEL" envDefault:"claude-sonnet-4-5-20250929"`

	OpenAIAPIKey string `env:"OPENAI_API_KEY"`
	OpenAIModel  string `env:"OPENAI_MODEL" envDefault:"gpt-4o"`
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first if present; a missing file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
