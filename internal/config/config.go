// Package config provides configuration loading and validation for the
// interview service: environment-backed service settings plus a YAML
// document describing per-round question budgets.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds the service settings resolved from the environment.
type Config struct {
	// APIKey authenticates against the configured generation provider.
	APIKey string `validate:"required"`

	// Provider selects the generation backend ("gemini" or "openai").
	Provider string `validate:"oneof=gemini openai"`

	// DatabaseURL is the PostgreSQL connection string. Empty disables
	// persistence; feedback is then returned but not saved.
	DatabaseURL string

	// ListenAddr is the HTTP bind address for the serve command.
	ListenAddr string `validate:"required"`

	// ProblemBank optionally points at a JSON problem catalogue on disk;
	// empty uses the embedded catalogue.
	ProblemBank string

	// BudgetsFile optionally points at a YAML round-budget document on
	// disk; empty uses the embedded defaults.
	BudgetsFile string

	// SessionTTL bounds how long an idle session survives before the
	// store janitor evicts it.
	SessionTTL time.Duration `validate:"gt=0"`

	// Verbose enables the transcript printer on the serve command.
	Verbose bool
}

var validate = validator.New()

// FromEnv builds a Config from environment variables, applying defaults
// for everything except the API key.
func FromEnv() (*Config, error) {
	cfg := &Config{
		APIKey:      firstEnv("GEMINI_API_KEY", "OPENAI_API_KEY"),
		Provider:    envOr("LLM_PROVIDER", "gemini"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		ListenAddr:  envOr("LISTEN_ADDR", ":8000"),
		ProblemBank: os.Getenv("PROBLEM_BANK"),
		BudgetsFile: os.Getenv("BUDGETS_FILE"),
		SessionTTL:  envDuration("SESSION_TTL", 2*time.Hour),
		Verbose:     envBool("VERBOSE", false),
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
