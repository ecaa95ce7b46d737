// Package config loads the extension configuration from the environment.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all tunables for the ghtodo extensions.
type Config struct {
	// AnthropicAPIKey enables AI-drafted summaries. Empty is valid:
	// every generator falls back to deterministic text.
	AnthropicAPIKey string

	// Model is the completion model used for summaries.
	Model string

	// MaxTokens bounds every completion call.
	MaxTokens int

	// Label is the GitHub label identifying todo issues.
	Label string
}

// Load reads configuration from a .env file (if present) and the
// environment. There are no required fields: missing AI credentials
// degrade to fallback text, never to an error.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		Model:           getEnv("GHTODO_MODEL", "claude-sonnet-4-5"),
		MaxTokens:       getEnvInt("GHTODO_MAX_TOKENS", 1024),
		Label:           getEnv("GHTODO_LABEL", "todo"),
	}
}

// getEnv gets an environment variable with a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an environment variable as int with a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
