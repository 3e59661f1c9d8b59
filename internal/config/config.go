package config

import (
	"fmt"
	"os"

	"go.uber.org/zap/zapcore"
)

// Config holds the application configuration.
type Config struct {
	// GeminiAPIKey enables the LLM advisor. Empty means rule-based commentary.
	GeminiAPIKey string
	Model        string
	ScriptDir    string
	LogLevel     zapcore.Level
	LogFile      string
}

// LoadConfig loads the configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		Model:        getEnv("GAME_MODEL", "gemini-2.5-flash"),
		ScriptDir:    getEnv("GAME_SCRIPTS_DIR", "scenarios"),
		LogLevel:     zapcore.InfoLevel,
		LogFile:      os.Getenv("GAME_LOG_FILE"),
	}

	if lvl := os.Getenv("GAME_LOG_LEVEL"); lvl != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(lvl)); err != nil {
			return nil, fmt.Errorf("invalid GAME_LOG_LEVEL %q: %w", lvl, err)
		}
	}

	return cfg, nil
}

// RequireGemini fails when no API key is configured.
func (c *Config) RequireGemini() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is not set")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
