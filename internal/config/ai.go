package config

import (
	"os"
	"strconv"
	"time"
)

// AIConfig holds the upstream LLM settings used by the analyze endpoint
type AIConfig struct {
	APIKey    string `json:"-" yaml:"-"` // Never serialize
	BaseURL   string `json:"baseUrl" yaml:"base_url"`
	Model     string `json:"model" yaml:"model"`
	MaxTokens int    `json:"maxTokens" yaml:"max_tokens"`
	TimeoutMS int    `json:"timeoutMs" yaml:"timeout_ms"`
}

// DefaultAIConfig returns the default AI configuration
func DefaultAIConfig() *AIConfig {
	return &AIConfig{
		APIKey:    os.Getenv("OPENAI_API_KEY"),
		BaseURL:   getEnvOrDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		Model:     getEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		MaxTokens: 1024,
		TimeoutMS: 20000,
	}
}

// IsEnabled returns true if the AI API is configured
func (c *AIConfig) IsEnabled() bool {
	return c.APIKey != ""
}

// Timeout returns the upstream call budget
func (c *AIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}
