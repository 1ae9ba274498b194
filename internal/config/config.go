// Package config loads service configuration from defaults, an optional YAML
// file and the environment, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is looked up in the working directory when no path is given
const DefaultConfigFile = "killtest.yaml"

// Config is the complete service configuration
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Mongo      MongoConfig      `yaml:"mongo"`
	Redis      RedisConfig      `yaml:"redis"`
	AI         AIConfig         `yaml:"ai"`
	Enrichment EnrichmentConfig `yaml:"enrichment"`
	Auth       AuthConfig       `yaml:"auth"`
	Log        LogConfig        `yaml:"log"`
}

type ServerConfig struct {
	Port           string   `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type MongoConfig struct {
	// URI empty disables the result archive
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

type RedisConfig struct {
	// URI empty keeps sessions in process memory
	URI string        `yaml:"uri"`
	TTL time.Duration `yaml:"ttl"`
}

// EnrichmentConfig points the session service at an analysis endpoint.
// An empty URL means the in-process analyzer is called directly.
type EnrichmentConfig struct {
	URL       string `yaml:"url"`
	TimeoutMS int    `yaml:"timeout_ms"`
}

func (e EnrichmentConfig) Timeout() time.Duration {
	return time.Duration(e.TimeoutMS) * time.Millisecond
}

type AuthConfig struct {
	Secret string        `yaml:"-"`
	TTL    time.Duration `yaml:"ttl"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

// Default returns a Config with local development defaults
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8080",
			AllowedOrigins: []string{"*"},
		},
		Mongo: MongoConfig{
			Database: "killtest",
		},
		Redis: RedisConfig{
			TTL: 24 * time.Hour,
		},
		AI: *DefaultAIConfig(),
		Enrichment: EnrichmentConfig{
			TimeoutMS: 8000,
		},
		Auth: AuthConfig{
			Secret: "dev-secret-change-me",
			TTL:    24 * time.Hour,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadFromFile overlays a YAML file on top of the defaults
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Load builds the effective configuration. A missing file at the default
// location is not an error; a missing file at an explicit path is.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}
	fromFile, err := LoadFromFile(path)
	switch {
	case err == nil:
		cfg = fromFile
	case explicit || !errors.Is(err, os.ErrNotExist):
		return nil, err
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnvOrDefault("PORT", c.Server.Port)
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		c.Server.AllowedOrigins = splitList(v)
	}
	c.Mongo.URI = getEnvOrDefault("MONGO_URI", c.Mongo.URI)
	c.Mongo.Database = getEnvOrDefault("MONGO_DATABASE", c.Mongo.Database)
	c.Redis.URI = getEnvOrDefault("REDIS_URI", c.Redis.URI)

	c.AI.APIKey = getEnvOrDefault("OPENAI_API_KEY", c.AI.APIKey)
	c.AI.BaseURL = getEnvOrDefault("OPENAI_BASE_URL", c.AI.BaseURL)
	c.AI.Model = getEnvOrDefault("OPENAI_MODEL", c.AI.Model)

	c.Enrichment.URL = getEnvOrDefault("ANALYZE_URL", c.Enrichment.URL)
	c.Enrichment.TimeoutMS = getEnvInt("ENRICHMENT_TIMEOUT_MS", c.Enrichment.TimeoutMS)

	c.Auth.Secret = getEnvOrDefault("SESSION_SECRET", c.Auth.Secret)
	if v := os.Getenv("SESSION_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Auth.TTL = d
		}
	}
	c.Log.Level = getEnvOrDefault("LOG_LEVEL", c.Log.Level)
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}
	if c.Auth.Secret == "" {
		return fmt.Errorf("auth secret is required")
	}
	if c.Auth.TTL <= 0 {
		return fmt.Errorf("auth.ttl must be positive")
	}
	if c.Enrichment.TimeoutMS <= 0 {
		return fmt.Errorf("enrichment.timeout_ms must be positive")
	}
	if c.AI.Model == "" {
		return fmt.Errorf("ai.model is required")
	}
	if c.AI.MaxTokens <= 0 {
		return fmt.Errorf("ai.max_tokens must be positive")
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// RedisAddr strips the scheme prefix go-redis does not accept in Addr
func (c *Config) RedisAddr() string {
	return strings.TrimPrefix(c.Redis.URI, "redis://")
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
