package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "CORS_ALLOWED_ORIGINS", "MONGO_URI", "MONGO_DATABASE", "REDIS_URI",
		"OPENAI_API_KEY", "OPENAI_BASE_URL", "OPENAI_MODEL", "ANALYZE_URL",
		"ENRICHMENT_TIMEOUT_MS", "SESSION_SECRET", "SESSION_TTL", "LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}
}

func TestDefault(t *testing.T) {
	clearEnv(t)
	cfg := Default()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "gpt-4o-mini", cfg.AI.Model)
	assert.Equal(t, 1024, cfg.AI.MaxTokens)
	assert.Equal(t, 8*time.Second, cfg.Enrichment.Timeout())
	assert.False(t, cfg.AI.IsEnabled())
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"valid default config", func(c *Config) {}, false},
		{"missing port", func(c *Config) { c.Server.Port = "" }, true},
		{"missing secret", func(c *Config) { c.Auth.Secret = "" }, true},
		{"zero enrichment timeout", func(c *Config) { c.Enrichment.TimeoutMS = 0 }, true},
		{"zero max tokens", func(c *Config) { c.AI.MaxTokens = 0 }, true},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, true},
		{"json log format", func(c *Config) { c.Log.Format = "JSON" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "killtest.yaml")
	content := `
server:
  port: "9090"
  allowed_origins: ["https://a.example"]
enrichment:
  url: http://analyzer:8080/v1/analyze
  timeout_ms: 3000
log:
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	t.Setenv("ENRICHMENT_TIMEOUT_MS", "5000")
	t.Setenv("REDIS_URI", "redis://cache:6379")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "http://analyzer:8080/v1/analyze", cfg.Enrichment.URL)
	assert.Equal(t, 5*time.Second, cfg.Enrichment.Timeout())
	assert.Equal(t, "cache:6379", cfg.RedisAddr())
	assert.Equal(t, "gpt-4o-mini", cfg.AI.Model, "unset keys keep defaults")
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)

	chdir(t, t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TTL)
	assert.True(t, cfg.AI.IsEnabled())
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
