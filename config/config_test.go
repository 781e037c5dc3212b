package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "usesession.com", cfg.AllowedDomain)
	assert.Equal(t, "auto", cfg.FetchMode)
	assert.Equal(t, 30*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 3, cfg.Concurrency)
	assert.Equal(t, 100, cfg.RateLimitPerHour)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("SESSIONMAILER_FETCH_MODE", "static")
	t.Setenv("SESSIONMAILER_FETCH_TIMEOUT", "5s")
	t.Setenv("SESSIONMAILER_CONCURRENCY", "5")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "static", cfg.FetchMode)
	assert.Equal(t, 5*time.Second, cfg.FetchOptions().Timeout)
	assert.Equal(t, 5, cfg.Concurrency)
}

func TestLoad_DotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SESSIONMAILER_ALLOWED_DOMAIN=example.com\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("SESSIONMAILER_ALLOWED_DOMAIN") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "example.com", cfg.AllowedDomain)
}

func TestLoad_ParseError(t *testing.T) {
	t.Setenv("SESSIONMAILER_CONCURRENCY", "many")
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorIs(t, err, ErrParsingConfig)
}

func TestValidate(t *testing.T) {
	base, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"fetch mode", func(c *Config) { c.FetchMode = "turbo" }},
		{"timeout", func(c *Config) { c.FetchTimeout = 0 }},
		{"concurrency", func(c *Config) { c.Concurrency = 0 }},
		{"rate limit", func(c *Config) { c.RateLimitBurst = -1 }},
		{"log level", func(c *Config) { c.LogLevel = "loud" }},
		{"log format", func(c *Config) { c.LogFormat = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}
