package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10, cfg.Server.ReadHeaderTimeoutSecs)
	assert.InDelta(t, 20.0, cfg.Server.RateLimitRPS, 0.001)
	assert.Equal(t, 40, cfg.Server.RateLimitBurst)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "es-AR", cfg.Format.Locale)
	assert.Equal(t, "$", cfg.Format.CurrencySymbol)
	assert.Equal(t, 40, cfg.Chart.Width)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
log:
  level: debug
  format: console
server:
  port: 9090
  cors_origins:
    - https://example.com
format:
  locale: en-US
  currency_symbol: US$
chart:
  width: 60
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"https://example.com"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "en-US", cfg.Format.Locale)
	assert.Equal(t, "US$", cfg.Format.CurrencySymbol)
	assert.Equal(t, 60, cfg.Chart.Width)
	// Defaults still apply for unset values
	assert.Equal(t, 40, cfg.Server.RateLimitBurst)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
log:
  level: debug
format:
  locale: en-US
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("FUNNEL_LOG_LEVEL", "warn")
	t.Setenv("FUNNEL_FORMAT_LOCALE", "es-MX")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "es-MX", cfg.Format.Locale)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chdirTemp(t)

	t.Setenv("FUNNEL_SERVER_PORT", "3000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestLoadDotEnv(t *testing.T) {
	dir := chdirTemp(t)

	_, preset := os.LookupEnv("FUNNEL_CHART_WIDTH")
	require.False(t, preset, "FUNNEL_CHART_WIDTH must not be set for this test")
	t.Cleanup(func() { os.Unsetenv("FUNNEL_CHART_WIDTH") })

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("FUNNEL_CHART_WIDTH=72\n"), 0644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 72, cfg.Chart.Width)
}

func TestLoadBadYAML(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server: [unclosed"), 0644))

	_, err := Load()
	assert.Error(t, err)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Server.Port = 8080
	cfg.Server.ReadHeaderTimeoutSecs = 10
	cfg.Server.RateLimitRPS = 20
	cfg.Server.RateLimitBurst = 40
	cfg.Format.Locale = "es-AR"
	cfg.Chart.Width = 40
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "zero port", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: "server.port must be 1-65535"},
		{name: "huge port", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: "server.port must be 1-65535"},
		{name: "no timeout", mutate: func(c *Config) { c.Server.ReadHeaderTimeoutSecs = 0 }, wantErr: "read_header_timeout_secs"},
		{name: "no rate", mutate: func(c *Config) { c.Server.RateLimitRPS = 0 }, wantErr: "rate_limit_rps"},
		{name: "no burst", mutate: func(c *Config) { c.Server.RateLimitBurst = -1 }, wantErr: "rate_limit_burst"},
		{name: "bad locale", mutate: func(c *Config) { c.Format.Locale = "??" }, wantErr: "format.locale"},
		{name: "narrow chart", mutate: func(c *Config) { c.Chart.Width = 5 }, wantErr: "chart.width must be >= 10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validDefaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 0
	cfg.Chart.Width = 1

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
	assert.Contains(t, err.Error(), "chart.width")
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}
