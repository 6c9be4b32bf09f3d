// AngelaMos | 2026
// config_test.go

package config

import (
	"testing"
	"time"

	"github.com/knadh/koanf/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultConfig(t *testing.T) *Config {
	t.Helper()

	k := koanf.New(".")
	require.NoError(t, loadDefaults(k))
	require.NoError(t, k.Set("database.url", "postgres://localhost/jobs"))
	require.NoError(t, k.Set("redis.url", "redis://localhost:6379/0"))

	c := &Config{}
	require.NoError(t, k.Unmarshal("", c))
	return c
}

func TestDefaults(t *testing.T) {
	c := defaultConfig(t)

	require.NoError(t, validate(c))
	assert.Equal(t, 15*time.Minute, c.JWT.AccessTokenExpire)
	assert.Equal(t, 3, c.Resume.ExpiryMonths)
	assert.Equal(t, 6, c.Dashboard.HistogramMonths)
	assert.Equal(t, "0.0.0.0:8080", c.Server.Address())
	assert.True(t, c.IsDevelopment())
	assert.False(t, c.IsProduction())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{
			name:   "missing database url",
			mutate: func(c *Config) { c.Database.URL = "" },
			errMsg: "DATABASE_URL",
		},
		{
			name:   "missing redis url",
			mutate: func(c *Config) { c.Redis.URL = "" },
			errMsg: "REDIS_URL",
		},
		{
			name: "wildcard origin with credentials",
			mutate: func(c *Config) {
				c.CORS.AllowedOrigins = []string{"*"}
			},
			errMsg: "wildcard",
		},
		{
			name: "insecure otel in production",
			mutate: func(c *Config) {
				c.App.Environment = "production"
				c.Otel.Enabled = true
			},
			errMsg: "OTEL_INSECURE",
		},
		{
			name: "access outlives refresh",
			mutate: func(c *Config) {
				c.JWT.AccessTokenExpire = 200 * time.Hour
			},
			errMsg: "access_token_expire",
		},
		{
			name:   "zero resume expiry",
			mutate: func(c *Config) { c.Resume.ExpiryMonths = 0 },
			errMsg: "resume.expiry_months",
		},
		{
			name:   "zero histogram",
			mutate: func(c *Config) { c.Dashboard.HistogramMonths = 0 },
			errMsg: "histogram_months",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := defaultConfig(t)
			tt.mutate(c)

			err := validate(c)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestEnvKeyReplacer(t *testing.T) {
	assert.Equal(t, "database.url", envKeyReplacer("DATABASE_URL"))
	assert.Equal(t, "otel.endpoint", envKeyReplacer("OTEL_EXPORTER_OTLP_ENDPOINT"))
	assert.Equal(t, "resume.max_per_user", envKeyReplacer("RESUME_MAX_PER_USER"))
	assert.Empty(t, envKeyReplacer("HOME"))
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	c := defaultConfig(t)
	c.Database.URL = ""
	c.RateLimit.ApplyPerHour = 0

	err := validate(c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
	assert.Contains(t, err.Error(), "apply_per_hour")
}
