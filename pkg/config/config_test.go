package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		expectError bool
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "defaults applied",
			env: map[string]string{
				"RIOT_API_KEY": "RGAPI-test",
				"DATABASE_URL": "postgres://localhost/nexusiq",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 10*time.Second, cfg.Riot.Timeout)
				assert.Equal(t, "europe", cfg.Riot.DefaultRegion)
				assert.Equal(t, 30*time.Second, cfg.SummonerTTL)
				assert.Equal(t, DefaultBaseURLTemplate, cfg.Riot.BaseURLTemplate)
				assert.Equal(t, 20, cfg.Riot.ShortLimit)
				assert.Equal(t, 100, cfg.Riot.LongLimit)
				assert.True(t, cfg.Database.MigrationsEnabled)
				assert.False(t, cfg.HasBucket())
			},
		},
		{
			name: "overrides applied",
			env: map[string]string{
				"RIOT_API_KEY":         "RGAPI-test",
				"DATABASE_URL":         "postgres://localhost/nexusiq",
				"RIOT_TIMEOUT_SECONDS": "3",
				"RIOT_DEFAULT_REGION":  "americas",
				"SUMMONER_TTL_MINUTES": "2",
				"MIGRATIONS_ENABLED":   "false",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 3*time.Second, cfg.Riot.Timeout)
				assert.Equal(t, "americas", cfg.Riot.DefaultRegion)
				assert.Equal(t, 2*time.Minute, cfg.SummonerTTL)
				assert.False(t, cfg.Database.MigrationsEnabled)
			},
		},
		{
			name: "invalid numbers fall back",
			env: map[string]string{
				"RIOT_API_KEY":         "RGAPI-test",
				"DATABASE_URL":         "postgres://localhost/nexusiq",
				"RIOT_TIMEOUT_SECONDS": "ten",
				"SUMMONER_TTL_MINUTES": "soon",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 10*time.Second, cfg.Riot.Timeout)
				assert.Equal(t, 30*time.Second, cfg.SummonerTTL)
			},
		},
		{
			name:        "missing api key",
			env:         map[string]string{"DATABASE_URL": "postgres://localhost/nexusiq"},
			expectError: true,
		},
		{
			name:        "missing database url",
			env:         map[string]string{"RIOT_API_KEY": "RGAPI-test"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{
				"RIOT_API_KEY", "DATABASE_URL", "RIOT_TIMEOUT_SECONDS", "RIOT_DEFAULT_REGION",
				"SUMMONER_TTL_MINUTES", "MIGRATIONS_ENABLED", "RIOT_BASE_URL_TEMPLATE",
				"RIOT_RATE_LIMIT_SHORT", "RIOT_RATE_LIMIT_LONG", "BUCKET_ENDPOINT", "BUCKET_LOG_BUCKET",
			} {
				t.Setenv(key, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, cfg)
				return
			}

			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}
