package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero lookback", func(c *Config) { c.LookbackDays = 0 }},
		{"negative lookback", func(c *Config) { c.LookbackDays = -1 }},
		{"excessive lookback", func(c *Config) { c.LookbackDays = 365 }},
		{"empty history path", func(c *Config) { c.HistoryPath = "" }},
		{"empty model", func(c *Config) { c.Model = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("DEDUP_LOOKBACK_DAYS", "14")
	t.Setenv("SIGNAL_HISTORY_PATH", "elsewhere/history.json")
	t.Setenv("DEDUP_MODEL", "claude-sonnet-4-20250514")

	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 14, cfg.LookbackDays)
	assert.Equal(t, "elsewhere/history.json", cfg.HistoryPath)
	assert.Equal(t, "claude-sonnet-4-20250514", cfg.Model)
}

func TestConfigFromEnvRejectsBadValues(t *testing.T) {
	t.Setenv("DEDUP_LOOKBACK_DAYS", "soon")
	_, err := ConfigFromEnv()
	assert.Error(t, err)

	t.Setenv("DEDUP_LOOKBACK_DAYS", "-3")
	_, err = ConfigFromEnv()
	assert.Error(t, err)
}
