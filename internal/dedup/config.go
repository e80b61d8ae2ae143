package dedup

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds configuration for the deduplication engine
type Config struct {
	// LookbackDays is the rolling window of history considered during
	// comparison. Entries older than this are ignored at read time but
	// stay on disk.
	LookbackDays int

	// HistoryPath is the location of the JSON history store. The parent
	// directory is created on first use.
	HistoryPath string

	// Model is the completion model used for semantic judgment
	Model string
}

// DefaultConfig returns the default deduplication configuration
func DefaultConfig() Config {
	return Config{
		LookbackDays: 7,
		HistoryPath:  "data/signal_history.json",
		Model:        "glm-4.7",
	}
}

// Validate checks if the configuration has valid values
func (c Config) Validate() error {
	if c.LookbackDays <= 0 {
		return fmt.Errorf("lookback_days must be positive (got %d)", c.LookbackDays)
	}
	if c.LookbackDays > 90 {
		return fmt.Errorf("lookback_days too large (got %d, max 90)", c.LookbackDays)
	}
	if c.HistoryPath == "" {
		return fmt.Errorf("history_path is required")
	}
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	return nil
}

// ConfigFromEnv creates a Config from environment variables, falling back
// to defaults.
//
// Environment variables:
//   - DEDUP_LOOKBACK_DAYS: history window in days (default: 7)
//   - SIGNAL_HISTORY_PATH: history store location (default: data/signal_history.json)
//   - DEDUP_MODEL: completion model for the semantic judge (default: glm-4.7)
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv("DEDUP_LOOKBACK_DAYS"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid value for DEDUP_LOOKBACK_DAYS: %w", err)
		}
		cfg.LookbackDays = days
	}
	if v := os.Getenv("SIGNAL_HISTORY_PATH"); v != "" {
		cfg.HistoryPath = v
	}
	if v := os.Getenv("DEDUP_MODEL"); v != "" {
		cfg.Model = v
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration from environment: %w", err)
	}
	return cfg, nil
}
