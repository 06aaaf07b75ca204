package config

import (
	"os"
	"strings"
)

// loadFromEnv overrides config from environment variables.
// If sources is non-nil, it tracks the source of each value.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	track := func(field string) {
		if sources != nil {
			sources[field] = SourceEnv
		}
	}

	if v := os.Getenv("TASKBOARD_DATA_DIR"); v != "" {
		cfg.DataDir = v
		track("data_dir")
	}
	if v := os.Getenv("TASKBOARD_SLOT"); v != "" {
		cfg.Slot = v
		track("slot")
	}
	if v := os.Getenv("TASKBOARD_STORAGE"); v != "" {
		cfg.Storage = v
		track("storage")
	}
	if v := os.Getenv("TASKBOARD_FILTER"); v != "" {
		cfg.Filter = v
		track("filter")
	}

	// Logging configuration
	if v := os.Getenv("TASKBOARD_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
		track("log_level")
	}
	if v := os.Getenv("TASKBOARD_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
		track("log_format")
	}
	if v := os.Getenv("TASKBOARD_LOG_TIMESTAMPS"); v != "" {
		cfg.LogTimestamps = boolFromString(v)
		track("log_timestamps")
	}
	if v := os.Getenv("TASKBOARD_LOG_CALLER"); v != "" {
		cfg.LogCaller = boolFromString(v)
		track("log_caller")
	}
}

// boolFromString parses a boolean from a string.
func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
