package config

import (
	"flag"
	"fmt"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

// Accepted values for enumerated settings.
var (
	validStorages = []string{"file", "sqlite", "memory"}
	validFilters  = []string{"all", "active", "completed"}
)

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file (~/.taskboard/taskboard.toml or OS-specific config dir)
// 3. Project config file (taskboard.toml or .taskboard.toml in current directory)
// 4. Environment variables
// 5. CLI flags
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cws, err := LoadWithSources(fs, args)
	if err != nil {
		return nil, err
	}
	return cws.Config, nil
}

// LoadWithSources loads configuration and tracks the source of each value.
// Returns ConfigWithSources containing the config and a map of field names to their sources.
func LoadWithSources(fs *flag.FlagSet, args []string) (*ConfigWithSources, error) {
	sources := make(map[string]ConfigSource)
	cfg := &Config{}

	// 1. Set defaults (all fields start with default source)
	setDefaults(cfg)
	for _, field := range configFields() {
		sources[field] = SourceDefault
	}

	// 2. Try to load from user config file
	if userConfigFile := findUserConfigFile(); userConfigFile != "" {
		if err := loadConfigFile(cfg, userConfigFile, sources, SourceUserFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", userConfigFile, err)
		}
	}

	// 3. Try to load from project config file (overrides user config)
	projectConfigFile, err := findProjectConfigFile()
	if err != nil {
		return nil, err
	}
	if projectConfigFile != "" {
		if err := loadConfigFile(cfg, projectConfigFile, sources, SourceProjFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", projectConfigFile, err)
		}
	}

	// 4. Override from environment
	loadFromEnv(cfg, sources)

	// 5. Parse CLI flags (they override everything)
	if err := parseFlags(cfg, fs, args, sources); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	// 6. Compute derived values
	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	return &ConfigWithSources{
		Config:  cfg,
		Sources: sources,
	}, nil
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"data_dir",
		"slot",
		"storage",
		"filter",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
	}
}

// ConfigFields returns the tracked field names in display order.
func ConfigFields() []string {
	return configFields()
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.DataDir = DefaultDataDir
	cfg.Slot = DefaultSlot
	cfg.Storage = DefaultStorage
	cfg.Filter = DefaultFilter
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.LogTimestamps = false
	cfg.LogCaller = false
}

// loadConfigFile decodes TOML from path over cfg. Only keys present in the
// file override earlier values, and each one is attributed to source.
func loadConfigFile(cfg *Config, path string, sources map[string]ConfigSource, source ConfigSource) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}

	for _, field := range configFields() {
		if md.IsDefined(field) && sources != nil {
			sources[field] = source
		}
	}
	cfg.Files = append(cfg.Files, path)
	return nil
}

// finalizeConfig computes derived values and validates enumerations.
func finalizeConfig(cfg *Config) error {
	// Expand ~ in paths
	cfg.DataDir = expandPath(strings.TrimSpace(cfg.DataDir))
	if cfg.DataDir == "" {
		return fmt.Errorf("data_dir is empty")
	}

	cfg.Slot = strings.TrimSpace(cfg.Slot)
	if cfg.Slot == "" {
		return fmt.Errorf("slot is empty")
	}

	cfg.Storage = strings.ToLower(strings.TrimSpace(cfg.Storage))
	if !slices.Contains(validStorages, cfg.Storage) {
		return fmt.Errorf("invalid storage %q (expected %s)", cfg.Storage, strings.Join(validStorages, "|"))
	}

	cfg.Filter = strings.ToLower(strings.TrimSpace(cfg.Filter))
	if cfg.Filter == "" {
		cfg.Filter = DefaultFilter
	}
	if !slices.Contains(validFilters, cfg.Filter) {
		return fmt.Errorf("invalid filter %q (expected %s)", cfg.Filter, strings.Join(validFilters, "|"))
	}

	return nil
}
