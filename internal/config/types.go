package config

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
}

// Default values.
const (
	DefaultDataDir   = "~/.taskboard"
	DefaultSlot      = "tasks"
	DefaultStorage   = "file"
	DefaultFilter    = "all"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Config holds the full configuration for taskboard.
type Config struct {
	// Storage
	DataDir string `toml:"data_dir"`
	Slot    string `toml:"slot"`
	Storage string `toml:"storage"`

	// Initial filter for list views (not persisted between runs)
	Filter string `toml:"filter"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Config files that were applied, lowest priority first (computed)
	Files []string `toml:"-"`
}
