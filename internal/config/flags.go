package config

import "flag"

// flagFields maps flag names to config field names.
var flagFields = map[string]string{
	"data-dir":       "data_dir",
	"slot":           "slot",
	"storage":        "storage",
	"filter":         "filter",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"log-timestamps": "log_timestamps",
	"log-caller":     "log_caller",
}

// parseFlags defines global flags on fs, parses args and records which
// fields were set on the command line.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("taskboard", flag.ContinueOnError)
	}

	// Storage
	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Data directory (slots, database, logs)")
	fs.StringVar(&cfg.Slot, "slot", cfg.Slot, "Storage key holding the task list")
	fs.StringVar(&cfg.Storage, "storage", cfg.Storage, "Storage backend (file, sqlite, memory)")

	// View
	fs.StringVar(&cfg.Filter, "filter", cfg.Filter, "Initial filter (all, active, completed)")

	// Logging
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Show caller location in logs")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if sources != nil {
		fs.Visit(func(f *flag.Flag) {
			if field, ok := flagFields[f.Name]; ok {
				sources[field] = SourceFlag
			}
		})
	}
	return nil
}
