package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# taskboard configuration file
# Values can be overridden by environment variables (TASKBOARD_*) or CLI flags

# Data directory holding slots, the SQLite database and session logs
# (supports ~ and $VAR expansion)
data_dir = "~/.taskboard"

# Storage key that holds the task list
slot = "tasks"

# Storage backend: file, sqlite or memory
storage = "file"

# Filter shown on startup: all, active or completed
filter = "all"

# Logging
log_level = "info"       # debug, info, warn, error
log_format = "text"      # text, json, logfmt
log_timestamps = false
log_caller = false
`
}
