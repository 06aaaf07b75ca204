// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.taskboard/taskboard.toml or OS-specific config directory)
// 3. Project config file (taskboard.toml or .taskboard.toml in the working directory),
//    or the file named by TASKBOARD_CONFIG when set
// 4. Environment variables (TASKBOARD_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - ~/.taskboard/taskboard.toml (preferred)
// - Windows: %APPDATA%\taskboard\taskboard.toml
// - macOS: ~/Library/Application Support/taskboard/taskboard.toml
// - Linux/BSD: $XDG_CONFIG_HOME/taskboard/taskboard.toml or ~/.config/taskboard/taskboard.toml
//
// Project-level config locations (overrides user config):
// - ./taskboard.toml (preferred)
// - ./.taskboard.toml
package config
