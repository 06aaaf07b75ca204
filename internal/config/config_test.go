// Package config tests configuration loading.
package config

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
)

// isolate points HOME and the working directory at fresh temp dirs and
// clears TASKBOARD_* variables so the host environment cannot leak in.
func isolate(t *testing.T) (home, work string) {
	t.Helper()
	home = t.TempDir()
	work = t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData"))
	for _, kv := range os.Environ() {
		if name, _, ok := strings.Cut(kv, "="); ok && strings.HasPrefix(name, "TASKBOARD_") {
			t.Setenv(name, "")
		}
	}
	chdir(t, work)
	return home, work
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestDefaults(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	if cfg.DataDir != DefaultDataDir {
		t.Errorf("DataDir: got %q, want %q", cfg.DataDir, DefaultDataDir)
	}
	if cfg.Slot != "tasks" {
		t.Errorf("Slot: got %q, want tasks", cfg.Slot)
	}
	if cfg.Storage != "file" {
		t.Errorf("Storage: got %q, want file", cfg.Storage)
	}
	if cfg.Filter != "all" {
		t.Errorf("Filter: got %q, want all", cfg.Filter)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "text" {
		t.Errorf("logging defaults: got %q/%q", cfg.LogLevel, cfg.LogFormat)
	}
}

func TestLoadDefaults(t *testing.T) {
	home, _ := isolate(t)

	cws, err := LoadWithSources(flag.NewFlagSet("test", flag.ContinueOnError), nil)
	if err != nil {
		t.Fatalf("LoadWithSources: %v", err)
	}
	want := filepath.Join(home, ".taskboard")
	if cws.Config.DataDir != want {
		t.Errorf("DataDir: got %q, want %q", cws.Config.DataDir, want)
	}
	for _, field := range ConfigFields() {
		if got := cws.Source(field); got != SourceDefault {
			t.Errorf("source of %s: got %q, want default", field, got)
		}
	}
	if cws.GetConfigFile() != "" {
		t.Errorf("GetConfigFile: got %q, want empty", cws.GetConfigFile())
	}
}

func TestLoadFromEnv(t *testing.T) {
	isolate(t)
	t.Setenv("TASKBOARD_SLOT", "work")
	t.Setenv("TASKBOARD_STORAGE", "sqlite")
	t.Setenv("TASKBOARD_FILTER", "active")
	t.Setenv("TASKBOARD_LOG_TIMESTAMPS", "yes")

	cfg := &Config{}
	setDefaults(cfg)
	sources := map[string]ConfigSource{}
	loadFromEnv(cfg, sources)

	if cfg.Slot != "work" {
		t.Errorf("Slot: got %q, want work", cfg.Slot)
	}
	if cfg.Storage != "sqlite" {
		t.Errorf("Storage: got %q, want sqlite", cfg.Storage)
	}
	if cfg.Filter != "active" {
		t.Errorf("Filter: got %q, want active", cfg.Filter)
	}
	if !cfg.LogTimestamps {
		t.Error("LogTimestamps: got false, want true")
	}
	if sources["slot"] != SourceEnv || sources["log_level"] != "" {
		t.Errorf("sources: %v", sources)
	}
}

func TestLoadConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "taskboard.toml")
	writeFile(t, path, `
data_dir = "/tmp/boards"
storage = "sqlite"
log_caller = true
`)

	cfg := &Config{}
	setDefaults(cfg)
	sources := map[string]ConfigSource{}
	if err := loadConfigFile(cfg, path, sources, SourceProjFile); err != nil {
		t.Fatalf("loadConfigFile: %v", err)
	}

	if cfg.DataDir != "/tmp/boards" {
		t.Errorf("DataDir: got %q", cfg.DataDir)
	}
	if cfg.Storage != "sqlite" {
		t.Errorf("Storage: got %q", cfg.Storage)
	}
	if !cfg.LogCaller {
		t.Error("LogCaller: got false")
	}
	if cfg.Slot != DefaultSlot {
		t.Errorf("Slot changed without being set: %q", cfg.Slot)
	}
	if sources["storage"] != SourceProjFile {
		t.Errorf("storage source: got %q", sources["storage"])
	}
	if _, ok := sources["slot"]; ok {
		t.Error("slot should not be attributed to the file")
	}
	if len(cfg.Files) != 1 || cfg.Files[0] != path {
		t.Errorf("Files: got %v", cfg.Files)
	}
}

func TestLoadConfigFileUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taskboard.toml")
	writeFile(t, path, "max_iterations = 3\n")

	cfg := &Config{}
	setDefaults(cfg)
	err := loadConfigFile(cfg, path, nil, SourceProjFile)
	if err == nil || !strings.Contains(err.Error(), "max_iterations") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestExampleConfigDecodes(t *testing.T) {
	var cfg Config
	md, err := toml.Decode(ExampleConfig(), &cfg)
	if err != nil {
		t.Fatalf("example config does not decode: %v", err)
	}
	if len(md.Undecoded()) != 0 {
		t.Errorf("example config has unknown keys: %v", md.Undecoded())
	}
	if cfg.Slot != DefaultSlot || cfg.Storage != DefaultStorage {
		t.Errorf("example disagrees with defaults: %+v", cfg)
	}
}

func TestLoadPrecedence(t *testing.T) {
	home, work := isolate(t)
	writeFile(t, filepath.Join(home, ".taskboard", "taskboard.toml"), `
slot = "user"
filter = "completed"
log_level = "debug"
`)
	writeFile(t, filepath.Join(work, "taskboard.toml"), `
slot = "project"
storage = "memory"
`)
	t.Setenv("TASKBOARD_STORAGE", "sqlite")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cws, err := LoadWithSources(fs, []string{"--filter", "active", "ls"})
	if err != nil {
		t.Fatalf("LoadWithSources: %v", err)
	}
	cfg := cws.Config

	checks := []struct {
		field  string
		got    string
		want   string
		source ConfigSource
	}{
		{"slot", cfg.Slot, "project", SourceProjFile},
		{"storage", cfg.Storage, "sqlite", SourceEnv},
		{"filter", cfg.Filter, "active", SourceFlag},
		{"log_level", cfg.LogLevel, "debug", SourceUserFile},
		{"log_format", cfg.LogFormat, "text", SourceDefault},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s: got %q, want %q", c.field, c.got, c.want)
		}
		if src := cws.Source(c.field); src != c.source {
			t.Errorf("%s source: got %q, want %q", c.field, src, c.source)
		}
	}

	if got := fs.Args(); len(got) != 1 || got[0] != "ls" {
		t.Errorf("remaining args: %v", got)
	}
	if cws.GetConfigFile() != "taskboard.toml" {
		t.Errorf("GetConfigFile: got %q", cws.GetConfigFile())
	}
}

func TestExplicitConfigFile(t *testing.T) {
	_, work := isolate(t)
	explicit := filepath.Join(work, "other.toml")
	writeFile(t, explicit, `slot = "explicit"`)
	writeFile(t, filepath.Join(work, "taskboard.toml"), `slot = "project"`)
	t.Setenv("TASKBOARD_CONFIG", explicit)

	cfg, err := Load(flag.NewFlagSet("test", flag.ContinueOnError), nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Slot != "explicit" {
		t.Errorf("Slot: got %q, want explicit", cfg.Slot)
	}

	t.Setenv("TASKBOARD_CONFIG", filepath.Join(work, "missing.toml"))
	if _, err := Load(flag.NewFlagSet("test", flag.ContinueOnError), nil); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestFinalizeConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"bad storage", func(c *Config) { c.Storage = "redis" }, "invalid storage"},
		{"bad filter", func(c *Config) { c.Filter = "done" }, "invalid filter"},
		{"empty slot", func(c *Config) { c.Slot = "  " }, "slot is empty"},
		{"empty data dir", func(c *Config) { c.DataDir = "" }, "data_dir is empty"},
		{"case is normalized", func(c *Config) { c.Storage = "SQLite"; c.Filter = "Active" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			setDefaults(cfg)
			tt.mutate(cfg)
			err := finalizeConfig(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if cfg.Storage != "sqlite" || cfg.Filter != "active" {
					t.Errorf("not normalized: %+v", cfg)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("got %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestParseFlags(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)
	sources := map[string]ConfigSource{}

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	err := parseFlags(cfg, fs, []string{"--slot", "errands", "--storage=memory", "--log-caller"}, sources)
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if cfg.Slot != "errands" || cfg.Storage != "memory" || !cfg.LogCaller {
		t.Errorf("flags not applied: %+v", cfg)
	}
	if sources["slot"] != SourceFlag || sources["log_caller"] != SourceFlag {
		t.Errorf("sources: %v", sources)
	}
	if _, ok := sources["filter"]; ok {
		t.Error("unset flag recorded as source")
	}
}

func TestBoolFromString(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{"yes", true},
		{"on", true},
		{"0", false},
		{"false", false},
		{"no", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := boolFromString(tt.input); got != tt.want {
			t.Errorf("boolFromString(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("BOARDS", "/srv/boards")

	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"~", home},
		{"~/boards", filepath.Join(home, "boards")},
		{"  ~/boards  ", filepath.Join(home, "boards")},
		{"$BOARDS/work", "/srv/boards/work"},
		{"${BOARDS}", "/srv/boards"},
		{"$UNSET_TASKBOARD_VAR/x", "/x"},
		{"/abs/path", "/abs/path"},
		{"relative", "relative"},
		{"~other/boards", "~other/boards"},
	}

	for _, tt := range tests {
		if got := expandPath(tt.input); got != tt.want {
			t.Errorf("expandPath(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestLoadExpandsDataDir(t *testing.T) {
	home, _ := isolate(t)
	t.Setenv("TASKBOARD_DATA_DIR", "~/boards")

	cfg, err := Load(flag.NewFlagSet("test", flag.ContinueOnError), nil)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(home, "boards"); cfg.DataDir != want {
		t.Errorf("DataDir: got %q, want %q", cfg.DataDir, want)
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir for older Go).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
