// Package logging provides tests for logger construction and session files.
package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  log.Level
	}{
		{"debug", "debug", log.DebugLevel},
		{"info", "info", log.InfoLevel},
		{"warn", "warn", log.WarnLevel},
		{"warning", "warning", log.WarnLevel},
		{"error", "error", log.ErrorLevel},
		{"upper case", "DEBUG", log.DebugLevel},
		{"unknown defaults to info", "unknown", log.InfoLevel},
		{"empty defaults to info", "", log.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseFormatter(t *testing.T) {
	tests := []struct {
		input string
		want  log.Formatter
	}{
		{"json", log.JSONFormatter},
		{"logfmt", log.LogfmtFormatter},
		{"text", log.TextFormatter},
		{"", log.TextFormatter},
	}

	for _, tt := range tests {
		if got := ParseFormatter(tt.input); got != tt.want {
			t.Errorf("ParseFormatter(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, OptionsFromConfig("warn", "logfmt", false, false))

	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message logged at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "key=value") {
		t.Errorf("warn message missing: %q", out)
	}
}

func TestOpenSession(t *testing.T) {
	t.Run("creates log file with session id", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "logs", "nested")

		s, err := OpenSession(dir, DefaultOptions())
		if err != nil {
			t.Fatalf("OpenSession: %v", err)
		}
		defer s.Close()

		if s.ID == "" {
			t.Error("expected ID to be set")
		}
		if !strings.Contains(filepath.Base(s.LogPath), s.ID) {
			t.Errorf("log path %s does not contain session id %s", s.LogPath, s.ID)
		}

		s.Logger.Info("hello")
		data, err := os.ReadFile(s.LogPath)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(data), "hello") || !strings.Contains(string(data), s.ID) {
			t.Errorf("log file content: %q", data)
		}
	})

	t.Run("empty dir returns error", func(t *testing.T) {
		if _, err := OpenSession("", DefaultOptions()); err == nil {
			t.Fatal("expected error for empty dir")
		}
	})

	t.Run("sessions get distinct ids", func(t *testing.T) {
		dir := t.TempDir()
		a, err := OpenSession(dir, DefaultOptions())
		if err != nil {
			t.Fatal(err)
		}
		defer a.Close()
		b, err := OpenSession(dir, DefaultOptions())
		if err != nil {
			t.Fatal(err)
		}
		defer b.Close()
		if a.ID == b.ID || a.LogPath == b.LogPath {
			t.Errorf("sessions collided: %s %s", a.LogPath, b.LogPath)
		}
	})

	t.Run("nil session close is safe", func(t *testing.T) {
		var s *Session
		if err := s.Close(); err != nil {
			t.Errorf("Close on nil: %v", err)
		}
	})
}

func TestFindLatestLog(t *testing.T) {
	t.Run("missing dir", func(t *testing.T) {
		got, err := FindLatestLog(filepath.Join(t.TempDir(), "absent"))
		if err != nil || got != "" {
			t.Errorf("got %q, %v", got, err)
		}
	})

	t.Run("picks newest log file", func(t *testing.T) {
		dir := t.TempDir()
		older := filepath.Join(dir, "a.log")
		newer := filepath.Join(dir, "b.log")
		other := filepath.Join(dir, "c.txt")
		for _, p := range []string{older, newer, other} {
			if err := os.WriteFile(p, []byte("x\n"), 0644); err != nil {
				t.Fatal(err)
			}
		}
		past := time.Now().Add(-time.Hour)
		os.Chtimes(older, past, past)
		future := time.Now().Add(time.Hour)
		os.Chtimes(other, future, future)

		got, err := FindLatestLog(dir)
		if err != nil {
			t.Fatal(err)
		}
		if got != newer {
			t.Errorf("got %s, want %s", got, newer)
		}
	})
}

func TestTailLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.log")
	if err := os.WriteFile(path, []byte("one\ntwo\nthree\nfour\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		n    int
		want string
	}{
		{0, "one\ntwo\nthree\nfour\n"},
		{2, "three\nfour\n"},
		{10, "one\ntwo\nthree\nfour\n"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		if err := TailLog(&buf, path, tt.n); err != nil {
			t.Fatalf("TailLog(%d): %v", tt.n, err)
		}
		if buf.String() != tt.want {
			t.Errorf("TailLog(%d) = %q, want %q", tt.n, buf.String(), tt.want)
		}
	}

	if err := TailLog(&bytes.Buffer{}, filepath.Join(t.TempDir(), "missing.log"), 1); err == nil {
		t.Error("expected error for missing file")
	}
}
