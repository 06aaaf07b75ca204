package kv

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileStorage keeps one file per key inside a directory.
type FileStorage struct {
	dir string
}

// NewFileStorage creates dir if needed and returns a store rooted there.
func NewFileStorage(dir string) (*FileStorage, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("storage dir is empty")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &FileStorage{dir: dir}, nil
}

// Dir returns the directory backing the store.
func (s *FileStorage) Dir() string {
	return s.dir
}

// Path returns the file that holds key.
func (s *FileStorage) Path(key string) string {
	return filepath.Join(s.dir, fileName(key))
}

// Get reads the file for key.
func (s *FileStorage) Get(key string) (string, bool, error) {
	data, err := os.ReadFile(s.Path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read key %q: %w", key, err)
	}
	return string(data), true, nil
}

// Set replaces the file for key. The write goes through a temp file and a
// rename so readers never observe a partial value.
func (s *FileStorage) Set(key, value string) error {
	path := s.Path(key)
	tmp, err := os.CreateTemp(s.dir, "."+fileName(key)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file for key %q: %w", key, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write key %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close key %q: %w", key, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace key %q: %w", key, err)
	}
	return nil
}

// Close is a no-op.
func (s *FileStorage) Close() error {
	return nil
}

// fileName maps a key to a file name. Keys made only of safe characters are
// used as-is; anything else is slugified and suffixed with a hash of the
// original key so distinct keys never share a file.
func fileName(key string) string {
	if key != "" && isSafeName(key) {
		return key
	}
	return fmt.Sprintf("%s-%s", slugify(key), hashKey(key))
}

func isSafeName(s string) bool {
	if s == "." || s == ".." || strings.HasPrefix(s, ".") {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isSafeByte(s[i]) {
			return false
		}
	}
	return true
}

func isSafeByte(c byte) bool {
	return (c >= 'A' && c <= 'Z') ||
		(c >= 'a' && c <= 'z') ||
		(c >= '0' && c <= '9') ||
		c == '.' || c == '_' || c == '-'
}

func slugify(input string) string {
	var b strings.Builder
	lastUnderscore := false
	for i := 0; i < len(input); i++ {
		c := input[i]
		if !isSafeByte(c) || c == '.' {
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
			continue
		}
		b.WriteByte(c)
		lastUnderscore = false
	}

	slug := strings.Trim(b.String(), "_")
	if slug == "" {
		return "key"
	}
	return slug
}

func hashKey(input string) string {
	sum := sha1.Sum([]byte(input))
	return hex.EncodeToString(sum[:])[:8]
}
