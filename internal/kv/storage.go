// Package kv provides small synchronous key-value stores for persisted slots.
//
// A Storage behaves like a browser's local storage: string keys map to string
// values, reads and writes complete before returning, and there is no
// coordination between processes sharing the same backing store.
package kv

import (
	"fmt"
	"strings"

	"github.com/nibzard/taskboard/internal/datadir"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Storage is a synchronous string key-value store.
type Storage interface {
	// Get returns the value stored under key. ok is false when the key is absent.
	Get(key string) (value string, ok bool, err error)
	// Set overwrites the value stored under key.
	Set(key, value string) error
	// Close releases resources held by the store.
	Close() error
}

// Backends returns the supported backend names.
func Backends() []string {
	return []string{BackendFile, BackendSQLite, BackendMemory}
}

// Open opens the named backend rooted at dataDir.
func Open(backend, dataDir string) (Storage, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case BackendFile, "":
		return NewFileStorage(datadir.SlotsPath(dataDir))
	case BackendSQLite:
		return OpenSQLite(datadir.DatabasePath(dataDir))
	case BackendMemory:
		return NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q (expected %s)", backend, strings.Join(Backends(), "|"))
	}
}

// Location describes where a backend keeps its data, for diagnostics.
func Location(backend, dataDir string) string {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case BackendFile, "":
		return datadir.SlotsPath(dataDir)
	case BackendSQLite:
		return datadir.DatabasePath(dataDir)
	case BackendMemory:
		return "(in memory)"
	default:
		return ""
	}
}
