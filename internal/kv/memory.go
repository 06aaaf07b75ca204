package kv

// MemoryStorage is a Storage that lives only as long as the process.
type MemoryStorage struct {
	values map[string]string
	// Err, when set, is returned by every Set call. Tests use it to
	// simulate a failing disk.
	Err error
}

// NewMemoryStorage returns an empty in-memory store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

// Get returns the value stored under key.
func (s *MemoryStorage) Get(key string) (string, bool, error) {
	v, ok := s.values[key]
	return v, ok, nil
}

// Set stores value under key, or returns Err when it is set.
func (s *MemoryStorage) Set(key, value string) error {
	if s.Err != nil {
		return s.Err
	}
	s.values[key] = value
	return nil
}

// Close is a no-op; the values stay readable.
func (s *MemoryStorage) Close() error {
	return nil
}
