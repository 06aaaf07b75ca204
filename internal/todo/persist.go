package todo

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nibzard/taskboard/internal/kv"
)

// DefaultSlot is the storage key that holds the task array.
const DefaultSlot = "tasks"

// Persistence loads and saves the whole task sequence.
type Persistence interface {
	Load() ([]Task, error)
	Save(tasks []Task) error
}

// SlotPersistence keeps the sequence as a JSON array under one key of a
// kv.Storage.
type SlotPersistence struct {
	storage kv.Storage
	key     string
}

// NewSlotPersistence returns a Persistence bound to key in storage.
func NewSlotPersistence(storage kv.Storage, key string) (*SlotPersistence, error) {
	if storage == nil {
		return nil, fmt.Errorf("storage is nil")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, fmt.Errorf("slot key is empty")
	}
	return &SlotPersistence{storage: storage, key: key}, nil
}

// Key returns the slot key.
func (p *SlotPersistence) Key() string {
	return p.key
}

// Raw returns the stored value as-is.
func (p *SlotPersistence) Raw() (string, bool, error) {
	raw, ok, err := p.storage.Get(p.key)
	if err != nil {
		return "", false, fmt.Errorf("read slot %q: %w", p.key, err)
	}
	return raw, ok, nil
}

// Load reads and decodes the slot. An absent slot is an empty sequence.
func (p *SlotPersistence) Load() ([]Task, error) {
	raw, ok, err := p.Raw()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	tasks, err := Decode([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("slot %q: %w", p.key, err)
	}
	return tasks, nil
}

// Save overwrites the slot with the full sequence.
func (p *SlotPersistence) Save(tasks []Task) error {
	data, err := Encode(tasks)
	if err != nil {
		return err
	}
	if err := p.storage.Set(p.key, string(data)); err != nil {
		return fmt.Errorf("write slot %q: %w", p.key, err)
	}
	return nil
}

// Encode renders tasks as a compact JSON array. A nil slice encodes as [].
func Encode(tasks []Task) ([]byte, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return nil, fmt.Errorf("marshal tasks: %w", err)
	}
	return data, nil
}

// Decode validates data and returns the tasks it holds.
func Decode(data []byte) ([]Task, error) {
	if result := Validate(data); !result.Valid {
		return nil, fmt.Errorf("invalid tasks: %w", result.Err())
	}

	var tasks []Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("parse tasks: %w", err)
	}
	return tasks, nil
}
