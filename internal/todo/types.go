package todo

import (
	"fmt"
	"strings"
)

// Task is a single entry on the board. Only Completed changes after creation.
type Task struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
}

// IsZero returns true if the task is empty (has no ID).
func (t *Task) IsZero() bool {
	return t.ID == 0
}

// FilterMode selects which tasks are visible.
type FilterMode string

const (
	FilterAll       FilterMode = "all"
	FilterActive    FilterMode = "active"
	FilterCompleted FilterMode = "completed"
)

// FilterModes returns the modes in display order.
func FilterModes() []FilterMode {
	return []FilterMode{FilterAll, FilterActive, FilterCompleted}
}

// ParseFilterMode parses a mode name. Matching is case-insensitive and the
// empty string means FilterAll.
func ParseFilterMode(s string) (FilterMode, error) {
	switch FilterMode(strings.ToLower(strings.TrimSpace(s))) {
	case FilterAll, "":
		return FilterAll, nil
	case FilterActive:
		return FilterActive, nil
	case FilterCompleted:
		return FilterCompleted, nil
	default:
		return "", fmt.Errorf("invalid filter %q, must be one of: all, active, completed", s)
	}
}

// Next returns the mode after m, wrapping around.
func (m FilterMode) Next() FilterMode {
	switch m {
	case FilterAll:
		return FilterActive
	case FilterActive:
		return FilterCompleted
	default:
		return FilterAll
	}
}

// Title returns the label shown in filter controls.
func (m FilterMode) Title() string {
	switch m {
	case FilterActive:
		return "Active"
	case FilterCompleted:
		return "Completed"
	default:
		return "All"
	}
}

// Op names a Store mutation.
type Op string

const (
	OpAdd    Op = "add"
	OpRemove Op = "remove"
	OpToggle Op = "toggle"
)

// Change is delivered to subscribers after a mutation has been applied and
// written through.
type Change struct {
	Op Op
	// Task is the task as it is after the mutation (for OpRemove, as it was
	// before removal).
	Task Task
	// Tasks is the snapshot that was handed to Persistence.Save.
	Tasks []Task
	// SaveErr is non-nil when the write-through failed. The in-memory state
	// has still changed.
	SaveErr error
}
