package todo

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Store owns the ordered task sequence and writes it through to a
// Persistence after every accepted mutation.
//
// A Store is not safe for concurrent use; callers serialize access the same
// way a UI event loop does.
type Store struct {
	tasks   []Task
	persist Persistence
	ids     *idSource
	logger  *log.Logger
	subs    []func(Change)
	loadErr error
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for load and save diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the clock used for id generation.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.ids = newIDSource(now)
	}
}

// New builds a Store hydrated from p. A load failure leaves the Store empty;
// the cause is logged and kept for LoadErr.
func New(p Persistence, opts ...Option) *Store {
	s := &Store{
		persist: p,
		ids:     newIDSource(nil),
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}

	tasks, err := p.Load()
	if err != nil {
		s.loadErr = err
		s.logger.Warn("Ignoring persisted tasks", "err", err)
		tasks = nil
	}
	s.tasks = tasks
	for _, t := range s.tasks {
		s.ids.observe(t.ID)
	}
	s.logger.Debug("Loaded tasks", "count", len(s.tasks))
	return s
}

// LoadErr returns why the persisted tasks were discarded at startup, if they were.
func (s *Store) LoadErr() error {
	return s.loadErr
}

// Subscribe registers fn to run after every accepted mutation, once the
// write-through has finished. Subscribers run in registration order.
func (s *Store) Subscribe(fn func(Change)) {
	if fn == nil {
		return
	}
	s.subs = append(s.subs, fn)
}

// Tasks returns a copy of the sequence in insertion order.
func (s *Store) Tasks() []Task {
	return slices.Clone(s.tasks)
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	return len(s.tasks)
}

// Get returns the task with id.
func (s *Store) Get(id int64) (Task, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.tasks[i], true
	}
	return Task{}, false
}

// Add appends a new, not yet completed task. Both inputs are trimmed; if
// either ends up empty the call is rejected and nothing changes.
func (s *Store) Add(text, date string) (Task, bool) {
	text = strings.TrimSpace(text)
	date = strings.TrimSpace(date)
	if text == "" || date == "" {
		s.logger.Debug("Add rejected", "text_empty", text == "", "date_empty", date == "")
		return Task{}, false
	}

	t := Task{
		ID:   s.ids.next(func(id int64) bool { return s.indexOf(id) >= 0 }),
		Text: text,
		Date: date,
	}
	s.tasks = append(s.tasks, t)
	s.commit(OpAdd, t)
	return t, true
}

// Remove deletes the task with id. Unknown ids are a no-op.
func (s *Store) Remove(id int64) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	removed := s.tasks[i]
	s.tasks = slices.Delete(s.tasks, i, i+1)
	s.commit(OpRemove, removed)
	return true
}

// ToggleComplete flips the completed flag of the task with id. Unknown ids
// are a no-op.
func (s *Store) ToggleComplete(id int64) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.tasks[i].Completed = !s.tasks[i].Completed
	s.commit(OpToggle, s.tasks[i])
	return true
}

func (s *Store) indexOf(id int64) int {
	return slices.IndexFunc(s.tasks, func(t Task) bool {
		return t.ID == id
	})
}

// commit writes the full sequence through, then notifies subscribers.
func (s *Store) commit(op Op, t Task) {
	snapshot := s.Tasks()
	err := s.persist.Save(snapshot)
	if err != nil {
		s.logger.Warn("Saving tasks failed", "op", op, "id", t.ID, "err", err)
	} else {
		s.logger.Debug("Saved tasks", "op", op, "id", t.ID, "count", len(snapshot))
	}

	change := Change{
		Op:      op,
		Task:    t,
		Tasks:   snapshot,
		SaveErr: err,
	}
	for _, fn := range s.subs {
		fn(change)
	}
}
