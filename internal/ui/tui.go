// Package ui provides the interactive terminal board.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/taskboard/internal/todo"
)

// DateLayout is the format ctrl+t fills into the date field.
const DateLayout = "2006-01-02"

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiConfig)

// tuiConfig holds TUI configuration.
type tuiConfig struct {
	filter todo.FilterMode
	now    func() time.Time
}

// WithFilter sets the filter shown on startup.
func WithFilter(mode todo.FilterMode) TUIOption {
	return func(c *tuiConfig) {
		c.filter = mode
	}
}

// WithClock overrides the clock used to fill today's date.
func WithClock(now func() time.Time) TUIOption {
	return func(c *tuiConfig) {
		if now != nil {
			c.now = now
		}
	}
}

// RunTUI runs the board against store until the user quits or ctx is done.
func RunTUI(ctx context.Context, store *todo.Store, opts ...TUIOption) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	model := newTUIModel(store, opts...)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type focus int

const (
	focusText focus = iota
	focusDate
	focusList
)

type tuiModel struct {
	store   *todo.Store
	keys    keyMap
	help    help.Model
	text    textinput.Model
	date    textinput.Model
	focus   focus
	filter  todo.FilterMode
	visible []todo.Task
	counts  todo.Counts
	// selectedID keys the cursor to a task rather than a row index, so the
	// selection survives filter changes and removals of other rows.
	selectedID int64
	cursor     int
	saveErr    error
	now        func() time.Time
	width      int
}

func newTUIModel(store *todo.Store, opts ...TUIOption) *tuiModel {
	c := &tuiConfig{
		filter: todo.FilterAll,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	text := textinput.New()
	text.Placeholder = "What needs doing?"
	text.Prompt = "Task: "
	text.Width = 40

	date := textinput.New()
	date.Placeholder = DateLayout
	date.Prompt = "Date: "
	date.Width = 20

	m := &tuiModel{
		store:  store,
		keys:   defaultKeyMap(),
		help:   help.New(),
		text:   text,
		date:   date,
		filter: c.filter,
		now:    c.now,
	}
	m.setFocus(focusText)
	store.Subscribe(m.onChange)
	m.recompute()
	return m
}

// onChange runs after the store has saved a mutation.
func (m *tuiModel) onChange(ch todo.Change) {
	m.saveErr = ch.SaveErr
	m.recompute()
}

// recompute rebuilds the visible rows and re-anchors the cursor on the
// selected task, falling back to the row at the old position.
func (m *tuiModel) recompute() {
	tasks := m.store.Tasks()
	m.counts = todo.CountTasks(tasks)
	m.visible = todo.Visible(tasks, m.filter)

	if len(m.visible) == 0 {
		m.selectedID = 0
		m.cursor = 0
		return
	}
	if i := m.indexOf(m.selectedID); i >= 0 {
		m.cursor = i
		return
	}
	m.cursor = min(max(m.cursor, 0), len(m.visible)-1)
	m.selectedID = m.visible[m.cursor].ID
}

func (m *tuiModel) indexOf(id int64) int {
	return slices.IndexFunc(m.visible, func(t todo.Task) bool {
		return t.ID == id
	})
}

func (m *tuiModel) setFocus(f focus) tea.Cmd {
	m.focus = f
	m.text.Blur()
	m.date.Blur()
	switch f {
	case focusText:
		return m.text.Focus()
	case focusDate:
		return m.date.Focus()
	}
	return nil
}

func (m *tuiModel) setFilter(mode todo.FilterMode) {
	m.filter = mode
	m.recompute()
}

func (m *tuiModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.text.Width = max(msg.Width-len(m.text.Prompt)-4, 10)
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.ForceQuit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.CycleAny):
			m.setFilter(m.filter.Next())
			return m, nil
		case key.Matches(msg, m.keys.NextFocus):
			return m, m.setFocus((m.focus + 1) % 3)
		case key.Matches(msg, m.keys.PrevFocus):
			return m, m.setFocus((m.focus + 2) % 3)
		}
		if m.focus == focusList {
			return m.updateList(msg)
		}
		return m.updateForm(msg)
	}

	return m.forwardToInput(msg)
}

func (m *tuiModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m, m.submit()
	case key.Matches(msg, m.keys.Leave):
		return m, m.setFocus(focusList)
	case key.Matches(msg, m.keys.Today) && m.focus == focusDate:
		m.date.SetValue(m.now().Format(DateLayout))
		m.date.CursorEnd()
		return m, nil
	}
	return m.forwardToInput(msg)
}

// submit hands both drafts to the store. Drafts are cleared only when the
// task was accepted; a rejected draft stays for correction.
func (m *tuiModel) submit() tea.Cmd {
	if _, ok := m.store.Add(m.text.Value(), m.date.Value()); !ok {
		return nil
	}
	m.text.Reset()
	m.date.Reset()
	return m.setFocus(focusText)
}

func (m *tuiModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.NewTask):
		return m, m.setFocus(focusText)
	case key.Matches(msg, m.keys.Up):
		m.move(-1)
	case key.Matches(msg, m.keys.Down):
		m.move(1)
	case key.Matches(msg, m.keys.Toggle):
		if m.selectedID != 0 {
			m.store.ToggleComplete(m.selectedID)
		}
	case key.Matches(msg, m.keys.Remove):
		if m.selectedID != 0 {
			m.store.Remove(m.selectedID)
		}
	case key.Matches(msg, m.keys.ShowAll):
		m.setFilter(todo.FilterAll)
	case key.Matches(msg, m.keys.ShowActive):
		m.setFilter(todo.FilterActive)
	case key.Matches(msg, m.keys.ShowDone):
		m.setFilter(todo.FilterCompleted)
	case key.Matches(msg, m.keys.Cycle):
		m.setFilter(m.filter.Next())
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m *tuiModel) move(delta int) {
	if len(m.visible) == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), len(m.visible)-1)
	m.selectedID = m.visible[m.cursor].ID
}

func (m *tuiModel) forwardToInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusText:
		m.text, cmd = m.text.Update(msg)
	case focusDate:
		m.date, cmd = m.date.Update(msg)
	}
	return m, cmd
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
