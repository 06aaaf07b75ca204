package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/taskboard/internal/todo"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			MarginBottom(1)
	sectionStyle = lipgloss.NewStyle().Bold(true)
	activeTab    = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("12")).
			Padding(0, 1)
	inactiveTab = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			Padding(0, 1)
	selectedRow = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	doneText    = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("8"))
	dateStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func (m *tuiModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("TaskBoard"))
	b.WriteString("\n")

	m.writeForm(&b)
	m.writeFilters(&b)
	m.writeList(&b)
	m.writeStatus(&b)

	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

func (m *tuiModel) writeForm(b *strings.Builder) {
	b.WriteString(sectionStyle.Render("New task"))
	b.WriteString("\n")
	b.WriteString("  " + m.text.View() + "\n")
	b.WriteString("  " + m.date.View() + "\n\n")
}

func (m *tuiModel) writeFilters(b *strings.Builder) {
	tabs := make([]string, 0, len(todo.FilterModes()))
	for _, mode := range todo.FilterModes() {
		label := fmt.Sprintf("%s %d", mode.Title(), m.counts.For(mode))
		if mode == m.filter {
			tabs = append(tabs, activeTab.Render(label))
		} else {
			tabs = append(tabs, inactiveTab.Render(label))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n\n")
}

func (m *tuiModel) writeList(b *strings.Builder) {
	if len(m.visible) == 0 {
		b.WriteString(dimStyle.Render(emptyMessage(m.filter, m.counts)))
		b.WriteString("\n\n")
		return
	}

	for i, t := range m.visible {
		selected := m.focus == focusList && i == m.cursor
		b.WriteString(formatRow(t, selected))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func (m *tuiModel) writeStatus(b *strings.Builder) {
	if m.saveErr != nil {
		b.WriteString(errorStyle.Render("Not saved: " + m.saveErr.Error()))
		b.WriteString("\n")
	}
}

func emptyMessage(mode todo.FilterMode, counts todo.Counts) string {
	switch {
	case counts.All == 0:
		return "  No tasks yet."
	case mode == todo.FilterActive:
		return "  Nothing left to do."
	case mode == todo.FilterCompleted:
		return "  Nothing completed yet."
	default:
		return "  No tasks."
	}
}

func formatRow(t todo.Task, selected bool) string {
	pointer := "  "
	if selected {
		pointer = "> "
	}
	box := "[ ]"
	text := t.Text
	if t.Completed {
		box = "[x]"
		text = doneText.Render(text)
	}

	line := fmt.Sprintf("%s%s %s  %s", pointer, box, text, dateStyle.Render(t.Date))
	if selected {
		return selectedRow.Render(line)
	}
	return line
}
