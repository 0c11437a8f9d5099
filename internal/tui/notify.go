package tui

import (
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/secret-garden/garden/internal/gamification"
)

const (
	toastTTL  = 3 * time.Second
	maxToasts = 3
)

type toastLine struct {
	id   int
	text string
}

type toastExpiredMsg struct{ id int }

// notifier is the TUI's gamification.Sink. It collects one batch of engine
// events so Update can turn them into toasts and a bell.
type notifier struct {
	toasts    []string
	bell      bool
	completed []gamification.Task
}

var _ gamification.Sink = (*notifier)(nil)

func (n *notifier) OnLevelUp(int) { n.bell = true }

func (n *notifier) OnAchievementUnlocked(string, string) { n.bell = true }

func (n *notifier) OnTaskCompleted(t gamification.Task) {
	n.completed = append(n.completed, t)
}

func (n *notifier) OnToast(message string) {
	n.toasts = append(n.toasts, message)
}

// notify dispatches events into the model's toast line and returns the
// commands that expire them and ring the bell.
func (m *Model) notify(events []gamification.Event) tea.Cmd {
	if len(events) == 0 {
		return nil
	}
	var n notifier
	gamification.Dispatch(&n, events)

	var cmds []tea.Cmd
	for _, text := range n.toasts {
		cmds = append(cmds, m.toast(text))
	}
	if n.bell && !m.muted {
		cmds = append(cmds, ring(m.bell))
	}
	return tea.Batch(cmds...)
}

// toast pushes a line onto the toast stack and schedules its removal.
func (m *Model) toast(text string) tea.Cmd {
	m.toastSeq++
	id := m.toastSeq
	m.toasts = append(m.toasts, toastLine{id: id, text: text})
	if len(m.toasts) > maxToasts {
		m.toasts = m.toasts[len(m.toasts)-maxToasts:]
	}
	return tea.Tick(toastTTL, func(time.Time) tea.Msg { return toastExpiredMsg{id: id} })
}

func (m *Model) expireToast(id int) {
	for i, t := range m.toasts {
		if t.id == id {
			m.toasts = append(m.toasts[:i], m.toasts[i+1:]...)
			return
		}
	}
}

// Toasts returns the visible toast lines, oldest first.
func (m Model) Toasts() []string {
	out := make([]string, len(m.toasts))
	for i, t := range m.toasts {
		out[i] = t.text
	}
	return out
}

func ring(w io.Writer) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		_, _ = io.WriteString(w, "\a")
		return nil
	}
}
