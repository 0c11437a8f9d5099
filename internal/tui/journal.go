package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/secret-garden/garden/internal/companion"
)

const recentEntries = 5

type journalView struct {
	prompts []string
	prompt  string
	reply   string
	editor  textarea.Model
}

func newJournalView(prompts []string) journalView {
	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.SetHeight(4)
	ta.SetWidth(60)
	ta.CharLimit = 2000
	return journalView{prompts: prompts, editor: ta}
}

func (j *journalView) applyPrompt() {
	j.editor.Placeholder = j.prompt
}

func (j *journalView) resize(width int) {
	j.editor.SetWidth(min(max(width-8, 20), 100))
}

func (m Model) handleJournalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Write, m.keys.Enter) {
		m.journal.reply = ""
		cmd := m.journal.editor.Focus()
		return m, cmd
	}
	return m, nil
}

// handleEditorKey routes keys while the journal editor has focus. Only the
// save, blur and interrupt keys are intercepted.
func (m Model) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.journal.editor.Blur()
		return m, nil

	case key.Matches(msg, m.keys.Save):
		text := m.journal.editor.Value()
		if strings.TrimSpace(text) == "" {
			return m, nil
		}
		events := m.engine.SaveJournal(m.ctx, text)
		m.journal.reply = companion.Reply(text)
		m.journal.editor.Reset()
		m.journal.editor.Blur()
		m.journal.prompt = companion.Pick(m.rng, m.journal.prompts)
		m.journal.applyPrompt()
		cmd := m.notify(events)
		return m, cmd
	}
	var cmd tea.Cmd
	m.journal.editor, cmd = m.journal.editor.Update(msg)
	return m, cmd
}

func (m Model) viewJournal() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Header.Render("Mind Space"))
	sb.WriteString("\n")
	sb.WriteString(m.styles.Dimmed.Render(m.journal.prompt))
	sb.WriteString("\n\n")
	sb.WriteString(m.journal.editor.View())
	sb.WriteString("\n")
	if m.journal.reply != "" {
		sb.WriteString("\n" + m.styles.Toast.Render("🌿 "+m.journal.reply) + "\n")
	}

	entries := m.engine.Journal(recentEntries)
	if len(entries) > 0 {
		sb.WriteString("\n" + m.styles.Header.Render("Recent entries") + "\n")
		for _, e := range entries {
			line := strings.ReplaceAll(e.Text, "\n", " ")
			sb.WriteString(m.styles.Dimmed.Render(e.Date) + "  " + truncate(line, 60) + "\n")
		}
	}
	return m.styles.Border.Padding(0, 1).Render(sb.String())
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
