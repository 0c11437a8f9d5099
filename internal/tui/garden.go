package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/secret-garden/garden/internal/companion"
	"github.com/secret-garden/garden/internal/theme"
)

const (
	barWidth     = 30
	maxNameLen   = 24
	questPrefix  = "Quest: "
	noQuestLabel = "No quests configured"
)

type gardenView struct {
	cursor     int
	quests     []string
	quest      string
	moodCursor int
	name       textinput.Model
}

func newGardenView(quests []string) gardenView {
	ti := textinput.New()
	ti.Placeholder = "Your name"
	ti.CharLimit = maxNameLen
	ti.Prompt = "› "
	return gardenView{quests: quests, name: ti}
}

func (m Model) handleGardenKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tasks := m.engine.Snapshot().Daily.Tasks
	switch {
	case key.Matches(msg, m.keys.Down):
		if len(tasks) > 0 {
			m.garden.cursor = (m.garden.cursor + 1) % len(tasks)
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if len(tasks) > 0 {
			m.garden.cursor = (m.garden.cursor - 1 + len(tasks)) % len(tasks)
		}
		return m, nil

	case key.Matches(msg, m.keys.Enter):
		if m.garden.cursor >= len(tasks) {
			return m, nil
		}
		events, err := m.engine.CompleteTask(m.ctx, tasks[m.garden.cursor].ID)
		if err != nil {
			m.logger.Warn("task completion rejected", zap.Error(err))
			return m, nil
		}
		cmd := m.notify(events)
		return m, cmd

	case key.Matches(msg, m.keys.RollQuest):
		m.garden.quest = companion.Pick(m.rng, m.garden.quests)
		return m, nil

	case key.Matches(msg, m.keys.DoneQuest):
		if m.garden.quest == "" {
			return m, nil
		}
		cmd := m.notify(m.engine.CompleteQuest(m.ctx))
		m.garden.quest = companion.Pick(m.rng, m.garden.quests)
		return m, cmd

	case key.Matches(msg, m.keys.Mood):
		m.overlay = OverlayMood
		m.garden.moodCursor = 0
		return m, nil
	}
	return m, nil
}

func (m Model) viewGarden() string {
	p := m.engine.Snapshot()
	prog := m.engine.Progress()
	week := m.engine.Weekly()
	st := m.engine.Stage()

	var sb strings.Builder

	sb.WriteString(m.styles.Header.Render(fmt.Sprintf("%s's Garden", p.Name)))
	sb.WriteString("  ")
	sb.WriteString(theme.StageGlyph(st) + " " + st.String())
	sb.WriteString("\n\n")

	next := fmt.Sprintf("%d/%d XP", prog.XP, prog.Next)
	if prog.Max {
		next = fmt.Sprintf("%d XP (max level)", prog.XP)
	}
	sb.WriteString(fmt.Sprintf("Level %d  %s  %s\n", prog.Level, m.styles.Bar(prog.Pct, barWidth), next))
	sb.WriteString(fmt.Sprintf("Streak %d day", p.Streak))
	if p.Streak != 1 {
		sb.WriteString("s")
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Weekly  %s  %d/%d", m.styles.Bar(week.Pct, barWidth), week.Count, week.Target))
	if week.Complete {
		sb.WriteString("  " + m.styles.Toast.Render("complete"))
	}
	sb.WriteString("\n\n")

	sb.WriteString(m.styles.Header.Render("Daily Rituals"))
	sb.WriteString("\n")
	for i, t := range p.Daily.Tasks {
		prefix := "  "
		if i == m.garden.cursor {
			prefix = "> "
		}
		box := "[ ]"
		label := fmt.Sprintf("%s (+%d XP)", t.Label, t.XP)
		if t.Done {
			box = "[✓]"
			label = m.styles.Done.Render(label)
		} else if i == m.garden.cursor {
			label = m.styles.Selected.Render(label)
		}
		sb.WriteString(prefix + box + " " + label + "\n")
	}
	sb.WriteString("\n")

	quest := noQuestLabel
	if m.garden.quest != "" {
		quest = questPrefix + m.garden.quest
	}
	sb.WriteString(m.styles.Header.Render("Side Quest"))
	sb.WriteString("\n  " + quest + "\n")

	return m.styles.Border.Padding(0, 1).Render(sb.String())
}

func (m Model) openRename() (tea.Model, tea.Cmd) {
	m.overlay = OverlayRename
	m.garden.name.SetValue(m.engine.Snapshot().Name)
	m.garden.name.CursorEnd()
	cmd := m.garden.name.Focus()
	return m, cmd
}

func (m Model) handleRenameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.garden.name.Blur()
		m.overlay = OverlayNone
		return m, nil

	case key.Matches(msg, m.keys.Enter):
		m.garden.name.Blur()
		m.overlay = OverlayNone
		cmd := m.notify(m.engine.Rename(m.ctx, m.garden.name.Value()))
		return m, cmd
	}
	var cmd tea.Cmd
	m.garden.name, cmd = m.garden.name.Update(msg)
	return m, cmd
}

func (m Model) viewRename() string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Header.Render("Rename your garden"),
		"",
		m.garden.name.View(),
		"",
		m.styles.Dimmed.Render("enter:save  esc:cancel"),
	)
	return m.styles.Border.Padding(1, 2).Render(body)
}

func (m Model) handleMoodKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	moods := m.engine.Rules().Moods
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.overlay = OverlayNone
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if len(moods) > 0 {
			m.garden.moodCursor = (m.garden.moodCursor + 1) % len(moods)
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if len(moods) > 0 {
			m.garden.moodCursor = (m.garden.moodCursor - 1 + len(moods)) % len(moods)
		}
		return m, nil

	case key.Matches(msg, m.keys.Enter):
		m.overlay = OverlayNone
		if m.garden.moodCursor >= len(moods) {
			return m, nil
		}
		events, err := m.engine.LogMood(m.ctx, moods[m.garden.moodCursor])
		if err != nil {
			m.logger.Warn("mood rejected", zap.Error(err))
			return m, nil
		}
		cmd := m.notify(events)
		return m, cmd
	}
	return m, nil
}

func (m Model) viewMood() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Header.Render("How are you feeling?"))
	sb.WriteString("\n\n")
	for i, mood := range m.engine.Rules().Moods {
		if i == m.garden.moodCursor {
			sb.WriteString("> " + m.styles.Selected.Render(mood) + "\n")
		} else {
			sb.WriteString("  " + mood + "\n")
		}
	}
	sb.WriteString("\n" + m.styles.Dimmed.Render("enter:log  esc:cancel"))
	return m.styles.Border.Padding(1, 2).Render(sb.String())
}
