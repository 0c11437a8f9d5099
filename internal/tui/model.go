// Package tui is the Bubble Tea front end for the garden. It renders engine
// state, forwards key presses to engine operations and turns the returned
// events into toasts.
package tui

import (
	"context"
	"io"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/secret-garden/garden/internal/breathing"
	"github.com/secret-garden/garden/internal/clock"
	"github.com/secret-garden/garden/internal/companion"
	"github.com/secret-garden/garden/internal/gamification"
	"github.com/secret-garden/garden/internal/prefs"
	"github.com/secret-garden/garden/internal/theme"
)

// Tab identifies a page of the TUI.
type Tab int

const (
	TabGarden Tab = iota
	TabBreathe
	TabJournal
	TabArcade
	TabAwards
	tabCount
)

var tabNames = [...]string{"Garden", "Breathe", "Journal", "Arcade", "Awards"}

func (t Tab) String() string {
	if t < 0 || t >= tabCount {
		return "?"
	}
	return tabNames[t]
}

// Overlay identifies which modal is active.
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlayRename
	OverlayMood
	OverlayCertificate
	OverlayZen
)

const refreshInterval = time.Minute

type refreshMsg struct{}

// RulesChangedMsg carries a reloaded configuration into a running program.
type RulesChangedMsg struct {
	Rules   gamification.Rules
	Quests  []string
	Prompts []string
}

// Options configures a Model.
type Options struct {
	Engine  *gamification.Engine
	Prefs   *prefs.Prefs
	Logger  *zap.Logger
	Clock   clock.Clock
	Pattern breathing.Pattern
	// Tick is how often the breathing session advances.
	Tick            time.Duration
	Quests          []string
	Prompts         []string
	CertificatePath string
	// Bell receives the terminal bell on level-ups and unlocks. Nil
	// disables it.
	Bell io.Writer
	Rand *rand.Rand
	// Pending are events produced before the program started, shown as
	// the first toasts.
	Pending []gamification.Event
}

// Model is the root Bubble Tea model.
type Model struct {
	ctx    context.Context
	engine *gamification.Engine
	prefs  *prefs.Prefs
	logger *zap.Logger
	clock  clock.Clock
	rng    *rand.Rand
	bell   io.Writer

	keys   KeyMap
	styles theme.Styles
	muted  bool
	width  int
	height int

	tab     Tab
	overlay Overlay

	toasts   []toastLine
	toastSeq int
	initCmd  tea.Cmd

	garden  gardenView
	breathe breatheView
	journal journalView
	arcade  arcadeView
	cert    certificateView
}

// New creates the root model. Preference read failures are logged and the
// defaults used.
func New(ctx context.Context, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.System{}
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	quests := opts.Quests
	if len(quests) == 0 {
		quests = companion.DefaultQuests
	}
	prompts := opts.Prompts
	if len(prompts) == 0 {
		prompts = companion.DefaultPrompts
	}
	pattern := opts.Pattern
	if pattern.Cycle() <= 0 {
		pattern = breathing.Even
	}

	m := Model{
		ctx:     ctx,
		engine:  opts.Engine,
		prefs:   opts.Prefs,
		logger:  logger,
		clock:   clk,
		rng:     rng,
		bell:    opts.Bell,
		keys:    DefaultKeyMap(),
		styles:  theme.NewStyles(theme.Light),
		garden:  newGardenView(quests),
		breathe: newBreatheView(pattern, opts.Tick),
		journal: newJournalView(prompts),
		arcade:  newArcadeView(rng),
		cert:    newCertificateView(opts.CertificatePath),
	}
	m.garden.quest = companion.Pick(rng, quests)
	m.journal.prompt = companion.Pick(rng, prompts)
	m.journal.applyPrompt()

	if m.prefs != nil {
		name, err := m.prefs.Theme(ctx)
		if err != nil {
			logger.Warn("failed to read theme preference", zap.Error(err))
		}
		m.styles = theme.NewStyles(theme.ForName(name))
		muted, err := m.prefs.Muted(ctx)
		if err != nil {
			logger.Warn("failed to read mute preference", zap.Error(err))
		}
		m.muted = muted
	}
	m.initCmd = m.notify(opts.Pending)
	return m
}

// Init schedules the minute refresh and expiry of any pending toasts.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.initCmd, refreshTick())
}

func refreshTick() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg { return refreshMsg{} })
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.journal.resize(msg.Width)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case refreshMsg:
		cmd := tea.Batch(m.notify(m.engine.Refresh(m.ctx)), refreshTick())
		return m, cmd

	case toastExpiredMsg:
		m.expireToast(msg.id)
		return m, nil

	case breatheTickMsg:
		return m.onBreatheTick(msg)

	case arcadeFrameMsg:
		return m.onArcadeFrame(msg)

	case RulesChangedMsg:
		events := m.engine.SetRules(m.ctx, msg.Rules)
		if len(msg.Quests) > 0 {
			m.garden.quests = msg.Quests
		}
		if len(msg.Prompts) > 0 {
			m.journal.prompts = msg.Prompts
		}
		m.logger.Info("applied reloaded rules")
		cmd := m.notify(events)
		return m, cmd
	}

	if m.overlay == OverlayRename {
		var cmd tea.Cmd
		m.garden.name, cmd = m.garden.name.Update(msg)
		return m, cmd
	}
	if m.tab == TabJournal && m.journal.editor.Focused() {
		var cmd tea.Cmd
		m.journal.editor, cmd = m.journal.editor.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.stopActivities()
		return m, tea.Quit
	}

	switch m.overlay {
	case OverlayRename:
		return m.handleRenameKey(msg)
	case OverlayMood:
		return m.handleMoodKey(msg)
	case OverlayCertificate:
		return m.handleCertificateKey(msg)
	case OverlayZen:
		if key.Matches(msg, m.keys.Escape, m.keys.Zen) {
			m.overlay = OverlayNone
		}
		return m, nil
	}

	if m.tab == TabJournal && m.journal.editor.Focused() {
		return m.handleEditorKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.stopActivities()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Tab):
		return m.switchTab((m.tab + 1) % tabCount)

	case key.Matches(msg, m.keys.ShiftTab):
		return m.switchTab((m.tab + tabCount - 1) % tabCount)

	case key.Matches(msg, m.keys.Tab1):
		return m.switchTab(TabGarden)

	case key.Matches(msg, m.keys.Tab2):
		return m.switchTab(TabBreathe)

	case key.Matches(msg, m.keys.Tab3):
		return m.switchTab(TabJournal)

	case key.Matches(msg, m.keys.Tab4):
		return m.switchTab(TabArcade)

	case key.Matches(msg, m.keys.Tab5):
		return m.switchTab(TabAwards)

	case key.Matches(msg, m.keys.Zen):
		m.overlay = OverlayZen
		return m, nil

	case key.Matches(msg, m.keys.Theme):
		return m.toggleTheme()

	case key.Matches(msg, m.keys.Mute):
		return m.toggleMute()

	case key.Matches(msg, m.keys.Rename):
		return m.openRename()

	case key.Matches(msg, m.keys.Certificate):
		return m.openCertificate()
	}

	switch m.tab {
	case TabGarden:
		return m.handleGardenKey(msg)
	case TabBreathe:
		return m.handleBreatheKey(msg)
	case TabJournal:
		return m.handleJournalKey(msg)
	case TabArcade:
		return m.handleArcadeKey(msg)
	}
	return m, nil
}

// switchTab moves to t. Leaving the arcade pauses a running game; the
// breathing session keeps going in the background.
func (m Model) switchTab(t Tab) (tea.Model, tea.Cmd) {
	if m.tab == TabArcade && t != TabArcade {
		m.arcade.game.Stop()
	}
	m.tab = t
	return m, nil
}

// stopActivities ends a running breathing session so its cycles are
// credited before the program exits. The events have no screen left to
// show on.
func (m *Model) stopActivities() {
	if res, ok := m.breathe.stop(); ok {
		_ = m.engine.FinishBreathing(m.ctx, res.Cycles)
	}
	m.arcade.game.Stop()
}

func (m Model) toggleTheme() (tea.Model, tea.Cmd) {
	next := theme.Dark.Name
	if m.styles.Palette.Name == theme.Dark.Name {
		next = theme.Light.Name
	}
	if m.prefs != nil {
		if err := m.prefs.SetTheme(m.ctx, next); err != nil {
			m.logger.Error("failed to save theme preference", zap.Error(err))
		}
	}
	m.styles = theme.NewStyles(theme.ForName(next))
	return m, nil
}

func (m Model) toggleMute() (tea.Model, tea.Cmd) {
	m.muted = !m.muted
	if m.prefs != nil {
		if err := m.prefs.SetMuted(m.ctx, m.muted); err != nil {
			m.logger.Error("failed to save mute preference", zap.Error(err))
		}
	}
	if m.muted {
		cmd := m.toast("Sound off")
		return m, cmd
	}
	cmd := m.toast("Sound on")
	return m, cmd
}

// Tab returns the active tab.
func (m Model) Tab() Tab { return m.tab }

// Overlay returns the active overlay.
func (m Model) Overlay() Overlay { return m.overlay }

// View renders the full TUI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	switch m.overlay {
	case OverlayZen:
		return m.viewZen()
	case OverlayCertificate:
		return m.cert.viewOverlay(m.styles, m.width, m.height)
	}

	var body string
	switch m.tab {
	case TabGarden:
		body = m.viewGarden()
	case TabBreathe:
		body = m.viewBreathe()
	case TabJournal:
		body = m.viewJournal()
	case TabArcade:
		body = m.viewArcade()
	case TabAwards:
		body = m.viewAwards()
	}

	switch m.overlay {
	case OverlayRename:
		body = m.viewRename()
	case OverlayMood:
		body = m.viewMood()
	}

	sections := []string{
		m.viewTabs(),
		body,
		m.viewToasts(),
		m.styles.Dimmed.Render("  " + m.helpLine()),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) viewTabs() string {
	parts := make([]string, 0, tabCount)
	for t := range tabCount {
		label := tabNames[t]
		if t == m.tab {
			parts = append(parts, m.styles.TabOn.Render(label))
		} else {
			parts = append(parts, m.styles.Tab.Render(label))
		}
	}
	sound := "♪ on"
	if m.muted {
		sound = "♪ off"
	}
	bar := "  " + strings.Join(parts, " ") + "  " + m.styles.Dimmed.Render(sound)
	return lipgloss.NewStyle().
		Width(max(m.width, 40)).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(m.styles.Palette.Border).
		Render(bar)
}

func (m Model) viewToasts() string {
	if len(m.toasts) == 0 {
		return ""
	}
	return "  " + m.styles.Toast.Render(strings.Join(m.Toasts(), "  ·  "))
}

func (m Model) helpLine() string {
	common := "tab:switch  n:rename  c:certificate  z:zen  t:theme  s:sound  q:quit"
	switch m.tab {
	case TabGarden:
		return "j/k:select  enter:complete  r:roll quest  x:quest done  m:mood  " + common
	case TabBreathe:
		return "space:start/stop  " + common
	case TabJournal:
		if m.journal.editor.Focused() {
			return "ctrl+s:save  esc:stop writing"
		}
		return "i:write  " + common
	case TabArcade:
		return "space:start/jump  " + common
	}
	return common
}

func (m Model) viewZen() string {
	st := m.engine.Stage()
	box := m.styles.Border.Padding(2, 6).Render(
		lipgloss.JoinVertical(lipgloss.Center,
			theme.StageGlyph(st),
			"",
			m.styles.Header.Render("Just breathe."),
			m.styles.Dimmed.Render("esc to return"),
		),
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
