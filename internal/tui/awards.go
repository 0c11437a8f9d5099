package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/secret-garden/garden/internal/certificate"
	"github.com/secret-garden/garden/internal/gamification"
	"github.com/secret-garden/garden/internal/theme"
)

func (m Model) viewAwards() string {
	statuses := m.engine.Achievements()

	var sb strings.Builder
	unlocked := 0
	for _, s := range statuses {
		if s.Unlocked {
			unlocked++
		}
	}
	sb.WriteString(m.styles.Header.Render("Achievements"))
	sb.WriteString(m.styles.Dimmed.Render(fmt.Sprintf("  %d/%d unlocked", unlocked, len(statuses))))
	sb.WriteString("\n")

	var category gamification.Category
	for _, s := range statuses {
		if s.Category != category {
			category = s.Category
			sb.WriteString("\n" + m.styles.Selected.Render(strings.ToUpper(string(category))) + "\n")
		}
		sb.WriteString(m.renderAchievement(s) + "\n")
	}
	return m.styles.Border.Padding(0, 1).Render(sb.String())
}

func (m Model) renderAchievement(s gamification.AchievementStatus) string {
	glyph := theme.AchievementGlyph(s.Icon, s.Unlocked)
	title := truncate(s.Title, 24)
	if !s.Unlocked {
		progress := fmt.Sprintf("%d/%d", min(s.Current, s.Min), s.Min)
		return fmt.Sprintf("  %s %-24s %s  %s", glyph, title,
			m.styles.Dimmed.Render(s.Desc), m.styles.Dimmed.Render(progress))
	}
	return fmt.Sprintf("  %s %-24s %s", glyph,
		lipgloss.NewStyle().Foreground(m.styles.Palette.Gold).Render(title), s.Desc)
}

// certificateView holds the rendered certificate while its overlay is open.
type certificateView struct {
	path     string
	cert     certificate.Certificate
	rendered string
	err      error
}

func newCertificateView(path string) certificateView {
	if path == "" {
		path = certificate.DefaultFile
	}
	return certificateView{path: path}
}

func (m Model) openCertificate() (tea.Model, tea.Cmd) {
	c := certificate.Build(m.engine.Snapshot(), m.engine.Achievements(), m.clock.Now())
	width := min(max(m.width-10, 40), 80)
	out, err := c.Render(m.styles.Palette.Name, width)
	if err != nil {
		m.logger.Warn("failed to render certificate", zap.Error(err))
		out = c.Markdown()
	}
	m.cert.cert = c
	m.cert.rendered = out
	m.cert.err = nil
	m.overlay = OverlayCertificate
	return m, nil
}

func (m Model) handleCertificateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape, m.keys.Certificate):
		m.overlay = OverlayNone
		return m, nil

	case key.Matches(msg, m.keys.Enter):
		if err := m.cert.cert.Write(m.cert.path); err != nil {
			m.logger.Error("failed to save certificate", zap.Error(err))
			m.cert.err = err
			return m, nil
		}
		m.overlay = OverlayNone
		cmd := m.toast("Certificate saved to " + m.cert.path)
		return m, cmd
	}
	return m, nil
}

func (c certificateView) viewOverlay(st theme.Styles, w, h int) string {
	footer := st.Dimmed.Render("enter:save to " + c.path + "  esc:close")
	if c.err != nil {
		footer = st.Error.Render(c.err.Error())
	}
	box := st.Border.Padding(0, 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, strings.TrimRight(c.rendered, "\n"), "", footer),
	)
	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, box)
}
