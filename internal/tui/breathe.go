package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"

	"github.com/secret-garden/garden/internal/breathing"
)

const (
	defaultBreatheTick = 100 * time.Millisecond
	minRadius          = 1.0
	maxRadius          = 6.0
)

type breatheTickMsg struct {
	run int
	dt  time.Duration
}

// breatheView owns one breathing session at a time. The circle radius is
// animated by a spring towards the size the current phase asks for.
type breatheView struct {
	pattern breathing.Pattern
	tick    time.Duration
	session *breathing.Session
	run     int

	spring   harmonica.Spring
	radius   float64
	velocity float64
}

func newBreatheView(p breathing.Pattern, tick time.Duration) breatheView {
	if tick <= 0 {
		tick = defaultBreatheTick
	}
	fps := max(int(time.Second/tick), 1)
	return breatheView{
		pattern: p,
		tick:    tick,
		spring:  harmonica.NewSpring(harmonica.FPS(fps), 4.0, 0.7),
		radius:  minRadius,
	}
}

func (b *breatheView) active() bool {
	return b.session != nil && b.session.Active()
}

func (b *breatheView) start() tea.Cmd {
	b.session = breathing.NewSession(b.pattern)
	b.session.Start()
	b.run++
	return b.next()
}

func (b *breatheView) stop() (breathing.Result, bool) {
	if b.session == nil {
		return breathing.Result{}, false
	}
	return b.session.Stop()
}

func (b *breatheView) next() tea.Cmd {
	run, dt := b.run, b.tick
	return tea.Tick(dt, func(time.Time) tea.Msg { return breatheTickMsg{run: run, dt: dt} })
}

// target is the radius the circle grows or shrinks towards in the current
// phase. Holds keep the size reached at the end of the previous phase.
func (b *breatheView) target() float64 {
	if b.session == nil {
		return minRadius
	}
	switch b.session.Phase() {
	case breathing.Inhale, breathing.Hold:
		return maxRadius
	default:
		return minRadius
	}
}

func (m Model) handleBreatheKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !key.Matches(msg, m.keys.Jump, m.keys.Enter) {
		return m, nil
	}
	if !m.breathe.active() {
		cmd := m.breathe.start()
		return m, cmd
	}
	res, ok := m.breathe.stop()
	if !ok {
		return m, nil
	}
	cmds := []tea.Cmd{m.notify(m.engine.FinishBreathing(m.ctx, res.Cycles))}
	if res.Cycles < 1 {
		cmds = append(cmds, m.toast("Finish a full cycle to earn XP."))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) onBreatheTick(msg breatheTickMsg) (tea.Model, tea.Cmd) {
	if msg.run != m.breathe.run || !m.breathe.active() {
		return m, nil
	}
	m.breathe.session.Advance(msg.dt)
	m.breathe.radius, m.breathe.velocity = m.breathe.spring.Update(
		m.breathe.radius, m.breathe.velocity, m.breathe.target())
	return m, m.breathe.next()
}

func (m Model) viewBreathe() string {
	b := m.breathe
	phase := breathing.Idle
	cycles := 0
	remaining := time.Duration(0)
	if b.session != nil && b.session.Active() {
		phase = b.session.Phase()
		cycles = b.session.Cycles()
		remaining = b.session.Remaining()
	}

	label := phase.String()
	if phase != breathing.Idle {
		label = fmt.Sprintf("%s  %ds", label, int(math.Ceil(remaining.Seconds())))
	}

	body := lipgloss.JoinVertical(lipgloss.Center,
		m.styles.Header.Render("Breathe  "+b.pattern.Name),
		"",
		lipgloss.NewStyle().Foreground(m.styles.Palette.Leaf).Render(circle(b.radius, int(maxRadius))),
		"",
		m.styles.Selected.Render(label),
		m.styles.Dimmed.Render(fmt.Sprintf("cycles %d", cycles)),
	)
	return m.styles.Border.Padding(1, 4).Render(body)
}

// circle draws a filled disc of radius r inside a square canvas of the given
// half-size. Columns are doubled so the disc looks round in a terminal.
func circle(r float64, half int) string {
	var sb strings.Builder
	for y := -half; y <= half; y++ {
		for x := -half; x <= half; x++ {
			if math.Hypot(float64(x), float64(y)) <= r {
				sb.WriteString("██")
			} else {
				sb.WriteString("  ")
			}
		}
		if y < half {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
