package tui

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/secret-garden/garden/internal/arcade"
)

const (
	frameInterval = time.Second / 60
	cellW         = 10
	cellH         = 17
	fieldCols     = arcade.Width / cellW
	fieldRows     = arcade.Floor / cellH
)

type arcadeFrameMsg struct{ run int }

type arcadeView struct {
	game *arcade.Game
	run  int
}

func newArcadeView(rng *rand.Rand) arcadeView {
	return arcadeView{game: arcade.New(rng)}
}

func (a *arcadeView) frame() tea.Cmd {
	run := a.run
	return tea.Tick(frameInterval, func(time.Time) tea.Msg { return arcadeFrameMsg{run: run} })
}

func (m Model) handleArcadeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !key.Matches(msg, m.keys.Jump, m.keys.Up) {
		return m, nil
	}
	g := m.arcade.game
	if g.State() != arcade.Running {
		g.Start()
		m.arcade.run++
		return m, m.arcade.frame()
	}
	g.Jump()
	return m, nil
}

func (m Model) onArcadeFrame(msg arcadeFrameMsg) (tea.Model, tea.Cmd) {
	g := m.arcade.game
	if msg.run != m.arcade.run || g.State() != arcade.Running {
		return m, nil
	}
	if g.Step() {
		cmd := m.notify(m.engine.RecordGame(m.ctx, g.Score()))
		return m, cmd
	}
	return m, m.arcade.frame()
}

func (m Model) viewArcade() string {
	g := m.arcade.game
	high := m.engine.Snapshot().Stats.GameHigh

	var status string
	switch g.State() {
	case arcade.Ready:
		status = "Press space to start"
	case arcade.GameOver:
		status = fmt.Sprintf("Game over! Score %d. Press space to try again", g.Score())
	default:
		status = fmt.Sprintf("Score %d", g.Score())
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Header.Render("Zen Jumper")+"  "+m.styles.Dimmed.Render(fmt.Sprintf("best %d", high)),
		"",
		m.renderField(g),
		"",
		m.styles.Selected.Render(status),
	)
	return m.styles.Border.Padding(0, 1).Render(body)
}

// renderField rasterises the playfield onto a character grid.
func (m Model) renderField(g *arcade.Game) string {
	grid := make([][]rune, fieldRows)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", fieldCols))
	}
	fill := func(x0, y0, x1, y1 float64, ch rune) {
		for r := max(int(y0/cellH), 0); r < min(int((y1+cellH-1)/cellH), fieldRows); r++ {
			for c := max(int(x0/cellW), 0); c < min(int((x1+cellW-1)/cellW), fieldCols); c++ {
				grid[r][c] = ch
			}
		}
	}

	for _, ob := range g.Obstacles() {
		fill(ob.X, arcade.Floor-ob.H, ob.X+ob.W, arcade.Floor, '▓')
	}
	p := g.Player()
	fill(arcade.PlayerX, p.Y, arcade.PlayerX+arcade.PlayerSize, p.Y+arcade.PlayerSize, '█')

	lines := make([]string, 0, fieldRows+1)
	for _, row := range grid {
		lines = append(lines, string(row))
	}
	lines = append(lines, strings.Repeat("▔", fieldCols))

	field := strings.Join(lines, "\n")
	return lipgloss.NewStyle().Foreground(m.styles.Palette.Leaf).Render(field)
}
