// Package arcade is the garden's runner minigame: a square jumps over
// obstacles sliding in from the right. The game is a frame-stepped state
// machine (Ready, Running, GameOver); the host supplies the frame clock and
// input.
package arcade

import "math/rand/v2"

// State is the game's lifecycle state.
type State int

const (
	Ready State = iota
	Running
	GameOver
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Running:
		return "running"
	case GameOver:
		return "game over"
	default:
		return "unknown"
	}
}

// Field geometry and physics, in pixels and pixels per frame.
const (
	Width       = 600
	Floor       = 170
	PlayerX     = 50
	PlayerSize  = 20
	GroundY     = Floor - PlayerSize
	JumpPower   = -10.0
	Gravity     = 0.6
	ObstacleW   = 20
	ObstacleH   = 30
	Speed       = 4
	SpawnChance = 0.015
)

// Player is the jumping square. Y is its top edge.
type Player struct {
	Y        float64
	DY       float64
	Grounded bool
}

// Obstacle is a block resting on the floor. X is its left edge.
type Obstacle struct {
	X float64
	W float64
	H float64
}

// Game is one runner session. It is not safe for concurrent use.
type Game struct {
	rng       *rand.Rand
	state     State
	player    Player
	obstacles []Obstacle
	score     int
	frames    int
	spawn     float64
}

// New creates a game in the Ready state drawing spawns from rng.
func New(rng *rand.Rand) *Game {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Game{rng: rng, spawn: SpawnChance, player: Player{Y: GroundY, Grounded: true}}
}

// Start begins a fresh run from Ready or GameOver.
func (g *Game) Start() {
	if g.state == Running {
		return
	}
	g.state = Running
	g.score = 0
	g.frames = 0
	g.obstacles = g.obstacles[:0]
	g.player = Player{Y: GroundY, Grounded: true}
}

// Jump launches the player. It only works on the ground during a run and
// reports whether the jump happened.
func (g *Game) Jump() bool {
	if g.state != Running || !g.player.Grounded {
		return false
	}
	g.player.DY = JumpPower
	g.player.Grounded = false
	return true
}

// Step advances one frame. It reports true exactly on the frame the run ends
// in a collision.
func (g *Game) Step() bool {
	if g.state != Running {
		return false
	}
	g.frames++

	p := &g.player
	p.DY += Gravity
	p.Y += p.DY
	if p.Y > GroundY {
		p.Y = GroundY
		p.DY = 0
		p.Grounded = true
	}

	if g.rng.Float64() < g.spawn {
		g.obstacles = append(g.obstacles, Obstacle{X: Width, W: ObstacleW, H: ObstacleH})
	}

	kept := g.obstacles[:0]
	for _, ob := range g.obstacles {
		ob.X -= Speed
		if g.collides(ob) {
			g.state = GameOver
			return true
		}
		if ob.X+ob.W < 0 {
			g.score++
			continue
		}
		kept = append(kept, ob)
	}
	g.obstacles = kept
	return false
}

func (g *Game) collides(ob Obstacle) bool {
	p := g.player
	return PlayerX < ob.X+ob.W &&
		PlayerX+PlayerSize > ob.X &&
		p.Y < Floor &&
		p.Y+PlayerSize > Floor-ob.H
}

// Stop abandons a run without producing an outcome. It is a no-op unless the
// game is running.
func (g *Game) Stop() {
	if g.state == Running {
		g.state = Ready
	}
}

// State returns the current state.
func (g *Game) State() State { return g.state }

// Score returns the obstacles cleared in the current or last run.
func (g *Game) Score() int { return g.score }

// Frames returns the frames stepped in the current or last run.
func (g *Game) Frames() int { return g.frames }

// Player returns the player's position.
func (g *Game) Player() Player { return g.player }

// Obstacles returns a copy of the obstacles on the field.
func (g *Game) Obstacles() []Obstacle {
	return append([]Obstacle(nil), g.obstacles...)
}
