// Package breathing runs paced breathing sessions as an explicit state
// machine: Idle, then Inhale, Hold, Exhale and PostHold repeating, with
// zero-length phases skipped. A Session is advanced by elapsed time; a Driver
// feeds it from a ticker.
package breathing

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrUnknownPattern indicates a pattern name that cannot be parsed.
var ErrUnknownPattern = errors.New("unknown breathing pattern")

// Phase is one step of a breathing cycle.
type Phase int

const (
	Idle Phase = iota
	Inhale
	Hold
	Exhale
	PostHold
)

var phaseLabels = [...]string{"Ready", "Inhale", "Hold", "Exhale", "Wait"}

// String returns the on-screen cue for the phase.
func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseLabels) {
		return "Unknown"
	}
	return phaseLabels[p]
}

// Pattern is the timing of one cycle.
type Pattern struct {
	Name     string
	Inhale   time.Duration
	Hold     time.Duration
	Exhale   time.Duration
	PostHold time.Duration
}

// Built-in patterns.
var (
	Even   = Pattern{Name: "4-4", Inhale: 4 * time.Second, Exhale: 4 * time.Second}
	Relax  = Pattern{Name: "4-7-8", Inhale: 4 * time.Second, Hold: 7 * time.Second, Exhale: 8 * time.Second}
	Box    = Pattern{Name: "4-4-4-4", Inhale: 4 * time.Second, Hold: 4 * time.Second, Exhale: 4 * time.Second, PostHold: 4 * time.Second}
	Preset = []Pattern{Even, Relax, Box}
)

// DefaultPattern is the pattern used when none is configured.
const DefaultPattern = "4-4"

// ParsePattern reads a dash-separated list of whole seconds. Two values are
// inhale-exhale, three inhale-hold-exhale, four add the hold after exhaling.
func ParsePattern(name string) (Pattern, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultPattern
	}
	parts := strings.Split(name, "-")
	secs := make([]time.Duration, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return Pattern{}, fmt.Errorf("%w: %q", ErrUnknownPattern, name)
		}
		secs[i] = time.Duration(n) * time.Second
	}

	p := Pattern{Name: name}
	switch len(secs) {
	case 2:
		p.Inhale, p.Exhale = secs[0], secs[1]
	case 3:
		p.Inhale, p.Hold, p.Exhale = secs[0], secs[1], secs[2]
	case 4:
		p.Inhale, p.Hold, p.Exhale, p.PostHold = secs[0], secs[1], secs[2], secs[3]
	default:
		return Pattern{}, fmt.Errorf("%w: %q", ErrUnknownPattern, name)
	}
	if p.Cycle() <= 0 {
		return Pattern{}, fmt.Errorf("%w: %q has no duration", ErrUnknownPattern, name)
	}
	return p, nil
}

// Duration returns how long ph lasts in this pattern.
func (p Pattern) Duration(ph Phase) time.Duration {
	switch ph {
	case Inhale:
		return p.Inhale
	case Hold:
		return p.Hold
	case Exhale:
		return p.Exhale
	case PostHold:
		return p.PostHold
	default:
		return 0
	}
}

// Cycle returns the length of one full cycle.
func (p Pattern) Cycle() time.Duration {
	return p.Inhale + p.Hold + p.Exhale + p.PostHold
}

// Result is the outcome of a stopped session.
type Result struct {
	Pattern string
	Cycles  int
	Elapsed time.Duration
}

// Session is a single breathing run. It is not safe for concurrent use.
type Session struct {
	pattern Pattern
	phase   Phase
	inPhase time.Duration
	elapsed time.Duration
	cycles  int
	stopped bool
}

// NewSession creates an idle session for p.
func NewSession(p Pattern) *Session {
	return &Session{pattern: p}
}

// Start enters the first phase and returns it. Starting a running or stopped
// session does nothing.
func (s *Session) Start() Phase {
	if s.phase == Idle && !s.stopped && s.pattern.Cycle() > 0 {
		s.phase = s.next(PostHold)
	}
	return s.phase
}

// Advance moves the session forward by dt and returns every phase entered on
// the way, in order. A cycle is counted each time the last phase ends.
func (s *Session) Advance(dt time.Duration) []Phase {
	if !s.Active() || dt <= 0 {
		return nil
	}
	s.elapsed += dt
	var entered []Phase
	for {
		remaining := s.pattern.Duration(s.phase) - s.inPhase
		if dt < remaining {
			s.inPhase += dt
			return entered
		}
		dt -= remaining
		s.inPhase = 0
		next := s.next(s.phase)
		if next <= s.phase {
			s.cycles++
		}
		s.phase = next
		entered = append(entered, next)
	}
}

// next returns the first phase after ph with a non-zero duration, wrapping
// around to Inhale.
func (s *Session) next(ph Phase) Phase {
	for range 4 {
		ph++
		if ph > PostHold {
			ph = Inhale
		}
		if s.pattern.Duration(ph) > 0 {
			return ph
		}
	}
	return Idle
}

// Stop ends the session and returns its result. Only the first call reports
// true; later calls are no-ops.
func (s *Session) Stop() (Result, bool) {
	if s.stopped {
		return Result{}, false
	}
	s.stopped = true
	s.phase = Idle
	s.inPhase = 0
	return Result{Pattern: s.pattern.Name, Cycles: s.cycles, Elapsed: s.elapsed}, true
}

// Active reports whether the session is running.
func (s *Session) Active() bool {
	return s.phase != Idle && !s.stopped
}

// Phase returns the current phase.
func (s *Session) Phase() Phase { return s.phase }

// Cycles returns the number of completed cycles.
func (s *Session) Cycles() int { return s.cycles }

// Pattern returns the session's pattern.
func (s *Session) Pattern() Pattern { return s.pattern }

// Progress returns how far through the current phase the session is, 0.0–1.0.
func (s *Session) Progress() float64 {
	d := s.pattern.Duration(s.phase)
	if d <= 0 {
		return 0
	}
	return min(float64(s.inPhase)/float64(d), 1)
}

// Remaining returns the time left in the current phase.
func (s *Session) Remaining() time.Duration {
	return max(s.pattern.Duration(s.phase)-s.inPhase, 0)
}
