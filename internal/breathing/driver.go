package breathing

import (
	"context"
	"sync"
	"time"
)

// PhaseFunc is called for each phase the driver enters.
type PhaseFunc func(phase Phase, cycles int)

// Driver runs a Session off a ticker until it is stopped, its context ends,
// or a target number of cycles completes.
type Driver struct {
	session  *Session
	interval time.Duration
	onPhase  PhaseFunc

	stopOnce sync.Once
	stop     chan struct{}
}

// NewDriver creates a driver that advances s every interval.
func NewDriver(s *Session, interval time.Duration, onPhase PhaseFunc) *Driver {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	return &Driver{
		session:  s,
		interval: interval,
		onPhase:  onPhase,
		stop:     make(chan struct{}),
	}
}

// Run blocks until the session ends and returns its result. A target of zero
// or less runs until Stop or ctx cancellation.
func (d *Driver) Run(ctx context.Context, target int) Result {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.emit(d.session.Start())
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return d.finish()
		case <-d.stop:
			return d.finish()
		case now := <-ticker.C:
			for _, ph := range d.session.Advance(now.Sub(last)) {
				d.emit(ph)
			}
			last = now
			if target > 0 && d.session.Cycles() >= target {
				return d.finish()
			}
		}
	}
}

// Stop asks Run to return. It is safe to call any number of times and from
// any goroutine.
func (d *Driver) Stop() {
	d.stopOnce.Do(func() { close(d.stop) })
}

func (d *Driver) emit(ph Phase) {
	if d.onPhase != nil {
		d.onPhase(ph, d.session.Cycles())
	}
}

func (d *Driver) finish() Result {
	res, _ := d.session.Stop()
	return res
}
