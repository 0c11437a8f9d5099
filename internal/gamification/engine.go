package gamification

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/secret-garden/garden/internal/clock"
)

var (
	// ErrUnknownTask indicates a task id that is not on today's list.
	ErrUnknownTask = errors.New("unknown task")
	// ErrUnknownMood indicates a mood that is not configured.
	ErrUnknownMood = errors.New("unknown mood")
)

// Toast messages shown for engine actions.
const (
	msgRitualComplete = "Ritual complete!"
	msgQuestComplete  = "Quest Complete!"
	msgWeeklyComplete = "Weekly challenge complete!"
	msgJournalSaved   = "Saved to your mind space."
	msgNewHighScore   = "New High Score!"
	msgNameUpdated    = "Name updated!"
	msgMoodLogged     = "Your garden acknowledges your feelings."
)

// Engine owns the profile of one installation. Every mutation runs
// mutate → level → persist → evaluate → persist under a single lock and
// returns the events it produced. Persistence failures are logged and do not
// abort the operation.
type Engine struct {
	mu        sync.Mutex
	store     *Store
	clock     clock.Clock
	logger    *zap.Logger
	rules     Rules
	evaluator *Evaluator
	profile   *Profile
	journal   []JournalEntry
}

// New loads the stored profile and journal and returns an engine over them.
// Callers run CheckDailyReset once after New, as a fresh load would.
func New(ctx context.Context, store *Store, rules Rules, clk clock.Clock, logger *zap.Logger) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clk == nil {
		clk = clock.System{}
	}
	rules = rules.clone()

	p, found, err := store.LoadProfile(ctx, newProfile(rules, clk.Now()))
	if err != nil {
		return nil, err
	}
	p.normalize(rules)
	if !found {
		logger.Info("no stored profile, starting a new garden")
	}

	journal, err := store.LoadJournal(ctx)
	if err != nil {
		return nil, err
	}

	return &Engine{
		store:     store,
		clock:     clk,
		logger:    logger,
		rules:     rules,
		evaluator: NewEvaluator(rules.Achievements),
		profile:   p,
		journal:   journal,
	}, nil
}

// CheckDailyReset applies the new-day rule: a new date clears the task list,
// the streak continues from yesterday or restarts at 1, and the weekly window
// rolls over if the ISO week changed. Achievements are evaluated afterwards
// since the streak may have moved.
func (e *Engine) CheckDailyReset(ctx context.Context) []Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.checkDailyResetLocked(ctx)
}

// Refresh re-runs the daily check. Long-lived hosts call it periodically so a
// session left open past midnight rolls over.
func (e *Engine) Refresh(ctx context.Context) []Event {
	return e.CheckDailyReset(ctx)
}

func (e *Engine) checkDailyResetLocked(ctx context.Context) []Event {
	p := e.profile
	now := e.clock.Now()
	today := clock.Date(now)

	changed := e.rotateWeeklyLocked(now)
	if p.LastVisit == nil || *p.LastVisit != today {
		if p.Daily.Date != today {
			p.Daily.Date = today
			p.Daily.Tasks = e.rules.freshTasks()
		}
		yesterday, err := clock.Yesterday(today)
		if err == nil && p.LastVisit != nil && *p.LastVisit == yesterday {
			p.Streak++
		} else {
			p.Streak = 1
		}
		p.LastVisit = &today
		changed = true
		e.logger.Info("daily reset", zap.String("date", today), zap.Int("streak", p.Streak))
	}
	if changed {
		e.persistLocked(ctx)
	}
	return e.evaluateLocked(ctx)
}

// rotateWeeklyLocked rolls the weekly window over when now is in a new ISO
// week. It runs before every read-modify of the weekly count.
func (e *Engine) rotateWeeklyLocked(now time.Time) bool {
	id := clock.WeekID(now)
	if !rotateWeekly(&e.profile.Weekly, id, e.rules.WeeklyTarget) {
		return false
	}
	e.logger.Info("weekly challenge rolled over", zap.String("week", id))
	return true
}

// AddXP awards amount XP. Zero or negative amounts are a no-op.
func (e *Engine) AddXP(ctx context.Context, amount int) []Event {
	if amount <= 0 {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.commitLocked(ctx, amount)
}

// commitLocked awards amount (when positive), persists and evaluates
// achievements. It is the tail of every mutation.
func (e *Engine) commitLocked(ctx context.Context, amount int) []Event {
	var events []Event
	if amount > 0 {
		for _, lvl := range awardXP(e.profile, e.rules.Levels, amount) {
			e.logger.Info("level up", zap.Int("level", lvl), zap.Int("xp", e.profile.XP))
			events = append(events, levelUp(lvl))
		}
	}
	e.persistLocked(ctx)
	return append(events, e.evaluateLocked(ctx)...)
}

// evaluateLocked runs one achievement scan and persists once if anything
// unlocked.
func (e *Engine) evaluateLocked(ctx context.Context) []Event {
	newly := e.evaluator.Evaluate(e.profile)
	if len(newly) == 0 {
		return nil
	}
	e.persistLocked(ctx)
	events := make([]Event, 0, len(newly))
	for _, a := range newly {
		e.logger.Info("achievement unlocked", zap.String("id", a.ID))
		events = append(events, unlocked(a))
	}
	return events
}

func (e *Engine) persistLocked(ctx context.Context) {
	if err := e.store.SaveProfile(ctx, e.profile); err != nil {
		e.logger.Error("failed to save profile", zap.Error(err))
	}
}

// CompleteTask marks today's task id done and awards its XP. Completing a task
// that is already done is a no-op.
func (e *Engine) CompleteTask(ctx context.Context, id string) ([]Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	tasks := e.profile.Daily.Tasks
	for i := range tasks {
		if tasks[i].ID != id {
			continue
		}
		if tasks[i].Done {
			return nil, nil
		}
		tasks[i].Done = true
		events := []Event{taskCompleted(tasks[i])}
		events = append(events, e.commitLocked(ctx, tasks[i].XP)...)
		return append(events, toast(msgRitualComplete)), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownTask, id)
}

// CompleteQuest counts a finished quest toward the totals and the weekly
// challenge and awards quest XP.
func (e *Engine) CompleteQuest(ctx context.Context) []Event {
	e.mu.Lock()
	defer e.mu.Unlock()

	p := e.profile
	p.Stats.Quests++
	e.rotateWeeklyLocked(e.clock.Now())
	p.Weekly.Count++

	events := e.commitLocked(ctx, e.rules.Awards.Quest)
	events = append(events, toast(msgQuestComplete))
	if p.Weekly.Count == p.Weekly.Target {
		events = append(events, toast(msgWeeklyComplete))
	}
	return events
}

// FinishBreathing records a breathing session. Sessions stopped before a
// full cycle earn nothing.
func (e *Engine) FinishBreathing(ctx context.Context, cycles int) []Event {
	if cycles < 1 {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	e.profile.Stats.Breath++
	return e.commitLocked(ctx, e.rules.Awards.Breath)
}

// SaveJournal prepends a journal entry and awards journal XP. Blank text is
// ignored.
func (e *Engine) SaveJournal(ctx context.Context, text string) []Event {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	entry := JournalEntry{
		ID:   uuid.NewString(),
		Date: e.clock.Now().Format(JournalDateLayout),
		Text: text,
	}
	e.journal = append([]JournalEntry{entry}, e.journal...)
	if err := e.store.SaveJournal(ctx, e.journal); err != nil {
		e.logger.Error("failed to save journal", zap.Error(err))
	}

	e.profile.Stats.Journal++
	events := e.commitLocked(ctx, e.rules.Awards.Journal)
	return append(events, toast(msgJournalSaved))
}

// RecordGame records a finished arcade run: a new high score is kept and
// half the score is awarded as XP.
func (e *Engine) RecordGame(ctx context.Context, score int) []Event {
	e.mu.Lock()
	defer e.mu.Unlock()

	var events []Event
	newHigh := score > e.profile.Stats.GameHigh
	if newHigh {
		e.profile.Stats.GameHigh = score
		events = append(events, toast(msgNewHighScore))
	}
	xp := score / 2
	if !newHigh && xp <= 0 {
		return nil
	}
	return append(events, e.commitLocked(ctx, xp)...)
}

// LogMood records a mood check-in.
func (e *Engine) LogMood(ctx context.Context, mood string) ([]Event, error) {
	mood = strings.ToLower(strings.TrimSpace(mood))
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.rules.validMood(mood) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMood, mood)
	}
	e.logger.Debug("mood logged", zap.String("mood", mood))
	events := []Event{toast(msgMoodLogged)}
	return append(events, e.commitLocked(ctx, e.rules.Awards.Mood)...), nil
}

// Rename sets the display name. Blank names are ignored.
func (e *Engine) Rename(ctx context.Context, name string) []Event {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	e.profile.Name = name
	e.persistLocked(ctx)
	return []Event{toast(msgNameUpdated)}
}

// Reset deletes both records and starts over from defaults, then runs the
// daily check as a fresh load would.
func (e *Engine) Reset(ctx context.Context) ([]Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.store.Clear(ctx); err != nil {
		return nil, err
	}
	e.profile = newProfile(e.rules, e.clock.Now())
	e.journal = []JournalEntry{}
	e.logger.Info("garden reset")
	return e.checkDailyResetLocked(ctx), nil
}

// SetRules swaps the progression configuration. The stored level is raised to
// match the new table but never lowered; levels gained that way are reported
// and the achievement grid is rescanned. Today's tasks keep their current
// definitions until the next daily reset.
func (e *Engine) SetRules(ctx context.Context, rules Rules) []Event {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.rules = rules.clone()
	e.evaluator = NewEvaluator(e.rules.Achievements)
	var events []Event
	for _, lvl := range awardXP(e.profile, e.rules.Levels, 0) {
		e.logger.Info("level up", zap.Int("level", lvl), zap.Int("xp", e.profile.XP))
		events = append(events, levelUp(lvl))
	}
	e.profile.normalize(e.rules)
	e.logger.Info("progression rules updated",
		zap.Int("levels", len(e.rules.Levels)),
		zap.Int("achievements", len(e.rules.Achievements)))
	return append(events, e.commitLocked(ctx, 0)...)
}

// Rules returns a copy of the active configuration.
func (e *Engine) Rules() Rules {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rules.clone()
}

// Snapshot returns a deep copy of the current profile.
func (e *Engine) Snapshot() *Profile {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.profile.clone()
}

// Progress returns the level bar state.
func (e *Engine) Progress() Progress {
	e.mu.Lock()
	defer e.mu.Unlock()
	return progressFor(e.profile, e.rules.Levels)
}

// Weekly returns the weekly challenge as it stands this week. A window left
// over from an earlier week reads as empty without being rewritten.
func (e *Engine) Weekly() WeeklyProgress {
	e.mu.Lock()
	defer e.mu.Unlock()
	w := e.profile.Weekly
	rotateWeekly(&w, clock.WeekID(e.clock.Now()), e.rules.WeeklyTarget)
	return weeklyProgress(w)
}

// Achievements returns the full achievement grid.
func (e *Engine) Achievements() []AchievementStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.evaluator.Status(e.profile)
}

// Journal returns up to limit entries, newest first. A limit of zero or less
// returns everything.
func (e *Engine) Journal(limit int) []JournalEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := len(e.journal)
	if limit > 0 && limit < n {
		n = limit
	}
	return append([]JournalEntry{}, e.journal[:n]...)
}

// Stage returns the garden's growth stage.
func (e *Engine) Stage() Stage {
	e.mu.Lock()
	defer e.mu.Unlock()
	return StageFor(e.profile.Level)
}
