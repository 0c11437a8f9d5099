package gamification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/secret-garden/garden/internal/clock"
	"github.com/secret-garden/garden/internal/storage"
)

// countingStore counts profile writes on top of an in-memory backend.
type countingStore struct {
	*storage.MemoryStore
	mu      sync.Mutex
	puts    int
	failPut bool
}

func (c *countingStore) Put(ctx context.Context, key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failPut {
		return errors.New("disk full")
	}
	if key == ProfileKey {
		c.puts++
	}
	return c.MemoryStore.Put(ctx, key, value)
}

func (c *countingStore) profilePuts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.puts
}

type harness struct {
	engine *Engine
	kv     *countingStore
	clock  *clock.Fixed
}

// newHarness builds an engine on an empty store at day and runs the first
// daily check, the way a fresh load does.
func newHarness(t *testing.T) *harness {
	t.Helper()
	kv := &countingStore{MemoryStore: storage.NewMemoryStore()}
	clk := &clock.Fixed{T: day}
	return openHarness(t, kv, clk)
}

func openHarness(t *testing.T, kv *countingStore, clk *clock.Fixed) *harness {
	t.Helper()
	e, err := New(context.Background(), NewStore(kv, nil), DefaultRules(), clk, nil)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	e.CheckDailyReset(context.Background())
	return &harness{engine: e, kv: kv, clock: clk}
}

func kinds(events []Event) []EventKind {
	out := make([]EventKind, len(events))
	for i, ev := range events {
		out[i] = ev.Kind
	}
	return out
}

func TestEngine_FreshInstall(t *testing.T) {
	h := newHarness(t)
	p := h.engine.Snapshot()

	if p.XP != 0 || p.Level != 1 || len(p.Achievements) != 0 {
		t.Errorf("fresh profile = xp %d level %d achievements %v", p.XP, p.Level, p.Achievements)
	}
	if p.Streak != 1 {
		t.Errorf("Streak = %d, want 1 after the first visit", p.Streak)
	}
	if p.LastVisit == nil || *p.LastVisit != "2026-10-14" {
		t.Errorf("LastVisit = %v, want 2026-10-14", p.LastVisit)
	}
}

func TestEngine_AddXP_LevelUpOnce(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.engine.AddXP(ctx, 95)

	events := h.engine.AddXP(ctx, 10)
	p := h.engine.Snapshot()
	if p.XP != 105 || p.Level != 2 {
		t.Fatalf("xp/level = %d/%d, want 105/2", p.XP, p.Level)
	}
	var ups []int
	for _, ev := range events {
		if ev.Kind == EventLevelUp {
			ups = append(ups, ev.Level)
		}
	}
	if diff := cmp.Diff([]int{2}, ups); diff != "" {
		t.Errorf("level-up events (-want +got):\n%s", diff)
	}
	if events[0].Message != "Level Up! Welcome to Level 2 🌟" {
		t.Errorf("Message = %q", events[0].Message)
	}
}

func TestEngine_AddXP_NonPositiveIsNoop(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	before := h.kv.profilePuts()

	for _, amount := range []int{0, -5} {
		if events := h.engine.AddXP(ctx, amount); events != nil {
			t.Errorf("AddXP(%d) = %v, want nil", amount, events)
		}
	}
	if p := h.engine.Snapshot(); p.XP != 0 || p.Level != 1 {
		t.Errorf("xp/level = %d/%d, want 0/1", p.XP, p.Level)
	}
	if h.kv.profilePuts() != before {
		t.Error("no-op award wrote the profile")
	}
}

func TestEngine_AddXP_MultipleLevelUps(t *testing.T) {
	h := newHarness(t)
	events := h.engine.AddXP(context.Background(), 1000)

	var ups []int
	for _, ev := range events {
		if ev.Kind == EventLevelUp {
			ups = append(ups, ev.Level)
		}
	}
	if diff := cmp.Diff([]int{2, 3, 4, 5, 6}, ups); diff != "" {
		t.Errorf("level-ups (-want +got):\n%s", diff)
	}
	last := events[len(events)-1]
	if last.Kind != EventAchievementUnlocked || last.Achievement.ID != "level5" {
		t.Errorf("last event = %+v, want level5 unlock", last)
	}
}

func TestEngine_Level5UnlocksExactlyOnce(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	var unlocks int
	count := func(events []Event) {
		for _, ev := range events {
			if ev.Kind == EventAchievementUnlocked && ev.Achievement.ID == "level5" {
				unlocks++
			}
		}
	}
	count(h.engine.AddXP(ctx, 700))
	for range 5 {
		count(h.engine.AddXP(ctx, 1))
		count(h.engine.CheckDailyReset(ctx))
	}
	if unlocks != 1 {
		t.Errorf("level5 unlocked %d times, want 1", unlocks)
	}
}

func TestEngine_UnlockPersistsOncePerScan(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	before := h.kv.profilePuts()

	// One write for the award and one for the scan that unlocked level5.
	h.engine.AddXP(ctx, 700)
	if got := h.kv.profilePuts() - before; got != 2 {
		t.Errorf("profile writes = %d, want 2", got)
	}
}

func TestEngine_CompleteTask(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	events, err := h.engine.CompleteTask(ctx, "breathe")
	if err != nil {
		t.Fatalf("CompleteTask error: %v", err)
	}
	if diff := cmp.Diff([]EventKind{EventTaskCompleted, EventToast}, kinds(events)); diff != "" {
		t.Errorf("events (-want +got):\n%s", diff)
	}
	if events[len(events)-1].Message != "Ritual complete!" {
		t.Errorf("toast = %q", events[len(events)-1].Message)
	}

	p := h.engine.Snapshot()
	task, _ := p.Task("breathe")
	if !task.Done || p.XP != 10 {
		t.Fatalf("after completion: done %v xp %d, want true 10", task.Done, p.XP)
	}

	again, err := h.engine.CompleteTask(ctx, "breathe")
	if err != nil || again != nil {
		t.Errorf("recomplete = %v, %v; want nil, nil", again, err)
	}
	if diff := cmp.Diff(p, h.engine.Snapshot()); diff != "" {
		t.Errorf("recompleting changed the profile (-before +after):\n%s", diff)
	}
}

func TestEngine_CompleteTask_Unknown(t *testing.T) {
	h := newHarness(t)
	_, err := h.engine.CompleteTask(context.Background(), "meditate")
	if !errors.Is(err, ErrUnknownTask) {
		t.Errorf("err = %v, want ErrUnknownTask", err)
	}
}

func TestEngine_Streak(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	h.clock.Advance(1)
	h.engine.CheckDailyReset(ctx)
	if s := h.engine.Snapshot().Streak; s != 2 {
		t.Errorf("after next day: Streak = %d, want 2", s)
	}

	// Same day again is a no-op.
	h.engine.CheckDailyReset(ctx)
	if s := h.engine.Snapshot().Streak; s != 2 {
		t.Errorf("same day: Streak = %d, want 2", s)
	}

	h.clock.Advance(7)
	h.engine.CheckDailyReset(ctx)
	if s := h.engine.Snapshot().Streak; s != 1 {
		t.Errorf("after a gap: Streak = %d, want 1", s)
	}
}

func TestEngine_StreakAcrossReload(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.clock.Advance(1)
	h.engine.CheckDailyReset(ctx)
	h.clock.Advance(1)

	// A reload on the third consecutive day.
	reopened := openHarness(t, h.kv, h.clock)
	p := reopened.engine.Snapshot()
	if p.Streak != 3 {
		t.Errorf("Streak = %d, want 3", p.Streak)
	}
	if !p.HasAchievement("streak3") {
		t.Error("streak3 should unlock on the daily check")
	}
}

func TestEngine_DailyResetClearsTasksOnNewDateOnly(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.engine.CompleteTask(ctx, "water")

	h.engine.CheckDailyReset(ctx)
	if task, _ := h.engine.Snapshot().Task("water"); !task.Done {
		t.Error("same-day check cleared a done task")
	}

	h.clock.Advance(1)
	h.engine.CheckDailyReset(ctx)
	p := h.engine.Snapshot()
	for _, task := range p.Daily.Tasks {
		if task.Done {
			t.Errorf("task %s still done on a new day", task.ID)
		}
	}
	if p.Daily.Date != "2026-10-15" {
		t.Errorf("Daily.Date = %q, want 2026-10-15", p.Daily.Date)
	}
}

func TestEngine_DailyResetKeepsTasksWhenDateAlreadyCurrent(t *testing.T) {
	ctx := context.Background()
	kv := &countingStore{MemoryStore: storage.NewMemoryStore()}
	// Tasks recorded today but lastVisit from yesterday.
	kv.MemoryStore.Put(ctx, ProfileKey, []byte(`{"lastVisit":"2026-10-13","streak":4,
		"daily":{"date":"2026-10-14","tasks":[{"id":"water","label":"Drink water","done":true,"xp":5}]}}`))

	h := openHarness(t, kv, &clock.Fixed{T: day})
	p := h.engine.Snapshot()
	if task, _ := p.Task("water"); !task.Done {
		t.Error("tasks were reset although daily.date is today")
	}
	if p.Streak != 5 {
		t.Errorf("Streak = %d, want 5", p.Streak)
	}
}

func TestEngine_WeeklyRollover(t *testing.T) {
	ctx := context.Background()
	kv := &countingStore{MemoryStore: storage.NewMemoryStore()}
	kv.MemoryStore.Put(ctx, ProfileKey, []byte(`{"weekly":{"id":"2026-W41","count":4,"target":5}}`))
	h := openHarness(t, kv, &clock.Fixed{T: day})

	p := h.engine.Snapshot()
	if p.Weekly.ID != "2026-W42" || p.Weekly.Count != 0 {
		t.Errorf("Weekly = %+v, want 2026-W42 count 0", p.Weekly)
	}
}

func TestEngine_WeeklyRolloverBeforeQuestIncrement(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	for range 3 {
		h.engine.CompleteQuest(ctx)
	}

	// Monday of W43, without a daily check in between.
	h.clock.T = time.Date(2026, 10, 19, 0, 1, 0, 0, time.UTC)
	h.engine.CompleteQuest(ctx)

	p := h.engine.Snapshot()
	if p.Weekly.ID != "2026-W43" || p.Weekly.Count != 1 {
		t.Errorf("Weekly = %+v, want 2026-W43 count 1", p.Weekly)
	}
	if p.Stats.Quests != 4 {
		t.Errorf("Stats.Quests = %d, want 4", p.Stats.Quests)
	}
}

func TestEngine_WeeklyReadDoesNotAccrueStaleWeek(t *testing.T) {
	h := newHarness(t)
	h.engine.CompleteQuest(context.Background())
	h.clock.Advance(7)

	if w := h.engine.Weekly(); w.Count != 0 || w.ID != "2026-W43" {
		t.Errorf("Weekly() = %+v, want empty 2026-W43", w)
	}
	if stored := h.engine.Snapshot().Weekly; stored.ID != "2026-W42" {
		t.Errorf("read rewrote stored weekly: %+v", stored)
	}
}

func TestEngine_CompleteQuest(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	var events []Event
	for range 5 {
		events = h.engine.CompleteQuest(ctx)
	}
	p := h.engine.Snapshot()
	if p.XP != 50 || p.Stats.Quests != 5 || p.Weekly.Count != 5 {
		t.Errorf("xp %d quests %d weekly %d, want 50 5 5", p.XP, p.Stats.Quests, p.Weekly.Count)
	}

	var msgs []string
	for _, ev := range events {
		msgs = append(msgs, ev.Message)
	}
	want := []string{"Achievement Unlocked: Weekly Bloom", "Quest Complete!", "Weekly challenge complete!"}
	if diff := cmp.Diff(want, msgs); diff != "" {
		t.Errorf("fifth quest messages (-want +got):\n%s", diff)
	}
	if !h.engine.Weekly().Complete {
		t.Error("Weekly().Complete = false")
	}
}

func TestEngine_FinishBreathing(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	if events := h.engine.FinishBreathing(ctx, 0); events != nil {
		t.Errorf("zero cycles = %v, want no reward", events)
	}
	events := h.engine.FinishBreathing(ctx, 2)
	p := h.engine.Snapshot()
	if p.Stats.Breath != 1 || p.XP != 5 {
		t.Errorf("breath %d xp %d, want 1 5", p.Stats.Breath, p.XP)
	}
	if len(events) != 1 || events[0].Achievement == nil || events[0].Achievement.ID != "first_breath" {
		t.Errorf("events = %+v, want first_breath unlock", events)
	}
}

func TestEngine_SaveJournal(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	if events := h.engine.SaveJournal(ctx, "   "); events != nil {
		t.Errorf("blank entry = %v, want nil", events)
	}
	h.engine.SaveJournal(ctx, "first")
	events := h.engine.SaveJournal(ctx, "  second  ")

	if events[len(events)-1].Message != "Saved to your mind space." {
		t.Errorf("toast = %q", events[len(events)-1].Message)
	}
	entries := h.engine.Journal(0)
	if len(entries) != 2 || entries[0].Text != "second" || entries[1].Text != "first" {
		t.Fatalf("Journal = %+v, want newest first", entries)
	}
	if entries[0].Date != "10/14/2026" || entries[0].ID == "" {
		t.Errorf("entry = %+v", entries[0])
	}
	if got := h.engine.Journal(1); len(got) != 1 {
		t.Errorf("Journal(1) len = %d", len(got))
	}
	p := h.engine.Snapshot()
	if p.Stats.Journal != 2 || p.XP != 40 {
		t.Errorf("journal %d xp %d, want 2 40", p.Stats.Journal, p.XP)
	}

	reloaded, err := NewStore(h.kv, nil).LoadJournal(ctx)
	if err != nil || len(reloaded) != 2 {
		t.Errorf("persisted journal = %v, %v", reloaded, err)
	}
}

func TestEngine_RecordGame(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	events := h.engine.RecordGame(ctx, 21)
	p := h.engine.Snapshot()
	if p.Stats.GameHigh != 21 || p.XP != 10 {
		t.Errorf("gameHigh %d xp %d, want 21 10", p.Stats.GameHigh, p.XP)
	}
	if events[0].Message != "New High Score!" {
		t.Errorf("first event = %+v", events[0])
	}
	if !p.HasAchievement("gamer") {
		t.Error("gamer should unlock at 20")
	}

	events = h.engine.RecordGame(ctx, 5)
	if p := h.engine.Snapshot(); p.Stats.GameHigh != 21 || p.XP != 12 {
		t.Errorf("low score: gameHigh %d xp %d, want 21 12", p.Stats.GameHigh, p.XP)
	}
	for _, ev := range events {
		if ev.Message == "New High Score!" {
			t.Error("lower score reported a new high")
		}
	}

	if events := h.engine.RecordGame(ctx, 1); events != nil {
		t.Errorf("score 1 = %v, want no change", events)
	}
}

func TestEngine_LogMood(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	events, err := h.engine.LogMood(ctx, "Calm")
	if err != nil {
		t.Fatalf("LogMood error: %v", err)
	}
	if events[0].Message != "Your garden acknowledges your feelings." {
		t.Errorf("toast = %q", events[0].Message)
	}
	if xp := h.engine.Snapshot().XP; xp != 5 {
		t.Errorf("XP = %d, want 5", xp)
	}
	if _, err := h.engine.LogMood(ctx, "hangry"); !errors.Is(err, ErrUnknownMood) {
		t.Errorf("err = %v, want ErrUnknownMood", err)
	}
}

func TestEngine_Rename(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	if events := h.engine.Rename(ctx, "  "); events != nil {
		t.Errorf("blank rename = %v", events)
	}
	events := h.engine.Rename(ctx, " Robin ")
	if len(events) != 1 || events[0].Message != "Name updated!" {
		t.Errorf("events = %+v", events)
	}
	if name := h.engine.Snapshot().Name; name != "Robin" {
		t.Errorf("Name = %q", name)
	}
}

func TestEngine_Reset(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.engine.AddXP(ctx, 800)
	h.engine.SaveJournal(ctx, "hello")

	if _, err := h.engine.Reset(ctx); err != nil {
		t.Fatalf("Reset error: %v", err)
	}
	p := h.engine.Snapshot()
	if p.XP != 0 || p.Level != 1 || len(p.Achievements) != 0 || p.Streak != 1 {
		t.Errorf("after reset = %+v", p)
	}
	if len(h.engine.Journal(0)) != 0 {
		t.Error("journal survived reset")
	}
	if _, err := h.kv.MemoryStore.Get(ctx, JournalKey); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("journal record = %v, want deleted", err)
	}
}

func TestEngine_SetRulesRaisesLevelOnly(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.engine.AddXP(ctx, 300)
	before := h.engine.Snapshot().Level
	puts := h.kv.profilePuts()

	rules := DefaultRules()
	rules.Levels = []int{0, 50, 100, 200, 300, 5000}
	events := h.engine.SetRules(ctx, rules)
	if lvl := h.engine.Snapshot().Level; lvl != 5 {
		t.Errorf("Level = %d, want 5", lvl)
	}

	var ups []int
	unlockedLevel5 := false
	for _, ev := range events {
		switch ev.Kind {
		case EventLevelUp:
			ups = append(ups, ev.Level)
		case EventAchievementUnlocked:
			unlockedLevel5 = unlockedLevel5 || ev.Achievement.ID == "level5"
		}
	}
	var want []int
	for lvl := before + 1; lvl <= 5; lvl++ {
		want = append(want, lvl)
	}
	if diff := cmp.Diff(want, ups); diff != "" {
		t.Errorf("level ups (-want +got):\n%s", diff)
	}
	if !unlockedLevel5 {
		t.Error("level5 should unlock when the new table raises the level")
	}
	if h.kv.profilePuts() <= puts {
		t.Error("raised level was not persisted")
	}

	rules.Levels = []int{0, 1000, 2000}
	if events := h.engine.SetRules(ctx, rules); len(events) != 0 {
		t.Errorf("stricter table events = %v, want none", events)
	}
	if lvl := h.engine.Snapshot().Level; lvl != 5 {
		t.Errorf("Level = %d, must not be lowered", lvl)
	}
}

func TestEngine_SaveFailureIsLoggedNotFatal(t *testing.T) {
	ctx := context.Background()
	kv := &countingStore{MemoryStore: storage.NewMemoryStore()}
	core, logs := observer.New(zapcore.ErrorLevel)
	e, err := New(ctx, NewStore(kv, nil), DefaultRules(), &clock.Fixed{T: day}, zap.New(core))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	kv.failPut = true

	e.AddXP(ctx, 10)
	if xp := e.Snapshot().XP; xp != 10 {
		t.Errorf("XP = %d, want 10 in memory", xp)
	}
	if logs.FilterMessage("failed to save profile").Len() == 0 {
		t.Error("expected a save failure log")
	}
}

func TestEngine_SnapshotIsIsolated(t *testing.T) {
	h := newHarness(t)
	snap := h.engine.Snapshot()
	snap.Daily.Tasks[0].Done = true
	snap.Achievements = append(snap.Achievements, "level5")

	p := h.engine.Snapshot()
	if p.Daily.Tasks[0].Done || p.HasAchievement("level5") {
		t.Error("mutating a snapshot changed engine state")
	}
}

func TestEngine_ConcurrentActions(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			h.engine.CompleteQuest(ctx)
		}()
		go func() {
			defer wg.Done()
			h.engine.AddXP(ctx, 3)
		}()
	}
	wg.Wait()

	p := h.engine.Snapshot()
	if p.XP != 20*10+20*3 {
		t.Errorf("XP = %d, want %d", p.XP, 20*10+20*3)
	}
	if p.Level != LevelFor(testLevels, p.XP) {
		t.Errorf("Level = %d inconsistent with xp %d", p.Level, p.XP)
	}
}
