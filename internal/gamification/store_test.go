package gamification

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/secret-garden/garden/internal/storage"
)

var day = time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)

func TestLoadProfile_MissingReturnsDefaults(t *testing.T) {
	s := NewStore(storage.NewMemoryStore(), nil)
	def := newProfile(DefaultRules(), day)

	p, found, err := s.LoadProfile(context.Background(), def)
	if err != nil {
		t.Fatalf("LoadProfile error: %v", err)
	}
	if found {
		t.Error("found = true for an empty store")
	}
	if p.XP != 0 || p.Level != 1 || p.Streak != 0 || len(p.Achievements) != 0 {
		t.Errorf("defaults = %+v", p)
	}
	if p.LastVisit != nil {
		t.Errorf("LastVisit = %v, want nil", *p.LastVisit)
	}
	if p.Name != "Friend" {
		t.Errorf("Name = %q, want Friend", p.Name)
	}
	if p.Weekly.ID != "2026-W42" || p.Weekly.Target != 5 {
		t.Errorf("Weekly = %+v", p.Weekly)
	}
}

func TestSaveLoad_RoundTripIsByteStable(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryStore()
	s := NewStore(kv, nil)

	p := newProfile(DefaultRules(), day)
	visit := "2026-10-14"
	p.LastVisit = &visit
	p.XP = 120
	p.Level = 2
	p.Streak = 4
	p.Stats = Stats{Breath: 2, Journal: 1, Quests: 3, GameHigh: 17}
	p.Daily.Tasks[1].Done = true
	p.Achievements = []string{"streak3"}

	if err := s.SaveProfile(ctx, p); err != nil {
		t.Fatalf("SaveProfile error: %v", err)
	}
	first, _ := kv.Get(ctx, ProfileKey)

	loaded, found, err := s.LoadProfile(ctx, newProfile(DefaultRules(), day))
	if err != nil || !found {
		t.Fatalf("LoadProfile = found %v, err %v", found, err)
	}
	if diff := cmp.Diff(p, loaded); diff != "" {
		t.Errorf("loaded profile mismatch (-want +got):\n%s", diff)
	}

	if err := s.SaveProfile(ctx, loaded); err != nil {
		t.Fatalf("SaveProfile error: %v", err)
	}
	second, _ := kv.Get(ctx, ProfileKey)
	if string(first) != string(second) {
		t.Errorf("save(load()) changed stored bytes:\n%s\n---\n%s", first, second)
	}
}

func TestLoadProfile_ShallowMergeKeepsMissingDefaults(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryStore()
	// An older record with no weekly block and a partial stats object.
	kv.Put(ctx, ProfileKey, []byte(`{"name":"Ada","xp":300,"level":3,"stats":{"journal":2}}`))

	p, found, err := NewStore(kv, nil).LoadProfile(ctx, newProfile(DefaultRules(), day))
	if err != nil || !found {
		t.Fatalf("LoadProfile = found %v, err %v", found, err)
	}
	if p.Name != "Ada" || p.XP != 300 || p.Level != 3 {
		t.Errorf("stored fields not applied: %+v", p)
	}
	if p.Weekly.ID != "2026-W42" || p.Weekly.Target != 5 {
		t.Errorf("Weekly = %+v, want defaults", p.Weekly)
	}
	if p.Stats != (Stats{Journal: 2}) {
		t.Errorf("Stats = %+v, want stored object wholesale", p.Stats)
	}
	if len(p.Daily.Tasks) != 3 {
		t.Errorf("Daily.Tasks = %v, want default list", p.Daily.Tasks)
	}
}

func TestLoadProfile_CorruptFallsBackAndWarns(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryStore()
	kv.Put(ctx, ProfileKey, []byte(`{"xp": "lots"`))

	core, logs := observer.New(zapcore.WarnLevel)
	s := NewStore(kv, zap.New(core))
	def := newProfile(DefaultRules(), day)

	p, found, err := s.LoadProfile(ctx, def)
	if err != nil {
		t.Fatalf("LoadProfile error: %v", err)
	}
	if found {
		t.Error("found = true for a corrupt record")
	}
	if diff := cmp.Diff(def, p); diff != "" {
		t.Errorf("corrupt load mismatch (-want +got):\n%s", diff)
	}
	if logs.FilterMessage("stored profile is corrupt, using defaults").Len() != 1 {
		t.Errorf("expected one corrupt-record warning, got %v", logs.All())
	}
}

func TestLoadProfile_WrongFieldTypeIsCorrupt(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryStore()
	kv.Put(ctx, ProfileKey, []byte(`{"xp":10,"achievements":"level5"}`))

	p, found, err := NewStore(kv, nil).LoadProfile(ctx, newProfile(DefaultRules(), day))
	if err != nil {
		t.Fatalf("LoadProfile error: %v", err)
	}
	if found || p.XP != 0 {
		t.Errorf("found = %v, XP = %d; want defaults", found, p.XP)
	}
}

func TestJournal_LoadSaveAndCorrupt(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryStore()
	s := NewStore(kv, nil)

	entries, err := s.LoadJournal(ctx)
	if err != nil || len(entries) != 0 || entries == nil {
		t.Fatalf("LoadJournal on empty = %v, %v", entries, err)
	}

	want := []JournalEntry{{ID: "b", Date: "10/14/2026", Text: "second"}, {Date: "10/13/2026", Text: "first"}}
	if err := s.SaveJournal(ctx, want); err != nil {
		t.Fatalf("SaveJournal error: %v", err)
	}
	got, err := s.LoadJournal(ctx)
	if err != nil {
		t.Fatalf("LoadJournal error: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("journal mismatch (-want +got):\n%s", diff)
	}

	kv.Put(ctx, JournalKey, []byte("not json"))
	got, err = s.LoadJournal(ctx)
	if err != nil || len(got) != 0 {
		t.Errorf("corrupt journal = %v, %v; want empty", got, err)
	}
}

func TestClear_RemovesBothRecords(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryStore()
	s := NewStore(kv, nil)
	s.SaveProfile(ctx, newProfile(DefaultRules(), day))
	s.SaveJournal(ctx, []JournalEntry{{Text: "x"}})

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	for _, key := range []string{ProfileKey, JournalKey} {
		if _, err := kv.Get(ctx, key); err == nil {
			t.Errorf("%s still present after Clear", key)
		}
	}
}

func TestNormalize(t *testing.T) {
	rules := DefaultRules()
	p := &Profile{XP: 260, Level: 1, Weekly: Weekly{Target: 0}, Achievements: []string{"a", "b", "a"}}
	p.normalize(rules)

	if p.Level != 3 {
		t.Errorf("Level = %d, want raised to 3", p.Level)
	}
	if p.Name != "Friend" {
		t.Errorf("Name = %q, want Friend", p.Name)
	}
	if p.Weekly.Target != 5 {
		t.Errorf("Weekly.Target = %d, want 5", p.Weekly.Target)
	}
	if diff := cmp.Diff([]string{"a", "b"}, p.Achievements); diff != "" {
		t.Errorf("Achievements (-want +got):\n%s", diff)
	}

	high := &Profile{XP: 0, Level: 6}
	high.normalize(rules)
	if high.Level != 6 {
		t.Errorf("Level = %d, normalize must never lower it", high.Level)
	}
}
