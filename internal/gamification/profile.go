// Package gamification holds the garden's progression rules: the persisted
// profile, XP and levels, the daily ritual reset and streak, the weekly
// challenge window, and achievement unlocking.
package gamification

import (
	"slices"
	"time"

	"github.com/secret-garden/garden/internal/clock"
)

const defaultName = "Friend"

// Profile is the single persisted progression record of an installation.
type Profile struct {
	Name         string   `json:"name"`
	XP           int      `json:"xp"`
	Level        int      `json:"level"`
	Streak       int      `json:"streak"`
	LastVisit    *string  `json:"lastVisit"`
	Stats        Stats    `json:"stats"`
	Daily        Daily    `json:"daily"`
	Weekly       Weekly   `json:"weekly"`
	Achievements []string `json:"achievements"`
}

// Stats are the activity counters. GameHigh is a high-water mark, the rest
// are cumulative.
type Stats struct {
	Breath   int `json:"breath"`
	Journal  int `json:"journal"`
	Quests   int `json:"quests"`
	GameHigh int `json:"gameHigh"`
}

// Daily is today's ritual checklist.
type Daily struct {
	Date  string `json:"date"`
	Tasks []Task `json:"tasks"`
}

// Task is one daily ritual. Only Done changes at runtime.
type Task struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Done  bool   `json:"done"`
	XP    int    `json:"xp"`
}

// Weekly is the weekly challenge window keyed by ISO week.
type Weekly struct {
	ID     string `json:"id"`
	Count  int    `json:"count"`
	Target int    `json:"target"`
}

// newProfile returns the first-run profile for the given moment.
func newProfile(rules Rules, now time.Time) *Profile {
	return &Profile{
		Name:  defaultName,
		Level: 1,
		Daily: Daily{
			Date:  clock.Date(now),
			Tasks: rules.freshTasks(),
		},
		Weekly: Weekly{
			ID:     clock.WeekID(now),
			Target: rules.WeeklyTarget,
		},
		Achievements: []string{},
	}
}

// HasAchievement reports whether id is unlocked.
func (p *Profile) HasAchievement(id string) bool {
	return slices.Contains(p.Achievements, id)
}

// Task returns the daily task with the given id.
func (p *Profile) Task(id string) (Task, bool) {
	for _, t := range p.Daily.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// normalize repairs a decoded record so it satisfies the profile invariants.
// Level is only ever raised.
func (p *Profile) normalize(rules Rules) {
	if p.Name == "" {
		p.Name = defaultName
	}
	p.XP = max(p.XP, 0)
	p.Streak = max(p.Streak, 0)
	p.Level = max(p.Level, LevelFor(rules.Levels, p.XP), 1)
	if p.Weekly.Target <= 0 {
		p.Weekly.Target = rules.WeeklyTarget
	}
	if p.Daily.Tasks == nil {
		p.Daily.Tasks = rules.freshTasks()
	}

	seen := make(map[string]bool, len(p.Achievements))
	ids := make([]string, 0, len(p.Achievements))
	for _, id := range p.Achievements {
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	p.Achievements = ids
}

// clone returns a deep copy of the profile.
func (p *Profile) clone() *Profile {
	cp := *p
	if p.LastVisit != nil {
		v := *p.LastVisit
		cp.LastVisit = &v
	}
	cp.Daily.Tasks = slices.Clone(p.Daily.Tasks)
	cp.Achievements = slices.Clone(p.Achievements)
	return &cp
}
