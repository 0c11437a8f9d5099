package gamification

import "slices"

// TaskDef is one entry of the configured daily ritual list.
type TaskDef struct {
	ID    string
	Label string
	XP    int
}

// Awards holds the XP granted by each activity outside the daily list.
type Awards struct {
	Breath  int
	Journal int
	Quest   int
	Mood    int
}

// Rules is the progression configuration the Engine runs against. It is
// static for the lifetime of a profile except through Engine.SetRules.
type Rules struct {
	// Levels is the ascending XP threshold table; level N needs Levels[N-1].
	Levels       []int
	Tasks        []TaskDef
	WeeklyTarget int
	Awards       Awards
	Moods        []string
	Achievements []Achievement
}

// DefaultRules returns the stock garden configuration.
func DefaultRules() Rules {
	return Rules{
		Levels: []int{0, 100, 250, 450, 700, 1000, 1500, 2500},
		Tasks: []TaskDef{
			{ID: "breathe", Label: "Take 3 deep breaths", XP: 10},
			{ID: "journal", Label: "Write one thought", XP: 15},
			{ID: "water", Label: "Drink water", XP: 5},
		},
		WeeklyTarget: 5,
		Awards: Awards{
			Breath:  5,
			Journal: 20,
			Quest:   10,
			Mood:    5,
		},
		Moods:        []string{"happy", "calm", "tired", "anxious", "sad"},
		Achievements: DefaultAchievements(),
	}
}

// freshTasks builds the not-done task list for a new day.
func (r Rules) freshTasks() []Task {
	tasks := make([]Task, len(r.Tasks))
	for i, d := range r.Tasks {
		tasks[i] = Task{ID: d.ID, Label: d.Label, XP: d.XP}
	}
	return tasks
}

func (r Rules) validMood(mood string) bool {
	return slices.Contains(r.Moods, mood)
}

func (r Rules) clone() Rules {
	cp := r
	cp.Levels = slices.Clone(r.Levels)
	cp.Tasks = slices.Clone(r.Tasks)
	cp.Moods = slices.Clone(r.Moods)
	cp.Achievements = slices.Clone(r.Achievements)
	return cp
}
