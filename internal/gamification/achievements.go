package gamification

// Category groups related achievements in the UI.
type Category string

const (
	CategoryGrowth  Category = "Growth"
	CategoryRituals Category = "Rituals"
	CategoryPlay    Category = "Play"
)

// Metric names the profile value an achievement is measured against.
type Metric string

const (
	MetricLevel    Metric = "level"
	MetricXP       Metric = "xp"
	MetricStreak   Metric = "streak"
	MetricBreath   Metric = "breath"
	MetricJournal  Metric = "journal"
	MetricQuests   Metric = "quests"
	MetricGameHigh Metric = "game_high"
	MetricWeekly   Metric = "weekly"
)

// Metrics lists every metric an achievement may use.
var Metrics = []Metric{
	MetricLevel, MetricXP, MetricStreak, MetricBreath,
	MetricJournal, MetricQuests, MetricGameHigh, MetricWeekly,
}

// Value reads the metric from p. The second result is false for an unknown
// metric.
func (m Metric) Value(p *Profile) (int, bool) {
	switch m {
	case MetricLevel:
		return p.Level, true
	case MetricXP:
		return p.XP, true
	case MetricStreak:
		return p.Streak, true
	case MetricBreath:
		return p.Stats.Breath, true
	case MetricJournal:
		return p.Stats.Journal, true
	case MetricQuests:
		return p.Stats.Quests, true
	case MetricGameHigh:
		return p.Stats.GameHigh, true
	case MetricWeekly:
		return p.Weekly.Count, true
	default:
		return 0, false
	}
}

// Achievement describes a single unlockable badge. It unlocks once Metric
// reaches Min.
type Achievement struct {
	ID       string   `json:"id"`
	Icon     string   `json:"icon"`
	Title    string   `json:"title"`
	Desc     string   `json:"desc"`
	Category Category `json:"category"`
	Metric   Metric   `json:"metric"`
	Min      int      `json:"min"`
}

// Met reports whether p satisfies the achievement.
func (a Achievement) Met(p *Profile) bool {
	v, ok := a.Metric.Value(p)
	return ok && v >= a.Min
}

// DefaultAchievements returns the stock registry in evaluation order.
func DefaultAchievements() []Achievement {
	return []Achievement{
		{
			ID: "level5", Icon: "🌳", Title: "Dedicated Gardener",
			Desc: "Reach Level 5", Category: CategoryGrowth,
			Metric: MetricLevel, Min: 5,
		},
		{
			ID: "streak3", Icon: "🔥", Title: "On Fire",
			Desc: "3 Day Streak", Category: CategoryGrowth,
			Metric: MetricStreak, Min: 3,
		},
		{
			ID: "writer", Icon: "✍️", Title: "Storyteller",
			Desc: "5 Journal Entries", Category: CategoryRituals,
			Metric: MetricJournal, Min: 5,
		},
		{
			ID: "gamer", Icon: "🎮", Title: "Pro Jumper",
			Desc: "Score 20 in Game", Category: CategoryPlay,
			Metric: MetricGameHigh, Min: 20,
		},
		{
			ID: "first_breath", Icon: "🌬️", Title: "First Breath",
			Desc: "Finish a breathing session", Category: CategoryRituals,
			Metric: MetricBreath, Min: 1,
		},
		{
			ID: "quest_seeker", Icon: "🧭", Title: "Quest Seeker",
			Desc: "Complete 10 Quests", Category: CategoryRituals,
			Metric: MetricQuests, Min: 10,
		},
		{
			ID: "weekly_bloom", Icon: "🌼", Title: "Weekly Bloom",
			Desc: "5 Quests in one week", Category: CategoryGrowth,
			Metric: MetricWeekly, Min: 5,
		},
	}
}

// Evaluator holds the achievement registry and decides which achievements
// become newly unlocked against a profile.
type Evaluator struct {
	registry []Achievement
}

// NewEvaluator creates an evaluator over defs, evaluated in the given order.
func NewEvaluator(defs []Achievement) *Evaluator {
	return &Evaluator{registry: append([]Achievement(nil), defs...)}
}

// Registry returns a copy of all registered achievements.
func (e *Evaluator) Registry() []Achievement {
	out := make([]Achievement, len(e.registry))
	copy(out, e.registry)
	return out
}

// Evaluate checks every not-yet-unlocked achievement against p. Newly passing
// ids are appended to p.Achievements and returned in registry order. The
// caller is responsible for persisting p after this call.
func (e *Evaluator) Evaluate(p *Profile) []Achievement {
	var unlocked []Achievement
	for _, a := range e.registry {
		if p.HasAchievement(a.ID) {
			continue
		}
		if a.Met(p) {
			p.Achievements = append(p.Achievements, a.ID)
			unlocked = append(unlocked, a)
		}
	}
	return unlocked
}

// AchievementStatus is one cell of the achievement grid.
type AchievementStatus struct {
	Achievement
	Unlocked bool `json:"unlocked"`
	Current  int  `json:"current"`
}

// Status reports every registered achievement with its lock state and the
// current metric value.
func (e *Evaluator) Status(p *Profile) []AchievementStatus {
	out := make([]AchievementStatus, 0, len(e.registry))
	for _, a := range e.registry {
		v, _ := a.Metric.Value(p)
		out = append(out, AchievementStatus{
			Achievement: a,
			Unlocked:    p.HasAchievement(a.ID),
			Current:     v,
		})
	}
	return out
}
