package gamification

// LevelFor returns the largest level L with levels[L-1] <= xp, never below 1
// and never beyond the end of the table.
func LevelFor(levels []int, xp int) int {
	level := 1
	for level < len(levels) && xp >= levels[level] {
		level++
	}
	return level
}

// awardXP adds amount to p.XP and advances the level once per threshold
// crossed, returning each level reached in order. A large award can cross
// several thresholds at once.
//
// It is called inside the Engine mutex; callers must not acquire it again.
func awardXP(p *Profile, levels []int, amount int) []int {
	p.XP += amount
	p.Level = max(p.Level, 1)
	var reached []int
	for p.Level < len(levels) && p.XP >= levels[p.Level] {
		p.Level++
		reached = append(reached, p.Level)
	}
	return reached
}

// Progress describes the player's position within the current level.
type Progress struct {
	Level int `json:"level"`
	XP    int `json:"xp"`
	// Floor is the threshold of the current level, Next the one after it.
	Floor int `json:"floor"`
	Next  int `json:"next"`
	// Pct is progress within the level, 0.0–1.0.
	Pct float64 `json:"pct"`
	Max bool    `json:"max"`
}

// progressFor computes the display-ready progress of p.
//
// At the top of the table there is no next threshold; Next is shown as 100 XP
// ahead and Pct is pinned to 1.
func progressFor(p *Profile, levels []int) Progress {
	pr := Progress{Level: p.Level, XP: p.XP}
	if i := p.Level - 1; i >= 0 && i < len(levels) {
		pr.Floor = levels[i]
	}
	if p.Level >= len(levels) {
		pr.Next = p.XP + 100
		pr.Pct = 1
		pr.Max = true
		return pr
	}
	pr.Next = levels[p.Level]
	if span := pr.Next - pr.Floor; span > 0 {
		pr.Pct = min(max(float64(p.XP-pr.Floor)/float64(span), 0), 1)
	}
	return pr
}

// Stage is the garden's growth stage, derived from level.
type Stage int

const (
	StageSeed Stage = iota
	StageSprout
	StagePlant
	StageFlower
	StageLush
)

var stageNames = [...]string{"Seed", "Sprout", "Plant", "Flower", "Lush"}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "Unknown"
	}
	return stageNames[s]
}

// StageFor maps a level onto the five garden stages.
func StageFor(level int) Stage {
	return Stage(min(max(level-1, 0), int(StageLush)))
}
