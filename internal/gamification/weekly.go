package gamification

// WeeklyProgress is the display-ready state of the weekly challenge.
type WeeklyProgress struct {
	ID       string  `json:"id"`
	Count    int     `json:"count"`
	Target   int     `json:"target"`
	Pct      float64 `json:"pct"`
	Complete bool    `json:"complete"`
}

// rotateWeekly starts a new challenge window when week differs from the
// stored id. The count resets to zero and the target picks up the configured
// value. It reports whether a rollover happened.
func rotateWeekly(w *Weekly, week string, target int) bool {
	if w.ID == week {
		return false
	}
	w.ID = week
	w.Count = 0
	if target > 0 {
		w.Target = target
	}
	return true
}

func weeklyProgress(w Weekly) WeeklyProgress {
	wp := WeeklyProgress{ID: w.ID, Count: w.Count, Target: w.Target}
	if w.Target > 0 {
		wp.Pct = min(float64(w.Count)/float64(w.Target), 1)
		wp.Complete = w.Count >= w.Target
	}
	return wp
}
