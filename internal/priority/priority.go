package priority

import (
	"math"
	"time"
)

const (
	DefaultImportance = 3
	ImportanceMax     = 5

	// Horizon assumed for tasks without a deadline: neither urgent nor ignored.
	DefaultLookaheadHours = 48.0
)

// Calc computes the urgency score for a task, in [0,1].
//
// importance is clamped to [1,5]; zero or negative means "not set" and falls
// back to the default. dueDate may be nil (no deadline). Overdue tasks clamp
// to zero hours remaining, i.e. maximum urgency.
//
// The result is rounded to two decimals so stored and displayed scores stay
// stable across recomputations.
func Calc(importance int, dueDate *time.Time, now time.Time) float64 {
	imp := importance
	if imp <= 0 {
		imp = DefaultImportance
	}
	if imp > ImportanceMax {
		imp = ImportanceMax
	}

	hours := DefaultLookaheadHours
	if dueDate != nil {
		hours = dueDate.Sub(now).Hours()
		if hours < 0 {
			hours = 0
		}
	}

	urgency := 1 / (hours + 1)
	importanceScore := float64(imp) / ImportanceMax
	score := 0.6*importanceScore + 0.4*urgency

	return math.Round(score*100) / 100
}
