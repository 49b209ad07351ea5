package tasks

import (
	"strings"
	"time"

	"taskday-backend/internal/priority"
)

const (
	StatusTodo       = "TODO"
	StatusInProgress = "IN_PROGRESS"
	StatusDone       = "DONE"

	DefaultStatus     = StatusTodo
	DefaultSource     = "manual"
	DefaultImportance = 3

	TitleMaxLen  = 200
	StatusMaxLen = 20
)

type Task struct {
	ID              string     `json:"id"`
	UserID          int        `json:"-"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	Importance      int        `json:"importance"`
	DueDate         *time.Time `json:"due_date,omitempty"`
	Status          string     `json:"status"`
	Source          string     `json:"source"`
	AIPriorityScore *float64   `json:"ai_priority_score,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// IsDone reports whether the task is completed. Status comparison is
// case-insensitive: older clients sent lowercase statuses.
func (t Task) IsDone() bool {
	return strings.EqualFold(t.Status, StatusDone)
}

// HasNote reports whether the task carries a non-blank description.
func (t Task) HasNote() bool {
	return strings.TrimSpace(t.Description) != ""
}

// Priority returns the cached score when present, otherwise recomputes it
// at the given instant. The cached value is denormalized state, not truth.
func (t Task) Priority(now time.Time) float64 {
	if t.AIPriorityScore != nil {
		return *t.AIPriorityScore
	}
	return priority.Calc(t.Importance, t.DueDate, now)
}
