package plan

import "time"

// PlanTask is one entry of a plan's focus list. It carries enough of the
// task for the client to render the card without a second fetch.
type PlanTask struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Status     string     `json:"status"`
	Importance int        `json:"importance"`
	Priority   float64    `json:"priority"`
	DueDate    *time.Time `json:"due_date,omitempty"`
	Suggestion string     `json:"suggestion,omitempty"`
}

// TodayPlan is the daily prioritization the app shows on the Today page.
type TodayPlan struct {
	Summary string     `json:"summary"`
	Advice  []string   `json:"advice"`
	Focus   []PlanTask `json:"focus"`
}
