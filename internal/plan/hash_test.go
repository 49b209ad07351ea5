package plan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"taskday-backend/internal/tasks"
)

func sampleTasks() []tasks.Task {
	due := time.Date(2025, 6, 12, 18, 0, 0, 0, time.UTC)
	score := 0.74
	return []tasks.Task{
		{
			ID:          "a",
			Title:       "Write quarterly report",
			Description: "numbers from finance first",
			Status:      tasks.StatusTodo,
			Importance:  5,
			DueDate:     &due,
			UpdatedAt:   time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC),
		},
		{
			ID:              "b",
			Title:           "Water plants",
			Status:          tasks.StatusDone,
			Importance:      1,
			AIPriorityScore: &score,
			UpdatedAt:       time.Date(2025, 6, 9, 20, 0, 0, 0, time.UTC),
		},
		{
			ID:         "c",
			Title:      "Book dentist",
			Status:     tasks.StatusInProgress,
			Importance: 3,
			UpdatedAt:  time.Date(2025, 6, 10, 7, 30, 0, 0, time.UTC),
		},
	}
}

func TestHashIgnoresListOrder(t *testing.T) {
	list := sampleTasks()
	shuffled := []tasks.Task{list[2], list[0], list[1]}

	assert.Equal(t, ComputeTasksHash(list), ComputeTasksHash(shuffled))
}

func TestHashChangesWhenTrackedFieldChanges(t *testing.T) {
	base := ComputeTasksHash(sampleTasks())

	mutations := map[string]func(*tasks.Task){
		"id":          func(x *tasks.Task) { x.ID = "zz" },
		"title":       func(x *tasks.Task) { x.Title = "something else" },
		"description": func(x *tasks.Task) { x.Description = "changed" },
		"status":      func(x *tasks.Task) { x.Status = tasks.StatusDone },
		"importance":  func(x *tasks.Task) { x.Importance = 2 },
		"due date":    func(x *tasks.Task) { d := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC); x.DueDate = &d },
		"updated at":  func(x *tasks.Task) { x.UpdatedAt = x.UpdatedAt.Add(time.Second) },
	}

	for name, mutate := range mutations {
		list := sampleTasks()
		mutate(&list[0])
		assert.NotEqual(t, base, ComputeTasksHash(list), "mutating %s must change the hash", name)
	}
}

func TestHashIgnoresUntrackedFields(t *testing.T) {
	base := ComputeTasksHash(sampleTasks())

	list := sampleTasks()
	list[0].CreatedAt = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	list[0].UserID = 999
	list[0].Source = "voice"
	newScore := 0.11
	list[0].AIPriorityScore = &newScore

	assert.Equal(t, base, ComputeTasksHash(list))
}

func TestHashSensitiveToAddAndRemove(t *testing.T) {
	list := sampleTasks()
	base := ComputeTasksHash(list)

	assert.NotEqual(t, base, ComputeTasksHash(list[:2]))
	assert.NotEqual(t, base, ComputeTasksHash(append(sampleTasks(), tasks.Task{ID: "d", Title: "extra"})))
}

func TestHashShape(t *testing.T) {
	// sha256 hex, stable across calls, defined even for the empty set.
	h := ComputeTasksHash(nil)
	assert.Len(t, h, 64)
	assert.Equal(t, h, ComputeTasksHash([]tasks.Task{}))
}
