package plan

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"time"

	"taskday-backend/internal/tasks"
)

// hashedTask is the exact field set that participates in the cache key.
// Adding a field here invalidates every cached plan on deploy; that is the
// intended way to widen the tracked set. Fields not listed (created_at, the
// cached score, source) must never reach the hash, so reordered fetches and
// score recomputations keep cached plans valid.
type hashedTask struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Importance  int        `json:"importance"`
	DueDate     *time.Time `json:"due_date"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ComputeTasksHash digests a user's task set into the plan cache key.
// Tasks are sorted by id first, so list order never affects the result.
func ComputeTasksHash(list []tasks.Task) string {
	records := make([]hashedTask, 0, len(list))
	for _, t := range list {
		records = append(records, hashedTask{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			Status:      t.Status,
			Importance:  t.Importance,
			DueDate:     t.DueDate,
			UpdatedAt:   t.UpdatedAt,
		})
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })

	// Marshal cannot fail for this shape.
	b, _ := json.Marshal(records)
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
