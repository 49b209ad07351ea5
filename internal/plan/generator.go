package plan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"taskday-backend/internal/ai"
	"taskday-backend/internal/tasks"
)

const maxAdvice = 5
const maxFallbackFocus = 5

// Failure kinds of the model path. They exist so the fallback decision has
// one place and tests can tell the cases apart; none of them ever leaves
// GeneratePlan.
var (
	ErrModelUnavailable = errors.New("no model configured")
	ErrInvalidResponse  = errors.New("model response unusable")
)

// ModelClient is the single call the generator needs from the LLM side.
type ModelClient interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Generator produces the daily plan: cache first, then one model call,
// then the deterministic fallback. It never returns an error; every
// failure path resolves to a usable plan.
type Generator struct {
	model ModelClient
	cache Cache
}

// NewGenerator accepts a nil model (feature runs fallback-only) and a nil
// cache (every call regenerates).
func NewGenerator(model ModelClient, cache Cache) *Generator {
	return &Generator{model: model, cache: cache}
}

// GeneratePlan builds the plan for one user's task list.
//
// The empty list short-circuits to a fixed plan without touching cache or
// model. Otherwise the task-set hash decides cache validity; on a miss (or
// force) the model is called once, its output validated and cached. The
// fallback plan is intentionally never cached so the next request retries
// the model.
func (g *Generator) GeneratePlan(ctx context.Context, userID int, list []tasks.Task, forceRegenerate bool) TodayPlan {
	if len(list) == 0 {
		return emptyPlan()
	}

	// One clock snapshot per invocation: prompt priorities and the
	// fallback sort must not disagree about "now".
	now := time.Now().UTC()

	tasksHash := ComputeTasksHash(list)

	if !forceRegenerate && g.cache != nil {
		if cached, ok := g.cache.Get(ctx, userID, tasksHash); ok {
			return *cached
		}
	}

	p, err := g.generateFromModel(ctx, list, now)
	if err != nil {
		if !errors.Is(err, ErrModelUnavailable) {
			log.Printf("[WARN] plan generation for user %d fell back: %v", userID, err)
		}
		return fallbackPlan(list, now)
	}

	if g.cache != nil {
		g.cache.Put(ctx, userID, tasksHash, *p)
	}
	return *p
}

// promptTask is the task view the model sees.
type promptTask struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Status     string  `json:"status"`
	Importance int     `json:"importance"`
	Priority   float64 `json:"priority"`
	DueDate    *string `json:"dueDate"`
	HasNote    bool    `json:"hasNote"`
}

func formatTaskForPrompt(t tasks.Task, now time.Time) promptTask {
	var due *string
	if t.DueDate != nil {
		s := t.DueDate.Format(time.RFC3339)
		due = &s
	}
	return promptTask{
		ID:         t.ID,
		Title:      t.Title,
		Status:     t.Status,
		Importance: t.Importance,
		Priority:   t.Priority(now),
		DueDate:    due,
		HasNote:    t.HasNote(),
	}
}

// generateFromModel runs the model call plus validation and reports any
// failure as an error; the caller decides how to degrade.
func (g *Generator) generateFromModel(ctx context.Context, list []tasks.Task, now time.Time) (*TodayPlan, error) {
	if g.model == nil {
		return nil, ErrModelUnavailable
	}

	formatted := make([]promptTask, 0, len(list))
	for _, t := range list {
		formatted = append(formatted, formatTaskForPrompt(t, now))
	}
	payload, err := json.Marshal(formatted)
	if err != nil {
		return nil, err
	}

	content, err := g.model.Complete(ctx, planSystemPrompt,
		"Here is the task list with priorities and deadlines: "+string(payload))
	if err != nil {
		return nil, fmt.Errorf("model call: %w", err)
	}
	if content == "" {
		return nil, fmt.Errorf("%w: empty response", ErrInvalidResponse)
	}

	var parsed struct {
		Summary string          `json:"summary"`
		Advice  json.RawMessage `json:"advice"`
		Focus   []struct {
			ID         string `json:"id"`
			Suggestion string `json:"suggestion"`
		} `json:"focus"`
	}
	if err := json.Unmarshal([]byte(ai.ExtractJSON(content)), &parsed); err != nil {
		return nil, fmt.Errorf("%w: parse: %v", ErrInvalidResponse, err)
	}
	if parsed.Summary == "" {
		return nil, fmt.Errorf("%w: missing summary", ErrInvalidResponse)
	}

	byID := make(map[string]tasks.Task, len(list))
	for _, t := range list {
		byID[t.ID] = t
	}

	// Keep only focus entries that reference live tasks. The model invents
	// ids often enough that this is filtering, not an error.
	focus := make([]PlanTask, 0, len(parsed.Focus))
	for _, item := range parsed.Focus {
		base, ok := byID[item.ID]
		if !ok {
			continue
		}
		pt := formatTaskForPrompt(base, now)
		focus = append(focus, PlanTask{
			ID:         pt.ID,
			Title:      pt.Title,
			Status:     pt.Status,
			Importance: pt.Importance,
			Priority:   pt.Priority,
			DueDate:    base.DueDate,
			Suggestion: item.Suggestion,
		})
	}
	if len(focus) == 0 {
		return nil, fmt.Errorf("%w: no usable focus entries", ErrInvalidResponse)
	}

	return &TodayPlan{
		Summary: parsed.Summary,
		Advice:  cleanAdvice(parsed.Advice),
		Focus:   focus,
	}, nil
}

// cleanAdvice tolerates a missing or malformed advice field: only non-empty
// strings survive, capped at five. A bad advice list never invalidates the
// whole response.
func cleanAdvice(raw json.RawMessage) []string {
	out := []string{}
	if len(raw) == 0 {
		return out
	}

	var items []any
	if err := json.Unmarshal(raw, &items); err != nil {
		return out
	}
	for _, item := range items {
		s, ok := item.(string)
		if !ok || s == "" {
			continue
		}
		out = append(out, s)
		if len(out) == maxAdvice {
			break
		}
	}
	return out
}

// emptyPlan is the fixed answer for a user with no tasks at all.
func emptyPlan() TodayPlan {
	return TodayPlan{
		Summary: "Nothing scheduled: pick one meaningful goal to set up.",
		Advice: []string{
			"Identify one result you want to reach this week.",
			"Plan a brainstorming or strategy-review session.",
		},
		Focus: []PlanTask{},
	}
}

// fallbackPlan is the deterministic, model-free plan: active tasks sorted
// by score, earliest deadline breaking ties, tasks without a deadline last.
func fallbackPlan(list []tasks.Task, now time.Time) TodayPlan {
	active := make([]tasks.Task, 0, len(list))
	for _, t := range list {
		if !t.IsDone() {
			active = append(active, t)
		}
	}

	sort.SliceStable(active, func(i, j int) bool {
		pi, pj := active[i].Priority(now), active[j].Priority(now)
		if pi != pj {
			return pi > pj
		}
		di, dj := active[i].DueDate, active[j].DueDate
		switch {
		case di == nil:
			return false
		case dj == nil:
			return true
		default:
			return di.Before(*dj)
		}
	})

	if len(active) == 0 {
		return TodayPlan{
			Summary: "Agenda is clear! Use the time to plan ahead or to recharge.",
			Advice: []string{
				"Review the week's goals and plan the next sprint.",
				"Set aside time for learning or recovering energy.",
			},
			Focus: []PlanTask{},
		}
	}

	focus := make([]PlanTask, 0, maxFallbackFocus)
	for _, t := range active {
		if len(focus) == maxFallbackFocus {
			break
		}
		focus = append(focus, PlanTask{
			ID:         t.ID,
			Title:      t.Title,
			Status:     t.Status,
			Importance: t.Importance,
			Priority:   t.Priority(now),
			DueDate:    t.DueDate,
		})
	}

	return TodayPlan{
		Summary: fmt.Sprintf("Focus on %q first, then work through the rest by importance and deadline.", active[0].Title),
		Advice: []string{
			"Prepare everything the main task needs and block a dedicated time slot.",
			"Batch similar tasks together to cut context switching.",
		},
		Focus: focus,
	}
}
