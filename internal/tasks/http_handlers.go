package tasks

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"taskday-backend/internal/ai"
	"taskday-backend/internal/analytics"
	"taskday-backend/internal/auth"
)

// normalizeDueDate parses a client-supplied due date. Blank or unparseable
// input means "no deadline" rather than an error, matching how the mobile
// client has always sent it.
func normalizeDueDate(raw string) *time.Time {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			utc := t.UTC()
			return &utc
		}
	}
	return nil
}

func validImportance(v int) bool {
	return v >= 1 && v <= 5
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// -------------------------------
// HANDLERS
// -------------------------------

func ListTasksHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		result, err := store.List(r.Context(), uid)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if result == nil {
			result = []Task{}
		}
		writeJSON(w, result)
	}
}

func CreateTaskHandler(dbx *sql.DB, store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			DueDate     string `json:"due_date"`
			Importance  int    `json:"importance"`
			Status      string `json:"status"`
			Source      string `json:"source"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		title := strings.TrimSpace(body.Title)
		if title == "" {
			http.Error(w, "title is required", http.StatusBadRequest)
			return
		}
		if len(title) > TitleMaxLen {
			http.Error(w, "title too long", http.StatusBadRequest)
			return
		}
		if body.Importance != 0 && !validImportance(body.Importance) {
			http.Error(w, "importance must be between 1 and 5", http.StatusBadRequest)
			return
		}

		t, err := store.Create(r.Context(), uid, CreateInput{
			Title:       title,
			Description: body.Description,
			DueDate:     normalizeDueDate(body.DueDate),
			Importance:  body.Importance,
			Status:      body.Status,
			Source:      body.Source,
		})
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		// analytics: task_created
		{
			env := analytics.FromRequest(r)
			env.UserID = uid

			props := map[string]any{
				"task_id":      t.ID,
				"text_len":     len(t.Title) + len(t.Description),
				"has_deadline": t.DueDate != nil,
				"importance":   t.Importance,
				"source":       t.Source,
			}
			_ = analytics.Log(r.Context(), dbx, env, "task_created", props)
		}

		w.WriteHeader(http.StatusCreated)
		writeJSON(w, t)
	}
}

func UpdateTaskHandler(dbx *sql.DB, store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		id := r.PathValue("id")
		if id == "" {
			http.Error(w, "task id required", http.StatusBadRequest)
			return
		}

		var body struct {
			Title       *string `json:"title"`
			Description *string `json:"description"`
			DueDate     *string `json:"due_date"`
			Importance  *int    `json:"importance"`
			Status      *string `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if body.Title == nil && body.Description == nil && body.DueDate == nil &&
			body.Importance == nil && body.Status == nil {
			http.Error(w, "at least one field must be provided", http.StatusBadRequest)
			return
		}

		if body.Title != nil {
			t := strings.TrimSpace(*body.Title)
			if t == "" || len(t) > TitleMaxLen {
				http.Error(w, "invalid title", http.StatusBadRequest)
				return
			}
		}
		if body.Importance != nil && !validImportance(*body.Importance) {
			http.Error(w, "importance must be between 1 and 5", http.StatusBadRequest)
			return
		}

		in := UpdateInput{
			Title:       body.Title,
			Description: body.Description,
			Importance:  body.Importance,
			Status:      body.Status,
		}
		if body.DueDate != nil {
			// An empty string clears the deadline.
			in.DueDateSet = true
			in.DueDate = normalizeDueDate(*body.DueDate)
		}

		var prev Task
		if body.Status != nil {
			prev, _ = store.Get(r.Context(), uid, id)
		}

		t, err := store.Update(r.Context(), uid, id, in)
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "task not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		env := analytics.FromRequest(r)
		env.UserID = uid

		_ = analytics.Log(r.Context(), dbx, env, "task_updated", map[string]any{
			"task_id":          t.ID,
			"score_recomputed": in.DueDateSet || in.Importance != nil,
		})

		if body.Status != nil && !prev.IsDone() && t.IsDone() {
			_ = analytics.Log(r.Context(), dbx, env, "task_completed", map[string]any{
				"task_id":                t.ID,
				"importance":             t.Importance,
				"time_since_created_sec": int(time.Now().UTC().Sub(t.CreatedAt).Seconds()),
			})
		}

		writeJSON(w, t)
	}
}

func DeleteTaskHandler(dbx *sql.DB, store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		id := r.PathValue("id")
		if id == "" {
			http.Error(w, "task id required", http.StatusBadRequest)
			return
		}

		err := store.Delete(r.Context(), uid, id)
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "task not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		env := analytics.FromRequest(r)
		env.UserID = uid
		_ = analytics.Log(r.Context(), dbx, env, "task_deleted", map[string]any{"task_id": id})

		writeJSON(w, map[string]any{"ok": true})
	}
}

// SuggestTaskHandler turns a voice transcript into a task draft. The
// suggester never fails, so the only error cases here are bad input.
func SuggestTaskHandler(dbx *sql.DB, suggester *ai.Suggester) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body struct {
			Transcript string `json:"transcript"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(body.Transcript) == "" {
			http.Error(w, "transcript is required", http.StatusBadRequest)
			return
		}

		suggestion := suggester.Suggest(r.Context(), body.Transcript)

		env := analytics.FromRequest(r)
		env.UserID = uid
		_ = analytics.Log(r.Context(), dbx, env, "task_suggested", map[string]any{
			"transcript_len": len(body.Transcript),
		})

		writeJSON(w, suggestion)
	}
}
