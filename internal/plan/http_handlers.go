package plan

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"taskday-backend/internal/analytics"
	"taskday-backend/internal/auth"
	"taskday-backend/internal/tasks"
)

// TodayPlanHandler serves GET /tasks/today. ?regenerate=true bypasses the
// cache and forces a fresh model call.
func TodayPlanHandler(dbx *sql.DB, store *tasks.Store, gen *Generator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		force := r.URL.Query().Get("regenerate") == "true"

		list, err := store.List(r.Context(), uid)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		p := gen.GeneratePlan(r.Context(), uid, list, force)

		env := analytics.FromRequest(r)
		env.UserID = uid
		_ = analytics.Log(r.Context(), dbx, env, "plan_generated", map[string]any{
			"task_count":  len(list),
			"focus_count": len(p.Focus),
			"forced":      force,
		})

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(p)
	}
}
