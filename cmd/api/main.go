package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/rs/cors"

	"taskday-backend/internal/ai"
	"taskday-backend/internal/auth"
	"taskday-backend/internal/config"
	"taskday-backend/internal/db"
	"taskday-backend/internal/plan"
	"taskday-backend/internal/tasks"
)

func main() {
	cfg := config.Load()

	database, err := db.Connect(cfg.ConnString())
	if err != nil {
		log.Fatal("❌ Failed to connect DB:", err)
	}
	defer database.Close()

	log.Println("✅ Connected to PostgreSQL!")

	// The model client is built once at startup; nil means the AI features
	// run in deterministic fallback mode.
	client := ai.New(cfg.OpenAIKey, cfg.OpenAIModel)
	if client == nil {
		log.Println("[WARN] OPENAI_API_KEY not set, plan/suggest run in fallback mode")
	}

	var model plan.ModelClient
	var completer ai.Completer
	if client != nil {
		model = client
		completer = client
	}

	store := tasks.NewStore(database)
	generator := plan.NewGenerator(model, plan.NewSQLCache(database))
	suggester := ai.NewSuggester(completer)

	secret := []byte(cfg.JWTSecret)
	mw := auth.New(secret)

	mux := http.NewServeMux()

	// Health endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// ----- AUTH API -----
	mux.HandleFunc("POST /auth/register", auth.RegisterHandler(database, secret))
	mux.HandleFunc("POST /auth/login", auth.LoginHandler(database, secret))
	mux.HandleFunc("POST /auth/logout", auth.LogoutHandler())
	mux.HandleFunc("GET /auth/me", mw.Wrap(auth.MeHandler(database)))
	mux.HandleFunc("DELETE /auth/account", mw.Wrap(auth.DeleteAccountHandler(database)))

	// ----- TASKS API -----
	mux.HandleFunc("GET /tasks", mw.Wrap(tasks.ListTasksHandler(store)))
	mux.HandleFunc("POST /tasks", mw.Wrap(tasks.CreateTaskHandler(database, store)))
	mux.HandleFunc("PATCH /tasks/{id}", mw.Wrap(tasks.UpdateTaskHandler(database, store)))
	mux.HandleFunc("DELETE /tasks/{id}", mw.Wrap(tasks.DeleteTaskHandler(database, store)))

	// ----- TODAY PLAN + SUGGESTIONS -----
	mux.HandleFunc("GET /tasks/today", mw.Wrap(plan.TodayPlanHandler(database, store, generator)))
	mux.HandleFunc("POST /tasks/suggest", mw.Wrap(tasks.SuggestTaskHandler(database, suggester)))

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Platform", "X-App-Version", "X-Session-Id"},
		AllowCredentials: true,
	})

	handler := c.Handler(mux)

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("🚀 API server is running on %s", addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}
