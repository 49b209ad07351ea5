package plan

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log"
)

// Cache stores at most one plan per user, addressed by the hash of the task
// set it was generated from. It is an optimization, never a correctness
// dependency: implementations must turn their own failures into misses
// (reads) or no-ops (writes).
type Cache interface {
	Get(ctx context.Context, userID int, expectedHash string) (*TodayPlan, bool)
	Put(ctx context.Context, userID int, hash string, p TodayPlan)
}

// SQLCache keeps plans in the plan_cache table, one row per user,
// last-writer-wins.
type SQLCache struct {
	DB *sql.DB
}

func NewSQLCache(dbx *sql.DB) *SQLCache {
	return &SQLCache{DB: dbx}
}

func (c *SQLCache) Get(ctx context.Context, userID int, expectedHash string) (*TodayPlan, bool) {
	var (
		storedHash string
		summary    string
		adviceRaw  []byte
		focusRaw   []byte
	)

	err := c.DB.QueryRowContext(ctx, `
		SELECT tasks_hash, summary, advice, focus
		FROM plan_cache
		WHERE user_id = $1
	`, userID).Scan(&storedHash, &summary, &adviceRaw, &focusRaw)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, false
	}
	if err != nil {
		log.Printf("[WARN] plan cache read failed for user %d: %v", userID, err)
		return nil, false
	}

	// Stale entry: the task set changed since generation.
	if storedHash != expectedHash {
		return nil, false
	}

	p := TodayPlan{Summary: summary}
	if err := json.Unmarshal(adviceRaw, &p.Advice); err != nil {
		log.Printf("[WARN] plan cache: bad advice payload for user %d: %v", userID, err)
		return nil, false
	}
	if err := json.Unmarshal(focusRaw, &p.Focus); err != nil {
		log.Printf("[WARN] plan cache: bad focus payload for user %d: %v", userID, err)
		return nil, false
	}
	return &p, true
}

func (c *SQLCache) Put(ctx context.Context, userID int, hash string, p TodayPlan) {
	adviceRaw, err := json.Marshal(p.Advice)
	if err != nil {
		return
	}
	focusRaw, err := json.Marshal(p.Focus)
	if err != nil {
		return
	}

	_, err = c.DB.ExecContext(ctx, `
		INSERT INTO plan_cache (user_id, tasks_hash, summary, advice, focus, updated_at)
		VALUES ($1, $2, $3, $4::jsonb, $5::jsonb, now())
		ON CONFLICT (user_id) DO UPDATE SET
			tasks_hash = EXCLUDED.tasks_hash,
			summary    = EXCLUDED.summary,
			advice     = EXCLUDED.advice,
			focus      = EXCLUDED.focus,
			updated_at = now()
	`, userID, hash, p.Summary, string(adviceRaw), string(focusRaw))
	if err != nil {
		log.Printf("[WARN] plan cache write failed for user %d: %v", userID, err)
	}
}
