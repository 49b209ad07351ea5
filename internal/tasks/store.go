package tasks

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"taskday-backend/internal/priority"
)

var ErrNotFound = errors.New("task not found")

// Store is the persistence adapter for tasks. Every write path that touches
// importance or due_date refreshes ai_priority_score through the scorer, so
// the cached score never drifts from the fields it derives from.
type Store struct {
	DB *sql.DB
}

func NewStore(dbx *sql.DB) *Store {
	return &Store{DB: dbx}
}

type CreateInput struct {
	Title       string
	Description string
	DueDate     *time.Time
	Importance  int
	Status      string
	Source      string
}

// UpdateInput carries a partial update. Nil pointer means "leave as is".
// DueDateSet distinguishes "clear the due date" (true, DueDate nil) from
// "don't touch it" (false).
type UpdateInput struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	DueDateSet  bool
	Importance  *int
	Status      *string
}

func sanitizeStatus(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultStatus
	}
	if len(s) > StatusMaxLen {
		s = s[:StatusMaxLen]
	}
	return strings.ToUpper(s)
}

func sanitizeSource(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultSource
	}
	return s
}

const taskColumns = `
	id, user_id, title, COALESCE(description,''), importance,
	due_date, status, source, ai_priority_score, created_at, updated_at`

func scanTask(row interface{ Scan(...any) error }) (Task, error) {
	var (
		t     Task
		due   sql.NullTime
		score sql.NullFloat64
	)
	err := row.Scan(
		&t.ID, &t.UserID, &t.Title, &t.Description, &t.Importance,
		&due, &t.Status, &t.Source, &score, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return Task{}, err
	}
	if due.Valid {
		d := due.Time
		t.DueDate = &d
	}
	if score.Valid {
		s := score.Float64
		t.AIPriorityScore = &s
	}
	return t, nil
}

// List returns all tasks of one user, highest score first, unscored tasks
// last, newest first within a score.
func (s *Store) List(ctx context.Context, userID int) ([]Task, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE user_id = $1
		ORDER BY ai_priority_score DESC NULLS LAST, created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

func (s *Store) Get(ctx context.Context, userID int, id string) (Task, error) {
	row := s.DB.QueryRowContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE user_id = $1 AND id = $2
	`, userID, id)

	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Task{}, ErrNotFound
	}
	return t, err
}

func (s *Store) Create(ctx context.Context, userID int, in CreateInput) (Task, error) {
	title := strings.TrimSpace(in.Title)
	importance := in.Importance
	if importance <= 0 {
		importance = DefaultImportance
	}

	now := time.Now().UTC()
	score := priority.Calc(importance, in.DueDate, now)

	t := Task{
		ID:              uuid.NewString(),
		UserID:          userID,
		Title:           title,
		Description:     strings.TrimSpace(in.Description),
		Importance:      importance,
		DueDate:         in.DueDate,
		Status:          sanitizeStatus(in.Status),
		Source:          sanitizeSource(in.Source),
		AIPriorityScore: &score,
	}

	row := s.DB.QueryRowContext(ctx, `
		INSERT INTO tasks (id, user_id, title, description, importance, due_date, status, source, ai_priority_score)
		VALUES ($1, $2, $3, NULLIF($4,''), $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`, t.ID, t.UserID, t.Title, t.Description, t.Importance, t.DueDate, t.Status, t.Source, score)

	if err := row.Scan(&t.CreatedAt, &t.UpdatedAt); err != nil {
		return Task{}, err
	}
	return t, nil
}

func (s *Store) Update(ctx context.Context, userID int, id string, in UpdateInput) (Task, error) {
	existing, err := s.Get(ctx, userID, id)
	if err != nil {
		return Task{}, err
	}

	next := existing

	if in.Title != nil {
		next.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		next.Description = strings.TrimSpace(*in.Description)
	}
	if in.DueDateSet {
		next.DueDate = in.DueDate
	}
	if in.Importance != nil {
		next.Importance = *in.Importance
	}
	if in.Status != nil {
		next.Status = sanitizeStatus(*in.Status)
	}

	// The score follows importance and due date only; other edits must
	// leave it untouched.
	if in.DueDateSet || in.Importance != nil {
		score := priority.Calc(next.Importance, next.DueDate, time.Now().UTC())
		next.AIPriorityScore = &score
	}

	row := s.DB.QueryRowContext(ctx, `
		UPDATE tasks
		SET title=$1, description=NULLIF($2,''), importance=$3, due_date=$4,
		    status=$5, ai_priority_score=$6, updated_at=now()
		WHERE user_id=$7 AND id=$8
		RETURNING updated_at
	`, next.Title, next.Description, next.Importance, next.DueDate,
		next.Status, next.AIPriorityScore, userID, id)

	if err := row.Scan(&next.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Task{}, ErrNotFound
		}
		return Task{}, err
	}
	return next, nil
}

func (s *Store) Delete(ctx context.Context, userID int, id string) error {
	res, err := s.DB.ExecContext(ctx, `
		DELETE FROM tasks WHERE user_id=$1 AND id=$2
	`, userID, id)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
