package store

import (
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

// PlanRecord is a stored plan. Body is the serialized plan as produced by the caller.
type PlanRecord struct {
	ID          string
	GeneratedAt time.Time
	Sessions    int
	TotalHours  float64
	Body        []byte
}

// SavePlan stores a generated plan.
func (s *Store) SavePlan(generatedAt time.Time, sessions int, totalHours float64, body []byte) (*PlanRecord, error) {
	rec := &PlanRecord{
		ID:          uuid.New().String(),
		GeneratedAt: generatedAt.UTC(),
		Sessions:    sessions,
		TotalHours:  totalHours,
		Body:        body,
	}

	query, args, err := sq.Insert("plans").
		Columns("id", "generated_at", "sessions", "total_hours", "body").
		Values(rec.ID, rec.GeneratedAt, rec.Sessions, rec.TotalHours, string(rec.Body)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert: %w", err)
	}
	if _, err := s.db.Exec(query, args...); err != nil {
		return nil, fmt.Errorf("insert plan: %w", err)
	}
	return rec, nil
}

// LatestPlan returns the most recently generated plan, or nil if none exists.
func (s *Store) LatestPlan() (*PlanRecord, error) {
	query, args, err := sq.Select("id", "generated_at", "sessions", "total_hours", "body").
		From("plans").
		OrderBy("generated_at DESC", "rowid DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rec PlanRecord
	var body string
	err = s.db.QueryRow(query, args...).Scan(&rec.ID, &rec.GeneratedAt, &rec.Sessions, &rec.TotalHours, &body)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query plan: %w", err)
	}
	rec.Body = []byte(body)
	return &rec, nil
}
