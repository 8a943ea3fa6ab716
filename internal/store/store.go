// Package store provides SQLite-backed persistence for studyplan.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/fentz26/studyplan/internal/models"
)

// ErrTaskNotFound indicates no task exists with the given ID.
var ErrTaskNotFound = errors.New("task not found")

// Store provides access to the studyplan SQLite database.
type Store struct {
	db *sql.DB
}

// New creates a new Store and runs migrations.
func New(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate runs idempotent schema migrations.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		subject TEXT NOT NULL,
		deadline DATETIME NOT NULL,
		priority INTEGER NOT NULL,
		estimated_hours REAL NOT NULL,
		completion_status REAL NOT NULL DEFAULT 0,
		task_type TEXT NOT NULL DEFAULT 'study',
		difficulty INTEGER NOT NULL DEFAULT 3,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS pdr (
		id TEXT PRIMARY KEY,
		action TEXT NOT NULL,
		inputs_hash TEXT NOT NULL,
		outcome TEXT NOT NULL,
		task_id TEXT,
		details TEXT,
		timestamp DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS plans (
		id TEXT PRIMARY KEY,
		generated_at DATETIME NOT NULL,
		sessions INTEGER NOT NULL,
		total_hours REAL NOT NULL,
		body TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_deadline ON tasks(deadline);
	CREATE INDEX IF NOT EXISTS idx_tasks_subject ON tasks(subject);
	CREATE INDEX IF NOT EXISTS idx_pdr_timestamp ON pdr(timestamp);
	CREATE INDEX IF NOT EXISTS idx_plans_generated_at ON plans(generated_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// --- Task Operations ---

var taskColumns = []string{
	"id", "title", "subject", "deadline", "priority", "estimated_hours",
	"completion_status", "task_type", "difficulty", "created_at", "updated_at",
}

// CreateTask normalizes and inserts a new task. An empty ID is replaced with a fresh UUID.
func (s *Store) CreateTask(t models.Task) (*models.Task, error) {
	now := time.Now().UTC()
	task := t.Normalize()
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	task.CreatedAt = now
	task.UpdatedAt = now

	query, args, err := sq.Insert("tasks").
		Columns(taskColumns...).
		Values(taskValues(&task)...).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert: %w", err)
	}
	if _, err := s.db.Exec(query, args...); err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return &task, nil
}

// UpsertTask inserts the task or replaces the stored row with the same ID,
// keeping the task's own timestamps.
func (s *Store) UpsertTask(t models.Task) error {
	task := t.Normalize()
	now := time.Now().UTC()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	if task.UpdatedAt.IsZero() {
		task.UpdatedAt = now
	}

	query, args, err := sq.Insert("tasks").
		Options("OR REPLACE").
		Columns(taskColumns...).
		Values(taskValues(&task)...).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}
	if _, err := s.db.Exec(query, args...); err != nil {
		return fmt.Errorf("upsert task: %w", err)
	}
	return nil
}

// GetTask retrieves a task by ID. It returns nil, nil when the task does not exist.
func (s *Store) GetTask(id string) (*models.Task, error) {
	query, args, err := sq.Select(taskColumns...).From("tasks").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	task, err := scanTask(s.db.QueryRow(query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query task: %w", err)
	}
	return task, nil
}

// Filter narrows ListTasks. Zero values match everything.
type Filter struct {
	Subject        string
	TaskType       models.TaskType
	IncompleteOnly bool
}

// ListTasks returns tasks matching the filter in insertion order.
func (s *Store) ListTasks(f Filter) ([]models.Task, error) {
	q := sq.Select(taskColumns...).From("tasks")
	if f.Subject != "" {
		q = q.Where("subject = ? COLLATE NOCASE", f.Subject)
	}
	if f.TaskType != "" {
		q = q.Where(sq.Eq{"task_type": string(f.TaskType)})
	}
	if f.IncompleteOnly {
		q = q.Where(sq.Lt{"completion_status": 1.0})
	}
	query, args, err := q.OrderBy("created_at ASC", "rowid ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

// CountTasks returns the number of stored tasks.
func (s *Store) CountTasks() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM tasks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return n, nil
}

// UpdateTask applies the updates to a stored task inside one transaction.
func (s *Store) UpdateTask(id string, updates ...models.TaskUpdate) (*models.Task, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	query, args, err := sq.Select(taskColumns...).From("tasks").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	task, err := scanTask(tx.QueryRow(query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query task: %w", err)
	}

	for _, u := range updates {
		u.Apply(task)
	}
	task.Deadline = task.Deadline.UTC()
	task.UpdatedAt = time.Now().UTC()

	query, args, err = sq.Update("tasks").SetMap(map[string]interface{}{
		"title":             task.Title,
		"subject":           task.Subject,
		"deadline":          task.Deadline,
		"priority":          task.Priority,
		"estimated_hours":   task.EstimatedHours,
		"completion_status": task.CompletionStatus,
		"task_type":         string(task.TaskType),
		"difficulty":        task.Difficulty,
		"updated_at":        task.UpdatedAt,
	}).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update: %w", err)
	}
	if _, err := tx.Exec(query, args...); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return task, nil
}

// DeleteTask removes a task. It returns ErrTaskNotFound if nothing was deleted.
func (s *Store) DeleteTask(id string) error {
	result, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if n == 0 {
		return ErrTaskNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row rowScanner) (*models.Task, error) {
	var task models.Task
	var taskType string
	err := row.Scan(
		&task.ID, &task.Title, &task.Subject, &task.Deadline, &task.Priority, &task.EstimatedHours,
		&task.CompletionStatus, &taskType, &task.Difficulty, &task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	task.TaskType = models.TaskType(taskType)
	return &task, nil
}

// taskValues converts the task's timestamps to UTC in place. The driver writes
// time values as text and can only read back UTC or named zones.
func taskValues(t *models.Task) []interface{} {
	t.Deadline = t.Deadline.UTC()
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return []interface{}{
		t.ID, t.Title, t.Subject, t.Deadline, t.Priority, t.EstimatedHours,
		t.CompletionStatus, string(t.TaskType), t.Difficulty, t.CreatedAt, t.UpdatedAt,
	}
}

// --- PDR Operations ---

// WritePDR writes a Process Decision Record.
func (s *Store) WritePDR(action, inputsHash, outcome, taskID, details string) (*models.PDREntry, error) {
	now := time.Now().UTC()
	pdr := &models.PDREntry{
		ID:         uuid.New().String(),
		Action:     action,
		InputsHash: inputsHash,
		Outcome:    outcome,
		TaskID:     taskID,
		Details:    details,
		Timestamp:  now,
	}

	_, err := s.db.Exec(
		`INSERT INTO pdr (id, action, inputs_hash, outcome, task_id, details, timestamp) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		pdr.ID, pdr.Action, pdr.InputsHash, pdr.Outcome, pdr.TaskID, pdr.Details, pdr.Timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert pdr: %w", err)
	}
	return pdr, nil
}

// ListPDR returns the most recent audit records, newest first. Action filters when non-empty.
func (s *Store) ListPDR(action string, limit int) ([]models.PDREntry, error) {
	q := sq.Select("id", "action", "inputs_hash", "outcome", "task_id", "details", "timestamp").From("pdr")
	if action != "" {
		q = q.Where(sq.Eq{"action": action})
	}
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	query, args, err := q.OrderBy("timestamp DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query pdr: %w", err)
	}
	defer rows.Close()

	var entries []models.PDREntry
	for rows.Next() {
		var e models.PDREntry
		var taskID, details sql.NullString
		if err := rows.Scan(&e.ID, &e.Action, &e.InputsHash, &e.Outcome, &taskID, &details, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan pdr: %w", err)
		}
		if taskID.Valid {
			e.TaskID = taskID.String
		}
		if details.Valid {
			e.Details = details.String
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
