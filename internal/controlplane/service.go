// Package controlplane provides the HTTP API and service layer for studyplan.
package controlplane

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fentz26/studyplan/internal/audit"
	"github.com/fentz26/studyplan/internal/export"
	"github.com/fentz26/studyplan/internal/models"
	"github.com/fentz26/studyplan/internal/planner"
	"github.com/fentz26/studyplan/internal/store"
)

// Service provides the control plane business logic.
type Service struct {
	store    *store.Store
	pdr      *audit.PDRWriter
	planner  *planner.Planner
	exporter *export.Writer
	capacity planner.Capacity
	logger   *slog.Logger
	now      func() time.Time

	mu      sync.RWMutex
	current *planner.Result
}

// NewService creates a new control plane service. capacity is the default
// weekly budget that per-run overrides are layered on.
func NewService(s *store.Store, pdr *audit.PDRWriter, pl *planner.Planner, exp *export.Writer, capacity planner.Capacity, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if pl == nil {
		pl = planner.New(nil, logger)
	}
	if exp == nil {
		exp = export.NewWriter("", logger)
	}
	return &Service{
		store:    s,
		pdr:      pdr,
		planner:  pl,
		exporter: exp,
		capacity: capacity,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock replaces the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Now returns the service's current time.
func (s *Service) Now() time.Time {
	return s.now()
}

// Ping checks the backing store.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// --- Task Operations ---

// CreateTask validates and stores a new task.
func (s *Service) CreateTask(t models.Task) (*models.Task, error) {
	t.Title = strings.TrimSpace(t.Title)
	if t.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidTask)
	}
	if t.Deadline.IsZero() {
		return nil, fmt.Errorf("%w: deadline is required", ErrInvalidTask)
	}
	if t.Difficulty == 0 {
		t.Difficulty = models.DefaultDifficulty
	}

	task, err := s.store.CreateTask(t)
	if err != nil {
		return nil, err
	}

	s.pdr.Record(audit.ActionTaskCreate, task, audit.OutcomeSuccess, task.ID, task.Title)
	s.logger.Info("task created", "id", task.ID, "title", task.Title)
	return task, nil
}

// GetTask retrieves a task by ID.
func (s *Service) GetTask(id string) (*models.Task, error) {
	task, err := s.store.GetTask(id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

// ListTasks returns filtered tasks.
func (s *Service) ListTasks(f store.Filter) ([]models.Task, error) {
	return s.store.ListTasks(f)
}

// UpdateTask applies typed updates to a task.
func (s *Service) UpdateTask(id string, updates ...models.TaskUpdate) (*models.Task, error) {
	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidUpdate)
	}

	task, err := s.store.UpdateTask(id, updates...)
	if err != nil {
		return nil, err
	}

	changes := make([]string, 0, len(updates))
	for _, u := range updates {
		changes = append(changes, u.String())
	}
	s.pdr.Record(audit.ActionTaskUpdate, changes, audit.OutcomeSuccess, id, strings.Join(changes, ", "))
	return task, nil
}

// UpdateTaskFields parses key/value pairs into updates and applies them.
// Keys are applied in sorted order.
func (s *Service) UpdateTaskFields(id string, fields map[string]string) (*models.Task, error) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	now := s.now()
	updates := make([]models.TaskUpdate, 0, len(keys))
	for _, k := range keys {
		u, err := models.ParseUpdate(k, fields[k], now)
		if err != nil {
			return nil, err
		}
		updates = append(updates, u)
	}
	return s.UpdateTask(id, updates...)
}

// SetProgress records a completion percentage (0-100).
func (s *Service) SetProgress(id string, percent float64) (*models.Task, error) {
	return s.UpdateTask(id, models.SetCompletion(percent/100))
}

// DeleteTask removes a task.
func (s *Service) DeleteTask(id string) error {
	if err := s.store.DeleteTask(id); err != nil {
		return err
	}
	s.pdr.Record(audit.ActionTaskDelete, id, audit.OutcomeSuccess, id, "")
	return nil
}

// --- Plan Operations ---

// GeneratePlan schedules the incomplete tasks over the next seven days.
// override entries replace the configured capacity for their weekdays.
// The result becomes the current plan.
func (s *Service) GeneratePlan(override planner.Capacity) (*planner.Result, error) {
	tasks, err := s.store.ListTasks(store.Filter{IncompleteOnly: true})
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	capacity := s.capacity.Merge(override)
	res := s.planner.Generate(tasks, capacity, s.now())

	s.mu.Lock()
	s.current = res
	s.mu.Unlock()

	if body, err := json.Marshal(res); err != nil {
		s.logger.Warn("plan not persisted", "error", err)
	} else if _, err := s.store.SavePlan(res.Plan.GeneratedAt, res.Plan.SessionCount(), res.Plan.TotalHours(), body); err != nil {
		s.logger.Warn("plan not persisted", "error", err)
	}

	ids := make([]string, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}
	inputs := map[string]interface{}{"capacity": capacity, "tasks": ids}
	details := fmt.Sprintf("%d sessions, %.1fh, %d outstanding", res.Plan.SessionCount(), res.Plan.TotalHours(), len(res.Outstanding))
	s.pdr.Record(audit.ActionPlanGenerate, inputs, audit.OutcomeSuccess, "", details)
	return res, nil
}

// CurrentPlan returns the last generated plan, loading the latest stored
// plan when none was generated by this process.
func (s *Service) CurrentPlan() (*planner.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		return s.current, nil
	}

	rec, err := s.store.LatestPlan()
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrNoPlan
	}
	var res planner.Result
	if err := json.Unmarshal(rec.Body, &res); err != nil {
		return nil, fmt.Errorf("decode stored plan: %w", err)
	}
	s.current = &res
	return s.current, nil
}

// ExportPlan writes the current plan snapshot. An empty dir uses the
// configured export directory. The returned error joins every artifact
// failure; the result is returned either way.
func (s *Service) ExportPlan(dir string) (*export.Result, error) {
	current, err := s.CurrentPlan()
	if err != nil {
		return nil, err
	}

	w := s.exporter
	if dir != "" {
		w = export.NewWriter(dir, s.logger)
	}
	res := w.Export(current.Plan, current.TasksIncluded(), s.now())

	outcome := audit.OutcomeSuccess
	switch n := len(res.Paths()); {
	case n == 0:
		outcome = audit.OutcomeFailure
	case n < len(res.Artifacts):
		outcome = audit.OutcomePartial
	}
	s.pdr.Record(audit.ActionPlanExport, res.Paths(), outcome, "", strings.Join(res.Paths(), ", "))
	return res, res.Err()
}

// --- Audit ---

// AuditLog lists recent audit records. An empty action lists all.
func (s *Service) AuditLog(action string, limit int) ([]models.PDREntry, error) {
	return s.pdr.Recent(action, limit)
}
