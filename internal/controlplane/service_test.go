package controlplane

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/fentz26/studyplan/internal/audit"
	"github.com/fentz26/studyplan/internal/export"
	"github.com/fentz26/studyplan/internal/models"
	"github.com/fentz26/studyplan/internal/planner"
	"github.com/fentz26/studyplan/internal/store"
)

var testNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func TestCreateTaskValidation(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()

	if _, err := svc.CreateTask(models.Task{Title: "  ", Deadline: testNow}); !errors.Is(err, ErrInvalidTask) {
		t.Errorf("Expected ErrInvalidTask for blank title, got %v", err)
	}
	if _, err := svc.CreateTask(models.Task{Title: "Essay"}); !errors.Is(err, ErrInvalidTask) {
		t.Errorf("Expected ErrInvalidTask for missing deadline, got %v", err)
	}

	task, err := svc.CreateTask(models.Task{Title: "Essay", Deadline: testNow.AddDate(0, 0, 2), Priority: 3})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if task.Difficulty != models.DefaultDifficulty {
		t.Errorf("Expected default difficulty, got %d", task.Difficulty)
	}
}

func TestGetTaskNotFound(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()

	if _, err := svc.GetTask("missing"); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("Expected ErrTaskNotFound, got %v", err)
	}
}

func TestUpdateTaskFields(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()

	task, err := svc.CreateTask(models.Task{Title: "Lab Report", Deadline: testNow.AddDate(0, 0, 2), Priority: 4, EstimatedHours: 3})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	updated, err := svc.UpdateTaskFields(task.ID, map[string]string{"progress": "50%", "priority": "9"})
	if err != nil {
		t.Fatalf("UpdateTaskFields failed: %v", err)
	}
	if updated.CompletionStatus != 0.5 || updated.Priority != 5 {
		t.Errorf("Unexpected update result: %+v", updated)
	}

	if _, err := svc.UpdateTaskFields(task.ID, map[string]string{"colour": "red"}); !errors.Is(err, ErrInvalidUpdate) {
		t.Errorf("Expected ErrInvalidUpdate, got %v", err)
	}
	if _, err := svc.UpdateTask(task.ID); !errors.Is(err, ErrInvalidUpdate) {
		t.Errorf("Expected ErrInvalidUpdate for empty update, got %v", err)
	}
	if _, err := svc.SetProgress("missing", 10); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("Expected ErrTaskNotFound, got %v", err)
	}

	if err := svc.DeleteTask(task.ID); err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}
	if err := svc.DeleteTask(task.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("Expected ErrTaskNotFound on second delete, got %v", err)
	}
}

func TestEnsureSamples(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()

	seeded, err := svc.EnsureSamples()
	if err != nil {
		t.Fatalf("EnsureSamples failed: %v", err)
	}
	if !seeded {
		t.Error("Expected samples to be seeded into an empty store")
	}

	seeded, err = svc.EnsureSamples()
	if err != nil {
		t.Fatalf("EnsureSamples failed: %v", err)
	}
	if seeded {
		t.Error("Expected no seeding when tasks exist")
	}

	tasks, _ := svc.ListTasks(store.Filter{})
	if len(tasks) != 4 {
		t.Fatalf("Expected 4 sample tasks, got %d", len(tasks))
	}
	if !tasks[0].Deadline.Equal(testNow.AddDate(0, 0, 3)) {
		t.Errorf("Expected sample deadline relative to clock, got %v", tasks[0].Deadline)
	}
}

func TestGeneratePlan(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()

	if _, err := svc.CurrentPlan(); !errors.Is(err, ErrNoPlan) {
		t.Errorf("Expected ErrNoPlan before generation, got %v", err)
	}
	if _, err := svc.ExportPlan(t.TempDir()); !errors.Is(err, ErrNoPlan) {
		t.Errorf("Expected ErrNoPlan on export before generation, got %v", err)
	}

	created, err := svc.SeedSamples()
	if err != nil {
		t.Fatalf("SeedSamples failed: %v", err)
	}
	if _, err := svc.SetProgress(created[2].ID, 100); err != nil {
		t.Fatalf("SetProgress failed: %v", err)
	}

	res, err := svc.GeneratePlan(planner.Capacity{"Monday": 0})
	if err != nil {
		t.Fatalf("GeneratePlan failed: %v", err)
	}
	if res.TasksIncluded() != 3 {
		t.Errorf("Expected completed task to be excluded, got %d tasks", res.TasksIncluded())
	}
	if len(res.Plan.Days) != 7 || res.Plan.Days[0].Day != "Monday" {
		t.Fatalf("Unexpected plan days: %+v", res.Plan.Days)
	}
	if res.Plan.Days[0].TotalHours != 0 {
		t.Errorf("Expected Monday override to block the day, got %v", res.Plan.Days[0].TotalHours)
	}
	if res.Plan.Days[1].TotalHours != 3 {
		t.Errorf("Expected Tuesday at configured capacity, got %v", res.Plan.Days[1].TotalHours)
	}

	current, err := svc.CurrentPlan()
	if err != nil || current != res {
		t.Errorf("Expected generated plan to be current, got %v", err)
	}

	exported, err := svc.ExportPlan(t.TempDir())
	if err != nil {
		t.Fatalf("ExportPlan failed: %v", err)
	}
	if len(exported.Paths()) != 3 {
		t.Errorf("Expected 3 artifacts, got %v", exported.Paths())
	}

	entries, err := svc.AuditLog("", 0)
	if err != nil {
		t.Fatalf("AuditLog failed: %v", err)
	}
	seen := map[string]bool{}
	for _, e := range entries {
		seen[e.Action] = true
	}
	for _, action := range []string{audit.ActionTaskSeed, audit.ActionTaskUpdate, audit.ActionPlanGenerate, audit.ActionPlanExport} {
		if !seen[action] {
			t.Errorf("Expected audit record for %s", action)
		}
	}
}

func TestGeneratePlanWithOffsetDeadlines(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()

	deadline, err := models.ParseDeadline("2026-03-05T18:00:00+05:30")
	if err != nil {
		t.Fatalf("ParseDeadline failed: %v", err)
	}
	first, err := svc.CreateTask(models.Task{Title: "Thermodynamics", Subject: "Physics", Deadline: deadline, Priority: 4, EstimatedHours: 2, Difficulty: 3})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	second, err := svc.CreateTask(models.Task{Title: "Essay", Subject: "History", Deadline: testNow.AddDate(0, 0, 4), Priority: 3, EstimatedHours: 1, Difficulty: 2})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if _, err := svc.UpdateTaskFields(second.ID, map[string]string{"deadline": "2026-03-06T09:30:00-04:00"}); err != nil {
		t.Fatalf("UpdateTaskFields failed: %v", err)
	}

	tasks, err := svc.ListTasks(store.Filter{})
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("Expected 2 tasks, got %d", len(tasks))
	}

	got, err := svc.GetTask(first.ID)
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if !got.Deadline.Equal(deadline) {
		t.Errorf("Expected deadline %v, got %v", deadline, got.Deadline)
	}

	res, err := svc.GeneratePlan(nil)
	if err != nil {
		t.Fatalf("GeneratePlan failed: %v", err)
	}
	if res.TasksIncluded() != 2 {
		t.Errorf("Expected both tasks in the plan, got %d", res.TasksIncluded())
	}
}

func TestImportExportFile(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()

	if _, err := svc.SeedSamples(); err != nil {
		t.Fatalf("SeedSamples failed: %v", err)
	}
	path := filepath.Join(t.TempDir(), "tasks_data.json")
	n, err := svc.ExportFile(path)
	if err != nil || n != 4 {
		t.Fatalf("ExportFile = %d, %v", n, err)
	}

	other, cleanup2 := newTestService(t)
	defer cleanup2()

	n, err = other.ImportFile(path)
	if err != nil || n != 4 {
		t.Fatalf("ImportFile = %d, %v", n, err)
	}
	// Importing again replaces rows by ID.
	if _, err := other.ImportFile(path); err != nil {
		t.Fatalf("second ImportFile failed: %v", err)
	}
	tasks, _ := other.ListTasks(store.Filter{})
	if len(tasks) != 4 {
		t.Errorf("Expected 4 tasks after re-import, got %d", len(tasks))
	}

	if _, err := other.ImportFile(filepath.Join(t.TempDir(), "missing.json")); err != nil {
		t.Errorf("Expected missing file to import nothing, got %v", err)
	}
}

func newTestService(t *testing.T) (*Service, func()) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	st, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	pdr := audit.NewPDRWriter(st, nil)
	svc := NewService(st, pdr, planner.New(nil, nil), export.NewWriter(tmpDir, nil), planner.UniformCapacity(3), nil).
		WithClock(func() time.Time { return testNow })

	cleanup := func() {
		st.Close()
	}
	return svc, cleanup
}

func TestCurrentPlanSurvivesRestart(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	open := func() (*Service, *store.Store) {
		st, err := store.New(dbPath)
		if err != nil {
			t.Fatalf("Failed to create store: %v", err)
		}
		svc := NewService(st, audit.NewPDRWriter(st, nil), nil, nil, planner.UniformCapacity(3), nil).
			WithClock(func() time.Time { return testNow })
		return svc, st
	}

	svc, st := open()
	if _, err := svc.SeedSamples(); err != nil {
		t.Fatalf("SeedSamples failed: %v", err)
	}
	generated, err := svc.GeneratePlan(nil)
	if err != nil {
		t.Fatalf("GeneratePlan failed: %v", err)
	}
	st.Close()

	svc, st = open()
	defer st.Close()

	current, err := svc.CurrentPlan()
	if err != nil {
		t.Fatalf("CurrentPlan failed: %v", err)
	}
	if current.TasksIncluded() != generated.TasksIncluded() {
		t.Errorf("Expected %d tasks, got %d", generated.TasksIncluded(), current.TasksIncluded())
	}
	if current.Plan.SessionCount() != generated.Plan.SessionCount() || len(current.Outstanding) != len(generated.Outstanding) {
		t.Errorf("Restored plan differs from generated plan")
	}
	if !current.Plan.GeneratedAt.Equal(testNow) {
		t.Errorf("Expected generated_at %v, got %v", testNow, current.Plan.GeneratedAt)
	}
}
