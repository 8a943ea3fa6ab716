package controlplane

import (
	"fmt"
	"time"

	"github.com/fentz26/studyplan/internal/audit"
	"github.com/fentz26/studyplan/internal/models"
	"github.com/fentz26/studyplan/internal/store"
)

// SampleTasks returns the demonstration tasks with deadlines relative to now.
func SampleTasks(now time.Time) []models.Task {
	return []models.Task{
		{
			Title:          "Calculus Integration Problems",
			Subject:        "Mathematics",
			Deadline:       now.AddDate(0, 0, 3),
			Priority:       4,
			EstimatedHours: 5,
			TaskType:       models.TaskTypeAssignment,
			Difficulty:     4,
		},
		{
			Title:          "Physics Midterm Study",
			Subject:        "Physics",
			Deadline:       now.AddDate(0, 0, 7),
			Priority:       5,
			EstimatedHours: 8,
			TaskType:       models.TaskTypeExam,
			Difficulty:     5,
		},
		{
			Title:          "History Essay Research",
			Subject:        "History",
			Deadline:       now.AddDate(0, 0, 5),
			Priority:       3,
			EstimatedHours: 4,
			TaskType:       models.TaskTypeAssignment,
			Difficulty:     3,
		},
		{
			Title:          "Chemistry Lab Report",
			Subject:        "Chemistry",
			Deadline:       now.AddDate(0, 0, 2),
			Priority:       4,
			EstimatedHours: 3,
			TaskType:       models.TaskTypeAssignment,
			Difficulty:     3,
		},
	}
}

// SeedSamples adds the demonstration tasks.
func (s *Service) SeedSamples() ([]models.Task, error) {
	var created []models.Task
	for _, t := range SampleTasks(s.now()) {
		task, err := s.store.CreateTask(t)
		if err != nil {
			return created, fmt.Errorf("seed %q: %w", t.Title, err)
		}
		created = append(created, *task)
	}
	s.pdr.Record(audit.ActionTaskSeed, len(created), audit.OutcomeSuccess, "", fmt.Sprintf("%d sample tasks", len(created)))
	s.logger.Info("sample tasks created", "count", len(created))
	return created, nil
}

// EnsureSamples seeds the demonstration tasks only when no tasks exist.
func (s *Service) EnsureSamples() (bool, error) {
	n, err := s.store.CountTasks()
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	if _, err := s.SeedSamples(); err != nil {
		return false, err
	}
	return true, nil
}

// ImportFile loads a task record file and upserts every task by ID.
func (s *Service) ImportFile(path string) (int, error) {
	tasks, err := store.NewFileStorage(path).Load()
	if err != nil {
		s.pdr.Record(audit.ActionTaskImport, path, audit.OutcomeFailure, "", err.Error())
		return 0, err
	}
	for i, t := range tasks {
		if err := s.store.UpsertTask(t); err != nil {
			s.pdr.Record(audit.ActionTaskImport, path, audit.OutcomePartial, "", err.Error())
			return i, err
		}
	}
	s.pdr.Record(audit.ActionTaskImport, path, audit.OutcomeSuccess, "", fmt.Sprintf("%d tasks from %s", len(tasks), path))
	return len(tasks), nil
}

// ExportFile writes every stored task to a task record file.
func (s *Service) ExportFile(path string) (int, error) {
	tasks, err := s.store.ListTasks(store.Filter{})
	if err != nil {
		return 0, err
	}
	if err := store.NewFileStorage(path).Save(tasks, s.now()); err != nil {
		return 0, err
	}
	return len(tasks), nil
}
