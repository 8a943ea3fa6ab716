package planner

import (
	"time"

	"github.com/fentz26/studyplan/internal/models"
)

// ScoredTask pairs a task with its urgency for a single planning run.
type ScoredTask struct {
	Task           models.Task `json:"task"`
	Urgency        float64     `json:"urgency"`
	RemainingHours float64     `json:"remaining_hours"`
}

// Urgency computes priority * (10 / daysLeft) * (1 + difficulty*0.1).
// Days left is floored to 1, so overdue and due-today tasks share the same boost.
func Urgency(t models.Task, now time.Time) float64 {
	daysLeft := t.DaysUntilDeadline(now)
	if daysLeft < 1 {
		daysLeft = 1
	}
	return float64(t.Priority) * (10 / float64(daysLeft)) * (1 + float64(t.Difficulty)*0.1)
}

// Score returns one ScoredTask per incomplete task, in input order.
func Score(tasks []models.Task, now time.Time) []ScoredTask {
	scored := make([]ScoredTask, 0, len(tasks))
	for _, t := range tasks {
		if t.IsComplete() {
			continue
		}
		scored = append(scored, ScoredTask{
			Task:           t,
			Urgency:        Urgency(t, now),
			RemainingHours: t.RemainingHours(),
		})
	}
	return scored
}
