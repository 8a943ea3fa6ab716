package planner

import "github.com/fentz26/studyplan/internal/models"

// OptimalTime picks the part of the day a task is best studied in.
// Hard tasks always go to the morning; otherwise the task type decides,
// with morning as the fallback.
func (c *Config) OptimalTime(t models.Task) models.TimeSlot {
	if t.Difficulty >= c.HardDifficulty {
		return models.SlotMorning
	}
	switch t.TaskType {
	case models.TaskTypeExam:
		return models.SlotMorning
	case models.TaskTypeAssignment:
		return models.SlotAfternoon
	case models.TaskTypeReview:
		return models.SlotEvening
	case models.TaskTypeStudy:
		return models.SlotMorning
	default:
		return models.SlotMorning
	}
}
