// Package models defines the core domain types for studyplan.
package models

import (
	"math"
	"strings"
	"time"
)

// TaskType classifies the kind of study work a task represents.
type TaskType string

const (
	TaskTypeStudy      TaskType = "study"
	TaskTypeAssignment TaskType = "assignment"
	TaskTypeExam       TaskType = "exam"
	TaskTypeReview     TaskType = "review"
)

// TaskTypes lists every known task type.
var TaskTypes = []TaskType{TaskTypeStudy, TaskTypeAssignment, TaskTypeExam, TaskTypeReview}

// ParseTaskType maps free text onto a known task type. Unknown values fall back to study.
func ParseTaskType(s string) TaskType {
	switch TaskType(strings.ToLower(strings.TrimSpace(s))) {
	case TaskTypeAssignment:
		return TaskTypeAssignment
	case TaskTypeExam:
		return TaskTypeExam
	case TaskTypeReview:
		return TaskTypeReview
	default:
		return TaskTypeStudy
	}
}

// TimeSlot is the part of the day a session is best placed in.
type TimeSlot string

const (
	SlotMorning   TimeSlot = "morning"
	SlotAfternoon TimeSlot = "afternoon"
	SlotEvening   TimeSlot = "evening"
)

// Bounds for the clamped task fields.
const (
	MinPriority   = 1
	MaxPriority   = 5
	MinDifficulty = 1
	MaxDifficulty = 5

	DefaultDifficulty = 3
)

// Task is a unit of study work.
type Task struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Subject          string    `json:"subject"`
	Deadline         time.Time `json:"deadline"`
	Priority         int       `json:"priority"`
	EstimatedHours   float64   `json:"estimated_hours"`
	CompletionStatus float64   `json:"completion_status"`
	TaskType         TaskType  `json:"task_type"`
	Difficulty       int       `json:"difficulty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Normalize clamps every bounded field into its valid range and returns the result.
func (t Task) Normalize() Task {
	t.Title = strings.TrimSpace(t.Title)
	t.Subject = strings.TrimSpace(t.Subject)
	if t.Subject == "" {
		t.Subject = "General"
	}
	t.Priority = ClampInt(t.Priority, MinPriority, MaxPriority)
	t.Difficulty = ClampInt(t.Difficulty, MinDifficulty, MaxDifficulty)
	t.CompletionStatus = ClampFloat(t.CompletionStatus, 0, 1)
	t.EstimatedHours = NonNegative(t.EstimatedHours)
	t.TaskType = ParseTaskType(string(t.TaskType))
	return t
}

// IsComplete reports whether the task is fully done.
func (t Task) IsComplete() bool {
	return t.CompletionStatus >= 1.0
}

// RemainingHours is the outstanding effort net of the completion fraction.
func (t Task) RemainingHours() float64 {
	return t.EstimatedHours * (1 - t.CompletionStatus)
}

// DaysUntilDeadline returns whole days between now and the deadline, rounded down.
// Overdue tasks yield negative values.
func (t Task) DaysUntilDeadline(now time.Time) int {
	return int(math.Floor(t.Deadline.Sub(now).Hours() / 24))
}

// Session is one allocated block of study time for one task on one day.
type Session struct {
	TaskID       string   `json:"task_id"`
	Title        string   `json:"title"`
	Subject      string   `json:"subject"`
	Duration     float64  `json:"duration"`
	Priority     int      `json:"priority"`
	TaskType     TaskType `json:"task_type"`
	Difficulty   int      `json:"difficulty"`
	OptimalTime  TimeSlot `json:"optimal_time"`
	DeadlineDays int      `json:"deadline_days"`
}

// DaySchedule is the complete plan for one calendar day.
type DaySchedule struct {
	Day             string    `json:"day"`
	Date            string    `json:"date"` // YYYY-MM-DD
	Sessions        []Session `json:"sessions"`
	TotalHours      float64   `json:"total_hours"`
	AvailableHours  float64   `json:"available_hours"`
	Recommendations []string  `json:"recommendations"`
}

// WeeklyPlan holds seven consecutive DaySchedules in chronological order.
// A plan with no days means there was nothing to schedule.
type WeeklyPlan struct {
	GeneratedAt time.Time     `json:"generated_at"`
	Days        []DaySchedule `json:"days"`
}

// IsEmpty reports whether the plan has no days at all.
func (p *WeeklyPlan) IsEmpty() bool {
	return p == nil || len(p.Days) == 0
}

// Day looks up a DaySchedule by weekday name (case-insensitive).
func (p *WeeklyPlan) Day(name string) (*DaySchedule, bool) {
	if p == nil {
		return nil, false
	}
	for i := range p.Days {
		if strings.EqualFold(p.Days[i].Day, name) {
			return &p.Days[i], true
		}
	}
	return nil, false
}

// TotalHours sums the allocated hours across the week.
func (p *WeeklyPlan) TotalHours() float64 {
	if p == nil {
		return 0
	}
	var total float64
	for _, d := range p.Days {
		total += d.TotalHours
	}
	return total
}

// SessionCount counts sessions across the week.
func (p *WeeklyPlan) SessionCount() int {
	if p == nil {
		return 0
	}
	n := 0
	for _, d := range p.Days {
		n += len(d.Sessions)
	}
	return n
}

// PDREntry represents a Process Decision Record for audit.
type PDREntry struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	InputsHash string    `json:"inputs_hash"`
	Outcome    string    `json:"outcome"`
	TaskID     string    `json:"task_id,omitempty"`
	Details    string    `json:"details,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// ClampInt bounds v to [lo, hi].
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampFloat bounds v to [lo, hi]. NaN maps to lo.
func ClampFloat(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// NonNegative maps negative, NaN and infinite values to 0.
func NonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
