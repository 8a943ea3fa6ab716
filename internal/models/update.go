package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidUpdate is returned when an update key or value cannot be parsed.
var ErrInvalidUpdate = errors.New("invalid task update")

// UpdateField names a task attribute that can be changed after creation.
type UpdateField int

const (
	FieldTitle UpdateField = iota + 1
	FieldSubject
	FieldDeadline
	FieldPriority
	FieldEstimatedHours
	FieldCompletion
	FieldTaskType
	FieldDifficulty
)

var fieldNames = map[UpdateField]string{
	FieldTitle:          "title",
	FieldSubject:        "subject",
	FieldDeadline:       "deadline",
	FieldPriority:       "priority",
	FieldEstimatedHours: "estimated_hours",
	FieldCompletion:     "completion_status",
	FieldTaskType:       "task_type",
	FieldDifficulty:     "difficulty",
}

func (f UpdateField) String() string {
	if name, ok := fieldNames[f]; ok {
		return name
	}
	return fmt.Sprintf("field(%d)", int(f))
}

// TaskUpdate is a single typed change to one task field.
// Build it with the Set* constructors or ParseUpdate.
type TaskUpdate struct {
	field UpdateField
	text  string
	num   float64
	whole int
	when  time.Time
}

func SetTitle(title string) TaskUpdate     { return TaskUpdate{field: FieldTitle, text: title} }
func SetSubject(subject string) TaskUpdate { return TaskUpdate{field: FieldSubject, text: subject} }
func SetDeadline(t time.Time) TaskUpdate   { return TaskUpdate{field: FieldDeadline, when: t} }
func SetPriority(p int) TaskUpdate         { return TaskUpdate{field: FieldPriority, whole: p} }
func SetDifficulty(d int) TaskUpdate       { return TaskUpdate{field: FieldDifficulty, whole: d} }
func SetEstimatedHours(h float64) TaskUpdate {
	return TaskUpdate{field: FieldEstimatedHours, num: h}
}
func SetCompletion(c float64) TaskUpdate { return TaskUpdate{field: FieldCompletion, num: c} }
func SetTaskType(tt TaskType) TaskUpdate { return TaskUpdate{field: FieldTaskType, text: string(tt)} }

// Field reports which attribute the update touches.
func (u TaskUpdate) Field() UpdateField {
	return u.field
}

// Apply writes the update into t and re-normalizes the task.
func (u TaskUpdate) Apply(t *Task) {
	switch u.field {
	case FieldTitle:
		t.Title = u.text
	case FieldSubject:
		t.Subject = u.text
	case FieldDeadline:
		t.Deadline = u.when
	case FieldPriority:
		t.Priority = u.whole
	case FieldEstimatedHours:
		t.EstimatedHours = u.num
	case FieldCompletion:
		t.CompletionStatus = u.num
	case FieldTaskType:
		t.TaskType = TaskType(u.text)
	case FieldDifficulty:
		t.Difficulty = u.whole
	}
	*t = t.Normalize()
}

func (u TaskUpdate) String() string {
	switch u.field {
	case FieldTitle, FieldSubject, FieldTaskType:
		return fmt.Sprintf("%s=%s", u.field, u.text)
	case FieldDeadline:
		return fmt.Sprintf("%s=%s", u.field, u.when.Format(time.RFC3339))
	case FieldPriority, FieldDifficulty:
		return fmt.Sprintf("%s=%d", u.field, u.whole)
	default:
		return fmt.Sprintf("%s=%g", u.field, u.num)
	}
}

// ParseUpdate turns a textual key/value pair into a TaskUpdate.
//
// Accepted keys are the JSON field names plus a few short aliases
// (progress takes a percentage, due takes days from now).
func ParseUpdate(key, value string, now time.Time) (TaskUpdate, error) {
	value = strings.TrimSpace(value)
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "title":
		if value == "" {
			return TaskUpdate{}, fmt.Errorf("%w: title cannot be empty", ErrInvalidUpdate)
		}
		return SetTitle(value), nil
	case "subject":
		return SetSubject(value), nil
	case "deadline":
		t, err := ParseDeadline(value)
		if err != nil {
			return TaskUpdate{}, fmt.Errorf("%w: %v", ErrInvalidUpdate, err)
		}
		return SetDeadline(t), nil
	case "due", "days":
		days, err := strconv.Atoi(value)
		if err != nil {
			return TaskUpdate{}, fmt.Errorf("%w: days %q", ErrInvalidUpdate, value)
		}
		return SetDeadline(now.AddDate(0, 0, days)), nil
	case "priority", "p":
		p, err := strconv.Atoi(value)
		if err != nil {
			return TaskUpdate{}, fmt.Errorf("%w: priority %q", ErrInvalidUpdate, value)
		}
		return SetPriority(p), nil
	case "difficulty", "d":
		d, err := strconv.Atoi(value)
		if err != nil {
			return TaskUpdate{}, fmt.Errorf("%w: difficulty %q", ErrInvalidUpdate, value)
		}
		return SetDifficulty(d), nil
	case "estimated_hours", "hours", "h":
		h, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return TaskUpdate{}, fmt.Errorf("%w: hours %q", ErrInvalidUpdate, value)
		}
		return SetEstimatedHours(h), nil
	case "completion_status", "completion":
		c, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return TaskUpdate{}, fmt.Errorf("%w: completion %q", ErrInvalidUpdate, value)
		}
		return SetCompletion(c), nil
	case "progress":
		pct, err := strconv.ParseFloat(strings.TrimSuffix(value, "%"), 64)
		if err != nil {
			return TaskUpdate{}, fmt.Errorf("%w: progress %q", ErrInvalidUpdate, value)
		}
		return SetCompletion(pct / 100), nil
	case "task_type", "type":
		return SetTaskType(ParseTaskType(value)), nil
	default:
		return TaskUpdate{}, fmt.Errorf("%w: unknown field %q", ErrInvalidUpdate, key)
	}
}

// ParseDeadline accepts RFC3339 timestamps or plain YYYY-MM-DD dates (local midnight).
func ParseDeadline(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", s, time.Local); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("deadline %q: expected RFC3339 or YYYY-MM-DD", s)
	}
	return t, nil
}
