package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fentz26/studyplan/internal/models"
	"github.com/fentz26/studyplan/internal/planner"
)

// command is one parsed command bar entry.
type command struct {
	name string
	args []string
}

func parseCommand(input string) (command, bool) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return command{}, false
	}
	return command{name: strings.ToLower(parts[0]), args: parts[1:]}, true
}

// parseAddCommand builds a task from "add" arguments. Words without '=' form
// the title; key=value pairs use the same keys as task updates, e.g.
//
//	add Physics Midterm subject=Physics days=7 p=5 h=8 type=exam d=5
func parseAddCommand(args []string, now time.Time) (models.Task, error) {
	task := models.Task{
		Priority:       3,
		Difficulty:     models.DefaultDifficulty,
		EstimatedHours: 1,
		TaskType:       models.TaskTypeStudy,
	}

	var title []string
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			title = append(title, arg)
			continue
		}
		u, err := models.ParseUpdate(key, value, now)
		if err != nil {
			return models.Task{}, err
		}
		u.Apply(&task)
	}

	task.Title = strings.Join(title, " ")
	if task.Title == "" {
		return models.Task{}, fmt.Errorf("title is required")
	}
	if task.Deadline.IsZero() {
		return models.Task{}, fmt.Errorf("deadline is required (days=N or deadline=YYYY-MM-DD)")
	}
	return task, nil
}

// parseCapacityArgs reads "Mon=3 sat=5" overrides for plan generation.
func parseCapacityArgs(args []string) (planner.Capacity, error) {
	pairs := make(map[string]string, len(args))
	for _, arg := range args {
		day, hours, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("expected day=hours, got %q", arg)
		}
		pairs[day] = hours
	}
	return planner.ParseCapacity(pairs)
}

// parsePercent reads "40" or "40%".
func parsePercent(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(s), "%"), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid progress %q", s)
	}
	return v, nil
}
