package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/fentz26/studyplan/internal/models"
)

func progressBar(completion float64, width int) string {
	filled := int(completion*float64(width) + 0.5)
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}

func formatDue(days int) string {
	switch {
	case days < 0:
		return urgentStyle.Render(fmt.Sprintf("overdue %dd", -days))
	case days <= 2:
		return urgentStyle.Render(fmt.Sprintf("due %dd", days))
	case days <= 5:
		return soonStyle.Render(fmt.Sprintf("due %dd", days))
	default:
		return mutedStyle.Render(fmt.Sprintf("due %dd", days))
	}
}

func taskLine(t models.Task, now time.Time) string {
	progress := progressBar(t.CompletionStatus, 10)
	if t.IsComplete() {
		progress = doneStyle.Render(progress)
	}
	return fmt.Sprintf("%s %3.0f%%  %-28s %-12s P%d D%d  %s",
		progress, t.CompletionStatus*100, truncate(t.Title, 28), truncate(t.Subject, 12),
		t.Priority, t.Difficulty, formatDue(t.DaysUntilDeadline(now)))
}

func renderTaskList(tasks []models.Task, selected, height int, now time.Time) string {
	if len(tasks) == 0 {
		return "\n  No tasks found. Type: add <title> days=N to create one.\n"
	}

	var lines []string
	for i, t := range tasks {
		if i == selected {
			lines = append(lines, selectedStyle.Render("> "+taskLine(t, now)))
		} else {
			lines = append(lines, taskItemStyle.Render("  "+taskLine(t, now)))
		}
	}

	// Limit visible lines
	if len(lines) > height {
		start := selected - height/2
		if start < 0 {
			start = 0
		}
		end := start + height
		if end > len(lines) {
			end = len(lines)
			start = max(0, end-height)
		}
		lines = lines[start:end]
	}

	return strings.Join(lines, "\n")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "~"
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
