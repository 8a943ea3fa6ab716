package export

import (
	"fmt"
	"strings"

	"github.com/fentz26/studyplan/internal/models"
)

const rule = "=================================================="

// RenderText renders a plan as a plain-text weekly overview.
func RenderText(plan *models.WeeklyPlan) string {
	var b strings.Builder
	b.WriteString("Weekly Study Plan\n")
	b.WriteString(rule + "\n\n")

	if plan.IsEmpty() {
		b.WriteString("No sessions scheduled\n")
		return b.String()
	}

	for _, day := range plan.Days {
		fmt.Fprintf(&b, "%s (%s)\n", day.Day, day.Date)
		fmt.Fprintf(&b, "   Total: %.1fh\n", day.TotalHours)

		if len(day.Sessions) == 0 {
			b.WriteString("   No sessions scheduled\n\n")
			continue
		}

		b.WriteString("   Sessions:\n")
		for _, s := range day.Sessions {
			fmt.Fprintf(&b, "     - %s: %s\n", s.Subject, s.Title)
			fmt.Fprintf(&b, "       %.1fh | Priority: %d/5\n", s.Duration, s.Priority)
			fmt.Fprintf(&b, "       Time: %s | Deadline: %d days\n", s.OptimalTime, s.DeadlineDays)
		}
		if len(day.Recommendations) > 0 {
			b.WriteString("   Recommendations:\n")
			for _, rec := range day.Recommendations {
				fmt.Fprintf(&b, "     %s\n", rec)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
