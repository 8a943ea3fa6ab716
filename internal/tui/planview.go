package tui

import (
	"fmt"
	"strings"

	"github.com/fentz26/studyplan/internal/planner"
)

func renderPlan(res *planner.Result) string {
	if res == nil {
		return "\n  No plan yet. Press ctrl+g or type: gen\n"
	}
	if res.Plan.IsEmpty() {
		return "\n  Nothing to schedule. All tasks are complete.\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n  %d sessions, %.1fh across %d tasks\n",
		res.Plan.SessionCount(), res.Plan.TotalHours(), res.TasksIncluded())

	for _, day := range res.Plan.Days {
		b.WriteString("\n  " + dayStyle.Render(fmt.Sprintf("%s %s", day.Day, day.Date)))
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  %.1fh / %.1fh", day.TotalHours, day.AvailableHours)) + "\n")

		if len(day.Sessions) == 0 {
			b.WriteString(mutedStyle.Render("    free day") + "\n")
		}
		for _, s := range day.Sessions {
			fmt.Fprintf(&b, "    %-9s %4.1fh  %s: %s  %s\n",
				s.OptimalTime, s.Duration, s.Subject, s.Title, formatDue(s.DeadlineDays))
		}
		for _, rec := range day.Recommendations {
			b.WriteString("    " + helpStyle.Render(rec) + "\n")
		}
	}

	if len(res.Outstanding) > 0 {
		b.WriteString("\n  " + urgentStyle.Render("Not scheduled this week:") + "\n")
		for _, o := range res.Outstanding {
			fmt.Fprintf(&b, "    %s  %.1fh left\n", o.Title, o.Hours)
		}
	}
	return b.String()
}
