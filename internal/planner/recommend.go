package planner

import (
	"time"

	"github.com/fentz26/studyplan/internal/models"
)

// Advisory messages attached to a day.
const (
	RecHeavyDay     = "Heavy study day - schedule regular breaks"
	RecLightDay     = "Light day - consider adding review sessions"
	RecManySubjects = "Multiple subjects - plan transition time"
	RecManyHard     = "Multiple challenging topics - space them out"
	RecUrgent       = "Urgent deadlines - prioritize these sessions"
	RecWeekend      = "Weekend - good time for longer study sessions"
)

// Recommend returns the advisories for a completed day, in a fixed order:
// workload, subject diversity, difficulty balance, urgency, weekend.
func (c *Config) Recommend(day models.DaySchedule, weekday time.Weekday) []string {
	recs := []string{}

	if day.TotalHours > day.AvailableHours*c.HeavyDayRatio {
		recs = append(recs, RecHeavyDay)
	} else if day.TotalHours < day.AvailableHours*c.LightDayRatio {
		recs = append(recs, RecLightDay)
	}

	subjects := make(map[string]struct{})
	hard, urgent := 0, 0
	for _, s := range day.Sessions {
		subjects[s.Subject] = struct{}{}
		if s.Difficulty >= c.HardDifficulty {
			hard++
		}
		if s.DeadlineDays <= c.UrgentDays {
			urgent++
		}
	}
	if len(subjects) > c.MaxSubjects {
		recs = append(recs, RecManySubjects)
	}
	if hard > 1 {
		recs = append(recs, RecManyHard)
	}
	if urgent > 0 {
		recs = append(recs, RecUrgent)
	}

	if c.IsRestDay(weekday) {
		recs = append(recs, RecWeekend)
	}
	return recs
}
