package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fentz26/studyplan/internal/models"
)

func TestRecommend(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name    string
		day     models.DaySchedule
		weekday time.Weekday
		want    []string
	}{
		{
			name:    "heavy day",
			day:     models.DaySchedule{TotalHours: 2.8, AvailableHours: 3},
			weekday: time.Monday,
			want:    []string{RecHeavyDay},
		},
		{
			name:    "light day",
			day:     models.DaySchedule{TotalHours: 1, AvailableHours: 3},
			weekday: time.Tuesday,
			want:    []string{RecLightDay},
		},
		{
			name:    "balanced day",
			day:     models.DaySchedule{TotalHours: 2, AvailableHours: 3},
			weekday: time.Wednesday,
			want:    []string{},
		},
		{
			name:    "zero capacity weekend",
			day:     models.DaySchedule{},
			weekday: time.Sunday,
			want:    []string{RecWeekend},
		},
		{
			name: "everything at once",
			day: models.DaySchedule{
				TotalHours:     6,
				AvailableHours: 6,
				Sessions: []models.Session{
					{Subject: "Math", Difficulty: 4, DeadlineDays: 5},
					{Subject: "Physics", Difficulty: 5, DeadlineDays: 2},
					{Subject: "History", Difficulty: 2, DeadlineDays: 9},
					{Subject: "Chemistry", Difficulty: 1, DeadlineDays: 9},
				},
			},
			weekday: time.Saturday,
			want:    []string{RecHeavyDay, RecManySubjects, RecManyHard, RecUrgent, RecWeekend},
		},
		{
			name: "three subjects and one hard session stay quiet",
			day: models.DaySchedule{
				TotalHours:     2,
				AvailableHours: 3,
				Sessions: []models.Session{
					{Subject: "Math", Difficulty: 4, DeadlineDays: 3},
					{Subject: "Physics", Difficulty: 3, DeadlineDays: 3},
					{Subject: "Math", Difficulty: 3, DeadlineDays: 3},
					{Subject: "History", Difficulty: 3, DeadlineDays: 3},
				},
			},
			weekday: time.Friday,
			want:    []string{},
		},
		{
			name: "overdue counts as urgent",
			day: models.DaySchedule{
				TotalHours:     2,
				AvailableHours: 3,
				Sessions:       []models.Session{{Subject: "Math", Difficulty: 2, DeadlineDays: -4}},
			},
			weekday: time.Thursday,
			want:    []string{RecUrgent},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cfg.Recommend(tt.day, tt.weekday))
		})
	}
}

func TestRecommend_CustomRestDays(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RestDays = []string{"fri"}

	assert.Equal(t, []string{RecWeekend}, cfg.Recommend(models.DaySchedule{}, time.Friday))
	assert.Empty(t, cfg.Recommend(models.DaySchedule{}, time.Saturday))
}

func TestCapacity(t *testing.T) {
	c := Capacity{"monday": 2, "Tue": -1, "Wednesday": 3}

	assert.Equal(t, 2.0, c.Hours(time.Monday))
	assert.Equal(t, 0.0, c.Hours(time.Tuesday))
	assert.Equal(t, 3.0, c.Hours(time.Wednesday))
	assert.Equal(t, 0.0, c.Hours(time.Sunday))

	merged := c.Merge(Capacity{"Mon": 5})
	assert.Equal(t, 5.0, merged.Hours(time.Monday))
	assert.Equal(t, 3.0, merged.Hours(time.Wednesday))

	parsed, err := ParseCapacity(map[string]string{"sat": "4.5", "Sunday": "-2"})
	require.NoError(t, err)
	assert.Equal(t, Capacity{"Saturday": 4.5, "Sunday": 0}, parsed)

	_, err = ParseCapacity(map[string]string{"someday": "1"})
	assert.Error(t, err)
	_, err = ParseCapacity(map[string]string{"Monday": "lots"})
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.MinSessionHours = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.MaxSessionHours = 0.25
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.RestDays = []string{"Caturday"}
	assert.Error(t, cfg.Validate())
}
