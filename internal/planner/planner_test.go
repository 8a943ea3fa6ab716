package planner

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fentz26/studyplan/internal/models"
)

// monday is a fixed Monday morning used as "now" throughout.
var monday = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func newTestPlanner() *Planner {
	return New(DefaultConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func task(id string, priority, difficulty int, hours float64, days int) models.Task {
	return models.Task{
		ID:             id,
		Title:          "Task " + id,
		Subject:        "Subject " + id,
		Deadline:       monday.AddDate(0, 0, days),
		Priority:       priority,
		EstimatedHours: hours,
		TaskType:       models.TaskTypeStudy,
		Difficulty:     difficulty,
	}
}

func TestGenerate_WorkedExample(t *testing.T) {
	p := newTestPlanner()
	tasks := []models.Task{task("physics", 5, 5, 8, 7)}

	res := p.Generate(tasks, Capacity{"Monday": 3}, monday)

	require.Len(t, res.Ranked, 1)
	assert.InDelta(t, 10.714, res.Ranked[0].Urgency, 0.001)

	plan := res.Plan
	require.Len(t, plan.Days, PlanDays)

	mon := plan.Days[0]
	assert.Equal(t, "Monday", mon.Day)
	assert.Equal(t, "2026-03-02", mon.Date)
	require.Len(t, mon.Sessions, 1)
	assert.Equal(t, 2.0, mon.Sessions[0].Duration)
	assert.Equal(t, models.SlotMorning, mon.Sessions[0].OptimalTime)
	assert.Equal(t, 7, mon.Sessions[0].DeadlineDays)
	assert.Equal(t, 2.0, mon.TotalHours)
	assert.Equal(t, 3.0, mon.AvailableHours)
	assert.Empty(t, mon.Recommendations)

	for _, d := range plan.Days[1:] {
		assert.Empty(t, d.Sessions, d.Day)
		assert.Zero(t, d.TotalHours, d.Day)
	}

	require.Len(t, res.Outstanding, 1)
	assert.InDelta(t, 6.0, res.Outstanding[0].Hours, 1e-9)
}

func TestGenerate_DaysAreChronologicalFromNow(t *testing.T) {
	p := newTestPlanner()
	thursday := monday.AddDate(0, 0, 3)

	res := p.Generate([]models.Task{task("a", 3, 3, 1, 5)}, UniformCapacity(1), thursday)

	var names []string
	for _, d := range res.Plan.Days {
		names = append(names, d.Day)
	}
	assert.Equal(t, []string{"Thursday", "Friday", "Saturday", "Sunday", "Monday", "Tuesday", "Wednesday"}, names)
	assert.Equal(t, "2026-03-05", res.Plan.Days[0].Date)
	assert.Equal(t, "2026-03-11", res.Plan.Days[6].Date)
}

func TestUrgency_Monotonic(t *testing.T) {
	for days := 1; days < 30; days++ {
		sooner := Urgency(task("a", 3, 3, 1, days), monday)
		later := Urgency(task("a", 3, 3, 1, days+1), monday)
		assert.Greater(t, sooner, later, "days=%d", days)
	}
}

func TestUrgency_FloorsDaysLeft(t *testing.T) {
	dueToday := Urgency(task("a", 4, 2, 1, 0), monday)
	overdue := Urgency(task("a", 4, 2, 1, -10), monday)
	tomorrow := Urgency(task("a", 4, 2, 1, 1), monday)

	assert.Equal(t, dueToday, overdue)
	assert.Equal(t, dueToday, tomorrow)
	assert.InDelta(t, 4*10*1.2, dueToday, 1e-9)
}

func TestScore_ExcludesCompleted(t *testing.T) {
	done := task("done", 5, 5, 4, 1)
	done.CompletionStatus = 1
	half := task("half", 2, 2, 4, 3)
	half.CompletionStatus = 0.5

	scored := Score([]models.Task{done, half}, monday)

	require.Len(t, scored, 1)
	assert.Equal(t, "half", scored[0].Task.ID)
	assert.InDelta(t, 2.0, scored[0].RemainingHours, 1e-9)
}

func TestGenerate_CompletedTaskNeverScheduled(t *testing.T) {
	done := task("done", 5, 5, 4, 1)
	done.CompletionStatus = 1
	res := newTestPlanner().Generate([]models.Task{done, task("open", 1, 1, 4, 9)}, UniformCapacity(4), monday)

	for _, d := range res.Plan.Days {
		for _, s := range d.Sessions {
			assert.NotEqual(t, "done", s.TaskID)
		}
	}
}

func TestGenerate_EmptyInputYieldsEmptyPlan(t *testing.T) {
	p := newTestPlanner()

	res := p.Generate(nil, UniformCapacity(4), monday)
	assert.True(t, res.Plan.IsEmpty())
	assert.Zero(t, res.TasksIncluded())

	done := task("done", 5, 5, 4, 1)
	done.CompletionStatus = 1
	res = p.Generate([]models.Task{done}, UniformCapacity(4), monday)
	assert.True(t, res.Plan.IsEmpty())
}

func TestGenerate_RemainingHoursCarryAcrossDays(t *testing.T) {
	res := newTestPlanner().Generate([]models.Task{task("a", 3, 3, 3, 10)}, UniformCapacity(2), monday)

	days := res.Plan.Days
	require.Len(t, days[0].Sessions, 1)
	assert.Equal(t, 2.0, days[0].Sessions[0].Duration)
	require.Len(t, days[1].Sessions, 1)
	assert.Equal(t, 1.0, days[1].Sessions[0].Duration)
	for _, d := range days[2:] {
		assert.Empty(t, d.Sessions)
	}
	assert.Empty(t, res.Outstanding)
}

func TestGenerate_ShortSliceSkippedWithoutStoppingScan(t *testing.T) {
	urgent := task("urgent", 5, 3, 2, 1)
	sliver := task("sliver", 4, 3, 0.3, 1)
	later := task("later", 1, 1, 1, 20)

	res := newTestPlanner().Generate([]models.Task{later, sliver, urgent}, Capacity{"Monday": 3}, monday)

	mon := res.Plan.Days[0]
	require.Len(t, mon.Sessions, 2)
	assert.Equal(t, "urgent", mon.Sessions[0].TaskID)
	assert.Equal(t, "later", mon.Sessions[1].TaskID)
	assert.Equal(t, 3.0, mon.TotalHours)

	require.Len(t, res.Outstanding, 1)
	assert.Equal(t, "sliver", res.Outstanding[0].TaskID)
}

func TestGenerate_TiesKeepInputOrder(t *testing.T) {
	a := task("a", 3, 3, 1, 4)
	b := task("b", 3, 3, 1, 4)

	res := newTestPlanner().Generate([]models.Task{b, a}, Capacity{"Monday": 4}, monday)

	require.Len(t, res.Plan.Days[0].Sessions, 2)
	assert.Equal(t, "b", res.Plan.Days[0].Sessions[0].TaskID)
	assert.Equal(t, "a", res.Plan.Days[0].Sessions[1].TaskID)
}

func TestGenerate_NegativeCapacityIsZero(t *testing.T) {
	res := newTestPlanner().Generate([]models.Task{task("a", 3, 3, 4, 3)}, Capacity{"Monday": -5, "Tuesday": 1}, monday)

	assert.Empty(t, res.Plan.Days[0].Sessions)
	assert.Zero(t, res.Plan.Days[0].AvailableHours)
	require.Len(t, res.Plan.Days[1].Sessions, 1)
}

func propertyTasks() []models.Task {
	var tasks []models.Task
	for i := 0; i < 12; i++ {
		tk := task(fmt.Sprintf("t%02d", i), 1+i%5, 1+(i*3)%5, 0.4+float64(i)*0.73, i%9-1)
		tk.CompletionStatus = float64(i%4) * 0.2
		tk.TaskType = models.TaskTypes[i%len(models.TaskTypes)]
		tasks = append(tasks, tk)
	}
	return tasks
}

func TestGenerate_Properties(t *testing.T) {
	tasks := propertyTasks()
	capacity := Capacity{"Monday": 3.7, "Tuesday": 0.4, "Wednesday": 5, "Thursday": 2.25, "Friday": 1.1, "Saturday": 6, "Sunday": 0}

	res := newTestPlanner().Generate(tasks, capacity, monday)

	initial := make(map[string]float64)
	for _, tk := range tasks {
		initial[tk.ID] = tk.RemainingHours()
	}

	allocated := make(map[string]float64)
	for _, d := range res.Plan.Days {
		assert.LessOrEqual(t, d.TotalHours, d.AvailableHours, d.Day)
		var sum float64
		for _, s := range d.Sessions {
			assert.GreaterOrEqual(t, s.Duration, 0.5)
			assert.LessOrEqual(t, s.Duration, 2.0)
			allocated[s.TaskID] += s.Duration
			sum += s.Duration
		}
		assert.InDelta(t, sum, d.TotalHours, 1e-9, d.Day)
	}
	for id, hours := range allocated {
		assert.LessOrEqual(t, hours, initial[id]+1e-9, id)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	tasks := propertyTasks()
	capacity := UniformCapacity(3.5)

	first, err := json.Marshal(newTestPlanner().Generate(tasks, capacity, monday).Plan)
	require.NoError(t, err)
	second, err := json.Marshal(newTestPlanner().Generate(tasks, capacity, monday).Plan)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestOptimalTime(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		taskType   models.TaskType
		difficulty int
		want       models.TimeSlot
	}{
		{models.TaskTypeExam, 2, models.SlotMorning},
		{models.TaskTypeAssignment, 3, models.SlotAfternoon},
		{models.TaskTypeReview, 1, models.SlotEvening},
		{models.TaskTypeStudy, 3, models.SlotMorning},
		{models.TaskTypeReview, 4, models.SlotMorning},
		{models.TaskTypeAssignment, 5, models.SlotMorning},
		{"unknown", 2, models.SlotMorning},
	}
	for _, tt := range tests {
		got := cfg.OptimalTime(models.Task{TaskType: tt.taskType, Difficulty: tt.difficulty})
		assert.Equal(t, tt.want, got, "%s/%d", tt.taskType, tt.difficulty)
	}
}
