package planner

import (
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/fentz26/studyplan/internal/models"
)

// PlanDays is the length of the planning window.
const PlanDays = 7

// Planner turns a task list and a capacity map into a weekly plan.
type Planner struct {
	config *Config
	logger *slog.Logger
}

// New creates a new planner.
func New(cfg *Config, logger *slog.Logger) *Planner {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Planner{config: cfg, logger: logger}
}

// Config returns the heuristics the planner runs with.
func (p *Planner) Config() *Config {
	return p.config
}

// Outstanding is effort a task still needs after the window is full.
type Outstanding struct {
	TaskID string  `json:"task_id"`
	Title  string  `json:"title"`
	Hours  float64 `json:"hours"`
}

// Result is the output of one planning run.
type Result struct {
	Plan *models.WeeklyPlan `json:"plan"`
	// Ranked is the urgency order used for allocation.
	Ranked []ScoredTask `json:"ranked"`
	// Outstanding lists tasks that did not fit into the window.
	Outstanding []Outstanding `json:"outstanding"`
}

// TasksIncluded is the number of tasks that took part in the run.
func (r *Result) TasksIncluded() int {
	return len(r.Ranked)
}

// Generate scores the tasks and allocates them over the seven days starting at now.
func (p *Planner) Generate(tasks []models.Task, capacity Capacity, now time.Time) *Result {
	res := p.config.Allocate(Score(tasks, now), capacity, now)
	if res.Plan.IsEmpty() {
		p.logger.Info("nothing to schedule", "tasks", len(tasks))
		return res
	}
	p.logger.Info("weekly plan generated",
		"tasks", len(tasks),
		"scheduled_tasks", res.TasksIncluded(),
		"sessions", res.Plan.SessionCount(),
		"hours", res.Plan.TotalHours(),
		"outstanding", len(res.Outstanding),
	)
	return res
}

// Allocate greedily packs the scored tasks into daily capacity.
//
// The urgency order is computed once and drained day by day; hours allocated
// on one day are no longer available to later days. With no scored tasks the
// plan has no days.
func (c *Config) Allocate(scored []ScoredTask, capacity Capacity, now time.Time) *Result {
	res := &Result{Plan: &models.WeeklyPlan{GeneratedAt: now}}
	if len(scored) == 0 {
		return res
	}

	ranked := make([]ScoredTask, len(scored))
	copy(ranked, scored)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Urgency > ranked[j].Urgency
	})
	res.Ranked = ranked

	// Per-run remaining hours, indexed by ranked position.
	remaining := make([]float64, len(ranked))
	for i := range ranked {
		remaining[i] = ranked[i].RemainingHours
	}

	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	res.Plan.Days = make([]models.DaySchedule, 0, PlanDays)
	for offset := 0; offset < PlanDays; offset++ {
		date := start.AddDate(0, 0, offset)
		day := c.allocateDay(ranked, remaining, date, capacity.Hours(date.Weekday()), now)
		res.Plan.Days = append(res.Plan.Days, day)
	}

	for i, st := range ranked {
		if remaining[i] > 1e-9 {
			res.Outstanding = append(res.Outstanding, Outstanding{
				TaskID: st.Task.ID,
				Title:  st.Task.Title,
				Hours:  remaining[i],
			})
		}
	}
	return res
}

func (c *Config) allocateDay(ranked []ScoredTask, remaining []float64, date time.Time, available float64, now time.Time) models.DaySchedule {
	day := models.DaySchedule{
		Day:            date.Weekday().String(),
		Date:           date.Format("2006-01-02"),
		Sessions:       []models.Session{},
		AvailableHours: available,
	}

	used := 0.0
	for i, st := range ranked {
		if used >= available {
			break
		}
		if remaining[i] <= 0 {
			continue
		}

		duration := math.Min(available-used, math.Min(c.MaxSessionHours, remaining[i]))
		if duration < c.MinSessionHours {
			continue
		}

		t := st.Task
		day.Sessions = append(day.Sessions, models.Session{
			TaskID:       t.ID,
			Title:        t.Title,
			Subject:      t.Subject,
			Duration:     duration,
			Priority:     t.Priority,
			TaskType:     t.TaskType,
			Difficulty:   t.Difficulty,
			OptimalTime:  c.OptimalTime(t),
			DeadlineDays: t.DaysUntilDeadline(now),
		})

		used += duration
		if used > available {
			used = available
		}
		remaining[i] -= duration
	}

	day.TotalHours = used
	day.Recommendations = c.Recommend(day, date.Weekday())
	return day
}
