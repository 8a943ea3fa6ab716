// Package planner scores study tasks and packs them into a weekly plan.
package planner

import (
	"fmt"
	"strings"
	"time"
)

// Config defines the planner heuristics.
type Config struct {
	// MaxSessionHours caps a single session.
	MaxSessionHours float64 `yaml:"max_session_hours" env:"STUDYPLAN_MAX_SESSION_HOURS" env-default:"2.0"`
	// MinSessionHours is the shortest session worth emitting.
	MinSessionHours float64 `yaml:"min_session_hours" env:"STUDYPLAN_MIN_SESSION_HOURS" env-default:"0.5"`
	// HeavyDayRatio flags a day whose load exceeds this share of capacity.
	HeavyDayRatio float64 `yaml:"heavy_day_ratio" env:"STUDYPLAN_HEAVY_DAY_RATIO" env-default:"0.9"`
	// LightDayRatio flags a day whose load falls below this share of capacity.
	LightDayRatio float64 `yaml:"light_day_ratio" env:"STUDYPLAN_LIGHT_DAY_RATIO" env-default:"0.5"`
	// MaxSubjects is the number of distinct subjects per day before transitions are flagged.
	MaxSubjects int `yaml:"max_subjects" env:"STUDYPLAN_MAX_SUBJECTS" env-default:"3"`
	// HardDifficulty marks sessions as challenging; such tasks are also placed in the morning.
	HardDifficulty int `yaml:"hard_difficulty" env:"STUDYPLAN_HARD_DIFFICULTY" env-default:"4"`
	// UrgentDays flags sessions whose deadline is this close.
	UrgentDays int `yaml:"urgent_days" env:"STUDYPLAN_URGENT_DAYS" env-default:"2"`
	// RestDays are the weekend days.
	RestDays []string `yaml:"rest_days" env:"STUDYPLAN_REST_DAYS" env-default:"Saturday,Sunday"`
}

// DefaultConfig returns the default planner configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxSessionHours: 2.0,
		MinSessionHours: 0.5,
		HeavyDayRatio:   0.9,
		LightDayRatio:   0.5,
		MaxSubjects:     3,
		HardDifficulty:  4,
		UrgentDays:      2,
		RestDays:        []string{"Saturday", "Sunday"},
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.MinSessionHours <= 0 {
		return fmt.Errorf("min_session_hours must be positive")
	}
	if c.MaxSessionHours < c.MinSessionHours {
		return fmt.Errorf("max_session_hours (%g) must be at least min_session_hours (%g)", c.MaxSessionHours, c.MinSessionHours)
	}
	for _, d := range c.RestDays {
		if _, ok := ParseWeekday(d); !ok {
			return fmt.Errorf("unknown rest day %q", d)
		}
	}
	return nil
}

// IsRestDay reports whether the weekday is one of the configured rest days.
func (c *Config) IsRestDay(day time.Weekday) bool {
	for _, d := range c.RestDays {
		if wd, ok := ParseWeekday(d); ok && wd == day {
			return true
		}
	}
	return false
}

// Weekdays lists day names Monday first.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// ParseWeekday resolves a full or three-letter weekday name.
func ParseWeekday(s string) (time.Weekday, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || (len(s) == 3 && strings.HasPrefix(name, s)) {
			return d, true
		}
	}
	return 0, false
}
