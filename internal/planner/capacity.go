package planner

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fentz26/studyplan/internal/models"
)

// Capacity maps weekday names to available study hours.
type Capacity map[string]float64

// UniformCapacity gives every weekday the same budget.
func UniformCapacity(hours float64) Capacity {
	c := make(Capacity, len(Weekdays))
	for _, d := range Weekdays {
		c[d] = hours
	}
	return c
}

// Hours returns the budget for a weekday. Missing days have no capacity and
// negative or non-finite values are clamped to 0.
func (c Capacity) Hours(day time.Weekday) float64 {
	if v, ok := c[day.String()]; ok {
		return models.NonNegative(v)
	}
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if wd, ok := ParseWeekday(k); ok && wd == day {
			return models.NonNegative(c[k])
		}
	}
	return 0
}

// Merge returns a copy of c with the entries of other layered on top.
func (c Capacity) Merge(other Capacity) Capacity {
	out := make(Capacity, len(c)+len(other))
	for k, v := range c {
		out[k] = v
	}
	for k, v := range other {
		if wd, ok := ParseWeekday(k); ok {
			for existing := range out {
				if ew, ok := ParseWeekday(existing); ok && ew == wd {
					delete(out, existing)
				}
			}
			k = wd.String()
		}
		out[k] = v
	}
	return out
}

// ParseCapacity reads "Monday=3,tue=2.5" style pairs.
func ParseCapacity(pairs map[string]string) (Capacity, error) {
	c := make(Capacity, len(pairs))
	for k, v := range pairs {
		wd, ok := ParseWeekday(k)
		if !ok {
			return nil, fmt.Errorf("unknown day %q", k)
		}
		hours, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fmt.Errorf("hours for %s: %w", wd, err)
		}
		c[wd.String()] = models.NonNegative(hours)
	}
	return c, nil
}
