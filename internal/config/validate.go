package config

import (
	"fmt"
	"strings"

	"github.com/fentz26/studyplan/internal/planner"
)

// Validate checks that the configuration is usable. Load calls it automatically.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text (got %q)", c.Log.Format)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error (got %q)", c.Log.Level)
	}

	for day := range c.Capacity {
		if _, ok := planner.ParseWeekday(day); !ok {
			return fmt.Errorf("capacity: unknown day %q", day)
		}
	}

	if err := c.Planner.Validate(); err != nil {
		return fmt.Errorf("planner: %w", err)
	}

	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	return nil
}
