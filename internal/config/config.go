// Package config loads studyplan settings from YAML and the environment.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/fentz26/studyplan/internal/planner"
)

// Config is the root application configuration.
type Config struct {
	// DBPath is the SQLite database file.
	DBPath string `yaml:"db_path" env:"STUDYPLAN_DB"`
	// DataFile is the default task record file for import and export.
	DataFile string `yaml:"data_file" env:"STUDYPLAN_DATA_FILE" env-default:"tasks_data.json"`
	// ExportDir receives schedule snapshots.
	ExportDir string `yaml:"export_dir" env:"STUDYPLAN_EXPORT_DIR" env-default:"."`
	// SeedSamples bootstraps sample tasks into an empty collection.
	SeedSamples bool `yaml:"seed_samples" env:"STUDYPLAN_SEED_SAMPLES" env-default:"true"`
	// Capacity is the default study hours per weekday.
	Capacity map[string]float64 `yaml:"capacity" env:"STUDYPLAN_CAPACITY"`

	Planner planner.Config `yaml:"planner"`
	Log     LogConfig      `yaml:"log"`
	Server  ServerConfig   `yaml:"server"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"STUDYPLAN_LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"STUDYPLAN_LOG_FORMAT" env-default:"text"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr            string        `yaml:"addr"             env:"STUDYPLAN_ADDR"             env-default:"127.0.0.1:7466"`
	AllowedOrigins  []string      `yaml:"allowed_origins"  env:"STUDYPLAN_ALLOWED_ORIGINS"  env-default:"*"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"STUDYPLAN_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

// DefaultCapacity is used when no capacity is configured.
func DefaultCapacity() map[string]float64 {
	return map[string]float64{
		"Monday":    3,
		"Tuesday":   3,
		"Wednesday": 3,
		"Thursday":  3,
		"Friday":    3,
		"Saturday":  4,
		"Sunday":    4,
	}
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	return &Config{
		DBPath:      DefaultDBPath(),
		DataFile:    "tasks_data.json",
		ExportDir:   ".",
		SeedSamples: true,
		Capacity:    DefaultCapacity(),
		Planner:     *planner.DefaultConfig(),
		Log:         LogConfig{Level: "info", Format: "text"},
		Server: ServerConfig{
			Addr:            "127.0.0.1:7466",
			AllowedOrigins:  []string{"*"},
			ShutdownTimeout: 5 * time.Second,
		},
	}
}

// Dir is the studyplan home directory, ~/.studyplan.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".studyplan"
	}
	return filepath.Join(home, ".studyplan")
}

// DefaultDBPath is ~/.studyplan/studyplan.db.
func DefaultDBPath() string {
	return filepath.Join(Dir(), "studyplan.db")
}

// DefaultPath is ~/.studyplan/config.yaml.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// CapacityPlan returns the configured capacity as a planner capacity map.
func (c *Config) CapacityPlan() planner.Capacity {
	return planner.Capacity(c.Capacity)
}
