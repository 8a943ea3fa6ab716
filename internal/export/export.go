// Package export writes generated plans to disk as JSON, text and PDF snapshots.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/fentz26/studyplan/internal/models"
)

// Artifact kinds.
const (
	KindJSON = "json"
	KindText = "txt"
	KindPDF  = "pdf"
)

// Snapshot is the JSON form of an exported plan.
type Snapshot struct {
	GeneratedAt   time.Time          `json:"generated_at"`
	Schedule      *models.WeeklyPlan `json:"schedule"`
	TasksIncluded int                `json:"tasks_included"`
}

// Artifact is one written file. Err is set when the file could not be written.
type Artifact struct {
	Kind string `json:"kind"`
	Path string `json:"path"`
	Err  error  `json:"-"`
}

// Result reports every artifact of one export.
type Result struct {
	Artifacts []Artifact
}

// Paths returns the files that were written successfully.
func (r *Result) Paths() []string {
	var paths []string
	for _, a := range r.Artifacts {
		if a.Err == nil {
			paths = append(paths, a.Path)
		}
	}
	return paths
}

// Err joins the per-artifact failures, or returns nil when all succeeded.
func (r *Result) Err() error {
	var errs []error
	for _, a := range r.Artifacts {
		if a.Err != nil {
			errs = append(errs, fmt.Errorf("write %s: %w", a.Kind, a.Err))
		}
	}
	return errors.Join(errs...)
}

// Writer exports plans into a directory.
type Writer struct {
	dir    string
	logger *slog.Logger
}

// NewWriter creates a writer for dir. An empty dir means the working directory.
func NewWriter(dir string, logger *slog.Logger) *Writer {
	if dir == "" {
		dir = "."
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{dir: dir, logger: logger}
}

// BaseName is the artifact file name without extension for an export at t.
func BaseName(t time.Time) string {
	return "schedule_" + t.Format("20060102_150405")
}

// Export writes schedule_<timestamp>.json, .txt and .pdf. Each artifact is
// attempted regardless of the others failing.
func (w *Writer) Export(plan *models.WeeklyPlan, tasksIncluded int, now time.Time) *Result {
	res := &Result{}
	base := filepath.Join(w.dir, BaseName(now))

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		err = fmt.Errorf("create export directory: %w", err)
		for _, kind := range []string{KindJSON, KindText, KindPDF} {
			res.Artifacts = append(res.Artifacts, Artifact{Kind: kind, Path: base + "." + kind, Err: err})
		}
		w.logger.Error("plan export failed", "dir", w.dir, "error", err)
		return res
	}

	snap := Snapshot{GeneratedAt: now, Schedule: roundedPlan(plan), TasksIncluded: tasksIncluded}
	res.add(KindJSON, base+".json", writeJSON(base+".json", snap))
	res.add(KindText, base+".txt", os.WriteFile(base+".txt", []byte(RenderText(plan)), 0644))
	res.add(KindPDF, base+".pdf", WritePDF(base+".pdf", plan, now))

	for _, a := range res.Artifacts {
		if a.Err != nil {
			w.logger.Warn("export artifact failed", "kind", a.Kind, "path", a.Path, "error", a.Err)
		} else {
			w.logger.Info("export artifact written", "kind", a.Kind, "path", a.Path)
		}
	}
	return res
}

func (r *Result) add(kind, path string, err error) {
	r.Artifacts = append(r.Artifacts, Artifact{Kind: kind, Path: path, Err: err})
}

func writeJSON(path string, snap Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// roundedPlan copies plan with every hour figure rounded to 0.1h.
func roundedPlan(plan *models.WeeklyPlan) *models.WeeklyPlan {
	if plan == nil {
		return nil
	}
	out := &models.WeeklyPlan{GeneratedAt: plan.GeneratedAt, Days: make([]models.DaySchedule, len(plan.Days))}
	for i, day := range plan.Days {
		day.TotalHours = roundTenth(day.TotalHours)
		day.AvailableHours = roundTenth(day.AvailableHours)
		sessions := make([]models.Session, len(day.Sessions))
		for j, s := range day.Sessions {
			s.Duration = roundTenth(s.Duration)
			sessions[j] = s
		}
		day.Sessions = sessions
		out.Days[i] = day
	}
	return out
}

func roundTenth(h float64) float64 {
	return math.Round(h*10) / 10
}
