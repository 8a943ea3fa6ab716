package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fentz26/studyplan/internal/models"
)

// ErrMalformedRecord is returned when a task record file contains an unusable task.
var ErrMalformedRecord = errors.New("malformed task record")

// TaskFile is the on-disk JSON form of the task collection.
type TaskFile struct {
	Tasks       []models.Task `json:"tasks"`
	LastUpdated time.Time     `json:"last_updated"`
}

// FileStorage reads and writes a task record file.
type FileStorage struct {
	Path string
	mu   sync.Mutex
}

// NewFileStorage creates a FileStorage for the given path.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{Path: path}
}

// Load reads the task collection. A missing file yields an empty collection.
// Malformed JSON or records fail the whole load.
func (f *FileStorage) Load() ([]models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.Task{}, nil
		}
		return nil, fmt.Errorf("read task file: %w", err)
	}

	var file TaskFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse task file: %w", err)
	}

	tasks := make([]models.Task, 0, len(file.Tasks))
	for i, t := range file.Tasks {
		if t.ID == "" || t.Title == "" || t.Deadline.IsZero() {
			return nil, fmt.Errorf("%w: record %d needs id, title and deadline", ErrMalformedRecord, i)
		}
		tasks = append(tasks, t.Normalize())
	}
	return tasks, nil
}

// Save writes the task collection with a fresh last_updated timestamp.
func (f *FileStorage) Save(tasks []models.Task, now time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if tasks == nil {
		tasks = []models.Task{}
	}
	data, err := json.MarshalIndent(TaskFile{Tasks: tasks, LastUpdated: now}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal task file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(f.Path), 0755); err != nil {
		return fmt.Errorf("create task file directory: %w", err)
	}
	if err := os.WriteFile(f.Path, data, 0644); err != nil {
		return fmt.Errorf("write task file: %w", err)
	}
	return nil
}
