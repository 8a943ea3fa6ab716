// Package audit records Process Decision Records for studyplan's state changes.
package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"

	"github.com/fentz26/studyplan/internal/models"
	"github.com/fentz26/studyplan/internal/store"
)

// Audited actions.
const (
	ActionTaskCreate   = "task.create"
	ActionTaskUpdate   = "task.update"
	ActionTaskDelete   = "task.delete"
	ActionTaskImport   = "task.import"
	ActionTaskSeed     = "task.seed"
	ActionPlanGenerate = "plan.generate"
	ActionPlanExport   = "plan.export"
)

// Outcomes.
const (
	OutcomeSuccess = "success"
	OutcomePartial = "partial"
	OutcomeFailure = "failure"
)

// PDRWriter writes Process Decision Records for audit trails.
type PDRWriter struct {
	store  *store.Store
	logger *slog.Logger
}

// NewPDRWriter creates a new PDR writer.
func NewPDRWriter(s *store.Store, logger *slog.Logger) *PDRWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &PDRWriter{store: s, logger: logger}
}

// Record writes a PDR entry for a state-mutating action. Write failures are
// logged and returned; callers treat the audit trail as best effort.
func (w *PDRWriter) Record(action string, inputs interface{}, outcome, taskID, details string) (*models.PDREntry, error) {
	entry, err := w.store.WritePDR(action, hashInputs(inputs), outcome, taskID, details)
	if err != nil {
		w.logger.Warn("audit record failed", "action", action, "error", err)
		return nil, err
	}
	return entry, nil
}

// Recent lists the latest records, newest first.
func (w *PDRWriter) Recent(action string, limit int) ([]models.PDREntry, error) {
	return w.store.ListPDR(action, limit)
}

// hashInputs creates a SHA256 hash of the inputs for reproducibility.
func hashInputs(inputs interface{}) string {
	data, err := json.Marshal(inputs)
	if err != nil {
		return "hash_error"
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
