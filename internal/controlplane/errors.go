package controlplane

import (
	"errors"

	"github.com/fentz26/studyplan/internal/models"
	"github.com/fentz26/studyplan/internal/store"
)

// Sentinel errors for control plane operations.
var (
	ErrTaskNotFound  = store.ErrTaskNotFound
	ErrInvalidUpdate = models.ErrInvalidUpdate
	ErrInvalidTask   = errors.New("invalid task")
	ErrNoPlan        = errors.New("no plan generated")
)
