package schedule

import (
	"time"

	"github.com/frailin-studio/booking-api/internal/httperr"
	"github.com/frailin-studio/booking-api/internal/models"
)

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
	StatusNoShow    Status = "NO_SHOW"
)

// Active reporta si la cita ocupa agenda (cuenta para solapamientos).
func (s Status) Active() bool {
	return s == StatusPending || s == StatusConfirmed
}

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

// ActiveStatuses para cláusulas IN de consultas.
func ActiveStatuses() []string {
	return []string{string(StatusPending), string(StatusConfirmed)}
}

// CanTransition define la máquina de estados: solo hacia adelante,
// los terminales no resucitan.
func CanTransition(from, to Status) bool {
	switch from {
	case StatusPending:
		return to == StatusConfirmed || to == StatusCompleted ||
			to == StatusCancelled || to == StatusNoShow
	case StatusConfirmed:
		return to == StatusCompleted || to == StatusCancelled || to == StatusNoShow
	default:
		return false
	}
}

// ===============================
// Domain Actions
// ===============================

func Cancel(ap *models.Appointment, now time.Time) error {
	if !CanTransition(Status(ap.Status), StatusCancelled) {
		return httperr.ErrBusiness("invalid_state")
	}

	ap.Status = string(StatusCancelled)
	ap.CancelledAt = &now
	return nil
}

func Complete(ap *models.Appointment, now time.Time) error {
	if !CanTransition(Status(ap.Status), StatusCompleted) {
		return httperr.ErrBusiness("invalid_state")
	}

	ap.Status = string(StatusCompleted)
	ap.CompletedAt = &now
	return nil
}

func MarkNoShow(ap *models.Appointment) error {
	if !CanTransition(Status(ap.Status), StatusNoShow) {
		return httperr.ErrBusiness("invalid_state")
	}

	ap.Status = string(StatusNoShow)
	return nil
}
