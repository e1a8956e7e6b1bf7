package appointment

import (
	"github.com/BruksfildServices01/clinic-server/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Confirm(ap *models.Appointment) error {
	if err := CanConfirm(Status(ap.Status)); err != nil {
		return err
	}
	ap.Status = string(StatusConfirmed)
	return nil
}

func Cancel(ap *models.Appointment) error {
	if err := CanCancel(Status(ap.Status)); err != nil {
		return err
	}
	ap.Status = string(StatusCancelled)
	return nil
}

// Transition applies the doctor's requested status.
func Transition(ap *models.Appointment, target Status) error {
	if target == StatusCancelled {
		return Cancel(ap)
	}
	return Confirm(ap)
}
