package appointment

import "github.com/BruksfildServices01/clinic-server/internal/apperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// ParseTarget reads the status a doctor asks for in PROCESS_APPOINTMENT.
func ParseTarget(s string) (Status, error) {
	switch Status(s) {
	case StatusConfirmed, StatusCancelled:
		return Status(s), nil
	default:
		return "", apperr.ErrBusiness(apperr.InvalidStatus)
	}
}

// ===============================
// Validations
// ===============================

// CanConfirm allows pending -> confirmed only.
func CanConfirm(current Status) error {
	if current != StatusPending {
		return apperr.ErrBusiness(apperr.InvalidState)
	}
	return nil
}

// CanCancel allows cancelling anything not already cancelled.
func CanCancel(current Status) error {
	if current != StatusPending && current != StatusConfirmed {
		return apperr.ErrBusiness(apperr.InvalidState)
	}
	return nil
}

func InitialStatus() Status {
	return StatusPending
}
