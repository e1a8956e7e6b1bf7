package appointment

import (
	"context"

	"github.com/BruksfildServices01/clinic-server/internal/models"
)

type Repository interface {
	// -------- Participants --------
	GetDoctor(ctx context.Context, doctorID string) (*models.Doctor, error)
	PatientExists(ctx context.Context, patientID string) (bool, error)

	// -------- Capacity --------
	// CountActiveForDay counts non-cancelled bookings. With lock set the
	// matching rows are locked until the transaction ends.
	CountActiveForDay(ctx context.Context, doctorID, day string, lock bool) (int64, error)

	// -------- Appointment --------
	CreateAppointment(ctx context.Context, ap *models.Appointment) error
	GetAppointmentForDoctor(ctx context.Context, appointmentID uint, doctorID string) (*models.Appointment, error)
	UpdateAppointment(ctx context.Context, ap *models.Appointment) error
	ListByDoctor(ctx context.Context, doctorID string) ([]models.Appointment, error)
	ListByPatient(ctx context.Context, patientID string) ([]models.Appointment, error)

	// -------- Billing --------
	CreatePaymentItem(ctx context.Context, item *models.PaymentItem) error
	DeletePendingItem(ctx context.Context, applicationID string) error

	WithinTx(ctx context.Context, fn func(Repository) error) error
}
