package hospitalization

import (
	"context"

	"github.com/BruksfildServices01/clinic-server/internal/models"
)

const (
	StatusPendingPayment = "pending_payment"
	StatusPaid           = "paid"
	StatusAdmitted       = "admitted"
	StatusCancelled      = "cancelled"
)

type Repository interface {
	PatientExists(ctx context.Context, patientID string) (bool, error)
	DoctorExists(ctx context.Context, doctorID string) (bool, error)

	CreateApplication(ctx context.Context, h *models.HospitalizationApplication) error
	CreatePaymentItem(ctx context.Context, item *models.PaymentItem) error
	ListByPatient(ctx context.Context, patientID string) ([]models.HospitalizationApplication, error)

	WithinTx(ctx context.Context, fn func(Repository) error) error
}
