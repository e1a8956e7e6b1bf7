package billing

import (
	"context"

	"github.com/BruksfildServices01/clinic-server/internal/models"
)

type Repository interface {
	// -------- Items --------
	FindPendingItem(ctx context.Context, patientID, applicationID string) (*models.PaymentItem, error)
	FindPendingItemByDescription(ctx context.Context, patientID, description string, amount float64) (*models.PaymentItem, error)
	MarkItemPaid(ctx context.Context, item *models.PaymentItem) error
	ListItems(ctx context.Context, patientID string) ([]models.PaymentItem, error)

	// -------- Ledger --------
	FindUnsettledRecord(ctx context.Context, patientID, applicationID string) (*models.PaymentRecord, error)
	SaveRecord(ctx context.Context, rec *models.PaymentRecord) error
	SupersedeUnsettled(ctx context.Context, patientID string, applicationIDs []string) error
	ListSettledRecords(ctx context.Context, patientID string) ([]models.PaymentRecord, error)

	// -------- Settlement targets --------
	ConfirmAppointment(ctx context.Context, appointmentID uint, patientID string) (int64, error)
	MarkPrescriptionPaid(ctx context.Context, prescriptionID uint, patientID string) error
	MarkHospitalizationPaid(ctx context.Context, applicationID uint, patientID string) (int64, error)

	WithinTx(ctx context.Context, fn func(Repository) error) error
}
