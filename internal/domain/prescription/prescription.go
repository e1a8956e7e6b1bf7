package prescription

import (
	"context"
	"strconv"
	"strings"

	"github.com/BruksfildServices01/clinic-server/internal/apperr"
	"github.com/BruksfildServices01/clinic-server/internal/models"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusPaid      Status = "paid"
)

// ParseQuantity accepts positive integers only.
func ParseQuantity(s string) (int, error) {
	q, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || q <= 0 {
		return 0, apperr.ErrBusiness(apperr.InvalidQuantity)
	}
	return q, nil
}

// PriceSource records how a unit price was found.
type PriceSource string

const (
	PriceExact     PriceSource = "exact"
	PriceSubstring PriceSource = "substring"
	PriceDefault   PriceSource = "default"
)

type Repository interface {
	PatientExists(ctx context.Context, patientID string) (bool, error)
	DoctorExists(ctx context.Context, doctorID string) (bool, error)

	MedicineByName(ctx context.Context, name string) (*models.Medicine, error)
	MedicineLike(ctx context.Context, name string) (*models.Medicine, error)

	CreatePrescription(ctx context.Context, p *models.Prescription) error
	CreatePaymentItem(ctx context.Context, item *models.PaymentItem) error
	CreatePaymentRecord(ctx context.Context, rec *models.PaymentRecord) error
	ListByPatient(ctx context.Context, patientID string) ([]models.Prescription, error)

	WithinTx(ctx context.Context, fn func(Repository) error) error
}
