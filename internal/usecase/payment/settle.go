package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/BruksfildServices01/clinic-server/internal/apperr"
	domain "github.com/BruksfildServices01/clinic-server/internal/domain/billing"
	"github.com/BruksfildServices01/clinic-server/internal/models"
)

// payItem flips a pending item to paid and settles the record it bills.
// Prescription settlement is best-effort; its failure is returned as a
// warning and does not abort the payment.
func payItem(
	ctx context.Context,
	tx domain.Repository,
	item *models.PaymentItem,
	now time.Time,
) (warning error, err error) {

	item.PaidAt = &now
	if err := tx.MarkItemPaid(ctx, item); err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.ErrBusiness(apperr.PaymentItemNotFound)
		}
		return nil, err
	}

	ref := domain.ParseApplicationRef(item.ApplicationID)

	switch ref.Kind {
	case domain.KindAppointment:
		// scoped to the paying patient; a cancelled booking is left alone
		if _, err := tx.ConfirmAppointment(ctx, ref.ID, item.PatientID); err != nil {
			return nil, err
		}

	case domain.KindPrescription:
		if err := tx.MarkPrescriptionPaid(ctx, ref.ID, item.PatientID); err != nil {
			return fmt.Errorf("mark prescription %d paid: %w", ref.ID, err), nil
		}

	case domain.KindHospitalization:
		if _, err := tx.MarkHospitalizationPaid(ctx, ref.ID, item.PatientID); err != nil {
			return nil, err
		}
	}

	return nil, nil
}

func method(m string) string {
	if m == "" {
		return domain.DefaultMethod
	}
	return m
}
