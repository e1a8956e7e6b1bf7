package dto

import (
	"time"

	"github.com/BruksfildServices01/clinic-server/internal/models"
	"github.com/BruksfildServices01/clinic-server/internal/timezone"
)

type PaymentItemDTO struct {
	ID            uint    `json:"id"`
	Description   string  `json:"description"`
	Amount        float64 `json:"amount"`
	Status        string  `json:"status"`
	Type          string  `json:"type"`
	ApplicationID string  `json:"application_id"`
	CreatedAt     string  `json:"created_at"`
	PaidAt        string  `json:"paid_at,omitempty"`
}

func FromPaymentItem(it models.PaymentItem) PaymentItemDTO {
	return PaymentItemDTO{
		ID:            it.ID,
		Description:   it.Description,
		Amount:        it.Amount,
		Status:        it.Status,
		Type:          it.Type,
		ApplicationID: it.ApplicationID,
		CreatedAt:     timezone.Format(it.CreatedAt),
		PaidAt:        formatPtr(it.PaidAt),
	}
}

type PaymentRecordDTO struct {
	ID            uint    `json:"id"`
	Amount        float64 `json:"amount"`
	PaymentTime   string  `json:"payment_time"`
	PaymentMethod string  `json:"payment_method"`
	Description   string  `json:"description"`
	ApplicationID string  `json:"application_id,omitempty"`
}

func FromPaymentRecord(r models.PaymentRecord) PaymentRecordDTO {
	return PaymentRecordDTO{
		ID:            r.ID,
		Amount:        r.Amount,
		PaymentTime:   formatPtr(r.PaymentTime),
		PaymentMethod: r.PaymentMethod,
		Description:   r.Description,
		ApplicationID: r.ApplicationID,
	}
}

func formatPtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return timezone.Format(*t)
}
