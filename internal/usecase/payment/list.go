package payment

import (
	"context"

	domain "github.com/BruksfildServices01/clinic-server/internal/domain/billing"
	"github.com/BruksfildServices01/clinic-server/internal/dto"
)

type ListBilling struct {
	repo domain.Repository
}

func NewListBilling(repo domain.Repository) *ListBilling {
	return &ListBilling{repo: repo}
}

func (uc *ListBilling) Items(ctx context.Context, patientID string) ([]dto.PaymentItemDTO, error) {
	items, err := uc.repo.ListItems(ctx, patientID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.PaymentItemDTO, 0, len(items))
	for _, it := range items {
		out = append(out, dto.FromPaymentItem(it))
	}
	return out, nil
}

// Records lists settled ledger entries only.
func (uc *ListBilling) Records(ctx context.Context, patientID string) ([]dto.PaymentRecordDTO, error) {
	recs, err := uc.repo.ListSettledRecords(ctx, patientID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.PaymentRecordDTO, 0, len(recs))
	for _, r := range recs {
		out = append(out, dto.FromPaymentRecord(r))
	}
	return out, nil
}
