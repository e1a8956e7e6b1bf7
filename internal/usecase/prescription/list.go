package prescription

import (
	"context"

	domain "github.com/BruksfildServices01/clinic-server/internal/domain/prescription"
	"github.com/BruksfildServices01/clinic-server/internal/dto"
)

type ListPrescriptions struct {
	repo domain.Repository
}

func NewListPrescriptions(repo domain.Repository) *ListPrescriptions {
	return &ListPrescriptions{repo: repo}
}

func (uc *ListPrescriptions) Execute(
	ctx context.Context,
	patientID string,
) ([]dto.PrescriptionDTO, error) {

	list, err := uc.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.PrescriptionDTO, 0, len(list))
	for _, p := range list {
		out = append(out, dto.FromPrescription(p))
	}
	return out, nil
}
