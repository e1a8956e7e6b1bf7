package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/clinic-server/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-server/internal/dto"
	"github.com/BruksfildServices01/clinic-server/internal/models"
	"github.com/BruksfildServices01/clinic-server/internal/timezone"
)

type ListAppointments struct {
	repo domain.Repository
}

func NewListAppointments(
	repo domain.Repository,
) *ListAppointments {
	return &ListAppointments{
		repo: repo,
	}
}

func (uc *ListAppointments) ByDoctor(
	ctx context.Context,
	doctorID string,
) ([]dto.AppointmentDTO, error) {

	apps, err := uc.repo.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	return toDTOs(apps), nil
}

func (uc *ListAppointments) ByPatient(
	ctx context.Context,
	patientID string,
) ([]dto.AppointmentDTO, error) {

	apps, err := uc.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	return toDTOs(apps), nil
}

func toDTOs(apps []models.Appointment) []dto.AppointmentDTO {
	now := timezone.Now()

	out := make([]dto.AppointmentDTO, 0, len(apps))
	for _, ap := range apps {
		out = append(out, dto.FromAppointment(ap, now))
	}
	return out
}
