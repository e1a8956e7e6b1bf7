package appointment

import (
	"context"
	"fmt"

	"github.com/BruksfildServices01/clinic-server/internal/apperr"
	"github.com/BruksfildServices01/clinic-server/internal/audit"
	domain "github.com/BruksfildServices01/clinic-server/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-server/internal/domain/billing"
	"github.com/BruksfildServices01/clinic-server/internal/models"
)

// ProcessAppointment is the doctor's manual confirm/cancel.
type ProcessAppointment struct {
	repo  domain.Repository
	audit audit.Sink
}

func NewProcessAppointment(
	repo domain.Repository,
	audit audit.Sink,
) *ProcessAppointment {
	return &ProcessAppointment{
		repo:  repo,
		audit: audit,
	}
}

func (uc *ProcessAppointment) Execute(
	ctx context.Context,
	appointmentID uint,
	doctorID string,
	status string,
) (*models.Appointment, error) {

	target, err := domain.ParseTarget(status)
	if err != nil {
		return nil, err
	}

	var ap *models.Appointment

	err = uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		found, err := tx.GetAppointmentForDoctor(ctx, appointmentID, doctorID)
		if err != nil {
			if apperr.IsNotFound(err) {
				return apperr.ErrBusiness(apperr.AppointmentNotFound)
			}
			return err
		}

		if err := domain.Transition(found, target); err != nil {
			return err
		}
		if err := tx.UpdateAppointment(ctx, found); err != nil {
			return err
		}

		// nothing left to bill once cancelled; paid items stay in the ledger
		if target == domain.StatusCancelled {
			ref := billing.AppointmentRef(found.ID).String()
			if err := tx.DeletePendingItem(ctx, ref); err != nil {
				return err
			}
		}

		ap = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  doctorID,
		Action:   "appointment_" + string(target),
		Entity:   "appointment",
		EntityID: fmt.Sprint(ap.ID),
	})

	return ap, nil
}
