package appointment

import (
	"context"
	"fmt"
	"strings"

	"github.com/BruksfildServices01/clinic-server/internal/apperr"
	"github.com/BruksfildServices01/clinic-server/internal/audit"
	domain "github.com/BruksfildServices01/clinic-server/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-server/internal/domain/billing"
	"github.com/BruksfildServices01/clinic-server/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type MakeAppointmentInput struct {
	PatientID string
	DoctorID  string
	Date      string
	Symptom   string
}

type MakeAppointmentResult struct {
	Appointment *models.Appointment
	Item        *models.PaymentItem
	Fee         float64
}

// ======================================================
// USE CASE
// ======================================================

type MakeAppointment struct {
	repo     domain.Repository
	audit    audit.Sink
	capacity int
}

func NewMakeAppointment(
	repo domain.Repository,
	audit audit.Sink,
	capacity int,
) *MakeAppointment {
	return &MakeAppointment{
		repo:     repo,
		audit:    audit,
		capacity: capacity,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *MakeAppointment) Execute(
	ctx context.Context,
	in MakeAppointmentInput,
) (*MakeAppointmentResult, error) {

	// --------------------------------------------------
	// Doctor (fee at booking time is authoritative)
	// --------------------------------------------------
	doc, err := uc.repo.GetDoctor(ctx, in.DoctorID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.ErrBusiness(apperr.DoctorNotFound)
		}
		return nil, err
	}

	// --------------------------------------------------
	// Patient
	// --------------------------------------------------
	ok, err := uc.repo.PatientExists(ctx, in.PatientID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.ErrBusiness(apperr.PatientNotFound)
	}

	// --------------------------------------------------
	// Date
	// --------------------------------------------------
	day, err := domain.Day(in.Date)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Capacity pre-check
	// --------------------------------------------------
	booked, err := uc.repo.CountActiveForDay(ctx, in.DoctorID, day, false)
	if err != nil {
		return nil, err
	}
	if err := domain.AssertCapacity(booked, uc.capacity); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Appointment + payment item, atomically
	// --------------------------------------------------
	ap := &models.Appointment{
		PatientID:       in.PatientID,
		DoctorID:        in.DoctorID,
		AppointmentDate: strings.TrimSpace(in.Date),
		Day:             day,
		Symptom:         in.Symptom,
		Status:          string(domain.InitialStatus()),
	}

	var item *models.PaymentItem

	err = uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		// re-count under lock; the pre-check may be stale
		booked, err := tx.CountActiveForDay(ctx, in.DoctorID, day, true)
		if err != nil {
			return err
		}
		if err := domain.AssertCapacity(booked, uc.capacity); err != nil {
			return err
		}

		if err := tx.CreateAppointment(ctx, ap); err != nil {
			return err
		}

		item = &models.PaymentItem{
			PatientID:     in.PatientID,
			Description:   fmt.Sprintf("Registration fee - %s %s", doc.Department, doc.User.DisplayName()),
			Amount:        doc.Fee,
			Status:        billing.ItemPending,
			Type:          billing.TypeAppointment,
			ApplicationID: billing.AppointmentRef(ap.ID).String(),
		}
		return tx.CreatePaymentItem(ctx, item)
	})
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Audit
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		ActorID:  in.PatientID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: fmt.Sprint(ap.ID),
		Metadata: map[string]any{"doctor_id": in.DoctorID, "day": day, "fee": doc.Fee},
	})

	return &MakeAppointmentResult{
		Appointment: ap,
		Item:        item,
		Fee:         doc.Fee,
	}, nil
}
