package hospitalization

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/BruksfildServices01/clinic-server/internal/apperr"
	"github.com/BruksfildServices01/clinic-server/internal/audit"
	"github.com/BruksfildServices01/clinic-server/internal/domain/billing"
	domain "github.com/BruksfildServices01/clinic-server/internal/domain/hospitalization"
	"github.com/BruksfildServices01/clinic-server/internal/dto"
	"github.com/BruksfildServices01/clinic-server/internal/models"
	"github.com/BruksfildServices01/clinic-server/internal/timezone"
)

type SubmitInput struct {
	PatientID     string
	DoctorID      string
	Department    string
	Diagnosis     string
	AdmissionDate string
	Fee           string
	Notes         string
}

type Submit struct {
	repo  domain.Repository
	audit audit.Sink
}

func NewSubmit(repo domain.Repository, audit audit.Sink) *Submit {
	return &Submit{repo: repo, audit: audit}
}

func (uc *Submit) Execute(
	ctx context.Context,
	in SubmitInput,
) (*models.HospitalizationApplication, error) {

	fee, err := strconv.ParseFloat(strings.TrimSpace(in.Fee), 64)
	if err != nil || fee < 0 {
		return nil, apperr.ErrBusiness(apperr.InvalidFormat)
	}

	day, err := timezone.ParseDay(in.AdmissionDate)
	if err != nil {
		return nil, apperr.ErrBusiness(apperr.InvalidDate)
	}

	ok, err := uc.repo.PatientExists(ctx, in.PatientID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.ErrBusiness(apperr.PatientNotFound)
	}

	ok, err = uc.repo.DoctorExists(ctx, in.DoctorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.ErrBusiness(apperr.DoctorNotFound)
	}

	h := &models.HospitalizationApplication{
		PatientID:     in.PatientID,
		DoctorID:      in.DoctorID,
		Department:    in.Department,
		Diagnosis:     in.Diagnosis,
		AdmissionDate: day.Format(timezone.DayLayout),
		Notes:         in.Notes,
		Fee:           billing.Round2(fee),
		Status:        domain.StatusPendingPayment,
	}

	err = uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		if err := tx.CreateApplication(ctx, h); err != nil {
			return err
		}
		return tx.CreatePaymentItem(ctx, &models.PaymentItem{
			PatientID:     h.PatientID,
			Description:   fmt.Sprintf("Hospitalization deposit - %s", h.Department),
			Amount:        h.Fee,
			Status:        billing.ItemPending,
			Type:          billing.TypeHospitalization,
			ApplicationID: billing.HospitalizationRef(h.ID).String(),
		})
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  in.DoctorID,
		Action:   "hospitalization_submitted",
		Entity:   "hospitalization",
		EntityID: fmt.Sprint(h.ID),
		Metadata: map[string]any{"patient_id": h.PatientID, "fee": h.Fee},
	})

	return h, nil
}

type List struct {
	repo domain.Repository
}

func NewList(repo domain.Repository) *List {
	return &List{repo: repo}
}

func (uc *List) Execute(
	ctx context.Context,
	patientID string,
) ([]dto.HospitalizationDTO, error) {

	list, err := uc.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.HospitalizationDTO, 0, len(list))
	for _, h := range list {
		out = append(out, dto.FromHospitalization(h))
	}
	return out, nil
}
