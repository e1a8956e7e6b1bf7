package prescription

import (
	"context"
	"fmt"
	"strings"

	"github.com/BruksfildServices01/clinic-server/internal/apperr"
	"github.com/BruksfildServices01/clinic-server/internal/audit"
	"github.com/BruksfildServices01/clinic-server/internal/domain/billing"
	domain "github.com/BruksfildServices01/clinic-server/internal/domain/prescription"
	"github.com/BruksfildServices01/clinic-server/internal/models"
	"github.com/BruksfildServices01/clinic-server/internal/timezone"
)

type SubmitPrescriptionInput struct {
	PatientID    string
	DoctorID     string
	MedicineName string
	Dosage       string
	Usage        string
	Frequency    string
	Quantity     string
	Notes        string
}

type SubmitPrescriptionResult struct {
	Prescription *models.Prescription
	PriceSource  domain.PriceSource
}

type SubmitPrescription struct {
	repo         domain.Repository
	audit        audit.Sink
	defaultPrice float64
}

func NewSubmitPrescription(
	repo domain.Repository,
	audit audit.Sink,
	defaultPrice float64,
) *SubmitPrescription {
	return &SubmitPrescription{
		repo:         repo,
		audit:        audit,
		defaultPrice: defaultPrice,
	}
}

func (uc *SubmitPrescription) Execute(
	ctx context.Context,
	in SubmitPrescriptionInput,
) (*SubmitPrescriptionResult, error) {

	qty, err := domain.ParseQuantity(in.Quantity)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.MedicineName) == "" {
		return nil, apperr.ErrBusiness(apperr.InvalidFormat)
	}

	// --------------------------------------------------
	// Participants
	// --------------------------------------------------
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

	// --------------------------------------------------
	// Prescription + item + unsettled ledger entry
	// --------------------------------------------------
	p := &models.Prescription{
		PatientID:    in.PatientID,
		DoctorID:     in.DoctorID,
		MedicineName: strings.TrimSpace(in.MedicineName),
		Dosage:       in.Dosage,
		Usage:        in.Usage,
		Frequency:    in.Frequency,
		Quantity:     qty,
		Notes:        in.Notes,
		PrescribedAt: timezone.Now(),
		Status:       string(domain.StatusActive),
	}

	var source domain.PriceSource

	err = uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		unit, src, err := ResolvePrice(ctx, tx, p.MedicineName, uc.defaultPrice)
		if err != nil {
			return err
		}
		source = src

		p.UnitPrice = unit
		p.Amount = billing.Round2(unit * float64(qty))

		if err := tx.CreatePrescription(ctx, p); err != nil {
			return err
		}

		ref := billing.PrescriptionRef(p.ID).String()
		desc := fmt.Sprintf("Prescription - %s x%d", p.MedicineName, qty)

		if err := tx.CreatePaymentItem(ctx, &models.PaymentItem{
			PatientID:     p.PatientID,
			Description:   desc,
			Amount:        p.Amount,
			Status:        billing.ItemPending,
			Type:          billing.TypePrescription,
			ApplicationID: ref,
		}); err != nil {
			return err
		}

		return tx.CreatePaymentRecord(ctx, &models.PaymentRecord{
			PatientID:     p.PatientID,
			Amount:        p.Amount,
			Description:   desc,
			ApplicationID: ref,
			Status:        billing.RecordUnsettled,
		})
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  in.DoctorID,
		Action:   "prescription_submitted",
		Entity:   "prescription",
		EntityID: fmt.Sprint(p.ID),
		Metadata: map[string]any{"patient_id": p.PatientID, "amount": p.Amount, "price_source": source},
	})

	return &SubmitPrescriptionResult{
		Prescription: p,
		PriceSource:  source,
	}, nil
}
