package payment

import (
	"context"
	"fmt"

	"github.com/BruksfildServices01/clinic-server/internal/apperr"
	"github.com/BruksfildServices01/clinic-server/internal/audit"
	domain "github.com/BruksfildServices01/clinic-server/internal/domain/billing"
	"github.com/BruksfildServices01/clinic-server/internal/models"
	"github.com/BruksfildServices01/clinic-server/internal/timezone"
)

type SingleInput struct {
	PatientID     string
	ApplicationID string
	PaymentMethod string
}

type Result struct {
	Record   *models.PaymentRecord
	Items    []models.PaymentItem
	Warnings []error
}

type ProcessSingle struct {
	repo  domain.Repository
	audit audit.Sink
}

func NewProcessSingle(repo domain.Repository, audit audit.Sink) *ProcessSingle {
	return &ProcessSingle{repo: repo, audit: audit}
}

func (uc *ProcessSingle) Execute(
	ctx context.Context,
	in SingleInput,
) (*Result, error) {

	if in.PatientID == "" || in.ApplicationID == "" {
		return nil, apperr.ErrBusiness(apperr.InvalidFormat)
	}

	now := timezone.Now()
	res := &Result{}

	err := uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		item, err := tx.FindPendingItem(ctx, in.PatientID, in.ApplicationID)
		if err != nil {
			if apperr.IsNotFound(err) {
				return apperr.ErrBusiness(apperr.PaymentItemNotFound)
			}
			return err
		}

		warn, err := payItem(ctx, tx, item, now)
		if err != nil {
			return err
		}
		if warn != nil {
			res.Warnings = append(res.Warnings, warn)
		}

		// --------------------------------------------------
		// Ledger: settle the pre-record in place or append one
		// --------------------------------------------------
		rec, err := tx.FindUnsettledRecord(ctx, in.PatientID, in.ApplicationID)
		switch {
		case err == nil:
			rec.Status = domain.RecordSettled
			rec.PaymentTime = &now
			rec.PaymentMethod = method(in.PaymentMethod)
		case apperr.IsNotFound(err):
			rec = &models.PaymentRecord{
				PatientID:     in.PatientID,
				Amount:        item.Amount,
				PaymentTime:   &now,
				PaymentMethod: method(in.PaymentMethod),
				Description:   item.Description,
				ApplicationID: item.ApplicationID,
				Status:        domain.RecordSettled,
			}
		default:
			return err
		}

		if err := tx.SaveRecord(ctx, rec); err != nil {
			return err
		}

		res.Record = rec
		res.Items = []models.PaymentItem{*item}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  in.PatientID,
		Action:   "payment_processed",
		Entity:   "payment_record",
		EntityID: fmt.Sprint(res.Record.ID),
		Metadata: map[string]any{"application_id": in.ApplicationID, "amount": res.Record.Amount},
	})

	return res, nil
}
