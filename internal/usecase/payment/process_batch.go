package payment

import (
	"context"
	"fmt"
	"strings"

	"github.com/BruksfildServices01/clinic-server/internal/apperr"
	"github.com/BruksfildServices01/clinic-server/internal/audit"
	domain "github.com/BruksfildServices01/clinic-server/internal/domain/billing"
	"github.com/BruksfildServices01/clinic-server/internal/models"
	"github.com/BruksfildServices01/clinic-server/internal/timezone"
)

type BatchLine struct {
	ItemName      string
	Amount        float64
	ApplicationID string
}

type BatchInput struct {
	PatientID     string
	TotalAmount   float64
	PaymentMethod string
	PaymentTime   string
	Items         []BatchLine
}

type ProcessBatch struct {
	repo  domain.Repository
	audit audit.Sink
}

func NewProcessBatch(repo domain.Repository, audit audit.Sink) *ProcessBatch {
	return &ProcessBatch{repo: repo, audit: audit}
}

func (uc *ProcessBatch) Execute(
	ctx context.Context,
	in BatchInput,
) (*Result, error) {

	if in.PatientID == "" || len(in.Items) == 0 || in.TotalAmount < 0 {
		return nil, apperr.ErrBusiness(apperr.InvalidFormat)
	}
	for _, l := range in.Items {
		if l.Amount < 0 {
			return nil, apperr.ErrBusiness(apperr.InvalidFormat)
		}
	}

	now := timezone.Now()
	paidAt := now
	if t, err := timezone.Parse(strings.TrimSpace(in.PaymentTime)); err == nil {
		paidAt = t
	}

	res := &Result{}

	err := uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		var (
			matched float64
			refs    []string
		)

		for _, line := range in.Items {
			item, err := matchLine(ctx, tx, in.PatientID, line)
			if err != nil {
				return err
			}

			warn, err := payItem(ctx, tx, item, now)
			if err != nil {
				return err
			}
			if warn != nil {
				res.Warnings = append(res.Warnings, warn)
			}

			matched += item.Amount
			if item.ApplicationID != "" {
				refs = append(refs, item.ApplicationID)
			}
			res.Items = append(res.Items, *item)
		}

		if !domain.AmountsEqual(matched, in.TotalAmount, domain.TotalTolerance) {
			return apperr.ErrBusiness(apperr.AmountMismatch)
		}

		if err := tx.SupersedeUnsettled(ctx, in.PatientID, refs); err != nil {
			return err
		}

		rec := &models.PaymentRecord{
			PatientID:     in.PatientID,
			Amount:        domain.Round2(in.TotalAmount),
			PaymentTime:   &paidAt,
			PaymentMethod: method(in.PaymentMethod),
			Description:   fmt.Sprintf("Batch payment (%d items)", len(in.Items)),
			Status:        domain.RecordSettled,
		}
		if len(refs) == 1 && len(in.Items) == 1 {
			rec.ApplicationID = refs[0]
			rec.Description = res.Items[0].Description
		}

		if err := tx.SaveRecord(ctx, rec); err != nil {
			return err
		}
		res.Record = rec
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  in.PatientID,
		Action:   "batch_payment_processed",
		Entity:   "payment_record",
		EntityID: fmt.Sprint(res.Record.ID),
		Metadata: map[string]any{"items": len(res.Items), "amount": res.Record.Amount},
	})

	return res, nil
}

// matchLine finds the pending item a batch line pays: by application id,
// then by description and amount, then by an appointment number embedded
// in the description.
func matchLine(
	ctx context.Context,
	tx domain.Repository,
	patientID string,
	line BatchLine,
) (*models.PaymentItem, error) {

	if id := strings.TrimSpace(line.ApplicationID); id != "" {
		return found(tx.FindPendingItem(ctx, patientID, id))
	}

	item, err := tx.FindPendingItemByDescription(ctx, patientID, line.ItemName, line.Amount)
	if err == nil {
		return item, nil
	}
	if !apperr.IsNotFound(err) {
		return nil, err
	}

	if ref, ok := domain.LegacyRef(line.ItemName); ok {
		return found(tx.FindPendingItem(ctx, patientID, ref.String()))
	}

	return nil, apperr.ErrBusiness(apperr.PaymentItemNotFound)
}

func found(item *models.PaymentItem, err error) (*models.PaymentItem, error) {
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.ErrBusiness(apperr.PaymentItemNotFound)
		}
		return nil, err
	}
	return item, nil
}
