package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/clinic-server/internal/domain/appointment"
	domain "github.com/BruksfildServices01/clinic-server/internal/domain/billing"
	"github.com/BruksfildServices01/clinic-server/internal/domain/hospitalization"
	"github.com/BruksfildServices01/clinic-server/internal/domain/prescription"
	"github.com/BruksfildServices01/clinic-server/internal/models"
)

type BillingGormRepository struct {
	db *gorm.DB
}

func NewBillingGormRepository(db *gorm.DB) *BillingGormRepository {
	return &BillingGormRepository{db: db}
}

func (r *BillingGormRepository) WithinTx(
	ctx context.Context,
	fn func(domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&BillingGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Items
// --------------------------------------------------

func (r *BillingGormRepository) FindPendingItem(
	ctx context.Context,
	patientID string,
	applicationID string,
) (*models.PaymentItem, error) {

	var item models.PaymentItem
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("patient_id = ? AND application_id = ? AND status = ?", patientID, applicationID, domain.ItemPending).
		Order("id ASC").
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *BillingGormRepository) FindPendingItemByDescription(
	ctx context.Context,
	patientID string,
	description string,
	amount float64,
) (*models.PaymentItem, error) {

	var item models.PaymentItem
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("patient_id = ? AND description = ? AND status = ?", patientID, description, domain.ItemPending).
		Where("amount BETWEEN ? AND ?", amount-domain.ItemTolerance, amount+domain.ItemTolerance).
		Order("id ASC").
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// MarkItemPaid flips a pending item. It fails with ErrRecordNotFound when
// the item was settled concurrently.
func (r *BillingGormRepository) MarkItemPaid(
	ctx context.Context,
	item *models.PaymentItem,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.PaymentItem{}).
		Where("id = ? AND status = ?", item.ID, domain.ItemPending).
		Updates(map[string]any{
			"status":  domain.ItemPaid,
			"paid_at": item.PaidAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	item.Status = domain.ItemPaid
	return nil
}

func (r *BillingGormRepository) ListItems(
	ctx context.Context,
	patientID string,
) ([]models.PaymentItem, error) {

	var items []models.PaymentItem
	if err := r.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("created_at DESC, id DESC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// --------------------------------------------------
// Ledger
// --------------------------------------------------

func (r *BillingGormRepository) FindUnsettledRecord(
	ctx context.Context,
	patientID string,
	applicationID string,
) (*models.PaymentRecord, error) {

	var rec models.PaymentRecord
	if err := r.db.WithContext(ctx).
		Where("patient_id = ? AND application_id = ? AND status = ?", patientID, applicationID, domain.RecordUnsettled).
		Order("id ASC").
		First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *BillingGormRepository) SaveRecord(
	ctx context.Context,
	rec *models.PaymentRecord,
) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

func (r *BillingGormRepository) SupersedeUnsettled(
	ctx context.Context,
	patientID string,
	applicationIDs []string,
) error {
	if len(applicationIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.PaymentRecord{}).
		Where("patient_id = ? AND status = ? AND application_id IN ?", patientID, domain.RecordUnsettled, applicationIDs).
		Update("status", domain.RecordSuperseded).Error
}

func (r *BillingGormRepository) ListSettledRecords(
	ctx context.Context,
	patientID string,
) ([]models.PaymentRecord, error) {

	var recs []models.PaymentRecord
	if err := r.db.WithContext(ctx).
		Where("patient_id = ? AND status = ?", patientID, domain.RecordSettled).
		Order("payment_time DESC, id DESC").
		Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

// --------------------------------------------------
// Settlement targets
// --------------------------------------------------

func (r *BillingGormRepository) ConfirmAppointment(
	ctx context.Context,
	appointmentID uint,
	patientID string,
) (int64, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND patient_id = ? AND status <> ?", appointmentID, patientID, string(appointment.StatusCancelled)).
		Update("status", string(appointment.StatusConfirmed))
	return res.RowsAffected, res.Error
}

// MarkPrescriptionPaid runs in a nested transaction (a savepoint when
// called inside WithinTx) so a failure here can be discarded without
// aborting the enclosing settlement.
func (r *BillingGormRepository) MarkPrescriptionPaid(
	ctx context.Context,
	prescriptionID uint,
	patientID string,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Model(&models.Prescription{}).
			Where("id = ? AND patient_id = ?", prescriptionID, patientID).
			Update("status", string(prescription.StatusPaid)).Error
	})
}

func (r *BillingGormRepository) MarkHospitalizationPaid(
	ctx context.Context,
	applicationID uint,
	patientID string,
) (int64, error) {

	res := r.db.WithContext(ctx).
		Model(&models.HospitalizationApplication{}).
		Where("id = ? AND patient_id = ?", applicationID, patientID).
		Update("status", hospitalization.StatusPaid)
	return res.RowsAffected, res.Error
}

// Compile-time check
var _ domain.Repository = (*BillingGormRepository)(nil)
