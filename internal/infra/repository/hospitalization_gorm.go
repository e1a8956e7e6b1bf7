package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/clinic-server/internal/domain/hospitalization"
	"github.com/BruksfildServices01/clinic-server/internal/models"
)

type HospitalizationGormRepository struct {
	db *gorm.DB
}

func NewHospitalizationGormRepository(db *gorm.DB) *HospitalizationGormRepository {
	return &HospitalizationGormRepository{db: db}
}

func (r *HospitalizationGormRepository) WithinTx(
	ctx context.Context,
	fn func(domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&HospitalizationGormRepository{db: tx})
	})
}

func (r *HospitalizationGormRepository) PatientExists(ctx context.Context, patientID string) (bool, error) {
	return exists(ctx, r.db, &models.Patient{}, "user_id = ?", patientID)
}

func (r *HospitalizationGormRepository) DoctorExists(ctx context.Context, doctorID string) (bool, error) {
	return exists(ctx, r.db, &models.Doctor{}, "user_id = ?", doctorID)
}

func (r *HospitalizationGormRepository) CreateApplication(
	ctx context.Context,
	h *models.HospitalizationApplication,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(h).Error
}

func (r *HospitalizationGormRepository) CreatePaymentItem(
	ctx context.Context,
	item *models.PaymentItem,
) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *HospitalizationGormRepository) ListByPatient(
	ctx context.Context,
	patientID string,
) ([]models.HospitalizationApplication, error) {

	var list []models.HospitalizationApplication
	if err := r.db.WithContext(ctx).
		Preload("Doctor.User").
		Where("patient_id = ?", patientID).
		Order("created_at DESC, id DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// Compile-time check
var _ domain.Repository = (*HospitalizationGormRepository)(nil)
