package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/clinic-server/internal/domain/prescription"
	"github.com/BruksfildServices01/clinic-server/internal/models"
)

type PrescriptionGormRepository struct {
	db *gorm.DB
}

func NewPrescriptionGormRepository(db *gorm.DB) *PrescriptionGormRepository {
	return &PrescriptionGormRepository{db: db}
}

func (r *PrescriptionGormRepository) WithinTx(
	ctx context.Context,
	fn func(domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PrescriptionGormRepository{db: tx})
	})
}

func (r *PrescriptionGormRepository) PatientExists(ctx context.Context, patientID string) (bool, error) {
	return exists(ctx, r.db, &models.Patient{}, "user_id = ?", patientID)
}

func (r *PrescriptionGormRepository) DoctorExists(ctx context.Context, doctorID string) (bool, error) {
	return exists(ctx, r.db, &models.Doctor{}, "user_id = ?", doctorID)
}

// --------------------------------------------------
// Catalog
// --------------------------------------------------

func (r *PrescriptionGormRepository) MedicineByName(
	ctx context.Context,
	name string,
) (*models.Medicine, error) {

	var m models.Medicine
	if err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// MedicineLike matches either direction, ignoring case: the catalog name
// contains the prescribed name, or the prescribed name contains the
// catalog name. The shortest catalog name wins. '%' and '_' in a name
// are plain characters.
func (r *PrescriptionGormRepository) MedicineLike(
	ctx context.Context,
	name string,
) (*models.Medicine, error) {

	var catalog []models.Medicine
	if err := r.db.WithContext(ctx).
		Order("LENGTH(name) ASC, id ASC").
		Find(&catalog).Error; err != nil {
		return nil, err
	}

	needle := strings.ToLower(name)
	for i := range catalog {
		candidate := strings.ToLower(catalog[i].Name)
		if candidate == "" {
			continue
		}
		if strings.Contains(candidate, needle) || strings.Contains(needle, candidate) {
			return &catalog[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// --------------------------------------------------
// Prescription
// --------------------------------------------------

func (r *PrescriptionGormRepository) CreatePrescription(
	ctx context.Context,
	p *models.Prescription,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error
}

func (r *PrescriptionGormRepository) CreatePaymentItem(
	ctx context.Context,
	item *models.PaymentItem,
) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *PrescriptionGormRepository) CreatePaymentRecord(
	ctx context.Context,
	rec *models.PaymentRecord,
) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *PrescriptionGormRepository) ListByPatient(
	ctx context.Context,
	patientID string,
) ([]models.Prescription, error) {

	var list []models.Prescription
	if err := r.db.WithContext(ctx).
		Preload("Doctor.User").
		Where("patient_id = ?", patientID).
		Order("prescribed_at DESC, id DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// Compile-time check
var _ domain.Repository = (*PrescriptionGormRepository)(nil)
