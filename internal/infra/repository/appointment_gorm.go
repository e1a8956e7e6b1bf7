package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/clinic-server/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-server/internal/domain/billing"
	"github.com/BruksfildServices01/clinic-server/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

func (r *AppointmentGormRepository) WithinTx(
	ctx context.Context,
	fn func(domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AppointmentGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Participants
// --------------------------------------------------

func (r *AppointmentGormRepository) GetDoctor(
	ctx context.Context,
	doctorID string,
) (*models.Doctor, error) {

	var doc models.Doctor
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", doctorID).
		First(&doc).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *AppointmentGormRepository) PatientExists(
	ctx context.Context,
	patientID string,
) (bool, error) {
	return exists(ctx, r.db, &models.Patient{}, "user_id = ?", patientID)
}

// --------------------------------------------------
// Capacity
// --------------------------------------------------

func (r *AppointmentGormRepository) CountActiveForDay(
	ctx context.Context,
	doctorID string,
	day string,
	lock bool,
) (int64, error) {

	q := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("doctor_id = ? AND day = ? AND status <> ?", doctorID, day, string(domain.StatusCancelled))

	if !lock {
		var count int64
		if err := q.Count(&count).Error; err != nil {
			return 0, err
		}
		return count, nil
	}

	// postgres rejects FOR UPDATE on aggregates, so lock the rows and count them here
	var ids []uint
	if err := q.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Pluck("id", &ids).Error; err != nil {
		return 0, err
	}
	return int64(len(ids)), nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(ap).Error
}

func (r *AppointmentGormRepository) GetAppointmentForDoctor(
	ctx context.Context,
	appointmentID uint,
	doctorID string,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND doctor_id = ?", appointmentID, doctorID).
		First(&ap).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).
		Model(ap).
		Select("status", "reminder_sent_at", "updated_at").
		Updates(ap).Error
}

func (r *AppointmentGormRepository) ListByDoctor(
	ctx context.Context,
	doctorID string,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("Doctor.User").
		Where("doctor_id = ?", doctorID).
		Order("appointment_date DESC, id DESC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *AppointmentGormRepository) ListByPatient(
	ctx context.Context,
	patientID string,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("Doctor.User").
		Where("patient_id = ?", patientID).
		Order("appointment_date DESC, id DESC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// --------------------------------------------------
// Billing
// --------------------------------------------------

func (r *AppointmentGormRepository) CreatePaymentItem(
	ctx context.Context,
	item *models.PaymentItem,
) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *AppointmentGormRepository) DeletePendingItem(
	ctx context.Context,
	applicationID string,
) error {
	return r.db.WithContext(ctx).
		Where("application_id = ? AND status = ?", applicationID, billing.ItemPending).
		Delete(&models.PaymentItem{}).Error
}

// --------------------------------------------------
// Reminders
// --------------------------------------------------

// DueReminders lists confirmed bookings on day that have not been
// reminded yet.
func (r *AppointmentGormRepository) DueReminders(
	ctx context.Context,
	day string,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Where("day = ? AND status = ? AND reminder_sent_at IS NULL", day, string(domain.StatusConfirmed)).
		Order("id ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *AppointmentGormRepository) MarkReminded(
	ctx context.Context,
	ids []uint,
	at time.Time,
) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id IN ?", ids).
		Update("reminder_sent_at", at).Error
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
