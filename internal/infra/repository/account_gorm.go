package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/clinic-server/internal/domain/account"
	"github.com/BruksfildServices01/clinic-server/internal/models"
)

type AccountGormRepository struct {
	db *gorm.DB
}

func NewAccountGormRepository(db *gorm.DB) *AccountGormRepository {
	return &AccountGormRepository{db: db}
}

func (r *AccountGormRepository) WithinTx(
	ctx context.Context,
	fn func(domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AccountGormRepository{db: tx})
	})
}

func (r *AccountGormRepository) GetUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *AccountGormRepository) GetDoctor(ctx context.Context, userID string) (*models.Doctor, error) {
	var d models.Doctor
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *AccountGormRepository) GetPatient(ctx context.Context, userID string) (*models.Patient, error) {
	var p models.Patient
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *AccountGormRepository) IDsWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id LIKE ?", prefix+"%").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *AccountGormRepository) CreateUser(ctx context.Context, u *models.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *AccountGormRepository) CreateDoctor(ctx context.Context, d *models.Doctor) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(d).Error
}

func (r *AccountGormRepository) CreatePatient(ctx context.Context, p *models.Patient) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error
}

func (r *AccountGormRepository) UpdateProfile(ctx context.Context, u *models.User) error {
	return r.db.WithContext(ctx).
		Model(u).
		Select("real_name", "gender", "birth_date", "id_card", "phone", "email", "avatar_path", "updated_at").
		Updates(u).Error
}

// Compile-time check
var _ domain.Repository = (*AccountGormRepository)(nil)
