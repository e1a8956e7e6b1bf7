package account

import (
	"context"

	"github.com/BruksfildServices01/clinic-server/internal/models"
)

type Repository interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetDoctor(ctx context.Context, userID string) (*models.Doctor, error)
	GetPatient(ctx context.Context, userID string) (*models.Patient, error)

	// IDsWithPrefix lists user ids starting with prefix.
	IDsWithPrefix(ctx context.Context, prefix string) ([]string, error)

	CreateUser(ctx context.Context, u *models.User) error
	CreateDoctor(ctx context.Context, d *models.Doctor) error
	CreatePatient(ctx context.Context, p *models.Patient) error
	UpdateProfile(ctx context.Context, u *models.User) error

	WithinTx(ctx context.Context, fn func(Repository) error) error
}
