package account

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/clinic-server/internal/apperr"
	"github.com/BruksfildServices01/clinic-server/internal/audit"
	domain "github.com/BruksfildServices01/clinic-server/internal/domain/account"
	"github.com/BruksfildServices01/clinic-server/internal/models"
	"github.com/BruksfildServices01/clinic-server/internal/validators"
)

const (
	defaultDepartment = "General"
	defaultTitle      = "Attending"
)

type RegisterInput struct {
	Username  string
	Password  string
	Identity  string
	RealName  string
	BirthDate string
	IDCard    string
	Phone     string
	Email     string
}

type Register struct {
	repo        domain.Repository
	audit       audit.Sink
	passwords   Passwords
	defaultFee  float64
	checkDomain bool
}

func NewRegister(
	repo domain.Repository,
	audit audit.Sink,
	passwords Passwords,
	defaultFee float64,
	checkDomain bool,
) *Register {
	return &Register{
		repo:        repo,
		audit:       audit,
		passwords:   passwords,
		defaultFee:  defaultFee,
		checkDomain: checkDomain,
	}
}

func (uc *Register) Execute(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if in.Username == "" || in.Password == "" {
		return nil, apperr.ErrBusiness(apperr.InvalidFormat)
	}

	role, prefix, err := domain.RoleFromIdentity(in.Identity)
	if err != nil {
		return nil, err
	}

	if err := uc.validateProfile(in.BirthDate, in.IDCard, in.Phone, in.Email); err != nil {
		return nil, err
	}

	hashed, err := uc.passwords.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:  in.Username,
		Password:  hashed,
		Role:      role,
		RealName:  strings.TrimSpace(in.RealName),
		BirthDate: in.BirthDate,
		IDCard:    models.NullIfEmpty(in.IDCard),
		Phone:     models.NullIfEmpty(in.Phone),
		Email:     models.NullIfEmpty(in.Email),
	}

	err = uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		ids, err := tx.IDsWithPrefix(ctx, prefix)
		if err != nil {
			return err
		}
		user.ID = domain.NextID(prefix, ids)

		if err := tx.CreateUser(ctx, user); err != nil {
			return err
		}

		if role == models.RoleDoctor {
			return tx.CreateDoctor(ctx, &models.Doctor{
				UserID:     user.ID,
				Department: defaultDepartment,
				Title:      defaultTitle,
				Fee:        uc.defaultFee,
			})
		}
		return tx.CreatePatient(ctx, &models.Patient{UserID: user.ID})
	})
	if err != nil {
		if apperr.IsUniqueViolation(err) {
			return nil, apperr.ErrBusiness(apperr.AlreadyExists)
		}
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  user.ID,
		Action:   "user_registered",
		Entity:   "user",
		EntityID: user.ID,
		Metadata: map[string]any{"role": role},
	})

	return user, nil
}

// validateProfile checks optional fields only when they are present.
func (uc *Register) validateProfile(birth, idCard, phone, email string) error {
	if birth != "" && !validators.IsBirthDate(birth) {
		return apperr.ErrBusiness(apperr.InvalidField)
	}
	if idCard != "" && !validators.IsIDCard(idCard) {
		return apperr.ErrBusiness(apperr.InvalidField)
	}
	if phone != "" && !validators.IsPhone(phone) {
		return apperr.ErrBusiness(apperr.InvalidField)
	}
	if email != "" {
		if !validators.IsEmail(email) {
			return apperr.ErrBusiness(apperr.InvalidField)
		}
		if uc.checkDomain && !validators.IsEmailDomainValid(email) {
			return apperr.ErrBusiness(apperr.InvalidField)
		}
	}
	return nil
}
