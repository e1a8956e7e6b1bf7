package account

import (
	"context"
	"fmt"
	"strings"

	"github.com/BruksfildServices01/clinic-server/internal/apperr"
	"github.com/BruksfildServices01/clinic-server/internal/audit"
	"github.com/BruksfildServices01/clinic-server/internal/contentstore"
	domain "github.com/BruksfildServices01/clinic-server/internal/domain/account"
	"github.com/BruksfildServices01/clinic-server/internal/models"
	"github.com/BruksfildServices01/clinic-server/internal/validators"
)

// UpdateUserInfoInput mirrors the profile JSON. Nil fields are left as
// they are; empty strings clear the column.
type UpdateUserInfoInput struct {
	ID       string  `json:"id"`
	Name     *string `json:"name"`
	Birthday *string `json:"birthday"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
	IDCard   *string `json:"id_card"`
	Gender   *string `json:"gender"`
	Avatar   string  `json:"avatar"`
}

type UpdateUserInfo struct {
	repo        domain.Repository
	audit       audit.Sink
	store       contentstore.Store
	checkDomain bool
}

func NewUpdateUserInfo(
	repo domain.Repository,
	audit audit.Sink,
	store contentstore.Store,
	checkDomain bool,
) *UpdateUserInfo {
	return &UpdateUserInfo{
		repo:        repo,
		audit:       audit,
		store:       store,
		checkDomain: checkDomain,
	}
}

// Execute applies the update on behalf of actorID. An empty actorID is an
// anonymous connection; otherwise it must match the profile being changed.
func (uc *UpdateUserInfo) Execute(
	ctx context.Context,
	actorID string,
	in UpdateUserInfoInput,
) (*models.User, error) {

	in.ID = strings.TrimSpace(in.ID)
	if in.ID == "" {
		return nil, apperr.ErrBusiness(apperr.InvalidFormat)
	}
	if actorID != "" && actorID != in.ID {
		return nil, apperr.ErrBusiness(apperr.NotAuthenticated)
	}

	user, err := uc.repo.GetUser(ctx, in.ID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.ErrBusiness(apperr.UserNotFound)
		}
		return nil, err
	}

	if err := uc.apply(user, in); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Avatar
	// --------------------------------------------------
	if in.Avatar != "" {
		data, ext, err := contentstore.DecodeImage(in.Avatar)
		if err != nil {
			return nil, apperr.ErrBusiness(apperr.InvalidImage)
		}

		name := contentstore.NewName("avatar_"+user.ID, ext)
		if err := uc.store.Put(ctx, name, data); err != nil {
			return nil, fmt.Errorf("%w: %v", apperr.ErrBusiness(apperr.StorageError), err)
		}
		user.AvatarPath = name
	}

	if err := uc.repo.UpdateProfile(ctx, user); err != nil {
		if apperr.IsUniqueViolation(err) {
			return nil, apperr.ErrBusiness(apperr.AlreadyExists)
		}
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  user.ID,
		Action:   "profile_updated",
		Entity:   "user",
		EntityID: user.ID,
	})

	return user, nil
}

func (uc *UpdateUserInfo) apply(u *models.User, in UpdateUserInfoInput) error {
	if in.Name != nil {
		u.RealName = strings.TrimSpace(*in.Name)
	}
	if in.Gender != nil {
		u.Gender = strings.TrimSpace(*in.Gender)
	}

	if in.Birthday != nil {
		v := strings.TrimSpace(*in.Birthday)
		if v != "" && !validators.IsBirthDate(v) {
			return apperr.ErrBusiness(apperr.InvalidField)
		}
		u.BirthDate = v
	}

	if in.IDCard != nil {
		v := strings.TrimSpace(*in.IDCard)
		if v != "" && !validators.IsIDCard(v) {
			return apperr.ErrBusiness(apperr.InvalidField)
		}
		u.IDCard = models.NullIfEmpty(v)
	}

	if in.Phone != nil {
		v := strings.TrimSpace(*in.Phone)
		if v != "" && !validators.IsPhone(v) {
			return apperr.ErrBusiness(apperr.InvalidField)
		}
		u.Phone = models.NullIfEmpty(v)
	}

	if in.Email != nil {
		v := strings.ToLower(strings.TrimSpace(*in.Email))
		if v != "" {
			if !validators.IsEmail(v) {
				return apperr.ErrBusiness(apperr.InvalidField)
			}
			if uc.checkDomain && !validators.IsEmailDomainValid(v) {
				return apperr.ErrBusiness(apperr.InvalidField)
			}
		}
		u.Email = models.NullIfEmpty(v)
	}

	return nil
}
