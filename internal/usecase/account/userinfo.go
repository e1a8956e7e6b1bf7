package account

import (
	"context"
	"encoding/base64"

	"github.com/BruksfildServices01/clinic-server/internal/apperr"
	"github.com/BruksfildServices01/clinic-server/internal/contentstore"
	domain "github.com/BruksfildServices01/clinic-server/internal/domain/account"
	"github.com/BruksfildServices01/clinic-server/internal/dto"
	"github.com/BruksfildServices01/clinic-server/internal/models"
)

type UserInfo struct {
	repo  domain.Repository
	store contentstore.Store
}

func NewUserInfo(repo domain.Repository, store contentstore.Store) *UserInfo {
	return &UserInfo{repo: repo, store: store}
}

func (uc *UserInfo) Execute(ctx context.Context, id string) (*dto.UserInfoDTO, error) {
	user, err := uc.repo.GetUser(ctx, id)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.ErrBusiness(apperr.UserNotFound)
		}
		return nil, err
	}

	out := dto.FromUser(*user)

	switch user.Role {
	case models.RoleDoctor:
		doc, err := uc.repo.GetDoctor(ctx, id)
		if err != nil && !apperr.IsNotFound(err) {
			return nil, err
		}
		if doc != nil {
			fee := doc.Fee
			out.Department = doc.Department
			out.Title = doc.Title
			out.Fee = &fee
		}

	case models.RolePatient:
		p, err := uc.repo.GetPatient(ctx, id)
		if err != nil && !apperr.IsNotFound(err) {
			return nil, err
		}
		if p != nil {
			out.CaseSummary = p.CaseSummary
		}
	}

	// a missing avatar file is not worth failing the profile for
	if user.AvatarPath != "" && uc.store != nil {
		if data, err := uc.store.Get(ctx, user.AvatarPath); err == nil {
			out.Avatar = base64.StdEncoding.EncodeToString(data)
		}
	}

	return &out, nil
}
