package account

import (
	"context"

	"github.com/BruksfildServices01/clinic-server/internal/apperr"
	"github.com/BruksfildServices01/clinic-server/internal/audit"
	domain "github.com/BruksfildServices01/clinic-server/internal/domain/account"
	"github.com/BruksfildServices01/clinic-server/internal/models"
)

type Login struct {
	repo      domain.Repository
	audit     audit.Sink
	passwords Passwords
}

func NewLogin(repo domain.Repository, audit audit.Sink, passwords Passwords) *Login {
	return &Login{repo: repo, audit: audit, passwords: passwords}
}

// Execute returns INVALID_CREDENTIALS for an unknown id and a wrong
// password alike.
func (uc *Login) Execute(ctx context.Context, id, password string) (*models.User, error) {
	if id == "" || password == "" {
		return nil, apperr.ErrBusiness(apperr.InvalidFormat)
	}

	user, err := uc.repo.GetUser(ctx, id)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.ErrBusiness(apperr.InvalidCredentials)
		}
		return nil, err
	}

	if !uc.passwords.Match(user.Password, password) {
		uc.audit.Dispatch(audit.Event{ActorID: id, Action: "login_failed", Entity: "user", EntityID: id})
		return nil, apperr.ErrBusiness(apperr.InvalidCredentials)
	}

	uc.audit.Dispatch(audit.Event{ActorID: id, Action: "login", Entity: "user", EntityID: id})
	return user, nil
}
