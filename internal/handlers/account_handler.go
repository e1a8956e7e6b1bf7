package handlers

import (
	"context"
	"encoding/json"

	"github.com/BruksfildServices01/clinic-server/internal/apperr"
	"github.com/BruksfildServices01/clinic-server/internal/protocol"
	"github.com/BruksfildServices01/clinic-server/internal/server"
	"github.com/BruksfildServices01/clinic-server/internal/session"
	"github.com/BruksfildServices01/clinic-server/internal/usecase/account"
)

// ======================================================
// HANDLER
// ======================================================

type AccountHandler struct {
	login    *account.Login
	register *account.Register
	info     *account.UserInfo
	update   *account.UpdateUserInfo
	sessions session.Store
}

func NewAccountHandler(
	login *account.Login,
	register *account.Register,
	info *account.UserInfo,
	update *account.UpdateUserInfo,
	sessions session.Store,
) *AccountHandler {
	return &AccountHandler{
		login:    login,
		register: register,
		info:     info,
		update:   update,
		sessions: sessions,
	}
}

// ======================================================
// LOGIN#id#password
// ======================================================

// Login takes the rest of the line as the password, so '#' inside it
// survives.
func (h *AccountHandler) Login(ctx context.Context, req *server.Request) protocol.Reply {
	user, err := h.login.Execute(ctx, req.Msg.Field(1), req.Msg.Tail(2))
	if err != nil {
		// wrong credentials stay a bare LOGIN_FAIL for legacy clients
		if apperr.IsBusiness(err, apperr.InvalidCredentials) {
			return req.Fail("")
		}
		return req.Error(err)
	}

	h.sessions.Bind(req.Conn, user.ID)
	req.Log.Info().Str("user", user.ID).Str("remote", req.Conn.RemoteAddr()).Msg("login")

	return req.OK()
}

// ======================================================
// REGISTER#username#password#identity#real_name#birth_date#id_card#phone#email
// ======================================================

func (h *AccountHandler) Register(ctx context.Context, req *server.Request) protocol.Reply {
	m := req.Msg

	user, err := h.register.Execute(ctx, account.RegisterInput{
		Username:  m.Field(1),
		Password:  m.Field(2),
		Identity:  m.Field(3),
		RealName:  m.Field(4),
		BirthDate: m.Field(5),
		IDCard:    m.Field(6),
		Phone:     m.Field(7),
		Email:     m.Field(8),
	})
	if err != nil {
		return req.Error(err)
	}

	return req.OK(user.ID)
}

// ======================================================
// USERINFO#id
// ======================================================

func (h *AccountHandler) UserInfo(ctx context.Context, req *server.Request) protocol.Reply {
	info, err := h.info.Execute(ctx, req.Msg.Field(1))
	if err != nil {
		return req.Error(err)
	}
	return req.JSON(info)
}

// ======================================================
// UPDATE_USERINFO#<json>
// ======================================================

func (h *AccountHandler) UpdateUserInfo(ctx context.Context, req *server.Request) protocol.Reply {
	var in account.UpdateUserInfoInput
	if err := json.Unmarshal([]byte(req.Msg.Tail(1)), &in); err != nil {
		return req.Fail(apperr.InvalidFormat)
	}

	if _, err := h.update.Execute(ctx, req.UserID, in); err != nil {
		return req.Error(err)
	}
	return req.OK()
}
