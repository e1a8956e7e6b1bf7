package server

import (
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/clinic-server/internal/apperr"
	"github.com/BruksfildServices01/clinic-server/internal/protocol"
	"github.com/BruksfildServices01/clinic-server/internal/session"
)

type Request struct {
	Conn session.Conn
	Msg  protocol.Message
	// UserID is the user bound to Conn, empty before login.
	UserID string
	Log    zerolog.Logger

	route Route
}

func (r *Request) OK(fields ...string) protocol.Reply {
	return protocol.Success(r.route.ReplyTag, fields...)
}

func (r *Request) Fail(reason string) protocol.Reply {
	return protocol.Fail(r.route.ReplyTag, r.route.FailSuffix, reason)
}

// Error turns err into a failure reply. Business errors carry their own
// code; anything else is logged and reported as DB_ERROR. Storage
// failures are logged too since they wrap the underlying cause.
func (r *Request) Error(err error) protocol.Reply {
	reason := apperr.Reason(err)
	if reason == apperr.DBError || reason == apperr.StorageError {
		r.Log.Error().Err(err).Msg("request failed")
	}
	return r.Fail(reason)
}

// JSON replies `<TAG>_SUCCESS#<json>`.
func (r *Request) JSON(v any) protocol.Reply {
	s, err := protocol.JSON(v)
	if err != nil {
		r.Log.Error().Err(err).Msg("encode reply")
		return r.Fail(apperr.ServerError)
	}
	return r.OK(s)
}
