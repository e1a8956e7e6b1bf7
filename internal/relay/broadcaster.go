package relay

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/clinic-server/internal/session"
)

// Remote forwards payloads for users not connected to this instance.
type Remote interface {
	Publish(userID, payload string)
}

// Broadcaster delivers out-of-band payloads to whichever connection a
// user is logged in on. Delivery is fire-and-forget.
//
// Send and Deliver write to connections and must run on the server's
// event loop.
type Broadcaster struct {
	sessions session.Store
	log      zerolog.Logger
	remote   Remote
}

func NewBroadcaster(sessions session.Store, log zerolog.Logger) *Broadcaster {
	return &Broadcaster{
		sessions: sessions,
		log:      log.With().Str("component", "relay").Logger(),
	}
}

// SetRemote enables cross-instance delivery.
func (b *Broadcaster) SetRemote(r Remote) {
	b.remote = r
}

// Send writes payload to userID's connection and reports whether it was
// delivered locally. Users that are not connected here are handed to the
// remote, if one is configured.
func (b *Broadcaster) Send(userID, payload string) bool {
	if b.Deliver(userID, payload) {
		return true
	}
	if b.remote != nil {
		b.remote.Publish(userID, payload)
	}
	return false
}

// Deliver writes to a local session only.
func (b *Broadcaster) Deliver(userID, payload string) bool {
	if userID == "" {
		return false
	}
	conn, ok := b.sessions.ConnFor(userID)
	if !ok {
		return false
	}

	if !strings.HasSuffix(payload, "\n") {
		payload += "\n"
	}
	if err := conn.Write([]byte(payload)); err != nil {
		b.log.Warn().Err(err).Str("user", userID).Str("conn", conn.ID()).Msg("relay write failed")
		return false
	}
	return true
}
