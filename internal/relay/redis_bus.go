package relay

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
)

const (
	Channel        = "clinic:relay"
	publishTimeout = 2 * time.Second
)

type envelope struct {
	Origin  string `json:"origin"`
	UserID  string `json:"user_id"`
	Payload string `json:"payload"`
}

// Poster runs fn on the goroutine that owns connection writes. Post
// reports false once that goroutine has stopped.
type Poster interface {
	Post(fn func()) bool
}

// RedisBus carries relay payloads between server instances over a Redis
// pub/sub channel.
type RedisBus struct {
	rdb        *redis.Client
	instanceID string
	log        zerolog.Logger
}

func NewRedisBus(rdb *redis.Client, instanceID string, log zerolog.Logger) *RedisBus {
	return &RedisBus{
		rdb:        rdb,
		instanceID: instanceID,
		log:        log.With().Str("component", "relay_bus").Logger(),
	}
}

// Publish is called from the event loop, so the Redis round trip runs
// on its own goroutine.
func (r *RedisBus) Publish(userID, payload string) {
	b, err := json.Marshal(envelope{Origin: r.instanceID, UserID: userID, Payload: payload})
	if err != nil {
		r.log.Error().Err(err).Msg("encode relay envelope")
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := r.rdb.Publish(ctx, Channel, b).Err(); err != nil {
			r.log.Warn().Err(err).Str("user", userID).Msg("relay publish failed")
		}
	}()
}

// Run subscribes to the relay channel and delivers payloads addressed to
// users connected on this instance until ctx is cancelled.
func (r *RedisBus) Run(ctx context.Context, b *Broadcaster, loop Poster) error {
	sub := r.rdb.Subscribe(ctx, Channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			var env envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				r.log.Warn().Err(err).Msg("bad relay envelope")
				continue
			}
			if env.Origin == r.instanceID {
				continue
			}

			delivered := loop.Post(func() {
				b.Deliver(env.UserID, env.Payload)
			})
			if !delivered {
				return nil
			}
		}
	}
}

var _ Remote = (*RedisBus)(nil)
