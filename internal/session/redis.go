package session

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
)

const (
	PresenceKey     = "clinic:presence"
	presenceTimeout = 2 * time.Second
)

type presenceOp struct {
	userID string
	online bool
}

// RedisPresence wraps a local Store and mirrors every bind and unbind into
// a Redis hash (user id -> instance id). Local lookups never touch Redis;
// mirroring runs on a background worker and is dropped when it falls behind.
type RedisPresence struct {
	Store

	rdb        *redis.Client
	instanceID string
	log        zerolog.Logger

	ops  chan presenceOp
	done chan struct{}
}

func NewRedisPresence(inner Store, rdb *redis.Client, instanceID string, log zerolog.Logger) *RedisPresence {
	p := &RedisPresence{
		Store:      inner,
		rdb:        rdb,
		instanceID: instanceID,
		log:        log.With().Str("component", "presence").Logger(),
		ops:        make(chan presenceOp, 256),
		done:       make(chan struct{}),
	}

	go p.worker()
	return p
}

func (p *RedisPresence) Bind(c Conn, userID string) {
	prev, hadPrev := p.Store.Lookup(c)
	p.Store.Bind(c, userID)

	if hadPrev && prev != userID {
		p.enqueue(presenceOp{userID: prev})
	}
	p.enqueue(presenceOp{userID: userID, online: true})
}

func (p *RedisPresence) Unbind(c Conn) (string, bool) {
	userID, ok := p.Store.Unbind(c)
	if !ok {
		return "", false
	}
	// still logged in on another local connection
	if _, stillLocal := p.Store.ConnFor(userID); !stillLocal {
		p.enqueue(presenceOp{userID: userID})
	}
	return userID, true
}

// Cluster returns every online user across instances with the instance
// holding the session.
func (p *RedisPresence) Cluster(ctx context.Context) (map[string]string, error) {
	return p.rdb.HGetAll(ctx, PresenceKey).Result()
}

// Close flushes pending updates and removes this instance's entries.
func (p *RedisPresence) Close() {
	close(p.ops)
	<-p.done

	ctx, cancel := context.WithTimeout(context.Background(), presenceTimeout)
	defer cancel()

	all, err := p.rdb.HGetAll(ctx, PresenceKey).Result()
	if err != nil {
		p.log.Warn().Err(err).Msg("presence cleanup failed")
		return
	}
	var mine []string
	for user, inst := range all {
		if inst == p.instanceID {
			mine = append(mine, user)
		}
	}
	if len(mine) > 0 {
		if err := p.rdb.HDel(ctx, PresenceKey, mine...).Err(); err != nil {
			p.log.Warn().Err(err).Msg("presence cleanup failed")
		}
	}
}

func (p *RedisPresence) enqueue(op presenceOp) {
	select {
	case p.ops <- op:
	default:
		p.log.Warn().Str("user", op.userID).Msg("presence queue full, dropping update")
	}
}

func (p *RedisPresence) worker() {
	defer close(p.done)
	for op := range p.ops {
		if err := p.apply(op); err != nil {
			p.log.Warn().Err(err).Str("user", op.userID).Bool("online", op.online).Msg("presence update failed")
		}
	}
}

func (p *RedisPresence) apply(op presenceOp) error {
	ctx, cancel := context.WithTimeout(context.Background(), presenceTimeout)
	defer cancel()

	if op.online {
		return p.rdb.HSet(ctx, PresenceKey, op.userID, p.instanceID).Err()
	}

	// another instance may have taken the user over since
	owner, err := p.rdb.HGet(ctx, PresenceKey, op.userID).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return err
	}
	if owner != p.instanceID {
		return nil
	}
	return p.rdb.HDel(ctx, PresenceKey, op.userID).Err()
}

var _ Store = (*RedisPresence)(nil)
