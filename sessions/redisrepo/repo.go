// Package redisrepo stores login sessions in Redis so they survive restarts
// and are shared between instances.
package redisrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	apperrors "github.com/jrsteele09/connect-onboarding/internal/errors"
	"github.com/jrsteele09/connect-onboarding/sessions"
)

const keyPrefix = "session:"

var _ sessions.Repo = (*Repo)(nil)

type Repo struct {
	client redis.UniversalClient
	now    func() time.Time
}

func New(client redis.UniversalClient) *Repo {
	return &Repo{client: client, now: time.Now}
}

// Dial connects to addr and checks the connection.
func Dial(ctx context.Context, addr string) (*Repo, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("[redisrepo Dial] ping %s: %w", addr, err)
	}
	return New(client), nil
}

func (r *Repo) Close() error {
	return r.client.Close()
}

// Upsert stores the session with a TTL matching its expiry.
func (r *Repo) Upsert(ctx context.Context, session *sessions.Session) error {
	if session == nil || session.ID == "" {
		return fmt.Errorf("[redisrepo Upsert] session id is required: %w", apperrors.ErrInvalidInput)
	}
	ttl := session.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return apperrors.ErrSessionExpired
	}
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("[redisrepo Upsert] encode: %w", err)
	}
	if err := r.client.Set(ctx, keyPrefix+session.ID, data, ttl).Err(); err != nil {
		return fmt.Errorf("[redisrepo Upsert] %w", err)
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, sessionID string) (*sessions.Session, error) {
	if sessionID == "" {
		return nil, apperrors.ErrSessionNotFound
	}
	data, err := r.client.Get(ctx, keyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, apperrors.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("[redisrepo Get] %w", err)
	}
	var session sessions.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("[redisrepo Get] decode: %w", err)
	}
	return &session, nil
}

func (r *Repo) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, keyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("[redisrepo Delete] %w", err)
	}
	return nil
}
