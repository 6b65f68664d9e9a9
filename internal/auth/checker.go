package auth

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

var _ Checker = (*SessionChecker)(nil)

type Checker interface {
	GetSession(ctx context.Context, token string) (*Session, error)
}

type SessionChecker struct {
	ttl         time.Duration
	redisClient *redis.Client
}

func NewSessionChecker(ttl time.Duration, redisClient *redis.Client) *SessionChecker {
	return &SessionChecker{
		ttl:         ttl,
		redisClient: redisClient,
	}
}

// GetSession returns ErrSessionNotFound for unknown and expired tokens.
func (c *SessionChecker) GetSession(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrSessionNotFound
	}

	session, err := readSession(ctx, c.redisClient, token)
	if err != nil {
		return nil, err
	}

	if time.Since(session.CreatedAt) > c.ttl {
		return nil, ErrSessionNotFound
	}

	return session, nil
}

func (c *SessionChecker) IsLogged(ctx context.Context, token string) (bool, error) {
	_, err := c.GetSession(ctx, token)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

type sessionCtxKey struct{}

func ContextWithSession(ctx context.Context, session *Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey{}, session)
}

// SessionFromContext returns the session the auth middleware attached, or nil.
func SessionFromContext(ctx context.Context) *Session {
	session, _ := ctx.Value(sessionCtxKey{}).(*Session)
	return session
}
