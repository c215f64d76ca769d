package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	pkgerrors "github.com/angelmondragon/superbox-backend/pkg/errors"
	"github.com/angelmondragon/superbox-backend/pkg/redis"
)

// SessionStore persists checkout sessions between requests.
type SessionStore interface {
	Load(ctx context.Context, tenant, sessionID string) (*Session, error)
	Save(ctx context.Context, session *Session) error
}

type redisSessionStore struct {
	kv  redis.KV
	ttl time.Duration
}

func NewRedisSessionStore(kv redis.KV, ttl time.Duration) (SessionStore, error) {
	if kv == nil {
		return nil, errors.New("redis client required")
	}
	if ttl <= 0 {
		return nil, errors.New("session ttl must be positive")
	}
	return &redisSessionStore{kv: kv, ttl: ttl}, nil
}

// Load returns CodeNotFound, with a redirect hint, for unknown or expired sessions.
func (s *redisSessionStore) Load(ctx context.Context, tenant, sessionID string) (*Session, error) {
	raw, err := s.kv.Get(ctx, s.kv.CheckoutSessionKey(tenant, sessionID))
	if errors.Is(err, redis.ErrNil) {
		return nil, sessionNotFound()
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load checkout session")
	}
	var session Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode checkout session")
	}
	return &session, nil
}

func (s *redisSessionStore) Save(ctx context.Context, session *Session) error {
	if session == nil {
		return errors.New("session required")
	}
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal checkout session: %w", err)
	}
	if err := s.kv.Set(ctx, s.kv.CheckoutSessionKey(session.Tenant, session.ID), string(payload), s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save checkout session")
	}
	return nil
}

func sessionNotFound() error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "checkout session not found").
		WithDetails(map[string]string{"redirect": "back"})
}
