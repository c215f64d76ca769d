package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/superbox-backend/pkg/redis"
)

// Store persists carts per storefront and buyer.
type Store interface {
	Load(ctx context.Context, tenant, buyerEmail string) (State, error)
	Save(ctx context.Context, tenant, buyerEmail string, state State) error
}

type redisStore struct {
	kv  redis.KV
	ttl time.Duration
}

// NewRedisStore keeps carts as JSON documents that expire after ttl of inactivity.
func NewRedisStore(kv redis.KV, ttl time.Duration) (Store, error) {
	if kv == nil {
		return nil, errors.New("redis client required")
	}
	return &redisStore{kv: kv, ttl: ttl}, nil
}

// Load returns an empty state when the buyer has no cart yet.
func (s *redisStore) Load(ctx context.Context, tenant, buyerEmail string) (State, error) {
	raw, err := s.kv.Get(ctx, s.kv.CartKey(tenant, buyerEmail))
	if errors.Is(err, redis.ErrNil) {
		return State{Quantities: map[string]int{}}, nil
	}
	if err != nil {
		return State{}, fmt.Errorf("redis get cart: %w", err)
	}
	var state State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return State{}, fmt.Errorf("unmarshal cart: %w", err)
	}
	if state.Quantities == nil {
		state.Quantities = map[string]int{}
	}
	return state, nil
}

func (s *redisStore) Save(ctx context.Context, tenant, buyerEmail string, state State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	if err := s.kv.Set(ctx, s.kv.CartKey(tenant, buyerEmail), string(payload), s.ttl); err != nil {
		return fmt.Errorf("redis set cart: %w", err)
	}
	return nil
}
