package cart

import (
	"context"
	"encoding/json"
	"time"

	"github.com/tgcretail/pos-backend/pkg/errors"
	"github.com/tgcretail/pos-backend/pkg/redis"
)

// RedisStore keeps carts in Redis so sessions survive process restarts and
// can be shared across replicas.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore wires a Redis-backed cart store with the given session TTL.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) (*Cart, error) {
	raw, err := s.client.Get(ctx, s.client.CartKey(sessionID))
	if err != nil {
		if redis.IsNil(err) {
			return nil, nil
		}
		return nil, errors.Wrap(errors.CodeDependency, err, "reading cart session")
	}

	var cart Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "decoding cart session")
	}
	return &cart, nil
}

func (s *RedisStore) Save(ctx context.Context, cart *Cart) error {
	payload, err := json.Marshal(cart)
	if err != nil {
		return errors.Wrap(errors.CodeInternal, err, "encoding cart session")
	}
	if err := s.client.Set(ctx, s.client.CartKey(cart.SessionID), payload, s.ttl); err != nil {
		return errors.Wrap(errors.CodeDependency, err, "writing cart session")
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.client.CartKey(sessionID)); err != nil {
		return errors.Wrap(errors.CodeDependency, err, "deleting cart session")
	}
	return nil
}
