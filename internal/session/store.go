package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nazeerbeaig7/bus-monitor-system/internal/crypto"
	"github.com/nazeerbeaig7/bus-monitor-system/internal/model"
)

// ErrNotFound is returned for unknown or expired session tokens.
var ErrNotFound = errors.New("session not found")

const keyPrefix = "session:"

// Store keeps identity contexts in redis, keyed by an opaque token carried
// in a client cookie. Lookups renew the TTL, giving the sliding-expiry
// behavior of the session transport it replaces.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

// Create stores the identity and returns the opaque token for the cookie.
func (s *Store) Create(ctx context.Context, identity model.Identity) (string, error) {
	token, err := crypto.NewSessionToken()
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(identity)
	if err != nil {
		return "", err
	}
	if err := s.client.Set(ctx, keyPrefix+token, data, s.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Get resolves a token to its identity and slides the expiry forward.
func (s *Store) Get(ctx context.Context, token string) (model.Identity, error) {
	data, err := s.client.Get(ctx, keyPrefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.Identity{}, ErrNotFound
		}
		return model.Identity{}, err
	}
	var identity model.Identity
	if err := json.Unmarshal(data, &identity); err != nil {
		return model.Identity{}, err
	}
	_ = s.client.Expire(ctx, keyPrefix+token, s.ttl).Err()
	return identity, nil
}

// Destroy removes the session unconditionally.
func (s *Store) Destroy(ctx context.Context, token string) error {
	return s.client.Del(ctx, keyPrefix+token).Err()
}
