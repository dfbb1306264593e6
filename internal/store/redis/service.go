package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/vianime/internal/domain"
)

const (
	// DefaultSessionTTL is how long a session token stays valid (30 days)
	DefaultSessionTTL = 30 * 24 * time.Hour
)

// Store is the remote replica: user documents, feedback, vianimes and auth.
type Store struct {
	client     *redis.Client
	sessionTTL time.Duration
}

// NewStore creates a new Redis store
func NewStore(client *redis.Client, sessionTTL time.Duration) *Store {
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}
	return &Store{
		client:     client,
		sessionTTL: sessionTTL,
	}
}

// Ping checks the connection to Redis
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// unavailable tags transport failures so callers can show a retry notice.
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrRemoteUnavailable, err)
}

// isNil reports a missing key or field.
func isNil(err error) bool {
	return errors.Is(err, redis.Nil)
}
