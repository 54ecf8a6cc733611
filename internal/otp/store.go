package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
)

// TTL is how long a password-reset code stays valid. Expiry is enforced
// server-side by Redis, so stale entries are evicted rather than leaked,
// and multiple service instances see the same codes.
const TTL = 5 * time.Minute

var ErrCodeInvalid = errors.New("otp expired or invalid")

// Store issues and checks one-time password-reset codes keyed by email.
type Store interface {
	Issue(ctx context.Context, email string) (string, error)
	Verify(ctx context.Context, email, code string) error
	Consume(ctx context.Context, email, code string) error
}

// RedisStore keeps codes in Redis with a server-side TTL.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore constructs a RedisStore.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Issue generates a 6-digit code and stores it under the email for TTL.
// Re-issuing replaces any previous code.
func (s *RedisStore) Issue(ctx context.Context, email string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", err
	}
	if err := s.client.Set(ctx, key(email), code, TTL).Err(); err != nil {
		return "", err
	}
	return code, nil
}

// Verify checks the code without consuming it.
func (s *RedisStore) Verify(ctx context.Context, email, code string) error {
	stored, err := s.client.Get(ctx, key(email)).Result()
	if errors.Is(err, redis.Nil) {
		return ErrCodeInvalid
	}
	if err != nil {
		return err
	}
	if stored != code {
		return ErrCodeInvalid
	}
	return nil
}

// Consume checks the code and deletes it, making it single-use.
func (s *RedisStore) Consume(ctx context.Context, email, code string) error {
	if err := s.Verify(ctx, email, code); err != nil {
		return err
	}
	return s.client.Del(ctx, key(email)).Err()
}

func key(email string) string {
	return "otp:" + email
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
