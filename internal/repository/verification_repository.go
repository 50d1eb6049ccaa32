package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrVerificationNotFound is returned when a verification token is unknown,
// already consumed, or past its TTL.
var ErrVerificationNotFound = errors.New("verification token not found")

const verificationKeyPrefix = "verify:"

// VerificationTokenRepository stores one-shot email verification tokens.
type VerificationTokenRepository interface {
	Store(ctx context.Context, token, userID string, ttl time.Duration) error
	Consume(ctx context.Context, token string) (string, error)
}

type verificationTokenRepository struct {
	client *redis.Client
}

// NewVerificationTokenRepository returns a Redis-backed implementation.
// Expiry is delegated to the key TTL.
func NewVerificationTokenRepository(client *redis.Client) VerificationTokenRepository {
	return &verificationTokenRepository{client: client}
}

func (r *verificationTokenRepository) Store(ctx context.Context, token, userID string, ttl time.Duration) error {
	return r.client.Set(ctx, verificationKeyPrefix+token, userID, ttl).Err()
}

// Consume atomically fetches and deletes the token, so a token can verify an
// account at most once.
func (r *verificationTokenRepository) Consume(ctx context.Context, token string) (string, error) {
	userID, err := r.client.GetDel(ctx, verificationKeyPrefix+token).Result()
	if err == redis.Nil {
		return "", ErrVerificationNotFound
	}
	if err != nil {
		return "", err
	}
	return userID, nil
}
