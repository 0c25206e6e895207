// Package redis is the Redis Store backend. Records expire after the
// configured TTL, refreshed on every write.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/utafrali/RentalGo/pkg/database"
	apperrors "github.com/utafrali/RentalGo/pkg/errors"
)

const keyPrefix = "rental:store:"

// Store implements repository.Store using Redis.
type Store struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewStore creates a Redis-backed store whose records live for ttl.
func NewStore(client redis.UniversalClient, ttl time.Duration) *Store {
	return &Store{
		client: client,
		ttl:    ttl,
	}
}

func storeKey(visitorID, key string) string {
	return keyPrefix + visitorID + ":" + key
}

// Get reads the value of key for visitorID.
func (s *Store) Get(ctx context.Context, visitorID, key string) (_ string, err error) {
	k := storeKey(visitorID, key)
	ctx, end := database.TraceOp(ctx, "redis", "GET", k)
	defer func() { end(err) }()

	val, err := s.client.Get(ctx, k).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperrors.NotFound("store key", key)
		}
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, nil
}

// Set writes value under key for visitorID with the store TTL.
func (s *Store) Set(ctx context.Context, visitorID, key, value string) (err error) {
	k := storeKey(visitorID, key)
	ctx, end := database.TraceOp(ctx, "redis", "SET", k)
	defer func() { end(err) }()

	if err := s.client.Set(ctx, k, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return database.RedisChecker(s.client)(ctx)
}
