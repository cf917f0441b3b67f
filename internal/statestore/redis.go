package statestore

import (
	"context"
	"encoding/json"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/NixoNetwork/main/internal/redis"
)

// RedisStore is the shared transaction store for horizontally scaled
// deployments. GETDEL makes consumption atomic across instances.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "authstate:",
	}
}

func (s *RedisStore) key(state string) string {
	return s.prefix + state
}

func (s *RedisStore) Put(ctx context.Context, state, codeVerifier string) error {
	data, err := json.Marshal(Transaction{
		CodeVerifier: codeVerifier,
		CreatedAt:    NowFunc(),
	})
	if err != nil {
		return fmt.Errorf("statestore: marshal transaction: %w", err)
	}
	return s.client.Set(ctx, s.key(state), data, TTL).Err()
}

func (s *RedisStore) TakeIfValid(ctx context.Context, state string) (string, error) {
	val, err := s.client.GetDel(ctx, s.key(state)).Result()
	if err == goredis.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}

	var txn Transaction
	if err := json.Unmarshal([]byte(val), &txn); err != nil {
		return "", fmt.Errorf("statestore: unmarshal transaction: %w", err)
	}
	if NowFunc().Sub(txn.CreatedAt) > TTL {
		return "", ErrNotFound
	}
	return txn.CodeVerifier, nil
}
