package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// KVStore is the persistence contract the storefront needs: get returns
// absent-or-value, set overwrites, del deletes. Last write wins.
type KVStore interface {
	Get(c context.Context, key string) (value string, ok bool, err error)
	Set(c context.Context, key string, value string) error
	Del(c context.Context, keys ...string) error
}

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(c context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(c, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed getting key=%s with error=%w", key, err)
	}
	return value, true, nil
}

func (s *RedisStore) Set(c context.Context, key string, value string) error {
	if err := s.client.Set(c, key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed setting key=%s with error=%w", key, err)
	}
	return nil
}

func (s *RedisStore) Del(c context.Context, keys ...string) error {
	if err := s.client.Del(c, keys...).Err(); err != nil {
		return fmt.Errorf("failed deleting keys=%v with error=%w", keys, err)
	}
	return nil
}
