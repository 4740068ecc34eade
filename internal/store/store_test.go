package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func setupStore(t *testing.T) *RedisStore {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client)
}

func TestRedisStoreGetAbsentKey(t *testing.T) {
	kv := setupStore(t)

	value, ok, err := kv.Get(context.Background(), KeyToken)

	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, value)
}

func TestRedisStoreSetOverwrites(t *testing.T) {
	kv := setupStore(t)
	c := context.Background()

	assert.NoError(t, kv.Set(c, KeyCart, "[]"))
	assert.NoError(t, kv.Set(c, KeyCart, `[{"productId":1}]`))

	value, ok, err := kv.Get(c, KeyCart)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.EqualValues(t, `[{"productId":1}]`, value)
}

func TestRedisStoreDelRemovesAllKeys(t *testing.T) {
	kv := setupStore(t)
	c := context.Background()

	assert.NoError(t, kv.Set(c, KeyToken, "token"))
	assert.NoError(t, kv.Set(c, KeyUser, `{"id":1}`))
	assert.NoError(t, kv.Set(c, KeyRememberMe, "true"))

	assert.NoError(t, kv.Del(c, KeyToken, KeyUser, KeyRememberMe))

	for _, key := range []string{KeyToken, KeyUser, KeyRememberMe} {
		_, ok, err := kv.Get(c, key)
		assert.NoError(t, err)
		assert.False(t, ok)
	}
}
