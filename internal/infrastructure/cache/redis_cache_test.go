package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCache_GetMiss(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewRedisCache(client, "leadmine:")

	mock.ExpectGet("leadmine:stats").RedisNil()

	val, found, err := c.Get(context.Background(), "stats")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, val)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_GetHit(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewRedisCache(client, "leadmine:")

	mock.ExpectGet("leadmine:stats").SetVal(`{"total_businesses":3}`)

	val, found, err := c.Get(context.Background(), "stats")
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `{"total_businesses":3}`, string(val))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_GetError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewRedisCache(client, "")

	mock.ExpectGet("stats").SetErr(errors.New("connection refused"))

	_, found, err := c.Get(context.Background(), "stats")
	assert.Error(t, err)
	assert.False(t, found)
}

func TestRedisCache_SetYDel(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewRedisCache(client, "leadmine:")

	mock.ExpectSet("leadmine:stats", []byte("x"), time.Minute).SetVal("OK")
	mock.ExpectDel("leadmine:stats", "leadmine:categories").SetVal(2)

	require.NoError(t, c.Set(context.Background(), "stats", []byte("x"), time.Minute))
	require.NoError(t, c.Del(context.Background(), "stats", "categories"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNop(t *testing.T) {
	var c Nop
	_, found, err := c.Get(context.Background(), "x")
	assert.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, c.Set(context.Background(), "x", nil, time.Second))
}
