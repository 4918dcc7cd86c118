package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/plastinin/doctext/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisStore(client, ttl), mr
}

func TestRedisStore_PutGetRemove(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestRedisStore(t, time.Hour)

	require.NoError(t, s.Put(ctx, 7, &domain.ExtractionResult{Text: "первый", Source: domain.FileKindPDF}))
	require.NoError(t, s.Put(ctx, 7, &domain.ExtractionResult{Text: "второй", Source: domain.FileKindImage}))

	got, err := s.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "второй", got.Text)
	assert.Equal(t, domain.FileKindImage, got.Source)
	assert.Equal(t, int64(7), got.OwnerID)

	assert.True(t, mr.Exists("doctext:session:7"))
	assert.Equal(t, time.Hour, mr.TTL("doctext:session:7"))

	require.NoError(t, s.Remove(ctx, 7))
	_, err = s.Get(ctx, 7)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestRedisStore_Missing(t *testing.T) {
	s, _ := newTestRedisStore(t, time.Hour)

	_, err := s.Get(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestRedisStore_Expiration(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestRedisStore(t, time.Minute)

	require.NoError(t, s.Put(ctx, 1, &domain.ExtractionResult{Text: "x"}))
	mr.FastForward(2 * time.Minute)

	_, err := s.Get(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestRedisStore_CorruptedValue(t *testing.T) {
	s, mr := newTestRedisStore(t, time.Minute)
	require.NoError(t, mr.Set("doctext:session:3", "{not json"))

	_, err := s.Get(context.Background(), 3)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrSessionNotFound)
}
