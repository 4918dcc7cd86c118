package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/plastinin/doctext/internal/config"
	"github.com/plastinin/doctext/internal/domain"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "doctext:session:"

// RedisStore хранит сессии в Redis, время жизни задаётся через EX.
// Нужен, когда обновления обрабатывают несколько процессов.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient создаёт клиента и проверяет соединение
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

// NewRedisStore создаёт хранилище поверх готового клиента
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func sessionKey(ownerID int64) string {
	return keyPrefix + strconv.FormatInt(ownerID, 10)
}

// Put перезаписывает сессию одной командой SET, без слияния
func (s *RedisStore) Put(ctx context.Context, ownerID int64, result *domain.ExtractionResult) error {
	r := *result
	r.OwnerID = ownerID

	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := s.client.Set(ctx, sessionKey(ownerID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Get возвращает сессию или ErrSessionNotFound
func (s *RedisStore) Get(ctx context.Context, ownerID int64) (*domain.ExtractionResult, error) {
	payload, err := s.client.Get(ctx, sessionKey(ownerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var result domain.ExtractionResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &result, nil
}

// Remove удаляет сессию
func (s *RedisStore) Remove(ctx context.Context, ownerID int64) error {
	if err := s.client.Del(ctx, sessionKey(ownerID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
