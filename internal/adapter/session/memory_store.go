package session

import (
	"context"
	"sync"
	"time"

	"github.com/plastinin/doctext/internal/domain"
	"go.uber.org/zap"
)

const shardCount = 64

type entry struct {
	result    domain.ExtractionResult
	expiresAt time.Time
}

type shard struct {
	mu      sync.RWMutex
	entries map[int64]entry
}

// MemoryStore хранит сессии в памяти процесса.
// Ключи разнесены по шардам, у каждого шарда своя блокировка.
type MemoryStore struct {
	shards [shardCount]*shard
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger
}

// NewMemoryStore создаёт хранилище с временем жизни записи ttl
func NewMemoryStore(ttl time.Duration, logger *zap.Logger) *MemoryStore {
	s := &MemoryStore{
		ttl:    ttl,
		now:    time.Now,
		logger: logger,
	}
	for i := range s.shards {
		s.shards[i] = &shard{entries: make(map[int64]entry)}
	}
	return s
}

func (s *MemoryStore) shardFor(ownerID int64) *shard {
	h := uint64(ownerID) * 0x9E3779B97F4A7C15
	return s.shards[h>>58]
}

// Put перезаписывает сессию пользователя
func (s *MemoryStore) Put(_ context.Context, ownerID int64, result *domain.ExtractionResult) error {
	sh := s.shardFor(ownerID)
	e := entry{result: *result, expiresAt: s.now().Add(s.ttl)}
	e.result.OwnerID = ownerID

	sh.mu.Lock()
	sh.entries[ownerID] = e
	sh.mu.Unlock()
	return nil
}

// Get возвращает копию сессии или ErrSessionNotFound
func (s *MemoryStore) Get(_ context.Context, ownerID int64) (*domain.ExtractionResult, error) {
	sh := s.shardFor(ownerID)

	sh.mu.RLock()
	e, ok := sh.entries[ownerID]
	sh.mu.RUnlock()

	if !ok || !s.now().Before(e.expiresAt) {
		return nil, domain.ErrSessionNotFound
	}

	result := e.result
	return &result, nil
}

// Remove удаляет сессию пользователя
func (s *MemoryStore) Remove(_ context.Context, ownerID int64) error {
	sh := s.shardFor(ownerID)

	sh.mu.Lock()
	delete(sh.entries, ownerID)
	sh.mu.Unlock()
	return nil
}

// Sweep удаляет просроченные записи и возвращает их количество
func (s *MemoryStore) Sweep() int {
	now := s.now()
	removed := 0

	for _, sh := range s.shards {
		sh.mu.Lock()
		for id, e := range sh.entries {
			if !now.Before(e.expiresAt) {
				delete(sh.entries, id)
				removed++
			}
		}
		sh.mu.Unlock()
	}

	return removed
}

// Len число записей, включая ещё не вычищенные просроченные
func (s *MemoryStore) Len() int {
	n := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		n += len(sh.entries)
		sh.mu.RUnlock()
	}
	return n
}

// Run периодически вычищает просроченные сессии до отмены ctx
func (s *MemoryStore) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := s.Sweep(); removed > 0 {
				s.logger.Debug("Expired sessions removed", zap.Int("count", removed))
			}
		}
	}
}
