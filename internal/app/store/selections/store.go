// internal/app/store/selections/store.go
package selections

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dalemusser/studyvault/internal/app/selection"
	"github.com/redis/go-redis/v9"
)

// DefaultTTL is how long an untouched selection is remembered.
const DefaultTTL = 30 * 24 * time.Hour

const keyPrefix = "studyvault:selection:"

// RedisStore keeps selections in Redis as JSON with a sliding TTL.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedis wraps an existing client. ttl <= 0 uses DefaultTTL.
func NewRedis(rdb *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{rdb: rdb, ttl: ttl}
}

// Load returns the stored selection for id, if any.
func (s *RedisStore) Load(ctx context.Context, id string) (selection.State, bool, error) {
	raw, err := s.rdb.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return selection.State{}, false, nil
	}
	if err != nil {
		return selection.State{}, false, fmt.Errorf("load selection %s: %w", id, err)
	}
	var st selection.State
	if err := json.Unmarshal(raw, &st); err != nil {
		return selection.State{}, false, fmt.Errorf("decode selection %s: %w", id, err)
	}
	return st, true, nil
}

// Save stores st for id and refreshes its TTL.
func (s *RedisStore) Save(ctx context.Context, id string, st selection.State) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode selection %s: %w", id, err)
	}
	if err := s.rdb.Set(ctx, keyPrefix+id, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save selection %s: %w", id, err)
	}
	return nil
}

// Delete forgets id.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("delete selection %s: %w", id, err)
	}
	return nil
}

// Ping checks the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// MemoryStore is the fallback used when no Redis is configured.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]memEntry
	ttl  time.Duration
	now  func() time.Time
}

type memEntry struct {
	state     selection.State
	expiresAt time.Time
}

// NewMemory creates an in-process store. ttl <= 0 uses DefaultTTL.
func NewMemory(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{data: make(map[string]memEntry), ttl: ttl, now: time.Now}
}

func (m *MemoryStore) Load(_ context.Context, id string) (selection.State, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.data[id]
	if !ok || m.now().After(e.expiresAt) {
		return selection.State{}, false, nil
	}
	return e.state, true, nil
}

func (m *MemoryStore) Save(_ context.Context, id string, st selection.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[id] = memEntry{state: st, expiresAt: m.now().Add(m.ttl)}
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, id)
	return nil
}

// Purge drops expired entries and returns how many were removed.
func (m *MemoryStore) Purge() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	n := 0
	for id, e := range m.data {
		if now.After(e.expiresAt) {
			delete(m.data, id)
			n++
		}
	}
	return n
}
