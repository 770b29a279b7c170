// Package session keeps each visitor's selected navigation section. State is
// keyed by an opaque cookie so concurrent visitors never share it.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Zachkp/portfolio/internal/navigation"
)

// ErrNotFound is returned when a session has no stored section or it expired.
var ErrNotFound = errors.New("session not found")

// Store persists the selected section per session ID.
type Store interface {
	Load(ctx context.Context, id string) (navigation.Section, error)
	Save(ctx context.Context, id string, section navigation.Section, ttl time.Duration) error
}

type memoryEntry struct {
	section   navigation.Section
	expiresAt time.Time
}

// MemoryStore is a process-local Store. Expired entries are pruned lazily on
// access and in bulk by Prune.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Load(_ context.Context, id string) (navigation.Section, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return navigation.Initial, ErrNotFound
	}
	if s.now().After(e.expiresAt) {
		delete(s.entries, id)
		return navigation.Initial, ErrNotFound
	}
	return e.section, nil
}

func (s *MemoryStore) Save(_ context.Context, id string, section navigation.Section, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[id] = memoryEntry{section: section, expiresAt: s.now().Add(ttl)}
	return nil
}

// Prune drops every expired entry and reports how many were removed.
func (s *MemoryStore) Prune() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

// Len reports the number of stored sessions, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

const redisKeyPrefix = "portfolio:session:"

// RedisStore keeps sessions in Redis so several server instances can share
// them.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Load(ctx context.Context, id string) (navigation.Section, error) {
	raw, err := s.client.Get(ctx, redisKeyPrefix+id).Result()
	if errors.Is(err, redis.Nil) {
		return navigation.Initial, ErrNotFound
	}
	if err != nil {
		return navigation.Initial, fmt.Errorf("redis get session: %w", err)
	}

	n, err := strconv.Atoi(raw)
	if err != nil || !navigation.Section(n).Valid() {
		return navigation.Initial, ErrNotFound
	}
	return navigation.Section(n), nil
}

func (s *RedisStore) Save(ctx context.Context, id string, section navigation.Section, ttl time.Duration) error {
	if err := s.client.Set(ctx, redisKeyPrefix+id, strconv.Itoa(int(section)), ttl).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}

const redisPingTimeout = 5 * time.Second

// NewRedisClient connects to addr and verifies the connection.
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}
