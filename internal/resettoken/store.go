// Package resettoken keeps single-use password reset tokens.
package resettoken

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/gofrs/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "reset:"

// ErrNotFound is returned for unknown, expired or already consumed tokens.
var ErrNotFound = errors.New("reset token not found")

// Store saves a token for a user and hands it back exactly once.
type Store interface {
	Save(ctx context.Context, token string, userID uint64, ttl time.Duration) error
	Consume(ctx context.Context, token string) (uint64, error)
}

// NewToken returns a random opaque token.
func NewToken() (string, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return "", fmt.Errorf("uuid: %w", err)
	}
	return id.String(), nil
}

type entry struct {
	userID    uint64
	expiresAt time.Time
}

// MemoryStore keeps tokens in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Save(_ context.Context, token string, userID uint64, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, k)
		}
	}
	s.entries[token] = entry{userID: userID, expiresAt: now.Add(ttl)}
	return nil
}

func (s *MemoryStore) Consume(_ context.Context, token string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[token]
	if !ok {
		return 0, ErrNotFound
	}
	delete(s.entries, token)
	if !s.now().Before(e.expiresAt) {
		return 0, ErrNotFound
	}
	return e.userID, nil
}

// RedisStore keeps tokens in Redis with a TTL so several API instances share them.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Save(ctx context.Context, token string, userID uint64, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, keyPrefix+token, strconv.FormatUint(userID, 10), ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Consume uses GETDEL so two concurrent resets cannot both succeed.
func (s *RedisStore) Consume(ctx context.Context, token string) (uint64, error) {
	val, err := s.rdb.GetDel(ctx, keyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("redis getdel: %w", err)
	}
	id, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt reset token value: %w", err)
	}
	return id, nil
}
