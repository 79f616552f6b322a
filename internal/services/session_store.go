package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/thermalsanctuary/booking-backend/internal/wizard"
)

// ErrSessionNotFound is returned for unknown or expired wizard sessions
var ErrSessionNotFound = errors.New("wizard session not found")

// WizardSession is a hosted booking attempt
type WizardSession struct {
	ID        string       `json:"id"`
	State     wizard.State `json:"state"`
	CreatedAt time.Time    `json:"created_at"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// SessionStore keeps wizard sessions between requests. Lock guards a
// session while an action (and any submission it triggers) runs; the
// returned token must be handed back to Unlock, which only releases the
// lock while that token still holds it.
type SessionStore interface {
	Get(ctx context.Context, id string) (*WizardSession, error)
	Save(ctx context.Context, s *WizardSession, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
	Lock(ctx context.Context, id string, ttl time.Duration) (token string, ok bool, err error)
	Unlock(ctx context.Context, id, token string) error
	// Sweep drops expired sessions and returns how many were removed
	Sweep(ctx context.Context, now time.Time) (int, error)
}

// ============================================================================
// MEMORY
// ============================================================================

// MemorySessionStore keeps sessions in process memory
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]WizardSession
	locks    map[string]memoryLock
	now      func() time.Time
}

type memoryLock struct {
	token string
	until time.Time
}

// NewMemorySessionStore creates an empty in-memory store
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]WizardSession),
		locks:    make(map[string]memoryLock),
		now:      time.Now,
	}
}

func (m *MemorySessionStore) Get(ctx context.Context, id string) (*WizardSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok || !m.now().Before(s.ExpiresAt) {
		return nil, ErrSessionNotFound
	}
	s.State = s.State.Clone()
	return &s, nil
}

func (m *MemorySessionStore) Save(ctx context.Context, s *WizardSession, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	cp.State = s.State.Clone()
	cp.ExpiresAt = m.now().Add(ttl)
	s.ExpiresAt = cp.ExpiresAt
	m.sessions[s.ID] = cp
	return nil
}

func (m *MemorySessionStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	delete(m.locks, id)
	return nil
}

func (m *MemorySessionStore) Lock(ctx context.Context, id string, ttl time.Duration) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	if held, ok := m.locks[id]; ok && now.Before(held.until) {
		return "", false, nil
	}
	token := uuid.New().String()
	m.locks[id] = memoryLock{token: token, until: now.Add(ttl)}
	return token, true, nil
}

func (m *MemorySessionStore) Unlock(ctx context.Context, id, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if held, ok := m.locks[id]; ok && held.token == token {
		delete(m.locks, id)
	}
	return nil
}

func (m *MemorySessionStore) Sweep(ctx context.Context, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, s := range m.sessions {
		if !now.Before(s.ExpiresAt) {
			delete(m.sessions, id)
			delete(m.locks, id)
			removed++
		}
	}
	for id, held := range m.locks {
		if !now.Before(held.until) {
			delete(m.locks, id)
		}
	}
	return removed, nil
}

// Len returns the number of stored sessions, expired ones included
func (m *MemorySessionStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// ============================================================================
// REDIS
// ============================================================================

// RedisClient is the subset of *redis.Client the session store uses
type RedisClient interface {
	redis.Scripter
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

const (
	redisSessionPrefix = "wizard:session:"
	redisLockPrefix    = "wizard:lock:"
)

// unlockScript deletes the lock only while it still carries the caller's token
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisSessionStore keeps sessions in Redis so every replica sees them.
// Expiry is left to key TTLs.
type RedisSessionStore struct {
	client RedisClient
}

// NewRedisSessionStore creates a Redis-backed store
func NewRedisSessionStore(client RedisClient) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func (r *RedisSessionStore) Get(ctx context.Context, id string) (*WizardSession, error) {
	data, err := r.client.Get(ctx, redisSessionPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load wizard session: %w", err)
	}
	var s WizardSession
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode wizard session: %w", err)
	}
	return &s, nil
}

func (r *RedisSessionStore) Save(ctx context.Context, s *WizardSession, ttl time.Duration) error {
	s.ExpiresAt = time.Now().Add(ttl)
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode wizard session: %w", err)
	}
	if err := r.client.Set(ctx, redisSessionPrefix+s.ID, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save wizard session: %w", err)
	}
	return nil
}

func (r *RedisSessionStore) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, redisSessionPrefix+id, redisLockPrefix+id).Err()
}

// Lock takes the session lock with SETNX; the TTL frees it if a replica dies mid-action
func (r *RedisSessionStore) Lock(ctx context.Context, id string, ttl time.Duration) (string, bool, error) {
	token := uuid.New().String()
	ok, err := r.client.SetNX(ctx, redisLockPrefix+id, token, ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("failed to lock wizard session: %w", err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

func (r *RedisSessionStore) Unlock(ctx context.Context, id, token string) error {
	if err := unlockScript.Run(ctx, r.client, []string{redisLockPrefix + id}, token).Err(); err != nil {
		return fmt.Errorf("failed to unlock wizard session: %w", err)
	}
	return nil
}

func (r *RedisSessionStore) Sweep(ctx context.Context, now time.Time) (int, error) {
	return 0, nil
}
