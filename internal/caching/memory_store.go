package caching

import (
	"context"
	"sync"
	"time"

	"wmsconsole/internal/models"

	"github.com/jellydator/ttlcache/v3"
	"golang.org/x/time/rate"
)

// MemoryStore is the single-instance credential store. Every Get slides the
// idle TTL of the entry; idle entries are dropped by EvictIdle, which the
// background scheduler calls.
type MemoryStore struct {
	cache *ttlcache.Cache[string, map[string]string]
}

// NewMemoryStore builds the store. A zero idleTTL keeps sessions until cleared.
func NewMemoryStore(idleTTL time.Duration) *MemoryStore {
	return &MemoryStore{
		cache: ttlcache.New[string, map[string]string](
			ttlcache.WithTTL[string, map[string]string](idleTTL),
		),
	}
}

func (m *MemoryStore) Set(_ context.Context, sid string, session *models.Session) error {
	m.cache.Set(sid, sessionFields(session), ttlcache.DefaultTTL)
	return nil
}

func (m *MemoryStore) Get(_ context.Context, sid string) (*models.Session, error) {
	item := m.cache.Get(sid)
	if item == nil {
		return nil, nil
	}
	return sessionFromFields(item.Value()), nil
}

func (m *MemoryStore) Clear(_ context.Context, sid string) error {
	m.cache.Delete(sid)
	return nil
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

// EvictIdle removes every session idle for longer than the TTL and returns how many
func (m *MemoryStore) EvictIdle(_ context.Context) int {
	before := m.cache.Len()
	m.cache.DeleteExpired()
	if evicted := before - m.cache.Len(); evicted > 0 {
		return evicted
	}
	return 0
}

// Len returns the number of stored sessions, expired ones included until evicted
func (m *MemoryStore) Len() int {
	return m.cache.Len()
}

// MemoryRateLimiter is the in-process RateLimiter: one token bucket per key
// holding limit attempts, refilled over window
type MemoryRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	now      func() time.Time
}

func NewMemoryRateLimiter() *MemoryRateLimiter {
	return &MemoryRateLimiter{limiters: make(map[string]*rate.Limiter), now: time.Now}
}

func (l *MemoryRateLimiter) IsRateLimited(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	if limit <= 0 || window <= 0 {
		return false, nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	limiter, ok := l.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(window/time.Duration(limit)), limit)
		l.limiters[key] = limiter
	}
	return !limiter.AllowN(l.now(), 1), nil
}

func (l *MemoryRateLimiter) Reset(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.limiters, key)
	return nil
}

// Prune drops buckets that have refilled completely, they hold no history
func (l *MemoryRateLimiter) Prune() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	pruned := 0
	for key, limiter := range l.limiters {
		if limiter.TokensAt(now) >= float64(limiter.Burst()) {
			delete(l.limiters, key)
			pruned++
		}
	}
	return pruned
}
