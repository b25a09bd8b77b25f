package caching

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wmsconsole/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type redisStore struct {
	client  *redis.Client
	idleTTL time.Duration
}

// NewRedisClient parses addr (host:port or a redis:// URL) and pings once
func NewRedisClient(addr, password string, db int) *redis.Client {
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		parsedAddr = strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logrus.WithError(err).WithField("addr", parsedAddr).Warn("redis ping failed on initialization")
	} else {
		logrus.WithField("addr", parsedAddr).Debug("redis connection established")
	}
	return client
}

// NewRedisStore keeps each session in a hash that expires after idleTTL
// without access. A zero idleTTL keeps sessions until logout.
func NewRedisStore(client *redis.Client, idleTTL time.Duration) CredentialStore {
	return &redisStore{client: client, idleTTL: idleTTL}
}

func sessionKey(sid string) string {
	return fmt.Sprintf("wms:session:%s", sid)
}

func (r *redisStore) Set(ctx context.Context, sid string, session *models.Session) error {
	key := sessionKey(sid)
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, key)
	values := make(map[string]interface{}, 4)
	for name, value := range sessionFields(session) {
		values[name] = value
	}
	pipe.HSet(ctx, key, values)
	if r.idleTTL > 0 {
		pipe.Expire(ctx, key, r.idleTTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

func (r *redisStore) Get(ctx context.Context, sid string) (*models.Session, error) {
	key := sessionKey(sid)
	fields, err := r.client.HGetAll(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}
	if r.idleTTL > 0 {
		r.client.Expire(ctx, key, r.idleTTL)
	}
	return sessionFromFields(fields), nil
}

func (r *redisStore) Clear(ctx context.Context, sid string) error {
	return r.client.Del(ctx, sessionKey(sid)).Err()
}

func (r *redisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

type redisRateLimiter struct {
	client *redis.Client
}

func NewRedisRateLimiter(client *redis.Client) RateLimiter {
	return &redisRateLimiter{client: client}
}

func (r *redisRateLimiter) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	cacheKey := fmt.Sprintf("wms:ratelimit:%s", key)
	count, err := r.client.Incr(ctx, cacheKey).Result()
	if err != nil {
		return true, err
	}

	// first hit opens the window
	if count == 1 {
		r.client.Expire(ctx, cacheKey, window)
	}

	return count > int64(limit), nil
}

func (r *redisRateLimiter) Reset(ctx context.Context, key string) error {
	return r.client.Del(ctx, fmt.Sprintf("wms:ratelimit:%s", key)).Err()
}
