package lock

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"campusevents/internal/domain"
)

const keyPrefix = "lock:admission:"

// Compare-and-delete so a holder whose TTL lapsed cannot free a successor's lock.
const releaseScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

// NewRedisClient connects to url (a redis:// URL or host:port) and pings it.
func NewRedisClient(ctx context.Context, url string, logger *slog.Logger) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		opts = &redis.Options{Addr: url}
	}
	opts.PoolSize = 50
	opts.MinIdleConns = 5
	opts.MaxRetries = 2

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	logger.Info("connected to redis", "addr", opts.Addr)
	return client, nil
}

// RedisLocker is a domain.AdmissionLocker backed by SET NX with a per-holder token.
type RedisLocker struct {
	client   redis.Cmdable
	ttl      time.Duration
	wait     time.Duration
	poll     time.Duration
	newToken func() string
}

// NewRedisLocker returns a locker whose locks expire after ttl. Acquire polls
// for up to wait before reporting contention.
func NewRedisLocker(client redis.Cmdable, ttl, wait time.Duration) *RedisLocker {
	return &RedisLocker{
		client:   client,
		ttl:      ttl,
		wait:     wait,
		poll:     10 * time.Millisecond,
		newToken: uuid.NewString,
	}
}

func (l *RedisLocker) Acquire(ctx context.Context, eventID string) (func(context.Context) error, error) {
	key := keyPrefix + eventID
	token := l.newToken()
	deadline := time.Now().Add(l.wait)
	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("set admission lock: %w", err)
		}
		if ok {
			return func(ctx context.Context) error { return l.release(ctx, key, token) }, nil
		}
		if !time.Now().Before(deadline) {
			return nil, domain.ErrConcurrencyConflict
		}
		select {
		case <-ctx.Done():
			return nil, domain.ErrConcurrencyConflict
		case <-time.After(l.poll):
		}
	}
}

func (l *RedisLocker) release(ctx context.Context, key, token string) error {
	if err := l.client.Eval(ctx, releaseScript, []string{key}, token).Err(); err != nil {
		return fmt.Errorf("release admission lock: %w", err)
	}
	return nil
}
