package threadlock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	keyPrefix    = "jale:lock:"
	DefaultTTL   = 30 * time.Second
	pollInterval = 50 * time.Millisecond
)

// releaseScript deletes the lock only when the caller still owns it.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// extendScript resets the TTL only when the caller still owns the lock.
var extendScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// Redis locks a thread across processes with SET NX PX. A held lock is extended every
// third of its TTL until released, so the TTL only bounds how long a crashed holder
// can keep a thread blocked.
type Redis struct {
	client  redis.UniversalClient
	ttl     time.Duration
	timeout time.Duration
	logger  *zap.Logger
}

func NewRedis(client redis.UniversalClient, ttl, timeout time.Duration, logger *zap.Logger) *Redis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Redis{client: client, ttl: ttl, timeout: timeout, logger: logger}
}

func (r *Redis) Lock(ctx context.Context, key string) (func(), error) {
	lockKey := keyPrefix + key
	token := uuid.NewString()

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		ok, err := r.client.SetNX(ctx, lockKey, token, r.ttl).Result()
		// Errors caused by ctx itself are reported by the select below.
		if err != nil && ctx.Err() == nil {
			return nil, fmt.Errorf("acquiring %s: %w", lockKey, err)
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, fmt.Errorf("%s: %w", key, ErrLockTimeout)
			}
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	go r.keepAlive(lockKey, token, stop, done)

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			<-done

			// The caller's ctx may already be done when it releases.
			releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := releaseScript.Run(releaseCtx, r.client, []string{lockKey}, token).Err(); err != nil {
				r.logger.Warn("releasing thread lock", zap.String("key", lockKey), zap.Error(err))
			}
		})
	}, nil
}

func (r *Redis) keepAlive(lockKey, token string, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	interval := max(r.ttl/3, time.Millisecond)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		ctx, cancel := context.WithTimeout(context.Background(), interval)
		extended, err := extendScript.Run(ctx, r.client, []string{lockKey}, token, r.ttl.Milliseconds()).Int()
		cancel()
		if err != nil {
			r.logger.Warn("extending thread lock", zap.String("key", lockKey), zap.Error(err))
			continue
		}
		if extended == 0 {
			r.logger.Warn("thread lock lost", zap.String("key", lockKey))
			return
		}
	}
}

// NewRedisClient parses url, applies an optional password and verifies connectivity.
func NewRedisClient(ctx context.Context, url, password string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	if password != "" {
		opts.Password = password
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}
