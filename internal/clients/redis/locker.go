package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/carbonmatch-backend/internal/pkg/logger"
)

// ErrLockNotObtained is returned when another holder kept the lock for the
// whole wait window.
var ErrLockNotObtained = errors.New("lock not obtained")

type Config struct {
	Addr     string
	Password string
	DB       int
	// LockTTL bounds how long a crashed holder can block others.
	LockTTL time.Duration
	// RetryInterval is the pause between attempts while waiting for a lock.
	RetryInterval time.Duration
}

// Locker hands out cross-instance mutexes backed by Redis.
type Locker struct {
	log    *logger.Logger
	rdb    *goredis.Client
	locker *redislock.Client
	ttl    time.Duration
	retry  time.Duration
}

func NewLocker(ctx context.Context, log *logger.Logger, cfg Config) (*Locker, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.Addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 30 * time.Second
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = 100 * time.Millisecond
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &Locker{
		log:    log.With("client", "RedisLocker"),
		rdb:    rdb,
		locker: redislock.New(rdb),
		ttl:    cfg.LockTTL,
		retry:  cfg.RetryInterval,
	}, nil
}

// Lock blocks until key is held, ctx is done, or one TTL has passed.
// The returned func releases the lock.
func (l *Locker) Lock(ctx context.Context, key string) (func(context.Context) error, error) {
	waitCtx, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	lock, err := l.locker.Obtain(waitCtx, key, l.ttl, &redislock.Options{
		RetryStrategy: redislock.LinearBackoff(l.retry),
	})
	if errors.Is(err, redislock.ErrNotObtained) || errors.Is(err, context.DeadlineExceeded) {
		l.log.Warn("Could not obtain redis lock", "key", key, "ttl", l.ttl.String())
		return nil, fmt.Errorf("%w: %s", ErrLockNotObtained, key)
	}
	if err != nil {
		return nil, fmt.Errorf("obtain lock %s: %w", key, err)
	}
	return func(releaseCtx context.Context) error {
		if err := lock.Release(releaseCtx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			l.log.Warn("Redis lock release failed", "key", key, "error", err)
			return err
		}
		return nil
	}, nil
}

func (l *Locker) Close() error {
	if l == nil || l.rdb == nil {
		return nil
	}
	return l.rdb.Close()
}
