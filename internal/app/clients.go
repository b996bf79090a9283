package app

import (
	"context"
	"fmt"

	"github.com/yungbote/carbonmatch-backend/internal/clients/matchapi"
	"github.com/yungbote/carbonmatch-backend/internal/clients/redis"
	"github.com/yungbote/carbonmatch-backend/internal/pkg/logger"
)

type Clients struct {
	MatchAPI matchapi.Client
	// Locker is nil unless REDIS_ADDR is configured.
	Locker *redis.Locker
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	api, err := matchapi.NewClient(log, matchapi.Config{
		BaseURL:           cfg.MatchAPIBaseURL,
		DeveloperToken:    cfg.MatchAPIDeveloperToken,
		Timeout:           cfg.MatchAPITimeout,
		RequestsPerSecond: cfg.MatchAPIRPS,
	})
	if err != nil {
		return Clients{}, fmt.Errorf("init match api client: %w", err)
	}

	var locker *redis.Locker
	if cfg.RedisAddr != "" {
		locker, err = redis.NewLocker(ctx, log, redis.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			LockTTL:  cfg.CredentialLockTTL,
		})
		if err != nil {
			return Clients{}, fmt.Errorf("init redis locker: %w", err)
		}
	}

	return Clients{MatchAPI: api, Locker: locker}, nil
}

func (c Clients) Close() {
	if c.Locker != nil {
		_ = c.Locker.Close()
	}
}
