package app

import (
	"strings"
	"time"

	dbpkg "github.com/yungbote/carbonmatch-backend/internal/data/db"
	"github.com/yungbote/carbonmatch-backend/internal/pkg/logger"
	"github.com/yungbote/carbonmatch-backend/internal/platform/envutil"
)

type Config struct {
	Port        string
	ServiceName string
	Environment string
	CORSOrigins []string

	Database     dbpkg.Config
	UnitSeedFile string

	MatchAPIBaseURL        string
	MatchAPIDeveloperToken string
	MatchAPITimeout        time.Duration
	MatchAPIRPS            float64
	MatchConcurrency       int

	CredentialTTL           time.Duration
	CredentialPreferRefresh bool
	CredentialLockTTL       time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:        envutil.String("PORT", "8080"),
		ServiceName: envutil.String("OTEL_SERVICE_NAME", "carbonmatch-backend"),
		Environment: envutil.String("ENVIRONMENT", "development"),
		CORSOrigins: splitList(envutil.String("CORS_ALLOWED_ORIGINS", "")),

		Database: dbpkg.Config{
			Driver:     envutil.String("DB_DRIVER", "postgres"),
			Host:       envutil.String("POSTGRES_HOST", "localhost"),
			Port:       envutil.String("POSTGRES_PORT", "5432"),
			User:       envutil.String("POSTGRES_USER", "postgres"),
			Password:   envutil.String("POSTGRES_PASSWORD", ""),
			Name:       envutil.String("POSTGRES_NAME", "carbonmatch"),
			SSLMode:    envutil.String("POSTGRES_SSLMODE", "disable"),
			SQLitePath: envutil.String("SQLITE_PATH", "carbonmatch.db"),
		},
		UnitSeedFile: envutil.String("UNIT_SEED_FILE", ""),

		MatchAPIBaseURL:        envutil.String("MATCH_API_BASE_URL", ""),
		MatchAPIDeveloperToken: envutil.String("MATCH_API_DEVELOPER_TOKEN", ""),
		MatchAPITimeout:        envutil.Duration("MATCH_API_TIMEOUT", 30*time.Second),
		MatchAPIRPS:            envutil.Float("MATCH_API_RPS", 0),
		MatchConcurrency:       envutil.Int("MATCH_CONCURRENCY", 1),

		CredentialTTL:           envutil.Duration("CREDENTIAL_TTL", 24*time.Hour),
		CredentialPreferRefresh: envutil.Bool("CREDENTIAL_PREFER_REFRESH", false),
		CredentialLockTTL:       envutil.Duration("CREDENTIAL_LOCK_TTL", 30*time.Second),

		RedisAddr:     envutil.String("REDIS_ADDR", ""),
		RedisPassword: envutil.String("REDIS_PASSWORD", ""),
		RedisDB:       envutil.Int("REDIS_DB", 0),
	}
	if cfg.MatchAPIDeveloperToken == "" {
		log.Warn("MATCH_API_DEVELOPER_TOKEN is not set; token fetches will be rejected")
	}
	log.Info("Configuration loaded",
		"port", cfg.Port,
		"db_driver", cfg.Database.Driver,
		"match_api_base_url", cfg.MatchAPIBaseURL,
		"match_concurrency", cfg.MatchConcurrency,
		"credential_ttl", cfg.CredentialTTL.String(),
		"redis_lock", cfg.RedisAddr != "",
	)
	return cfg
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
