package app

import (
	"github.com/yungbote/carbonmatch-backend/internal/http"
	"github.com/yungbote/carbonmatch-backend/internal/pkg/logger"
)

func wireServer(log *logger.Logger, cfg Config, handlers Handlers) *http.Server {
	return http.NewServer(http.RouterConfig{
		Log:         log,
		ServiceName: cfg.ServiceName,
		CORSOrigins: cfg.CORSOrigins,

		HealthHandler:         handlers.Health,
		BestMatchHandler:      handlers.BestMatch,
		RevisionHandler:       handlers.Revision,
		ProductMappingHandler: handlers.ProductMapping,
		ChangeLogHandler:      handlers.ChangeLog,
	})
}
