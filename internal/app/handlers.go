package app

import (
	httpH "github.com/yungbote/carbonmatch-backend/internal/http/handlers"
	"github.com/yungbote/carbonmatch-backend/internal/pkg/logger"
)

type Handlers struct {
	Health         *httpH.HealthHandler
	BestMatch      *httpH.BestMatchHandler
	Revision       *httpH.RevisionHandler
	ProductMapping *httpH.ProductMappingHandler
	ChangeLog      *httpH.ChangeLogHandler
}

func wireHandlers(log *logger.Logger, services Services, db httpH.Pinger) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:         httpH.NewHealthHandler(db),
		BestMatch:      httpH.NewBestMatchHandler(log, services.MatchEnrich, services.LineItem),
		Revision:       httpH.NewRevisionHandler(log, services.Revision),
		ProductMapping: httpH.NewProductMappingHandler(services.ProductMapping),
		ChangeLog:      httpH.NewChangeLogHandler(services.ChangeLog),
	}
}
