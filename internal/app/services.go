package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/carbonmatch-backend/internal/pkg/logger"
	"github.com/yungbote/carbonmatch-backend/internal/services"
)

type Services struct {
	Credential     services.CredentialManager
	MatchEnrich    services.MatchEnrichmentService
	Revision       services.RevisionService
	LineItem       services.LineItemService
	ProductMapping services.ProductMappingService
	ChangeLog      services.ChangeLogService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, clients Clients) Services {
	log.Info("Wiring services...")

	var locker services.CredentialLocker
	if clients.Locker != nil {
		locker = clients.Locker
	}
	credentials := services.NewCredentialManager(log, reposet.Credential, clients.MatchAPI, locker, services.CredentialConfig{
		TTL:           cfg.CredentialTTL,
		PreferRefresh: cfg.CredentialPreferRefresh,
	})

	return Services{
		Credential: credentials,
		MatchEnrich: services.NewMatchEnrichmentService(
			db,
			log,
			reposet.LineItem,
			reposet.InvoiceData,
			reposet.Building,
			reposet.Phase,
			reposet.DirectoryUser,
			credentials,
			clients.MatchAPI,
			services.MatchEnrichmentConfig{Concurrency: cfg.MatchConcurrency},
		),
		Revision: services.NewRevisionService(
			db,
			log,
			reposet.LineItem,
			reposet.ProductMapping,
			reposet.ChangeLog,
			reposet.UnitOfMeasure,
		),
		LineItem:       services.NewLineItemService(db, log, reposet.LineItem),
		ProductMapping: services.NewProductMappingService(db, log, reposet.ProductMapping),
		ChangeLog:      services.NewChangeLogService(db, log, reposet.ChangeLog),
	}
}
