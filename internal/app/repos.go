package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/carbonmatch-backend/internal/data/repos"
	"github.com/yungbote/carbonmatch-backend/internal/pkg/logger"
)

type Repos struct {
	LineItem       repos.LineItemRepo
	InvoiceData    repos.InvoiceDataRepo
	ProductMapping repos.ProductMappingRepo
	ChangeLog      repos.ChangeLogRepo
	Credential     repos.CredentialRepo

	Building      repos.BuildingRepo
	Phase         repos.PhaseRepo
	UnitOfMeasure repos.UnitOfMeasureRepo
	DirectoryUser repos.DirectoryUserRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		LineItem:       repos.NewLineItemRepo(db, log),
		InvoiceData:    repos.NewInvoiceDataRepo(db, log),
		ProductMapping: repos.NewProductMappingRepo(db, log),
		ChangeLog:      repos.NewChangeLogRepo(db, log),
		Credential:     repos.NewCredentialRepo(db, log),

		Building:      repos.NewBuildingRepo(db, log),
		Phase:         repos.NewPhaseRepo(db, log),
		UnitOfMeasure: repos.NewUnitOfMeasureRepo(db, log),
		DirectoryUser: repos.NewDirectoryUserRepo(db, log),
	}
}
