package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/carbonmatch-backend/internal/data/repos/auth"
	"github.com/yungbote/carbonmatch-backend/internal/data/repos/deliverynote"
	"github.com/yungbote/carbonmatch-backend/internal/data/repos/reference"
	"github.com/yungbote/carbonmatch-backend/internal/pkg/logger"
)

type CredentialRepo = auth.CredentialRepo

type LineItemRepo = deliverynote.LineItemRepo
type InvoiceDataRepo = deliverynote.InvoiceDataRepo
type ProductMappingRepo = deliverynote.ProductMappingRepo
type ChangeLogRepo = deliverynote.ChangeLogRepo

type BuildingRepo = reference.BuildingRepo
type PhaseRepo = reference.PhaseRepo
type UnitOfMeasureRepo = reference.UnitOfMeasureRepo
type DirectoryUserRepo = reference.DirectoryUserRepo

func NewCredentialRepo(db *gorm.DB, baseLog *logger.Logger) CredentialRepo {
	return auth.NewCredentialRepo(db, baseLog)
}

func NewLineItemRepo(db *gorm.DB, baseLog *logger.Logger) LineItemRepo {
	return deliverynote.NewLineItemRepo(db, baseLog)
}
func NewInvoiceDataRepo(db *gorm.DB, baseLog *logger.Logger) InvoiceDataRepo {
	return deliverynote.NewInvoiceDataRepo(db, baseLog)
}
func NewProductMappingRepo(db *gorm.DB, baseLog *logger.Logger) ProductMappingRepo {
	return deliverynote.NewProductMappingRepo(db, baseLog)
}
func NewChangeLogRepo(db *gorm.DB, baseLog *logger.Logger) ChangeLogRepo {
	return deliverynote.NewChangeLogRepo(db, baseLog)
}

func NewBuildingRepo(db *gorm.DB, baseLog *logger.Logger) BuildingRepo {
	return reference.NewBuildingRepo(db, baseLog)
}
func NewPhaseRepo(db *gorm.DB, baseLog *logger.Logger) PhaseRepo {
	return reference.NewPhaseRepo(db, baseLog)
}
func NewUnitOfMeasureRepo(db *gorm.DB, baseLog *logger.Logger) UnitOfMeasureRepo {
	return reference.NewUnitOfMeasureRepo(db, baseLog)
}
func NewDirectoryUserRepo(db *gorm.DB, baseLog *logger.Logger) DirectoryUserRepo {
	return reference.NewDirectoryUserRepo(db, baseLog)
}
