package deliverynote

import (
	"gorm.io/gorm"

	types "github.com/yungbote/carbonmatch-backend/internal/domain"
	"github.com/yungbote/carbonmatch-backend/internal/pkg/dbctx"
	"github.com/yungbote/carbonmatch-backend/internal/pkg/logger"
)

type InvoiceDataRepo interface {
	Create(dbc dbctx.Context, rows []*types.InvoiceData) ([]*types.InvoiceData, error)
	ListByLineItemIDs(dbc dbctx.Context, lineItemIDs []uint) ([]*types.InvoiceData, error)
}

type invoiceDataRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInvoiceDataRepo(db *gorm.DB, baseLog *logger.Logger) InvoiceDataRepo {
	repoLog := baseLog.With("repo", "InvoiceDataRepo")
	return &invoiceDataRepo{db: db, log: repoLog}
}

func (r *invoiceDataRepo) Create(dbc dbctx.Context, rows []*types.InvoiceData) ([]*types.InvoiceData, error) {
	if len(rows) == 0 {
		return []*types.InvoiceData{}, nil
	}
	if err := dbc.Or(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *invoiceDataRepo) ListByLineItemIDs(dbc dbctx.Context, lineItemIDs []uint) ([]*types.InvoiceData, error) {
	var results []*types.InvoiceData
	if len(lineItemIDs) == 0 {
		return results, nil
	}
	if err := dbc.Or(r.db).
		Where("line_item_id IN ?", lineItemIDs).
		Order("id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
