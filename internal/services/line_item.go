package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/carbonmatch-backend/internal/data/repos"
	types "github.com/yungbote/carbonmatch-backend/internal/domain"
	"github.com/yungbote/carbonmatch-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/carbonmatch-backend/internal/pkg/errors"
	"github.com/yungbote/carbonmatch-backend/internal/pkg/logger"
)

type LineItemService interface {
	// List returns line items ordered by id; an empty ref lists all of them.
	List(ctx context.Context, deliveryNoteRefNo string) ([]*types.LineItem, error)
	Get(ctx context.Context, id uint) (*types.LineItem, error)
}

type lineItemService struct {
	db        *gorm.DB
	log       *logger.Logger
	lineItems repos.LineItemRepo
}

func NewLineItemService(db *gorm.DB, baseLog *logger.Logger, lineItems repos.LineItemRepo) LineItemService {
	return &lineItemService{
		db:        db,
		log:       baseLog.With("service", "LineItemService"),
		lineItems: lineItems,
	}
}

func (s *lineItemService) List(ctx context.Context, deliveryNoteRefNo string) ([]*types.LineItem, error) {
	items, err := s.lineItems.List(dbctx.Context{Ctx: ctx}, deliveryNoteRefNo)
	if err != nil {
		return nil, fmt.Errorf("list line items: %w", err)
	}
	return items, nil
}

func (s *lineItemService) Get(ctx context.Context, id uint) (*types.LineItem, error) {
	rows, err := s.lineItems.GetByIDs(dbctx.Context{Ctx: ctx}, []uint{id})
	if err != nil {
		return nil, fmt.Errorf("get line item: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("line item %d: %w", id, pkgerrors.ErrNotFound)
	}
	return rows[0], nil
}
