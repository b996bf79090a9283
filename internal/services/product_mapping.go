package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/carbonmatch-backend/internal/data/repos"
	types "github.com/yungbote/carbonmatch-backend/internal/domain"
	"github.com/yungbote/carbonmatch-backend/internal/pkg/dbctx"
	"github.com/yungbote/carbonmatch-backend/internal/pkg/logger"
)

type ProductMappingService interface {
	// List filters by product description ignoring case, or returns every
	// mapping ordered by id when the filter is blank.
	List(ctx context.Context, productDescription string) ([]*types.ProductMapping, error)
}

type productMappingService struct {
	db       *gorm.DB
	log      *logger.Logger
	mappings repos.ProductMappingRepo
}

func NewProductMappingService(db *gorm.DB, baseLog *logger.Logger, mappings repos.ProductMappingRepo) ProductMappingService {
	return &productMappingService{
		db:       db,
		log:      baseLog.With("service", "ProductMappingService"),
		mappings: mappings,
	}
}

func (s *productMappingService) List(ctx context.Context, productDescription string) ([]*types.ProductMapping, error) {
	rows, err := s.mappings.List(dbctx.Context{Ctx: ctx}, strings.TrimSpace(productDescription))
	if err != nil {
		return nil, fmt.Errorf("list product mappings: %w", err)
	}
	return rows, nil
}
