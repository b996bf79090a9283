package deliverynote

import (
	"strings"

	"gorm.io/gorm"

	types "github.com/yungbote/carbonmatch-backend/internal/domain"
	"github.com/yungbote/carbonmatch-backend/internal/pkg/dbctx"
	"github.com/yungbote/carbonmatch-backend/internal/pkg/logger"
)

type ProductMappingRepo interface {
	Create(dbc dbctx.Context, mappings []*types.ProductMapping) ([]*types.ProductMapping, error)
	Exists(dbc dbctx.Context, customerRef, productDescription, mappedProductDescription string) (bool, error)
	List(dbc dbctx.Context, productDescription string) ([]*types.ProductMapping, error)
}

type productMappingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProductMappingRepo(db *gorm.DB, baseLog *logger.Logger) ProductMappingRepo {
	repoLog := baseLog.With("repo", "ProductMappingRepo")
	return &productMappingRepo{db: db, log: repoLog}
}

func (r *productMappingRepo) Create(dbc dbctx.Context, mappings []*types.ProductMapping) ([]*types.ProductMapping, error) {
	if len(mappings) == 0 {
		return []*types.ProductMapping{}, nil
	}
	if err := dbc.Or(r.db).Create(&mappings).Error; err != nil {
		return nil, err
	}
	return mappings, nil
}

func (r *productMappingRepo) Exists(dbc dbctx.Context, customerRef, productDescription, mappedProductDescription string) (bool, error) {
	var count int64
	if err := dbc.Or(r.db).
		Model(&types.ProductMapping{}).
		Where("customer_ref = ? AND product_description = ? AND mapped_product_description = ?",
			customerRef, productDescription, mappedProductDescription).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns every mapping, or only those whose original description
// equals productDescription ignoring case.
func (r *productMappingRepo) List(dbc dbctx.Context, productDescription string) ([]*types.ProductMapping, error) {
	var results []*types.ProductMapping
	q := dbc.Or(r.db)
	if d := strings.TrimSpace(productDescription); d != "" {
		q = q.Where("lower(product_description) = ?", strings.ToLower(d))
	}
	if err := q.Order("id ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
