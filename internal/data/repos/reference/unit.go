package reference

import (
	"gorm.io/gorm"

	types "github.com/yungbote/carbonmatch-backend/internal/domain"
	"github.com/yungbote/carbonmatch-backend/internal/pkg/dbctx"
	"github.com/yungbote/carbonmatch-backend/internal/pkg/logger"
)

type UnitOfMeasureRepo interface {
	Create(dbc dbctx.Context, units []*types.UnitOfMeasure) ([]*types.UnitOfMeasure, error)
	ListNames(dbc dbctx.Context) ([]string, error)
}

type unitOfMeasureRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUnitOfMeasureRepo(db *gorm.DB, baseLog *logger.Logger) UnitOfMeasureRepo {
	repoLog := baseLog.With("repo", "UnitOfMeasureRepo")
	return &unitOfMeasureRepo{db: db, log: repoLog}
}

func (r *unitOfMeasureRepo) Create(dbc dbctx.Context, units []*types.UnitOfMeasure) ([]*types.UnitOfMeasure, error) {
	if len(units) == 0 {
		return []*types.UnitOfMeasure{}, nil
	}
	if err := dbc.Or(r.db).Create(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

func (r *unitOfMeasureRepo) ListNames(dbc dbctx.Context) ([]string, error) {
	var names []string
	if err := dbc.Or(r.db).
		Model(&types.UnitOfMeasure{}).
		Order("id ASC").
		Pluck("name", &names).Error; err != nil {
		return nil, err
	}
	return names, nil
}
