package reference

import (
	"errors"

	"gorm.io/gorm"

	types "github.com/yungbote/carbonmatch-backend/internal/domain"
	"github.com/yungbote/carbonmatch-backend/internal/pkg/dbctx"
	"github.com/yungbote/carbonmatch-backend/internal/pkg/logger"
)

type BuildingRepo interface {
	Create(dbc dbctx.Context, buildings []*types.Building) ([]*types.Building, error)
	GetByID(dbc dbctx.Context, id uint) (*types.Building, error)
}

type buildingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBuildingRepo(db *gorm.DB, baseLog *logger.Logger) BuildingRepo {
	repoLog := baseLog.With("repo", "BuildingRepo")
	return &buildingRepo{db: db, log: repoLog}
}

func (r *buildingRepo) Create(dbc dbctx.Context, buildings []*types.Building) ([]*types.Building, error) {
	if len(buildings) == 0 {
		return []*types.Building{}, nil
	}
	if err := dbc.Or(r.db).Create(&buildings).Error; err != nil {
		return nil, err
	}
	return buildings, nil
}

// GetByID returns nil without error when the building does not exist.
func (r *buildingRepo) GetByID(dbc dbctx.Context, id uint) (*types.Building, error) {
	var b types.Building
	err := dbc.Or(r.db).Where("id = ?", id).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}
