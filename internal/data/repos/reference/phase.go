package reference

import (
	"errors"

	"gorm.io/gorm"

	types "github.com/yungbote/carbonmatch-backend/internal/domain"
	"github.com/yungbote/carbonmatch-backend/internal/pkg/dbctx"
	"github.com/yungbote/carbonmatch-backend/internal/pkg/logger"
)

type PhaseRepo interface {
	Create(dbc dbctx.Context, phases []*types.Phase) ([]*types.Phase, error)
	GetByID(dbc dbctx.Context, id uint) (*types.Phase, error)
}

type phaseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPhaseRepo(db *gorm.DB, baseLog *logger.Logger) PhaseRepo {
	repoLog := baseLog.With("repo", "PhaseRepo")
	return &phaseRepo{db: db, log: repoLog}
}

func (r *phaseRepo) Create(dbc dbctx.Context, phases []*types.Phase) ([]*types.Phase, error) {
	if len(phases) == 0 {
		return []*types.Phase{}, nil
	}
	if err := dbc.Or(r.db).Create(&phases).Error; err != nil {
		return nil, err
	}
	return phases, nil
}

// GetByID returns nil without error when the phase does not exist.
func (r *phaseRepo) GetByID(dbc dbctx.Context, id uint) (*types.Phase, error) {
	var p types.Phase
	err := dbc.Or(r.db).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
