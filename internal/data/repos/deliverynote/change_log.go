package deliverynote

import (
	"gorm.io/gorm"

	types "github.com/yungbote/carbonmatch-backend/internal/domain"
	"github.com/yungbote/carbonmatch-backend/internal/pkg/dbctx"
	"github.com/yungbote/carbonmatch-backend/internal/pkg/logger"
)

type ChangeLogRepo interface {
	Create(dbc dbctx.Context, entry *types.ChangeLog) (*types.ChangeLog, error)
	ListByDeliveryNote(dbc dbctx.Context, deliveryNoteRefNo string) ([]*types.ChangeLog, error)
	Count(dbc dbctx.Context) (int64, error)
}

type changeLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChangeLogRepo(db *gorm.DB, baseLog *logger.Logger) ChangeLogRepo {
	repoLog := baseLog.With("repo", "ChangeLogRepo")
	return &changeLogRepo{db: db, log: repoLog}
}

// Create appends entry; the database allocates a strictly increasing id.
func (r *changeLogRepo) Create(dbc dbctx.Context, entry *types.ChangeLog) (*types.ChangeLog, error) {
	if entry == nil {
		return nil, nil
	}
	entry.ID = 0
	if err := dbc.Or(r.db).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *changeLogRepo) ListByDeliveryNote(dbc dbctx.Context, deliveryNoteRefNo string) ([]*types.ChangeLog, error) {
	var results []*types.ChangeLog
	if err := dbc.Or(r.db).
		Where("delivery_note_ref_no = ?", deliveryNoteRefNo).
		Order("id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *changeLogRepo) Count(dbc dbctx.Context) (int64, error) {
	var n int64
	if err := dbc.Or(r.db).Model(&types.ChangeLog{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
