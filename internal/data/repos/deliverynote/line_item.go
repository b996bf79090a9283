package deliverynote

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/carbonmatch-backend/internal/domain"
	"github.com/yungbote/carbonmatch-backend/internal/pkg/dbctx"
	"github.com/yungbote/carbonmatch-backend/internal/pkg/logger"
)

type LineItemRepo interface {
	Create(dbc dbctx.Context, items []*types.LineItem) ([]*types.LineItem, error)
	GetByIDs(dbc dbctx.Context, ids []uint) ([]*types.LineItem, error)
	GetByNoteAndItem(dbc dbctx.Context, deliveryNoteRefNo string, itemNo int64) (*types.LineItem, error)
	LockByNoteAndItem(dbc dbctx.Context, deliveryNoteRefNo string, itemNo int64) (*types.LineItem, error)
	ListPending(dbc dbctx.Context) ([]*types.LineItem, error)
	List(dbc dbctx.Context, deliveryNoteRefNo string) ([]*types.LineItem, error)
	UpdateColumns(dbc dbctx.Context, item *types.LineItem, columns []string) error
}

type lineItemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLineItemRepo(db *gorm.DB, baseLog *logger.Logger) LineItemRepo {
	repoLog := baseLog.With("repo", "LineItemRepo")
	return &lineItemRepo{db: db, log: repoLog}
}

func (r *lineItemRepo) Create(dbc dbctx.Context, items []*types.LineItem) ([]*types.LineItem, error) {
	if len(items) == 0 {
		return []*types.LineItem{}, nil
	}
	if err := dbc.Or(r.db).Create(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *lineItemRepo) GetByIDs(dbc dbctx.Context, ids []uint) ([]*types.LineItem, error) {
	var results []*types.LineItem
	if len(ids) == 0 {
		return results, nil
	}
	if err := dbc.Or(r.db).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// GetByNoteAndItem returns nil without error when no row matches.
func (r *lineItemRepo) GetByNoteAndItem(dbc dbctx.Context, deliveryNoteRefNo string, itemNo int64) (*types.LineItem, error) {
	return r.getByNoteAndItem(dbc.Or(r.db), deliveryNoteRefNo, itemNo)
}

// LockByNoteAndItem is GetByNoteAndItem holding a row lock until dbc.Tx ends.
// SQLite has no row locks and drops the clause.
func (r *lineItemRepo) LockByNoteAndItem(dbc dbctx.Context, deliveryNoteRefNo string, itemNo int64) (*types.LineItem, error) {
	return r.getByNoteAndItem(dbc.Or(r.db).Clauses(clause.Locking{Strength: "UPDATE"}), deliveryNoteRefNo, itemNo)
}

func (r *lineItemRepo) getByNoteAndItem(q *gorm.DB, deliveryNoteRefNo string, itemNo int64) (*types.LineItem, error) {
	var item types.LineItem
	err := q.
		Where("delivery_note_ref_no = ? AND item_no = ?", deliveryNoteRefNo, itemNo).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ListPending selects records the match pipeline should (re)process:
// unprocessed rows without an error, and processed rows a reviewer approved.
func (r *lineItemRepo) ListPending(dbc dbctx.Context) ([]*types.LineItem, error) {
	var results []*types.LineItem
	if err := dbc.Or(r.db).
		Where("error_code = ?", types.ErrorNone).
		Where(r.db.Where("processed = ?", false).
			Or("processed = ? AND approved = ?", true, true)).
		Order("id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *lineItemRepo) List(dbc dbctx.Context, deliveryNoteRefNo string) ([]*types.LineItem, error) {
	var results []*types.LineItem
	q := dbc.Or(r.db)
	if deliveryNoteRefNo != "" {
		q = q.Where("delivery_note_ref_no = ?", deliveryNoteRefNo)
	}
	if err := q.Order("id ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// UpdateColumns writes only the named columns, including zero values.
func (r *lineItemRepo) UpdateColumns(dbc dbctx.Context, item *types.LineItem, columns []string) error {
	if item == nil || len(columns) == 0 {
		return nil
	}
	return dbc.Or(r.db).
		Model(item).
		Select(columns).
		Updates(item).Error
}
