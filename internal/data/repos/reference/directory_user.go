package reference

import (
	"gorm.io/gorm"

	types "github.com/yungbote/carbonmatch-backend/internal/domain"
	"github.com/yungbote/carbonmatch-backend/internal/pkg/dbctx"
	"github.com/yungbote/carbonmatch-backend/internal/pkg/logger"
)

type DirectoryUserRepo interface {
	Create(dbc dbctx.Context, users []*types.DirectoryUser) ([]*types.DirectoryUser, error)
	// CustomerRefFor returns "" when the user is unknown.
	CustomerRefFor(dbc dbctx.Context, userID string) (string, error)
}

type directoryUserRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDirectoryUserRepo(db *gorm.DB, baseLog *logger.Logger) DirectoryUserRepo {
	repoLog := baseLog.With("repo", "DirectoryUserRepo")
	return &directoryUserRepo{db: db, log: repoLog}
}

func (r *directoryUserRepo) Create(dbc dbctx.Context, users []*types.DirectoryUser) ([]*types.DirectoryUser, error) {
	if len(users) == 0 {
		return []*types.DirectoryUser{}, nil
	}
	if err := dbc.Or(r.db).Create(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *directoryUserRepo) CustomerRefFor(dbc dbctx.Context, userID string) (string, error) {
	if userID == "" {
		return "", nil
	}
	var rows []types.DirectoryUser
	if err := dbc.Or(r.db).
		Where("user_id = ?", userID).
		Limit(1).
		Find(&rows).Error; err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", nil
	}
	return rows[0].CustomerRef, nil
}
