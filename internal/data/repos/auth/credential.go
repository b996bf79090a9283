package auth

import (
	"gorm.io/gorm"

	types "github.com/yungbote/carbonmatch-backend/internal/domain"
	"github.com/yungbote/carbonmatch-backend/internal/pkg/dbctx"
	"github.com/yungbote/carbonmatch-backend/internal/pkg/logger"
)

// CredentialRepo stores the singleton match API credential.
type CredentialRepo interface {
	// Get returns the stored credential, or nil when none exists yet.
	Get(dbc dbctx.Context) (*types.Credential, error)
	// Put overwrites the stored credential in place, creating it on first use.
	Put(dbc dbctx.Context, cred *types.Credential) (*types.Credential, error)
	Count(dbc dbctx.Context) (int64, error)
}

type credentialRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCredentialRepo(db *gorm.DB, baseLog *logger.Logger) CredentialRepo {
	repoLog := baseLog.With("repo", "CredentialRepo")
	return &credentialRepo{db: db, log: repoLog}
}

func (r *credentialRepo) Get(dbc dbctx.Context) (*types.Credential, error) {
	var rows []types.Credential
	if err := dbc.Or(r.db).Order("id ASC").Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (r *credentialRepo) Put(dbc dbctx.Context, cred *types.Credential) (*types.Credential, error) {
	if cred == nil {
		return nil, nil
	}
	var out *types.Credential
	err := dbc.Or(r.db).Transaction(func(tx *gorm.DB) error {
		var rows []types.Credential
		if err := tx.Order("id ASC").Limit(1).Find(&rows).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			row := *cred
			row.ID = 0
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			out = &row
			return nil
		}
		row := rows[0]
		row.TokenName = cred.TokenName
		row.TokenValue = cred.TokenValue
		row.RefreshToken = cred.RefreshToken
		row.TokenExpiryTime = cred.TokenExpiryTime
		if err := tx.Save(&row).Error; err != nil {
			return err
		}
		out = &row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *credentialRepo) Count(dbc dbctx.Context) (int64, error) {
	var n int64
	if err := dbc.Or(r.db).Model(&types.Credential{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
