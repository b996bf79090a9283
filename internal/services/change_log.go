package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/carbonmatch-backend/internal/data/repos"
	types "github.com/yungbote/carbonmatch-backend/internal/domain"
	"github.com/yungbote/carbonmatch-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/carbonmatch-backend/internal/pkg/errors"
	"github.com/yungbote/carbonmatch-backend/internal/pkg/logger"
)

type ChangeLogService interface {
	ListByDeliveryNote(ctx context.Context, deliveryNoteRefNo string) ([]*types.ChangeLog, error)
}

type changeLogService struct {
	db      *gorm.DB
	log     *logger.Logger
	changes repos.ChangeLogRepo
}

func NewChangeLogService(db *gorm.DB, baseLog *logger.Logger, changes repos.ChangeLogRepo) ChangeLogService {
	return &changeLogService{
		db:      db,
		log:     baseLog.With("service", "ChangeLogService"),
		changes: changes,
	}
}

func (s *changeLogService) ListByDeliveryNote(ctx context.Context, deliveryNoteRefNo string) ([]*types.ChangeLog, error) {
	ref := strings.TrimSpace(deliveryNoteRefNo)
	if ref == "" {
		return nil, fmt.Errorf("missing delivery_note_ref_no: %w", pkgerrors.ErrInvalidArgument)
	}
	rows, err := s.changes.ListByDeliveryNote(dbctx.Context{Ctx: ctx}, ref)
	if err != nil {
		return nil, fmt.Errorf("list change log: %w", err)
	}
	return rows, nil
}
