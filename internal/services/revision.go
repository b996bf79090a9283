package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yungbote/carbonmatch-backend/internal/data/repos"
	types "github.com/yungbote/carbonmatch-backend/internal/domain"
	"github.com/yungbote/carbonmatch-backend/internal/normalize"
	"github.com/yungbote/carbonmatch-backend/internal/observability"
	"github.com/yungbote/carbonmatch-backend/internal/pkg/ctxutil"
	"github.com/yungbote/carbonmatch-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/carbonmatch-backend/internal/pkg/errors"
	"github.com/yungbote/carbonmatch-backend/internal/pkg/logger"
)

const (
	RevisionMessageUpdated            = "Record updated successfully"
	RevisionMessageNoChanges          = "No changes detected"
	RevisionMessageDescriptionMissing = "revised_product_description is null"
)

// RevisionInput is a user correction of one line item. Nil fields were not
// submitted. RevisedQuantity is raw text so non-numeric input can be reported.
type RevisionInput struct {
	DeliveryNoteRefNo         string  `json:"delivery_note_ref_no" validate:"required"`
	ItemNo                    int64   `json:"item_no" validate:"required"`
	RevisedPhaseID            *uint   `json:"revised_phase_id"`
	RevisedProductDescription *string `json:"revised_product_description"`
	RevisedUnitOfMeasure      *string `json:"revised_unit_of_measure"`
	RevisedQuantity           *string `json:"revised_quantity"`
	RevisedUserID             string  `json:"revised_user_id"`
}

type RevisionResult struct {
	Message            string          `json:"message"`
	ErrorCode          types.ErrorCode `json:"error_code"`
	DescriptionMissing bool            `json:"description_missing,omitempty"`
	ChangedFields      []string        `json:"changed_fields,omitempty"`
	ChangeLogID        uint            `json:"change_log_id,omitempty"`
}

type RevisionService interface {
	// ApplyRevision returns ErrInvalidArgument, ErrNotFound or ErrConflict
	// for rejected requests. A conflict leaves the record untouched.
	ApplyRevision(ctx context.Context, in RevisionInput) (RevisionResult, error)
}

type revisionService struct {
	db        *gorm.DB
	log       *logger.Logger
	lineItems repos.LineItemRepo
	mappings  repos.ProductMappingRepo
	changes   repos.ChangeLogRepo
	units     repos.UnitOfMeasureRepo
	validate  *validator.Validate
	now       func() time.Time
}

func NewRevisionService(
	db *gorm.DB,
	baseLog *logger.Logger,
	lineItems repos.LineItemRepo,
	mappings repos.ProductMappingRepo,
	changes repos.ChangeLogRepo,
	units repos.UnitOfMeasureRepo,
) RevisionService {
	return &revisionService{
		db:        db,
		log:       baseLog.With("service", "RevisionService"),
		lineItems: lineItems,
		mappings:  mappings,
		changes:   changes,
		units:     units,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		now:       time.Now,
	}
}

// revisionSnapshot is the record state before a revision, kept for the
// change log.
type revisionSnapshot struct {
	PhaseID            *uint
	ProductDescription string
	UnitOfMeasure      string
	Quantity           string

	RevisedPhaseID            *uint
	RevisedProductDescription string
	RevisedUnitOfMeasure      string
	RevisedQuantity           *decimal.Decimal
}

func snapshotOf(item *types.LineItem) revisionSnapshot {
	snap := revisionSnapshot{
		PhaseID:                   item.PhaseID,
		ProductDescription:        item.ProductDescription,
		UnitOfMeasure:             item.UnitOfMeasure,
		Quantity:                  item.Quantity,
		RevisedPhaseID:            item.RevisedPhaseID,
		RevisedProductDescription: item.RevisedProductDescription,
		RevisedUnitOfMeasure:      item.RevisedUnitOfMeasure,
	}
	if item.RevisedQuantity != nil {
		q := *item.RevisedQuantity
		snap.RevisedQuantity = &q
	}
	return snap
}

func trimmed(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

func (s *revisionService) ApplyRevision(ctx context.Context, in RevisionInput) (res RevisionResult, err error) {
	ctx = ctxutil.Default(ctx)
	ctx, finish := observability.StartSpan(ctx, "revision.apply")
	defer func() { finish(err) }()

	in.DeliveryNoteRefNo = strings.TrimSpace(in.DeliveryNoteRefNo)
	if verr := s.validate.Struct(in); verr != nil {
		return res, fmt.Errorf("delivery_note_ref_no and item_no are required: %w", pkgerrors.ErrInvalidArgument)
	}
	log := s.log.With(append(ctxutil.LogFields(ctx), "delivery_note_ref_no", in.DeliveryNoteRefNo, "item_no", in.ItemNo)...)

	description := trimmed(in.RevisedProductDescription)
	unit := trimmed(in.RevisedUnitOfMeasure)
	quantityRaw := trimmed(in.RevisedQuantity)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		item, err := s.lineItems.LockByNoteAndItem(dbc, in.DeliveryNoteRefNo, in.ItemNo)
		if err != nil {
			return fmt.Errorf("load line item: %w", err)
		}
		if item == nil {
			return fmt.Errorf("line item %s/%d: %w", in.DeliveryNoteRefNo, in.ItemNo, pkgerrors.ErrNotFound)
		}
		before := snapshotOf(item)

		code := types.ErrorNone
		if unit != "" {
			vocabulary, err := s.units.ListNames(dbc)
			if err != nil {
				return fmt.Errorf("load unit vocabulary: %w", err)
			}
			if _, ok := normalize.MatchCanonicalUnit(unit, vocabulary); !ok {
				code = code.Merge(types.ErrorExternalService)
			}
		}
		var quantity *decimal.Decimal
		if quantityRaw != "" {
			q, err := normalize.ParseQuantity(quantityRaw)
			if err != nil {
				code = code.Merge(types.ErrorInvalidQuantity)
			} else {
				quantity = &q
			}
		}

		// A known mapping makes the whole revision a conflict, even when the
		// record already carries that description.
		if description != "" {
			exists, err := s.mappings.Exists(dbc, item.CustomerRef, item.ProductDescription, description)
			if err != nil {
				return fmt.Errorf("check product mapping: %w", err)
			}
			if exists {
				return fmt.Errorf("mapping %q -> %q for customer %q: %w", item.ProductDescription, description, item.CustomerRef, pkgerrors.ErrConflict)
			}
		}

		changed := applyRevisionFields(item, in.RevisedPhaseID, description, unit, quantity)
		if len(changed) == 0 {
			res = RevisionResult{Message: RevisionMessageNoChanges, ErrorCode: code}
			return nil
		}

		now := s.now().UTC()
		item.RevisedUserID = in.RevisedUserID
		item.RevisedDate = &now
		item.UpdatedAt = now
		columns := append([]string{}, changed...)
		columns = append(columns, "revised_user_id", "revised_date", "updated_at", "error_code")
		if in.RevisedPhaseID != nil || description != "" || unit != "" || quantityRaw != "" {
			item.Approved = true
			columns = append(columns, "approved")
		}
		item.ErrorCode = code
		if err := s.lineItems.UpdateColumns(dbc, item, columns); err != nil {
			return fmt.Errorf("save line item: %w", err)
		}

		if description == "" {
			res = RevisionResult{
				Message:            RevisionMessageDescriptionMissing,
				ErrorCode:          code,
				DescriptionMissing: true,
				ChangedFields:      changed,
			}
			return nil
		}

		if _, err := s.mappings.Create(dbc, []*types.ProductMapping{{
			CustomerRef:              item.CustomerRef,
			ProductDescription:       item.ProductDescription,
			MappedProductDescription: description,
			UserID:                   in.RevisedUserID,
		}}); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("create product mapping: %w", pkgerrors.ErrConflict)
			}
			return fmt.Errorf("create product mapping: %w", err)
		}

		entry, err := s.changes.Create(dbc, &types.ChangeLog{
			DeliveryNoteRefNo:            item.DeliveryNoteRefNo,
			ItemID:                       item.ItemNo,
			CustomerRefNo:                item.CustomerRef,
			ProductDescription:           before.ProductDescription,
			UnitOfMeasure:                before.UnitOfMeasure,
			Quantity:                     before.Quantity,
			PhaseID:                      before.PhaseID,
			OldRevisedProductDescription: before.RevisedProductDescription,
			OldRevisedUnitOfMeasure:      before.RevisedUnitOfMeasure,
			OldRevisedQuantity:           before.RevisedQuantity,
			OldRevisedPhaseID:            before.RevisedPhaseID,
			RevisedProductDescription:    description,
			RevisedUnitOfMeasure:         unit,
			RevisedQuantity:              quantity,
			RevisedPhaseID:               in.RevisedPhaseID,
			RevisedUserID:                in.RevisedUserID,
			RevisedDate:                  now,
		})
		if err != nil {
			return fmt.Errorf("create change log: %w", err)
		}
		res = RevisionResult{
			Message:       RevisionMessageUpdated,
			ErrorCode:     code,
			ChangedFields: changed,
			ChangeLogID:   entry.ID,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, pkgerrors.ErrConflict) {
			log.Warn("Revision rejected: duplicate product mapping", "error", err)
		} else if !errors.Is(err, pkgerrors.ErrNotFound) {
			log.Error("Revision failed", "error", err)
		}
		return RevisionResult{}, err
	}
	log.Info("Revision applied", "message", res.Message, "error_code", res.ErrorCode, "changed", res.ChangedFields)
	return res, nil
}

// applyRevisionFields updates each revisable field whose incoming value is
// non-empty and differs from its effective value, returning the changed
// column names.
func applyRevisionFields(item *types.LineItem, phaseID *uint, description, unit string, quantity *decimal.Decimal) []string {
	var changed []string

	if phaseID != nil && *phaseID != 0 {
		baseline := normalize.EffectivePhase(item.PhaseID, item.RevisedPhaseID)
		if baseline == nil || *baseline != *phaseID {
			id := *phaseID
			item.RevisedPhaseID = &id
			changed = append(changed, "revised_phase_id")
		}
	}

	if description != "" {
		baseline := normalize.Effective(item.ProductDescription, item.RevisedProductDescription)
		if description != baseline {
			item.RevisedProductDescription = description
			changed = append(changed, "revised_product_description")
		}
	}

	if unit != "" {
		baseline := normalize.Effective(item.UnitOfMeasure, item.RevisedUnitOfMeasure)
		if !normalize.SameUnit(unit, baseline) {
			item.RevisedUnitOfMeasure = unit
			changed = append(changed, "revised_unit_of_measure")
		}
	}

	if quantity != nil && !quantity.IsZero() {
		differs := true
		if item.RevisedQuantity != nil {
			differs = !item.RevisedQuantity.Equal(*quantity)
		} else if orig, err := normalize.ParseQuantity(item.Quantity); err == nil {
			differs = !orig.Equal(*quantity)
		}
		if differs {
			q := *quantity
			item.RevisedQuantity = &q
			changed = append(changed, "revised_quantity")
		}
	}

	return changed
}
