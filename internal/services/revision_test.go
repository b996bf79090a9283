package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/yungbote/carbonmatch-backend/internal/data/repos/testutil"
	types "github.com/yungbote/carbonmatch-backend/internal/domain"
	pkgerrors "github.com/yungbote/carbonmatch-backend/internal/pkg/errors"
	"github.com/yungbote/carbonmatch-backend/internal/pkg/pointers"
)

func newRevisionEnv(t *testing.T) *serviceEnv {
	t.Helper()
	env := newServiceEnv(t, MatchEnrichmentConfig{}, CredentialConfig{})
	testutil.SeedUnits(t, env.db, "m2", "kg", "Nos")
	return env
}

func seedRevisable(t *testing.T, env *serviceEnv, mutate func(*types.LineItem)) *types.LineItem {
	t.Helper()
	item := &types.LineItem{
		ProductDescription: "Brk 215mm",
		UnitOfMeasure:      "m2",
		Quantity:           "10",
		Processed:          true,
		ErrorCode:          types.ErrorMissingScalingFactor,
	}
	if mutate != nil {
		mutate(item)
	}
	return testutil.SeedLineItem(t, env.db, item)
}

func TestApplyRevisionRejectsMissingIdentifiers(t *testing.T) {
	env := newRevisionEnv(t)
	_, err := env.revision.ApplyRevision(context.Background(), RevisionInput{ItemNo: 1})
	if !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("want ErrInvalidArgument, got %v", err)
	}
	_, err = env.revision.ApplyRevision(context.Background(), RevisionInput{DeliveryNoteRefNo: "DN-1"})
	if !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("want ErrInvalidArgument, got %v", err)
	}
}

func TestApplyRevisionUnknownRecord(t *testing.T) {
	env := newRevisionEnv(t)
	_, err := env.revision.ApplyRevision(context.Background(), RevisionInput{
		DeliveryNoteRefNo:         "DN-404",
		ItemNo:                    7,
		RevisedProductDescription: pointers.String("Brick"),
	})
	if !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestApplyRevisionRecordsMappingAndChangeLog(t *testing.T) {
	env := newRevisionEnv(t)
	item := seedRevisable(t, env, nil)

	res, err := env.revision.ApplyRevision(context.Background(), RevisionInput{
		DeliveryNoteRefNo:         "DN-1",
		ItemNo:                    1,
		RevisedProductDescription: pointers.String("  Facing brick 215mm "),
		RevisedQuantity:           pointers.String("12.5"),
		RevisedUserID:             "u9",
	})
	if err != nil {
		t.Fatalf("ApplyRevision: %v", err)
	}
	if res.Message != RevisionMessageUpdated || res.ErrorCode != types.ErrorNone || res.ChangeLogID == 0 {
		t.Fatalf("unexpected result %+v", res)
	}

	got := env.reload(t, item.ID)
	if got.RevisedProductDescription != "Facing brick 215mm" {
		t.Fatalf("revised description=%q", got.RevisedProductDescription)
	}
	if got.RevisedQuantity == nil || !got.RevisedQuantity.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("revised quantity=%v", got.RevisedQuantity)
	}
	if !got.Approved || got.ErrorCode != types.ErrorNone || got.RevisedUserID != "u9" || got.RevisedDate == nil {
		t.Fatalf("unexpected record state %+v", got)
	}
	if got.ProductDescription != "Brk 215mm" || got.Quantity != "10" {
		t.Fatalf("captured fields were modified: %+v", got)
	}

	var mappings []types.ProductMapping
	if err := env.db.Find(&mappings).Error; err != nil {
		t.Fatalf("list mappings: %v", err)
	}
	if len(mappings) != 1 {
		t.Fatalf("mappings=%d, want 1", len(mappings))
	}
	m := mappings[0]
	if m.CustomerRef != "C1" || m.ProductDescription != "Brk 215mm" || m.MappedProductDescription != "Facing brick 215mm" || m.UserID != "u9" {
		t.Fatalf("unexpected mapping %+v", m)
	}

	var entry types.ChangeLog
	if err := env.db.First(&entry, res.ChangeLogID).Error; err != nil {
		t.Fatalf("load change log: %v", err)
	}
	if entry.ProductDescription != "Brk 215mm" || entry.OldRevisedProductDescription != "" || entry.OldRevisedQuantity != nil {
		t.Fatalf("change log before-image wrong: %+v", entry)
	}
	if entry.RevisedProductDescription != "Facing brick 215mm" || entry.RevisedQuantity == nil || entry.ItemID != 1 || entry.CustomerRefNo != "C1" {
		t.Fatalf("change log after-image wrong: %+v", entry)
	}
}

func TestApplyRevisionDuplicateMappingConflicts(t *testing.T) {
	env := newRevisionEnv(t)
	item := seedRevisable(t, env, nil)
	in := RevisionInput{
		DeliveryNoteRefNo:         "DN-1",
		ItemNo:                    1,
		RevisedProductDescription: pointers.String("Facing brick"),
		RevisedUserID:             "u1",
	}
	if _, err := env.revision.ApplyRevision(context.Background(), in); err != nil {
		t.Fatalf("first revision: %v", err)
	}
	after := env.reload(t, item.ID)

	in.RevisedUnitOfMeasure = pointers.String("kg")
	in.RevisedUserID = "u2"
	if _, err := env.revision.ApplyRevision(context.Background(), in); !errors.Is(err, pkgerrors.ErrConflict) {
		t.Fatalf("want ErrConflict, got %v", err)
	}

	got := env.reload(t, item.ID)
	if got.RevisedUnitOfMeasure != "" || got.RevisedUserID != "u1" || !got.RevisedDate.Equal(*after.RevisedDate) {
		t.Fatalf("conflicting revision mutated the record: %+v", got)
	}
	if n := env.count(t, &types.ProductMapping{}); n != 1 {
		t.Fatalf("mappings=%d, want 1", n)
	}
	if n := env.count(t, &types.ChangeLog{}); n != 1 {
		t.Fatalf("change log entries=%d, want 1", n)
	}
}

func TestApplyRevisionMappingsAreScopedPerCustomer(t *testing.T) {
	env := newRevisionEnv(t)
	seedRevisable(t, env, nil)
	if err := env.db.Create(&types.ProductMapping{
		CustomerRef:              "C2",
		ProductDescription:       "Brk 215mm",
		MappedProductDescription: "Facing brick",
	}).Error; err != nil {
		t.Fatalf("seed mapping: %v", err)
	}

	res, err := env.revision.ApplyRevision(context.Background(), RevisionInput{
		DeliveryNoteRefNo:         "DN-1",
		ItemNo:                    1,
		RevisedProductDescription: pointers.String("Facing brick"),
	})
	if err != nil {
		t.Fatalf("ApplyRevision: %v", err)
	}
	if res.Message != RevisionMessageUpdated {
		t.Fatalf("message=%q", res.Message)
	}
	if n := env.count(t, &types.ProductMapping{}); n != 2 {
		t.Fatalf("mappings=%d, want 2", n)
	}
}

func TestApplyRevisionUnchangedPhaseIsNoOp(t *testing.T) {
	env := newRevisionEnv(t)
	item := seedRevisable(t, env, func(li *types.LineItem) {
		li.PhaseID = pointers.Uint(1)
		li.RevisedPhaseID = pointers.Uint(3)
	})

	res, err := env.revision.ApplyRevision(context.Background(), RevisionInput{
		DeliveryNoteRefNo: "DN-1",
		ItemNo:            1,
		RevisedPhaseID:    pointers.Uint(3),
	})
	if err != nil {
		t.Fatalf("ApplyRevision: %v", err)
	}
	if res.Message != RevisionMessageNoChanges {
		t.Fatalf("message=%q, want %q", res.Message, RevisionMessageNoChanges)
	}
	got := env.reload(t, item.ID)
	if got.Approved || got.RevisedDate != nil || got.ErrorCode != types.ErrorMissingScalingFactor {
		t.Fatalf("no-op revision mutated the record: %+v", got)
	}
	if n := env.count(t, &types.ChangeLog{}); n != 0 {
		t.Fatalf("change log entries=%d, want 0", n)
	}
}

func TestApplyRevisionUnitComparisonIgnoresCase(t *testing.T) {
	env := newRevisionEnv(t)
	seedRevisable(t, env, nil)

	res, err := env.revision.ApplyRevision(context.Background(), RevisionInput{
		DeliveryNoteRefNo:    "DN-1",
		ItemNo:               1,
		RevisedUnitOfMeasure: pointers.String("M2"),
	})
	if err != nil {
		t.Fatalf("ApplyRevision: %v", err)
	}
	if res.Message != RevisionMessageNoChanges {
		t.Fatalf("message=%q", res.Message)
	}
}

func TestApplyRevisionWithoutDescription(t *testing.T) {
	env := newRevisionEnv(t)
	item := seedRevisable(t, env, nil)

	res, err := env.revision.ApplyRevision(context.Background(), RevisionInput{
		DeliveryNoteRefNo:    "DN-1",
		ItemNo:               1,
		RevisedUnitOfMeasure: pointers.String("kg"),
		RevisedPhaseID:       pointers.Uint(2),
	})
	if err != nil {
		t.Fatalf("ApplyRevision: %v", err)
	}
	if !res.DescriptionMissing || res.Message != RevisionMessageDescriptionMissing {
		t.Fatalf("unexpected result %+v", res)
	}
	got := env.reload(t, item.ID)
	if got.RevisedUnitOfMeasure != "kg" || pointers.Deref(got.RevisedPhaseID) != 2 || !got.Approved {
		t.Fatalf("fields not persisted: %+v", got)
	}
	if got.ErrorCode != types.ErrorNone {
		t.Fatalf("error_code=%d, want 0", got.ErrorCode)
	}
	if n := env.count(t, &types.ProductMapping{}); n != 0 {
		t.Fatalf("mappings=%d, want 0", n)
	}
	if n := env.count(t, &types.ChangeLog{}); n != 0 {
		t.Fatalf("change log entries=%d, want 0", n)
	}
}

func TestApplyRevisionUnknownUnitFlagsRecord(t *testing.T) {
	env := newRevisionEnv(t)
	item := seedRevisable(t, env, nil)

	res, err := env.revision.ApplyRevision(context.Background(), RevisionInput{
		DeliveryNoteRefNo:    "DN-1",
		ItemNo:               1,
		RevisedUnitOfMeasure: pointers.String("bundles"),
	})
	if err != nil {
		t.Fatalf("ApplyRevision: %v", err)
	}
	if res.ErrorCode != types.ErrorExternalService {
		t.Fatalf("error_code=%d, want 1", res.ErrorCode)
	}
	got := env.reload(t, item.ID)
	if got.RevisedUnitOfMeasure != "bundles" || got.ErrorCode != types.ErrorExternalService {
		t.Fatalf("unexpected record state %+v", got)
	}
}

func TestApplyRevisionNonNumericQuantity(t *testing.T) {
	env := newRevisionEnv(t)
	item := seedRevisable(t, env, nil)

	res, err := env.revision.ApplyRevision(context.Background(), RevisionInput{
		DeliveryNoteRefNo:         "DN-1",
		ItemNo:                    1,
		RevisedQuantity:           pointers.String("ten"),
		RevisedProductDescription: pointers.String("Facing brick"),
	})
	if err != nil {
		t.Fatalf("ApplyRevision: %v", err)
	}
	if res.ErrorCode != types.ErrorInvalidQuantity {
		t.Fatalf("error_code=%d, want 2", res.ErrorCode)
	}
	got := env.reload(t, item.ID)
	if got.RevisedQuantity != nil || got.ErrorCode != types.ErrorInvalidQuantity {
		t.Fatalf("unexpected record state %+v", got)
	}
}
