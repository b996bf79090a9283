package services

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/carbonmatch-backend/internal/clients/matchapi"
	"github.com/yungbote/carbonmatch-backend/internal/data/repos"
	types "github.com/yungbote/carbonmatch-backend/internal/domain"
	"github.com/yungbote/carbonmatch-backend/internal/normalize"
	"github.com/yungbote/carbonmatch-backend/internal/observability"
	"github.com/yungbote/carbonmatch-backend/internal/pkg/ctxutil"
	"github.com/yungbote/carbonmatch-backend/internal/pkg/dbctx"
	"github.com/yungbote/carbonmatch-backend/internal/pkg/logger"
	"github.com/yungbote/carbonmatch-backend/internal/pkg/pointers"
)

const MissingScalingFactorException = "Scaling factor is missing"

const (
	OutcomeMatched         = "matched"
	OutcomeSkipped         = "skipped"
	OutcomeExternalFailure = "external_failure"
	OutcomePersistFailure  = "persist_failure"
)

// RecordOutcome reports what one ProcessPending run did to one line item.
type RecordOutcome struct {
	ID        uint            `json:"id"`
	Outcome   string          `json:"outcome"`
	ErrorCode types.ErrorCode `json:"error_code"`
	KgCO2     float64         `json:"kgco2"`
	Projected bool            `json:"projected"`
}

type ProcessSummary struct {
	Selected             int             `json:"selected"`
	Processed            int             `json:"processed"`
	Skipped              int             `json:"skipped"`
	ExternalFailures     int             `json:"external_failures"`
	InvalidQuantity      int             `json:"invalid_quantity"`
	MissingScalingFactor int             `json:"missing_scaling_factor"`
	Projected            int             `json:"projected"`
	PersistFailures      int             `json:"persist_failures"`
	Records              []RecordOutcome `json:"records"`
}

type MatchEnrichmentService interface {
	// ProcessPending enriches every selectable line item once. Only a failure
	// to select the work is returned; per-record problems land in the summary.
	ProcessPending(ctx context.Context) (ProcessSummary, error)
}

type MatchEnrichmentConfig struct {
	// Concurrency above 1 processes records in a bounded pool.
	Concurrency int
}

type matchEnrichmentService struct {
	db        *gorm.DB
	log       *logger.Logger
	lineItems repos.LineItemRepo
	invoices  repos.InvoiceDataRepo
	buildings repos.BuildingRepo
	phases    repos.PhaseRepo
	users     repos.DirectoryUserRepo
	creds     CredentialManager
	api       matchapi.Client
	cfg       MatchEnrichmentConfig
	now       func() time.Time
}

func NewMatchEnrichmentService(
	db *gorm.DB,
	baseLog *logger.Logger,
	lineItems repos.LineItemRepo,
	invoices repos.InvoiceDataRepo,
	buildings repos.BuildingRepo,
	phases repos.PhaseRepo,
	users repos.DirectoryUserRepo,
	creds CredentialManager,
	api matchapi.Client,
	cfg MatchEnrichmentConfig,
) MatchEnrichmentService {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return &matchEnrichmentService{
		db:        db,
		log:       baseLog.With("service", "MatchEnrichmentService"),
		lineItems: lineItems,
		invoices:  invoices,
		buildings: buildings,
		phases:    phases,
		users:     users,
		creds:     creds,
		api:       api,
		cfg:       cfg,
		now:       time.Now,
	}
}

// ComputeCarbon returns (gwp / scalingFactor) * (quantity / grossInternalArea).
// ok is false when any input is zero or the area is not positive, which the
// pipeline reports as a missing scaling factor.
func ComputeCarbon(gwp, scalingFactor, quantity, grossInternalArea float64) (kgco2 float64, ok bool) {
	if gwp == 0 || scalingFactor == 0 || quantity == 0 || grossInternalArea <= 0 {
		return 0, false
	}
	return (gwp / scalingFactor) * (quantity / grossInternalArea), true
}

func (s *matchEnrichmentService) ProcessPending(ctx context.Context) (summary ProcessSummary, err error) {
	ctx = ctxutil.Default(ctx)
	ctx, finish := observability.StartSpan(ctx, "match.process_pending")
	defer func() { finish(err) }()

	pending, err := s.lineItems.ListPending(dbctx.Context{Ctx: ctx})
	if err != nil {
		return summary, fmt.Errorf("select pending line items: %w", err)
	}
	s.log.Info("Found unprocessed records", append(ctxutil.LogFields(ctx), "count", len(pending))...)

	outcomes := make([]RecordOutcome, len(pending))
	if s.cfg.Concurrency <= 1 || len(pending) <= 1 {
		for i, item := range pending {
			outcomes[i] = s.processRecord(ctx, item)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.cfg.Concurrency)
		for i, item := range pending {
			g.Go(func() error {
				outcomes[i] = s.processRecord(gctx, item)
				return nil
			})
		}
		_ = g.Wait()
	}

	summary.Selected = len(pending)
	summary.Records = outcomes
	for _, o := range outcomes {
		switch o.Outcome {
		case OutcomeSkipped:
			summary.Skipped++
		case OutcomeExternalFailure:
			summary.ExternalFailures++
		case OutcomePersistFailure:
			summary.PersistFailures++
		case OutcomeMatched:
			summary.Processed++
			if o.ErrorCode == types.ErrorInvalidQuantity {
				summary.InvalidQuantity++
			}
			if o.ErrorCode == types.ErrorMissingScalingFactor {
				summary.MissingScalingFactor++
			}
			if o.Projected {
				summary.Projected++
			}
		}
	}
	s.log.Info("Finished processing records",
		append(ctxutil.LogFields(ctx),
			"selected", summary.Selected,
			"processed", summary.Processed,
			"skipped", summary.Skipped,
			"external_failures", summary.ExternalFailures,
			"persist_failures", summary.PersistFailures,
			"projected", summary.Projected,
		)...,
	)
	return summary, nil
}

var enrichmentColumns = []string{
	"delivery_note_date",
	"customer_ref",
	"product_name",
	"material_name",
	"product_company_name",
	"product_match_score",
	"global_warming_potential_fossil",
	"declared_unit",
	"scaling_factor",
	"data_source",
	"quantity_value",
	"kgco2",
	"exception",
	"processed_timestamp",
	"match_payload",
	"package_type",
	"package_unit_type",
	"package_unit_item_count",
	"package_unit_item_length",
	"package_unit_item_width",
	"package_unit_item_height",
	"package_unit_item_dimension_uom",
	"package_unit_item_area",
	"package_unit_item_area_uom",
	"mass_per_declared_unit",
	"density",
	"linear_density",
	"processed",
	"approved",
	"error_code",
	"updated_at",
}

var externalFailureColumns = []string{"error_code", "approved", "updated_at"}

func (s *matchEnrichmentService) processRecord(ctx context.Context, item *types.LineItem) RecordOutcome {
	out := RecordOutcome{ID: item.ID}
	log := s.log.With(append(ctxutil.LogFields(ctx), "line_item_id", item.ID)...)

	if item.DeliveryNoteDate != "" {
		iso, err := normalize.ISODate(item.DeliveryNoteDate)
		if err != nil {
			log.Warn("Skipping record due to invalid date format", "delivery_note_date", item.DeliveryNoteDate)
			out.Outcome = OutcomeSkipped
			return out
		}
		item.DeliveryNoteDate = iso
	}

	description := normalize.Effective(item.ProductDescription, item.RevisedProductDescription)
	query := description + " " + item.DeliveryCountry

	ctx, finish := observability.StartSpan(ctx, "match.process_record", attribute.Int64("line_item.id", int64(item.ID)))
	var spanErr error
	defer func() { finish(spanErr) }()

	result, err := s.match(ctx, query)
	if err != nil {
		spanErr = err
		log.Error("Match request failed", "query", query, "error", err)
		item.ErrorCode = types.ErrorExternalService
		item.Approved = false
		item.UpdatedAt = s.now().UTC()
		if perr := s.lineItems.UpdateColumns(dbctx.Context{Ctx: ctx}, item, externalFailureColumns); perr != nil {
			log.Error("Failed to persist external failure", "error", perr)
			out.Outcome = OutcomePersistFailure
			out.ErrorCode = types.ErrorExternalService
			return out
		}
		out.Outcome = OutcomeExternalFailure
		out.ErrorCode = types.ErrorExternalService
		return out
	}

	code := types.ErrorNone
	unit := normalize.Effective(item.UnitOfMeasure, item.RevisedUnitOfMeasure)
	s.applyMatch(item, result, unit)

	customerRef, err := s.users.CustomerRefFor(dbctx.Context{Ctx: ctx}, item.ActingUserID())
	if err != nil {
		log.Warn("Customer lookup failed", "error", err)
		customerRef = ""
	}
	item.CustomerRef = customerRef

	qty, err := normalize.QuantityFloat(normalize.EffectiveQuantity(item.Quantity, item.RevisedQuantity))
	if err != nil {
		log.Warn("Quantity is not numeric", "quantity", item.Quantity)
		code = code.Merge(types.ErrorInvalidQuantity)
		item.QuantityValue = nil
	} else {
		item.QuantityValue = pointers.Float64(qty)
	}

	gia := s.grossInternalArea(ctx, log, item.BuildingID)
	kgco2, ok := ComputeCarbon(
		pointers.Deref(item.GlobalWarmingPotentialFossil),
		pointers.Deref(item.ScalingFactor),
		qty,
		gia,
	)
	if ok {
		item.KgCO2 = pointers.Float64(kgco2)
		item.Exception = ""
	} else {
		item.KgCO2 = pointers.Float64(0)
		item.ScalingFactor = pointers.Float64(0)
		item.Exception = MissingScalingFactorException
		code = code.Merge(types.ErrorMissingScalingFactor)
	}

	now := s.now().UTC()
	item.ErrorCode = code
	item.Processed = true
	item.Approved = false
	item.ProcessedTimestamp = &now
	item.UpdatedAt = now

	projected := false
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if err := s.lineItems.UpdateColumns(dbc, item, enrichmentColumns); err != nil {
			return fmt.Errorf("save line item: %w", err)
		}
		if pointers.Deref(item.ScalingFactor) == 0 {
			return nil
		}
		row, err := s.projection(dbc, log, item, description, unit, qty)
		if err != nil {
			return err
		}
		if _, err := s.invoices.Create(dbc, []*types.InvoiceData{row}); err != nil {
			return fmt.Errorf("create invoice data: %w", err)
		}
		projected = true
		return nil
	})
	if err != nil {
		spanErr = err
		log.Error("Failed to persist enrichment", "error", err)
		out.Outcome = OutcomePersistFailure
		out.ErrorCode = code
		return out
	}
	if projected {
		log.Info("Data copied to InvoiceData")
	}
	log.Debug("Record updated", "error_code", code, "kgco2", kgco2)

	out.Outcome = OutcomeMatched
	out.ErrorCode = code
	out.KgCO2 = kgco2
	out.Projected = projected
	return out
}

func (s *matchEnrichmentService) match(ctx context.Context, query string) (*matchapi.MatchResult, error) {
	token, err := s.creds.CurrentToken(ctx)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, fmt.Errorf("no usable match API token")
	}
	return s.api.BestMatch(ctx, token, query)
}

// applyMatch copies the match payload onto item. Missing or zero attributes
// become nil.
func (s *matchEnrichmentService) applyMatch(item *types.LineItem, res *matchapi.MatchResult, unit string) {
	product := res.BestProduct
	facts := product.ProductData.MaterialFacts

	item.ProductName = pointers.StringOrNil(product.ProductName)
	item.ProductCompanyName = pointers.StringOrNil(product.ProductCompanyName)
	item.ProductMatchScore = product.ProductMatchScore.Ptr()
	materialName := res.Classification.MaterialType
	if materialName == "" {
		materialName = res.BestMaterial.MaterialName
	}
	item.MaterialName = pointers.StringOrNil(materialName)
	item.GlobalWarmingPotentialFossil = facts.GlobalWarmingPotentialFossil.A1A2A3.Ptr()
	item.DeclaredUnit = pointers.StringOrNil(facts.DeclaredUnit)
	if sf, ok := normalize.ScalingFactorFor(unit, facts.ScalingFactorValues()); ok && sf != 0 {
		item.ScalingFactor = pointers.Float64(sf)
	} else {
		item.ScalingFactor = nil
	}
	item.DataSource = pointers.StringOrNil(facts.DataSource)
	item.MassPerDeclaredUnit = facts.MassPerDeclaredUnit.Ptr()
	item.Density = product.ProductData.Density.Ptr()
	item.LinearDensity = product.ProductData.LinearDensity.Ptr()
	item.PackageUnitItemHeight = res.BestMaterial.MaterialData.Thickness.Ptr()
	item.PackageUnitItemDimensionUOM = pointers.StringOrNil(res.BestMaterial.MaterialData.LengthUnits)
	item.MatchPayload = nil
	if len(res.Raw) > 0 {
		item.MatchPayload = append([]byte(nil), res.Raw...)
	}

	item.PackageType = nil
	item.PackageUnitType = nil
	item.PackageUnitItemCount = nil
	item.PackageUnitItemLength = nil
	item.PackageUnitItemWidth = nil
	item.PackageUnitItemArea = nil
	item.PackageUnitItemAreaUOM = nil
	if qi := res.QuantityInfo; qi != nil {
		item.PackageType = pointers.StringOrNil(qi.Package.Type)
		item.PackageUnitType = pointers.StringOrNil(qi.ItemDetails.BaseUnit)
		if n := qi.Package.ItemCount.Ptr(); n != nil {
			item.PackageUnitItemCount = pointers.Int64(int64(*n))
		}
		item.PackageUnitItemLength = qi.ItemDetails.Length.Ptr()
		item.PackageUnitItemWidth = qi.ItemDetails.Width.Ptr()
		if uom := qi.ItemDetails.LengthUnits; uom != "" {
			item.PackageUnitItemDimensionUOM = pointers.String(uom)
		}
		item.PackageUnitItemArea = qi.ItemDetails.Area.Ptr()
		item.PackageUnitItemAreaUOM = pointers.StringOrNil(qi.ItemDetails.AreaUnits)
		if item.PackageUnitItemHeight == nil {
			item.PackageUnitItemHeight = qi.ItemDetails.Thickness.Ptr()
		}
	}
}

func (s *matchEnrichmentService) grossInternalArea(ctx context.Context, log *logger.Logger, buildingID *uint) float64 {
	if buildingID == nil {
		return 0
	}
	b, err := s.buildings.GetByID(dbctx.Context{Ctx: ctx}, *buildingID)
	if err != nil {
		log.Warn("Building lookup failed", "building_id", *buildingID, "error", err)
		return 0
	}
	if b == nil {
		log.Warn("Building does not exist", "building_id", *buildingID)
		return 0
	}
	return b.GIA
}

// projection builds the reporting row for a matched item. An unknown phase
// leaves the row without a phase.
func (s *matchEnrichmentService) projection(dbc dbctx.Context, log *logger.Logger, item *types.LineItem, description, unit string, qty float64) (*types.InvoiceData, error) {
	row := &types.InvoiceData{
		LineItemID:                  item.ID,
		CustomerRef:                 item.CustomerRef,
		DeliveryNoteRefNo:           item.DeliveryNoteRefNo,
		SupplierName:                item.SupplierName,
		DataSource:                  pointers.Deref(item.DataSource),
		ProductDescription:          description,
		MaterialName:                pointers.Deref(item.MaterialName),
		Quantity:                    qty,
		UnitOfMeasure:               unit,
		KgCO2:                       pointers.Deref(item.KgCO2),
		ProductManufacturingCompany: pointers.Deref(item.ProductCompanyName),
	}
	entry := s.now().UTC()
	if item.EntryTime != nil {
		entry = item.EntryTime.UTC()
	}
	row.EntryTime = time.Date(entry.Year(), entry.Month(), entry.Day(), 0, 0, 0, 0, time.UTC)

	if phaseID := normalize.EffectivePhase(item.PhaseID, item.RevisedPhaseID); phaseID != nil {
		phase, err := s.phases.GetByID(dbc, *phaseID)
		if err != nil {
			return nil, fmt.Errorf("load phase: %w", err)
		}
		if phase == nil {
			log.Error("Phase does not exist", "phase_id", *phaseID)
		} else {
			row.PhaseID = pointers.Uint(phase.ID)
			row.PhaseName = phase.Name
		}
	}
	return row, nil
}
