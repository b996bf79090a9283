package deliverynote

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// LineItem is one delivery-note line as captured at upload, plus the user's
// overrides and the enrichment written back by the match pipeline.
type LineItem struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	DeliveryNoteRefNo string `gorm:"column:delivery_note_ref_no;not null;uniqueIndex:idx_line_item_note_item" json:"delivery_note_ref_no"`
	ItemNo            int64  `gorm:"column:item_no;not null;uniqueIndex:idx_line_item_note_item" json:"item_no"`
	BuildingID        *uint  `gorm:"column:building_id;index" json:"building_id,omitempty"`
	PhaseID           *uint  `gorm:"column:phase_id" json:"phase_id,omitempty"`
	UserID            string `gorm:"column:user_id" json:"user_id"`
	CustomerRef       string `gorm:"column:customer_ref;index" json:"customer_ref"`

	// Captured fields. Quantity and DeliveryNoteDate are kept as the raw text
	// that came off the note; normalization happens during matching.
	SupplierName       string     `gorm:"column:supplier_name" json:"supplier_name"`
	DeliveryCountry    string     `gorm:"column:delivery_country" json:"delivery_country"`
	DeliveryNoteDate   string     `gorm:"column:delivery_note_date" json:"delivery_note_date"`
	ProductDescription string     `gorm:"column:product_description" json:"product_description"`
	UnitOfMeasure      string     `gorm:"column:unit_of_measure" json:"unit_of_measure"`
	Quantity           string     `gorm:"column:quantity" json:"quantity"`
	EntryTime          *time.Time `gorm:"column:entry_time" json:"entry_time,omitempty"`

	RevisedProductDescription string           `gorm:"column:revised_product_description" json:"revised_product_description"`
	RevisedUnitOfMeasure      string           `gorm:"column:revised_unit_of_measure" json:"revised_unit_of_measure"`
	RevisedQuantity           *decimal.Decimal `gorm:"column:revised_quantity;type:decimal(20,10)" json:"revised_quantity,omitempty"`
	RevisedPhaseID            *uint            `gorm:"column:revised_phase_id" json:"revised_phase_id,omitempty"`
	RevisedUserID             string           `gorm:"column:revised_user_id" json:"revised_user_id"`
	RevisedDate               *time.Time       `gorm:"column:revised_date" json:"revised_date,omitempty"`

	ProductName                  *string        `gorm:"column:product_name" json:"product_name,omitempty"`
	MaterialName                 *string        `gorm:"column:material_name" json:"material_name,omitempty"`
	ProductCompanyName           *string        `gorm:"column:product_company_name" json:"product_company_name,omitempty"`
	ProductMatchScore            *float64       `gorm:"column:product_match_score" json:"product_match_score,omitempty"`
	GlobalWarmingPotentialFossil *float64       `gorm:"column:global_warming_potential_fossil" json:"global_warming_potential_fossil,omitempty"`
	DeclaredUnit                 *string        `gorm:"column:declared_unit" json:"declared_unit,omitempty"`
	ScalingFactor                *float64       `gorm:"column:scaling_factor" json:"scaling_factor,omitempty"`
	DataSource                   *string        `gorm:"column:data_source" json:"data_source,omitempty"`
	QuantityValue                *float64       `gorm:"column:quantity_value" json:"quantity_value,omitempty"`
	KgCO2                        *float64       `gorm:"column:kgco2" json:"kgco2,omitempty"`
	Exception                    string         `gorm:"column:exception" json:"exception"`
	ProcessedTimestamp           *time.Time     `gorm:"column:processed_timestamp" json:"processed_timestamp,omitempty"`
	MatchPayload                 datatypes.JSON `gorm:"column:match_payload" json:"-"`

	PackageType                 *string  `gorm:"column:package_type" json:"package_type,omitempty"`
	PackageUnitType             *string  `gorm:"column:package_unit_type" json:"package_unit_type,omitempty"`
	PackageUnitItemCount        *int64   `gorm:"column:package_unit_item_count" json:"package_unit_item_count,omitempty"`
	PackageUnitItemLength       *float64 `gorm:"column:package_unit_item_length" json:"package_unit_item_length,omitempty"`
	PackageUnitItemWidth        *float64 `gorm:"column:package_unit_item_width" json:"package_unit_item_width,omitempty"`
	PackageUnitItemHeight       *float64 `gorm:"column:package_unit_item_height" json:"package_unit_item_height,omitempty"`
	PackageUnitItemDimensionUOM *string  `gorm:"column:package_unit_item_dimension_uom" json:"package_unit_item_dimension_uom,omitempty"`
	PackageUnitItemArea         *float64 `gorm:"column:package_unit_item_area" json:"package_unit_item_area,omitempty"`
	PackageUnitItemAreaUOM      *string  `gorm:"column:package_unit_item_area_uom" json:"package_unit_item_area_uom,omitempty"`
	MassPerDeclaredUnit         *float64 `gorm:"column:mass_per_declared_unit" json:"mass_per_declared_unit,omitempty"`
	Density                     *float64 `gorm:"column:density" json:"density,omitempty"`
	LinearDensity               *float64 `gorm:"column:linear_density" json:"linear_density,omitempty"`

	Processed bool      `gorm:"column:processed;not null;default:false;index:idx_line_item_queue" json:"processed"`
	Approved  bool      `gorm:"column:approved;not null;default:false;index:idx_line_item_queue" json:"approved"`
	ErrorCode ErrorCode `gorm:"column:error_code;not null;default:0;index:idx_line_item_queue" json:"error_code"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (LineItem) TableName() string { return "app_deliverynote_data" }

// ActingUserID is the user whose revision is current, falling back to the uploader.
func (li *LineItem) ActingUserID() string {
	if li.RevisedUserID != "" {
		return li.RevisedUserID
	}
	return li.UserID
}
