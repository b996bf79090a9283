package deliverynote

import (
	"time"

	"github.com/shopspring/decimal"
)

// ChangeLog is an append-only before/after snapshot of one accepted revision.
type ChangeLog struct {
	ID                uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	DeliveryNoteRefNo string `gorm:"column:delivery_note_ref_no;index" json:"delivery_note_ref_no"`
	ItemID            int64  `gorm:"column:item_id" json:"item_id"`
	CustomerRefNo     string `gorm:"column:customer_ref_no" json:"customer_ref_no"`

	ProductDescription string `gorm:"column:product_description" json:"product_description"`
	UnitOfMeasure      string `gorm:"column:unit_of_measure" json:"unit_of_measure"`
	Quantity           string `gorm:"column:quantity" json:"quantity"`
	PhaseID            *uint  `gorm:"column:phase_id" json:"phase_id,omitempty"`

	OldRevisedProductDescription string           `gorm:"column:old_revised_product_description" json:"old_revised_product_description"`
	OldRevisedUnitOfMeasure      string           `gorm:"column:old_revised_unit_of_measure" json:"old_revised_unit_of_measure"`
	OldRevisedQuantity           *decimal.Decimal `gorm:"column:old_revised_quantity;type:decimal(20,10)" json:"old_revised_quantity,omitempty"`
	OldRevisedPhaseID            *uint            `gorm:"column:old_revised_phase_id" json:"old_revised_phase_id,omitempty"`

	RevisedProductDescription string           `gorm:"column:revised_product_description" json:"revised_product_description"`
	RevisedUnitOfMeasure      string           `gorm:"column:revised_unit_of_measure" json:"revised_unit_of_measure"`
	RevisedQuantity           *decimal.Decimal `gorm:"column:revised_quantity;type:decimal(20,10)" json:"revised_quantity,omitempty"`
	RevisedPhaseID            *uint            `gorm:"column:revised_phase_id" json:"revised_phase_id,omitempty"`
	RevisedUserID             string           `gorm:"column:revised_user_id" json:"revised_user_id"`
	RevisedDate               time.Time        `gorm:"column:revised_date" json:"revised_date"`
}

func (ChangeLog) TableName() string { return "app_deliverynote_change_log" }
