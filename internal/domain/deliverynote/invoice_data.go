package deliverynote

import "time"

// InvoiceData is the reporting projection written once per successfully
// matched line item. Rows are never updated by the pipeline.
type InvoiceData struct {
	ID                          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	LineItemID                  uint      `gorm:"column:line_item_id;index" json:"line_item_id"`
	CustomerRef                 string    `gorm:"column:customer_ref;index" json:"customer_ref"`
	DeliveryNoteRefNo           string    `gorm:"column:delivery_note_ref_no;index" json:"delivery_note_ref_no"`
	SupplierName                string    `gorm:"column:supplier_name" json:"supplier_name"`
	DataSource                  string    `gorm:"column:data_source" json:"data_source"`
	ProductDescription          string    `gorm:"column:product_description" json:"product_description"`
	MaterialName                string    `gorm:"column:material_name" json:"material_name"`
	EntryTime                   time.Time `gorm:"column:entry_time;type:date" json:"entry_time"`
	Quantity                    float64   `gorm:"column:quantity" json:"quantity"`
	UnitOfMeasure               string    `gorm:"column:unit_of_measure" json:"unit_of_measure"`
	PhaseID                     *uint     `gorm:"column:phase_id" json:"phase_id,omitempty"`
	PhaseName                   string    `gorm:"column:phase_name" json:"phase_name"`
	KgCO2                       float64   `gorm:"column:kgco2" json:"kgco2"`
	ProductManufacturingCompany string    `gorm:"column:product_manufacturing_company" json:"product_manufacturing_company"`
	CreatedAt                   time.Time `json:"created_at"`
}

func (InvoiceData) TableName() string { return "invoice_data" }
