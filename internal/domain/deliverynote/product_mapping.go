package deliverynote

import "time"

// ProductMapping records that a customer corrected one product description to another.
// (customer_ref, product_description, mapped_product_description) is unique.
type ProductMapping struct {
	ID                       uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerRef              string    `gorm:"column:customer_ref;not null;uniqueIndex:idx_product_mapping_triple" json:"customer_ref"`
	ProductDescription       string    `gorm:"column:product_description;not null;uniqueIndex:idx_product_mapping_triple" json:"product_description"`
	MappedProductDescription string    `gorm:"column:mapped_product_description;not null;uniqueIndex:idx_product_mapping_triple" json:"mapped_product_description"`
	UserID                   string    `gorm:"column:user_id" json:"user_id"`
	CreationDate             time.Time `gorm:"column:creation_date;autoCreateTime" json:"creation_date"`
}

func (ProductMapping) TableName() string { return "product_mapping" }
