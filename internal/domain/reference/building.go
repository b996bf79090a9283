package reference

// Building is read by the match pipeline for its gross internal area.
type Building struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"column:name;not null" json:"name"`
	CustomerRef string  `gorm:"column:customer_ref;index" json:"customer_ref"`
	CityID      *uint   `gorm:"column:city_id" json:"city_id,omitempty"`
	GIA         float64 `gorm:"column:gia;not null;default:0" json:"gia"`
	Status      bool    `gorm:"column:status;not null;default:true" json:"status"`
}

func (Building) TableName() string { return "app_building" }
