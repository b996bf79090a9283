package reference

// UnitOfMeasure is one entry of the canonical unit vocabulary.
type UnitOfMeasure struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"column:name;not null;uniqueIndex" json:"name"`
}

func (UnitOfMeasure) TableName() string { return "unit_of_measure" }
