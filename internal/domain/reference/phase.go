package reference

type Phase struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"column:name;not null" json:"name"`
}

func (Phase) TableName() string { return "app_phase" }
