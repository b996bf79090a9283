package reference

// DirectoryUser maps an identity-provider user id to the customer it belongs to.
type DirectoryUser struct {
	ID                 uint   `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	UserID             string `gorm:"column:user_id;not null;uniqueIndex" json:"user_id"`
	CustomerRef        string `gorm:"column:customer_ref" json:"customer_ref"`
	VerificationStatus string `gorm:"column:verification_status" json:"verification_status"`
}

func (DirectoryUser) TableName() string { return "users" }
