package auth

import "time"

const (
	CredentialLabelFetched   = "BEST ACCESS TOKEN"
	CredentialLabelRefreshed = "REFRESHED BEST ACCESS TOKEN"
)

// Credential is the single stored bearer token for the matching service.
// Fetch and refresh overwrite the same row; there is never more than one.
type Credential struct {
	ID              uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	TokenName       string     `gorm:"column:token_name" json:"token_name"`
	TokenValue      string     `gorm:"column:token_value" json:"-"`
	RefreshToken    string     `gorm:"column:refresh_token" json:"-"`
	TokenExpiryTime *time.Time `gorm:"column:token_expiry_time" json:"token_expiry_time,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (Credential) TableName() string { return "best_token_table" }
