package model

// PasswordAccount authenticates record updates with HTTP basic auth.
// The domain doubles as the login identifier.
type PasswordAccount struct {
	Domain       string `gorm:"column:domain;primaryKey"`
	PasswordHash string `gorm:"column:password_hash"`
	CreatedBy    string `gorm:"column:created_by"`
	// Disabled must be true to disable the account. Null or false means
	// the account is enabled.
	Disabled *bool `gorm:"column:disabled"`
}

func (PasswordAccount) TableName() string {
	return "password_account"
}

// Enabled reports whether the account may authenticate.
func (a PasswordAccount) Enabled() bool {
	return a.Disabled == nil || !*a.Disabled
}
