package model

// AdminAccount is an operator allowed to provision domain accounts.
// The bootstrap user is named "admin" and is the only one permitted to
// create further admins.
type AdminAccount struct {
	User         string `gorm:"column:user;primaryKey"`
	PasswordHash string `gorm:"column:password_hash"`
}

func (AdminAccount) TableName() string {
	return "admin_account"
}
