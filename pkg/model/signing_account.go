package model

// SigningAccount authenticates record updates with signed request headers.
// Used when a device cannot make encrypted connections; the stored public
// key verifies the signature of each request.
type SigningAccount struct {
	Domain string `gorm:"column:domain;primaryKey"`
	// PublicKey is the PEM encoding of the account's RSA public key.
	PublicKey string `gorm:"column:public_key"`
	CreatedBy string `gorm:"column:created_by"`
	// Disabled must be true to disable the account. Null or false means
	// the account is enabled.
	Disabled *bool `gorm:"column:disabled"`
}

func (SigningAccount) TableName() string {
	return "signing_account"
}

// Enabled reports whether the account may authenticate.
func (a SigningAccount) Enabled() bool {
	return a.Disabled == nil || !*a.Disabled
}
