package store

import (
	"context"
	"errors"

	"github.com/ftddns/ftddns/pkg/model"
)

var (
	// ErrNotFound indicates the requested account does not exist.
	ErrNotFound = errors.New("account not found")
	// ErrDuplicateDomain indicates the domain already owns an account.
	ErrDuplicateDomain = errors.New("domain already has an account")
	// ErrDuplicateUser indicates the admin user name is already taken.
	ErrDuplicateUser = errors.New("user already has an account")
)

// AccountStore abstracts account persistence.
//
// Domain uniqueness spans both domain-owning account kinds: a domain present
// in password_account may not be created in signing_account and vice versa.
// Create operations run the existence check and the insert in one
// transaction, and treat a unique-constraint violation from the database as
// the authoritative duplicate signal.
type AccountStore interface {
	// DomainExists reports whether the domain owns an account of either kind.
	DomainExists(ctx context.Context, domain string) (bool, error)

	// CreatePasswordAccount inserts a password account.
	// Returns ErrDuplicateDomain if the domain is already taken.
	CreatePasswordAccount(ctx context.Context, domain, passwordHash, createdBy string) error

	// CreateSigningAccount inserts a signing account with a PEM public key.
	// Returns ErrDuplicateDomain if the domain is already taken.
	CreateSigningAccount(ctx context.Context, domain, publicKeyPEM, createdBy string) error

	// CreateAdmin inserts an admin account.
	// Returns ErrDuplicateUser if the user already exists.
	CreateAdmin(ctx context.Context, user, passwordHash string) error

	// FindAdmin returns the admin account or ErrNotFound.
	FindAdmin(ctx context.Context, user string) (*model.AdminAccount, error)

	// FindPasswordAccount returns the password account or ErrNotFound.
	FindPasswordAccount(ctx context.Context, domain string) (*model.PasswordAccount, error)

	// FindSigningAccount returns the signing account or ErrNotFound.
	FindSigningAccount(ctx context.Context, domain string) (*model.SigningAccount, error)
}
