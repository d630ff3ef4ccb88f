package authenticator

import (
	"context"
	"errors"
	"fmt"

	"github.com/ftddns/ftddns/pkg/credentials"
	"github.com/ftddns/ftddns/pkg/store"
)

var (
	// ErrBadCredentials indicates an unknown login or a password mismatch.
	// The two cases share one error so callers cannot enumerate accounts.
	ErrBadCredentials = errors.New("invalid credentials")
	// ErrAccountDisabled indicates the account exists but is disabled.
	ErrAccountDisabled = errors.New("account is disabled")
)

// Basic authenticates HTTP basic-auth credentials for the two account kinds
// that use passwords: admins (username = user) and password accounts
// (username = domain).
type Basic struct {
	accounts store.AccountStore
	hasher   *credentials.Hasher
}

// NewBasic creates a Basic authenticator.
func NewBasic(accounts store.AccountStore, hasher *credentials.Hasher) *Basic {
	return &Basic{accounts: accounts, hasher: hasher}
}

// Admin authenticates an admin account and returns its user name.
func (b *Basic) Admin(ctx context.Context, user, password string) (string, error) {
	account, err := b.accounts.FindAdmin(ctx, user)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrBadCredentials
		}
		return "", fmt.Errorf("looking up admin %q: %w", user, err)
	}

	if err := b.verify(password, account.PasswordHash); err != nil {
		return "", err
	}
	return account.User, nil
}

// Domain authenticates a password account and returns the authorized domain.
// Disabled accounts are rejected before the password is checked.
func (b *Basic) Domain(ctx context.Context, domain, password string) (string, error) {
	account, err := b.accounts.FindPasswordAccount(ctx, domain)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrBadCredentials
		}
		return "", fmt.Errorf("looking up password account %q: %w", domain, err)
	}

	if !account.Enabled() {
		return "", ErrAccountDisabled
	}

	if err := b.verify(password, account.PasswordHash); err != nil {
		return "", err
	}
	return account.Domain, nil
}

func (b *Basic) verify(password, encodedHash string) error {
	match, err := b.hasher.Verify(password, encodedHash)
	if err != nil {
		return fmt.Errorf("verifying password: %w", err)
	}
	if !match {
		return ErrBadCredentials
	}
	return nil
}
