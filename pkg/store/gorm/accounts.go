package gorm

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"gorm.io/gorm"

	"github.com/ftddns/ftddns/pkg/model"
	"github.com/ftddns/ftddns/pkg/store"
)

// Ensure AccountStore implements store.AccountStore
var _ store.AccountStore = (*AccountStore)(nil)

// AccountStore implements store.AccountStore using GORM.
type AccountStore struct {
	db *gorm.DB
}

// NewAccountStore creates a new AccountStore.
func NewAccountStore(db *gorm.DB) *AccountStore {
	return &AccountStore{db: db}
}

func (s *AccountStore) DomainExists(ctx context.Context, domain string) (bool, error) {
	return domainExists(s.db.WithContext(ctx), domain)
}

func domainExists(tx *gorm.DB, domain string) (bool, error) {
	var count int64
	err := tx.Model(&model.PasswordAccount{}).Where("domain = ?", domain).Count(&count).Error
	if err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}

	err = tx.Model(&model.SigningAccount{}).Where("domain = ?", domain).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *AccountStore) CreatePasswordAccount(ctx context.Context, domain, passwordHash, createdBy string) error {
	disabled := false
	account := model.PasswordAccount{
		Domain:       domain,
		PasswordHash: passwordHash,
		CreatedBy:    createdBy,
		Disabled:     &disabled,
	}
	return s.createDomainAccount(ctx, domain, &account)
}

func (s *AccountStore) CreateSigningAccount(ctx context.Context, domain, publicKeyPEM, createdBy string) error {
	disabled := false
	account := model.SigningAccount{
		Domain:    domain,
		PublicKey: publicKeyPEM,
		CreatedBy: createdBy,
		Disabled:  &disabled,
	}
	return s.createDomainAccount(ctx, domain, &account)
}

// createDomainAccount runs the cross-table existence check and the insert in
// one transaction. The check is not a substitute for the primary-key
// constraint: a concurrent insert still surfaces as a unique violation, which
// is mapped to ErrDuplicateDomain as the authoritative signal.
func (s *AccountStore) createDomainAccount(ctx context.Context, domain string, account interface{}) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := domainExists(tx, domain)
		if err != nil {
			return err
		}
		if exists {
			return store.ErrDuplicateDomain
		}
		return tx.Create(account).Error
	})
	if isUniqueViolation(err) {
		return store.ErrDuplicateDomain
	}
	return err
}

func (s *AccountStore) CreateAdmin(ctx context.Context, user, passwordHash string) error {
	account := model.AdminAccount{
		User:         user,
		PasswordHash: passwordHash,
	}
	err := s.db.WithContext(ctx).Create(&account).Error
	if isUniqueViolation(err) {
		return store.ErrDuplicateUser
	}
	return err
}

func (s *AccountStore) FindAdmin(ctx context.Context, user string) (*model.AdminAccount, error) {
	var account model.AdminAccount
	err := s.db.WithContext(ctx).Where(`"user" = ?`, user).First(&account).Error
	if err != nil {
		return nil, mapFindError(err)
	}
	return &account, nil
}

func (s *AccountStore) FindPasswordAccount(ctx context.Context, domain string) (*model.PasswordAccount, error) {
	var account model.PasswordAccount
	err := s.db.WithContext(ctx).Where("domain = ?", domain).First(&account).Error
	if err != nil {
		return nil, mapFindError(err)
	}
	return &account, nil
}

func (s *AccountStore) FindSigningAccount(ctx context.Context, domain string) (*model.SigningAccount, error) {
	var account model.SigningAccount
	err := s.db.WithContext(ctx).Where("domain = ?", domain).First(&account).Error
	if err != nil {
		return nil, mapFindError(err)
	}
	return &account, nil
}

func mapFindError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}
	return err
}

// uniqueViolation is the PostgreSQL error code for unique-constraint failures.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
