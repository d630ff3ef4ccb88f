package endpoints

import (
	"context"
	"io"
	"log/slog"
	"net/netip"
	"testing"

	"github.com/ftddns/ftddns/pkg/audit"
	"github.com/ftddns/ftddns/pkg/credentials"
	"github.com/ftddns/ftddns/pkg/dnsprovider"
	"github.com/ftddns/ftddns/pkg/model"
	"github.com/ftddns/ftddns/pkg/server"
	"github.com/ftddns/ftddns/pkg/store"
	"github.com/ftddns/ftddns/pkg/updater"
	"github.com/ftddns/ftddns/pkg/zone"
)

// memStore is an in-memory AccountStore for handler tests.
type memStore struct {
	admins   map[string]*model.AdminAccount
	password map[string]*model.PasswordAccount
	signing  map[string]*model.SigningAccount
}

var _ store.AccountStore = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{
		admins:   map[string]*model.AdminAccount{},
		password: map[string]*model.PasswordAccount{},
		signing:  map[string]*model.SigningAccount{},
	}
}

func (m *memStore) DomainExists(_ context.Context, domain string) (bool, error) {
	_, inPassword := m.password[domain]
	_, inSigning := m.signing[domain]
	return inPassword || inSigning, nil
}

func (m *memStore) CreatePasswordAccount(ctx context.Context, domain, passwordHash, createdBy string) error {
	if exists, _ := m.DomainExists(ctx, domain); exists {
		return store.ErrDuplicateDomain
	}
	m.password[domain] = &model.PasswordAccount{Domain: domain, PasswordHash: passwordHash, CreatedBy: createdBy}
	return nil
}

func (m *memStore) CreateSigningAccount(ctx context.Context, domain, publicKeyPEM, createdBy string) error {
	if exists, _ := m.DomainExists(ctx, domain); exists {
		return store.ErrDuplicateDomain
	}
	m.signing[domain] = &model.SigningAccount{Domain: domain, PublicKey: publicKeyPEM, CreatedBy: createdBy}
	return nil
}

func (m *memStore) CreateAdmin(_ context.Context, user, passwordHash string) error {
	if _, ok := m.admins[user]; ok {
		return store.ErrDuplicateUser
	}
	m.admins[user] = &model.AdminAccount{User: user, PasswordHash: passwordHash}
	return nil
}

func (m *memStore) FindAdmin(_ context.Context, user string) (*model.AdminAccount, error) {
	if account, ok := m.admins[user]; ok {
		return account, nil
	}
	return nil, store.ErrNotFound
}

func (m *memStore) FindPasswordAccount(_ context.Context, domain string) (*model.PasswordAccount, error) {
	if account, ok := m.password[domain]; ok {
		return account, nil
	}
	return nil, store.ErrNotFound
}

func (m *memStore) FindSigningAccount(_ context.Context, domain string) (*model.SigningAccount, error) {
	if account, ok := m.signing[domain]; ok {
		return account, nil
	}
	return nil, store.ErrNotFound
}

type recordedChange struct {
	zoneID string
	fqdn   string
	ip     netip.Addr
	ttl    int64
}

type fakeProvider struct {
	changes []recordedChange
	err     error
}

func (f *fakeProvider) ListZones(context.Context) ([]dnsprovider.Zone, error) {
	return nil, nil
}

func (f *fakeProvider) UpsertA(_ context.Context, zoneID, fqdn string, ip netip.Addr, ttl int64) error {
	f.changes = append(f.changes, recordedChange{zoneID: zoneID, fqdn: fqdn, ip: ip, ttl: ttl})
	return f.err
}

// newTestServer builds a fully wired server over in-memory collaborators
// with the zone example.com enabled, and the admin account "admin"/adminPW.
const adminPW = "admin-password"

func newTestServer(t *testing.T) (*server.Server, *memStore, *fakeProvider) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	provider := &fakeProvider{}
	zones := zone.Build(logger, []dnsprovider.Zone{
		{ID: "/hostedzone/Z0AB12CD34EF", Name: "example.com."},
	}, []string{"Z0AB12CD34EF"})

	hasher := credentials.NewHasher()
	accounts := newMemStore()

	adminHash, err := hasher.Hash(adminPW)
	if err != nil {
		t.Fatal(err)
	}
	accounts.admins["admin"] = &model.AdminAccount{User: "admin", PasswordHash: adminHash}

	s := server.NewServer(
		nil,
		accounts,
		zones,
		updater.New(provider, zones, logger, false),
		hasher,
		credentials.NewIssuer(hasher),
		logger,
		audit.NewLogger(io.Discard),
		"https://ddns.example.com",
		"127.0.0.1",
		"0",
	)
	RegisterAll(s)

	return s, accounts, provider
}
