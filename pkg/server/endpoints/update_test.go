package endpoints

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ftddns/ftddns/pkg/authenticator/signature"
	"github.com/ftddns/ftddns/pkg/updater"
)

// End-to-end password scenario: the admin provisions foo.example.com, the
// client authenticates with the issued credentials and updates its record.
func TestSecureUpdate_EndToEnd(t *testing.T) {
	s, _, provider := newTestServer(t)

	req := httptest.NewRequest("GET", "/mgmt/add-domain/password/foo.example.com", nil)
	req.SetBasicAuth("admin", adminPW)
	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// The issued password appears in the command-download snippet.
	match := regexp.MustCompile(`(?m)^\s{4}([A-Za-z0-9]{24})$`).FindStringSubmatch(rec.Body.String())
	require.NotNil(t, match, "response must contain the issued 24-character password")
	password := match[1]

	req = httptest.NewRequest("GET", "/secure/nic/update", nil)
	req.SetBasicAuth("foo.example.com", password)
	req.RemoteAddr = "198.51.100.7:39812"
	rec = httptest.NewRecorder()
	s.Router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, provider.changes, 1)
	assert.Equal(t, recordedChange{
		zoneID: "/hostedzone/Z0AB12CD34EF",
		fqdn:   "foo.example.com",
		ip:     netip.MustParseAddr("198.51.100.7"),
		ttl:    updater.RecordTTL,
	}, provider.changes[0])
}

func TestSecureUpdate_WrongPassword(t *testing.T) {
	s, accounts, provider := newTestServer(t)

	hash, err := s.Hasher.Hash("right")
	require.NoError(t, err)
	require.NoError(t, accounts.CreatePasswordAccount(context.Background(), "foo.example.com", hash, "admin"))

	req := httptest.NewRequest("GET", "/secure/nic/update", nil)
	req.SetBasicAuth("foo.example.com", "wrong")
	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, provider.changes)
}

func TestSecureUpdate_NoCredentials(t *testing.T) {
	s, _, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, httptest.NewRequest("GET", "/secure/nic/update", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSecureUpdate_IPv6ClientRejected(t *testing.T) {
	s, accounts, provider := newTestServer(t)

	hash, err := s.Hasher.Hash("hunter2")
	require.NoError(t, err)
	require.NoError(t, accounts.CreatePasswordAccount(context.Background(), "foo.example.com", hash, "admin"))

	req := httptest.NewRequest("GET", "/secure/nic/update", nil)
	req.SetBasicAuth("foo.example.com", "hunter2")
	req.RemoteAddr = "[2001:db8::1]:39812"
	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotAcceptable, rec.Code)
	assert.Empty(t, provider.changes)
}

func signedRequest(t *testing.T, key *rsa.PrivateKey, date, domain string) *http.Request {
	t.Helper()
	digest := sha256.Sum256([]byte(date + ";" + domain))
	sig, err := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA256, digest[:])
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/unsecure/nic/update", nil)
	req.Header.Set(signature.HeaderDate, date)
	req.Header.Set(signature.HeaderDomain, domain)
	req.Header.Set(signature.HeaderSignature, base64.StdEncoding.EncodeToString(sig))
	req.RemoteAddr = "198.51.100.7:39812"
	return req
}

func TestUnsecureUpdate_EndToEnd(t *testing.T) {
	s, accounts, provider := newTestServer(t)

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	pemKey, err := signature.EncodePublicKeyPEM(&key.PublicKey)
	require.NoError(t, err)
	require.NoError(t, accounts.CreateSigningAccount(context.Background(), "bar.example.com", pemKey, "admin"))

	date := time.Now().UTC().Format(time.RFC3339)
	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, signedRequest(t, key, date, "bar.example.com"))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, provider.changes, 1)
	assert.Equal(t, "bar.example.com", provider.changes[0].fqdn)
}

// An expired signature must be rejected before any provider call.
func TestUnsecureUpdate_ExpiredTimestamp(t *testing.T) {
	s, accounts, provider := newTestServer(t)

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	pemKey, err := signature.EncodePublicKeyPEM(&key.PublicKey)
	require.NoError(t, err)
	require.NoError(t, accounts.CreateSigningAccount(context.Background(), "bar.example.com", pemKey, "admin"))

	date := time.Now().UTC().Add(-90 * time.Second).Format(time.RFC3339)
	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, signedRequest(t, key, date, "bar.example.com"))

	assert.Equal(t, http.StatusNotAcceptable, rec.Code)
	assert.Empty(t, provider.changes, "no provider call may be made")
}

func TestUnsecureUpdate_MissingHeaders(t *testing.T) {
	s, _, _ := newTestServer(t)

	req := httptest.NewRequest("GET", "/unsecure/nic/update", nil)
	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusPreconditionFailed, rec.Code)
}

func TestUnsecureUpdate_UnknownDomain(t *testing.T) {
	s, _, _ := newTestServer(t)

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	date := time.Now().UTC().Format(time.RFC3339)
	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, signedRequest(t, key, date, "ghost.example.com"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSecureUpdate_ProviderDown(t *testing.T) {
	s, accounts, provider := newTestServer(t)
	provider.err = assert.AnError

	hash, err := s.Hasher.Hash("hunter2")
	require.NoError(t, err)
	require.NoError(t, accounts.CreatePasswordAccount(context.Background(), "foo.example.com", hash, "admin"))

	req := httptest.NewRequest("GET", "/secure/nic/update", nil)
	req.SetBasicAuth("foo.example.com", "hunter2")
	req.RemoteAddr = "198.51.100.7:39812"
	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
}
