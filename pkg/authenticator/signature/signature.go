// Package signature validates signed record-update requests.
//
// A signed request carries three headers: a timestamp, the claimed domain
// and a base64 RSA signature over "{date};{domain}". The scheme exists for
// devices that cannot make encrypted connections; the coarse timestamp
// window bounds replay.
package signature

import (
	"context"
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"time"

	"github.com/ftddns/ftddns/pkg/store"
)

// Request headers consumed by the authenticator.
const (
	HeaderDate      = "Ftddns-Date"
	HeaderDomain    = "Ftddns-Domain"
	HeaderSignature = "Ftddns-Signature"
)

// TimeMargin is the accepted skew around the server clock. Timestamps at
// exactly now±TimeMargin are still accepted.
const TimeMargin = 60 * time.Second

var (
	ErrMissingHeaders     = errors.New("missing signature headers")
	ErrMalformedTimestamp = errors.New("timestamp is not valid RFC 3339")
	ErrTimestampInFuture  = errors.New("timestamp is too far in the future")
	ErrTimestampExpired   = errors.New("timestamp is too far in the past")
	ErrDomainNotFound     = errors.New("no signing account for domain")
	ErrAccountDisabled    = errors.New("signing account is disabled")
	ErrMalformedSignature = errors.New("signature is not valid base64")
	ErrSignatureInvalid   = errors.New("signature verification failed")
	// ErrInvalidStoredKey indicates the stored public key does not parse.
	// This is stored-data corruption, not a client error.
	ErrInvalidStoredKey = errors.New("stored public key is not a valid RSA public key")
)

// Authenticator validates one signed request per call. Every failure path
// maps to exactly one of the package errors; no step is retried.
type Authenticator struct {
	accounts store.AccountStore
	now      func() time.Time
}

// New creates an Authenticator using the system clock.
func New(accounts store.AccountStore) *Authenticator {
	return NewWithClock(accounts, time.Now)
}

// NewWithClock creates an Authenticator with an injected clock.
func NewWithClock(accounts store.AccountStore, now func() time.Time) *Authenticator {
	return &Authenticator{accounts: accounts, now: now}
}

// Authenticate runs the validation sequence over the raw header values and
// returns the authenticated domain. Header values are empty when absent.
func (a *Authenticator) Authenticate(ctx context.Context, date, domain, signature string) (string, error) {
	if date == "" || domain == "" || signature == "" {
		return "", ErrMissingHeaders
	}

	ts, err := time.Parse(time.RFC3339, date)
	if err != nil {
		return "", ErrMalformedTimestamp
	}

	now := a.now()
	if ts.After(now.Add(TimeMargin)) {
		return "", ErrTimestampInFuture
	}
	if ts.Before(now.Add(-TimeMargin)) {
		return "", ErrTimestampExpired
	}

	account, err := a.accounts.FindSigningAccount(ctx, domain)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrDomainNotFound
		}
		return "", fmt.Errorf("looking up signing account %q: %w", domain, err)
	}
	if !account.Enabled() {
		return "", ErrAccountDisabled
	}

	rawSignature, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return "", ErrMalformedSignature
	}

	publicKey, err := ParsePublicKey([]byte(account.PublicKey))
	if err != nil {
		return "", ErrInvalidStoredKey
	}

	// The signed message uses the date exactly as received, not the parsed
	// timestamp rendered back out.
	digest := sha256.Sum256([]byte(date + ";" + domain))
	if err := rsa.VerifyPKCS1v15(publicKey, crypto.SHA256, digest[:], rawSignature); err != nil {
		return "", ErrSignatureInvalid
	}

	return domain, nil
}

// ParsePublicKey decodes a PEM RSA public key in either PKIX or PKCS#1 form.
func ParsePublicKey(pemBytes []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, errors.New("no PEM block found")
	}

	if key, err := x509.ParsePKIXPublicKey(block.Bytes); err == nil {
		rsaKey, ok := key.(*rsa.PublicKey)
		if !ok {
			return nil, errors.New("public key is not RSA")
		}
		return rsaKey, nil
	}

	rsaKey, err := x509.ParsePKCS1PublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parsing public key: %w", err)
	}
	return rsaKey, nil
}

// EncodePublicKeyPEM renders a public key as a PKIX PEM block, the canonical
// form stored for signing accounts.
func EncodePublicKeyPEM(key *rsa.PublicKey) (string, error) {
	der, err := x509.MarshalPKIXPublicKey(key)
	if err != nil {
		return "", fmt.Errorf("encoding public key: %w", err)
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})), nil
}
