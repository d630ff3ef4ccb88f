package credentials

import (
	"crypto/rand"
	"fmt"
	"io"
	"sync"
)

const (
	secretLength   = 24
	secretAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// Issuer generates random textual secrets and their hashes.
//
// The randomness source is shared process-wide and guarded by a mutex: only
// one Issue call consumes randomness at a time, so concurrent callers never
// observe interleaved source state. The source is injected so tests can
// substitute a deterministic reader.
type Issuer struct {
	mu     sync.Mutex
	source io.Reader
	hasher *Hasher
}

// NewIssuer creates an Issuer drawing from crypto/rand.
func NewIssuer(hasher *Hasher) *Issuer {
	return NewIssuerWithSource(hasher, rand.Reader)
}

// NewIssuerWithSource creates an Issuer drawing from the given source.
func NewIssuerWithSource(hasher *Hasher, source io.Reader) *Issuer {
	return &Issuer{source: source, hasher: hasher}
}

// Issue returns a fresh 24-character alphanumeric secret and its encoded
// argon2id hash.
func (i *Issuer) Issue() (plaintext, hash string, err error) {
	plaintext, err = i.randomSecret()
	if err != nil {
		return "", "", fmt.Errorf("generating secret: %w", err)
	}

	hash, err = i.hasher.Hash(plaintext)
	if err != nil {
		return "", "", err
	}

	return plaintext, hash, nil
}

// randomSecret draws secretLength characters from the alphanumeric alphabet.
// Rejection sampling keeps the distribution uniform. The lock is held only
// while randomness is consumed, never across persistence calls.
func (i *Issuer) randomSecret() (string, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	// Largest multiple of len(secretAlphabet) below 256.
	max := byte(256 / len(secretAlphabet) * len(secretAlphabet))

	secret := make([]byte, 0, secretLength)
	buf := make([]byte, secretLength)
	for len(secret) < secretLength {
		if _, err := io.ReadFull(i.source, buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if b >= max {
				continue
			}
			secret = append(secret, secretAlphabet[int(b)%len(secretAlphabet)])
			if len(secret) == secretLength {
				break
			}
		}
	}

	return string(secret), nil
}
