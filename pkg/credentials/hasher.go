// Package credentials provides password hashing and random secret issuance.
package credentials

import (
	"errors"
	"fmt"

	"github.com/alexedwards/argon2id"
)

// ErrInvalidHashEncoding indicates a stored hash is not a well-formed
// argon2id encoded string. This is stored-data corruption, not a user error.
var ErrInvalidHashEncoding = errors.New("stored password hash is not a valid argon2id encoding")

// Hasher hashes and verifies secrets with argon2id. The encoded hash string
// embeds the parameters and a per-secret random salt, so verification needs
// no external state.
type Hasher struct {
	params *argon2id.Params
}

// NewHasher creates a Hasher with the default argon2id parameters.
func NewHasher() *Hasher {
	return &Hasher{params: argon2id.DefaultParams}
}

// Hash returns the encoded argon2id hash of secret with a fresh random salt.
func (h *Hasher) Hash(secret string) (string, error) {
	encoded, err := argon2id.CreateHash(secret, h.params)
	if err != nil {
		return "", fmt.Errorf("hashing secret: %w", err)
	}
	return encoded, nil
}

// Verify reports whether secret matches the encoded hash. A legitimate
// mismatch returns (false, nil); only a malformed stored hash or an internal
// fault returns an error.
func (h *Hasher) Verify(secret, encodedHash string) (bool, error) {
	match, err := argon2id.ComparePasswordAndHash(secret, encodedHash)
	if err != nil {
		if errors.Is(err, argon2id.ErrInvalidHash) || errors.Is(err, argon2id.ErrIncompatibleVariant) || errors.Is(err, argon2id.ErrIncompatibleVersion) {
			return false, ErrInvalidHashEncoding
		}
		return false, fmt.Errorf("verifying secret: %w", err)
	}
	return match, nil
}
