package credentials

import (
	"math/rand"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasher_RoundTrip(t *testing.T) {
	hasher := NewHasher()

	hash, err := hasher.Hash("correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

	match, err := hasher.Verify("correct horse battery staple", hash)
	require.NoError(t, err)
	assert.True(t, match)

	match, err = hasher.Verify("incorrect horse", hash)
	require.NoError(t, err)
	assert.False(t, match)
}

func TestHasher_DistinctSalts(t *testing.T) {
	hasher := NewHasher()

	first, err := hasher.Hash("secret")
	require.NoError(t, err)
	second, err := hasher.Hash("secret")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestHasher_InvalidEncoding(t *testing.T) {
	hasher := NewHasher()

	_, err := hasher.Verify("secret", "not-an-encoded-hash")
	assert.ErrorIs(t, err, ErrInvalidHashEncoding)
}

func TestIssuer_Issue(t *testing.T) {
	hasher := NewHasher()
	issuer := NewIssuerWithSource(hasher, rand.New(rand.NewSource(1)))

	plaintext, hash, err := issuer.Issue()
	require.NoError(t, err)

	assert.Len(t, plaintext, 24)
	for _, r := range plaintext {
		assert.Contains(t, secretAlphabet, string(r))
	}

	match, err := hasher.Verify(plaintext, hash)
	require.NoError(t, err)
	assert.True(t, match)
}

func TestIssuer_Deterministic(t *testing.T) {
	hasher := NewHasher()

	first, _, err := NewIssuerWithSource(hasher, rand.New(rand.NewSource(42))).Issue()
	require.NoError(t, err)
	second, _, err := NewIssuerWithSource(hasher, rand.New(rand.NewSource(42))).Issue()
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestIssuer_ConcurrentIssue(t *testing.T) {
	hasher := NewHasher()
	issuer := NewIssuerWithSource(hasher, rand.New(rand.NewSource(7)))

	var wg sync.WaitGroup
	secrets := make([]string, 8)
	for n := range secrets {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			plaintext, _, err := issuer.Issue()
			assert.NoError(t, err)
			secrets[n] = plaintext
		}(n)
	}
	wg.Wait()

	seen := map[string]bool{}
	for _, s := range secrets {
		assert.Len(t, s, 24)
		assert.False(t, seen[s], "issued secrets must not repeat")
		seen[s] = true
	}
}
