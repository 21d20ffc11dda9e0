package password_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/kodewithdky/chai-backend/internal/password"
)

func TestHasher_HashAndVerify(t *testing.T) {
	hasher := password.New(bcrypt.MinCost)

	digest, err := hasher.Hash("correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, digest)

	assert.True(t, hasher.Verify("correct horse battery staple", digest))
	assert.False(t, hasher.Verify("wrong password", digest))
}

func TestHasher_SaltedDigests(t *testing.T) {
	hasher := password.New(bcrypt.MinCost)

	first, err := hasher.Hash("same input")
	require.NoError(t, err)
	second, err := hasher.Hash("same input")
	require.NoError(t, err)

	// Per-call random salt: same plaintext, different digests, both verify.
	assert.NotEqual(t, first, second)
	assert.True(t, hasher.Verify("same input", first))
	assert.True(t, hasher.Verify("same input", second))
}

func TestHasher_MalformedDigest(t *testing.T) {
	hasher := password.New(bcrypt.MinCost)

	assert.False(t, hasher.Verify("anything", ""))
	assert.False(t, hasher.Verify("anything", "not-a-bcrypt-digest"))
}

func TestNew_CostOutOfRange(t *testing.T) {
	// Out-of-range costs fall back to the default rather than failing.
	hasher := password.New(-1)

	digest, err := hasher.Hash("pw")
	require.NoError(t, err)
	assert.True(t, hasher.Verify("pw", digest))
}
